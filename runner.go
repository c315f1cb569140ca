package main

import (
	"bytes"
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type scriptResult struct {
	Path   string
	Output []byte
}

// runScripts evaluates each script in its own goroutine with its own
// Interpreter. Results come back in the order of paths. The first failure
// cancels the scripts that have not started yet.
func runScripts(ctx context.Context, paths []string) ([]scriptResult, error) {
	results := make([]scriptResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)

	for i, path := range paths {
		i, path := i, path // per-iteration copy (go directive < 1.22)
		log.Debugf("discovered script %s", path)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := runScript(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = scriptResult{Path: path, Output: out}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debugf("ran %d scripts", len(results))
	return results, nil
}

func runScript(path string) ([]byte, error) {
	reader, err := openScript(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var out bytes.Buffer
	interp := NewInterpreter(&out)
	interp.Name = path
	if err := interp.Run(reader); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
