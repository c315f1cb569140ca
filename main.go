package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:    "bitstring",
		Usage:   "evaluates bitwise logic and shifts on fixed-size bit strings",
		Version: "0.1.0",
		Writer:  out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "log every statement as it runs"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "walk through every bit string operation on two 8-bit values",
				Action: func(c *cli.Context) error {
					return runDemo(c.App.Writer)
				},
			},
			{
				Name:      "eval",
				Usage:     "evaluate expressions and print their bit strings",
				ArgsUsage: "EXPR...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Value: defaultWidth, Usage: "width of bit literals (1-100)"},
				},
				Action: evalAction,
			},
			{
				Name:      "run",
				Usage:     "run bit scripts (plain, gzip or zstd)",
				ArgsUsage: "FILE...",
				Action:    runAction,
			},
		},
	}
}

func evalAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("need at least one expression")
	}
	interp := NewInterpreter(c.App.Writer)
	interp.Name = "eval"
	if err := interp.Exec(fmt.Sprintf("width %d", c.Int("width"))); err != nil {
		return err
	}
	for _, expr := range c.Args().Slice() {
		v, err := interp.Eval(expr)
		if err != nil {
			return fmt.Errorf("%s: %w", expr, err)
		}
		if _, err := fmt.Fprintln(c.App.Writer, v); err != nil {
			return err
		}
	}
	return nil
}

func runAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("need a script to run")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := runScripts(ctx, c.Args().Slice())
	if err != nil {
		return err
	}
	for _, res := range results {
		if len(results) > 1 {
			fmt.Fprintf(c.App.Writer, "==> %s <==\n", res.Path)
		}
		if _, err := c.App.Writer.Write(res.Output); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	log.SetOutput(os.Stderr)
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
