package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/astei/bitstring/bitstring"
	log "github.com/sirupsen/logrus"
)

const defaultWidth = 8

// Interpreter runs bit scripts. It owns every FixedBitSet bound to one of its
// variables, so an Interpreter must only be used from one goroutine.
type Interpreter struct {
	out   io.Writer
	width int
	vars  map[string]*bitstring.FixedBitSet
	Name  string
}

func NewInterpreter(out io.Writer) *Interpreter {
	return &Interpreter{
		out:   out,
		width: defaultWidth,
		vars:  make(map[string]*bitstring.FixedBitSet),
	}
}

func (in *Interpreter) lookup(name string) (*bitstring.FixedBitSet, bool) {
	v, ok := in.vars[name]
	return v, ok
}

// Eval evaluates a single expression at the current width.
func (in *Interpreter) Eval(expr string) (*bitstring.FixedBitSet, error) {
	return evalExpr(expr, in.width, in.lookup)
}

// Run executes every statement read from source. It stops at the first
// failing line.
func (in *Interpreter) Run(source io.Reader) error {
	scanner := bufio.NewScanner(source)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := in.Exec(line); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

// Exec executes one statement.
func (in *Interpreter) Exec(line string) error {
	keyword, rest := splitKeyword(line)
	log.Debugf("%s: exec %s", in.Name, line)

	switch keyword {
	case "width":
		n, err := parseInts(rest, 1)
		if err != nil {
			return err
		}
		if n[0] < 1 || n[0] > bitstring.MaxCapacity {
			return fmt.Errorf("%w: width %d outside [1, %d]", bitstring.ErrInvalidArgument, n[0], bitstring.MaxCapacity)
		}
		in.width = n[0]
		return nil

	case "let":
		name, expr, ok := strings.Cut(rest, "=")
		name = strings.TrimSpace(name)
		if !ok || !isIdent(name) {
			return fmt.Errorf("%w: expected let NAME = EXPR", ErrSyntax)
		}
		v, err := in.Eval(expr)
		if err != nil {
			return err
		}
		// a bare variable on the right must not alias the one being set
		in.vars[name] = v.Clone()
		return nil

	case "set":
		name, args := splitKeyword(rest)
		v, err := in.variable(name)
		if err != nil {
			return err
		}
		n, err := parseInts(args, 2)
		if err != nil {
			return err
		}
		return v.SetBit(n[0], n[1])

	case "print":
		v, err := in.Eval(rest)
		if err != nil {
			return err
		}
		return in.printf("%s\n", v)

	case "bit":
		name, args := splitKeyword(rest)
		v, err := in.variable(name)
		if err != nil {
			return err
		}
		n, err := parseInts(args, 1)
		if err != nil {
			return err
		}
		b, err := v.Bit(n[0])
		if err != nil {
			return err
		}
		return in.printf("%d\n", b)

	case "range":
		name, args := splitKeyword(rest)
		v, err := in.variable(name)
		if err != nil {
			return err
		}
		n, err := parseInts(args, 2)
		if err != nil {
			return err
		}
		return in.printf("%v\n", v.Range(n[0], n[1]))

	case "count":
		v, err := in.Eval(rest)
		if err != nil {
			return err
		}
		return in.printf("%d\n", v.Population())

	case "size":
		v, err := in.Eval(rest)
		if err != nil {
			return err
		}
		return in.printf("%d\n", v.Capacity())

	default:
		return fmt.Errorf("%w: unknown statement %q", ErrSyntax, keyword)
	}
}

func (in *Interpreter) variable(name string) (*bitstring.FixedBitSet, error) {
	v, ok := in.vars[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	return v, nil
}

func (in *Interpreter) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(in.out, format, args...)
	return err
}

func splitKeyword(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool { return r == ' ' || r == '\t' }); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

func parseInts(s string, want int) ([]int, error) {
	fields := strings.Fields(s)
	if len(fields) != want {
		return nil, fmt.Errorf("%w: expected %d integer arguments, got %d", ErrSyntax, want, len(fields))
	}
	out := make([]int, want)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrSyntax, f)
		}
		out[i] = n
	}
	return out, nil
}

func isIdent(s string) bool {
	tokens, err := tokenize(s)
	return err == nil && len(tokens) == 2 && tokens[0].kind == tokIdent
}
