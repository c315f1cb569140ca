package main

import (
	"io"
	"strings"
)

// demoScript walks through every FixedBitSet operation on two 8-bit values,
// then builds a third one bit by bit.
const demoScript = `# logic
let bs1 = 10101010
let bs2 = 11001100
print bs1
print bs2
print bs1 & bs2
print bs1 | bs2
print bs1 ^ bs2
print ~bs1

# shifts
print bs1 << 2
print bs1 >> 2

# indexing
bit bs1 3
range bs1 1 5
size bs1
count bs1

# indexed writes
let bs3 = 0
print bs3
set bs3 0 1
set bs3 2 1
set bs3 4 1
set bs3 6 1
print bs3
count bs3
`

var demoLabels = []string{
	"bs1:",
	"bs2:",
	"AND (bs1 & bs2):",
	"OR (bs1 | bs2):",
	"XOR (bs1 ^ bs2):",
	"NOT (~bs1):",
	"Shift Left (bs1 << 2):",
	"Shift Right (bs1 >> 2):",
	"bs1[3]:",
	"bs1[1:5]:",
	"Size of bs1:",
	"Count of set bits in bs1:",
	"Initial bs3:",
	"Modified bs3:",
	"Count of set bits in bs3:",
}

// labelWriter prefixes each output line with the next label.
type labelWriter struct {
	out    io.Writer
	labels []string
	atBOL  bool
}

func (w *labelWriter) Write(p []byte) (int, error) {
	for i, c := range p {
		if w.atBOL && len(w.labels) > 0 {
			if _, err := io.WriteString(w.out, w.labels[0]+" "); err != nil {
				return i, err
			}
			w.labels = w.labels[1:]
		}
		if _, err := w.out.Write([]byte{c}); err != nil {
			return i, err
		}
		w.atBOL = c == '\n'
	}
	return len(p), nil
}

func runDemo(out io.Writer) error {
	interp := NewInterpreter(&labelWriter{out: out, labels: demoLabels, atBOL: true})
	interp.Name = "demo"
	return interp.Run(strings.NewReader(demoScript))
}
