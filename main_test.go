package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/astei/bitstring/bitstring"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := newApp(&out).Run(append([]string{"bitstring"}, args...))
	return out.String(), err
}

func TestDemo(t *testing.T) {
	out, err := runApp(t, "demo")
	require.NoError(t, err)
	assert.Equal(t, `bs1: 10101010
bs2: 11001100
AND (bs1 & bs2): 10001000
OR (bs1 | bs2): 11101110
XOR (bs1 ^ bs2): 01100110
NOT (~bs1): 01010101
Shift Left (bs1 << 2): 10101000
Shift Right (bs1 >> 2): 00101010
bs1[3]: 0
bs1[1:5]: [0 1 0 1]
Size of bs1: 8
Count of set bits in bs1: 4
Initial bs3: 00000000
Modified bs3: 10101010
Count of set bits in bs3: 4
`, out)
}

func TestEvalCommand(t *testing.T) {
	out, err := runApp(t, "eval", "10101010 & 11001100", "~1")
	require.NoError(t, err)
	assert.Equal(t, "10001000\n01111111\n", out)

	out, err = runApp(t, "eval", "--width", "4", "1 | 0001")
	require.NoError(t, err)
	assert.Equal(t, "1001\n", out)
}

func TestEvalCommand_Errors(t *testing.T) {
	_, err := runApp(t, "eval")
	assert.Error(t, err)

	_, err = runApp(t, "eval", "--width", "101", "1")
	assert.ErrorIs(t, err, bitstring.ErrInvalidArgument)

	_, err = runApp(t, "eval", "012")
	assert.ErrorIs(t, err, bitstring.ErrInvalidArgument)
}

func TestRunCommand(t *testing.T) {
	a := writeTemp(t, "a", []byte("print 1\n"))
	b := writeTemp(t, "b.gz", gzipBytes(t, []byte("count 11\n")))

	out, err := runApp(t, "run", a)
	require.NoError(t, err)
	assert.Equal(t, "10000000\n", out)

	out, err = runApp(t, "run", a, b)
	require.NoError(t, err)
	assert.Equal(t, "==> "+a+" <==\n10000000\n==> "+b+" <==\n2\n", out)

	_, err = runApp(t, "run")
	assert.Error(t, err)
}

func TestVersionAndVerboseFlags(t *testing.T) {
	out, err := runApp(t, "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "0.1.0")

	defer log.SetLevel(log.GetLevel())
	out, err = runApp(t, "--verbose", "eval", "1")
	require.NoError(t, err)
	assert.Equal(t, "10000000\n", out)
}

func TestEvalCommand_LogsAsEval(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()
	defer log.SetLevel(log.GetLevel())

	_, err := runApp(t, "--verbose", "eval", "1")
	require.NoError(t, err)

	var execLines []string
	for _, e := range hook.AllEntries() {
		if strings.Contains(e.Message, "exec") {
			execLines = append(execLines, e.Message)
		}
	}
	require.NotEmpty(t, execLines)
	for _, msg := range execLines {
		assert.True(t, strings.HasPrefix(msg, "eval: exec "), msg)
	}
}

var errWriteClosed = errors.New("write on closed pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWriteClosed
}

func TestEvalCommand_WriteError(t *testing.T) {
	err := newApp(failingWriter{}).Run([]string{"bitstring", "eval", "1"})
	assert.ErrorIs(t, err, errWriteClosed)
}
