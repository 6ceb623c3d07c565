// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package testvec parses tabular test vectors and drives a dlsim.Model
// through them.
//
// A vector file is plain text. The first non-comment line names one model
// terminal per column; every following line carries one token per column
// from {0, 1, X, C, Z}. On a column bound to an input terminal, 0/1/Z drive
// that level (Z = stop driving), C runs a full clock pulse and X leaves the
// input unchanged. On a column bound to an output terminal, 0/1/Z assert the
// settled value and X skips the assertion. Blank lines and lines starting
// with # are ignored.
//
package testvec

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/db47h/dlsim"
)

// A Token is one cell of a test vector.
//
type Token uint8

// Vector tokens.
//
const (
	Lo    Token = iota // 0
	Hi                 // 1
	Any                // X: leave unchanged / don't check
	Pulse              // C: full clock pulse
	Float              // Z: explicit floating
)

var tokens = map[string]Token{"0": Lo, "1": Hi, "X": Any, "C": Pulse, "Z": Float}

var tokenNames = [...]string{"0", "1", "X", "C", "Z"}

func (t Token) String() string {
	if int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return "?"
}

// signal returns the Signal a token drives or asserts.
func (t Token) signal() dlsim.Signal {
	switch t {
	case Lo:
		return dlsim.Zero
	case Hi:
		return dlsim.One
	}
	return dlsim.Floating
}

// A Row is one line of vector data.
//
type Row struct {
	Line   int // line number in the source text
	Tokens []Token
}

// A Vector is a parsed test vector: a header naming the driven and checked
// terminals, and the data rows. It is plain data, independent of any model.
//
type Vector struct {
	Headers []string
	Rows    []Row
}

// Parse reads a test vector from r.
//
func Parse(r io.Reader) (*Vector, error) {
	v := &Vector{}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if v.Headers == nil {
			v.Headers = fields
			continue
		}
		if len(fields) != len(v.Headers) {
			return nil, errors.Errorf("line %d: got %d columns, want %d", line, len(fields), len(v.Headers))
		}
		row := Row{Line: line, Tokens: make([]Token, len(fields))}
		for i, f := range fields {
			t, ok := tokens[strings.ToUpper(f)]
			if !ok {
				return nil, errors.Errorf("line %d, column %s: invalid token %q", line, v.Headers[i], f)
			}
			row.Tokens[i] = t
		}
		v.Rows = append(v.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading test vector")
	}
	if v.Headers == nil {
		return nil, errors.New("empty test vector")
	}
	return v, nil
}

// A Mismatch is one failed assertion: the settled value of a checked output
// differed from the expected token.
//
type Mismatch struct {
	Row      int // 1-based data row number
	Line     int // line number in the source text
	Pin      string
	Expected dlsim.Signal
	Actual   dlsim.Signal
}

func (m Mismatch) String() string {
	return fmt.Sprintf("row %d (line %d): %s = %s, want %s", m.Row, m.Line, m.Pin, m.Actual, m.Expected)
}

// A Result collects the outcome of a vector run. Mismatches are not fatal:
// the runner keeps going and reports them all.
//
type Result struct {
	Rows       int
	Mismatches []Mismatch
}

// Passed reports whether every assertion of the run held.
//
func (r *Result) Passed() bool { return len(r.Mismatches) == 0 }

// Run drives m through v, row by row. Input columns are applied left to
// right, each one settling the model, then output columns are checked
// against the settled state. Run stops early only on a hard model failure
// such as an oscillation.
//
func Run(m *dlsim.Model, v *Vector) (*Result, error) {
	type binding struct {
		label string
		input bool
	}
	cols := make([]binding, len(v.Headers))
	for i, h := range v.Headers {
		switch {
		case m.HasInput(h):
			cols[i] = binding{label: h, input: true}
		case m.HasOutput(h):
			cols[i] = binding{label: h}
		default:
			return nil, errors.Errorf("column %s: no such terminal", h)
		}
	}

	res := &Result{}
	for ri, row := range v.Rows {
		res.Rows++
		for ci, t := range row.Tokens {
			b := cols[ci]
			if !b.input {
				if t == Pulse {
					return nil, errors.Errorf("row %d (line %d): clock pulse on output %s", ri+1, row.Line, b.label)
				}
				continue
			}
			var err error
			switch t {
			case Any:
				// leave unchanged
			case Pulse:
				err = m.PulseClock(b.label)
			default:
				err = m.SetInput(b.label, t.signal())
			}
			if err != nil {
				return res, errors.Wrapf(err, "row %d (line %d), column %s", ri+1, row.Line, b.label)
			}
		}
		for ci, t := range row.Tokens {
			b := cols[ci]
			if b.input || t == Any {
				continue
			}
			actual, err := m.Output(b.label)
			if err != nil {
				return res, errors.Wrapf(err, "row %d (line %d)", ri+1, row.Line)
			}
			if actual != t.signal() {
				res.Mismatches = append(res.Mismatches, Mismatch{
					Row:      ri + 1,
					Line:     row.Line,
					Pin:      b.label,
					Expected: t.signal(),
					Actual:   actual,
				})
			}
		}
	}
	return res, nil
}
