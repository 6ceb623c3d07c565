// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

// A Kind identifies a circuit primitive. The set is closed: evaluation
// dispatches over it with a single switch.
//
type Kind uint8

// Element kinds. Nand, Nor and Xnor have no kind of their own: the netlist
// loader maps them to And, Or and Xor with an inverted output pin.
//
const (
	And Kind = iota
	Or
	Xor
	Not
	JK        // JK flip-flop with async preset/clear
	DFlipFlop // D flip-flop with async preset/clear
	DLatch    // transparent D latch
	In        // externally driven input terminal
	Out       // observable output terminal
	Power     // fixed One driver
	Ground    // fixed Zero driver
)

var kindNames = [...]string{
	And: "And", Or: "Or", Xor: "Xor", Not: "Not",
	JK: "JK", DFlipFlop: "D", DLatch: "Latch",
	In: "In", Out: "Out", Power: "Power", Ground: "Ground",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "?"
}

// Input pin indices of the sequential kinds. Flip-flops: data pins, clock,
// then async preset and clear. Latch: data, enable.
const (
	ffJ     = 0 // JK
	ffD     = 0 // DFlipFlop, DLatch
	ffClk   = 1
	ffK     = 2 // JK
	jkPre   = 3
	jkClr   = 4
	dffPre  = 2
	dffClr  = 3
	latchEn = 1
)

// An Element is one circuit primitive: a gate, a flip-flop or a boundary
// terminal. Elements are created when the model is built and live as long as
// the model does. Combinational kinds are pure functions of their input
// nets; sequential kinds also carry the stored (Q, Q̄) pair, mutated only by
// the settle loop; In terminals carry an externally settable drive value.
//
type Element struct {
	id    int
	kind  Kind
	label string
	in    []*Pin
	out   []*Pin

	// sequential state
	q, qn   Signal
	prevClk Signal
	rising  bool      // clock edge polarity, false = falling
	forced  [2]Signal // (Q, Q̄) when preset and clear are asserted together

	// In terminal state
	value Signal
}

// Kind returns the element's kind.
//
func (e *Element) Kind() Kind { return e.kind }

// Label returns the element's loader-assigned label, which may be empty for
// anonymous gates.
//
func (e *Element) Label() string { return e.label }

// Inputs returns the element's input pins.
//
func (e *Element) Inputs() []*Pin { return e.in }

// Outputs returns the element's output pins.
//
func (e *Element) Outputs() []*Pin { return e.out }

// name returns a diagnostic name for the element.
func (e *Element) name() string {
	if e.label != "" {
		return e.kind.String() + " " + e.label
	}
	return e.kind.String()
}

// evaluate recomputes the element's output drives from the current input net
// values. It is called by the settle loop only, once per pass, and must not
// read anything the current pass has written: input reads go through the net
// values cached before the pass started, which makes the result independent
// of visitation order.
func (e *Element) evaluate() {
	switch e.kind {
	case And:
		e.out[0].setDrive(e.foldAnd())
	case Or:
		e.out[0].setDrive(e.foldOr())
	case Xor:
		e.out[0].setDrive(e.foldXor())
	case Not:
		switch v := e.in[0].read(); v {
		case Floating:
			// an open TTL input reads high
			e.out[0].setDrive(Zero)
		case Unknown:
			e.out[0].setDrive(Unknown)
		default:
			e.out[0].setDrive(v.Invert())
		}
	case JK:
		e.evalJK()
	case DFlipFlop:
		e.evalDFF()
	case DLatch:
		e.evalLatch()
	case In:
		e.out[0].setDrive(e.value)
	case Power:
		e.out[0].setDrive(One)
	case Ground:
		e.out[0].setDrive(Zero)
	case Out:
		// nothing to drive
	}
}

// foldAnd implements the short-circuit don't-care rule: a single Zero input
// decides the output no matter what the other inputs carry, so an undefined
// input only yields Unknown when the outcome is genuinely open.
func (e *Element) foldAnd() Signal {
	undef := false
	for _, p := range e.in {
		switch v := p.read(); {
		case v == Zero:
			return Zero
		case !v.Defined():
			undef = true
		}
	}
	if undef {
		return Unknown
	}
	return One
}

func (e *Element) foldOr() Signal {
	undef := false
	for _, p := range e.in {
		switch v := p.read(); {
		case v == One:
			return One
		case !v.Defined():
			undef = true
		}
	}
	if undef {
		return Unknown
	}
	return Zero
}

// foldXor has no deciding input value: any undefined input makes the parity
// unknown.
func (e *Element) foldXor() Signal {
	v := Zero
	for _, p := range e.in {
		s := p.read()
		if !s.Defined() {
			return Unknown
		}
		if s == One {
			v = v.Invert()
		}
	}
	return v
}

// clockEdge reports whether the clock input made the configured transition
// since the previous evaluation, and records the new level. The initial
// Floating prevClk cannot match either polarity, so the first driven clock
// level never registers as an edge.
func (e *Element) clockEdge() bool {
	clk := e.in[ffClk].read()
	prev := e.prevClk
	e.prevClk = clk
	if e.rising {
		return prev == Zero && clk == One
	}
	return prev == One && clk == Zero
}

// asserted reports whether an async override input is active. Active-low
// inputs carry the inverted flag on their pin, so One always means asserted
// here; a floating or unknown override is treated as released.
func asserted(p *Pin) bool { return p.read() == One }

// setState stores a new (Q, Q̄) pair and drives the output pins.
func (e *Element) setState(q, qn Signal) {
	e.q, e.qn = q, qn
	e.out[0].setDrive(e.q)
	e.out[1].setDrive(e.qn)
}

// applyAsync handles the asynchronous preset/clear overrides shared by both
// flip-flop kinds. It reports whether an override is asserted, in which case
// the clocked update must not run. Both asserted at once forces the
// device-configured output pair; the complementary-Q̄ invariant is suspended
// for exactly that case.
func (e *Element) applyAsync(pre, clr *Pin) bool {
	p, c := asserted(pre), asserted(clr)
	switch {
	case p && c:
		e.setState(e.forced[0], e.forced[1])
	case p:
		e.setState(One, Zero)
	case c:
		e.setState(Zero, One)
	default:
		return false
	}
	return true
}

func (e *Element) evalJK() {
	edge := e.clockEdge()
	if e.applyAsync(e.in[jkPre], e.in[jkClr]) {
		return
	}
	if !edge {
		e.setState(e.q, e.qn)
		return
	}
	j, k := e.in[ffJ].read(), e.in[ffK].read()
	switch {
	case !j.Defined() || !k.Defined():
		e.setState(Unknown, Unknown)
	case j == Zero && k == Zero:
		e.setState(e.q, e.qn) // hold
	case j == Zero:
		e.setState(Zero, One)
	case k == Zero:
		e.setState(One, Zero)
	default:
		e.setState(e.qn, e.q) // toggle
	}
}

func (e *Element) evalDFF() {
	edge := e.clockEdge()
	if e.applyAsync(e.in[dffPre], e.in[dffClr]) {
		return
	}
	if !edge {
		e.setState(e.q, e.qn)
		return
	}
	e.latchData(e.in[ffD].read())
}

func (e *Element) evalLatch() {
	switch en := e.in[latchEn].read(); {
	case en == One:
		e.latchData(e.in[ffD].read())
	case en == Zero:
		e.setState(e.q, e.qn) // opaque, hold
	default:
		e.setState(Unknown, Unknown)
	}
}

func (e *Element) latchData(d Signal) {
	if !d.Defined() {
		e.setState(Unknown, Unknown)
		return
	}
	e.setState(d, d.Invert())
}
