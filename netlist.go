// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// An XY is a connection-point coordinate on the loader's grid. The engine
// does not interpret coordinates: they only key the one-time union-find
// merge of pins into nets and are discarded afterwards.
//
type XY struct {
	X, Y int
}

// A Wire electrically joins its two endpoints. Wires touching each other or
// a pin at the same coordinate merge into one net.
//
type Wire struct {
	A, B XY
}

// A Decl describes one element of a netlist, as produced by the external
// schematic loader. Pins lists the element's connection points in pin order;
// see the Kind constants for each kind's pin layout.
//
type Decl struct {
	Kind  string // kind tag, case insensitive: and, nand, or, nor, xor, xnor, not, jk, d, latch, in, out, power, ground
	Label string // terminal name, also used in diagnostics

	Inputs     int        // input count for variable-arity gates, default 2
	InvertIn   uint64     // bitmask of logically inverted input pins
	InvertOut  uint64     // bitmask of logically inverted output pins
	Default    Signal     // initial drive value of an In terminal
	RisingEdge bool       // clock polarity for flip-flops, default falling
	Forced     *[2]Signal // (Q, Q̄) when preset and clear are asserted together, default (1, 1)
	Number     int        // loader-assigned pin number for terminals
	Bidir      bool       // make an In terminal's pin bidirectional: it drives and reads its net

	Pins []XY // connection point of each pin, in pin order
	Pos  XY   // element position, carried for round-trip fidelity only
}

// A Netlist is a fully resolved circuit description handed over by the
// external loader.
//
type Netlist struct {
	Elements []Decl
	Wires    []Wire
}

// pin layout of each kind: input count (-1 = variable) and output count.
type pinLayout struct {
	kind      Kind
	in, out   int
	invertOut uint64 // implicit output inversion for nand/nor/xnor tags
}

var kindTags = map[string]pinLayout{
	"and":    {kind: And, in: -1, out: 1},
	"nand":   {kind: And, in: -1, out: 1, invertOut: 1},
	"or":     {kind: Or, in: -1, out: 1},
	"nor":    {kind: Or, in: -1, out: 1, invertOut: 1},
	"xor":    {kind: Xor, in: -1, out: 1},
	"xnor":   {kind: Xor, in: -1, out: 1, invertOut: 1},
	"not":    {kind: Not, in: 1, out: 1},
	"jk":     {kind: JK, in: 5, out: 2},
	"d":      {kind: DFlipFlop, in: 4, out: 2},
	"latch":  {kind: DLatch, in: 2, out: 2},
	"in":     {kind: In, in: 0, out: 1},
	"out":    {kind: Out, in: 1, out: 0},
	"power":  {kind: Power, in: 0, out: 1},
	"ground": {kind: Ground, in: 0, out: 1},
}

// NewModel builds a Model from a netlist and settles it to its initial
// steady state. A non-nil model is returned even when the initial settle
// reports an oscillation, so the caller can inspect it; structural netlist
// errors return a nil model.
//
func NewModel(n *Netlist, opts ...Option) (*Model, error) {
	m := newModel(opts...)
	uf := newMerger()

	for i := range n.Elements {
		d := &n.Elements[i]
		if _, err := m.addElement(d); err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		for _, pt := range d.Pins {
			uf.add(pt)
		}
	}
	for _, w := range n.Wires {
		uf.join(w.A, w.B)
	}

	// one net per merged group of connection points
	netAt := make(map[XY]*Net)
	for i := range n.Elements {
		d := &n.Elements[i]
		e := m.elems[i]
		for j, pt := range d.Pins {
			root := uf.root(pt)
			net, ok := netAt[root]
			if !ok {
				net = newNet(len(m.nets))
				m.nets = append(m.nets, net)
				netAt[root] = net
			}
			net.addPin(pin(e, j))
			// the first terminal in declaration order names the net
			if net.label == "" && (e.kind == In || e.kind == Out) {
				net.label = e.label
			}
		}
	}
	for _, net := range m.nets {
		if net.label == "" {
			net.label = "#" + strconv.Itoa(net.id)
		}
	}

	return m, m.start()
}

func (m *Model) addElement(d *Decl) (*Element, error) {
	lay, ok := kindTags[strings.ToLower(d.Kind)]
	if !ok {
		return nil, errors.Errorf("unknown element kind %q", d.Kind)
	}
	if d.Bidir && lay.kind != In {
		return nil, errors.Errorf("%s: bidir is only valid on in terminals", d.Kind)
	}
	nin := lay.in
	if nin < 0 {
		nin = d.Inputs
		if nin == 0 {
			nin = 2
		}
		if nin < 1 {
			return nil, errors.Errorf("%s: invalid input count %d", d.Kind, d.Inputs)
		}
	}
	if len(d.Pins) != nin+lay.out {
		return nil, errors.Errorf("%s: got %d connection points, want %d", d.Kind, len(d.Pins), nin+lay.out)
	}

	e := &Element{
		id:      len(m.elems),
		kind:    lay.kind,
		label:   d.Label,
		rising:  d.RisingEdge,
		forced:  [2]Signal{One, One},
		q:       Zero,
		qn:      One,
		prevClk: Floating,
		value:   d.Default,
	}
	if d.Forced != nil {
		e.forced = *d.Forced
	}
	for i := 0; i < nin; i++ {
		e.in = append(e.in, &Pin{
			elem:     e,
			dir:      Input,
			num:      pinNumber(d, i),
			inverted: d.InvertIn>>uint(i)&1 == 1,
			drive:    Floating,
		})
	}
	outDir := Output
	if d.Bidir {
		outDir = Bidirectional
	}
	for i := 0; i < lay.out; i++ {
		e.out = append(e.out, &Pin{
			elem:     e,
			dir:      outDir,
			num:      pinNumber(d, nin+i),
			inverted: (d.InvertOut|lay.invertOut)>>uint(i)&1 == 1,
			drive:    Floating,
		})
	}

	switch lay.kind {
	case In:
		if d.Label == "" {
			return nil, errors.New("in terminal without a label")
		}
		if _, dup := m.inputs[d.Label]; dup {
			return nil, errors.Errorf("duplicate input terminal %q", d.Label)
		}
		m.inputs[d.Label] = e
	case Out:
		if d.Label == "" {
			return nil, errors.New("out terminal without a label")
		}
		if _, dup := m.outputs[d.Label]; dup {
			return nil, errors.Errorf("duplicate output terminal %q", d.Label)
		}
		m.outputs[d.Label] = e
	}

	m.elems = append(m.elems, e)
	return e, nil
}

// pinNumber returns the loader pin number for pin index i: terminals carry
// an explicit number, everything else is numbered by pin order.
func pinNumber(d *Decl, i int) int {
	if d.Number != 0 {
		return d.Number + i
	}
	return i
}

// pin returns element pin j in declaration order, inputs first.
func pin(e *Element, j int) *Pin {
	if j < len(e.in) {
		return e.in[j]
	}
	return e.out[j-len(e.in)]
}

// merger is a union-find over connection-point coordinates, with path
// compression. Wire geometry exists only here; once nets are formed it is
// discarded with the Netlist.
type merger struct {
	parent map[XY]XY
}

func newMerger() *merger {
	return &merger{parent: make(map[XY]XY)}
}

func (u *merger) add(p XY) {
	if _, ok := u.parent[p]; !ok {
		u.parent[p] = p
	}
}

func (u *merger) root(p XY) XY {
	u.add(p)
	for u.parent[p] != p {
		u.parent[p] = u.parent[u.parent[p]]
		p = u.parent[p]
	}
	return p
}

func (u *merger) join(a, b XY) {
	ra, rb := u.root(a), u.root(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}
