// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/db47h/dlsim/logger"
)

// DefaultMaxPasses is the settle pass bound used unless overridden with
// MaxPasses. A combinational path through a realistic netlist is far
// shallower than this; only an oscillating circuit gets anywhere near it.
const DefaultMaxPasses = 1000

// A Model owns the elements and nets of one circuit instance and runs the
// settle loop over them. A Model is not safe for concurrent use: it is owned
// exclusively by whichever caller drives it. Independent Models share no
// state and may run in parallel with each other.
//
type Model struct {
	elems []*Element
	nets  []*Net

	inputs  map[string]*Element // In terminals by label
	outputs map[string]*Element // Out terminals by label

	dirty   *bitset.BitSet // elements scheduled for evaluation
	touched *bitset.BitSet // nets whose drivers changed this pass, reused across passes

	shorts    map[int]*ShortCircuit // active shorts by net id
	maxPasses int
	log       zerolog.Logger
}

// An Option configures a Model at construction time.
//
type Option func(*Model)

// MaxPasses overrides the settle pass bound.
//
func MaxPasses(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxPasses = n
		}
	}
}

// Logger overrides the model's logger, which defaults to the package root
// logger.
//
func Logger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

func newModel(opts ...Option) *Model {
	m := &Model{
		inputs:    make(map[string]*Element),
		outputs:   make(map[string]*Element),
		shorts:    make(map[int]*ShortCircuit),
		maxPasses: DefaultMaxPasses,
		log:       logger.Logger(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Elements returns all elements of the model.
//
func (m *Model) Elements() []*Element { return m.elems }

// Nets returns all nets of the model.
//
func (m *Model) Nets() []*Net { return m.nets }

// HasInput reports whether label names an In terminal.
//
func (m *Model) HasInput(label string) bool {
	_, ok := m.inputs[label]
	return ok
}

// HasOutput reports whether label names an Out terminal.
//
func (m *Model) HasOutput(label string) bool {
	_, ok := m.outputs[label]
	return ok
}

// SetInput sets the drive value of the named In terminal and settles the
// circuit before returning. Setting the value the terminal already carries
// is a no-op.
//
func (m *Model) SetInput(label string, v Signal) error {
	e, ok := m.inputs[label]
	if !ok {
		return errors.Errorf("no input terminal %q", label)
	}
	if e.value == v {
		return nil
	}
	e.value = v
	m.dirty.Set(uint(e.id))
	return m.Settle()
}

// Input returns the value currently driven by the named In terminal.
//
func (m *Model) Input(label string) (Signal, error) {
	e, ok := m.inputs[label]
	if !ok {
		return Unknown, errors.Errorf("no input terminal %q", label)
	}
	return e.value, nil
}

// Output returns the settled value read by the named Out terminal.
//
func (m *Model) Output(label string) (Signal, error) {
	e, ok := m.outputs[label]
	if !ok {
		return Unknown, errors.Errorf("no output terminal %q", label)
	}
	return e.in[0].read(), nil
}

// Probe returns the settled net value at any named terminal. Unlike Input,
// which reports the value an In terminal drives, Probe reports what its net
// carries: for a bidirectional port the two differ whenever another driver
// wins the bus.
//
func (m *Model) Probe(label string) (Signal, error) {
	if e, ok := m.inputs[label]; ok {
		return e.out[0].read(), nil
	}
	if e, ok := m.outputs[label]; ok {
		return e.in[0].read(), nil
	}
	return Unknown, errors.Errorf("no terminal %q", label)
}

// PulseClock drives the named In terminal through a full pulse: to the level
// opposite its current one, settle, back again, settle. A terminal resting at
// Floating or Unknown is first parked at Zero, so that the pulse always
// carries one rising and one falling transition and elements clocked on
// either edge polarity see exactly one matching transition.
//
func (m *Model) PulseClock(label string) error {
	e, ok := m.inputs[label]
	if !ok {
		return errors.Errorf("no input terminal %q", label)
	}
	level := e.value
	if !level.Defined() {
		// the return leg to an undefined level would not be an edge
		if err := m.SetInput(label, Zero); err != nil {
			return err
		}
		level = Zero
	}
	opposite := One
	if level == One {
		opposite = Zero
	}
	if err := m.SetInput(label, opposite); err != nil {
		return err
	}
	return m.SetInput(label, level)
}

// Shorts returns the currently shorted nets, ordered by net id. A short
// clears once the offending drivers stop conflicting.
//
func (m *Model) Shorts() []*ShortCircuit {
	s := make([]*ShortCircuit, 0, len(m.shorts))
	for _, sc := range m.shorts {
		s = append(s, sc)
	}
	sort.Slice(s, func(i, j int) bool { return s[i].Net.id < s[j].Net.id })
	return s
}

// Settle runs the circuit to a steady state and returns nil, or an
// *OscillationError if the pass bound is exceeded first. Each pass has two
// phases: every scheduled element is evaluated against the net values cached
// before the pass, then the nets whose drivers changed are recomputed and
// their consumers scheduled. Evaluation never observes a value written in
// the same pass, so the steady state does not depend on visitation order.
//
// Settle is idempotent: with nothing scheduled it returns immediately.
//
func (m *Model) Settle() error {
	for pass := 0; ; pass++ {
		if m.dirty.None() {
			if pass > 0 {
				m.log.Debug().Int("passes", pass).Msg("settled")
			}
			return nil
		}
		if pass >= m.maxPasses {
			return m.oscillation(pass)
		}

		m.touched.ClearAll()
		for i, ok := m.dirty.NextSet(0); ok; i, ok = m.dirty.NextSet(i + 1) {
			e := m.elems[i]
			e.evaluate()
			for _, p := range e.out {
				if p.drive != p.net.value || p.net.shorted {
					m.touched.Set(uint(p.net.id))
				}
			}
		}
		m.dirty.ClearAll()

		for i, ok := m.touched.NextSet(0); ok; i, ok = m.touched.NextSet(i + 1) {
			n := m.nets[i]
			changed, shorted := n.recompute()
			m.noteShort(n, shorted)
			if !changed {
				continue
			}
			for _, p := range n.pins {
				if p.dir != Output {
					m.dirty.Set(uint(p.elem.id))
				}
			}
		}
	}
}

// oscillation builds the error naming one still-dirty element and, when it
// has one, the output net it keeps toggling.
func (m *Model) oscillation(passes int) error {
	i, _ := m.dirty.NextSet(0)
	e := m.elems[i]
	err := &OscillationError{Passes: passes, Elem: e}
	for _, p := range e.out {
		if m.touched.Test(uint(p.net.id)) {
			err.Net = p.net
			break
		}
	}
	if err.Net == nil && len(e.out) > 0 {
		err.Net = e.out[0].net
	}
	m.log.Error().Int("passes", passes).Str("element", e.name()).Msg("oscillation")
	return err
}

func (m *Model) noteShort(n *Net, shorted bool) {
	if !shorted {
		delete(m.shorts, n.id)
		return
	}
	if _, known := m.shorts[n.id]; known {
		return
	}
	m.shorts[n.id] = &ShortCircuit{Net: n}
	m.log.Warn().Str("net", n.Label()).Msg("short circuit")
}

// start schedules every element and runs the initial settle, bringing a
// freshly built model to its steady state.
func (m *Model) start() error {
	m.dirty = bitset.New(uint(len(m.elems)))
	m.touched = bitset.New(uint(len(m.nets)))
	for _, e := range m.elems {
		m.dirty.Set(uint(e.id))
	}
	return m.Settle()
}
