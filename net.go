// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

// A Net is a maximal set of electrically joined pins carrying one combined
// Signal value. Nets are formed once, during model construction, by merging
// all pins transitively joined by wires; afterwards only the cached value
// changes.
//
type Net struct {
	id      int
	label   string // label of an attached terminal, for diagnostics
	pins    []*Pin
	drivers []*Pin // Output and Bidirectional members of pins
	value   Signal
	shorted bool
}

func newNet(id int) *Net {
	return &Net{id: id, value: Floating}
}

// ID returns the net's index within its model.
//
func (n *Net) ID() int { return n.id }

// Label returns a human readable name for the net: the label of an attached
// terminal if there is one, or a generated name.
//
func (n *Net) Label() string { return n.label }

// Value returns the net's cached combined value.
//
func (n *Net) Value() Signal { return n.value }

// Pins returns the pins wired to this net.
//
func (n *Net) Pins() []*Pin { return n.pins }

func (n *Net) addPin(p *Pin) {
	n.pins = append(n.pins, p)
	p.net = n
	if p.dir != Input {
		n.drivers = append(n.drivers, p)
	}
}

// recompute folds Combine over all driving pins and updates the cached
// value. It reports whether the value changed and whether the net is
// currently shorted (two drivers asserting opposite levels).
func (n *Net) recompute() (changed, shorted bool) {
	v := Floating
	var lo, hi bool
	for _, p := range n.drivers {
		v = Combine(v, p.drive)
		switch p.drive {
		case Zero:
			lo = true
		case One:
			hi = true
		}
	}
	n.shorted = lo && hi
	if v == n.value {
		return false, n.shorted
	}
	n.value = v
	return true, n.shorted
}
