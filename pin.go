// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

// A Direction tells whether a pin reads its net, drives it, or both.
//
type Direction uint8

// Pin directions.
//
const (
	Input Direction = iota
	Output
	Bidirectional
)

func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	case Bidirectional:
		return "bidirectional"
	}
	return "?"
}

// A Pin belongs to exactly one Element and, once the model is wired, to
// exactly one Net. Output and Bidirectional pins drive a value into their
// net; Input and Bidirectional pins read the net's combined value.
//
// The inverted flag implements the owning element's inverter configuration:
// reads and drives through an inverted pin are complemented transparently, so
// the element evaluation code never sees inversion.
//
type Pin struct {
	elem     *Element
	net      *Net
	num      int // loader-assigned pin number
	dir      Direction
	inverted bool
	drive    Signal // value currently driven into the net, Floating if none
}

// Element returns the pin's owning element.
//
func (p *Pin) Element() *Element { return p.elem }

// Net returns the net the pin is wired to.
//
func (p *Pin) Net() *Net { return p.net }

// Number returns the loader-assigned pin number.
//
func (p *Pin) Number() int { return p.num }

// Direction returns the pin's direction.
//
func (p *Pin) Direction() Direction { return p.dir }

// read returns the pin's view of its net value, inversion applied.
func (p *Pin) read() Signal {
	v := p.net.Value()
	if p.inverted {
		v = v.Invert()
	}
	return v
}

// setDrive updates the value the pin drives into its net, inversion applied,
// and reports whether the driven value changed.
func (p *Pin) setDrive(v Signal) bool {
	if p.inverted {
		v = v.Invert()
	}
	if p.drive == v {
		return false
	}
	p.drive = v
	return true
}
