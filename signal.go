// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

// A Signal is the value carried by a net or driven by a pin. It is a plain
// value type compared by equality.
//
type Signal uint8

// Signal values.
//
const (
	Zero     Signal = iota // driven low
	One                    // driven high
	Floating               // high impedance, no active driver
	Unknown                // contention or logically indeterminate
)

var signalNames = [...]string{"0", "1", "Z", "X"}

func (s Signal) String() string {
	if int(s) < len(signalNames) {
		return signalNames[s]
	}
	return "?"
}

// Defined returns true if s is an actively driven logic level (Zero or One).
//
func (s Signal) Defined() bool {
	return s == Zero || s == One
}

// UnknownOrFloating returns true if s carries no usable logic level.
//
func (s Signal) UnknownOrFloating() bool {
	return !s.Defined()
}

// Invert returns the logical complement of s. Floating and Unknown are left
// unchanged: inversion is a property of driven levels only.
//
func (s Signal) Invert() Signal {
	switch s {
	case Zero:
		return One
	case One:
		return Zero
	}
	return s
}

// Combine merges two signals driving the same net. A Floating side yields to
// the other driver; equal values merge to themselves; anything else is
// contention and yields Unknown. Detection of the Zero/One short-circuit case
// is left to Net.recompute, which sees all drivers.
//
func Combine(a, b Signal) Signal {
	switch {
	case a == Floating:
		return b
	case b == Floating:
		return a
	case a == b:
		return a
	}
	return Unknown
}
