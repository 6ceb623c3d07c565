// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim

import "fmt"

// An OscillationError is returned by Settle when the circuit fails to reach
// a steady state within the pass bound. The model's values are left in place
// but are not meaningful until inputs are corrected and a subsequent settle
// succeeds.
//
type OscillationError struct {
	Passes int      // settle passes run before giving up
	Elem   *Element // an element still scheduled for re-evaluation
	Net    *Net     // one of its still-changing nets, may be nil
}

func (e *OscillationError) Error() string {
	if e.Net != nil {
		return fmt.Sprintf("no steady state after %d passes: %s keeps toggling net %s",
			e.Passes, e.Elem.name(), e.Net.Label())
	}
	return fmt.Sprintf("no steady state after %d passes: %s keeps re-evaluating",
		e.Passes, e.Elem.name())
}

// A ShortCircuit reports contention on a net: at least two drivers asserting
// opposite levels. It is a warning, not a failure: the net reads Unknown and
// simulation continues.
//
type ShortCircuit struct {
	Net *Net
}

func (e *ShortCircuit) Error() string {
	return fmt.Sprintf("short circuit on net %s", e.Net.Label())
}
