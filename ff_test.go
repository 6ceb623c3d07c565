// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim_test

import (
	"testing"

	"github.com/db47h/dlsim"
)

// jk builds a JK flip-flop with active-low preset and clear, the 7476
// pinout the device tables describe. All control inputs are terminals.
func jk(t *testing.T) *dlsim.Model {
	t.Helper()
	b := newBuilder()
	for _, in := range []string{"j", "clk", "k", "pre", "clr"} {
		b.add(dlsim.Decl{Kind: "in", Label: in, Default: dlsim.One}, in)
	}
	// pins: J, C, K, PRE, CLR, Q, QN; preset/clear active low
	b.add(dlsim.Decl{Kind: "jk", InvertIn: 1<<3 | 1<<4}, "j", "clk", "k", "pre", "clr", "q", "qn")
	b.el("out", "q", "q")
	b.el("out", "qn", "qn")
	return b.model(t)
}

func checkQ(t *testing.T, m *dlsim.Model, q, qn dlsim.Signal) {
	t.Helper()
	if got := out(t, m, "q"); got != q {
		t.Errorf("Q = %s, want %s", got, q)
	}
	if got := out(t, m, "qn"); got != qn {
		t.Errorf("~Q = %s, want %s", got, qn)
	}
}

// the literal device table from the 7476 data sheet.
func TestJK_deviceTable(t *testing.T) {
	m := jk(t)

	set(t, m, "clr", lo) // async clear
	checkQ(t, m, lo, hi)

	set(t, m, "clr", hi)
	set(t, m, "pre", lo) // async preset
	checkQ(t, m, hi, lo)
	set(t, m, "pre", hi)

	set(t, m, "j", hi)
	set(t, m, "k", lo)
	pulse(t, m, "clk")
	checkQ(t, m, hi, lo)

	set(t, m, "j", lo)
	set(t, m, "k", hi)
	pulse(t, m, "clk")
	checkQ(t, m, lo, hi)

	// J=K=1: every pulse toggles
	set(t, m, "j", hi)
	pulse(t, m, "clk")
	checkQ(t, m, hi, lo)
	pulse(t, m, "clk")
	checkQ(t, m, lo, hi)
	pulse(t, m, "clk")
	checkQ(t, m, hi, lo)
}

func TestJK_hold(t *testing.T) {
	m := jk(t)
	set(t, m, "pre", lo)
	set(t, m, "pre", hi)
	set(t, m, "j", lo)
	set(t, m, "k", lo)
	pulse(t, m, "clk")
	checkQ(t, m, hi, lo) // J=K=0 holds
}

// both async overrides asserted force the documented output pair: Q and ~Q
// both high, the complementary invariant suspended.
func TestJK_presetAndClear(t *testing.T) {
	m := jk(t)
	set(t, m, "pre", lo)
	set(t, m, "clr", lo)
	checkQ(t, m, hi, hi)

	set(t, m, "pre", hi) // clear alone wins again
	checkQ(t, m, lo, hi)
}

// asynchronous overrides apply regardless of the clock level.
func TestJK_asyncBeatsClock(t *testing.T) {
	m := jk(t)
	set(t, m, "j", hi)
	set(t, m, "k", lo)
	pulse(t, m, "clk")
	checkQ(t, m, hi, lo)

	set(t, m, "clr", lo)
	checkQ(t, m, lo, hi)
	// a clock pulse while clear is asserted must not set Q
	pulse(t, m, "clk")
	checkQ(t, m, lo, hi)
}

func dff(t *testing.T, rising bool) *dlsim.Model {
	t.Helper()
	b := newBuilder()
	b.el("in", "d", "d")
	b.el("in", "clk", "clk")
	b.add(dlsim.Decl{Kind: "in", Label: "pre", Default: dlsim.One}, "pre")
	b.add(dlsim.Decl{Kind: "in", Label: "clr", Default: dlsim.One}, "clr")
	b.add(dlsim.Decl{Kind: "d", RisingEdge: rising, InvertIn: 1<<2 | 1<<3},
		"d", "clk", "pre", "clr", "q", "qn")
	b.el("out", "q", "q")
	b.el("out", "qn", "qn")
	return b.model(t)
}

func TestDFF_fallingEdge(t *testing.T) {
	m := dff(t, false)
	set(t, m, "d", hi)
	checkQ(t, m, lo, hi) // no edge yet

	set(t, m, "clk", hi) // rising edge: ignored
	checkQ(t, m, lo, hi)
	set(t, m, "clk", lo) // falling edge: capture
	checkQ(t, m, hi, lo)

	set(t, m, "d", lo) // no edge, Q holds
	checkQ(t, m, hi, lo)
}

func TestDFF_risingEdge(t *testing.T) {
	m := dff(t, true)
	set(t, m, "d", hi)
	set(t, m, "clk", hi)
	checkQ(t, m, hi, lo)
	set(t, m, "d", lo)
	set(t, m, "clk", lo)
	checkQ(t, m, hi, lo)
	set(t, m, "clk", hi)
	checkQ(t, m, lo, hi)
}

// a clock terminal resting at Floating or Unknown still delivers a full
// pulse: PulseClock parks it low first, so the falling-edge capture fires.
func TestDFF_pulseFromUndefinedClock(t *testing.T) {
	b := newBuilder()
	b.el("in", "d", "d")
	b.add(dlsim.Decl{Kind: "in", Label: "clk", Default: dlsim.Floating}, "clk")
	b.add(dlsim.Decl{Kind: "in", Label: "pre", Default: dlsim.One}, "pre")
	b.add(dlsim.Decl{Kind: "in", Label: "clr", Default: dlsim.One}, "clr")
	b.add(dlsim.Decl{Kind: "d", InvertIn: 1<<2 | 1<<3}, "d", "clk", "pre", "clr", "q", "qn")
	b.el("out", "q", "q")
	b.el("out", "qn", "qn")
	m := b.model(t)

	set(t, m, "d", hi)
	pulse(t, m, "clk")
	checkQ(t, m, hi, lo)
	if v, err := m.Input("clk"); err != nil || v != lo {
		t.Errorf("clock rests at %s (%v), want 0", v, err)
	}

	set(t, m, "d", lo)
	set(t, m, "clk", un)
	pulse(t, m, "clk")
	checkQ(t, m, lo, hi)
}

func TestDFF_unknownData(t *testing.T) {
	m := dff(t, false)
	set(t, m, "d", un)
	set(t, m, "clk", hi)
	set(t, m, "clk", lo)
	checkQ(t, m, un, un)
}

func TestLatch_transparent(t *testing.T) {
	b := newBuilder()
	b.el("in", "d", "d")
	b.el("in", "en", "en")
	b.el("latch", "", "d", "en", "q", "qn")
	b.el("out", "q", "q")
	b.el("out", "qn", "qn")
	m := b.model(t)

	set(t, m, "en", hi)
	set(t, m, "d", hi) // transparent: Q follows D
	checkQ(t, m, hi, lo)
	set(t, m, "d", lo)
	checkQ(t, m, lo, hi)

	set(t, m, "d", hi)
	set(t, m, "en", lo) // opaque: Q holds
	set(t, m, "d", lo)
	checkQ(t, m, hi, lo)
}
