// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package dlsim_test

import (
	"strings"
	"testing"

	"github.com/db47h/dlsim"
)

func TestNetlist_wireMerging(t *testing.T) {
	// a chain of wires and a T junction all collapse into one net
	b := newBuilder()
	b.el("in", "a", "p0")
	b.el("out", "q", "p3")
	b.el("out", "r", "p4")
	b.wire("p0", "p1")
	b.wire("p1", "p2")
	b.wire("p2", "p3")
	b.wire("p1", "p4")
	m := b.model(t)

	set(t, m, "a", hi)
	if got := out(t, m, "q"); got != hi {
		t.Errorf("q = %s, want 1", got)
	}
	if got := out(t, m, "r"); got != hi {
		t.Errorf("r = %s, want 1", got)
	}
}

func TestNetlist_unconnectedPinsAreFloating(t *testing.T) {
	b := newBuilder()
	b.el("out", "q", "alone")
	m := b.model(t)
	if got := out(t, m, "q"); got != fl {
		t.Errorf("unconnected pin reads %s, want Z", got)
	}
}

// diagnostics are attributed to the first terminal in declaration order,
// whatever mix of terminals shares the net.
func TestNetlist_netLabel(t *testing.T) {
	b := newBuilder()
	b.el("out", "q", "n")
	b.el("in", "a", "n")
	m := b.model(t)
	if got := m.Nets()[0].Label(); got != "q" {
		t.Errorf("net labeled %q, want %q", got, "q")
	}

	b = newBuilder()
	b.el("in", "a", "n")
	b.el("out", "q", "n")
	m = b.model(t)
	if got := m.Nets()[0].Label(); got != "a" {
		t.Errorf("net labeled %q, want %q", got, "a")
	}
}

func TestNetlist_errors(t *testing.T) {
	tests := []struct {
		name string
		nl   dlsim.Netlist
		msg  string
	}{
		{
			name: "unknown kind",
			nl: dlsim.Netlist{Elements: []dlsim.Decl{
				{Kind: "frobnicator", Pins: []dlsim.XY{{}}},
			}},
			msg: "unknown element kind",
		},
		{
			name: "wrong pin count",
			nl: dlsim.Netlist{Elements: []dlsim.Decl{
				{Kind: "and", Pins: []dlsim.XY{{X: 1}, {X: 2}}},
			}},
			msg: "connection points",
		},
		{
			name: "unlabeled terminal",
			nl: dlsim.Netlist{Elements: []dlsim.Decl{
				{Kind: "in", Pins: []dlsim.XY{{}}},
			}},
			msg: "without a label",
		},
		{
			name: "duplicate terminal label",
			nl: dlsim.Netlist{Elements: []dlsim.Decl{
				{Kind: "in", Label: "a", Pins: []dlsim.XY{{X: 1}}},
				{Kind: "in", Label: "a", Pins: []dlsim.XY{{X: 2}}},
			}},
			msg: "duplicate",
		},
		{
			name: "bidir on a gate",
			nl: dlsim.Netlist{Elements: []dlsim.Decl{
				{Kind: "and", Bidir: true, Pins: []dlsim.XY{{X: 1}, {X: 2}, {X: 3}}},
			}},
			msg: "bidir",
		},
		{
			name: "bad input count",
			nl: dlsim.Netlist{Elements: []dlsim.Decl{
				{Kind: "and", Inputs: -2, Pins: []dlsim.XY{{X: 1}}},
			}},
			msg: "input count",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, err := dlsim.NewModel(&tc.nl)
			if err == nil {
				t.Fatal("expected a construction error")
			}
			if m != nil {
				t.Error("structural errors must not return a model")
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("error %q does not mention %q", err, tc.msg)
			}
		})
	}
}

// element identity must be locatable from the error text.
func TestNetlist_errorContext(t *testing.T) {
	nl := dlsim.Netlist{Elements: []dlsim.Decl{
		{Kind: "in", Label: "a", Pins: []dlsim.XY{{X: 1}}},
		{Kind: "jk", Pins: []dlsim.XY{{X: 2}}},
	}}
	_, err := dlsim.NewModel(&nl)
	if err == nil {
		t.Fatal("expected a construction error")
	}
	if !strings.Contains(err.Error(), "element 1") {
		t.Errorf("error %q does not name the offending element", err)
	}
}
