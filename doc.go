/*
Package dlsim is a gate-level digital logic simulation engine.

It consumes a fully resolved netlist (elements, pins and wires, as produced
by an external schematic editor or loader), computes a consistent assignment
of logic values to every net, and propagates changes caused by input edits or
clock pulses until the circuit reaches a steady state or is proven to
oscillate.

Values are multi-valued: driven Zero and One, Floating (high impedance) and
Unknown (contention or indeterminate). Nets accept multiple drivers;
conflicting drivers read Unknown and raise a non-fatal short-circuit warning.
Sequential elements are edge triggered with asynchronous preset/clear
overrides. Given the same input history a model always reaches the same
sequence of steady states, which makes declarative test vectors (see the
testvec package) meaningful.

*/
package dlsim
