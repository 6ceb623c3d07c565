// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command dlsim runs a test vector against a netlist.
//
// The netlist is a JSON dump of the dlsim.Netlist structure as handed over
// by a schematic loader; the vector file uses the format described in the
// testvec package.
//
//	dlsim -n counter.json -t counter.vec
//
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/db47h/dlsim"
	"github.com/db47h/dlsim/logger"
	"github.com/db47h/dlsim/testvec"
)

func main() {
	var (
		netlist = flag.String("n", "", "netlist file (JSON)")
		vector  = flag.String("t", "", "test vector file")
		verbose = flag.Bool("v", false, "log settle activity")
	)
	flag.Parse()
	if *netlist == "" || *vector == "" {
		flag.Usage()
		os.Exit(2)
	}
	if !*verbose {
		logger.Disable()
	}
	if err := run(*netlist, *vector); err != nil {
		fmt.Fprintln(os.Stderr, "dlsim:", err)
		os.Exit(1)
	}
}

func run(netlistFile, vectorFile string) error {
	data, err := os.ReadFile(netlistFile)
	if err != nil {
		return err
	}
	var n dlsim.Netlist
	if err = json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%s: %w", netlistFile, err)
	}
	m, err := dlsim.NewModel(&n)
	if err != nil {
		return fmt.Errorf("%s: %w", netlistFile, err)
	}

	f, err := os.Open(vectorFile)
	if err != nil {
		return err
	}
	defer f.Close()
	v, err := testvec.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", vectorFile, err)
	}

	res, err := testvec.Run(m, v)
	if err != nil {
		return err
	}
	for _, mm := range res.Mismatches {
		fmt.Println(mm)
	}
	for _, sc := range m.Shorts() {
		fmt.Println("warning:", sc)
	}
	if !res.Passed() {
		return fmt.Errorf("%d mismatches in %d rows", len(res.Mismatches), res.Rows)
	}
	fmt.Printf("%d rows ok\n", res.Rows)
	return nil
}
