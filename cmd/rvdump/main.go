// Package main provides the rvdump decoder CLI.
// rvdump decodes RISC-V instruction words, either given as hex arguments
// or pulled from the executable segments of an ELF binary, and prints the
// resulting instruction records.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/loader"
	"github.com/sarchlab/rvsim/trap"
)

var (
	capPath  = flag.String("cap", "", "Path to capability configuration JSON file")
	elfMode  = flag.Bool("elf", false, "Treat the argument as an ELF binary")
	spewMode = flag.Bool("spew", false, "Dump full instruction records")
)

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: rvdump [options] <hex words... | program.elf>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	caps := insts.DefaultCapabilities()
	if *capPath != "" {
		loaded, err := insts.LoadCapabilities(*capPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading capabilities: %v\n", err)
			os.Exit(1)
		}
		caps = loaded
	}

	var words []loader.Word
	if *elfMode {
		prog, err := loader.Load(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
			os.Exit(1)
		}
		if prog.XLen != caps.XLen {
			fmt.Fprintf(os.Stderr, "Warning: ELF is %d-bit but decoding as %d-bit\n",
				prog.XLen, caps.XLen)
		}
		words = prog.TextWords()
	} else {
		for i, arg := range flag.Args() {
			value, err := strconv.ParseUint(strings.TrimPrefix(arg, "0x"), 16, 32)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing word %q: %v\n", arg, err)
				os.Exit(1)
			}
			words = append(words, loader.Word{Addr: uint64(i) * 4, Value: uint32(value)})
		}
	}

	decoder := insts.NewDecoder(caps)
	ctx := insts.Context{
		Priv:    trap.PrivMachine,
		FPState: insts.ExtInitial,
	}

	for _, w := range words {
		inst, illegal, _ := decoder.Classify(
			insts.RawInst{Word: w.Value, PC: w.Addr}, ctx)

		if *spewMode {
			fmt.Printf("%08x: %08x\n", w.Addr, w.Value)
			spew.Dump(inst)
			continue
		}

		line := fmt.Sprintf("%08x: %08x  %-12s fu=%-7s rd=%-2d rs1=%-2d rs2=%-2d imm=%d",
			w.Addr, w.Value, inst.Op, inst.FU, inst.Rd, inst.Rs1, inst.Rs2, int64(inst.Imm))
		if illegal {
			line += "  [illegal]"
		}
		if inst.Exception.Valid {
			line += fmt.Sprintf("  !%v", inst.Exception.Cause)
		}
		fmt.Println(line)
	}
}
