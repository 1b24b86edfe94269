// Package main provides the entry point for rvsim.
// rvsim is a RISC-V decode-and-classify simulator core built on Akita.
//
// For the decoder CLI, use: go run ./cmd/rvdump
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rvsim - RISC-V decode-and-classify simulator core")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: rvdump [options] <hex words... | program.elf>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -cap     Path to capability configuration JSON file")
	fmt.Println("  -elf     Treat the argument as an ELF binary")
	fmt.Println("  -spew    Dump full instruction records")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvdump' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvdump' instead.")
	}
}
