// Package loader provides ELF binary loading for RISC-V executables.
package loader

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"
)

// SegmentFlags represents memory protection flags for a segment.
type SegmentFlags uint32

const (
	// SegmentFlagExecute indicates the segment is executable.
	SegmentFlagExecute SegmentFlags = 1 << iota
	// SegmentFlagWrite indicates the segment is writable.
	SegmentFlagWrite
	// SegmentFlagRead indicates the segment is readable.
	SegmentFlagRead
)

// Segment represents a loadable segment from an ELF binary.
type Segment struct {
	// VirtAddr is the virtual address where this segment should be loaded.
	VirtAddr uint64
	// Data contains the segment contents from the file.
	Data []byte
	// MemSize is the size in memory (may be larger than len(Data) for BSS).
	MemSize uint64
	// Flags contains the segment protection flags.
	Flags SegmentFlags
}

// Program represents a loaded RISC-V program.
type Program struct {
	// EntryPoint is the virtual address where execution should begin.
	EntryPoint uint64
	// XLen is 32 or 64, from the ELF class.
	XLen int
	// Segments contains all loadable segments from the ELF file.
	Segments []Segment
}

// Word is one instruction word with its address.
type Word struct {
	Addr  uint64
	Value uint32
}

// Load parses a RISC-V ELF binary.
func Load(path string) (*Program, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ELF file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("not a RISC-V ELF file (machine type: %v)", f.Machine)
	}

	xlen := 64
	if f.Class == elf.ELFCLASS32 {
		xlen = 32
	}

	prog := &Program{
		EntryPoint: f.Entry,
		XLen:       xlen,
	}

	for _, phdr := range f.Progs {
		if phdr.Type != elf.PT_LOAD {
			continue
		}

		data := make([]byte, phdr.Filesz)
		if phdr.Filesz > 0 {
			n, err := phdr.ReadAt(data, 0)
			if err != nil && err != io.EOF {
				return nil, fmt.Errorf("failed to read segment at 0x%x: %w", phdr.Vaddr, err)
			}
			if uint64(n) != phdr.Filesz {
				return nil, fmt.Errorf("short read for segment at 0x%x: got %d bytes, expected %d",
					phdr.Vaddr, n, phdr.Filesz)
			}
		}

		var flags SegmentFlags
		if phdr.Flags&elf.PF_X != 0 {
			flags |= SegmentFlagExecute
		}
		if phdr.Flags&elf.PF_W != 0 {
			flags |= SegmentFlagWrite
		}
		if phdr.Flags&elf.PF_R != 0 {
			flags |= SegmentFlagRead
		}

		prog.Segments = append(prog.Segments, Segment{
			VirtAddr: phdr.Vaddr,
			Data:     data,
			MemSize:  phdr.Memsz,
			Flags:    flags,
		})
	}

	return prog, nil
}

// TextWords returns the 32-bit little-endian instruction words of every
// executable segment, in address order within each segment. Trailing bytes
// that do not fill a word are dropped.
func (p *Program) TextWords() []Word {
	var words []Word
	for _, seg := range p.Segments {
		if seg.Flags&SegmentFlagExecute == 0 {
			continue
		}
		for off := 0; off+4 <= len(seg.Data); off += 4 {
			words = append(words, Word{
				Addr:  seg.VirtAddr + uint64(off),
				Value: binary.LittleEndian.Uint32(seg.Data[off : off+4]),
			})
		}
	}
	return words
}
