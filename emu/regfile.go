// Package emu provides the register-storage collaborators consumed by
// decoded instructions: the integer, floating-point, vector, and predicate
// register files.
package emu

// Register-file port discipline: reads are combinational (address in, data
// out in the same cycle); writes are registered and become visible on the
// next cycle, modeled by queueing them until Commit.

// NumRegs is the number of architectural registers per file.
const NumRegs = 32

// NumPredRegs is the number of predicate registers.
const NumPredRegs = 8

// VecLanes is the number of 64-bit lanes per vector register.
const VecLanes = 8

type intWrite struct {
	reg   uint8
	value uint64
}

// RegFile is the integer register file. Register 0 is hardwired to zero:
// it always reads as 0 and silently ignores writes.
type RegFile struct {
	x       [NumRegs]uint64
	pending []intWrite
}

// Read reads a register combinationally. Register 0 reads as zero.
func (r *RegFile) Read(reg uint8) uint64 {
	if reg == 0 || reg >= NumRegs {
		return 0
	}
	return r.x[reg]
}

// Write queues a register write; it takes effect at the next Commit.
// Writes to register 0 are ignored.
func (r *RegFile) Write(reg uint8, value uint64) {
	if reg == 0 || reg >= NumRegs {
		return
	}
	r.pending = append(r.pending, intWrite{reg: reg, value: value})
}

// Commit applies all queued writes, modeling the registered write ports.
// Later writes to the same register win, matching write-port priority.
func (r *RegFile) Commit() {
	for _, w := range r.pending {
		r.x[w.reg] = w.value
	}
	r.pending = r.pending[:0]
}

// FPRegFile is the floating-point register file. Unlike the integer file,
// register 0 is a normal register.
type FPRegFile struct {
	f       [NumRegs]uint64
	pending []intWrite
}

// Read reads a floating-point register combinationally.
func (r *FPRegFile) Read(reg uint8) uint64 {
	if reg >= NumRegs {
		return 0
	}
	return r.f[reg]
}

// Write queues a floating-point register write.
func (r *FPRegFile) Write(reg uint8, value uint64) {
	if reg >= NumRegs {
		return
	}
	r.pending = append(r.pending, intWrite{reg: reg, value: value})
}

// Commit applies all queued writes.
func (r *FPRegFile) Commit() {
	for _, w := range r.pending {
		r.f[w.reg] = w.value
	}
	r.pending = r.pending[:0]
}

type vecWrite struct {
	reg   uint8
	value [VecLanes]uint64
}

// VecRegFile is the accelerator vector register file.
type VecRegFile struct {
	v       [NumRegs][VecLanes]uint64
	pending []vecWrite
}

// Read reads a full vector register combinationally.
func (r *VecRegFile) Read(reg uint8) [VecLanes]uint64 {
	if reg >= NumRegs {
		return [VecLanes]uint64{}
	}
	return r.v[reg]
}

// Write queues a vector register write.
func (r *VecRegFile) Write(reg uint8, value [VecLanes]uint64) {
	if reg >= NumRegs {
		return
	}
	r.pending = append(r.pending, vecWrite{reg: reg, value: value})
}

// Commit applies all queued writes.
func (r *VecRegFile) Commit() {
	for _, w := range r.pending {
		r.v[w.reg] = w.value
	}
	r.pending = r.pending[:0]
}

// PredRegFile is the predicate register file. Register 0 is hardwired to
// all-ones: it always reads fully set and silently ignores writes, so an
// unpredicated operation can name it and behave as if every lane were
// active.
type PredRegFile struct {
	p       [NumPredRegs]uint64
	pending []intWrite
}

// Read reads a predicate register combinationally.
func (r *PredRegFile) Read(reg uint8) uint64 {
	if reg >= NumPredRegs {
		return 0
	}
	if reg == 0 {
		return ^uint64(0)
	}
	return r.p[reg]
}

// Write queues a predicate register write. Writes to register 0 are
// ignored.
func (r *PredRegFile) Write(reg uint8, value uint64) {
	if reg == 0 || reg >= NumPredRegs {
		return
	}
	r.pending = append(r.pending, intWrite{reg: reg, value: value})
}

// Commit applies all queued writes.
func (r *PredRegFile) Commit() {
	for _, w := range r.pending {
		r.p[w.reg] = w.value
	}
	r.pending = r.pending[:0]
}
