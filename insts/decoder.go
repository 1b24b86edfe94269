package insts

import "github.com/sarchlab/rvsim/trap"

// Primary opcode values (bits [6:0] of the 32-bit encoding).
const (
	opcodeLoad      = 0b0000011
	opcodeLoadFP    = 0b0000111
	opcodeMiscMem   = 0b0001111
	opcodeOpImm     = 0b0010011
	opcodeAUIPC     = 0b0010111
	opcodeOpImm32   = 0b0011011
	opcodeStore     = 0b0100011
	opcodeStoreFP   = 0b0100111
	opcodeStream    = 0b0101011 // custom-1: stream-accelerator configuration
	opcodeAMO       = 0b0101111
	opcodeOp        = 0b0110011
	opcodeLUI       = 0b0110111
	opcodeOp32      = 0b0111011
	opcodeMAdd      = 0b1000011
	opcodeMSub      = 0b1000111
	opcodeNMSub     = 0b1001011
	opcodeNMAdd     = 0b1001111
	opcodeOpFP      = 0b1010011
	opcodeStreamOps = 0b1011011 // custom-2: reserved accelerator vector ops
	opcodeBranch    = 0b1100011
	opcodeJALR      = 0b1100111
	opcodeJAL       = 0b1101111
	opcodeSystem    = 0b1110011
)

// Secondary field extraction.
func rdField(word uint32) uint8  { return uint8((word >> 7) & 0x1F) }
func rs1Field(word uint32) uint8 { return uint8((word >> 15) & 0x1F) }
func rs2Field(word uint32) uint8 { return uint8((word >> 20) & 0x1F) }
func rs3Field(word uint32) uint8 { return uint8((word >> 27) & 0x1F) }
func funct3(word uint32) uint32  { return (word >> 12) & 0x7 }
func funct7(word uint32) uint32  { return (word >> 25) & 0x7F }
func funct12(word uint32) uint32 { return (word >> 20) & 0xFFF }

// Decoder decodes RISC-V machine code into instruction records. It is
// stateless apart from the immutable capability set, so a single Decoder may
// be shared by concurrent decode invocations.
type Decoder struct {
	caps Capabilities
}

// NewDecoder creates a decoder for the given static capability set.
func NewDecoder(caps Capabilities) *Decoder {
	return &Decoder{caps: caps}
}

// Capabilities returns the decoder's static capability set.
func (d *Decoder) Capabilities() Capabilities {
	return d.caps
}

// Decode decodes one instruction word under the given context snapshot.
// It returns the decoded record, the illegality verdict, and a flag
// indicating the instruction may redirect control flow. Illegality is a
// value, not an error: unrecognized or capability-gated encodings come back
// with illegal == true and the record reporting what the operation would
// have been.
func (d *Decoder) Decode(raw RawInst, ctx Context) (*Instruction, bool, bool) {
	word := raw.Word
	inst := &Instruction{
		Op:   OpUnknown,
		FU:   FUNone,
		PC:   raw.PC,
		Pred: raw.Prediction,
	}

	illegal := d.dispatch(word, ctx, inst)
	if raw.UpstreamIllegal {
		illegal = true
	}

	inst.Imm, _ = ExtractImm(word, inst.ImmSel)

	// The offload escape path gets first refusal on illegal encodings: the
	// instruction is re-routed to the external extension unit. The illegal
	// verdict itself is preserved; only the routing changes.
	if illegal && d.caps.Offload {
		inst.FU = FUOffload
	}

	return inst, illegal, inst.ControlFlow
}

// Classify decodes one instruction and overlays the authoritative exception
// record produced by the trap arbiter.
func (d *Decoder) Classify(raw RawInst, ctx Context) (*Instruction, bool, bool) {
	inst, illegal, cf := d.Decode(raw, ctx)

	absorbed := illegal && d.caps.Offload
	inst.Exception = trap.Resolve(trap.Request{
		Prior:     raw.Exception,
		Illegal:   illegal,
		Absorbed:  absorbed,
		ECall:     !illegal && inst.Op == OpECALL,
		EBreak:    !illegal && inst.Op == OpEBREAK,
		Priv:      ctx.Priv,
		IRQ:       ctx.IRQ,
		DebugReq:  ctx.DebugReq,
		DebugMode: ctx.DebugMode,
		TrapValue: raw.TrapValue(),
	})

	return inst, illegal, cf
}

// dispatch selects the instruction family from the primary opcode and
// refines it through the per-family decoders. The default verdict is
// illegal; only an explicit match clears it.
func (d *Decoder) dispatch(word uint32, ctx Context, inst *Instruction) bool {
	switch word & 0x7F {
	case opcodeLUI:
		inst.FU = FUALU
		inst.Op = OpLUI
		inst.Rd = rdField(word)
		inst.ImmSel = ImmU
		inst.UseImm = true
		return false

	case opcodeAUIPC:
		inst.FU = FUALU
		inst.Op = OpAUIPC
		inst.Rd = rdField(word)
		inst.ImmSel = ImmU
		inst.UseImm = true
		inst.UsePC = true
		return false

	case opcodeJAL:
		inst.FU = FUBranch
		inst.Op = OpJAL
		inst.Rd = rdField(word)
		inst.ImmSel = ImmUJ
		inst.UseImm = true
		inst.UsePC = true
		inst.ControlFlow = true
		return false

	case opcodeJALR:
		inst.FU = FUBranch
		inst.Op = OpJALR
		inst.Rd = rdField(word)
		inst.Rs1 = rs1Field(word)
		inst.ImmSel = ImmI
		inst.UseImm = true
		inst.ControlFlow = true
		return funct3(word) != 0

	case opcodeBranch:
		return d.decodeBranch(word, inst)

	case opcodeLoad:
		return d.decodeLoad(word, inst)

	case opcodeStore:
		return d.decodeStore(word, inst)

	case opcodeOpImm:
		return d.decodeOpImm(word, inst)

	case opcodeOpImm32:
		return d.decodeOpImm32(word, inst)

	case opcodeOp:
		return d.decodeOp(word, ctx, inst)

	case opcodeOp32:
		return d.decodeOp32(word, inst)

	case opcodeMiscMem:
		return d.decodeMiscMem(word, inst)

	case opcodeAMO:
		return d.decodeAMO(word, inst)

	case opcodeSystem:
		return d.decodeSystem(word, ctx, inst)

	case opcodeLoadFP:
		return d.decodeLoadFP(word, ctx, inst)

	case opcodeStoreFP:
		return d.decodeStoreFP(word, ctx, inst)

	case opcodeMAdd, opcodeMSub, opcodeNMSub, opcodeNMAdd:
		return d.decodeFMA(word, ctx, inst)

	case opcodeOpFP:
		return d.decodeOpFP(word, ctx, inst)

	case opcodeStream:
		return d.decodeStream(word, inst)

	case opcodeStreamOps:
		// Reserved opcode space for accelerator vector arithmetic, logic,
		// compare, predication, and memory operations. The encoding region
		// is held stable but not decoded; everything here faults until the
		// sub-family is specified.
		return true

	default:
		return true
	}
}

// decodeBranch decodes conditional branches.
// Format: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | 1100011
func (d *Decoder) decodeBranch(word uint32, inst *Instruction) bool {
	inst.FU = FUBranch
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)
	inst.ImmSel = ImmSB
	inst.UsePC = true
	inst.ControlFlow = true

	switch funct3(word) {
	case 0b000:
		inst.Op = OpBEQ
	case 0b001:
		inst.Op = OpBNE
	case 0b100:
		inst.Op = OpBLT
	case 0b101:
		inst.Op = OpBGE
	case 0b110:
		inst.Op = OpBLTU
	case 0b111:
		inst.Op = OpBGEU
	default:
		return true
	}
	return false
}

// decodeLoad decodes integer loads. Width comes from funct3; 64-bit-only
// widths are gated on the native register width after operation selection.
func (d *Decoder) decodeLoad(word uint32, inst *Instruction) bool {
	inst.FU = FULoad
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.ImmSel = ImmI
	inst.UseImm = true

	switch funct3(word) {
	case 0b000:
		inst.Op = OpLB
	case 0b001:
		inst.Op = OpLH
	case 0b010:
		inst.Op = OpLW
	case 0b011:
		inst.Op = OpLD
		return d.caps.XLen != 64
	case 0b100:
		inst.Op = OpLBU
	case 0b101:
		inst.Op = OpLHU
	case 0b110:
		inst.Op = OpLWU
		return d.caps.XLen != 64
	default:
		return true
	}
	return false
}

// decodeStore decodes integer stores.
func (d *Decoder) decodeStore(word uint32, inst *Instruction) bool {
	inst.FU = FUStore
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)
	inst.ImmSel = ImmS
	inst.UseImm = true

	switch funct3(word) {
	case 0b000:
		inst.Op = OpSB
	case 0b001:
		inst.Op = OpSH
	case 0b010:
		inst.Op = OpSW
	case 0b011:
		inst.Op = OpSD
		return d.caps.XLen != 64
	default:
		return true
	}
	return false
}

// decodeOpImm decodes register-immediate ALU operations. The base mapping
// and the bit-manipulation overlay share the funct3/funct7 key space; the
// encoding is legal if any enabled mapping claims it.
func (d *Decoder) decodeOpImm(word uint32, inst *Instruction) bool {
	inst.FU = FUALU
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.ImmSel = ImmI
	inst.UseImm = true

	if d.opImmBase(word, inst) {
		return false
	}
	if d.caps.BitManip && d.opImmBitManip(word, inst) {
		return false
	}
	return true
}

// opImmBase is the base-ISA partial mapping over the OP-IMM key space. It
// returns false, rather than flagging illegal, for unclaimed combinations so
// overlays can be consulted.
func (d *Decoder) opImmBase(word uint32, inst *Instruction) bool {
	f3 := funct3(word)

	switch f3 {
	case 0b000:
		inst.Op = OpADDI
	case 0b010:
		inst.Op = OpSLTI
	case 0b011:
		inst.Op = OpSLTIU
	case 0b100:
		inst.Op = OpXORI
	case 0b110:
		inst.Op = OpORI
	case 0b111:
		inst.Op = OpANDI
	case 0b001:
		// SLLI. The shift amount occupies 6 bits on a 64-bit build, so
		// only bits [31:26] are fixed there.
		if !d.shiftHighBitsOK(word, 0b000000) {
			return false
		}
		inst.Op = OpSLLI
	case 0b101:
		switch {
		case d.shiftHighBitsOK(word, 0b000000):
			inst.Op = OpSRLI
		case d.shiftHighBitsOK(word, 0b010000):
			inst.Op = OpSRAI
		default:
			return false
		}
	}
	return true
}

// shiftHighBitsOK checks the fixed upper immediate bits of a shift
// encoding: bits [31:26] on 64-bit builds, bits [31:25] on 32-bit builds.
func (d *Decoder) shiftHighBitsOK(word uint32, top6 uint32) bool {
	if d.caps.XLen == 64 {
		return (word>>26)&0x3F == top6
	}
	return funct7(word) == top6<<1
}

// opImmBitManip is the bit-manipulation partial mapping over the OP-IMM key
// space (rotate/count/extend group).
func (d *Decoder) opImmBitManip(word uint32, inst *Instruction) bool {
	f3 := funct3(word)
	imm12 := funct12(word)

	unary := func(op Op) {
		inst.Op = op
		inst.ImmSel = ImmNone
		inst.UseImm = false
	}

	switch f3 {
	case 0b001:
		switch imm12 {
		case 0b011000000000:
			unary(OpCLZ)
		case 0b011000000001:
			unary(OpCTZ)
		case 0b011000000010:
			unary(OpCPOP)
		case 0b011000000100:
			unary(OpSEXTB)
		case 0b011000000101:
			unary(OpSEXTH)
		default:
			return false
		}
		return true
	case 0b101:
		if d.shiftHighBitsOK(word, 0b011000) {
			inst.Op = OpRORI
			return true
		}
		// rev8 pivots on the register width: the full funct12 encodes
		// which bytes swap.
		if (d.caps.XLen == 64 && imm12 == 0b011010111000) ||
			(d.caps.XLen == 32 && imm12 == 0b011010011000) {
			unary(OpREV8)
			return true
		}
		if imm12 == 0b001010000111 {
			unary(OpORCB)
			return true
		}
		return false
	}
	return false
}

// decodeOpImm32 decodes 32-bit-on-64 register-immediate operations
// (OP-IMM-32). The opcode region exists only on 64-bit builds.
func (d *Decoder) decodeOpImm32(word uint32, inst *Instruction) bool {
	inst.FU = FUALU
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.ImmSel = ImmI
	inst.UseImm = true

	f7 := funct7(word)
	switch funct3(word) {
	case 0b000:
		inst.Op = OpADDIW
	case 0b001:
		if f7 != 0 {
			return true
		}
		inst.Op = OpSLLIW
	case 0b101:
		switch f7 {
		case 0b0000000:
			inst.Op = OpSRLIW
		case 0b0100000:
			inst.Op = OpSRAIW
		default:
			return true
		}
	default:
		return true
	}
	return d.caps.XLen != 64
}

// decodeOp decodes register-register operations. Three partial mappings
// overlay the funct3/funct7 key space (base+M, bit manipulation,
// conditional move); the vectorial FP sub-family claims the funct7[6:5]=10
// region before any of them.
func (d *Decoder) decodeOp(word uint32, ctx Context, inst *Instruction) bool {
	if funct7(word)>>5 == 0b10 {
		return d.decodeVecFP(word, ctx, inst)
	}

	inst.FU = FUALU
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)

	if claimed, illegal := d.opBase(word, inst); claimed {
		return illegal
	}
	if d.caps.BitManip {
		if claimed := d.opBitManip(word, inst); claimed {
			return false
		}
	}
	if d.caps.Zicond {
		if claimed := d.opZicond(word, inst); claimed {
			return false
		}
	}
	return true
}

// opBase is the base-ISA (and M-extension) partial mapping over the OP key
// space. M operations are claimed even without the M capability; the gate
// then flags them illegal while preserving the selected operation.
func (d *Decoder) opBase(word uint32, inst *Instruction) (claimed, illegal bool) {
	f3 := funct3(word)

	switch funct7(word) {
	case 0b0000000:
		ops := [8]Op{OpADD, OpSLL, OpSLT, OpSLTU, OpXOR, OpSRL, OpOR, OpAND}
		inst.Op = ops[f3]
		return true, false

	case 0b0100000:
		switch f3 {
		case 0b000:
			inst.Op = OpSUB
			return true, false
		case 0b101:
			inst.Op = OpSRA
			return true, false
		}
		return false, false

	case 0b0000001:
		ops := [8]Op{OpMUL, OpMULH, OpMULHSU, OpMULHU, OpDIV, OpDIVU, OpREM, OpREMU}
		inst.Op = ops[f3]
		inst.FU = FUMulDiv
		return true, !d.caps.M
	}
	return false, false
}

// opBitManip is the bit-manipulation partial mapping over the OP key space.
func (d *Decoder) opBitManip(word uint32, inst *Instruction) bool {
	f3 := funct3(word)

	switch funct7(word) {
	case 0b0010000:
		switch f3 {
		case 0b010:
			inst.Op = OpSH1ADD
		case 0b100:
			inst.Op = OpSH2ADD
		case 0b110:
			inst.Op = OpSH3ADD
		default:
			return false
		}
		return true

	case 0b0100000:
		switch f3 {
		case 0b100:
			inst.Op = OpXNOR
		case 0b110:
			inst.Op = OpORN
		case 0b111:
			inst.Op = OpANDN
		default:
			return false
		}
		return true

	case 0b0000101:
		switch f3 {
		case 0b100:
			inst.Op = OpMIN
		case 0b101:
			inst.Op = OpMINU
		case 0b110:
			inst.Op = OpMAX
		case 0b111:
			inst.Op = OpMAXU
		default:
			return false
		}
		return true

	case 0b0110000:
		switch f3 {
		case 0b001:
			inst.Op = OpROL
		case 0b101:
			inst.Op = OpROR
		default:
			return false
		}
		return true
	}
	return false
}

// opZicond is the conditional-move partial mapping over the OP key space.
func (d *Decoder) opZicond(word uint32, inst *Instruction) bool {
	if funct7(word) != 0b0000111 {
		return false
	}
	switch funct3(word) {
	case 0b101:
		inst.Op = OpCZEROEQZ
	case 0b111:
		inst.Op = OpCZERONEZ
	default:
		return false
	}
	return true
}

// decodeOp32 decodes 32-bit-on-64 register-register operations (OP-32).
func (d *Decoder) decodeOp32(word uint32, inst *Instruction) bool {
	inst.FU = FUALU
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)

	f3 := funct3(word)
	switch funct7(word) {
	case 0b0000000:
		switch f3 {
		case 0b000:
			inst.Op = OpADDW
		case 0b001:
			inst.Op = OpSLLW
		case 0b101:
			inst.Op = OpSRLW
		default:
			return true
		}
	case 0b0100000:
		switch f3 {
		case 0b000:
			inst.Op = OpSUBW
		case 0b101:
			inst.Op = OpSRAW
		default:
			return true
		}
	case 0b0000001:
		switch f3 {
		case 0b000:
			inst.Op = OpMULW
		case 0b100:
			inst.Op = OpDIVW
		case 0b101:
			inst.Op = OpDIVUW
		case 0b110:
			inst.Op = OpREMW
		case 0b111:
			inst.Op = OpREMUW
		default:
			return true
		}
		inst.FU = FUMulDiv
		if !d.caps.M {
			return true
		}
	default:
		return true
	}
	return d.caps.XLen != 64
}

// decodeMiscMem decodes FENCE and FENCE.I.
func (d *Decoder) decodeMiscMem(word uint32, inst *Instruction) bool {
	inst.FU = FUALU
	switch funct3(word) {
	case 0b000:
		inst.Op = OpFENCE
	case 0b001:
		inst.Op = OpFENCEI
	default:
		return true
	}
	return false
}

// decodeAMO decodes atomic memory operations. funct7[6:2] selects the
// operation, funct3 the data width; the low two funct7 bits are the
// acquire/release ordering bits and accept any value.
func (d *Decoder) decodeAMO(word uint32, inst *Instruction) bool {
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)

	var op Op
	isLR := false
	switch funct7(word) >> 2 {
	case 0b00000:
		op = OpAMOADDW
	case 0b00001:
		op = OpAMOSWAPW
	case 0b00010:
		op = OpLRW
		isLR = true
	case 0b00011:
		op = OpSCW
	case 0b00100:
		op = OpAMOXORW
	case 0b01000:
		op = OpAMOORW
	case 0b01100:
		op = OpAMOANDW
	case 0b10000:
		op = OpAMOMINW
	case 0b10100:
		op = OpAMOMAXW
	case 0b11000:
		op = OpAMOMINUW
	case 0b11100:
		op = OpAMOMAXUW
	default:
		return true
	}

	if isLR {
		inst.FU = FULoad
	} else {
		inst.FU = FUStore
	}

	illegal := !d.caps.A
	switch funct3(word) {
	case 0b010:
		inst.Op = op
	case 0b011:
		// The doubleword variants sit at a fixed offset in the op space.
		inst.Op = op + (OpLRD - OpLRW)
		if d.caps.XLen != 64 {
			illegal = true
		}
	default:
		return true
	}

	// Load-reserved carries no store operand; its rs2 field must read as
	// the architectural zero register.
	if isLR && rs2Field(word) != 0 {
		illegal = true
	}
	return illegal
}

// decodeSystem decodes privileged and CSR instructions. Privilege and
// mode-control gating is applied after operation selection so the record
// still reports what the operation would have been.
func (d *Decoder) decodeSystem(word uint32, ctx Context, inst *Instruction) bool {
	inst.FU = FUCSR

	f3 := funct3(word)
	switch f3 {
	case 0b000:
		return d.decodePriv(word, ctx, inst)

	case 0b001, 0b010, 0b011:
		ops := [4]Op{OpUnknown, OpCSRRW, OpCSRRS, OpCSRRC}
		inst.Op = ops[f3]
		inst.Rd = rdField(word)
		inst.Rs1 = rs1Field(word)
		inst.ImmSel = ImmI
		inst.UseImm = true
		return false

	case 0b101, 0b110, 0b111:
		ops := [8]Op{5: OpCSRRWI, 6: OpCSRRSI, 7: OpCSRRCI}
		inst.Op = ops[f3]
		inst.Rd = rdField(word)
		// The rs1 field holds a 5-bit immediate operand, zero-extended.
		inst.Rs1 = rs1Field(word)
		inst.ZExtImm = true
		inst.ImmSel = ImmI
		inst.UseImm = true
		return false

	default:
		return true
	}
}

// decodePriv decodes the funct3=0 system sub-space (ECALL/EBREAK/xRET/WFI/
// SFENCE.VMA).
func (d *Decoder) decodePriv(word uint32, ctx Context, inst *Instruction) bool {
	f7 := funct7(word)
	rs2 := rs2Field(word)
	zeroRegs := rdField(word) == 0 && rs1Field(word) == 0

	switch {
	case f7 == 0b0000000 && rs2 == 0b00000:
		inst.Op = OpECALL
		return !zeroRegs

	case f7 == 0b0000000 && rs2 == 0b00001:
		inst.Op = OpEBREAK
		return !zeroRegs

	case f7 == 0b0001000 && rs2 == 0b00010:
		inst.Op = OpSRET
		if !zeroRegs || !d.caps.Supervisor {
			return true
		}
		// SRET is never available from user mode, and the TSR bit traps
		// it in supervisor mode.
		if ctx.Priv == trap.PrivUser {
			return true
		}
		return ctx.Priv == trap.PrivSupervisor && ctx.TSR

	case f7 == 0b0011000 && rs2 == 0b00010:
		inst.Op = OpMRET
		return !zeroRegs || ctx.Priv != trap.PrivMachine

	case f7 == 0b0111101 && rs2 == 0b10010:
		inst.Op = OpDRET
		return !zeroRegs || !ctx.DebugMode

	case f7 == 0b0001000 && rs2 == 0b00101:
		inst.Op = OpWFI
		if !zeroRegs || ctx.Priv == trap.PrivUser {
			return true
		}
		// The timeout-wait bit turns WFI into an illegal instruction in
		// supervisor mode.
		return ctx.Priv == trap.PrivSupervisor && ctx.TW

	case f7 == 0b0001001:
		inst.Op = OpSFENCEVMA
		inst.Rs1 = rs1Field(word)
		inst.Rs2 = rs2
		if rdField(word) != 0 || !d.caps.Supervisor {
			return true
		}
		if ctx.Priv == trap.PrivMachine {
			return false
		}
		return ctx.Priv != trap.PrivSupervisor || ctx.TVM

	default:
		return true
	}
}

// decodeStream decodes the stream-accelerator configuration family
// (custom-1). The low two funct7 bits carry the transaction phase, funct3
// the descriptor kind, and funct7[6:2] a kind-specific subcode:
//
//	kind 0 (address pair):   rs1 = address low, rs2 = address extension
//	kind 1 (tensor mode):    subcode[1:0] = element width (log2 bytes),
//	                         subcode[3:2] = memory mode, rs2 field = dims,
//	                         rd field = predicate register, rs1 = base/stride
//	kind 2 (tensor index):   rd = destination, rs1 = index source,
//	                         rs2 field = dimension select
//
// Phase/kind validity: start accepts address-pair and tensor-mode
// descriptors, append accepts address-pair and tensor-index, end accepts
// address-pair only.
func (d *Decoder) decodeStream(word uint32, inst *Instruction) bool {
	inst.FU = FUOffload

	f7 := funct7(word)
	var phase StreamPhase
	switch f7 & 0b11 {
	case 0b00:
		phase = StreamStart
	case 0b01:
		phase = StreamAppend
	case 0b10:
		phase = StreamEnd
	default:
		return true
	}

	sub := f7 >> 2
	payload := &StreamPayload{Phase: phase}

	switch funct3(word) {
	case 0b000:
		// Address-pair descriptors are accepted in every phase.
		if sub != 0 {
			return true
		}
		inst.Op = OpSTREAMADDR
		inst.Rs1 = rs1Field(word)
		inst.Rs2 = rs2Field(word)
		payload.Kind = StreamAddrPair
		if rdField(word) != 0 {
			return true
		}

	case 0b001:
		if phase != StreamStart {
			return true
		}
		inst.Op = OpSTREAMMODE
		inst.Rs1 = rs1Field(word)
		payload.Kind = StreamTensorMode
		payload.ElemWidth = uint8(sub & 0b11)
		payload.MemMode = uint8((sub >> 2) & 0b11)
		if sub>>4 != 0 {
			return true
		}
		if rs2Field(word)>>3 != 0 || rdField(word)>>3 != 0 {
			return true
		}
		payload.Dims = rs2Field(word) & 0b111
		payload.Pred = rdField(word) & 0b111
		if payload.ElemWidth == 3 && d.caps.XLen != 64 {
			return true
		}

	case 0b010:
		if phase != StreamAppend {
			return true
		}
		if sub != 0 {
			return true
		}
		inst.Op = OpSTREAMIDX
		inst.Rd = rdField(word)
		inst.Rs1 = rs1Field(word)
		payload.Kind = StreamTensorIndex
		if rs2Field(word)>>3 != 0 {
			return true
		}
		payload.DimSel = rs2Field(word) & 0b111

	default:
		return true
	}

	inst.Stream = payload
	return !d.caps.Stream
}
