package insts

// Floating-point decode: scalar FP loads/stores, fused multiply-add, the
// OP-FP register space, and the vectorial (SIMD) sub-family.
//
// Capability and extension-status gating is applied after operation
// selection throughout, so a gated record still reports what the operation
// would have been.

// fpGate flags a floating-point operation illegal when its format is not
// built in or the extension status register reports the FP unit off.
func (d *Decoder) fpGate(format FPFormat, ctx Context) bool {
	return !d.caps.fpCap(format) || ctx.FPState == ExtOff
}

// roundMode validates an instruction's rounding-mode field. Modes 0..4 are
// statically legal. Mode 5 selects the alternate half-precision format and
// is legal only when that format is built in and the declared format is
// half precision. Mode 7 defers to the dynamic rounding mode, which must
// itself be one of 0..4.
func (d *Decoder) roundMode(rm uint32, format FPFormat, ctx Context) (FPFormat, bool) {
	switch rm {
	case 0, 1, 2, 3, 4:
		return format, true
	case 5:
		if d.caps.FP16Alt && format == FmtH {
			return FmtAH, true
		}
		return format, false
	case 7:
		return format, ctx.FRM <= 4
	default:
		return format, false
	}
}

// fpWidth maps a load/store funct3 to the operand format.
func fpWidth(f3 uint32) (FPFormat, bool) {
	switch f3 {
	case 0b000:
		return FmtB, true
	case 0b001:
		return FmtH, true
	case 0b010:
		return FmtS, true
	case 0b011:
		return FmtD, true
	}
	return FmtS, false
}

// decodeLoadFP decodes floating-point loads (LOAD-FP).
func (d *Decoder) decodeLoadFP(word uint32, ctx Context, inst *Instruction) bool {
	inst.FU = FULoad
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.ImmSel = ImmI
	inst.UseImm = true

	format, ok := fpWidth(funct3(word))
	if !ok {
		return true
	}
	ops := [4]Op{FmtS: OpFLW, FmtD: OpFLD, FmtH: OpFLH, FmtB: OpFLB}
	inst.Op = ops[format]
	inst.Fmt = format

	// Half-width loads serve both half formats.
	if format == FmtH && d.caps.FP16Alt && !d.caps.FP16 {
		return ctx.FPState == ExtOff
	}
	return d.fpGate(format, ctx)
}

// decodeStoreFP decodes floating-point stores (STORE-FP).
func (d *Decoder) decodeStoreFP(word uint32, ctx Context, inst *Instruction) bool {
	inst.FU = FUStore
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)
	inst.ImmSel = ImmS
	inst.UseImm = true

	format, ok := fpWidth(funct3(word))
	if !ok {
		return true
	}
	ops := [4]Op{FmtS: OpFSW, FmtD: OpFSD, FmtH: OpFSH, FmtB: OpFSB}
	inst.Op = ops[format]
	inst.Fmt = format

	if format == FmtH && d.caps.FP16Alt && !d.caps.FP16 {
		return ctx.FPState == ExtOff
	}
	return d.fpGate(format, ctx)
}

// decodeFMA decodes the four fused multiply-add opcodes. The third source
// register is routed through the immediate field via the ImmRS3
// pseudo-format.
func (d *Decoder) decodeFMA(word uint32, ctx Context, inst *Instruction) bool {
	inst.FU = FUFPU
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)
	inst.Rs3 = rs3Field(word)
	inst.ImmSel = ImmRS3

	switch word & 0x7F {
	case opcodeMAdd:
		inst.Op = OpFMADD
	case opcodeMSub:
		inst.Op = OpFMSUB
	case opcodeNMSub:
		inst.Op = OpFNMSUB
	case opcodeNMAdd:
		inst.Op = OpFNMADD
	}

	format := FPFormat((word >> 25) & 0b11)
	format, rmOK := d.roundMode(funct3(word), format, ctx)
	inst.Fmt = format

	return !rmOK || d.fpGate(format, ctx)
}

// decodeOpFP decodes the scalar OP-FP register space. funct7[6:2] selects
// the operation group and funct7[1:0] the format; funct3 is either the
// rounding mode or a sub-operation selector depending on the group.
func (d *Decoder) decodeOpFP(word uint32, ctx Context, inst *Instruction) bool {
	inst.FU = FUFPU
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)

	format := FPFormat(funct7(word) & 0b11)
	f3 := funct3(word)
	rs2 := rs2Field(word)

	consumesRM := false
	illegal := false

	switch funct7(word) >> 2 {
	case 0b00000:
		inst.Op = OpFADD
		consumesRM = true
	case 0b00001:
		inst.Op = OpFSUB
		consumesRM = true
	case 0b00010:
		inst.Op = OpFMUL
		consumesRM = true
	case 0b00011:
		inst.Op = OpFDIV
		consumesRM = true
	case 0b01011:
		inst.Op = OpFSQRT
		consumesRM = true
		illegal = rs2 != 0

	case 0b00100:
		switch f3 {
		case 0b000:
			inst.Op = OpFSGNJ
		case 0b001:
			inst.Op = OpFSGNJN
		case 0b010:
			inst.Op = OpFSGNJX
		default:
			return true
		}
	case 0b00101:
		switch f3 {
		case 0b000:
			inst.Op = OpFMIN
		case 0b001:
			inst.Op = OpFMAX
		default:
			return true
		}

	case 0b01000:
		// Float-to-float conversion; the rs2 field low bits name the
		// source format.
		inst.Op = OpFCVTFF
		consumesRM = true
		src := FPFormat(rs2 & 0b11)
		inst.SrcFmt = src
		if rs2>>2 != 0 || src == format {
			illegal = true
		}
		if !d.caps.fpCap(src) {
			illegal = true
		}
		inst.Rs2 = 0

	case 0b10100:
		switch f3 {
		case 0b010:
			inst.Op = OpFEQ
		case 0b001:
			inst.Op = OpFLT
		case 0b000:
			inst.Op = OpFLE
		default:
			return true
		}

	case 0b11000:
		// Float to integer.
		ops := [4]Op{OpFCVTWF, OpFCVTWUF, OpFCVTLF, OpFCVTLUF}
		if rs2 > 3 {
			return true
		}
		inst.Op = ops[rs2]
		consumesRM = true
		if rs2 >= 2 && d.caps.XLen != 64 {
			illegal = true
		}
		inst.Rs2 = 0

	case 0b11010:
		// Integer to float.
		ops := [4]Op{OpFCVTFW, OpFCVTFWU, OpFCVTFL, OpFCVTFLU}
		if rs2 > 3 {
			return true
		}
		inst.Op = ops[rs2]
		consumesRM = true
		if rs2 >= 2 && d.caps.XLen != 64 {
			illegal = true
		}
		inst.Rs2 = 0

	case 0b11100:
		switch f3 {
		case 0b000:
			inst.Op = OpFMVXF
		case 0b001:
			inst.Op = OpFCLASS
		default:
			return true
		}
		illegal = rs2 != 0
		if format == FmtD && d.caps.XLen != 64 {
			illegal = true
		}
	case 0b11110:
		if f3 != 0 {
			return true
		}
		inst.Op = OpFMVFX
		illegal = rs2 != 0
		if format == FmtD && d.caps.XLen != 64 {
			illegal = true
		}

	default:
		return true
	}

	if consumesRM {
		var rmOK bool
		format, rmOK = d.roundMode(f3, format, ctx)
		if !rmOK {
			illegal = true
		}
	}
	inst.Fmt = format

	return illegal || d.fpGate(format, ctx)
}

// Vectorial sub-family. The funct7[6:5]=10 region of the OP opcode space
// holds SIMD floating-point operations: funct7[4:0] selects the operation,
// funct3[1:0] the lane format, and funct3[2] the scalar-replication flag
// (repurposed as a source-format selector for the pack operations).
const (
	vecopAdd    = 0b00000
	vecopSub    = 0b00001
	vecopMul    = 0b00010
	vecopDiv    = 0b00011
	vecopMin    = 0b00100
	vecopMax    = 0b00101
	vecopSgnj   = 0b00110
	vecopSgnjn  = 0b00111
	vecopSgnjx  = 0b01000
	vecopMac    = 0b01001
	vecopMre    = 0b01010
	vecopUnary  = 0b01011
	vecopEq     = 0b01100
	vecopNe     = 0b01101
	vecopLt     = 0b01110
	vecopGe     = 0b01111
	vecopLe     = 0b10000
	vecopGt     = 0b10001
	vecopCvt    = 0b10010
	vecopCpkA   = 0b10011
	vecopCpkB   = 0b10100
)

// vecFormat maps the funct3[1:0] lane-format field.
func vecFormat(bits uint32) FPFormat {
	switch bits {
	case 0b00:
		return FmtS
	case 0b01:
		return FmtH
	case 0b10:
		return FmtAH
	default:
		return FmtB
	}
}

// vecFmtOK reports whether a lane format can be vectorized on this build:
// the format must be built in, narrower than the register, and single
// precision lanes need 64-bit registers.
func (d *Decoder) vecFmtOK(format FPFormat) bool {
	if !d.caps.fpCap(format) || format == FmtD {
		return false
	}
	if format == FmtS && d.caps.XLen != 64 {
		return false
	}
	return true
}

// vecCvtPairs lists the architecturally defined cast combinations
// (destination, source). Combinations outside this list are illegal even
// when both formats are built in.
var vecCvtPairs = map[[2]FPFormat]bool{
	{FmtH, FmtS}: true, {FmtS, FmtH}: true,
	{FmtAH, FmtS}: true, {FmtS, FmtAH}: true,
	{FmtH, FmtAH}: true, {FmtAH, FmtH}: true,
	{FmtB, FmtH}: true, {FmtH, FmtB}: true,
	{FmtB, FmtAH}: true, {FmtAH, FmtB}: true,
}

// vecCpkAPairs and vecCpkBPairs list the legal pack combinations. The B
// lanes 2 and 3 only exist for 8-bit elements, so only VFCPKB's quarter
// destination is defined.
var vecCpkAPairs = map[[2]FPFormat]bool{
	{FmtS, FmtD}:  true,
	{FmtH, FmtS}:  true,
	{FmtAH, FmtS}: true,
	{FmtB, FmtS}:  true,
}

var vecCpkBPairs = map[[2]FPFormat]bool{
	{FmtB, FmtS}: true,
}

// vecReplAllowed reports whether an operation supports the scalar
// replication flag. Unary operations and casts forbid it.
func vecReplAllowed(op Op) bool {
	switch op {
	case OpVFSQRT, OpVFCLASS, OpVFMVXF, OpVFMVFX, OpVFCVT:
		return false
	}
	return true
}

// decodeVecFP decodes the vectorial SIMD floating-point sub-family.
func (d *Decoder) decodeVecFP(word uint32, ctx Context, inst *Instruction) bool {
	inst.FU = FUFPVec
	inst.Vectorial = true
	inst.Rd = rdField(word)
	inst.Rs1 = rs1Field(word)
	inst.Rs2 = rs2Field(word)

	f3 := funct3(word)
	format := vecFormat(f3 & 0b11)
	repl := f3>>2 == 1
	inst.Fmt = format

	illegal := false

	switch funct7(word) & 0x1F {
	case vecopAdd:
		inst.Op = OpVFADD
	case vecopSub:
		inst.Op = OpVFSUB
	case vecopMul:
		inst.Op = OpVFMUL
	case vecopDiv:
		inst.Op = OpVFDIV
	case vecopMin:
		inst.Op = OpVFMIN
	case vecopMax:
		inst.Op = OpVFMAX
	case vecopSgnj:
		inst.Op = OpVFSGNJ
	case vecopSgnjn:
		inst.Op = OpVFSGNJN
	case vecopSgnjx:
		inst.Op = OpVFSGNJX
	case vecopMac:
		inst.Op = OpVFMAC
	case vecopMre:
		inst.Op = OpVFMRE

	case vecopUnary:
		switch rs2Field(word) {
		case 0:
			inst.Op = OpVFSQRT
		case 1:
			inst.Op = OpVFCLASS
		case 2:
			inst.Op = OpVFMVXF
		case 3:
			inst.Op = OpVFMVFX
		default:
			return true
		}
		inst.Rs2 = 0

	case vecopEq:
		inst.Op = OpVFEQ
	case vecopNe:
		inst.Op = OpVFNE
	case vecopLt:
		inst.Op = OpVFLT
	case vecopGe:
		inst.Op = OpVFGE
	case vecopLe:
		inst.Op = OpVFLE
	case vecopGt:
		inst.Op = OpVFGT

	case vecopCvt:
		inst.Op = OpVFCVT
		src := vecFormat(uint32(rs2Field(word)) & 0b11)
		inst.SrcFmt = src
		if rs2Field(word)>>2 != 0 {
			illegal = true
		}
		if !d.vecFmtOK(src) || !vecCvtPairs[[2]FPFormat{format, src}] {
			illegal = true
		}
		inst.Rs2 = 0

	case vecopCpkA, vecopCpkB:
		// The replication bit selects the scalar source format for packs:
		// single precision normally, double precision when set.
		src := FmtS
		if repl {
			src = FmtD
		}
		repl = false
		inst.SrcFmt = src
		pairs := vecCpkAPairs
		inst.Op = OpVFCPKA
		if funct7(word)&0x1F == vecopCpkB {
			pairs = vecCpkBPairs
			inst.Op = OpVFCPKB
		}
		if !d.caps.fpCap(src) || !pairs[[2]FPFormat{format, src}] {
			illegal = true
		}

	default:
		return true
	}

	if repl {
		if !vecReplAllowed(inst.Op) {
			illegal = true
		} else {
			inst.Repl = true
		}
	}

	if !d.caps.FVec || !d.vecFmtOK(format) || ctx.FPState == ExtOff {
		illegal = true
	}
	return illegal
}
