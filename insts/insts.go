// Package insts provides RISC-V instruction definitions and decoding.
//
// This package implements decoding of 32-bit RISC-V instruction words (or
// pre-expanded 16-bit compressed forms) into structured instruction records.
// It covers the base integer ISA (RV32I/RV64I), multiply/divide (M), atomics
// (A), CSR/system instructions, scalar and vectorial floating point across
// five formats, a bit-manipulation overlay, a conditional-move overlay, a
// stream-accelerator configuration family, and an instruction-offload escape
// path for unrecognized encodings.
//
// Decoding is a pure function of (word, context, capabilities): no state
// survives between invocations, and illegality is an ordinary output value
// rather than an error.
//
// Usage:
//
//	decoder := insts.NewDecoder(insts.DefaultCapabilities())
//	inst, illegal, _ := decoder.Decode(insts.RawInst{Word: 0x06428293}, insts.Context{})
//	fmt.Printf("Op: %v, Rd: %d, Rs1: %d, Imm: %d\n", inst.Op, inst.Rd, inst.Rs1, inst.Imm)
package insts

import "github.com/sarchlab/rvsim/trap"

// Op represents a decoded RISC-V operation.
type Op uint16

// Base integer opcodes (RV32I/RV64I).
const (
	OpUnknown Op = iota

	OpLUI
	OpAUIPC
	OpJAL
	OpJALR

	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU

	OpLB
	OpLH
	OpLW
	OpLD
	OpLBU
	OpLHU
	OpLWU
	OpSB
	OpSH
	OpSW
	OpSD

	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADDIW
	OpSLLIW
	OpSRLIW
	OpSRAIW

	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND
	OpADDW
	OpSUBW
	OpSLLW
	OpSRLW
	OpSRAW

	OpFENCE
	OpFENCEI
)

// Multiply/divide opcodes (M extension).
const (
	OpMUL Op = iota + 64
	OpMULH
	OpMULHSU
	OpMULHU
	OpDIV
	OpDIVU
	OpREM
	OpREMU
	OpMULW
	OpDIVW
	OpDIVUW
	OpREMW
	OpREMUW
)

// Atomic opcodes (A extension).
const (
	OpLRW Op = iota + 96
	OpSCW
	OpAMOSWAPW
	OpAMOADDW
	OpAMOXORW
	OpAMOANDW
	OpAMOORW
	OpAMOMINW
	OpAMOMAXW
	OpAMOMINUW
	OpAMOMAXUW
	OpLRD
	OpSCD
	OpAMOSWAPD
	OpAMOADDD
	OpAMOXORD
	OpAMOANDD
	OpAMOORD
	OpAMOMIND
	OpAMOMAXD
	OpAMOMINUD
	OpAMOMAXUD
)

// System opcodes (privileged + Zicsr).
const (
	OpECALL Op = iota + 128
	OpEBREAK
	OpSRET
	OpMRET
	OpDRET
	OpWFI
	OpSFENCEVMA
	OpCSRRW
	OpCSRRS
	OpCSRRC
	OpCSRRWI
	OpCSRRSI
	OpCSRRCI
)

// Bit-manipulation overlay opcodes (Zba/Zbb subset).
const (
	OpSH1ADD Op = iota + 160
	OpSH2ADD
	OpSH3ADD
	OpANDN
	OpORN
	OpXNOR
	OpMIN
	OpMINU
	OpMAX
	OpMAXU
	OpROL
	OpROR
	OpRORI
	OpCLZ
	OpCTZ
	OpCPOP
	OpSEXTB
	OpSEXTH
	OpREV8
	OpORCB
)

// Conditional-move overlay opcodes (Zicond).
const (
	OpCZEROEQZ Op = iota + 192
	OpCZERONEZ
)

// Scalar floating-point opcodes. The FP format (single, double, half,
// alt-half, quarter) is carried separately in Instruction.Fmt; one Op value
// covers all formats of the same operation.
const (
	OpFLB Op = iota + 224
	OpFLH
	OpFLW
	OpFLD
	OpFSB
	OpFSH
	OpFSW
	OpFSD

	OpFADD
	OpFSUB
	OpFMUL
	OpFDIV
	OpFSQRT
	OpFSGNJ
	OpFSGNJN
	OpFSGNJX
	OpFMIN
	OpFMAX
	OpFMADD
	OpFMSUB
	OpFNMSUB
	OpFNMADD

	// Conversions. The integer width/signedness is part of the Op; float
	// formats come from Instruction.Fmt and Instruction.SrcFmt.
	OpFCVTWF
	OpFCVTWUF
	OpFCVTLF
	OpFCVTLUF
	OpFCVTFW
	OpFCVTFWU
	OpFCVTFL
	OpFCVTFLU
	OpFCVTFF

	OpFMVXF
	OpFMVFX
	OpFEQ
	OpFLT
	OpFLE
	OpFCLASS
)

// Vectorial (SIMD) floating-point opcodes.
const (
	OpVFADD Op = iota + 288
	OpVFSUB
	OpVFMUL
	OpVFDIV
	OpVFMIN
	OpVFMAX
	OpVFSGNJ
	OpVFSGNJN
	OpVFSGNJX
	OpVFMAC
	OpVFMRE
	OpVFSQRT
	OpVFCLASS
	OpVFMVXF
	OpVFMVFX
	OpVFEQ
	OpVFNE
	OpVFLT
	OpVFGE
	OpVFLE
	OpVFGT
	OpVFCVT
	OpVFCPKA
	OpVFCPKB
)

// Stream-accelerator configuration opcodes.
const (
	OpSTREAMADDR Op = iota + 320
	OpSTREAMMODE
	OpSTREAMIDX
)

var opNames = map[Op]string{
	OpUnknown: "unknown",

	OpLUI: "lui", OpAUIPC: "auipc", OpJAL: "jal", OpJALR: "jalr",
	OpBEQ: "beq", OpBNE: "bne", OpBLT: "blt", OpBGE: "bge",
	OpBLTU: "bltu", OpBGEU: "bgeu",
	OpLB: "lb", OpLH: "lh", OpLW: "lw", OpLD: "ld",
	OpLBU: "lbu", OpLHU: "lhu", OpLWU: "lwu",
	OpSB: "sb", OpSH: "sh", OpSW: "sw", OpSD: "sd",
	OpADDI: "addi", OpSLTI: "slti", OpSLTIU: "sltiu", OpXORI: "xori",
	OpORI: "ori", OpANDI: "andi", OpSLLI: "slli", OpSRLI: "srli",
	OpSRAI: "srai", OpADDIW: "addiw", OpSLLIW: "slliw", OpSRLIW: "srliw",
	OpSRAIW: "sraiw",
	OpADD: "add", OpSUB: "sub", OpSLL: "sll", OpSLT: "slt",
	OpSLTU: "sltu", OpXOR: "xor", OpSRL: "srl", OpSRA: "sra",
	OpOR: "or", OpAND: "and", OpADDW: "addw", OpSUBW: "subw",
	OpSLLW: "sllw", OpSRLW: "srlw", OpSRAW: "sraw",
	OpFENCE: "fence", OpFENCEI: "fence.i",

	OpMUL: "mul", OpMULH: "mulh", OpMULHSU: "mulhsu", OpMULHU: "mulhu",
	OpDIV: "div", OpDIVU: "divu", OpREM: "rem", OpREMU: "remu",
	OpMULW: "mulw", OpDIVW: "divw", OpDIVUW: "divuw",
	OpREMW: "remw", OpREMUW: "remuw",

	OpLRW: "lr.w", OpSCW: "sc.w", OpAMOSWAPW: "amoswap.w",
	OpAMOADDW: "amoadd.w", OpAMOXORW: "amoxor.w", OpAMOANDW: "amoand.w",
	OpAMOORW: "amoor.w", OpAMOMINW: "amomin.w", OpAMOMAXW: "amomax.w",
	OpAMOMINUW: "amominu.w", OpAMOMAXUW: "amomaxu.w",
	OpLRD: "lr.d", OpSCD: "sc.d", OpAMOSWAPD: "amoswap.d",
	OpAMOADDD: "amoadd.d", OpAMOXORD: "amoxor.d", OpAMOANDD: "amoand.d",
	OpAMOORD: "amoor.d", OpAMOMIND: "amomin.d", OpAMOMAXD: "amomax.d",
	OpAMOMINUD: "amominu.d", OpAMOMAXUD: "amomaxu.d",

	OpECALL: "ecall", OpEBREAK: "ebreak", OpSRET: "sret", OpMRET: "mret",
	OpDRET: "dret", OpWFI: "wfi", OpSFENCEVMA: "sfence.vma",
	OpCSRRW: "csrrw", OpCSRRS: "csrrs", OpCSRRC: "csrrc",
	OpCSRRWI: "csrrwi", OpCSRRSI: "csrrsi", OpCSRRCI: "csrrci",

	OpSH1ADD: "sh1add", OpSH2ADD: "sh2add", OpSH3ADD: "sh3add",
	OpANDN: "andn", OpORN: "orn", OpXNOR: "xnor",
	OpMIN: "min", OpMINU: "minu", OpMAX: "max", OpMAXU: "maxu",
	OpROL: "rol", OpROR: "ror", OpRORI: "rori",
	OpCLZ: "clz", OpCTZ: "ctz", OpCPOP: "cpop",
	OpSEXTB: "sext.b", OpSEXTH: "sext.h", OpREV8: "rev8", OpORCB: "orc.b",

	OpCZEROEQZ: "czero.eqz", OpCZERONEZ: "czero.nez",

	OpFLB: "flb", OpFLH: "flh", OpFLW: "flw", OpFLD: "fld",
	OpFSB: "fsb", OpFSH: "fsh", OpFSW: "fsw", OpFSD: "fsd",
	OpFADD: "fadd", OpFSUB: "fsub", OpFMUL: "fmul", OpFDIV: "fdiv",
	OpFSQRT: "fsqrt", OpFSGNJ: "fsgnj", OpFSGNJN: "fsgnjn",
	OpFSGNJX: "fsgnjx", OpFMIN: "fmin", OpFMAX: "fmax",
	OpFMADD: "fmadd", OpFMSUB: "fmsub", OpFNMSUB: "fnmsub",
	OpFNMADD: "fnmadd",
	OpFCVTWF: "fcvt.w.f", OpFCVTWUF: "fcvt.wu.f",
	OpFCVTLF: "fcvt.l.f", OpFCVTLUF: "fcvt.lu.f",
	OpFCVTFW: "fcvt.f.w", OpFCVTFWU: "fcvt.f.wu",
	OpFCVTFL: "fcvt.f.l", OpFCVTFLU: "fcvt.f.lu",
	OpFCVTFF: "fcvt.f.f",
	OpFMVXF: "fmv.x.f", OpFMVFX: "fmv.f.x",
	OpFEQ: "feq", OpFLT: "flt", OpFLE: "fle", OpFCLASS: "fclass",

	OpVFADD: "vfadd", OpVFSUB: "vfsub", OpVFMUL: "vfmul",
	OpVFDIV: "vfdiv", OpVFMIN: "vfmin", OpVFMAX: "vfmax",
	OpVFSGNJ: "vfsgnj", OpVFSGNJN: "vfsgnjn", OpVFSGNJX: "vfsgnjx",
	OpVFMAC: "vfmac", OpVFMRE: "vfmre", OpVFSQRT: "vfsqrt",
	OpVFCLASS: "vfclass", OpVFMVXF: "vfmv.x.f", OpVFMVFX: "vfmv.f.x",
	OpVFEQ: "vfeq", OpVFNE: "vfne", OpVFLT: "vflt", OpVFGE: "vfge",
	OpVFLE: "vfle", OpVFGT: "vfgt", OpVFCVT: "vfcvt",
	OpVFCPKA: "vfcpka", OpVFCPKB: "vfcpkb",

	OpSTREAMADDR: "stream.addr", OpSTREAMMODE: "stream.mode",
	OpSTREAMIDX: "stream.idx",
}

// String returns the assembler mnemonic of the operation.
func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "unknown"
}

// FUnit tags the downstream functional unit a decoded instruction is routed
// to.
type FUnit uint8

// Functional units.
const (
	FUNone FUnit = iota
	FUALU
	FUMulDiv
	FULoad
	FUStore
	FUBranch
	FUFPU
	FUFPVec
	FUCSR
	FUOffload
)

var fuNames = map[FUnit]string{
	FUNone:    "none",
	FUALU:     "alu",
	FUMulDiv:  "muldiv",
	FULoad:    "load",
	FUStore:   "store",
	FUBranch:  "branch",
	FUFPU:     "fpu",
	FUFPVec:   "fpvec",
	FUCSR:     "csr",
	FUOffload: "offload",
}

// String returns the functional unit name.
func (fu FUnit) String() string {
	if name, ok := fuNames[fu]; ok {
		return name
	}
	return "none"
}

// ImmSel selects the immediate format an instruction uses.
type ImmSel uint8

// Immediate formats. ImmRS3 is the pseudo-format that routes a third source
// register index into the immediate field instead of an encoded constant.
const (
	ImmNone ImmSel = iota
	ImmI
	ImmS
	ImmSB
	ImmU
	ImmUJ
	ImmRS3
)

// FPFormat identifies a floating-point operand format.
type FPFormat uint8

// Floating-point formats. The first four match the two-bit fmt field of the
// scalar FP encodings; FmtAH (alternate half) is synthesized from the
// half-precision encoding with rounding mode 5.
const (
	FmtS  FPFormat = 0 // 32-bit single
	FmtD  FPFormat = 1 // 64-bit double
	FmtH  FPFormat = 2 // 16-bit half
	FmtB  FPFormat = 3 // 8-bit quarter
	FmtAH FPFormat = 4 // 16-bit alternate half
)

var fmtNames = map[FPFormat]string{
	FmtS: "s", FmtD: "d", FmtH: "h", FmtB: "b", FmtAH: "ah",
}

// String returns the format suffix.
func (f FPFormat) String() string {
	if name, ok := fmtNames[f]; ok {
		return name
	}
	return "?"
}

// BranchPrediction is the branch-prediction snapshot attached at fetch. It
// is opaque to the decoder and passed through for verification downstream.
type BranchPrediction struct {
	Taken  bool
	Target uint64
}

// RawInst is one fetched instruction plus its side-channel metadata.
type RawInst struct {
	// Word is the 32-bit instruction (expanded form if Compressed is set).
	Word uint32

	// PC is the program counter of the instruction.
	PC uint64

	// Compressed indicates the instruction was fetched as a 16-bit
	// compressed encoding and expanded upstream. CompressedRaw keeps the
	// original 16-bit form for trap values.
	Compressed    bool
	CompressedRaw uint16

	// UpstreamIllegal is the compressed expander's illegality verdict.
	UpstreamIllegal bool

	// Prediction is the branch predictor's snapshot for this instruction.
	Prediction BranchPrediction

	// Exception is an exception already attached at fetch (e.g. an access
	// fault). It takes precedence over anything decode discovers.
	Exception trap.Exception
}

// TrapValue returns the raw encoding used as the illegal-instruction trap
// value: the 16-bit compressed form if that is what was fetched, otherwise
// the full 32-bit word.
func (r RawInst) TrapValue() uint64 {
	if r.Compressed {
		return uint64(r.CompressedRaw)
	}
	return uint64(r.Word)
}

// StreamPhase tags the transaction phase of a stream-accelerator
// configuration instruction.
type StreamPhase uint8

// Stream transaction phases.
const (
	StreamStart StreamPhase = iota
	StreamAppend
	StreamEnd
)

// StreamKind identifies the descriptor encoding of a stream-accelerator
// configuration instruction.
type StreamKind uint8

// Stream descriptor kinds.
const (
	StreamAddrPair StreamKind = iota
	StreamTensorMode
	StreamTensorIndex
)

// StreamPayload is the accelerator sub-record populated for the stream
// configuration opcode family.
type StreamPayload struct {
	Phase StreamPhase
	Kind  StreamKind

	// ElemWidth is log2 of the element size in bytes (0..3).
	ElemWidth uint8
	// MemMode selects the accelerator memory access mode.
	MemMode uint8
	// Dims is the tensor dimension count.
	Dims uint8
	// Pred is the predicate register index.
	Pred uint8
	// DimSel is the dimension selected by a tensor-index descriptor.
	DimSel uint8
}

// Instruction is the canonical decoded-instruction record handed to
// register read and issue logic. All register index fields are always
// populated; zero denotes the architectural zero register / "no register".
type Instruction struct {
	Op Op
	FU FUnit

	Rd  uint8
	Rs1 uint8
	Rs2 uint8
	Rs3 uint8

	// Imm is the extracted immediate (or routed third register index for
	// ImmRS3). UseImm indicates the immediate, rather than Rs2, feeds the
	// second operand. ZExtImm marks zero-extended (CSR) immediates.
	Imm     uint64
	ImmSel  ImmSel
	UseImm  bool
	ZExtImm bool

	// UsePC indicates the program counter feeds the first operand.
	UsePC bool

	// Floating-point format fields. SrcFmt is the source format of
	// conversions and packs.
	Fmt    FPFormat
	SrcFmt FPFormat

	// Vectorial marks SIMD floating-point operations; Repl marks scalar
	// replication of the second operand.
	Vectorial bool
	Repl      bool

	// ControlFlow indicates the instruction may redirect control flow.
	ControlFlow bool

	// PC and Pred pass through from fetch.
	PC   uint64
	Pred BranchPrediction

	// Exception is the authoritative exception record overlaid by the
	// arbiter.
	Exception trap.Exception

	// Stream carries the accelerator payload for the stream opcode family.
	Stream *StreamPayload
}
