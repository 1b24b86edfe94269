package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rvsim/insts"
	"github.com/sarchlab/rvsim/trap"
)

var _ = Describe("Decoder floating point", func() {
	var (
		decoder *insts.Decoder
		ctx     insts.Context
	)

	decode := func(word uint32) (*insts.Instruction, bool) {
		inst, illegal, _ := decoder.Decode(insts.RawInst{Word: word}, ctx)
		return inst, illegal
	}

	BeforeEach(func() {
		decoder = insts.NewDecoder(insts.DefaultCapabilities())
		ctx = insts.Context{
			Priv:    trap.PrivMachine,
			FPState: insts.ExtClean,
		}
	})

	Describe("Loads and stores", func() {
		// FLW f1, 0(x2) -> 0x00012087
		It("should decode FLW f1, 0(x2)", func() {
			inst, illegal := decode(0x00012087)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFLW))
			Expect(inst.FU).To(Equal(insts.FULoad))
			Expect(inst.Fmt).To(Equal(insts.FmtS))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
		})

		// FLD f1, 8(x2) -> 0x00813087
		It("should decode FLD f1, 8(x2)", func() {
			inst, illegal := decode(0x00813087)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFLD))
			Expect(inst.Fmt).To(Equal(insts.FmtD))
			Expect(inst.Imm).To(Equal(uint64(8)))
		})

		// FLH f1, 0(x2) -> 0x00011087; FLB -> 0x00010087
		It("should decode the narrow loads", func() {
			inst, illegal := decode(0x00011087)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFLH))

			inst, illegal = decode(0x00010087)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFLB))
			Expect(inst.Fmt).To(Equal(insts.FmtB))
		})

		// FSW f3, 4(x2) -> 0x00312227
		It("should decode FSW f3, 4(x2)", func() {
			inst, illegal := decode(0x00312227)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFSW))
			Expect(inst.FU).To(Equal(insts.FUStore))
			Expect(inst.Rs2).To(Equal(uint8(3)))
			Expect(inst.Imm).To(Equal(uint64(4)))
		})

		It("should keep the operation while gating FLD without double support", func() {
			caps := insts.DefaultCapabilities()
			caps.FP64 = false
			decoder = insts.NewDecoder(caps)

			inst, illegal := decode(0x00813087)

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpFLD))
		})

		It("should serve half-width loads on an alt-half-only build", func() {
			caps := insts.DefaultCapabilities()
			caps.FP16 = false
			decoder = insts.NewDecoder(caps)

			_, illegal := decode(0x00011087) // FLH

			Expect(illegal).To(BeFalse())
		})
	})

	Describe("Arithmetic", func() {
		// FADD.S f1, f2, f3 (rm=0) -> 0x003100D3
		It("should decode FADD.S f1, f2, f3", func() {
			inst, illegal := decode(0x003100D3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFADD))
			Expect(inst.FU).To(Equal(insts.FUFPU))
			Expect(inst.Fmt).To(Equal(insts.FmtS))
			Expect(inst.Rd).To(Equal(uint8(1)))
			Expect(inst.Rs1).To(Equal(uint8(2)))
			Expect(inst.Rs2).To(Equal(uint8(3)))
		})

		// FADD.D f1, f2, f3 -> 0x023100D3
		It("should decode FADD.D f1, f2, f3", func() {
			inst, illegal := decode(0x023100D3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFADD))
			Expect(inst.Fmt).To(Equal(insts.FmtD))
		})

		// FSUB.S -> 0x083100D3; FMUL.H -> 0x143100D3; FDIV.S -> 0x183100D3
		It("should decode the sub/mul/div group", func() {
			inst, illegal := decode(0x083100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFSUB))

			inst, illegal = decode(0x143100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMUL))
			Expect(inst.Fmt).To(Equal(insts.FmtH))

			inst, illegal = decode(0x183100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFDIV))
		})

		// FSQRT.S f1, f2 -> 0x580100D3
		It("should decode FSQRT.S f1, f2", func() {
			inst, illegal := decode(0x580100D3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFSQRT))
		})

		// FSQRT with rs2=1 -> 0x581100D3
		It("should require a zero rs2 field on FSQRT", func() {
			_, illegal := decode(0x581100D3)

			Expect(illegal).To(BeTrue())
		})

		// FSGNJ.S -> 0x203100D3; FSGNJX.S -> 0x203120D3
		It("should decode the sign-injection group", func() {
			inst, illegal := decode(0x203100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFSGNJ))

			inst, illegal = decode(0x203120D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFSGNJX))
		})

		// FMIN.S -> 0x283100D3; FMAX.S -> 0x283110D3
		It("should decode the min/max group", func() {
			inst, illegal := decode(0x283100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMIN))

			inst, illegal = decode(0x283110D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMAX))
		})

		// FEQ.S x1, f2, f3 -> 0xA03120D3; FLT -> 0xA03110D3; FLE -> 0xA03100D3
		It("should decode the comparison group", func() {
			inst, illegal := decode(0xA03120D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFEQ))

			inst, illegal = decode(0xA03110D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFLT))

			inst, illegal = decode(0xA03100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFLE))
		})
	})

	Describe("Rounding modes", func() {
		It("should accept the static modes 0 through 4", func() {
			for rm := uint32(0); rm <= 4; rm++ {
				// FADD.S with the rounding-mode field swept.
				_, illegal := decode(0x003100D3 | rm<<12)
				Expect(illegal).To(BeFalse())
			}
		})

		// FADD.H with rm=5 -> 0x043150D3
		It("should retarget mode 5 on half precision to the alternate format", func() {
			inst, illegal := decode(0x043150D3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Fmt).To(Equal(insts.FmtAH))
		})

		// FADD.S with rm=5 -> 0x003150D3
		It("should reject mode 5 on non-half formats", func() {
			_, illegal := decode(0x003150D3)

			Expect(illegal).To(BeTrue())
		})

		It("should reject mode 5 without the alternate half format", func() {
			caps := insts.DefaultCapabilities()
			caps.FP16Alt = false
			decoder = insts.NewDecoder(caps)

			_, illegal := decode(0x043150D3)

			Expect(illegal).To(BeTrue())
		})

		// FADD.S with rm=6 -> 0x003160D3
		It("should reject the reserved mode 6", func() {
			_, illegal := decode(0x003160D3)

			Expect(illegal).To(BeTrue())
		})

		// FADD.S with rm=7 -> 0x003170D3
		It("should defer mode 7 to the dynamic rounding mode", func() {
			ctx.FRM = 2
			_, illegal := decode(0x003170D3)
			Expect(illegal).To(BeFalse())

			ctx.FRM = 5
			_, illegal = decode(0x003170D3)
			Expect(illegal).To(BeTrue())
		})
	})

	Describe("Fused multiply-add", func() {
		// FMADD.S f1, f2, f3, f4 -> 0x203100C3
		It("should route the third source through the immediate field", func() {
			inst, illegal := decode(0x203100C3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMADD))
			Expect(inst.FU).To(Equal(insts.FUFPU))
			Expect(inst.Rs3).To(Equal(uint8(4)))
			Expect(inst.ImmSel).To(Equal(insts.ImmRS3))
			Expect(inst.Imm).To(Equal(uint64(4)))
		})

		// FMSUB.D f1, f2, f3, f4 -> 0x223100C7
		It("should decode FMSUB.D f1, f2, f3, f4", func() {
			inst, illegal := decode(0x223100C7)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMSUB))
			Expect(inst.Fmt).To(Equal(insts.FmtD))
		})

		// FNMADD.S with rm=6 -> 0x203160CF
		It("should apply rounding-mode checks to fused operations", func() {
			inst, illegal := decode(0x203160CF)

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpFNMADD))
		})
	})

	Describe("Conversions and moves", func() {
		// FCVT.S.D f1, f2 -> 0x401100D3
		It("should decode a float-to-float conversion with its source format", func() {
			inst, illegal := decode(0x401100D3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCVTFF))
			Expect(inst.Fmt).To(Equal(insts.FmtS))
			Expect(inst.SrcFmt).To(Equal(insts.FmtD))
			Expect(inst.Rs2).To(Equal(uint8(0)))
		})

		// FCVT.S.S -> 0x400100D3 (identity conversion is reserved)
		It("should reject an identity conversion", func() {
			_, illegal := decode(0x400100D3)

			Expect(illegal).To(BeTrue())
		})

		// FCVT.W.S x1, f2 -> 0xC00100D3; FCVT.WU.S -> 0xC01100D3
		It("should decode float-to-integer conversions", func() {
			inst, illegal := decode(0xC00100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCVTWF))

			inst, illegal = decode(0xC01100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCVTWUF))
		})

		// FCVT.L.S -> 0xC02100D3
		It("should gate the long conversions on the register width", func() {
			inst, illegal := decode(0xC02100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCVTLF))

			caps := insts.DefaultCapabilities()
			caps.XLen = 32
			decoder = insts.NewDecoder(caps)

			inst, illegal = decode(0xC02100D3)
			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpFCVTLF))
		})

		// FCVT.S.W f1, x2 -> 0xD00100D3; FCVT.S.L -> 0xD02100D3
		It("should decode integer-to-float conversions", func() {
			inst, illegal := decode(0xD00100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCVTFW))

			inst, illegal = decode(0xD02100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCVTFL))
		})

		// FMV.X.S x1, f2 -> 0xE00100D3; FCLASS.S -> 0xE00110D3
		It("should decode the move/classify group", func() {
			inst, illegal := decode(0xE00100D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMVXF))

			inst, illegal = decode(0xE00110D3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFCLASS))
		})

		// FMV.S.X f1, x2 -> 0xF00100D3
		It("should decode FMV.S.X f1, x2", func() {
			inst, illegal := decode(0xF00100D3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpFMVFX))
		})

		// FMV.X.D -> 0xE20100D3
		It("should gate double-width moves on the register width", func() {
			caps := insts.DefaultCapabilities()
			caps.XLen = 32
			decoder = insts.NewDecoder(caps)

			inst, illegal := decode(0xE20100D3)

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpFMVXF))
		})
	})

	Describe("Status gating", func() {
		It("should flag every FP instruction illegal with the unit off", func() {
			ctx.FPState = insts.ExtOff

			for _, word := range []uint32{
				0x003100D3, // FADD.S
				0x00012087, // FLW
				0x203100C3, // FMADD.S
				0x803110B3, // VFADD.H
			} {
				_, illegal := decode(word)
				Expect(illegal).To(BeTrue())
			}
		})

		It("should keep the operation while gating an unbuilt format", func() {
			caps := insts.DefaultCapabilities()
			caps.FP64 = false
			decoder = insts.NewDecoder(caps)

			inst, illegal := decode(0x023100D3) // FADD.D

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpFADD))
			Expect(inst.Fmt).To(Equal(insts.FmtD))
		})
	})

	Describe("Vectorial sub-family", func() {
		// VFADD.H v1, v2, v3 -> 0x803110B3
		It("should decode VFADD.H v1, v2, v3", func() {
			inst, illegal := decode(0x803110B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFADD))
			Expect(inst.FU).To(Equal(insts.FUFPVec))
			Expect(inst.Vectorial).To(BeTrue())
			Expect(inst.Fmt).To(Equal(insts.FmtH))
			Expect(inst.Repl).To(BeFalse())
		})

		// VFADD.R.H -> 0x803150B3
		It("should decode the scalar-replication form", func() {
			inst, illegal := decode(0x803150B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFADD))
			Expect(inst.Repl).To(BeTrue())
		})

		// VFADD.S -> 0x803100B3; VFADD.B -> 0x803130B3; VFADD.AH -> 0x803120B3
		It("should decode every vectorizable lane format", func() {
			for word, fmt := range map[uint32]insts.FPFormat{
				0x803100B3: insts.FmtS,
				0x803130B3: insts.FmtB,
				0x803120B3: insts.FmtAH,
			} {
				inst, illegal := decode(word)

				Expect(illegal).To(BeFalse())
				Expect(inst.Fmt).To(Equal(fmt))
			}
		})

		It("should flag single-precision lanes illegal on a 32-bit build", func() {
			caps := insts.DefaultCapabilities()
			caps.XLen = 32
			decoder = insts.NewDecoder(caps)

			inst, illegal := decode(0x803100B3) // VFADD.S
			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpVFADD))

			_, illegal = decode(0x803110B3) // VFADD.H still fits
			Expect(illegal).To(BeFalse())
		})

		// VFMAC.H -> 0x923110B3
		It("should decode the multiply-accumulate form", func() {
			inst, illegal := decode(0x923110B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFMAC))
		})

		// VFSQRT.H v1, v2 -> 0x960110B3; VFCLASS.H -> 0x961110B3;
		// VFMV.X.H -> 0x962110B3
		It("should decode the unary group through the rs2 selector", func() {
			inst, illegal := decode(0x960110B3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFSQRT))

			inst, illegal = decode(0x961110B3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFCLASS))

			inst, illegal = decode(0x962110B3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFMVXF))
		})

		// VFSQRT.R.H -> 0x960150B3
		It("should reject replication on unary operations", func() {
			inst, illegal := decode(0x960150B3)

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpVFSQRT))
		})

		// VFEQ.H x1, v2, v3 -> 0x983110B3; VFGT.H -> 0xA23110B3
		It("should decode the comparison group", func() {
			inst, illegal := decode(0x983110B3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFEQ))

			inst, illegal = decode(0xA23110B3)
			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFGT))
		})

		// VFCVT.H.S v1, v2 -> 0xA40110B3
		It("should decode a defined cast pair", func() {
			inst, illegal := decode(0xA40110B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFCVT))
			Expect(inst.Fmt).To(Equal(insts.FmtH))
			Expect(inst.SrcFmt).To(Equal(insts.FmtS))
		})

		// VFCVT.H.AH -> 0xA42110B3
		It("should decode casts between the half formats", func() {
			inst, illegal := decode(0xA42110B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.SrcFmt).To(Equal(insts.FmtAH))
		})

		// VFCVT.B.S -> 0xA40130B3
		It("should reject an undefined cast pair", func() {
			inst, illegal := decode(0xA40130B3)

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpVFCVT))
		})

		// VFCPKA.H.S -> 0xA63110B3
		It("should decode a pack from single-precision scalars", func() {
			inst, illegal := decode(0xA63110B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFCPKA))
			Expect(inst.Fmt).To(Equal(insts.FmtH))
			Expect(inst.SrcFmt).To(Equal(insts.FmtS))
			Expect(inst.Repl).To(BeFalse())
		})

		// VFCPKA.S.D -> 0xA63140B3 (the R bit selects double sources)
		It("should decode a pack from double-precision scalars", func() {
			inst, illegal := decode(0xA63140B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFCPKA))
			Expect(inst.Fmt).To(Equal(insts.FmtS))
			Expect(inst.SrcFmt).To(Equal(insts.FmtD))
			Expect(inst.Repl).To(BeFalse())
		})

		// VFCPKB.B.S -> 0xA83130B3
		It("should decode the high-lane pack for quarter precision", func() {
			inst, illegal := decode(0xA83130B3)

			Expect(illegal).To(BeFalse())
			Expect(inst.Op).To(Equal(insts.OpVFCPKB))
			Expect(inst.Fmt).To(Equal(insts.FmtB))
		})

		// VFCPKB.H.S -> 0xA83110B3 (half lanes 2..3 do not exist)
		It("should reject a high-lane pack for half precision", func() {
			inst, illegal := decode(0xA83110B3)

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpVFCPKB))
		})

		It("should keep the operation while gating without vectorial support", func() {
			caps := insts.DefaultCapabilities()
			caps.FVec = false
			decoder = insts.NewDecoder(caps)

			inst, illegal := decode(0x803110B3) // VFADD.H

			Expect(illegal).To(BeTrue())
			Expect(inst.Op).To(Equal(insts.OpVFADD))
			Expect(inst.FU).To(Equal(insts.FUFPVec))
		})
	})
})
