package insts

// ExtractImm extracts the immediate operand selected by the decoder. The
// result is sign-extended to 64 bits from the format's most significant
// used bit; 32-bit builds truncate downstream. The second return value
// reports whether the selector names a format at all.
//
// The ImmRS3 pseudo-format does not extract a constant: it zero-extends the
// third source-register index (bits [31:27]) into the result field, for
// fused multiply-add's accumulator operand and a few accelerator encodings.
func ExtractImm(word uint32, sel ImmSel) (uint64, bool) {
	switch sel {
	case ImmI:
		// imm[11:0] = inst[31:20]
		return uint64(int64(int32(word) >> 20)), true

	case ImmS:
		// imm[11:5] = inst[31:25], imm[4:0] = inst[11:7]
		imm := (int64(int32(word))>>25)<<5 | int64((word>>7)&0x1F)
		return uint64(imm), true

	case ImmSB:
		// imm[12] = inst[31], imm[11] = inst[7], imm[10:5] = inst[30:25],
		// imm[4:1] = inst[11:8], imm[0] = 0 (byte addressing is times two)
		imm := (int64(int32(word))>>31)<<12 |
			int64((word>>7)&0x1)<<11 |
			int64((word>>25)&0x3F)<<5 |
			int64((word>>8)&0xF)<<1
		return uint64(imm), true

	case ImmU:
		// imm[31:12] = inst[31:12], imm[11:0] = 0
		return uint64(int64(int32(word & 0xFFFFF000))), true

	case ImmUJ:
		// imm[20] = inst[31], imm[19:12] = inst[19:12], imm[11] = inst[20],
		// imm[10:1] = inst[30:21], imm[0] = 0
		imm := (int64(int32(word))>>31)<<20 |
			int64((word>>12)&0xFF)<<12 |
			int64((word>>20)&0x1)<<11 |
			int64((word>>21)&0x3FF)<<1
		return uint64(imm), true

	case ImmRS3:
		return uint64((word >> 27) & 0x1F), true
	}

	return 0, false
}
