package insts

import (
	"encoding/json"
	"fmt"
	"os"
)

// Capabilities is the static, per-build capability set: which ISA extensions
// are wired into this instantiation. It is fixed for the lifetime of a
// Decoder; per-instruction dynamic state lives in Context instead.
type Capabilities struct {
	// XLen is the native register width in bits, 32 or 64. 64-bit-only
	// loads, stores, atomics, and word operations are illegal on a 32-bit
	// build.
	XLen int `json:"xlen"`

	// M enables integer multiply/divide.
	M bool `json:"m"`
	// A enables atomic memory operations.
	A bool `json:"a"`
	// C enables the compressed-instruction front end.
	C bool `json:"c"`

	// Scalar floating-point widths.
	FP32    bool `json:"fp32"`
	FP64    bool `json:"fp64"`
	FP16    bool `json:"fp16"`
	FP16Alt bool `json:"fp16alt"`
	FP8     bool `json:"fp8"`

	// FVec enables the vectorial (SIMD) floating-point sub-family.
	FVec bool `json:"fvec"`

	// BitManip enables the bit-manipulation overlay on the OP/OP-IMM
	// function-code space.
	BitManip bool `json:"bitmanip"`
	// Zicond enables the conditional-move overlay.
	Zicond bool `json:"zicond"`

	// Stream enables the stream-accelerator configuration opcodes.
	Stream bool `json:"stream"`
	// Offload gives an external instruction-set-extension unit first
	// refusal on otherwise-illegal encodings.
	Offload bool `json:"offload"`

	// Privilege modes present beyond machine mode.
	Supervisor bool `json:"supervisor"`
	User       bool `json:"user"`
}

// DefaultCapabilities returns a fully featured 64-bit configuration.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		XLen:       64,
		M:          true,
		A:          true,
		C:          true,
		FP32:       true,
		FP64:       true,
		FP16:       true,
		FP16Alt:    true,
		FP8:        true,
		FVec:       true,
		BitManip:   true,
		Zicond:     true,
		Stream:     true,
		Offload:    false,
		Supervisor: true,
		User:       true,
	}
}

// Validate checks configuration consistency.
func (c Capabilities) Validate() error {
	if c.XLen != 32 && c.XLen != 64 {
		return fmt.Errorf("xlen must be 32 or 64, got %d", c.XLen)
	}
	if c.FVec && !(c.FP16 || c.FP16Alt || c.FP8 || c.FP32) {
		return fmt.Errorf("fvec requires at least one sub-native FP width")
	}
	return nil
}

// fpCap reports whether the given floating-point format is built in.
func (c Capabilities) fpCap(fmt FPFormat) bool {
	switch fmt {
	case FmtS:
		return c.FP32
	case FmtD:
		return c.FP64
	case FmtH:
		return c.FP16
	case FmtAH:
		return c.FP16Alt
	case FmtB:
		return c.FP8
	}
	return false
}

// anyFP reports whether any floating-point width is built in.
func (c Capabilities) anyFP() bool {
	return c.FP32 || c.FP64 || c.FP16 || c.FP16Alt || c.FP8
}

// LoadCapabilities reads a capability set from a JSON file.
func LoadCapabilities(path string) (Capabilities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Capabilities{}, fmt.Errorf("failed to read capability file: %w", err)
	}

	// Start from defaults so partial files only override what they name.
	caps := DefaultCapabilities()
	if err := json.Unmarshal(data, &caps); err != nil {
		return Capabilities{}, fmt.Errorf("failed to parse capability file: %w", err)
	}
	if err := caps.Validate(); err != nil {
		return Capabilities{}, err
	}
	return caps, nil
}
