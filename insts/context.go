package insts

import "github.com/sarchlab/rvsim/trap"

// ExtState is the floating-point/vector extension status tracked by the
// status CSR.
type ExtState uint8

// Extension status values.
const (
	ExtOff ExtState = iota
	ExtInitial
	ExtClean
	ExtDirty
)

// Context is a read-only snapshot of the execution-environment state a
// decode needs to determine legality. The caller owns the underlying CSR
// state and must not mutate the snapshot mid-decode; updates are
// synchronized to happen strictly between decode invocations.
type Context struct {
	// Priv is the current privilege level.
	Priv trap.Privilege

	// DebugMode indicates the hart is halted in debug mode.
	DebugMode bool

	// FPState gates all floating-point instructions; ExtOff makes them
	// illegal regardless of build capabilities.
	FPState ExtState

	// FRM is the dynamic rounding mode (frm CSR). Consulted when an
	// instruction's rounding-mode field defers to it (mode 7); it must
	// itself be one of 0..4.
	FRM uint8

	// Mode-control bits from mstatus.
	TVM bool // trap virtual memory: traps SFENCE.VMA in S-mode
	TW  bool // timeout wait: traps WFI in S-mode
	TSR bool // trap SRET in S-mode

	// IRQ is the interrupt pending/enable/delegation snapshot handed to
	// the arbiter.
	IRQ trap.IRQ

	// DebugReq is the external debug request line.
	DebugReq bool
}
