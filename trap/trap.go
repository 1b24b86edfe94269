// Package trap provides exception and interrupt arbitration for decoded
// instructions.
//
// The arbiter is purely combinational: given the decode verdict, any
// exception already attached by an earlier pipeline stage, and the current
// interrupt/privilege state, it produces the single authoritative exception
// record for the instruction. Precedence is fixed:
//
//  1. A pending debug request (outside debug mode) trumps everything.
//  2. An exception already valid from an earlier stage passes through.
//  3. Synchronous causes: illegal instruction, then ecall, then ebreak.
//  4. Asynchronous interrupts, arbitrated by a fixed priority order.
package trap

// Privilege represents a RISC-V privilege level.
type Privilege uint8

// Privilege levels. The encoding matches the architectural two-bit values.
const (
	PrivUser       Privilege = 0
	PrivSupervisor Privilege = 1
	PrivMachine    Privilege = 3
)

// String returns the conventional one-letter name of the privilege level.
func (p Privilege) String() string {
	switch p {
	case PrivUser:
		return "U"
	case PrivSupervisor:
		return "S"
	case PrivMachine:
		return "M"
	}
	return "?"
}

// Cause identifies an exception or interrupt cause.
type Cause uint8

// Exception and interrupt causes.
const (
	CauseNone Cause = iota

	// Synchronous exceptions.
	CauseIllegalInstruction
	CauseBreakpoint
	CauseEcallUser
	CauseEcallSupervisor
	CauseEcallMachine
	CauseDebugRequest

	// Asynchronous interrupts.
	CauseSupervisorSoftware
	CauseMachineSoftware
	CauseSupervisorTimer
	CauseMachineTimer
	CauseSupervisorExternal
	CauseMachineExternal
)

var causeNames = map[Cause]string{
	CauseNone:               "none",
	CauseIllegalInstruction: "illegal instruction",
	CauseBreakpoint:         "breakpoint",
	CauseEcallUser:          "ecall (U-mode)",
	CauseEcallSupervisor:    "ecall (S-mode)",
	CauseEcallMachine:       "ecall (M-mode)",
	CauseDebugRequest:       "debug request",
	CauseSupervisorSoftware: "supervisor software interrupt",
	CauseMachineSoftware:    "machine software interrupt",
	CauseSupervisorTimer:    "supervisor timer interrupt",
	CauseMachineTimer:       "machine timer interrupt",
	CauseSupervisorExternal: "supervisor external interrupt",
	CauseMachineExternal:    "machine external interrupt",
}

// String returns a human-readable cause name.
func (c Cause) String() string {
	if name, ok := causeNames[c]; ok {
		return name
	}
	return "unknown"
}

// IsInterrupt reports whether the cause is asynchronous.
func (c Cause) IsInterrupt() bool {
	return c >= CauseSupervisorSoftware
}

// Exception is the exception record attached to a decoded instruction.
type Exception struct {
	// Valid indicates that an exception or interrupt must be taken.
	Valid bool
	// Cause identifies why.
	Cause Cause
	// Value is the trap value payload, typically the faulting
	// instruction's raw bits.
	Value uint64
}

// IRQ is a snapshot of the interrupt-pending, interrupt-enable, and
// delegation state visible to the arbiter. It is read-only for the duration
// of one resolve; the owner must not mutate it mid-decode.
type IRQ struct {
	// Pending bits (mip).
	MTIP, MSIP, MEIP bool
	STIP, SSIP, SEIP bool

	// Enable bits (mie).
	MTIE, MSIE, MEIE bool
	STIE, SSIE, SEIE bool

	// ExtPin is the external interrupt pin. It is OR'd with SEIP when
	// checking the supervisor external source.
	ExtPin bool

	// GlobalEnable is the processor's global interrupt-enable condition
	// (mstatus.MIE or equivalent).
	GlobalEnable bool

	// SIE is the supervisor-level local interrupt enable, consulted when a
	// delegated interrupt would be taken at supervisor privilege.
	SIE bool

	// Delegation bits (mideleg): the cause is handled at supervisor
	// privilege instead of machine privilege.
	DelegSTimer, DelegSSoft, DelegSExt bool
}

// Request carries all arbiter inputs for one instruction.
type Request struct {
	// Prior is an exception already attached by an earlier pipeline stage.
	// It is never overwritten by a newly discovered cause.
	Prior Exception

	// Illegal is the decode verdict, including upstream compressed-decoder
	// illegality.
	Illegal bool

	// Absorbed indicates the offload escape path has claimed the illegal
	// encoding; the illegal-instruction exception is then suppressed.
	Absorbed bool

	// ECall and EBreak are the system-call/breakpoint flags raised by the
	// decoder.
	ECall  bool
	EBreak bool

	// Priv is the current privilege level.
	Priv Privilege

	// IRQ is the interrupt state snapshot.
	IRQ IRQ

	// DebugReq is the external debug request line; DebugMode indicates the
	// hart is already halted in debug mode.
	DebugReq  bool
	DebugMode bool

	// TrapValue is the raw instruction encoding (the 16-bit compressed form
	// or the 32-bit form, whichever was fetched) used as the illegal
	// instruction trap value.
	TrapValue uint64
}

// interruptCheck pairs an eligibility condition with the cause it selects.
type interruptCheck struct {
	eligible bool
	cause    Cause
}

// Resolve arbitrates the final exception record for one instruction.
func Resolve(req Request) Exception {
	// Debug request wins over everything, including exceptions attached by
	// earlier stages, as long as the hart is not already in debug mode.
	if req.DebugReq && !req.DebugMode {
		return Exception{Valid: true, Cause: CauseDebugRequest}
	}

	// First-detected-in-pipeline-order wins: never overwrite an exception
	// that fetch or the compressed expander already attached.
	if req.Prior.Valid {
		return req.Prior
	}

	switch {
	case req.Illegal && !req.Absorbed:
		return Exception{
			Valid: true,
			Cause: CauseIllegalInstruction,
			Value: req.TrapValue,
		}
	case req.ECall:
		return Exception{Valid: true, Cause: ecallCause(req.Priv)}
	case req.EBreak:
		return Exception{Valid: true, Cause: CauseBreakpoint}
	}

	if cause, ok := pendingInterrupt(req.IRQ); ok {
		if req.IRQ.GlobalEnable && deliverable(cause, req.IRQ, req.Priv) {
			return Exception{Valid: true, Cause: cause}
		}
	}

	return Exception{}
}

// ecallCause maps the current privilege level to its environment-call cause.
func ecallCause(priv Privilege) Cause {
	switch priv {
	case PrivMachine:
		return CauseEcallMachine
	case PrivSupervisor:
		return CauseEcallSupervisor
	default:
		return CauseEcallUser
	}
}

// pendingInterrupt selects a single interrupt cause from the six sources.
// The checks form an ordered list folded last-match-wins, so machine-level
// interrupts take final precedence over supervisor-level ones when several
// are simultaneously pending and enabled.
func pendingInterrupt(irq IRQ) (Cause, bool) {
	checks := []interruptCheck{
		{irq.STIP && irq.STIE, CauseSupervisorTimer},
		{irq.SSIP && irq.SSIE, CauseSupervisorSoftware},
		{(irq.SEIP || irq.ExtPin) && irq.SEIE, CauseSupervisorExternal},
		{irq.MTIP && irq.MTIE, CauseMachineTimer},
		{irq.MSIP && irq.MSIE, CauseMachineSoftware},
		{irq.MEIP && irq.MEIE, CauseMachineExternal},
	}

	cause := CauseNone
	found := false
	for _, check := range checks {
		if check.eligible {
			cause = check.cause
			found = true
		}
	}
	return cause, found
}

// deliverable applies the delegation filter: a non-delegated cause is always
// taken (at machine privilege); a delegated cause is taken only below the
// delegated level, or at the delegated level with its local enable set.
func deliverable(cause Cause, irq IRQ, priv Privilege) bool {
	if !delegated(cause, irq) {
		return true
	}
	return priv < PrivSupervisor || (priv == PrivSupervisor && irq.SIE)
}

// delegated reports whether the cause is delegated to supervisor privilege.
// Machine-level causes are never delegated.
func delegated(cause Cause, irq IRQ) bool {
	switch cause {
	case CauseSupervisorTimer:
		return irq.DelegSTimer
	case CauseSupervisorSoftware:
		return irq.DelegSSoft
	case CauseSupervisorExternal:
		return irq.DelegSExt
	}
	return false
}
