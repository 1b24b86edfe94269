package emu

// Accelerator request/response contract for offloaded instructions. The
// collaborator follows a single-outstanding-request discipline: it asserts
// request-readiness only while idle and holds each response valid until the
// caller accepts it.

// AccelRequest carries one offloaded instruction to the accelerator.
type AccelRequest struct {
	// ID is the transaction identifier echoed in the response.
	ID uint64
	// Operands are the source operand values.
	Operands [3]uint64
}

// AccelResponse carries one completed transaction back.
type AccelResponse struct {
	// ID matches the request's transaction identifier.
	ID uint64
	// Result is the computed value.
	Result uint64
	// Err indicates the accelerator rejected or faulted the transaction.
	Err bool
	// Completion flags for memory and FP-flag side effects.
	LoadDone     bool
	StoreDone    bool
	FlagsWritten bool
}

// Accelerator is the external execution unit that consumes offloaded and
// accelerator-tagged instructions.
type Accelerator interface {
	// ReqReady reports whether a request would be accepted this cycle.
	// It is asserted only while the unit is idle.
	ReqReady() bool

	// Submit hands a request to the unit. It returns false if the unit is
	// busy and did not accept the request.
	Submit(req AccelRequest) bool

	// RespValid reports whether a response is held for the caller. The
	// response stays valid until AcceptResp is called.
	RespValid() bool

	// Resp returns the held response. Only meaningful while RespValid.
	Resp() AccelResponse

	// AcceptResp releases the held response, returning the unit to idle.
	AcceptResp()
}

// StubAccelerator is a placeholder accelerator that completes every
// transaction immediately with an error-free echo of its first operand.
// It exists so the decode path can be exercised end to end without a real
// execution unit attached.
type StubAccelerator struct {
	busy bool
	resp AccelResponse
}

// NewStubAccelerator creates an idle stub accelerator.
func NewStubAccelerator() *StubAccelerator {
	return &StubAccelerator{}
}

// ReqReady reports whether the stub can take a request.
func (a *StubAccelerator) ReqReady() bool {
	return !a.busy
}

// Submit accepts a request if idle and immediately latches its response.
func (a *StubAccelerator) Submit(req AccelRequest) bool {
	if a.busy {
		return false
	}
	a.busy = true
	a.resp = AccelResponse{
		ID:     req.ID,
		Result: req.Operands[0],
	}
	return true
}

// RespValid reports whether a response is waiting to be accepted.
func (a *StubAccelerator) RespValid() bool {
	return a.busy
}

// Resp returns the held response.
func (a *StubAccelerator) Resp() AccelResponse {
	return a.resp
}

// AcceptResp releases the held response.
func (a *StubAccelerator) AcceptResp() {
	a.busy = false
	a.resp = AccelResponse{}
}
