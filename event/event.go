// Package event defines the register spill record model and the decoder
// that turns raw log lines into structured events.
package event

// SpillEvent is one record of a register value being stored to memory and
// later reloaded.  Events are immutable once decoded and carry no references
// to other events.  LineNumber is the only persisted identity.
type SpillEvent struct {
	// StorePC is the program counter of the store instruction, as the
	// opaque hex string written by the simulator.
	StorePC string
	// LoadPC is the program counter of the reloading instruction.
	LoadPC string
	// MemoryAddress is the hex-encoded spill slot address.
	MemoryAddress string
	// StoreTick and LoadTick are simulator time units.  LoadTick is never
	// less than StoreTick.
	StoreTick uint64
	LoadTick  uint64
	// TickDiff is the spill duration, LoadTick - StoreTick.
	TickDiff uint64
	// StoreInstCount and LoadInstCount are the committed instruction
	// counters at store and load time.
	StoreInstCount uint64
	LoadInstCount  uint64
	// LineNumber is the 1-based position of the record in the source log.
	LineNumber uint64
}

// InstructionDistance is the number of instructions committed between the
// store and the reload.
func (e *SpillEvent) InstructionDistance() uint64 {
	if e.LoadInstCount < e.StoreInstCount {
		return 0
	}
	return e.LoadInstCount - e.StoreInstCount
}
