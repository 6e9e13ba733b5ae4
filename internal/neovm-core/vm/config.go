package vm

// EngineConfig holds the compile/construction-time resource caps of §5. None
// of these may change while the engine is Running.
type EngineConfig struct {
	MaxProgramLen     int // MAX_PROGRAM_LEN, default 1 MiB
	MaxStackDepth     int // MAX_STACK_DEPTH, default 2048
	MaxInvocationDepth int // MAX_INVOCATION_DEPTH, default 1024
	MaxItems          int // MAX_ITEMS per compound, default 2048
	MaxByteLen        int // MAX_BYTE_LEN per byte-like, default 1 MiB
	MaxIntSize        int // MAX_INT_SIZE, default 32 bytes
	MaxShift          int // MAX_SHIFT, default 256
	GasLimit          uint64
	TraceDigestWidth  int // k in the rolling stack digest, default 8
}

// DefaultEngineConfig returns the spec's default caps with no gas limit set;
// callers supply GasLimit explicitly via WithGasLimit before constructing an
// Engine, mirroring the teacher's DefaultVMConfig/DefaultConfig pattern of a
// bare defaults constructor plus caller overrides.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxProgramLen:      1 << 20,
		MaxStackDepth:      2048,
		MaxInvocationDepth: 1024,
		MaxItems:           2048,
		MaxByteLen:         1 << 20,
		MaxIntSize:         32,
		MaxShift:           256,
		GasLimit:           0,
		TraceDigestWidth:   8,
	}
}

// WithGasLimit returns a copy of the config with GasLimit set.
func (c EngineConfig) WithGasLimit(limit uint64) EngineConfig {
	c.GasLimit = limit
	return c
}
