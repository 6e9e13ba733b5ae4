// Package bind computes and verifies the three-hash public tuple (§4.6) that
// binds a proof to one execution: program_hash, input_hash, output_hash,
// gas_consumed, and success. It is the only place outside the vm package
// that touches the canonical encoding (§6.5), keeping the hashing rule in
// one spot for both the host-side prover and the guest re-executor.
package bind

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

// PublicTuple is the single public commitment of an execution (§4.6).
type PublicTuple struct {
	ProgramHash [32]byte
	InputHash   [32]byte
	OutputHash  [32]byte
	GasConsumed uint64
	Success     bool
}

// ProgramHash computes program_hash = H(program_bytes).
func ProgramHash(program []byte) [32]byte {
	return sha256.Sum256(program)
}

// InputHash computes input_hash = H(canonical_encoding(arguments, gas_limit)).
// Arguments and gas_limit are wrapped into a 2-element Array so a single
// EncodeCanonical call produces the whole digest input.
func InputHash(arguments []vm.Value, gasLimit uint64) [32]byte {
	wrapper := vm.Value{Type: vm.TypeArray, Items: []vm.Value{
		{Type: vm.TypeArray, Items: arguments},
		gasValue(gasLimit),
	}}
	return sha256.Sum256(vm.EncodeCanonical(wrapper))
}

// OutputHash computes
// output_hash = H(canonical_encoding(top_stack_value_or_none, gas_consumed, success_bool)).
func OutputHash(top *vm.Value, gasConsumed uint64, success bool) [32]byte {
	topVal := vm.Null()
	if top != nil {
		topVal = *top
	}
	wrapper := vm.Value{Type: vm.TypeArray, Items: []vm.Value{
		topVal,
		gasValue(gasConsumed),
		vm.Bool(success),
	}}
	return sha256.Sum256(vm.EncodeCanonical(wrapper))
}

// ComputeTuple derives the full public tuple from a terminated engine run.
// program is the loaded program bytes, arguments/gasLimit are the inputs the
// engine was invoked with, and top/gasConsumed/success describe its outcome.
func ComputeTuple(program []byte, arguments []vm.Value, gasLimit uint64, top *vm.Value, gasConsumed uint64, success bool) PublicTuple {
	return PublicTuple{
		ProgramHash: ProgramHash(program),
		InputHash:   InputHash(arguments, gasLimit),
		OutputHash:  OutputHash(top, gasConsumed, success),
		GasConsumed: gasConsumed,
		Success:     success,
	}
}

// Equal reports whether two tuples match field-for-field. The verifier (§6.4)
// must perform exactly this comparison between a proof's decoded public
// values and the caller's expected tuple before returning true.
func (t PublicTuple) Equal(other PublicTuple) bool {
	return t.ProgramHash == other.ProgramHash &&
		t.InputHash == other.InputHash &&
		t.OutputHash == other.OutputHash &&
		t.GasConsumed == other.GasConsumed &&
		t.Success == other.Success
}

// tupleByteLen is the fixed wire size of EncodeTuple's output: three 32-byte
// hashes, an 8-byte gas counter, and a 1-byte success flag.
const tupleByteLen = 32 + 32 + 32 + 8 + 1

// EncodeTuple serializes a PublicTuple to the fixed-width public_bytes the
// prove/verify interface of §6.4 exchanges.
func EncodeTuple(t PublicTuple) []byte {
	out := make([]byte, tupleByteLen)
	off := 0
	off += copy(out[off:], t.ProgramHash[:])
	off += copy(out[off:], t.InputHash[:])
	off += copy(out[off:], t.OutputHash[:])
	binary.LittleEndian.PutUint64(out[off:], t.GasConsumed)
	off += 8
	if t.Success {
		out[off] = 1
	}
	return out
}

// DecodeTuple is EncodeTuple's inverse.
func DecodeTuple(b []byte) (PublicTuple, error) {
	if len(b) != tupleByteLen {
		return PublicTuple{}, fmt.Errorf("bind: public tuple must be %d bytes, got %d", tupleByteLen, len(b))
	}
	var t PublicTuple
	off := 0
	copy(t.ProgramHash[:], b[off:off+32])
	off += 32
	copy(t.InputHash[:], b[off:off+32])
	off += 32
	copy(t.OutputHash[:], b[off:off+32])
	off += 32
	t.GasConsumed = binary.LittleEndian.Uint64(b[off : off+8])
	off += 8
	t.Success = b[off] != 0
	return t, nil
}

func gasValue(gas uint64) vm.Value {
	v, err := vm.IntFromBig(new(big.Int).SetUint64(gas), 8)
	if err != nil {
		// 8 bytes always holds a uint64; a failure here is a logic error.
		panic(err)
	}
	return v
}
