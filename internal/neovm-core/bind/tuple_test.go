package bind

import (
	"bytes"
	"testing"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

func TestProgramHashIsSha256OfProgramBytes(t *testing.T) {
	program := []byte{0x01, 0x02, 0x03}
	got := ProgramHash(program)
	again := ProgramHash(append([]byte(nil), program...))
	if got != again {
		t.Fatalf("ProgramHash not deterministic: %x vs %x", got, again)
	}
	if other := ProgramHash([]byte{0x01, 0x02, 0x04}); other == got {
		t.Fatalf("different programs hashed to the same value")
	}
}

func TestInputHashSensitiveToArgumentsAndGasLimit(t *testing.T) {
	args := []vm.Value{vm.IntFromInt64(1), vm.IntFromInt64(2)}
	h1 := InputHash(args, 1000)
	h2 := InputHash(args, 1000)
	if h1 != h2 {
		t.Fatalf("InputHash not deterministic")
	}
	if h3 := InputHash(args, 1001); h3 == h1 {
		t.Fatalf("InputHash did not change with gas limit")
	}
	if h4 := InputHash([]vm.Value{vm.IntFromInt64(1)}, 1000); h4 == h1 {
		t.Fatalf("InputHash did not change with arguments")
	}
}

func TestOutputHashTreatsNilTopAsExplicitNull(t *testing.T) {
	nilTop := OutputHash(nil, 10, true)
	nullVal := vm.Null()
	explicitNull := OutputHash(&nullVal, 10, true)
	if nilTop != explicitNull {
		t.Fatalf("nil top and explicit Null should hash identically")
	}
	one := vm.IntFromInt64(1)
	withValue := OutputHash(&one, 10, true)
	if withValue == nilTop {
		t.Fatalf("OutputHash did not change with top value")
	}
	withFailure := OutputHash(&one, 10, false)
	if withFailure == withValue {
		t.Fatalf("OutputHash did not change with success flag")
	}
	withGas := OutputHash(&one, 11, true)
	if withGas == withValue {
		t.Fatalf("OutputHash did not change with gas consumed")
	}
}

func TestComputeTupleAndEqual(t *testing.T) {
	program := []byte{0xAA, 0xBB}
	args := []vm.Value{vm.IntFromInt64(7)}
	top := vm.IntFromInt64(42)
	tup := ComputeTuple(program, args, 500, &top, 123, true)

	same := ComputeTuple(program, args, 500, &top, 123, true)
	if !tup.Equal(same) {
		t.Fatalf("two tuples computed from identical inputs should be Equal")
	}

	differentGas := ComputeTuple(program, args, 500, &top, 124, true)
	if tup.Equal(differentGas) {
		t.Fatalf("tuples with different gas_consumed should not be Equal")
	}

	differentSuccess := ComputeTuple(program, args, 500, &top, 123, false)
	if tup.Equal(differentSuccess) {
		t.Fatalf("tuples with different success flags should not be Equal")
	}
}

func TestEncodeDecodeTupleRoundTrip(t *testing.T) {
	top := vm.IntFromInt64(9)
	tup := ComputeTuple([]byte{0x01}, []vm.Value{vm.IntFromInt64(2)}, 1000, &top, 55, true)

	encoded := EncodeTuple(tup)
	if len(encoded) != tupleByteLen {
		t.Fatalf("encoded length = %d, want %d", len(encoded), tupleByteLen)
	}

	decoded, err := DecodeTuple(encoded)
	if err != nil {
		t.Fatalf("DecodeTuple: %v", err)
	}
	if !tup.Equal(decoded) {
		t.Fatalf("decoded tuple %+v does not match original %+v", decoded, tup)
	}

	reencoded := EncodeTuple(decoded)
	if !bytes.Equal(encoded, reencoded) {
		t.Fatalf("re-encoding a decoded tuple produced different bytes")
	}
}

func TestDecodeTupleRejectsWrongLength(t *testing.T) {
	_, err := DecodeTuple(make([]byte, tupleByteLen-1))
	if err == nil {
		t.Fatalf("expected an error for a truncated tuple")
	}
	_, err = DecodeTuple(make([]byte, tupleByteLen+1))
	if err == nil {
		t.Fatalf("expected an error for an oversized tuple")
	}
}

func TestEncodeTupleSuccessFlagByte(t *testing.T) {
	top := vm.IntFromInt64(0)
	failing := ComputeTuple([]byte{0x01}, nil, 0, &top, 0, false)
	encoded := EncodeTuple(failing)
	if encoded[len(encoded)-1] != 0 {
		t.Fatalf("success=false should encode the final byte as 0, got %d", encoded[len(encoded)-1])
	}

	succeeding := ComputeTuple([]byte{0x01}, nil, 0, &top, 0, true)
	encoded = EncodeTuple(succeeding)
	if encoded[len(encoded)-1] != 1 {
		t.Fatalf("success=true should encode the final byte as 1, got %d", encoded[len(encoded)-1])
	}
}
