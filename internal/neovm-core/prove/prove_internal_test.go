package prove

import (
	"testing"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"

	"github.com/zkneo/neovm-core/internal/neovm-core/vm"
)

func TestNextPow2(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 4: 4, 5: 8, 8: 8, 9: 16}
	for in, want := range cases {
		if got := nextPow2(in); got != want {
			t.Fatalf("nextPow2(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestDigestLimbsRoundsTripBytes(t *testing.T) {
	var d [32]byte
	for i := range d {
		d[i] = byte(i + 1)
	}
	limbs := digestLimbs(d)
	if len(limbs) != 4 {
		t.Fatalf("digestLimbs produced %d limbs, want 4", len(limbs))
	}
	// First limb is the little-endian uint64 of bytes d[0:8].
	var want uint64
	for j := 0; j < 8; j++ {
		want |= uint64(d[j]) << (8 * j)
	}
	if limbs[0] != want {
		t.Fatalf("limb[0] = %d, want %d", limbs[0], want)
	}
}

func TestProgramDigestPacksFourLimbsPlusZero(t *testing.T) {
	var h [32]byte
	for i := range h {
		h[i] = byte(255 - i)
	}
	elems := programDigest(h)
	if len(elems) != 5 {
		t.Fatalf("programDigest produced %d elements, want 5", len(elems))
	}
	if !elems[4].Equal(field.New(0)) {
		t.Fatalf("programDigest's 5th element = %v, want 0", elems[4])
	}
}

func TestNewTraceColumnsPadsToPowerOfTwo(t *testing.T) {
	trace := vm.Trace{
		Steps: []vm.TraceStep{
			{IP: 0, Opcode: vm.OpCode(0x10), GasAfter: 1},
			{IP: 1, Opcode: vm.OpCode(0x11), GasAfter: 2},
			{IP: 2, Opcode: vm.OpCode(0x40), GasAfter: 3},
		},
	}
	tc := newTraceColumns(trace)
	if tc.rows != 3 {
		t.Fatalf("rows = %d, want 3", tc.rows)
	}
	if tc.GetPaddedHeight() != 4 {
		t.Fatalf("padded height = %d, want 4 (next power of two above 3)", tc.GetPaddedHeight())
	}
	cols, err := tc.GetTraceColumns()
	if err != nil {
		t.Fatalf("GetTraceColumns: %v", err)
	}
	if len(cols) != traceColumnCount {
		t.Fatalf("column count = %d, want %d", len(cols), traceColumnCount)
	}
	for _, col := range cols {
		if len(col) != 4 {
			t.Fatalf("column length = %d, want padded height 4", len(col))
		}
	}
	// The padding row repeats the last real row's gas_after column.
	if cols[2][3] != cols[2][2] {
		t.Fatalf("padding row did not repeat the last real row")
	}
}

func TestNewTraceColumnsHandlesEmptyTrace(t *testing.T) {
	tc := newTraceColumns(vm.Trace{})
	if tc.rows != 0 {
		t.Fatalf("rows = %d, want 0", tc.rows)
	}
	if tc.GetPaddedHeight() != 1 {
		t.Fatalf("padded height of an empty trace = %d, want 1", tc.GetPaddedHeight())
	}
}

func TestGoldilocksFieldIsConsistent(t *testing.T) {
	f1, err := goldilocksField()
	if err != nil {
		t.Fatalf("goldilocksField: %v", err)
	}
	f2, err := goldilocksField()
	if err != nil {
		t.Fatalf("goldilocksField: %v", err)
	}
	if f1.Modulus().Cmp(f2.Modulus()) != 0 {
		t.Fatalf("goldilocksField returned inconsistent moduli across calls")
	}
}
