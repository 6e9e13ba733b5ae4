package vm

import (
	"crypto/ed25519"
	"crypto/sha256"
	"testing"
)

func TestHashOps(t *testing.T) {
	t.Run("Sha256", func(t *testing.T) {
		program := append(data1([]byte("abc")), byte(OpSHA256))
		e := runEngine(t, program)
		want := sha256.Sum256([]byte("abc"))
		got := topBytes(t, e)
		if len(got) != len(want) {
			t.Fatalf("SHA256 length = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("SHA256(\"abc\") mismatch at byte %d", i)
			}
		}
	})
	t.Run("Hash160ChainsSha256AndRipemd160", func(t *testing.T) {
		direct := append(data1([]byte("abc")), byte(OpHASH160))
		e1 := runEngine(t, direct)

		chained := append(data1([]byte("abc")), byte(OpSHA256), byte(OpRIPEMD160))
		e2 := runEngine(t, chained)

		a, b := topBytes(t, e1), topBytes(t, e2)
		if len(a) != len(b) {
			t.Fatalf("length mismatch: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("HASH160 != SHA256 then RIPEMD160, diverges at byte %d", i)
			}
		}
	})
}

func TestCheckSig(t *testing.T) {
	t.Run("ValidSignatureOverProgramHash", func(t *testing.T) {
		pub, priv, err := ed25519.GenerateKey(nil)
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		// sig/pubKey arrive as pushed arguments, not literal program bytes:
		// embedding a self-signature in the program would make its own hash
		// depend on the signature that signs it.
		program := []byte{byte(OpCHECKSIG), byte(RET)}
		e := NewEngine(DefaultEngineConfig().WithGasLimit(1_000_000), nil, nil, nil)
		if err := e.Load(program); err != nil {
			t.Fatalf("Load: %v", err)
		}
		hash := e.ProgramHash()
		sig := ed25519.Sign(priv, hash[:])
		if err := e.Push(ByteString(sig)); err != nil {
			t.Fatalf("Push sig: %v", err)
		}
		if err := e.Push(ByteString(pub)); err != nil {
			t.Fatalf("Push pubKey: %v", err)
		}
		rep, err := e.RunToEnd()
		if err != nil {
			t.Fatalf("RunToEnd: %v", err)
		}
		if rep.State != Halt || !rep.Top.AsBool() {
			t.Fatalf("CHECKSIG over matching programHash should be true, got %+v / fault %+v", rep.Top, rep.Fault)
		}
	})
	t.Run("WrongSizePublicKeyReturnsFalse", func(t *testing.T) {
		program := append(data1([]byte("sig")), data1([]byte("short-key"))...)
		program = append(program, byte(OpCHECKSIG), byte(RET))
		rep := run(t, program)
		if rep.State != Halt || rep.Top.AsBool() {
			t.Fatalf("CHECKSIG with a malformed key should be false, not fault, got %+v / %+v", rep.Top, rep.Fault)
		}
	})
}
