package vm

import (
	"crypto/ed25519"
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //lint:ignore SA1019 teacher's stack already depends on x/crypto for this digest
)

func init() {
	register(OpSHA256, hashOp(func(b []byte) []byte {
		sum := sha256.Sum256(b)
		return sum[:]
	}))
	register(OpRIPEMD160, hashOp(ripemd160Sum))
	register(OpHASH160, hashOp(func(b []byte) []byte {
		sum := sha256.Sum256(b)
		return ripemd160Sum(sum[:])
	}))

	register(OpCHECKSIG, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		pubKey, err := e.popBytesLike()
		if err != nil {
			return false, err
		}
		sig, err := e.popBytesLike()
		if err != nil {
			return false, err
		}
		if len(pubKey) != ed25519.PublicKeySize {
			return false, e.Push(Bool(false))
		}
		ok := ed25519.Verify(ed25519.PublicKey(pubKey), e.programHash[:], sig)
		return false, e.Push(Bool(ok))
	})
}

func ripemd160Sum(b []byte) []byte {
	h := ripemd160.New()
	h.Write(b)
	return h.Sum(nil)
}

func hashOp(f func([]byte) []byte) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popBytesLike()
		if err != nil {
			return false, err
		}
		return false, e.Push(ByteString(f(b)))
	}
}
