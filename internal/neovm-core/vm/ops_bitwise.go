package vm

import "math/big"

func init() {
	register(INVERT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return false, e.pushBig(new(big.Int).Not(a.Big()))
	})
	register(AND, intBinOp(func(a, b *big.Int) *big.Int { return new(big.Int).And(a, b) }))
	register(OR, intBinOp(func(a, b *big.Int) *big.Int { return new(big.Int).Or(a, b) }))
	register(XOR, intBinOp(func(a, b *big.Int) *big.Int { return new(big.Int).Xor(a, b) }))

	register(EQUAL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.Pop()
		if err != nil {
			return false, err
		}
		a, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(a.Equal(b)))
	})
	register(NOTEQUAL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.Pop()
		if err != nil {
			return false, err
		}
		a, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(!a.Equal(b)))
	})
}

// pushBig pushes a signed arbitrary-precision integer, faulting if its
// magnitude exceeds MAX_INT_SIZE (§4.1).
func (e *Engine) pushBig(n *big.Int) error {
	v, err := IntFromBig(n, e.cfg.MaxIntSize)
	if err != nil {
		return newFault(e.ip(), FaultInvalidOperation, "integer result exceeds MAX_INT_SIZE")
	}
	return e.Push(v)
}

func intBinOp(f func(a, b *big.Int) *big.Int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return false, e.pushBig(f(a.Big(), b.Big()))
	}
}
