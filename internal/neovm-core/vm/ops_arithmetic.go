package vm

import "math/big"

func init() {
	register(SIGN, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return false, e.Push(IntFromInt64(int64(a.Big().Sign())))
	})
	register(ABS, intUnOp(func(a *big.Int) *big.Int { return new(big.Int).Abs(a) }))
	register(NEGATE, intUnOp(func(a *big.Int) *big.Int { return new(big.Int).Neg(a) }))
	register(INC, intUnOp(func(a *big.Int) *big.Int { return new(big.Int).Add(a, big.NewInt(1)) }))
	register(DEC, intUnOp(func(a *big.Int) *big.Int { return new(big.Int).Sub(a, big.NewInt(1)) }))

	register(ADD, intBinOp(func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) }))
	register(SUB, intBinOp(func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) }))
	register(MUL, intBinOp(func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) }))

	register(DIV, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		if b.IsIntZero() {
			return false, newFault(e.ip(), FaultDivisionByZero, "DIV by zero")
		}
		return false, e.pushBig(new(big.Int).Quo(a.Big(), b.Big()))
	})
	register(MOD, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		if b.IsIntZero() {
			return false, newFault(e.ip(), FaultDivisionByZero, "MOD by zero")
		}
		return false, e.pushBig(new(big.Int).Rem(a.Big(), b.Big()))
	})
	register(POW, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		exp, err := e.popInt()
		if err != nil {
			return false, err
		}
		base, err := e.popInt()
		if err != nil {
			return false, err
		}
		eb := exp.Big()
		if eb.Sign() < 0 {
			return false, newFault(e.ip(), FaultInvalidOperation, "POW exponent must be non-negative")
		}
		if !eb.IsUint64() || eb.Uint64() > uint64(e.cfg.MaxIntSize)*8 {
			return false, newFault(e.ip(), FaultInvalidOperation, "POW exponent too large")
		}
		return false, e.pushBig(new(big.Int).Exp(base.Big(), eb, nil))
	})
	register(SQRT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		ab := a.Big()
		if ab.Sign() < 0 {
			return false, newFault(e.ip(), FaultInvalidOperation, "SQRT of negative value")
		}
		return false, e.pushBig(new(big.Int).Sqrt(ab))
	})
	register(MODMUL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		mod, err := e.popInt()
		if err != nil {
			return false, err
		}
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		if mod.IsIntZero() {
			return false, newFault(e.ip(), FaultDivisionByZero, "MODMUL modulus is zero")
		}
		prod := new(big.Int).Mul(a.Big(), b.Big())
		return false, e.pushBig(new(big.Int).Mod(prod, mod.Big()))
	})
	register(MODPOW, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		mod, err := e.popInt()
		if err != nil {
			return false, err
		}
		exp, err := e.popInt()
		if err != nil {
			return false, err
		}
		base, err := e.popInt()
		if err != nil {
			return false, err
		}
		if mod.IsIntZero() {
			return false, newFault(e.ip(), FaultDivisionByZero, "MODPOW modulus is zero")
		}
		if exp.Big().Sign() < 0 {
			return false, newFault(e.ip(), FaultInvalidOperation, "MODPOW exponent must be non-negative")
		}
		return false, e.pushBig(new(big.Int).Exp(base.Big(), exp.Big(), new(big.Int).Abs(mod.Big())))
	})
	register(SHL, shiftOp(func(a *big.Int, n uint) *big.Int { return new(big.Int).Lsh(a, n) }))
	register(SHR, shiftOp(func(a *big.Int, n uint) *big.Int { return new(big.Int).Rsh(a, n) }))

	register(NOT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(!v.AsBool()))
	})
	register(BOOLAND, boolBinOp(func(a, b bool) bool { return a && b }))
	register(BOOLOR, boolBinOp(func(a, b bool) bool { return a || b }))
	register(NZ, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(!a.IsIntZero()))
	})
	register(NUMEQUAL, cmpOp(func(c int) bool { return c == 0 }))
	register(NUMNOTEQUAL, cmpOp(func(c int) bool { return c != 0 }))
	register(LT, cmpOp(func(c int) bool { return c < 0 }))
	register(LE, cmpOp(func(c int) bool { return c <= 0 }))
	register(GT, cmpOp(func(c int) bool { return c > 0 }))
	register(GE, cmpOp(func(c int) bool { return c >= 0 }))

	register(MIN, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		if a.Big().Cmp(b.Big()) <= 0 {
			return false, e.Push(a)
		}
		return false, e.Push(b)
	})
	register(MAX, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		if a.Big().Cmp(b.Big()) >= 0 {
			return false, e.Push(a)
		}
		return false, e.Push(b)
	})
	register(WITHIN, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		hi, err := e.popInt()
		if err != nil {
			return false, err
		}
		lo, err := e.popInt()
		if err != nil {
			return false, err
		}
		x, err := e.popInt()
		if err != nil {
			return false, err
		}
		xb, lob, hib := x.Big(), lo.Big(), hi.Big()
		return false, e.Push(Bool(lob.Cmp(xb) <= 0 && xb.Cmp(hib) < 0))
	})
}

func intUnOp(f func(a *big.Int) *big.Int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return false, e.pushBig(f(a.Big()))
	}
}

func boolBinOp(f func(a, b bool) bool) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.Pop()
		if err != nil {
			return false, err
		}
		a, err := e.Pop()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(f(a.AsBool(), b.AsBool())))
	}
}

func cmpOp(ok func(cmp int) bool) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		b, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		return false, e.Push(Bool(ok(a.Big().Cmp(b.Big()))))
	}
}

func shiftOp(f func(a *big.Int, n uint) *big.Int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popInt()
		if err != nil {
			return false, err
		}
		a, err := e.popInt()
		if err != nil {
			return false, err
		}
		nb := n.Big()
		if nb.Sign() < 0 || !nb.IsUint64() || nb.Uint64() > uint64(e.cfg.MaxShift) {
			return false, newFault(e.ip(), FaultInvalidOperation, "shift count out of range [0, MAX_SHIFT]")
		}
		return false, e.pushBig(f(a.Big(), uint(nb.Uint64())))
	}
}
