package vm

func init() {
	register(DEPTH, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		return false, e.Push(IntFromInt64(int64(e.Depth())))
	})
	register(DROP, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		_, err := e.Pop()
		return false, err
	})
	register(NIP, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		if err := e.requireDepth(2); err != nil {
			return false, err
		}
		top, _ := e.Pop()
		_, _ = e.Pop()
		return false, e.Push(top)
	})
	register(XDROP, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxStackDepth)
		if err != nil {
			return false, err
		}
		if err := e.requireDepth(n + 1); err != nil {
			return false, err
		}
		idx := len(e.stack) - 1 - n
		e.stack = append(e.stack[:idx], e.stack[idx+1:]...)
		return false, nil
	})
	register(CLEAR, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		e.stack = e.stack[:0]
		return false, nil
	})
	register(DUP, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Peek(0)
		if err != nil {
			return false, err
		}
		return false, e.Push(v)
	})
	register(OVER, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		v, err := e.Peek(1)
		if err != nil {
			return false, err
		}
		return false, e.Push(v)
	})
	register(PICK, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxStackDepth)
		if err != nil {
			return false, err
		}
		v, err := e.Peek(n)
		if err != nil {
			return false, err
		}
		return false, e.Push(v)
	})
	register(TUCK, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		if err := e.requireDepth(2); err != nil {
			return false, err
		}
		top := e.stack[len(e.stack)-1]
		idx := len(e.stack) - 2
		e.stack = append(e.stack[:idx+1], e.stack[idx:]...)
		e.stack[idx] = top
		return false, nil
	})
	register(SWAP, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		if err := e.requireDepth(2); err != nil {
			return false, err
		}
		n := len(e.stack)
		e.stack[n-1], e.stack[n-2] = e.stack[n-2], e.stack[n-1]
		return false, nil
	})
	register(ROT, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		if err := e.requireDepth(3); err != nil {
			return false, err
		}
		n := len(e.stack)
		e.stack[n-3], e.stack[n-2], e.stack[n-1] = e.stack[n-2], e.stack[n-1], e.stack[n-3]
		return false, nil
	})
	register(ROLL, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxStackDepth)
		if err != nil {
			return false, err
		}
		if err := e.requireDepth(n + 1); err != nil {
			return false, err
		}
		idx := len(e.stack) - 1 - n
		v := e.stack[idx]
		e.stack = append(e.stack[:idx], e.stack[idx+1:]...)
		e.stack = append(e.stack, v)
		return false, nil
	})
	register(REVERSE3, reverseTop(3))
	register(REVERSE4, reverseTop(4))
	register(REVERSEN, func(e *Engine, info OpInfo, immOff int) (bool, error) {
		n, err := e.popCount(e.cfg.MaxStackDepth)
		if err != nil {
			return false, err
		}
		return reverseTop(n)(e, info, immOff)
	})
}

func reverseTop(n int) opHandler {
	return func(e *Engine, info OpInfo, immOff int) (bool, error) {
		if err := e.requireDepth(n); err != nil {
			return false, err
		}
		if n <= 1 {
			return false, nil
		}
		start := len(e.stack) - n
		seg := e.stack[start:]
		for i, j := 0, len(seg)-1; i < j; i, j = i+1, j-1 {
			seg[i], seg[j] = seg[j], seg[i]
		}
		return false, nil
	}
}
