// Package vm implements QuantumVM: a deterministic, single-threaded
// stack machine that executes loaded .synq binaries under a two-pool
// gas budget.
package vm

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/synergy-network-hq/synq-language-sub000/internal/bytecode"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
	"github.com/synergy-network-hq/synq-language-sub000/internal/pqcprovider"
)

// VM is one instance of the dispatch loop over a loaded program. An
// instance executes exactly one invocation to completion; nothing here
// is shared across instances.
type VM struct {
	Code []byte
	Data []byte

	PC     uint32
	Halted bool

	Stack     Stack
	Memory    *Memory
	CallStack CallStack
	Gas       *GasMeter

	Provider pqcprovider.Provider
	Output   io.Writer
}

// New constructs a VM from an already-decoded program. gas and
// provider must be non-nil; Output defaults to os.Stdout.
func New(code, data []byte, gas *GasMeter, provider pqcprovider.Provider) *VM {
	return &VM{
		Code:     code,
		Data:     data,
		Memory:   NewMemory(),
		Gas:      gas,
		Provider: provider,
		Output:   os.Stdout,
	}
}

// Load decodes a .synq binary and constructs a VM ready to Run. Decode
// failures (short buffer, bad magic) are reported as InvalidBytecode.
func Load(buf []byte, gas *GasMeter, provider pqcprovider.Provider) (*VM, error) {
	prog, err := bytecode.Decode(buf)
	if err != nil {
		return nil, synqerrors.NewVMError(synqerrors.InvalidBytecode, "%s", err)
	}
	return New(prog.Code, prog.Data, gas, provider), nil
}

// Run executes the dispatch loop until Halt, an empty-call-stack
// Return, running off the end of code, or an error.
func (m *VM) Run() error {
	for !m.Halted && m.PC < uint32(len(m.Code)) {
		if err := m.step(); err != nil {
			return err
		}
	}
	return nil
}

func (m *VM) readByte() (byte, error) {
	if m.PC >= uint32(len(m.Code)) {
		return 0, synqerrors.NewVMError(synqerrors.RuntimeError, "ran off the end of code")
	}
	b := m.Code[m.PC]
	m.PC++
	return b, nil
}

func (m *VM) readU32() (uint32, error) {
	if uint64(m.PC)+4 > uint64(len(m.Code)) {
		return 0, synqerrors.NewVMError(synqerrors.InvalidBytecode, "truncated u32 operand at %d", m.PC)
	}
	v := binary.LittleEndian.Uint32(m.Code[m.PC : m.PC+4])
	m.PC += 4
	return v, nil
}

func (m *VM) readI32() (int32, error) {
	u, err := m.readU32()
	return int32(u), err
}

func (m *VM) readBytes(n uint32) ([]byte, error) {
	if uint64(m.PC)+uint64(n) > uint64(len(m.Code)) {
		return nil, synqerrors.NewVMError(synqerrors.InvalidBytecode, "truncated bytes operand at %d", m.PC)
	}
	b := m.Code[m.PC : m.PC+n]
	m.PC += n
	return b, nil
}

func (m *VM) validateTarget(target uint32) error {
	if target >= uint32(len(m.Code)) {
		return synqerrors.NewVMError(synqerrors.InvalidAddress, "jump target %d out of range [0, %d)", target, len(m.Code))
	}
	return nil
}

// step dispatches a single opcode: read, advance pc, charge base gas,
// execute. Unknown opcode bytes fail before any gas is charged.
func (m *VM) step() error {
	raw, err := m.readByte()
	if err != nil {
		return err
	}
	op := bytecode.Opcode(raw)
	if !op.IsValid() {
		return synqerrors.NewVMError(synqerrors.InvalidOpcode, "unknown opcode byte 0x%02x", raw)
	}
	if err := m.Gas.Consume(op.BaseGas()); err != nil {
		return err
	}
	return m.dispatch(op)
}

func (m *VM) dispatch(op bytecode.Opcode) error {
	switch op {
	case bytecode.Push:
		n, err := m.readI32()
		if err != nil {
			return err
		}
		return m.Stack.Push(I32Value(n))

	case bytecode.Pop:
		_, err := m.Stack.Pop()
		return err

	case bytecode.Dup:
		v, err := m.Stack.Peek()
		if err != nil {
			return err
		}
		return m.Stack.Push(v)

	case bytecode.Swap:
		top, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		second, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		if err := m.Stack.Push(top); err != nil {
			return err
		}
		return m.Stack.Push(second)

	case bytecode.Add:
		return m.binaryArith(func(a, b int64) int64 { return a + b })
	case bytecode.Sub:
		return m.binaryArith(func(a, b int64) int64 { return a - b })
	case bytecode.Mul:
		return m.binaryArith(func(a, b int64) int64 { return a * b })
	case bytecode.Div:
		return m.div()

	case bytecode.Eq:
		return m.compareEq(false)
	case bytecode.Ne:
		return m.compareEq(true)
	case bytecode.Lt:
		return m.compareOrd(func(c int) bool { return c < 0 })
	case bytecode.Le:
		return m.compareOrd(func(c int) bool { return c <= 0 })
	case bytecode.Gt:
		return m.compareOrd(func(c int) bool { return c > 0 })
	case bytecode.Ge:
		return m.compareOrd(func(c int) bool { return c >= 0 })

	case bytecode.Jump:
		target, err := m.readU32()
		if err != nil {
			return err
		}
		if err := m.validateTarget(target); err != nil {
			return err
		}
		m.PC = target
		return nil

	case bytecode.JumpIf:
		target, err := m.readU32()
		if err != nil {
			return err
		}
		cond, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		b, ok := cond.AsBool()
		if !ok {
			return synqerrors.NewVMError(synqerrors.RuntimeError, "JumpIf condition is not boolean-coercible")
		}
		if b {
			if err := m.validateTarget(target); err != nil {
				return err
			}
			m.PC = target
		}
		return nil

	case bytecode.Call:
		target, err := m.readU32()
		if err != nil {
			return err
		}
		if err := m.validateTarget(target); err != nil {
			return err
		}
		m.CallStack.Push(m.PC)
		m.PC = target
		return nil

	case bytecode.Return:
		addr, ok := m.CallStack.Pop()
		if !ok {
			m.Halted = true
			return nil
		}
		m.PC = addr
		return nil

	case bytecode.Load:
		addrVal, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		addr, err := m.addrOf(addrVal)
		if err != nil {
			return err
		}
		v, err := m.Memory.Load(addr)
		if err != nil {
			return err
		}
		return m.Stack.Push(v)

	case bytecode.Store:
		addrVal, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		val, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		addr, err := m.addrOf(addrVal)
		if err != nil {
			return err
		}
		m.Memory.Store(addr, val)
		return nil

	case bytecode.LoadImm:
		n, err := m.readU32()
		if err != nil {
			return err
		}
		b, err := m.readBytes(n)
		if err != nil {
			return err
		}
		cp := make([]byte, len(b))
		copy(cp, b)
		return m.Stack.Push(BytesValue(cp))

	case bytecode.MLDSAVerify:
		return m.pqcVerify(func(pk, msg, sig []byte) bool { return m.Provider.MLDSA65Verify(pk, msg, sig) },
			func(pk, msg, sig []byte) uint64 { return 6000 + 9*uint64(len(pk)+len(msg)+len(sig)) + 20000 })

	case bytecode.FNDSAVerify:
		return m.pqcVerify(func(pk, msg, sig []byte) bool { return m.Provider.FNDSA512Verify(pk, msg, sig) },
			func(pk, msg, sig []byte) uint64 { return 4000 + 6*uint64(len(pk)+len(msg)+len(sig)) + 10000 })

	case bytecode.SLHDSAVerify:
		return synqerrors.NewVMError(synqerrors.RuntimeError, "SLHDSAVerify is not available in the current runtime profile")

	case bytecode.MLKEMKeyExchange:
		return m.pqcDecapsulate("MLKEMKeyExchange", m.Provider.MLKEM768Decapsulate,
			func(sk, ct []byte) uint64 { return 5000 + 6*uint64(len(sk)+len(ct)) + 14000 })
	case bytecode.HQCKEM128KeyExchange:
		return m.pqcDecapsulate("HQCKEM128KeyExchange", m.Provider.HQCKEM128Decapsulate,
			func(sk, ct []byte) uint64 { return 6500 + 7*uint64(len(sk)+len(ct)) + 22000 })
	case bytecode.HQCKEM192KeyExchange:
		return m.pqcDecapsulate("HQCKEM192KeyExchange", m.Provider.HQCKEM192Decapsulate,
			func(sk, ct []byte) uint64 { return 7000 + 7*uint64(len(sk)+len(ct)) + 26000 })
	case bytecode.HQCKEM256KeyExchange:
		return m.pqcDecapsulate("HQCKEM256KeyExchange", m.Provider.HQCKEM256Decapsulate,
			func(sk, ct []byte) uint64 { return 7500 + 7*uint64(len(sk)+len(ct)) + 32000 })

	case bytecode.Print:
		v, err := m.Stack.Pop()
		if err != nil {
			return err
		}
		fmt.Fprintln(m.Output, v.String())
		return nil

	case bytecode.Halt:
		m.Halted = true
		return nil

	default:
		return synqerrors.NewVMError(synqerrors.InvalidOpcode, "opcode %s has no handler", op)
	}
}

func (m *VM) addrOf(v Value) (uint32, error) {
	n, ok := v.AsI64()
	if !ok || n < 0 {
		return 0, synqerrors.NewVMError(synqerrors.RuntimeError, "address operand is not a non-negative integer")
	}
	return uint32(n), nil
}

func (m *VM) binaryArith(op func(a, b int64) int64) error {
	b, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	ai, ok := a.AsI64()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "left operand is not numeric")
	}
	bi, ok := b.AsI64()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "right operand is not numeric")
	}
	r := op(ai, bi)
	if a.Kind == KindI32 && b.Kind == KindI32 {
		return m.Stack.Push(I32Value(int32(r)))
	}
	return m.Stack.Push(I64Value(r))
}

func (m *VM) div() error {
	b, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	ai, ok := a.AsI64()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "left operand is not numeric")
	}
	bi, ok := b.AsI64()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "right operand is not numeric")
	}
	if bi == 0 {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "Division by zero")
	}
	r := ai / bi
	if a.Kind == KindI32 && b.Kind == KindI32 {
		return m.Stack.Push(I32Value(int32(r)))
	}
	return m.Stack.Push(I64Value(r))
}

func (m *VM) compareEq(negate bool) error {
	b, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	eq := a.Equal(b)
	if negate {
		eq = !eq
	}
	return m.Stack.Push(BoolValue(eq))
}

func (m *VM) compareOrd(pred func(c int) bool) error {
	b, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	a, err := m.Stack.Pop()
	if err != nil {
		return err
	}
	c, ok := a.Compare(b)
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "comparison operands are not both numeric")
	}
	return m.Stack.Push(BoolValue(pred(c)))
}

// pqcVerify implements the common shape of MLDSAVerify/FNDSAVerify: peek
// the (sig, msg, pk) triple (pk on top, per the `sig msg pk → bool`
// stack effect), charge the dynamic cost, and only then actually pop —
// so a failed charge leaves the stack untouched.
func (m *VM) pqcVerify(
	verify func(pk, msg, sig []byte) bool,
	cost func(pk, msg, sig []byte) uint64,
) error {
	top, err := m.Stack.PeekN(3)
	if err != nil {
		return err
	}
	pkVal, msgVal, sigVal := top[0], top[1], top[2]
	pk, ok := pkVal.AsBytes()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "pqc verify: public key operand is not bytes")
	}
	msg, ok := msgVal.AsBytes()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "pqc verify: message operand is not bytes")
	}
	sig, ok := sigVal.AsBytes()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "pqc verify: signature operand is not bytes")
	}
	if err := m.Gas.ConsumePQC(cost(pk, msg, sig)); err != nil {
		return err
	}
	m.Stack.PopN(3)
	return m.Stack.Push(BoolValue(verify(pk, msg, sig)))
}

// pqcDecapsulate implements the common shape of the KEM opcodes: peek
// the (ct, sk) pair (sk on top, per the `ct sk → ss` stack effect),
// charge the dynamic cost, then pop and decapsulate.
func (m *VM) pqcDecapsulate(
	algorithm string,
	decap func(ct, sk []byte) ([]byte, error),
	cost func(sk, ct []byte) uint64,
) error {
	top, err := m.Stack.PeekN(2)
	if err != nil {
		return err
	}
	skVal, ctVal := top[0], top[1]
	sk, ok := skVal.AsBytes()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "%s: secret key operand is not bytes", algorithm)
	}
	ct, ok := ctVal.AsBytes()
	if !ok {
		return synqerrors.NewVMError(synqerrors.RuntimeError, "%s: ciphertext operand is not bytes", algorithm)
	}
	if err := m.Gas.ConsumePQC(cost(sk, ct)); err != nil {
		return err
	}
	m.Stack.PopN(2)
	ss, err := decap(ct, sk)
	if err != nil {
		return synqerrors.NewVMError(synqerrors.CryptoError, "%s: %s", algorithm, err)
	}
	return m.Stack.Push(BytesValue(ss))
}
