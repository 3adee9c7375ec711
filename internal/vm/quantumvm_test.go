package vm

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
	"github.com/synergy-network-hq/synq-language-sub000/internal/pqcprovider"
)

func pushOp(n int32) []byte {
	buf := make([]byte, 5)
	buf[0] = byte(opPush)
	binary.LittleEndian.PutUint32(buf[1:], uint32(n))
	return buf
}

// local opcode aliases to keep this test file readable without
// importing the bytecode package's exported names everywhere.
const (
	opPush    = 0x01
	opAdd     = 0x05
	opDiv     = 0x08
	opHalt    = 0x1e
	opLoadImm = 0x15
)

func newTestVM(code []byte) *VM {
	gas := NewGasMeter(DefaultInitialGas, DefaultMaxPqcPerTx)
	return New(code, nil, gas, pqcprovider.NewReference())
}

func TestRun_PushAddHalt(t *testing.T) {
	var code []byte
	code = append(code, pushOp(2)...)
	code = append(code, pushOp(3)...)
	code = append(code, byte(opAdd))
	code = append(code, byte(opHalt))

	m := newTestVM(code)
	require.NoError(t, m.Run())
	require.Equal(t, 1, m.Stack.Len())
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, KindI32, top.Kind)
	assert.Equal(t, int32(5), top.I32)
}

func TestRun_DivisionByZero(t *testing.T) {
	var code []byte
	code = append(code, pushOp(1)...)
	code = append(code, pushOp(0)...)
	code = append(code, byte(opDiv))
	code = append(code, byte(opHalt))

	m := newTestVM(code)
	err := m.Run()
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.RuntimeError, vmErr.Kind)
	assert.Contains(t, vmErr.Error(), "Division by zero")
}

func TestRun_UnknownOpcode(t *testing.T) {
	code := []byte{0xaa}
	m := newTestVM(code)
	err := m.Run()
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.InvalidOpcode, vmErr.Kind)
}

func TestRun_StackOverflow(t *testing.T) {
	var code []byte
	for i := 0; i < MaxStackDepth+1; i++ {
		code = append(code, pushOp(1)...)
	}
	code = append(code, byte(opHalt))
	m := newTestVM(code)
	err := m.Run()
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.StackOverflow, vmErr.Kind)
}

func TestRun_StoreThenLoad(t *testing.T) {
	// push value(7), push addr(0), store; push addr(0), load; halt.
	var code []byte
	code = append(code, pushOp(7)...)
	code = append(code, pushOp(0)...)
	code = append(code, byte(0x14)) // Store
	code = append(code, pushOp(0)...)
	code = append(code, byte(0x13)) // Load
	code = append(code, byte(opHalt))

	m := newTestVM(code)
	require.NoError(t, m.Run())
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(7), top.I32)
}

func TestRun_JumpOutOfRangeIsInvalidAddress(t *testing.T) {
	code := make([]byte, 5)
	code[0] = 0x0f // Jump
	binary.LittleEndian.PutUint32(code[1:], 9999)
	m := newTestVM(code)
	err := m.Run()
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.InvalidAddress, vmErr.Kind)
}

func loadImmOp(b []byte) []byte {
	buf := make([]byte, 5+len(b))
	buf[0] = byte(opLoadImm)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(b)))
	copy(buf[5:], b)
	return buf
}

func TestRun_MLDSAVerify_HappyPathAndBitFlip(t *testing.T) {
	provider := pqcprovider.NewReference()
	pk := bytes.Repeat([]byte{0x01}, 1312)
	msg := bytes.Repeat([]byte{0x02}, 64)

	// The reference provider accepts blake2b(pk || msg) as the signature.
	sig := refSignature(pk, msg)

	var code []byte
	code = append(code, loadImmOp(sig)...)
	code = append(code, loadImmOp(msg)...)
	code = append(code, loadImmOp(pk)...)
	code = append(code, byte(0x16)) // MLDSAVerify
	code = append(code, byte(opHalt))

	gas := NewGasMeter(DefaultInitialGas, DefaultMaxPqcPerTx)
	m := New(code, nil, gas, provider)
	require.NoError(t, m.Run())
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, KindBool, top.Kind)
	assert.True(t, top.Bool)
	consumedHappy := gas.PqcConsumed

	flipped := append([]byte(nil), sig...)
	flipped[len(flipped)-1] ^= 0xff
	var code2 []byte
	code2 = append(code2, loadImmOp(flipped)...)
	code2 = append(code2, loadImmOp(msg)...)
	code2 = append(code2, loadImmOp(pk)...)
	code2 = append(code2, byte(0x16))
	code2 = append(code2, byte(opHalt))

	gas2 := NewGasMeter(DefaultInitialGas, DefaultMaxPqcPerTx)
	m2 := New(code2, nil, gas2, provider)
	require.NoError(t, m2.Run())
	top2, err := m2.Stack.Peek()
	require.NoError(t, err)
	assert.False(t, top2.Bool)
	assert.Equal(t, consumedHappy, gas2.PqcConsumed)
}

func TestRun_MLDSAVerify_GasCapExceeded_LeavesStackUnchanged(t *testing.T) {
	provider := pqcprovider.NewReference()
	pk := make([]byte, 1312)
	msg := make([]byte, 64)
	sig := make([]byte, 3293)

	var code []byte
	code = append(code, loadImmOp(sig)...)
	code = append(code, loadImmOp(msg)...)
	code = append(code, loadImmOp(pk)...)
	code = append(code, byte(0x16))
	code = append(code, byte(opHalt))

	gas := NewGasMeter(DefaultInitialGas, 25_000)
	m := New(code, nil, gas, provider)
	err := m.Run()
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.OutOfGas, vmErr.Kind)
	assert.Equal(t, 3, m.Stack.Len())
}

func refSignature(pk, msg []byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(pk)
	h.Write(msg)
	return h.Sum(nil)
}
