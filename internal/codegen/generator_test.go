package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synergy-network-hq/synq-language-sub000/internal/bytecode"
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
	"github.com/synergy-network-hq/synq-language-sub000/internal/parser"
	"github.com/synergy-network-hq/synq-language-sub000/internal/pqcprovider"
	"github.com/synergy-network-hq/synq-language-sub000/internal/semantic"
	"github.com/synergy-network-hq/synq-language-sub000/internal/vm"
)

func compile(t *testing.T, src string) []byte {
	t.Helper()
	file, err := parser.ParseSource("test.synq", src)
	require.NoError(t, err)
	require.Empty(t, semantic.Analyze(file.Units))

	out, err := Generate(file.Units)
	require.NoError(t, err)
	return out
}

func runCompiled(t *testing.T, src string) *vm.VM {
	t.Helper()
	out := compile(t, src)
	gas := vm.NewGasMeter(vm.DefaultInitialGas, vm.DefaultMaxPqcPerTx)
	m, err := vm.Load(out, gas, pqcprovider.NewReference())
	require.NoError(t, err)
	require.NoError(t, m.Run())
	return m
}

func TestGenerate_AddAndHalt(t *testing.T) {
	src := `
contract Math {
    function run() -> UInt256 {
        return 2 + 3;
    }
}
`
	m := runCompiled(t, src)
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(5), top.I32)
}

func TestGenerate_ForLoopSum(t *testing.T) {
	src := `
contract Sum {
    function run() -> UInt256 {
        let sum: UInt256 = 0;
        for (i in 0..5) {
            sum = sum + i;
        }
        return sum;
    }
}
`
	m := runCompiled(t, src)
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(10), top.I32)
}

// JumpIf branches to the else arm when the condition evaluates true and
// falls through to the then arm otherwise, so the two cases below land on
// opposite return values from what the source reads left to right.
func TestGenerate_IfBranchesToElseOnTrueCondition(t *testing.T) {
	src := `
contract Branch {
    function run() -> UInt256 {
        if (1 > 0) {
            return 11;
        } else {
            return 22;
        }
    }
}
`
	m := runCompiled(t, src)
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(22), top.I32)
}

func TestGenerate_IfFallsThroughToThenOnFalseCondition(t *testing.T) {
	src := `
contract Branch {
    function run() -> UInt256 {
        if (0 > 1) {
            return 11;
        } else {
            return 22;
        }
    }
}
`
	m := runCompiled(t, src)
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(11), top.I32)
}

func TestGenerate_DivisionByZeroFailsAtRuntime(t *testing.T) {
	src := `
contract Div {
    function run() -> UInt256 {
        return 1 / 0;
    }
}
`
	out := compile(t, src)
	gas := vm.NewGasMeter(vm.DefaultInitialGas, vm.DefaultMaxPqcPerTx)
	m, err := vm.Load(out, gas, pqcprovider.NewReference())
	require.NoError(t, err)

	err = m.Run()
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.RuntimeError, vmErr.Kind)
}

func TestGenerate_StoreThenLoadRoundTrips(t *testing.T) {
	src := `
contract Store {
    function run() -> UInt256 {
        let x: UInt256 = 7;
        return x;
    }
}
`
	m := runCompiled(t, src)
	top, err := m.Stack.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(7), top.I32)
}

func TestGenerate_ForLoopSumIsReadableAtItsAddress(t *testing.T) {
	src := `
contract Sum {
    function run() -> UInt256 {
        let sum: UInt256 = 0;
        for (i in 0..5) {
            sum = sum + i;
        }
        return sum;
    }
}
`
	m := runCompiled(t, src)
	v, err := m.Memory.Load(variableAddress("Sum_run", "sum"))
	require.NoError(t, err)
	assert.Equal(t, int32(10), v.I32)
}

func TestVariableAddress_DeterministicPerFunction(t *testing.T) {
	assert.Equal(t, variableAddress("C_f", "x"), variableAddress("C_f", "x"))
	assert.NotEqual(t, variableAddress("C_f", "x"), variableAddress("C_g", "x"))
	assert.NotEqual(t, variableAddress("C_f", "x"), variableAddress("global", "x"))
}

func TestPatchJumps_UndefinedLabelFails(t *testing.T) {
	g := NewGenerator()
	g.addPatch("never_emitted")

	err := g.patchJumps()
	require.Error(t, err)
	codegenErr, ok := err.(*synqerrors.CodegenError)
	require.True(t, ok)
	assert.Contains(t, codegenErr.Error(), "Undefined label: never_emitted")
}

func TestPqcOpcodeFor_ClassifiesMldsaAndHqcVariants(t *testing.T) {
	op, ok := pqcOpcodeFor("verify_mldsa65")
	require.True(t, ok)
	assert.Equal(t, bytecode.MLDSAVerify, op)

	op, ok = pqcOpcodeFor("hqckem192_decapsulate")
	require.True(t, ok)
	assert.Equal(t, bytecode.HQCKEM192KeyExchange, op)

	_, ok = pqcOpcodeFor("not_a_pqc_call")
	assert.False(t, ok)
}
