package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
)

func TestGasMeter_ConsumedPlusRemainingIsConserved(t *testing.T) {
	const initial = 1000
	g := NewGasMeter(initial, DefaultMaxPqcPerTx)

	for _, amount := range []uint64{1, 5, 10, 3, 2} {
		require.NoError(t, g.Consume(amount))
		assert.Equal(t, uint64(initial), g.Consumed+g.Remaining)
	}
}

func TestGasMeter_ConsumeFailsAtomically(t *testing.T) {
	g := NewGasMeter(10, DefaultMaxPqcPerTx)
	require.NoError(t, g.Consume(7))

	err := g.Consume(4)
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.OutOfGas, vmErr.Kind)
	assert.Equal(t, uint64(7), g.Consumed)
	assert.Equal(t, uint64(3), g.Remaining)
}

func TestGasMeter_PqcSubBudgetIsBounded(t *testing.T) {
	g := NewGasMeter(DefaultInitialGas, 100)
	require.NoError(t, g.ConsumePQC(60))
	require.NoError(t, g.ConsumePQC(40))

	err := g.ConsumePQC(1)
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.OutOfGas, vmErr.Kind)
	assert.Equal(t, uint64(100), g.PqcConsumed)
	assert.Equal(t, uint64(100), g.Consumed)
}

func TestGasMeter_PqcDrainsGeneralGasToo(t *testing.T) {
	g := NewGasMeter(100000, 100000)
	require.NoError(t, g.ConsumePQC(50000))
	assert.Equal(t, uint64(50000), g.Consumed)
	assert.Equal(t, uint64(50000), g.Remaining)
	assert.Equal(t, uint64(50000), g.PqcConsumed)
}

func TestGasMeter_PqcFailsAtomicallyWhenGeneralGasShort(t *testing.T) {
	g := NewGasMeter(100, 100000)

	err := g.ConsumePQC(500)
	require.Error(t, err)
	vmErr, ok := err.(*synqerrors.VMError)
	require.True(t, ok)
	assert.Equal(t, synqerrors.OutOfGas, vmErr.Kind)
	assert.Equal(t, uint64(0), g.PqcConsumed)
	assert.Equal(t, uint64(0), g.Consumed)
	assert.Equal(t, uint64(100), g.Remaining)
}
