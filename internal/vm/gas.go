package vm

import (
	synqerrors "github.com/synergy-network-hq/synq-language-sub000/internal/errors"
)

// DefaultInitialGas is the general-gas budget a fresh VM starts with
// absent an explicit override.
const DefaultInitialGas uint64 = 10_000_000

// DefaultMaxPqcPerTx bounds the PQC sub-budget absent an explicit override.
const DefaultMaxPqcPerTx uint64 = 300_000

// GasMeter tracks two pools: general gas for every dispatched opcode,
// and a bounded PQC sub-budget for the cryptographic opcodes'
// dynamic cost. consumed + remaining always equals the initial budget.
type GasMeter struct {
	Remaining   uint64
	Consumed    uint64
	PqcConsumed uint64
	MaxPqcPerTx uint64
}

func NewGasMeter(initialGas, maxPqcPerTx uint64) *GasMeter {
	return &GasMeter{Remaining: initialGas, MaxPqcPerTx: maxPqcPerTx}
}

// Consume charges amount against general gas. It fails atomically:
// remaining/consumed are unchanged on error.
func (g *GasMeter) Consume(amount uint64) error {
	if amount > g.Remaining {
		return synqerrors.NewVMError(synqerrors.OutOfGas, "need %d, have %d remaining", amount, g.Remaining)
	}
	g.Remaining -= amount
	g.Consumed += amount
	return nil
}

// ConsumePQC charges amount against the bounded PQC sub-budget and
// against general gas. Both checks run before either pool is mutated,
// so a failed charge leaves the meter untouched.
func (g *GasMeter) ConsumePQC(amount uint64) error {
	if g.PqcConsumed+amount > g.MaxPqcPerTx {
		return synqerrors.NewVMError(synqerrors.OutOfGas, "pqc cost %d would exceed max_pqc_per_tx %d (already consumed %d)",
			amount, g.MaxPqcPerTx, g.PqcConsumed)
	}
	if err := g.Consume(amount); err != nil {
		return err
	}
	g.PqcConsumed += amount
	return nil
}
