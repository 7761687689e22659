// Package dre assembles income statements (Demonstrativo de Resultado do
// Exercício) from aggregated unit totals.
package dre

import (
	"fmt"
	"math"
)

// allocationTolerance bounds the drift allowed when a schema's fractions
// are checked against 1.
const allocationTolerance = 1e-6

// RevenueAllocation splits gross revenue into its reporting buckets.
// Fractions must sum to 1.
type RevenueAllocation struct {
	Mensalidades float64 `json:"mensalidades" validate:"gt=0,lt=1"`
	Matriculas   float64 `json:"matriculas" validate:"gt=0,lt=1"`
	Outras       float64 `json:"outras" validate:"gt=0,lt=1"`
}

// ExpenseAllocation splits total expense into its reporting buckets.
// Fractions must sum to 1.
type ExpenseAllocation struct {
	Pessoal     float64 `json:"pessoal" validate:"gt=0,lt=1"`
	Aluguel     float64 `json:"aluguel" validate:"gt=0,lt=1"`
	Marketing   float64 `json:"marketing" validate:"gt=0,lt=1"`
	Operacional float64 `json:"operacional" validate:"gt=0,lt=1"`
	Outros      float64 `json:"outros" validate:"gt=0,lt=1"`
}

// AllocationSchema parameterises the statement layout. A real chart of
// accounts would drive these fractions; until one exists they are
// configuration, not constants baked into the builder.
type AllocationSchema struct {
	Revenue RevenueAllocation `json:"revenue"`
	Expense ExpenseAllocation `json:"expense"`
}

// DefaultSchema returns the chain's observed allocation profile.
func DefaultSchema() AllocationSchema {
	return AllocationSchema{
		Revenue: RevenueAllocation{
			Mensalidades: 0.796,
			Matriculas:   0.132,
			Outras:       0.072,
		},
		Expense: ExpenseAllocation{
			Pessoal:     0.583,
			Aluguel:     0.182,
			Marketing:   0.125,
			Operacional: 0.087,
			Outros:      0.023,
		},
	}
}

// Validate checks that each side of the schema exhausts its pool.
func (s AllocationSchema) Validate() error {
	revenue := s.Revenue.Mensalidades + s.Revenue.Matriculas + s.Revenue.Outras
	if math.Abs(revenue-1) > allocationTolerance {
		return fmt.Errorf("dre: revenue allocation sums to %.6f, want 1", revenue)
	}
	expense := s.Expense.Pessoal + s.Expense.Aluguel + s.Expense.Marketing + s.Expense.Operacional + s.Expense.Outros
	if math.Abs(expense-1) > allocationTolerance {
		return fmt.Errorf("dre: expense allocation sums to %.6f, want 1", expense)
	}
	return nil
}
