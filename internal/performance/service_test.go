package performance

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/colegia/colegia/internal/finance"
	"github.com/colegia/colegia/internal/units"
)

func newService() *Service {
	agg := finance.NewAggregator(units.NewRegistry(), finance.NewMockDataSource(1), nil)
	return NewService(agg)
}

func TestRankingOrderAndTotals(t *testing.T) {
	rows, err := newService().Ranking(context.Background())
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	wantOrder := []string{"campo-grande", "recreio", "barra"}
	for i, id := range wantOrder {
		if rows[i].UnitID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, rows[i].UnitID)
		}
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].Revenue > rows[i-1].Revenue {
			t.Fatalf("ranking not sorted by revenue at position %d", i)
		}
	}

	top := rows[0]
	if top.Revenue != 98500 || top.Expense != 76800 {
		t.Fatalf("unexpected latest month for campo-grande: %v / %v", top.Revenue, top.Expense)
	}
	if top.Profit != top.Revenue-top.Expense {
		t.Fatalf("profit mismatch: %v", top.Profit)
	}
	wantMargin := (98500.0 - 76800.0) / 98500.0 * 100
	if math.Abs(top.Margin-wantMargin) > 1e-9 {
		t.Fatalf("margin mismatch: got %v want %v", top.Margin, wantMargin)
	}
	wantTicket := 98500.0 / 420
	if math.Abs(top.AverageTicket-wantTicket) > 1e-9 {
		t.Fatalf("ticket mismatch: got %v want %v", top.AverageTicket, wantTicket)
	}
	if top.Occupancy != 87 || top.Satisfaction != 92 {
		t.Fatalf("unexpected occupancy/satisfaction: %v / %v", top.Occupancy, top.Satisfaction)
	}
}

func TestWriteCSVHeaderAndRows(t *testing.T) {
	rows, err := newService().Ranking(context.Background())
	if err != nil {
		t.Fatalf("ranking: %v", err)
	}
	var buf strings.Builder
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	wantHeader := "Unidade,Receita,Despesa,Lucro,Margem %,Alunos,Ocupação %,Ticket Médio,Satisfação %"
	if lines[0] != wantHeader {
		t.Fatalf("header mismatch:\n got  %q\n want %q", lines[0], wantHeader)
	}
	if !strings.HasPrefix(lines[1], "Campo Grande,") {
		t.Fatalf("expected Campo Grande first, got %q", lines[1])
	}
	if !strings.Contains(lines[1], "R$") {
		t.Fatalf("expected BRL formatting in %q", lines[1])
	}
}
