package performance

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/colegia/colegia/internal/shared"
)

var csvHeader = []string{"Unidade", "Receita", "Despesa", "Lucro", "Margem %", "Alunos", "Ocupação %", "Ticket Médio", "Satisfação %"}

// WriteCSV renders the branch ranking with pt-BR currency formatting.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.UnitName,
			shared.FormatBRL(r.Revenue),
			shared.FormatBRL(r.Expense),
			shared.FormatBRL(r.Profit),
			shared.FormatPercent(r.Margin),
			strconv.Itoa(r.Students),
			shared.FormatPercent(r.Occupancy),
			shared.FormatBRL(r.AverageTicket),
			shared.FormatPercent(r.Satisfaction),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
