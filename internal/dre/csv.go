package dre

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/colegia/colegia/internal/shared"
)

// WriteCSV serialises a statement to CSV for download.
func WriteCSV(w io.Writer, doc Document, unitNames []string) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	scope := strings.Join(unitNames, " + ")
	if err := writer.Write([]string{"DRE", scope}); err != nil {
		return err
	}
	if doc.Period != "" {
		if err := writer.Write([]string{"Período", doc.Period}); err != nil {
			return err
		}
	}
	if err := writer.Write([]string{"Código", "Conta", "Valor", "% Receita"}); err != nil {
		return err
	}
	for _, line := range doc.Lines() {
		indent := strings.Repeat("  ", line.Level)
		if err := writer.Write([]string{
			line.Code,
			indent + line.Name,
			shared.FormatBRL(line.Value),
			fmt.Sprintf("%.1f%%", line.PercentOfRevenue),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
