package costcenter

import (
	"encoding/csv"
	"io"

	"github.com/colegia/colegia/internal/shared"
)

// statusLabel mirrors the dashboard's badge text.
func statusLabel(active bool) string {
	if active {
		return "Ativo"
	}
	return "Inativo"
}

// WriteCSV flattens a scoped category list for download. Column order and
// pt-BR currency formatting are part of the export contract.
func WriteCSV(w io.Writer, categories []Category) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Categoria", "Descrição", "Valor", "Percentual", "Status"}); err != nil {
		return err
	}
	for _, c := range categories {
		if err := writer.Write([]string{
			c.Name,
			c.Description,
			shared.FormatBRL(c.TotalAmount),
			shared.FormatPercent(c.Percentage),
			statusLabel(c.IsActive),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
