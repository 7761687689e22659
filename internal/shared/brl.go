package shared

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount as pt-BR currency, e.g. "R$ 98.500,00".
func FormatBRL(v float64) string {
	return ptBR.Sprintf("%v", currency.Symbol(currency.BRL.Amount(v)))
}

// FormatPercent renders a percentage with one decimal, pt-BR separators.
func FormatPercent(v float64) string {
	return ptBR.Sprintf("%.1f%%", v)
}

// FormatNumber renders a plain number with pt-BR grouping.
func FormatNumber(v float64) string {
	return ptBR.Sprintf("%.0f", v)
}
