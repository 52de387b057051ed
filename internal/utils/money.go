package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Os campos monetários e percentuais chegam como texto digitado em máscara:
// os dígitos são centavos ("123456" -> "1.234,56").

func FormatCurrency(raw string) string   { return formatCents(raw) }
func FormatPercentage(raw string) string { return formatCents(raw) }

func formatCents(raw string) string {
	digits := OnlyDigits(raw)
	if digits == "" {
		digits = "0"
	}
	cents, err := decimal.NewFromString(digits)
	if err != nil {
		return ""
	}
	return FormatDecimal(cents.Shift(-2).InexactFloat64())
}

// FormatDecimal formata com 2 casas no padrão pt-BR (1.234,56).
func FormatDecimal(v float64) string {
	// message.Printer não é seguro p/ uso concorrente, então um por chamada
	p := message.NewPrinter(language.BrazilianPortuguese)
	return p.Sprint(number.Decimal(v, number.Scale(2)))
}

func ParseCurrency(s string) (float64, error)   { return parseLocalized(s) }
func ParsePercentage(s string) (float64, error) { return parseLocalized(s) }

// parseLocalized remove separador de milhar, troca vírgula decimal por ponto
// e converte. Texto vazio vale 0.
func parseLocalized(raw string) (float64, error) {
	s := strings.NewReplacer("R$", "", "%", "", " ", "", "\u00a0", "").Replace(raw)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.Replace(s, ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	return d.InexactFloat64(), nil
}
