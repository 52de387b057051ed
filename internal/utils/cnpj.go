package utils

import "strings"

const cnpjLen = 14

func SanitizeCNPJ(s string) string { return OnlyDigits(s) }

// remove qualquer coisa que não seja dígito (0-9)
func OnlyDigits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}

// ValidateCNPJ aceita o CNPJ com ou sem pontuação.
// Regras: 14 dígitos, não todos iguais e os dois dígitos verificadores (mod 11) batendo.
func ValidateCNPJ(cnpj string) bool {
	cnpj = SanitizeCNPJ(cnpj)
	if len(cnpj) != cnpjLen {
		return false
	}
	allEq := true
	for i := 1; i < cnpjLen; i++ {
		if cnpj[i] != cnpj[0] {
			allEq = false
			break
		}
	}
	if allEq {
		return false
	}

	d1 := cnpjCheckDigit(cnpj[:12])
	d2 := cnpjCheckDigit(cnpj[:12] + string(rune('0'+d1)))
	return int(cnpj[12]-'0') == d1 && int(cnpj[13]-'0') == d2
}

// pesos 2..9 a partir da posição mais à direita, reiniciando em 2
func cnpjCheckDigit(base string) int {
	sum, w := 0, 2
	for i := len(base) - 1; i >= 0; i-- {
		sum += int(base[i]-'0') * w
		w++
		if w > 9 {
			w = 2
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// FormatCNPJ aplica a máscara NN.NNN.NNN/NNNN-NN sobre o que houver de dígitos.
// Entradas parciais recebem a pontuação até onde os dígitos chegam.
func FormatCNPJ(s string) string {
	d := SanitizeCNPJ(s)
	if len(d) > cnpjLen {
		d = d[:cnpjLen]
	}
	var b strings.Builder
	for i, r := range d {
		switch i {
		case 2, 5:
			b.WriteByte('.')
		case 8:
			b.WriteByte('/')
		case 12:
			b.WriteByte('-')
		}
		b.WriteRune(r)
	}
	return b.String()
}
