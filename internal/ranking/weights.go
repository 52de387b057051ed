package ranking

import (
	"fmt"
	"math"
)

// Key identifica um dos cinco pesos.
type Key string

const (
	KeyScore             Key = "score"
	KeyEBITDAMargin      Key = "ebitdaMargin"
	KeyRevenueGrowth     Key = "revenueGrowth"
	KeyValuationMultiple Key = "valuationMultiple"
	KeyOperationalRisk   Key = "operationalRisk"
)

var keys = []Key{KeyScore, KeyEBITDAMargin, KeyRevenueGrowth, KeyValuationMultiple, KeyOperationalRisk}

func ParseKey(s string) (Key, error) {
	for _, k := range keys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown weight key %q", s)
}

func (w *Weights) ptr(k Key) *float64 {
	switch k {
	case KeyScore:
		return &w.Score
	case KeyEBITDAMargin:
		return &w.EBITDAMargin
	case KeyRevenueGrowth:
		return &w.RevenueGrowth
	case KeyValuationMultiple:
		return &w.ValuationMultiple
	case KeyOperationalRisk:
		return &w.OperationalRisk
	}
	return nil
}

func (w Weights) Get(k Key) float64 {
	if p := w.ptr(k); p != nil {
		return *p
	}
	return 0
}

// Redistribute fixa o peso k em v e espalha a diferença para os outros quatro,
// proporcionalmente ao valor atual de cada um (ou em partes iguais se todos
// estiverem zerados), para a soma continuar em 100.
func Redistribute(w Weights, k Key, v float64) Weights {
	out := w
	p := out.ptr(k)
	if p == nil {
		return out
	}
	*p = v

	var others float64
	for _, o := range keys {
		if o != k {
			others += w.Get(o)
		}
	}
	diff := 100 - (v + others)

	for _, o := range keys {
		if o == k {
			continue
		}
		op := out.ptr(o)
		if others == 0 {
			*op = w.Get(o) + diff/4
			continue
		}
		*op = jsRound(w.Get(o) + diff*(w.Get(o)/others))
	}
	return out
}

// arredonda como Math.round do JS: meio sempre para +inf
func jsRound(x float64) float64 {
	return math.Floor(x + 0.5)
}
