// Package ranking calcula o score ponderado das empresas e ordena o pipeline.
package ranking

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

// Weights em pontos percentuais. A soma deveria ser 100, mas Rank não
// normaliza: isso fica com quem chama (ver Redistribute).
type Weights struct {
	Score             float64 `json:"score"`
	EBITDAMargin      float64 `json:"ebitdaMargin"`
	RevenueGrowth     float64 `json:"revenueGrowth"`
	ValuationMultiple float64 `json:"valuationMultiple"`
	OperationalRisk   float64 `json:"operationalRisk"`
}

func DefaultWeights() Weights {
	return Weights{
		Score:             30,
		EBITDAMargin:      20,
		RevenueGrowth:     20,
		ValuationMultiple: 15,
		OperationalRisk:   15,
	}
}

// Partial representa um conjunto parcial de pesos; nil mantém o padrão.
type Partial struct {
	Score             *float64 `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
	EBITDAMargin      *float64 `json:"ebitdaMargin,omitempty" validate:"omitempty,gte=0,lte=100"`
	RevenueGrowth     *float64 `json:"revenueGrowth,omitempty" validate:"omitempty,gte=0,lte=100"`
	ValuationMultiple *float64 `json:"valuationMultiple,omitempty" validate:"omitempty,gte=0,lte=100"`
	OperationalRisk   *float64 `json:"operationalRisk,omitempty" validate:"omitempty,gte=0,lte=100"`
}

func (p Partial) Resolve() Weights {
	w := DefaultWeights()
	if p.Score != nil {
		w.Score = *p.Score
	}
	if p.EBITDAMargin != nil {
		w.EBITDAMargin = *p.EBITDAMargin
	}
	if p.RevenueGrowth != nil {
		w.RevenueGrowth = *p.RevenueGrowth
	}
	if p.ValuationMultiple != nil {
		w.ValuationMultiple = *p.ValuationMultiple
	}
	if p.OperationalRisk != nil {
		w.OperationalRisk = *p.OperationalRisk
	}
	return w
}

func (w Weights) Sum() float64 {
	return w.Score + w.EBITDAMargin + w.RevenueGrowth + w.ValuationMultiple + w.OperationalRisk
}

const maxMultiple = 10

// riskScore: risco desconhecido conta como médio.
func riskScore(r models.RiskLevel) float64 {
	switch r {
	case models.RiskLow:
		return 10
	case models.RiskHigh:
		return 1
	default:
		return 5
	}
}

// WeightedScore aplica a fórmula a uma empresa, arredondando em 2 casas.
// O crescimento é dividido por 1000 (e não por 100 como os demais).
func WeightedScore(c *models.Company, w Weights) float64 {
	multiple := c.MultiploValuation
	if multiple > maxMultiple {
		multiple = maxMultiple
	}

	total := c.Score*w.Score/100 +
		c.MargemEBITDA*w.EBITDAMargin/100 +
		c.CrescimentoReceita*w.RevenueGrowth/1000 +
		(maxMultiple-multiple)*w.ValuationMultiple/100 +
		riskScore(c.RiscoOperacional)*w.OperationalRisk/100

	// decimal não aceita Inf/NaN; pesos fora da faixa devolvem o valor cru
	if math.IsInf(total, 0) || math.IsNaN(total) {
		return total
	}
	return decimal.NewFromFloat(total).Round(2).InexactFloat64()
}

// Rank devolve uma cópia da lista com WeightedScore preenchido, do maior para
// o menor. Empates mantêm a ordem de entrada. A entrada não é alterada.
func Rank(companies []models.Company, w Weights) []models.Company {
	out := make([]models.Company, len(companies))
	copy(out, companies)
	for i := range out {
		out[i].WeightedScore = WeightedScore(&out[i], w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].WeightedScore > out[j].WeightedScore
	})
	return out
}
