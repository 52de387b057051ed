// Package filter aplica os filtros da tela de empresas sobre uma lista em memória.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

// Criteria combina todos os campos com E lógico. String vazia e ponteiro nil
// significam "não filtrar".
type Criteria struct {
	SearchTerm       string   `json:"q,omitempty"`
	Setor            string   `json:"setor,omitempty"`
	Subsetor         string   `json:"subsetor,omitempty"`
	StatusAprovacao  string   `json:"statusAprovacao,omitempty"`
	RiscoOperacional string   `json:"riscoOperacional,omitempty"`
	MinARR           *float64 `json:"minArr,omitempty"`
	MinMargemEBITDA  *float64 `json:"minMargemEbitda,omitempty"`
	MinCrescimento   *float64 `json:"minCrescimento,omitempty"`
	MinScore         *float64 `json:"minScore,omitempty"`
	MaxMultiplo      *float64 `json:"maxMultiplo,omitempty"`
}

// Apply devolve as empresas que passam em todos os critérios, na ordem original.
func Apply(companies []models.Company, c Criteria) []models.Company {
	out := make([]models.Company, 0, len(companies))
	for i := range companies {
		if c.Match(&companies[i]) {
			out = append(out, companies[i])
		}
	}
	return out
}

func (c Criteria) Match(co *models.Company) bool {
	if c.SearchTerm != "" && !matchesSearch(co, c.SearchTerm) {
		return false
	}
	if c.Setor != "" && co.Setor != c.Setor {
		return false
	}
	if c.Subsetor != "" && co.Subsetor != c.Subsetor {
		return false
	}
	if c.StatusAprovacao != "" && string(co.StatusAprovacao) != c.StatusAprovacao {
		return false
	}
	if c.RiscoOperacional != "" && string(co.RiscoOperacional) != c.RiscoOperacional {
		return false
	}
	if c.MinARR != nil && co.ARRFy24 < *c.MinARR {
		return false
	}
	if c.MinMargemEBITDA != nil && co.MargemEBITDA < *c.MinMargemEBITDA {
		return false
	}
	if c.MinCrescimento != nil && co.CrescimentoReceita < *c.MinCrescimento {
		return false
	}
	if c.MinScore != nil && co.Score < *c.MinScore {
		return false
	}
	if c.MaxMultiplo != nil && co.MultiploValuation > *c.MaxMultiplo {
		return false
	}
	return true
}

// nome/setor/subsetor sem diferenciar maiúsculas; CNPJ é substring exata
func matchesSearch(co *models.Company, term string) bool {
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(co.RazaoSocial), t) ||
		strings.Contains(strings.ToLower(co.Setor), t) ||
		strings.Contains(strings.ToLower(co.Subsetor), t) ||
		strings.Contains(co.CNPJ, term)
}

// FromQuery lê os critérios da query string. Números inválidos são ignorados.
func FromQuery(q url.Values) Criteria {
	return Criteria{
		SearchTerm:       strings.TrimSpace(q.Get("q")),
		Setor:            q.Get("setor"),
		Subsetor:         q.Get("subsetor"),
		StatusAprovacao:  q.Get("statusAprovacao"),
		RiscoOperacional: q.Get("riscoOperacional"),
		MinARR:           parseFloat(q.Get("minArr")),
		MinMargemEBITDA:  parseFloat(q.Get("minMargemEbitda")),
		MinCrescimento:   parseFloat(q.Get("minCrescimento")),
		MinScore:         parseFloat(q.Get("minScore")),
		MaxMultiplo:      parseFloat(q.Get("maxMultiplo")),
	}
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
