package handlers

import (
	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

// somente os campos do contrato; id, datas e score ponderado são do servidor
type CompanyDTO struct {
	CNPJ               string           `json:"cnpj" validate:"required,cnpj"`
	RazaoSocial        string           `json:"razaoSocial" validate:"required"`
	Setor              string           `json:"setor"`
	Subsetor           string           `json:"subsetor"`
	ARRFy24            float64          `json:"arrFy24" validate:"gte=0"`
	ReceitaBrutaFy24   float64          `json:"receitaBrutaFy24" validate:"gte=0"`
	ReceitaLegadoFy24  float64          `json:"receitaLegadoFy24" validate:"gte=0"`
	EBITDAFy24         float64          `json:"ebitdaFy24"`
	MargemLegado       float64          `json:"margemLegado"`
	MargemEBITDA       float64          `json:"margemEbitda"`
	CrescimentoReceita float64          `json:"crescimentoReceita"`
	MultiploValuation  float64          `json:"multiploValuation" validate:"gte=0"`
	RiscoOperacional   string           `json:"riscoOperacional" validate:"omitempty,risco"`
	Observacoes        string           `json:"observacoes"`
	Score              float64          `json:"score" validate:"gte=0,lte=10"`
	StatusAprovacao    string           `json:"statusAprovacao" validate:"omitempty,aprovacao"`
	Socios             []ShareholderDTO `json:"socios" validate:"required,min=1,dive"`
}

// Percentual omitido é aceito; informado, precisa ser positivo.
type ShareholderDTO struct {
	Nome       string   `json:"nome" validate:"required"`
	Documento  string   `json:"documento"`
	Percentual *float64 `json:"percentual" validate:"omitempty,gt=0,lte=100"`
}

func (d CompanyDTO) toModel() models.Company {
	c := models.Company{
		CNPJ:               utils.FormatCNPJ(d.CNPJ),
		RazaoSocial:        d.RazaoSocial,
		Setor:              d.Setor,
		Subsetor:           d.Subsetor,
		ARRFy24:            d.ARRFy24,
		ReceitaBrutaFy24:   d.ReceitaBrutaFy24,
		ReceitaLegadoFy24:  d.ReceitaLegadoFy24,
		EBITDAFy24:         d.EBITDAFy24,
		MargemLegado:       d.MargemLegado,
		MargemEBITDA:       d.MargemEBITDA,
		CrescimentoReceita: d.CrescimentoReceita,
		MultiploValuation:  d.MultiploValuation,
		RiscoOperacional:   models.RiskLevel(d.RiscoOperacional),
		Observacoes:        d.Observacoes,
		Score:              d.Score,
		StatusAprovacao:    models.ApprovalStatus(d.StatusAprovacao),
		Socios:             make([]models.Shareholder, 0, len(d.Socios)),
	}
	if c.StatusAprovacao == "" {
		c.StatusAprovacao = models.ApprovalUnderEvaluation
	}
	for _, s := range d.Socios {
		sh := models.Shareholder{Nome: s.Nome, Documento: s.Documento}
		if s.Percentual != nil {
			sh.Percentual = *s.Percentual
		}
		c.Socios = append(c.Socios, sh)
	}
	return c
}
