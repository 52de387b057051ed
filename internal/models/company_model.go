package models

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "Baixo"
	RiskMedium RiskLevel = "Médio"
	RiskHigh   RiskLevel = "Alto"
)

type ApprovalStatus string

const (
	ApprovalApproved        ApprovalStatus = "Aprovada"
	ApprovalUnderEvaluation ApprovalStatus = "Em Avaliação"
	ApprovalRejected        ApprovalStatus = "Não Aprovada"
)

// Company é uma empresa candidata (ou já investida) do pipeline.
// Os campos financeiros zerados equivalem a "não informado".
type Company struct {
	ID                 string         `json:"id"`
	CNPJ               string         `json:"cnpj"` // armazenado formatado (NN.NNN.NNN/NNNN-NN)
	RazaoSocial        string         `json:"razaoSocial"`
	Setor              string         `json:"setor"`
	Subsetor           string         `json:"subsetor"`
	ARRFy24            float64        `json:"arrFy24"`
	ReceitaBrutaFy24   float64        `json:"receitaBrutaFy24"`
	ReceitaLegadoFy24  float64        `json:"receitaLegadoFy24"`
	EBITDAFy24         float64        `json:"ebitdaFy24"`
	MargemLegado       float64        `json:"margemLegado"`
	MargemEBITDA       float64        `json:"margemEbitda"`
	CrescimentoReceita float64        `json:"crescimentoReceita"`
	MultiploValuation  float64        `json:"multiploValuation"`
	RiscoOperacional   RiskLevel      `json:"riscoOperacional"`
	Observacoes        string         `json:"observacoes"`
	Score              float64        `json:"score"`
	StatusAprovacao    ApprovalStatus `json:"statusAprovacao"`
	Socios             []Shareholder  `json:"socios"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`

	// calculado a cada ranking, nunca persistido
	WeightedScore float64 `json:"weightedScore,omitempty"`
}

type Shareholder struct {
	Nome       string  `json:"nome"`
	Documento  string  `json:"documento"`
	Percentual float64 `json:"percentual"`
}

// DisplayName devolve o nome para mensagens e relatórios.
func (c *Company) DisplayName() string {
	if c.RazaoSocial != "" {
		return c.RazaoSocial
	}
	return c.CNPJ
}
