package models

import "time"

type DDCategory string

const (
	DDLegal         DDCategory = "Jurídico"
	DDFinancial     DDCategory = "Financeiro"
	DDTax           DDCategory = "Fiscal"
	DDLabor         DDCategory = "Trabalhista"
	DDRegulatory    DDCategory = "Regulatório"
	DDEnvironmental DDCategory = "Ambiental"
	DDIP            DDCategory = "Propriedade Intelectual"
	DDOperational   DDCategory = "Operacional"
	DDITSecurity    DDCategory = "TI/Segurança"
	DDCommercial    DDCategory = "Comercial"
	DDOther         DDCategory = "Outros"
)

var DDCategories = []DDCategory{
	DDLegal, DDFinancial, DDTax, DDLabor, DDRegulatory, DDEnvironmental,
	DDIP, DDOperational, DDITSecurity, DDCommercial, DDOther,
}

type DDStatus string

const (
	DDPending    DDStatus = "pending"
	DDInProgress DDStatus = "in-progress"
	DDCompleted  DDStatus = "completed"
	DDCancelled  DDStatus = "cancelled"
)

var DDStatuses = []DDStatus{DDPending, DDInProgress, DDCompleted, DDCancelled}

type DDRisk string

const (
	DDRiskLow      DDRisk = "low"
	DDRiskMedium   DDRisk = "medium"
	DDRiskHigh     DDRisk = "high"
	DDRiskCritical DDRisk = "critical"
)

var DDRisks = []DDRisk{DDRiskLow, DDRiskMedium, DDRiskHigh, DDRiskCritical}

func (s DDStatus) Valid() bool {
	for _, v := range DDStatuses {
		if s == v {
			return true
		}
	}
	return false
}

func (r DDRisk) Valid() bool {
	for _, v := range DDRisks {
		if r == v {
			return true
		}
	}
	return false
}

func (c DDCategory) Valid() bool {
	for _, v := range DDCategories {
		if c == v {
			return true
		}
	}
	return false
}

// DueDiligenceItem é uma linha do checklist de due diligence de uma empresa.
type DueDiligenceItem struct {
	ID           string       `json:"id"`
	EmpresaID    string       `json:"empresaId"`
	Categoria    DDCategory   `json:"categoria"`
	Item         string       `json:"item"`
	Status       DDStatus     `json:"status"`
	Risco        DDRisk       `json:"risco"`
	Recomendacao string       `json:"recomendacao"`
	Documento    *DocumentRef `json:"documento,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type DocumentRef struct {
	URL  string `json:"url"`
	Nome string `json:"nome"`
}

// DueDiligenceFilter: campos vazios não filtram.
type DueDiligenceFilter struct {
	EmpresaID string
	Categoria DDCategory
	Status    DDStatus
	Risco     DDRisk
}

func (f DueDiligenceFilter) Match(it *DueDiligenceItem) bool {
	if f.EmpresaID != "" && it.EmpresaID != f.EmpresaID {
		return false
	}
	if f.Categoria != "" && it.Categoria != f.Categoria {
		return false
	}
	if f.Status != "" && it.Status != f.Status {
		return false
	}
	if f.Risco != "" && it.Risco != f.Risco {
		return false
	}
	return true
}
