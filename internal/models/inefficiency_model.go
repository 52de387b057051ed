package models

import "time"

type InefficiencyCategory string

const (
	IneffHR         InefficiencyCategory = "RH"
	IneffIT         InefficiencyCategory = "TI"
	IneffFinance    InefficiencyCategory = "Financeiro"
	IneffOperations InefficiencyCategory = "Operações"
	IneffMarketing  InefficiencyCategory = "Marketing"
	IneffSales      InefficiencyCategory = "Vendas"
	IneffLegal      InefficiencyCategory = "Jurídico"
	IneffLogistics  InefficiencyCategory = "Logística"
	IneffQuality    InefficiencyCategory = "Qualidade"
	IneffOther      InefficiencyCategory = "Outros"
)

var InefficiencyCategories = []InefficiencyCategory{
	IneffHR, IneffIT, IneffFinance, IneffOperations, IneffMarketing,
	IneffSales, IneffLegal, IneffLogistics, IneffQuality, IneffOther,
}

type Severity string

const (
	SeverityLow      Severity = "Baixa"
	SeverityMedium   Severity = "Média"
	SeverityHigh     Severity = "Alta"
	SeverityCritical Severity = "Crítica"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

type EntryStatus string

const (
	EntryIdentified   EntryStatus = "Identificada"
	EntryInAnalysis   EntryStatus = "Em Análise"
	EntryInResolution EntryStatus = "Em Resolução"
	EntryResolved     EntryStatus = "Resolvida"
)

var EntryStatuses = []EntryStatus{EntryIdentified, EntryInAnalysis, EntryInResolution, EntryResolved}

type EntrySource string

const (
	SourceManual EntrySource = "Manual"
	SourceAI     EntrySource = "IA"
)

// InefficiencyLog é o documento "vivo" de ineficiências de uma empresa.
// VersaoAtual começa em 1 e só sobe quando um save detecta alterações.
type InefficiencyLog struct {
	ID          string              `json:"id"`
	EmpresaID   string              `json:"empresaId"`
	Titulo      string              `json:"titulo"`
	Entradas    []InefficiencyEntry `json:"entradas"`
	PromptIA    string              `json:"promptIa,omitempty"`
	RespostaIA  string              `json:"respostaIa,omitempty"`
	VersaoAtual int                 `json:"versaoAtual"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

type InefficiencyEntry struct {
	ID         string               `json:"id"`
	Descricao  string               `json:"descricao"`
	Categoria  InefficiencyCategory `json:"categoria"`
	Severidade Severity             `json:"severidade"`
	Status     EntryStatus          `json:"status"`
	Origem     EntrySource          `json:"origem"`
	Autor      string               `json:"autor,omitempty"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeUpdated ChangeType = "updated"
)

// Change descreve uma alteração entre duas listas de entradas.
// Campo/ValorAntigo/ValorNovo só vêm preenchidos em ChangeUpdated.
type Change struct {
	Tipo        ChangeType `json:"tipo"`
	EntradaID   string     `json:"entradaId"`
	Campo       string     `json:"campo,omitempty"`
	ValorAntigo string     `json:"valorAntigo,omitempty"`
	ValorNovo   string     `json:"valorNovo,omitempty"`
	Descricao   string     `json:"descricao"`
}

// InefficiencyVersion é imutável. Entradas guarda o estado ANTERIOR ao save.
type InefficiencyVersion struct {
	ID         string              `json:"id"`
	LogID      string              `json:"logId"`
	Versao     int                 `json:"versao"`
	Entradas   []InefficiencyEntry `json:"entradas"`
	Alteracoes []Change            `json:"alteracoes"`
	Autor      string              `json:"autor"`
	Resumo     string              `json:"resumo"`
	CreatedAt  time.Time           `json:"createdAt"`
}
