package repository

import (
	"time"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

// Documentos gravados no Mongo. Os nomes em snake_case ficam só aqui; o resto
// da aplicação enxerga os models (camelCase no JSON). Cada entidade tem um par
// toXDoc/fromXDoc explícito.

type shareholderDoc struct {
	Nome       string  `bson:"nome"`
	Documento  string  `bson:"documento"`
	Percentual float64 `bson:"percentual"`
}

type companyDoc struct {
	ID                 string           `bson:"_id"`
	CNPJ               string           `bson:"cnpj"`
	RazaoSocial        string           `bson:"razao_social"`
	Setor              string           `bson:"setor"`
	Subsetor           string           `bson:"subsetor"`
	ARRFy24            float64          `bson:"arr_fy24"`
	ReceitaBrutaFy24   float64          `bson:"receita_bruta_fy24"`
	ReceitaLegadoFy24  float64          `bson:"receita_legado_fy24"`
	EBITDAFy24         float64          `bson:"ebitda_fy24"`
	MargemLegado       float64          `bson:"margem_legado"`
	MargemEBITDA       float64          `bson:"margem_ebitda"`
	CrescimentoReceita float64          `bson:"crescimento_receita"`
	MultiploValuation  float64          `bson:"multiplo_valuation"`
	RiscoOperacional   string           `bson:"risco_operacional"`
	Observacoes        string           `bson:"observacoes"`
	Score              float64          `bson:"score"`
	StatusAprovacao    string           `bson:"status_aprovacao"`
	Socios             []shareholderDoc `bson:"socios"`
	CreatedAt          time.Time        `bson:"created_at"`
	UpdatedAt          time.Time        `bson:"updated_at"`
}

// WeightedScore não é persistido.
func toCompanyDoc(c *models.Company) companyDoc {
	d := companyDoc{
		ID:                 c.ID,
		CNPJ:               c.CNPJ,
		RazaoSocial:        c.RazaoSocial,
		Setor:              c.Setor,
		Subsetor:           c.Subsetor,
		ARRFy24:            c.ARRFy24,
		ReceitaBrutaFy24:   c.ReceitaBrutaFy24,
		ReceitaLegadoFy24:  c.ReceitaLegadoFy24,
		EBITDAFy24:         c.EBITDAFy24,
		MargemLegado:       c.MargemLegado,
		MargemEBITDA:       c.MargemEBITDA,
		CrescimentoReceita: c.CrescimentoReceita,
		MultiploValuation:  c.MultiploValuation,
		RiscoOperacional:   string(c.RiscoOperacional),
		Observacoes:        c.Observacoes,
		Score:              c.Score,
		StatusAprovacao:    string(c.StatusAprovacao),
		Socios:             make([]shareholderDoc, 0, len(c.Socios)),
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
	for _, s := range c.Socios {
		d.Socios = append(d.Socios, shareholderDoc(s))
	}
	return d
}

func fromCompanyDoc(d companyDoc) models.Company {
	c := models.Company{
		ID:                 d.ID,
		CNPJ:               d.CNPJ,
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
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
	for _, s := range d.Socios {
		c.Socios = append(c.Socios, models.Shareholder(s))
	}
	return c
}

type documentRefDoc struct {
	URL  string `bson:"url"`
	Nome string `bson:"nome"`
}

type ddItemDoc struct {
	ID           string          `bson:"_id"`
	EmpresaID    string          `bson:"empresa_id"`
	Categoria    string          `bson:"categoria"`
	Item         string          `bson:"item"`
	Status       string          `bson:"status"`
	Risco        string          `bson:"risco"`
	Recomendacao string          `bson:"recomendacao"`
	Documento    *documentRefDoc `bson:"documento,omitempty"`
	CreatedAt    time.Time       `bson:"created_at"`
	UpdatedAt    time.Time       `bson:"updated_at"`
}

func toDDItemDoc(it *models.DueDiligenceItem) ddItemDoc {
	d := ddItemDoc{
		ID:           it.ID,
		EmpresaID:    it.EmpresaID,
		Categoria:    string(it.Categoria),
		Item:         it.Item,
		Status:       string(it.Status),
		Risco:        string(it.Risco),
		Recomendacao: it.Recomendacao,
		CreatedAt:    it.CreatedAt,
		UpdatedAt:    it.UpdatedAt,
	}
	if it.Documento != nil {
		d.Documento = &documentRefDoc{URL: it.Documento.URL, Nome: it.Documento.Nome}
	}
	return d
}

func fromDDItemDoc(d ddItemDoc) models.DueDiligenceItem {
	it := models.DueDiligenceItem{
		ID:           d.ID,
		EmpresaID:    d.EmpresaID,
		Categoria:    models.DDCategory(d.Categoria),
		Item:         d.Item,
		Status:       models.DDStatus(d.Status),
		Risco:        models.DDRisk(d.Risco),
		Recomendacao: d.Recomendacao,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if d.Documento != nil {
		it.Documento = &models.DocumentRef{URL: d.Documento.URL, Nome: d.Documento.Nome}
	}
	return it
}

type logDoc struct {
	ID          string    `bson:"_id"`
	EmpresaID   string    `bson:"empresa_id"`
	Titulo      string    `bson:"titulo"`
	PromptIA    string    `bson:"prompt_ia,omitempty"`
	RespostaIA  string    `bson:"resposta_ia,omitempty"`
	VersaoAtual int       `bson:"versao_atual"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// entradas ficam em coleção própria; LogID/Position só existem lá.
// Dentro de uma versão o mesmo doc vai embutido, sem esses dois campos.
type entryDoc struct {
	ID         string    `bson:"_id"`
	LogID      string    `bson:"log_id,omitempty"`
	Position   int       `bson:"position,omitempty"`
	Descricao  string    `bson:"descricao"`
	Categoria  string    `bson:"categoria"`
	Severidade string    `bson:"severidade"`
	Status     string    `bson:"status"`
	Origem     string    `bson:"origem"`
	Autor      string    `bson:"autor,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type changeDoc struct {
	Tipo        string `bson:"tipo"`
	EntradaID   string `bson:"entrada_id"`
	Campo       string `bson:"campo,omitempty"`
	ValorAntigo string `bson:"valor_antigo,omitempty"`
	ValorNovo   string `bson:"valor_novo,omitempty"`
	Descricao   string `bson:"descricao"`
}

type versionDoc struct {
	ID         string      `bson:"_id"`
	LogID      string      `bson:"log_id"`
	Versao     int         `bson:"versao"`
	Entradas   []entryDoc  `bson:"entradas"`
	Alteracoes []changeDoc `bson:"alteracoes"`
	Autor      string      `bson:"autor"`
	Resumo     string      `bson:"resumo"`
	CreatedAt  time.Time   `bson:"created_at"`
}

// toLogDocs separa o log das entradas, numerando a posição de cada uma.
func toLogDocs(l *models.InefficiencyLog) (logDoc, []entryDoc) {
	d := logDoc{
		ID:          l.ID,
		EmpresaID:   l.EmpresaID,
		Titulo:      l.Titulo,
		PromptIA:    l.PromptIA,
		RespostaIA:  l.RespostaIA,
		VersaoAtual: l.VersaoAtual,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	entries := make([]entryDoc, 0, len(l.Entradas))
	for i := range l.Entradas {
		e := toEntryDoc(&l.Entradas[i])
		e.LogID = l.ID
		e.Position = i + 1
		entries = append(entries, e)
	}
	return d, entries
}

// fromLogDocs espera as entradas já ordenadas por posição.
func fromLogDocs(d logDoc, entries []entryDoc) models.InefficiencyLog {
	l := models.InefficiencyLog{
		ID:          d.ID,
		EmpresaID:   d.EmpresaID,
		Titulo:      d.Titulo,
		PromptIA:    d.PromptIA,
		RespostaIA:  d.RespostaIA,
		VersaoAtual: d.VersaoAtual,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Entradas:    make([]models.InefficiencyEntry, 0, len(entries)),
	}
	for _, e := range entries {
		l.Entradas = append(l.Entradas, fromEntryDoc(e))
	}
	return l
}

func toEntryDoc(e *models.InefficiencyEntry) entryDoc {
	return entryDoc{
		ID:         e.ID,
		Descricao:  e.Descricao,
		Categoria:  string(e.Categoria),
		Severidade: string(e.Severidade),
		Status:     string(e.Status),
		Origem:     string(e.Origem),
		Autor:      e.Autor,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func fromEntryDoc(d entryDoc) models.InefficiencyEntry {
	return models.InefficiencyEntry{
		ID:         d.ID,
		Descricao:  d.Descricao,
		Categoria:  models.InefficiencyCategory(d.Categoria),
		Severidade: models.Severity(d.Severidade),
		Status:     models.EntryStatus(d.Status),
		Origem:     models.EntrySource(d.Origem),
		Autor:      d.Autor,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

func toVersionDoc(v *models.InefficiencyVersion) versionDoc {
	d := versionDoc{
		ID:         v.ID,
		LogID:      v.LogID,
		Versao:     v.Versao,
		Entradas:   make([]entryDoc, 0, len(v.Entradas)),
		Alteracoes: make([]changeDoc, 0, len(v.Alteracoes)),
		Autor:      v.Autor,
		Resumo:     v.Resumo,
		CreatedAt:  v.CreatedAt,
	}
	for i := range v.Entradas {
		d.Entradas = append(d.Entradas, toEntryDoc(&v.Entradas[i]))
	}
	for _, c := range v.Alteracoes {
		d.Alteracoes = append(d.Alteracoes, changeDoc{
			Tipo:        string(c.Tipo),
			EntradaID:   c.EntradaID,
			Campo:       c.Campo,
			ValorAntigo: c.ValorAntigo,
			ValorNovo:   c.ValorNovo,
			Descricao:   c.Descricao,
		})
	}
	return d
}

func fromVersionDoc(d versionDoc) models.InefficiencyVersion {
	v := models.InefficiencyVersion{
		ID:         d.ID,
		LogID:      d.LogID,
		Versao:     d.Versao,
		Entradas:   make([]models.InefficiencyEntry, 0, len(d.Entradas)),
		Alteracoes: make([]models.Change, 0, len(d.Alteracoes)),
		Autor:      d.Autor,
		Resumo:     d.Resumo,
		CreatedAt:  d.CreatedAt,
	}
	for _, e := range d.Entradas {
		v.Entradas = append(v.Entradas, fromEntryDoc(e))
	}
	for _, c := range d.Alteracoes {
		v.Alteracoes = append(v.Alteracoes, models.Change{
			Tipo:        models.ChangeType(c.Tipo),
			EntradaID:   c.EntradaID,
			Campo:       c.Campo,
			ValorAntigo: c.ValorAntigo,
			ValorNovo:   c.ValorNovo,
			Descricao:   c.Descricao,
		})
	}
	return v
}
