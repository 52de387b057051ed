// Package export gera as planilhas de empresas (CSV, TXT, XLSX) e o relatório textual.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

var ErrUnknownField = errors.New("unknown export field")

// Field é uma coluna exportável. Raw alimenta o XLSX (números continuam números);
// Text é o valor cru usado nos formatos delimitados.
type Field struct {
	Key   string
	Label string
	Raw   func(*models.Company) any
}

func (f Field) Text(c *models.Company) string {
	switch v := f.Raw(c).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func num(get func(*models.Company) float64) func(*models.Company) any {
	return func(c *models.Company) any { return get(c) }
}

func str(get func(*models.Company) string) func(*models.Company) any {
	return func(c *models.Company) any { return get(c) }
}

var companyFields = []Field{
	{"cnpj", "CNPJ", str(func(c *models.Company) string { return c.CNPJ })},
	{"razaoSocial", "Razão Social", str(func(c *models.Company) string { return c.RazaoSocial })},
	{"setor", "Setor", str(func(c *models.Company) string { return c.Setor })},
	{"subsetor", "Subsetor", str(func(c *models.Company) string { return c.Subsetor })},
	{"arrFy24", "ARR FY24", num(func(c *models.Company) float64 { return c.ARRFy24 })},
	{"receitaBrutaFy24", "Receita Bruta FY24", num(func(c *models.Company) float64 { return c.ReceitaBrutaFy24 })},
	{"receitaLegadoFy24", "Receita Legado FY24", num(func(c *models.Company) float64 { return c.ReceitaLegadoFy24 })},
	{"ebitdaFy24", "EBITDA FY24", num(func(c *models.Company) float64 { return c.EBITDAFy24 })},
	{"margemLegado", "Margem Legado (%)", num(func(c *models.Company) float64 { return c.MargemLegado })},
	{"margemEbitda", "Margem EBITDA (%)", num(func(c *models.Company) float64 { return c.MargemEBITDA })},
	{"crescimentoReceita", "Crescimento Receita (%)", num(func(c *models.Company) float64 { return c.CrescimentoReceita })},
	{"multiploValuation", "Múltiplo Valuation", num(func(c *models.Company) float64 { return c.MultiploValuation })},
	{"riscoOperacional", "Risco Operacional", str(func(c *models.Company) string { return string(c.RiscoOperacional) })},
	{"score", "Score", num(func(c *models.Company) float64 { return c.Score })},
	{"weightedScore", "Score Ponderado", num(func(c *models.Company) float64 { return c.WeightedScore })},
	{"statusAprovacao", "Status de Aprovação", str(func(c *models.Company) string { return string(c.StatusAprovacao) })},
	{"socios", "Sócios", str(shareholders)},
	{"observacoes", "Observações", str(func(c *models.Company) string { return c.Observacoes })},
}

// DefaultFieldKeys é o recorte usado quando a requisição não escolhe colunas.
var DefaultFieldKeys = []string{
	"cnpj", "razaoSocial", "setor", "arrFy24", "margemEbitda",
	"crescimentoReceita", "multiploValuation", "riscoOperacional", "score", "statusAprovacao",
}

func shareholders(c *models.Company) string {
	parts := make([]string, 0, len(c.Socios))
	for _, s := range c.Socios {
		parts = append(parts, fmt.Sprintf("%s (%s%%)", s.Nome, strconv.FormatFloat(s.Percentual, 'f', -1, 64)))
	}
	return strings.Join(parts, "; ")
}

// FieldKeys lista todas as chaves aceitas, na ordem de exportação.
func FieldKeys() []string {
	keys := make([]string, len(companyFields))
	for i, f := range companyFields {
		keys[i] = f.Key
	}
	return keys
}

// SelectFields resolve as chaves na ordem pedida. Lista vazia usa DefaultFieldKeys.
func SelectFields(keys []string) ([]Field, error) {
	if len(keys) == 0 {
		keys = DefaultFieldKeys
	}
	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		f, ok := lookup(k)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		out = append(out, f)
	}
	return out, nil
}

func lookup(key string) (Field, bool) {
	for _, f := range companyFields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}
