// Package inefficiency mantém o log de ineficiências de cada empresa e o
// histórico de versões gerado a cada save com alterações.
package inefficiency

import (
	"fmt"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

const previewLen = 50

// campos comparados entrada a entrada, na ordem em que as alterações saem.
// createdAt/updatedAt ficam de fora de propósito: são carimbados pelo Service.
var entryFields = []struct {
	name string
	get  func(e *models.InefficiencyEntry) string
}{
	{"descricao", func(e *models.InefficiencyEntry) string { return e.Descricao }},
	{"categoria", func(e *models.InefficiencyEntry) string { return string(e.Categoria) }},
	{"severidade", func(e *models.InefficiencyEntry) string { return string(e.Severidade) }},
	{"status", func(e *models.InefficiencyEntry) string { return string(e.Status) }},
	{"origem", func(e *models.InefficiencyEntry) string { return string(e.Origem) }},
	{"autor", func(e *models.InefficiencyEntry) string { return e.Autor }},
}

// Diff compara o estado persistido (old) com o estado em edição (new).
// Saem primeiro as remoções (ordem de old), depois inclusões e alterações
// (ordem de new).
func Diff(old, new []models.InefficiencyEntry) []models.Change {
	newIdx := make(map[string]int, len(new))
	for i := range new {
		newIdx[new[i].ID] = i
	}
	oldIdx := make(map[string]int, len(old))
	for i := range old {
		oldIdx[old[i].ID] = i
	}

	changes := []models.Change{}
	for i := range old {
		if _, ok := newIdx[old[i].ID]; !ok {
			changes = append(changes, models.Change{
				Tipo:      models.ChangeRemoved,
				EntradaID: old[i].ID,
				Descricao: "Ineficiência removida: " + preview(old[i].Descricao),
			})
		}
	}

	for i := range new {
		n := &new[i]
		j, ok := oldIdx[n.ID]
		if !ok {
			changes = append(changes, models.Change{
				Tipo:      models.ChangeAdded,
				EntradaID: n.ID,
				Descricao: "Ineficiência adicionada: " + preview(n.Descricao),
			})
			continue
		}
		o := &old[j]
		for _, f := range entryFields {
			ov, nv := f.get(o), f.get(n)
			if ov == nv {
				continue
			}
			changes = append(changes, models.Change{
				Tipo:        models.ChangeUpdated,
				EntradaID:   n.ID,
				Campo:       f.name,
				ValorAntigo: ov,
				ValorNovo:   nv,
				Descricao:   fmt.Sprintf("%s alterado de %s para %s", f.name, ov, nv),
			})
		}
	}
	return changes
}

// primeiros 50 caracteres + reticências
func preview(s string) string {
	r := []rune(s)
	if len(r) > previewLen {
		r = r[:previewLen]
	}
	return string(r) + "..."
}

// Summarize gera o resumo legível de uma versão.
func Summarize(changes []models.Change) string {
	var added, removed, updated int
	for _, c := range changes {
		switch c.Tipo {
		case models.ChangeAdded:
			added++
		case models.ChangeRemoved:
			removed++
		case models.ChangeUpdated:
			updated++
		}
	}
	return fmt.Sprintf("%d alteração(ões): %d adicionada(s), %d removida(s), %d campo(s) atualizado(s)",
		len(changes), added, removed, updated)
}
