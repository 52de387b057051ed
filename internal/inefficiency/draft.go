package inefficiency

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

var ErrEntryNotFound = errors.New("entry not found")

// Draft é o estado de edição local de um log. Nada aqui persiste: o
// resultado vai para Service.Save.
type Draft struct {
	Log models.InefficiencyLog
	now func() time.Time
}

// NewDraft copia o log (inclusive a lista de entradas) para edição.
func NewDraft(log models.InefficiencyLog) *Draft {
	d := &Draft{Log: log, now: time.Now}
	d.Log.Entradas = append([]models.InefficiencyEntry(nil), log.Entradas...)
	return d
}

// AddEntry gera ID e datas; origem vazia vira Manual.
func (d *Draft) AddEntry(e models.InefficiencyEntry) models.InefficiencyEntry {
	now := d.now()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Origem == "" {
		e.Origem = models.SourceManual
	}
	if e.Status == "" {
		e.Status = models.EntryIdentified
	}
	e.CreatedAt, e.UpdatedAt = now, now
	d.Log.Entradas = append(d.Log.Entradas, e)
	return e
}

// UpdateEntry troca os campos editáveis mantendo ID e CreatedAt.
// Origem e status vazios preservam o valor atual.
func (d *Draft) UpdateEntry(e models.InefficiencyEntry) error {
	for i := range d.Log.Entradas {
		cur := &d.Log.Entradas[i]
		if cur.ID != e.ID {
			continue
		}
		if e.Origem == "" {
			e.Origem = cur.Origem
		}
		if e.Status == "" {
			e.Status = cur.Status
		}
		e.CreatedAt = cur.CreatedAt
		e.UpdatedAt = d.now()
		*cur = e
		return nil
	}
	return ErrEntryNotFound
}

func (d *Draft) RemoveEntry(id string) error {
	for i := range d.Log.Entradas {
		if d.Log.Entradas[i].ID == id {
			d.Log.Entradas = append(d.Log.Entradas[:i:i], d.Log.Entradas[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}
