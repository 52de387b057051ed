// Package duediligence controla o checklist de due diligence por empresa.
package duediligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

var (
	ErrNotFound         = errors.New("due diligence item not found")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidRisk      = errors.New("invalid risk level")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrCompanyRequired  = errors.New("empresaId is required")
	ErrItemTextRequired = errors.New("item is required")
)

type Store interface {
	UpsertDueDiligenceItem(ctx context.Context, it *models.DueDiligenceItem) (*models.DueDiligenceItem, error)
	ListDueDiligenceItems(ctx context.Context, f models.DueDiligenceFilter) ([]models.DueDiligenceItem, error)
	GetDueDiligenceItemByID(ctx context.Context, id string) (*models.DueDiligenceItem, error)
	DeleteDueDiligenceItem(ctx context.Context, id string) (bool, error)
	UpdateDueDiligenceStatus(ctx context.Context, id string, s models.DDStatus) (*models.DueDiligenceItem, error)
	UpdateDueDiligenceRisk(ctx context.Context, id string, r models.DDRisk) (*models.DueDiligenceItem, error)
}

type Tracker struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewTracker(store Store, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{store: store, log: log.With("cmp", "duediligence"), now: time.Now}
}

// Upsert valida enums e grava o item inteiro. Status/risco vazios viram
// pending/medium.
func (t *Tracker) Upsert(ctx context.Context, it models.DueDiligenceItem) (*models.DueDiligenceItem, error) {
	if it.EmpresaID == "" {
		return nil, ErrCompanyRequired
	}
	if strings.TrimSpace(it.Item) == "" {
		return nil, ErrItemTextRequired
	}
	if it.Status == "" {
		it.Status = models.DDPending
	}
	if it.Risco == "" {
		it.Risco = models.DDRiskMedium
	}
	if it.Categoria == "" {
		it.Categoria = models.DDOther
	}
	if !it.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, it.Status)
	}
	if !it.Risco.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRisk, it.Risco)
	}
	if !it.Categoria.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, it.Categoria)
	}
	if it.Documento != nil && it.Documento.URL == "" {
		it.Documento = nil
	}

	now := t.now()
	if it.ID == "" {
		it.ID = uuid.NewString()
		it.CreatedAt = now
	} else if it.CreatedAt.IsZero() {
		if cur, err := t.store.GetDueDiligenceItemByID(ctx, it.ID); err == nil && cur != nil {
			it.CreatedAt = cur.CreatedAt
		} else {
			it.CreatedAt = now
		}
	}
	it.UpdatedAt = now

	saved, err := t.store.UpsertDueDiligenceItem(ctx, &it)
	if err != nil {
		return nil, fmt.Errorf("upsert due diligence item: %w", err)
	}
	t.log.Info("dd_item_saved", "id", saved.ID, "empresa_id", saved.EmpresaID, "status", saved.Status)
	return saved, nil
}

func (t *Tracker) Get(ctx context.Context, id string) (*models.DueDiligenceItem, error) {
	it, err := t.store.GetDueDiligenceItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	return it, nil
}

func (t *Tracker) List(ctx context.Context, f models.DueDiligenceFilter) ([]models.DueDiligenceItem, error) {
	return t.store.ListDueDiligenceItems(ctx, f)
}

func (t *Tracker) Delete(ctx context.Context, id string) error {
	ok, err := t.store.DeleteDueDiligenceItem(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	t.log.Info("dd_item_deleted", "id", id)
	return nil
}

// UpdateStatus altera só o status (e updatedAt).
func (t *Tracker) UpdateStatus(ctx context.Context, id string, s models.DDStatus) (*models.DueDiligenceItem, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	it, err := t.store.UpdateDueDiligenceStatus(ctx, id, s)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	t.log.Info("dd_status_updated", "id", id, "status", s)
	return it, nil
}

// UpdateRisk altera só o nível de risco (e updatedAt).
func (t *Tracker) UpdateRisk(ctx context.Context, id string, r models.DDRisk) (*models.DueDiligenceItem, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRisk, r)
	}
	it, err := t.store.UpdateDueDiligenceRisk(ctx, id, r)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, ErrNotFound
	}
	t.log.Info("dd_risk_updated", "id", id, "risk", r)
	return it, nil
}

// Summary alimenta o painel do checklist de uma empresa.
type Summary struct {
	EmpresaID    string                    `json:"empresaId"`
	Total        int                       `json:"total"`
	PorStatus    map[models.DDStatus]int   `json:"porStatus"`
	PorRisco     map[models.DDRisk]int     `json:"porRisco"`
	PorCategoria map[models.DDCategory]int `json:"porCategoria"`
	// concluídos / (total - cancelados), em %, 2 casas
	PercentualConcluido float64 `json:"percentualConcluido"`
}

func (t *Tracker) Summary(ctx context.Context, companyID string) (*Summary, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	items, err := t.store.ListDueDiligenceItems(ctx, models.DueDiligenceFilter{EmpresaID: companyID})
	if err != nil {
		return nil, err
	}
	return Summarize(companyID, items), nil
}

func Summarize(companyID string, items []models.DueDiligenceItem) *Summary {
	s := &Summary{
		EmpresaID:    companyID,
		Total:        len(items),
		PorStatus:    map[models.DDStatus]int{},
		PorRisco:     map[models.DDRisk]int{},
		PorCategoria: map[models.DDCategory]int{},
	}
	for _, it := range items {
		s.PorStatus[it.Status]++
		s.PorRisco[it.Risco]++
		s.PorCategoria[it.Categoria]++
	}
	active := s.Total - s.PorStatus[models.DDCancelled]
	if active > 0 {
		pct := float64(s.PorStatus[models.DDCompleted]) * 100 / float64(active)
		s.PercentualConcluido = decimal.NewFromFloat(pct).Round(2).InexactFloat64()
	}
	return s
}
