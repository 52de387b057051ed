package inefficiency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

var (
	ErrNotFound        = errors.New("inefficiency log not found")
	ErrCompanyRequired = errors.New("empresaId is required")
	ErrDuplicateEntry  = errors.New("duplicate entry id")
)

type Store interface {
	UpsertInefficiencyLog(ctx context.Context, l *models.InefficiencyLog) (*models.InefficiencyLog, error)
	GetLogByID(ctx context.Context, id string) (*models.InefficiencyLog, error)
	ListLogsByCompany(ctx context.Context, companyID string) ([]models.InefficiencyLog, error)
	DeleteLog(ctx context.Context, id string) (bool, error)
	AppendVersion(ctx context.Context, v *models.InefficiencyVersion) (*models.InefficiencyVersion, error)
	ListVersions(ctx context.Context, logID string) ([]models.InefficiencyVersion, error)
}

type Service struct {
	store Store
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log.With("cmp", "inefficiency"), now: time.Now}
}

// SaveResult.Version fica nil quando o save não detectou alterações nas entradas.
type SaveResult struct {
	Log     *models.InefficiencyLog     `json:"log"`
	Version *models.InefficiencyVersion `json:"versao,omitempty"`
	Changes []models.Change             `json:"alteracoes"`
}

// Create grava um log novo, vazio ou já semeado por uma resposta de IA.
func (s *Service) Create(ctx context.Context, l models.InefficiencyLog) (*models.InefficiencyLog, error) {
	if l.EmpresaID == "" {
		return nil, ErrCompanyRequired
	}
	if err := checkEntryIDs(l.Entradas); err != nil {
		return nil, err
	}
	now := s.now()
	l.ID = uuid.NewString()
	l.VersaoAtual = 1
	l.CreatedAt, l.UpdatedAt = now, now

	defaultSource := models.SourceManual
	if l.RespostaIA != "" {
		defaultSource = models.SourceAI
	}
	l.Entradas = append([]models.InefficiencyEntry(nil), l.Entradas...)
	for i := range l.Entradas {
		if l.Entradas[i].Origem == "" {
			l.Entradas[i].Origem = defaultSource
		}
	}
	s.stampEntries(l.Entradas, now)

	saved, err := s.store.UpsertInefficiencyLog(ctx, &l)
	if err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	s.log.Info("inefficiency_log_created", "id", saved.ID, "empresa_id", saved.EmpresaID, "entries", len(saved.Entradas))
	return saved, nil
}

// Save compara as entradas persistidas com as editadas. Havendo diferença,
// grava primeiro a versão com o estado ANTERIOR e depois o log com versaoAtual+1.
// Sem diferença, só regrava o log (título e campos de IA podem ter mudado).
func (s *Service) Save(ctx context.Context, editing models.InefficiencyLog, author string) (*SaveResult, error) {
	if err := checkEntryIDs(editing.Entradas); err != nil {
		return nil, err
	}
	persisted, err := s.store.GetLogByID(ctx, editing.ID)
	if err != nil {
		return nil, fmt.Errorf("load log %s: %w", editing.ID, err)
	}
	if persisted == nil {
		return nil, ErrNotFound
	}

	now := s.now()
	next := editing
	next.Entradas = append([]models.InefficiencyEntry(nil), editing.Entradas...)
	s.stampEntries(next.Entradas, now)
	next.EmpresaID = persisted.EmpresaID
	next.CreatedAt = persisted.CreatedAt
	next.VersaoAtual = persisted.VersaoAtual
	next.UpdatedAt = now

	changes := Diff(persisted.Entradas, next.Entradas)
	res := &SaveResult{Changes: changes}

	touched := make(map[string]bool)
	for _, c := range changes {
		if c.Tipo == models.ChangeUpdated {
			touched[c.EntradaID] = true
		}
	}
	for i := range next.Entradas {
		if touched[next.Entradas[i].ID] {
			next.Entradas[i].UpdatedAt = now
		}
	}

	if len(changes) > 0 {
		v := &models.InefficiencyVersion{
			ID:         uuid.NewString(),
			LogID:      persisted.ID,
			Versao:     persisted.VersaoAtual,
			Entradas:   persisted.Entradas,
			Alteracoes: changes,
			Autor:      author,
			Resumo:     Summarize(changes),
			CreatedAt:  now,
		}
		if v.Entradas == nil {
			v.Entradas = []models.InefficiencyEntry{}
		}
		saved, err := s.store.AppendVersion(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("append version: %w", err)
		}
		res.Version = saved
		next.VersaoAtual++
	}

	savedLog, err := s.store.UpsertInefficiencyLog(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("save log: %w", err)
	}
	res.Log = savedLog

	s.log.Info("inefficiency_log_saved",
		"id", savedLog.ID, "version", savedLog.VersaoAtual, "changes", len(changes), "author", author)
	return res, nil
}

// Edit carrega o log persistido, aplica fn sobre um Draft e salva o resultado.
// Um erro de fn (ex.: ErrEntryNotFound) aborta sem gravar nada.
func (s *Service) Edit(ctx context.Context, id, author string, fn func(*Draft) error) (*SaveResult, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := NewDraft(*cur)
	d.now = s.now
	if err := fn(d); err != nil {
		return nil, err
	}
	return s.Save(ctx, d.Log, author)
}

func (s *Service) Get(ctx context.Context, id string) (*models.InefficiencyLog, error) {
	l, err := s.store.GetLogByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrNotFound
	}
	return l, nil
}

func (s *Service) ListByCompany(ctx context.Context, companyID string) ([]models.InefficiencyLog, error) {
	if companyID == "" {
		return nil, ErrCompanyRequired
	}
	return s.store.ListLogsByCompany(ctx, companyID)
}

// Delete remove o log junto com entradas e versões.
func (s *Service) Delete(ctx context.Context, id string) error {
	ok, err := s.store.DeleteLog(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.log.Info("inefficiency_log_deleted", "id", id)
	return nil
}

// Versions devolve o histórico, mais recente primeiro.
func (s *Service) Versions(ctx context.Context, logID string) ([]models.InefficiencyVersion, error) {
	return s.store.ListVersions(ctx, logID)
}

// checkEntryIDs recusa IDs repetidos; entradas sem ID ainda vão receber um.
func checkEntryIDs(entries []models.InefficiencyEntry) error {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			continue
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateEntry, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func (s *Service) stampEntries(entries []models.InefficiencyEntry, now time.Time) {
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Origem == "" {
			e.Origem = models.SourceManual
		}
		if e.Status == "" {
			e.Status = models.EntryIdentified
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = now
		}
	}
}
