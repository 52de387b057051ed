// Package gateway decide qual store atende cada operação: o hospedado
// (MongoDB) quando disponível, o local (SQLite) quando ele falha.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

var ErrNoSecondary = errors.New("no fallback store configured")

const DefaultCooldown = 30 * time.Second

type Store interface {
	UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error)
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string) (bool, error)

	UpsertDueDiligenceItem(ctx context.Context, it *models.DueDiligenceItem) (*models.DueDiligenceItem, error)
	ListDueDiligenceItems(ctx context.Context, f models.DueDiligenceFilter) ([]models.DueDiligenceItem, error)
	GetDueDiligenceItemByID(ctx context.Context, id string) (*models.DueDiligenceItem, error)
	DeleteDueDiligenceItem(ctx context.Context, id string) (bool, error)
	UpdateDueDiligenceStatus(ctx context.Context, id string, s models.DDStatus) (*models.DueDiligenceItem, error)
	UpdateDueDiligenceRisk(ctx context.Context, id string, r models.DDRisk) (*models.DueDiligenceItem, error)

	UpsertInefficiencyLog(ctx context.Context, l *models.InefficiencyLog) (*models.InefficiencyLog, error)
	ListLogsByCompany(ctx context.Context, companyID string) ([]models.InefficiencyLog, error)
	GetLogByID(ctx context.Context, id string) (*models.InefficiencyLog, error)
	DeleteLog(ctx context.Context, id string) (bool, error)
	AppendVersion(ctx context.Context, v *models.InefficiencyVersion) (*models.InefficiencyVersion, error)
	ListVersions(ctx context.Context, logID string) ([]models.InefficiencyVersion, error)
}

type Options struct {
	// Cooldown é quanto tempo o breaker fica aberto depois de uma falha.
	Cooldown time.Duration
	// LocalOnly fixa o store local; o hospedado nunca é chamado.
	LocalOnly bool
	// OnFallback é chamado a cada falha do store hospedado que leva ao local.
	OnFallback func(op string, err error)
	// Permanent lista erros de negócio que sobem direto, sem fallback.
	Permanent []error
	Logger    *slog.Logger
}

type Gateway struct {
	primary   Store
	secondary Store
	opts      Options
	log       *slog.Logger
	now       func() time.Time

	// openUntil guarda (em UnixNano) até quando o breaker fica aberto.
	openUntil atomic.Int64
}

// New aceita primary nil (sem Mongo): nesse caso tudo vai para o secondary.
func New(primary, secondary Store, opts Options) *Gateway {
	if opts.Cooldown <= 0 {
		opts.Cooldown = DefaultCooldown
	}
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Gateway{
		primary:   primary,
		secondary: secondary,
		opts:      opts,
		log:       lg.With("cmp", "gateway"),
		now:       time.Now,
	}
}

// BreakerOpen indica se as chamadas estão indo para o store local.
func (g *Gateway) BreakerOpen() bool {
	if g.pinned() {
		return true
	}
	return g.now().UnixNano() < g.openUntil.Load()
}

// Mode resume o estado para o /healthz.
func (g *Gateway) Mode() string {
	switch {
	case g.pinned():
		return "local-only"
	case g.BreakerOpen():
		return "fallback"
	default:
		return "primary"
	}
}

func (g *Gateway) pinned() bool { return g.opts.LocalOnly || g.primary == nil }

func (g *Gateway) trip(op string, err error) {
	until := g.now().Add(g.opts.Cooldown)
	g.openUntil.Store(until.UnixNano())
	g.log.Warn("primary_store_failed", "op", op, "err", err, "breaker_open_until", until)
	if g.opts.OnFallback != nil {
		g.opts.OnFallback(op, err)
	}
}

func (g *Gateway) permanent(err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	for _, p := range g.opts.Permanent {
		if errors.Is(err, p) {
			return true
		}
	}
	return false
}

// call executa fn no store certo com no máximo uma tentativa de fallback.
func call[T any](ctx context.Context, g *Gateway, op string, fn func(context.Context, Store) (T, error)) (T, error) {
	var zero T
	if !g.pinned() && !g.BreakerOpen() {
		v, err := fn(ctx, g.primary)
		if err == nil || g.permanent(err) {
			return v, err
		}
		g.trip(op, err)
		if g.secondary == nil {
			return zero, fmt.Errorf("%s: %w", op, errors.Join(err, ErrNoSecondary))
		}
	}
	if g.secondary == nil {
		return zero, fmt.Errorf("%s: %w", op, ErrNoSecondary)
	}
	v, err := fn(ctx, g.secondary)
	if err != nil {
		return zero, fmt.Errorf("%s (local): %w", op, err)
	}
	return v, nil
}

func (g *Gateway) UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	return call(ctx, g, "upsert_company", func(ctx context.Context, s Store) (*models.Company, error) {
		return s.UpsertCompany(ctx, c)
	})
}

func (g *Gateway) ListCompanies(ctx context.Context) ([]models.Company, error) {
	return call(ctx, g, "list_companies", func(ctx context.Context, s Store) ([]models.Company, error) {
		return s.ListCompanies(ctx)
	})
}

func (g *Gateway) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	return call(ctx, g, "get_company", func(ctx context.Context, s Store) (*models.Company, error) {
		return s.GetCompanyByID(ctx, id)
	})
}

func (g *Gateway) GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error) {
	return call(ctx, g, "get_company_by_cnpj", func(ctx context.Context, s Store) (*models.Company, error) {
		return s.GetCompanyByTaxID(ctx, cnpj)
	})
}

func (g *Gateway) DeleteCompany(ctx context.Context, id string) (bool, error) {
	return call(ctx, g, "delete_company", func(ctx context.Context, s Store) (bool, error) {
		return s.DeleteCompany(ctx, id)
	})
}

func (g *Gateway) UpsertDueDiligenceItem(ctx context.Context, it *models.DueDiligenceItem) (*models.DueDiligenceItem, error) {
	return call(ctx, g, "upsert_dd_item", func(ctx context.Context, s Store) (*models.DueDiligenceItem, error) {
		return s.UpsertDueDiligenceItem(ctx, it)
	})
}

func (g *Gateway) ListDueDiligenceItems(ctx context.Context, f models.DueDiligenceFilter) ([]models.DueDiligenceItem, error) {
	return call(ctx, g, "list_dd_items", func(ctx context.Context, s Store) ([]models.DueDiligenceItem, error) {
		return s.ListDueDiligenceItems(ctx, f)
	})
}

func (g *Gateway) GetDueDiligenceItemByID(ctx context.Context, id string) (*models.DueDiligenceItem, error) {
	return call(ctx, g, "get_dd_item", func(ctx context.Context, s Store) (*models.DueDiligenceItem, error) {
		return s.GetDueDiligenceItemByID(ctx, id)
	})
}

func (g *Gateway) DeleteDueDiligenceItem(ctx context.Context, id string) (bool, error) {
	return call(ctx, g, "delete_dd_item", func(ctx context.Context, s Store) (bool, error) {
		return s.DeleteDueDiligenceItem(ctx, id)
	})
}

func (g *Gateway) UpdateDueDiligenceStatus(ctx context.Context, id string, st models.DDStatus) (*models.DueDiligenceItem, error) {
	return call(ctx, g, "update_dd_status", func(ctx context.Context, s Store) (*models.DueDiligenceItem, error) {
		return s.UpdateDueDiligenceStatus(ctx, id, st)
	})
}

func (g *Gateway) UpdateDueDiligenceRisk(ctx context.Context, id string, r models.DDRisk) (*models.DueDiligenceItem, error) {
	return call(ctx, g, "update_dd_risk", func(ctx context.Context, s Store) (*models.DueDiligenceItem, error) {
		return s.UpdateDueDiligenceRisk(ctx, id, r)
	})
}

func (g *Gateway) UpsertInefficiencyLog(ctx context.Context, l *models.InefficiencyLog) (*models.InefficiencyLog, error) {
	return call(ctx, g, "upsert_inefficiency_log", func(ctx context.Context, s Store) (*models.InefficiencyLog, error) {
		return s.UpsertInefficiencyLog(ctx, l)
	})
}

func (g *Gateway) ListLogsByCompany(ctx context.Context, companyID string) ([]models.InefficiencyLog, error) {
	return call(ctx, g, "list_inefficiency_logs", func(ctx context.Context, s Store) ([]models.InefficiencyLog, error) {
		return s.ListLogsByCompany(ctx, companyID)
	})
}

func (g *Gateway) GetLogByID(ctx context.Context, id string) (*models.InefficiencyLog, error) {
	return call(ctx, g, "get_inefficiency_log", func(ctx context.Context, s Store) (*models.InefficiencyLog, error) {
		return s.GetLogByID(ctx, id)
	})
}

func (g *Gateway) DeleteLog(ctx context.Context, id string) (bool, error) {
	return call(ctx, g, "delete_inefficiency_log", func(ctx context.Context, s Store) (bool, error) {
		return s.DeleteLog(ctx, id)
	})
}

func (g *Gateway) AppendVersion(ctx context.Context, v *models.InefficiencyVersion) (*models.InefficiencyVersion, error) {
	return call(ctx, g, "append_version", func(ctx context.Context, s Store) (*models.InefficiencyVersion, error) {
		return s.AppendVersion(ctx, v)
	})
}

func (g *Gateway) ListVersions(ctx context.Context, logID string) ([]models.InefficiencyVersion, error) {
	return call(ctx, g, "list_versions", func(ctx context.Context, s Store) ([]models.InefficiencyVersion, error) {
		return s.ListVersions(ctx, logID)
	})
}
