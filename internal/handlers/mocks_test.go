package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Werneck0live/pipeline-empresas/internal/db"
	"github.com/Werneck0live/pipeline-empresas/internal/events"
	"github.com/Werneck0live/pipeline-empresas/internal/localstore"
	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

type storeMock struct {
	ListFn     func(ctx context.Context) ([]models.Company, error)
	UpsertFn   func(ctx context.Context, c *models.Company) (*models.Company, error)
	GetByIDFn  func(ctx context.Context, id string) (*models.Company, error)
	GetByTaxFn func(ctx context.Context, cnpj string) (*models.Company, error)
	DeleteFn   func(ctx context.Context, id string) (bool, error)
}

func (m *storeMock) ListCompanies(ctx context.Context) ([]models.Company, error) {
	if m.ListFn == nil {
		return nil, errors.New("ListFn not set")
	}
	return m.ListFn(ctx)
}
func (m *storeMock) UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	if m.UpsertFn == nil {
		return nil, errors.New("UpsertFn not set")
	}
	return m.UpsertFn(ctx, c)
}
func (m *storeMock) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	if m.GetByIDFn == nil {
		return nil, errors.New("GetByIDFn not set")
	}
	return m.GetByIDFn(ctx, id)
}
func (m *storeMock) GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error) {
	if m.GetByTaxFn == nil {
		return nil, errors.New("GetByTaxFn not set")
	}
	return m.GetByTaxFn(ctx, cnpj)
}
func (m *storeMock) DeleteCompany(ctx context.Context, id string) (bool, error) {
	if m.DeleteFn == nil {
		return false, errors.New("DeleteFn not set")
	}
	return m.DeleteFn(ctx, id)
}

// notifierMock guarda os eventos emitidos
type notifierMock struct {
	mu     sync.Mutex
	events []events.Event
}

func (n *notifierMock) Notify(_ context.Context, ev events.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *notifierMock) last() (events.Event, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return events.Event{}, false
	}
	return n.events[len(n.events)-1], true
}

// localStore sobe o store SQLite em memória para os handlers que passam por serviços.
func localStore(t *testing.T) *localstore.Store {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := localstore.New(gdb)
	if err != nil {
		t.Fatalf("localstore: %v", err)
	}
	return s
}
