package admin

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Werneck0live/pipeline-empresas/internal/db"
	"github.com/Werneck0live/pipeline-empresas/internal/localstore"
)

func newStore(t *testing.T) *localstore.Store {
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

func TestSeedCompanies_Idempotent(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if err := SeedCompanies(ctx, s, slog.Default()); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	first, err := s.ListCompanies(ctx)
	if err != nil || len(first) != 4 {
		t.Fatalf("list after seed: %v len=%d", err, len(first))
	}

	// edição manual não pode ser desfeita pelo seed
	c := first[0]
	c.Observacoes = "editado"
	if _, err := s.UpsertCompany(ctx, &c); err != nil {
		t.Fatalf("edit: %v", err)
	}

	if err := SeedCompanies(ctx, s, slog.Default()); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	again, _ := s.ListCompanies(ctx)
	if len(again) != 4 {
		t.Fatalf("duplicated on reseed: %d", len(again))
	}
	got, _ := s.GetCompanyByID(ctx, c.ID)
	if got == nil || got.Observacoes != "editado" {
		t.Fatalf("seed overwrote edit: %+v", got)
	}
}

func TestSeed_SkipsInvalidCNPJ(t *testing.T) {
	s := newStore(t)
	raw := []byte(`[{"cnpj":"11.222.333/0001-82","razaoSocial":"X"},{"cnpj":"60198640000180","razaoSocial":"Y"}]`)
	if err := seed(context.Background(), s, slog.Default(), raw); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, _ := s.ListCompanies(context.Background())
	if len(list) != 1 || list[0].CNPJ != "60.198.640/0001-80" {
		t.Fatalf("unexpected: %+v", list)
	}
}
