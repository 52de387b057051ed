package inefficiency

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

// memStore guarda tudo em mapas; suficiente para exercitar o Service.
type memStore struct {
	logs       map[string]models.InefficiencyLog
	versions   []models.InefficiencyVersion
	appendErr  error
	upsertCall int
}

func newMemStore() *memStore {
	return &memStore{logs: map[string]models.InefficiencyLog{}}
}

func (m *memStore) UpsertInefficiencyLog(_ context.Context, l *models.InefficiencyLog) (*models.InefficiencyLog, error) {
	m.upsertCall++
	m.logs[l.ID] = *l
	cp := *l
	return &cp, nil
}

func (m *memStore) GetLogByID(_ context.Context, id string) (*models.InefficiencyLog, error) {
	l, ok := m.logs[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *memStore) ListLogsByCompany(_ context.Context, companyID string) ([]models.InefficiencyLog, error) {
	var out []models.InefficiencyLog
	for _, l := range m.logs {
		if l.EmpresaID == companyID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) DeleteLog(_ context.Context, id string) (bool, error) {
	if _, ok := m.logs[id]; !ok {
		return false, nil
	}
	delete(m.logs, id)
	return true, nil
}

func (m *memStore) AppendVersion(_ context.Context, v *models.InefficiencyVersion) (*models.InefficiencyVersion, error) {
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	m.versions = append(m.versions, *v)
	return v, nil
}

func (m *memStore) ListVersions(_ context.Context, logID string) ([]models.InefficiencyVersion, error) {
	var out []models.InefficiencyVersion
	for i := len(m.versions) - 1; i >= 0; i-- {
		if m.versions[i].LogID == logID {
			out = append(out, m.versions[i])
		}
	}
	return out, nil
}

func newService(st Store) *Service { return NewService(st, slog.Default()) }

func TestService_Create(t *testing.T) {
	st := newMemStore()
	svc := newService(st)

	l, err := svc.Create(context.Background(), models.InefficiencyLog{
		EmpresaID:  "emp-1",
		Titulo:     "Diagnóstico",
		RespostaIA: "resposta",
		Entradas:   []models.InefficiencyEntry{{Descricao: "Retrabalho no faturamento"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if l.ID == "" || l.VersaoAtual != 1 {
		t.Fatalf("log=%#v", l)
	}
	e := l.Entradas[0]
	if e.ID == "" || e.Origem != models.SourceAI || e.CreatedAt.IsZero() {
		t.Fatalf("entry=%#v", e)
	}

	if _, err := svc.Create(context.Background(), models.InefficiencyLog{}); !errors.Is(err, ErrCompanyRequired) {
		t.Fatalf("err=%v", err)
	}
}

func TestService_Save_WritesVersionWithPreviousEntries(t *testing.T) {
	st := newMemStore()
	svc := newService(st)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.InefficiencyLog{
		EmpresaID: "emp-1",
		Entradas:  []models.InefficiencyEntry{entry("a", "x")},
	})
	if err != nil {
		t.Fatal(err)
	}

	d := NewDraft(*created)
	d.AddEntry(models.InefficiencyEntry{Descricao: "nova"})

	res, err := svc.Save(ctx, d.Log, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if res.Version == nil {
		t.Fatal("want version")
	}
	if res.Log.VersaoAtual != 2 {
		t.Fatalf("versaoAtual=%d", res.Log.VersaoAtual)
	}
	v := res.Version
	if v.Versao != 1 || v.Autor != "ana" || len(v.Alteracoes) != 1 || v.Alteracoes[0].Tipo != models.ChangeAdded {
		t.Fatalf("version=%#v", v)
	}
	// snapshot é o estado anterior ao save
	if len(v.Entradas) != 1 || v.Entradas[0].ID != "a" {
		t.Fatalf("snapshot=%#v", v.Entradas)
	}
	if len(st.logs[created.ID].Entradas) != 2 {
		t.Fatalf("persisted entries=%d", len(st.logs[created.ID].Entradas))
	}
}

func TestService_Save_NoChangesNoVersion(t *testing.T) {
	st := newMemStore()
	svc := newService(st)
	ctx := context.Background()

	created, _ := svc.Create(ctx, models.InefficiencyLog{
		EmpresaID: "emp-1",
		Entradas:  []models.InefficiencyEntry{entry("a", "x")},
	})
	editing := *created
	editing.Titulo = "Novo título"

	res, err := svc.Save(ctx, editing, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if res.Version != nil || len(st.versions) != 0 {
		t.Fatalf("unexpected version %#v", res.Version)
	}
	if res.Log.VersaoAtual != 1 || res.Log.Titulo != "Novo título" {
		t.Fatalf("log=%#v", res.Log)
	}
}

func TestService_Save_VersionFailureKeepsLog(t *testing.T) {
	st := newMemStore()
	svc := newService(st)
	ctx := context.Background()

	created, _ := svc.Create(ctx, models.InefficiencyLog{EmpresaID: "emp-1"})
	calls := st.upsertCall
	st.appendErr = errors.New("boom")

	d := NewDraft(*created)
	d.AddEntry(models.InefficiencyEntry{Descricao: "nova"})
	if _, err := svc.Save(ctx, d.Log, ""); err == nil {
		t.Fatal("want error")
	}
	if st.upsertCall != calls {
		t.Fatal("log must not be written when the version write fails")
	}
}

func TestService_RejectsDuplicateEntryIDs(t *testing.T) {
	st := newMemStore()
	svc := newService(st)
	ctx := context.Background()

	dup := []models.InefficiencyEntry{entry("a", "y"), entry("a", "z")}
	if _, err := svc.Create(ctx, models.InefficiencyLog{EmpresaID: "emp-1", Entradas: dup}); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("create err=%v", err)
	}

	created, _ := svc.Create(ctx, models.InefficiencyLog{
		EmpresaID: "emp-1",
		Entradas:  []models.InefficiencyEntry{entry("a", "x"), {Descricao: "sem id"}},
	})
	calls := st.upsertCall
	editing := *created
	editing.Entradas = dup
	if _, err := svc.Save(ctx, editing, "ana"); !errors.Is(err, ErrDuplicateEntry) {
		t.Fatalf("save err=%v", err)
	}
	if st.upsertCall != calls || len(st.versions) != 0 {
		t.Fatal("nothing may be written for a rejected save")
	}

	// várias entradas novas sem ID não contam como repetição
	editing.Entradas = []models.InefficiencyEntry{entry("a", "x"), {Descricao: "n1"}, {Descricao: "n2"}}
	if _, err := svc.Save(ctx, editing, "ana"); err != nil {
		t.Fatalf("save with new entries: %v", err)
	}
}

func TestService_Save_NotFound(t *testing.T) {
	svc := newService(newMemStore())
	_, err := svc.Save(context.Background(), models.InefficiencyLog{ID: "x"}, "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestService_Delete(t *testing.T) {
	st := newMemStore()
	svc := newService(st)
	created, _ := svc.Create(context.Background(), models.InefficiencyLog{EmpresaID: "emp-1"})

	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestService_Edit(t *testing.T) {
	st := newMemStore()
	s := newService(st)
	ctx := context.Background()

	l, err := s.Create(ctx, models.InefficiencyLog{EmpresaID: "c1", Titulo: "Log"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	res, err := s.Edit(ctx, l.ID, "bia", func(d *Draft) error {
		d.AddEntry(models.InefficiencyEntry{Descricao: "Aprovações por e-mail"})
		return nil
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if res.Version == nil || res.Log.VersaoAtual != 2 || len(res.Version.Entradas) != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}

	_, err = s.Edit(ctx, l.ID, "bia", func(d *Draft) error { return d.RemoveEntry("missing") })
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
	if len(st.versions) != 1 {
		t.Fatalf("failed edit must not write a version, got %d", len(st.versions))
	}

	if _, err := s.Edit(ctx, "nope", "", func(*Draft) error { return nil }); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
