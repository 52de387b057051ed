package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Werneck0live/pipeline-empresas/internal/export"
	"github.com/Werneck0live/pipeline-empresas/internal/filter"
	"github.com/Werneck0live/pipeline-empresas/internal/ranking"
)

type ExportHandler struct {
	Store   CompanyLister
	Timeout time.Duration
	now     func() time.Time
}

func NewExportHandler(store CompanyLister) *ExportHandler {
	return &ExportHandler{Store: store, now: time.Now}
}

// GET /api/export/companies?format=csv|txt|xlsx&fields=cnpj,razaoSocial,...
// e /api/export/report?format=csv|txt. Os filtros da listagem também valem aqui.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	parts := pathAfter(r.URL.Path, "/api/export")
	if len(parts) != 1 || (parts[0] != "companies" && parts[0] != "report") {
		notFound(w)
		return
	}

	q := r.URL.Query()
	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		utils400(w, err)
		return
	}
	var keys []string
	if f := q.Get("fields"); f != "" {
		keys = strings.Split(f, ",")
	}
	fields, err := export.SelectFields(keys)
	if err != nil {
		utils400(w, err)
		return
	}

	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	list, err := h.Store.ListCompanies(ctx)
	if err != nil {
		internalError(w, err)
		return
	}
	// exportação sai sempre ranqueada pelos pesos padrão
	list = ranking.Rank(filter.Apply(list, filter.FromQuery(q)), ranking.DefaultWeights())

	// gera em memória para poder responder erro com status certo
	var buf bytes.Buffer
	base := "empresas"
	if parts[0] == "report" {
		base = "relatorio"
		err = export.WriteReport(&buf, format, export.Report{GeneratedAt: h.now(), Companies: list, Fields: fields})
	} else {
		err = export.WriteCompanies(&buf, format, list, fields)
	}
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			utils400(w, err)
			return
		}
		internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename="+format.Filename(base))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func utils400(w http.ResponseWriter, err error) { writeError(w, http.StatusBadRequest, err.Error()) }
