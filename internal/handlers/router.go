package handlers

import (
	"net/http"

	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

// StoreStatus é o que o /healthz precisa saber do gateway.
type StoreStatus interface {
	Mode() string
}

type Router struct {
	Companies    *CompanyHandler
	Ranking      *RankingHandler
	DueDiligence *DueDiligenceHandler
	Inefficiency *InefficiencyHandler
	Export       *ExportHandler
	Status       StoreStatus
}

func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	mode := "unknown"
	if rt.Status != nil {
		mode = rt.Status.Mode()
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "store": mode})
}

// Mux monta as rotas no estilo do net/http: prefixo com "/" final cai no
// handler "ById", que faz o parse do restante do caminho.
func (rt *Router) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.Health)

	mux.HandleFunc("/api/companies", rt.Companies.Companies)
	mux.HandleFunc("/api/companies/", rt.Companies.CompanyByID)

	mux.HandleFunc("/api/ranking", rt.Ranking.Rank)
	mux.HandleFunc("/api/ranking/weights", rt.Ranking.Weights)

	mux.HandleFunc("/api/due-diligence", rt.DueDiligence.Items)
	mux.HandleFunc("/api/due-diligence/", rt.DueDiligence.ItemByID)

	mux.HandleFunc("/api/inefficiency-logs", rt.Inefficiency.Logs)
	mux.HandleFunc("/api/inefficiency-logs/", rt.Inefficiency.LogByID)

	mux.HandleFunc("/api/export/", rt.Export.Export)
	return mux
}
