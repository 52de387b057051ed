package handlers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/pipeline-empresas/internal/filter"
	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/ranking"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

type RankingRequest struct {
	Pesos   ranking.Partial `json:"pesos"`
	Filtros filter.Criteria `json:"filtros"`
}

type RankingResponse struct {
	Pesos    ranking.Weights  `json:"pesos"`
	Total    int              `json:"total"`
	Empresas []models.Company `json:"empresas"`
}

type WeightsRequest struct {
	Pesos ranking.Partial `json:"pesos"`
	Chave string          `json:"chave" validate:"required"`
	Valor *float64        `json:"valor" validate:"required,gte=0,lte=100"`
}

type RankingHandler struct {
	Store    CompanyLister
	Validate *validator.Validate
	Timeout  time.Duration
}

func NewRankingHandler(store CompanyLister, v *validator.Validate) *RankingHandler {
	if v == nil {
		v = NewValidator()
	}
	return &RankingHandler{Store: store, Validate: v}
}

// POST /api/ranking
func (h *RankingHandler) Rank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req RankingRequest
	if err := utils.DecodeStrict(r.Body, &req); err != nil {
		utils.BadRequest(w, utils.DecodeError(err))
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.BadRequest(w, validationMessage(err))
		return
	}

	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	list, err := h.Store.ListCompanies(ctx)
	if err != nil {
		internalError(w, err)
		return
	}

	weights := req.Pesos.Resolve()
	ranked := ranking.Rank(filter.Apply(list, req.Filtros), weights)
	utils.WriteJSON(w, http.StatusOK, RankingResponse{Pesos: weights, Total: len(ranked), Empresas: ranked})
}

// POST /api/ranking/weights
func (h *RankingHandler) Weights(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req WeightsRequest
	if err := utils.DecodeStrict(r.Body, &req); err != nil {
		utils.BadRequest(w, utils.DecodeError(err))
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.BadRequest(w, validationMessage(err))
		return
	}
	key, err := ranking.ParseKey(req.Chave)
	if err != nil {
		utils.BadRequest(w, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, ranking.Redistribute(req.Pesos.Resolve(), key, *req.Valor))
}
