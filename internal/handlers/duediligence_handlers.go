package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/pipeline-empresas/internal/duediligence"
	"github.com/Werneck0live/pipeline-empresas/internal/events"
	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

type DueDiligenceDTO struct {
	EmpresaID    string              `json:"empresaId" validate:"required"`
	Categoria    string              `json:"categoria"`
	Item         string              `json:"item" validate:"required"`
	Status       string              `json:"status"`
	Risco        string              `json:"risco"`
	Recomendacao string              `json:"recomendacao"`
	Documento    *models.DocumentRef `json:"documento,omitempty"`
}

func (d DueDiligenceDTO) toModel(id string) models.DueDiligenceItem {
	return models.DueDiligenceItem{
		ID:           id,
		EmpresaID:    d.EmpresaID,
		Categoria:    models.DDCategory(d.Categoria),
		Item:         d.Item,
		Status:       models.DDStatus(d.Status),
		Risco:        models.DDRisk(d.Risco),
		Recomendacao: d.Recomendacao,
		Documento:    d.Documento,
	}
}

type statusDTO struct {
	Status string `json:"status" validate:"required"`
}

type riskDTO struct {
	Risco string `json:"risco" validate:"required"`
}

type DueDiligenceHandler struct {
	Tracker  *duediligence.Tracker
	Events   Notifier
	Validate *validator.Validate
	Timeout  time.Duration
}

func NewDueDiligenceHandler(t *duediligence.Tracker, ev Notifier, v *validator.Validate) *DueDiligenceHandler {
	if v == nil {
		v = NewValidator()
	}
	return &DueDiligenceHandler{Tracker: t, Events: notifierOrNop(ev), Validate: v}
}

func ddError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, duediligence.ErrNotFound):
		notFound(w)
	case errors.Is(err, duediligence.ErrInvalidStatus),
		errors.Is(err, duediligence.ErrInvalidRisk),
		errors.Is(err, duediligence.ErrInvalidCategory),
		errors.Is(err, duediligence.ErrCompanyRequired),
		errors.Is(err, duediligence.ErrItemTextRequired):
		utils.BadRequest(w, err.Error())
	default:
		internalError(w, err)
	}
}

// /api/due-diligence
func (h *DueDiligenceHandler) Items(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		f := models.DueDiligenceFilter{
			EmpresaID: q.Get("empresaId"),
			Categoria: models.DDCategory(q.Get("categoria")),
			Status:    models.DDStatus(q.Get("status")),
			Risco:     models.DDRisk(q.Get("risco")),
		}
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		list, err := h.Tracker.List(ctx, f)
		if err != nil {
			ddError(w, err)
			return
		}
		if list == nil {
			list = []models.DueDiligenceItem{}
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		h.upsert(w, r, "", http.StatusCreated)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// /api/due-diligence/summary, /api/due-diligence/{id}, /api/due-diligence/{id}/status|risk
func (h *DueDiligenceHandler) ItemByID(w http.ResponseWriter, r *http.Request) {
	parts := pathAfter(r.URL.Path, "/api/due-diligence")
	switch {
	case len(parts) == 1 && parts[0] == "summary":
		h.summary(w, r)
		return
	case len(parts) == 2 && parts[1] == "status":
		h.patchStatus(w, r, parts[0])
		return
	case len(parts) == 2 && parts[1] == "risk":
		h.patchRisk(w, r, parts[0])
		return
	case len(parts) != 1:
		notFound(w)
		return
	}
	id := parts[0]

	switch r.Method {
	case http.MethodGet:
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		it, err := h.Tracker.Get(ctx, id)
		if err != nil {
			ddError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, it)

	case http.MethodPut:
		h.upsert(w, r, id, http.StatusOK)

	case http.MethodDelete:
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		it, err := h.Tracker.Get(ctx, id)
		if err != nil {
			ddError(w, err)
			return
		}
		if err := h.Tracker.Delete(ctx, id); err != nil {
			ddError(w, err)
			return
		}
		h.notify(r, events.ActionDelete, it, fmt.Sprintf("Item de due diligence %q removido", it.Item))
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *DueDiligenceHandler) upsert(w http.ResponseWriter, r *http.Request, id string, code int) {
	var dto DueDiligenceDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.DecodeError(err))
		return
	}
	if err := h.Validate.Struct(dto); err != nil {
		utils.BadRequest(w, validationMessage(err))
		return
	}
	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	saved, err := h.Tracker.Upsert(ctx, dto.toModel(id))
	if err != nil {
		ddError(w, err)
		return
	}
	h.notify(r, events.ActionUpsert, saved, fmt.Sprintf("Item de due diligence %q salvo", saved.Item))
	utils.WriteJSON(w, code, saved)
}

func (h *DueDiligenceHandler) patchStatus(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var dto statusDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.DecodeError(err))
		return
	}
	if err := h.Validate.Struct(dto); err != nil {
		utils.BadRequest(w, validationMessage(err))
		return
	}
	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	it, err := h.Tracker.UpdateStatus(ctx, id, models.DDStatus(dto.Status))
	if err != nil {
		ddError(w, err)
		return
	}
	h.notify(r, events.ActionStatusChange, it, fmt.Sprintf("Status de %q alterado para %s", it.Item, it.Status))
	utils.WriteJSON(w, http.StatusOK, it)
}

func (h *DueDiligenceHandler) patchRisk(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodPatch {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var dto riskDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.DecodeError(err))
		return
	}
	if err := h.Validate.Struct(dto); err != nil {
		utils.BadRequest(w, validationMessage(err))
		return
	}
	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	it, err := h.Tracker.UpdateRisk(ctx, id, models.DDRisk(dto.Risco))
	if err != nil {
		ddError(w, err)
		return
	}
	h.notify(r, events.ActionRiskChange, it, fmt.Sprintf("Risco de %q alterado para %s", it.Item, it.Risco))
	utils.WriteJSON(w, http.StatusOK, it)
}

func (h *DueDiligenceHandler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	s, err := h.Tracker.Summary(ctx, r.URL.Query().Get("empresaId"))
	if err != nil {
		ddError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, s)
}

func (h *DueDiligenceHandler) notify(r *http.Request, a events.Action, it *models.DueDiligenceItem, msg string) {
	h.Events.Notify(r.Context(), events.Event{
		Acao: a, Entidade: events.EntityDueDiligence,
		ID: it.ID, EmpresaID: it.EmpresaID, Nome: it.Item, Mensagem: msg,
	})
}
