package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/pipeline-empresas/internal/events"
	"github.com/Werneck0live/pipeline-empresas/internal/inefficiency"
	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/repository"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

type EntryDTO struct {
	ID         string `json:"id"`
	Descricao  string `json:"descricao" validate:"required"`
	Categoria  string `json:"categoria" validate:"omitempty,categoria_ineficiencia"`
	Severidade string `json:"severidade" validate:"omitempty,severidade"`
	Status     string `json:"status" validate:"omitempty,status_entrada"`
	Origem     string `json:"origem" validate:"omitempty,origem"`
	Autor      string `json:"autor"`
}

type LogCreateDTO struct {
	EmpresaID  string     `json:"empresaId" validate:"required"`
	Titulo     string     `json:"titulo"`
	Entradas   []EntryDTO `json:"entradas" validate:"entradas_unicas,dive"`
	PromptIA   string     `json:"promptIa"`
	RespostaIA string     `json:"respostaIa"`
}

// PUT: o estado completo editado. autor vai para a versão gerada.
type LogSaveDTO struct {
	Titulo     string     `json:"titulo"`
	Entradas   []EntryDTO `json:"entradas" validate:"entradas_unicas,dive"`
	PromptIA   string     `json:"promptIa"`
	RespostaIA string     `json:"respostaIa"`
	Autor      string     `json:"autor"`
}

func toEntries(in []EntryDTO) []models.InefficiencyEntry {
	out := make([]models.InefficiencyEntry, 0, len(in))
	for _, e := range in {
		out = append(out, models.InefficiencyEntry{
			ID:         e.ID,
			Descricao:  e.Descricao,
			Categoria:  models.InefficiencyCategory(e.Categoria),
			Severidade: models.Severity(e.Severidade),
			Status:     models.EntryStatus(e.Status),
			Origem:     models.EntrySource(e.Origem),
			Autor:      e.Autor,
		})
	}
	return out
}

// mergeTimestamps devolve às entradas já existentes o createdAt persistido,
// já que o cliente não manda datas.
func mergeTimestamps(current *models.InefficiencyLog, edited []models.InefficiencyEntry) {
	known := make(map[string]models.InefficiencyEntry, len(current.Entradas))
	for _, e := range current.Entradas {
		known[e.ID] = e
	}
	for i := range edited {
		if prev, ok := known[edited[i].ID]; ok {
			edited[i].CreatedAt = prev.CreatedAt
			edited[i].UpdatedAt = prev.UpdatedAt
		}
	}
}

type InefficiencyHandler struct {
	Service  *inefficiency.Service
	Events   Notifier
	Validate *validator.Validate
	Timeout  time.Duration
}

func NewInefficiencyHandler(s *inefficiency.Service, ev Notifier, v *validator.Validate) *InefficiencyHandler {
	if v == nil {
		v = NewValidator()
	}
	return &InefficiencyHandler{Service: s, Events: notifierOrNop(ev), Validate: v}
}

func inefficiencyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inefficiency.ErrNotFound), errors.Is(err, inefficiency.ErrEntryNotFound):
		notFound(w)
	case errors.Is(err, inefficiency.ErrCompanyRequired),
		errors.Is(err, inefficiency.ErrDuplicateEntry),
		errors.Is(err, repository.ErrDuplicateEntry):
		utils.BadRequest(w, err.Error())
	default:
		internalError(w, err)
	}
}

// /api/inefficiency-logs
func (h *InefficiencyHandler) Logs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		list, err := h.Service.ListByCompany(ctx, r.URL.Query().Get("empresaId"))
		if err != nil {
			inefficiencyError(w, err)
			return
		}
		if list == nil {
			list = []models.InefficiencyLog{}
		}
		utils.WriteJSON(w, http.StatusOK, list)

	case http.MethodPost:
		var dto LogCreateDTO
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
		saved, err := h.Service.Create(ctx, models.InefficiencyLog{
			EmpresaID:  dto.EmpresaID,
			Titulo:     dto.Titulo,
			Entradas:   toEntries(dto.Entradas),
			PromptIA:   dto.PromptIA,
			RespostaIA: dto.RespostaIA,
		})
		if err != nil {
			inefficiencyError(w, err)
			return
		}
		h.notify(r, events.ActionUpsert, saved, fmt.Sprintf("Log de ineficiências %q criado", saved.Titulo))
		utils.WriteJSON(w, http.StatusCreated, saved)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// /api/inefficiency-logs/{id}, /api/inefficiency-logs/{id}/versions
// e /api/inefficiency-logs/{id}/entries[/{entryId}]
func (h *InefficiencyHandler) LogByID(w http.ResponseWriter, r *http.Request) {
	parts := pathAfter(r.URL.Path, "/api/inefficiency-logs")
	switch {
	case len(parts) == 2 && parts[1] == "versions":
		h.versions(w, r, parts[0])
		return
	case len(parts) == 2 && parts[1] == "entries":
		h.entries(w, r, parts[0], "")
		return
	case len(parts) == 3 && parts[1] == "entries":
		h.entries(w, r, parts[0], parts[2])
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
		l, err := h.Service.Get(ctx, id)
		if err != nil {
			inefficiencyError(w, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, l)

	case http.MethodPut:
		var dto LogSaveDTO
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
		current, err := h.Service.Get(ctx, id)
		if err != nil {
			inefficiencyError(w, err)
			return
		}
		entries := toEntries(dto.Entradas)
		mergeTimestamps(current, entries)

		res, err := h.Service.Save(ctx, models.InefficiencyLog{
			ID:         id,
			Titulo:     dto.Titulo,
			Entradas:   entries,
			PromptIA:   dto.PromptIA,
			RespostaIA: dto.RespostaIA,
		}, dto.Autor)
		if err != nil {
			inefficiencyError(w, err)
			return
		}
		if res.Version != nil {
			h.notify(r, events.ActionVersion, res.Log,
				fmt.Sprintf("Log %q salvo na versão %d: %s", res.Log.Titulo, res.Log.VersaoAtual, res.Version.Resumo))
		}
		utils.WriteJSON(w, http.StatusOK, res)

	case http.MethodDelete:
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		l, err := h.Service.Get(ctx, id)
		if err != nil {
			inefficiencyError(w, err)
			return
		}
		if err := h.Service.Delete(ctx, id); err != nil {
			inefficiencyError(w, err)
			return
		}
		h.notify(r, events.ActionDelete, l, fmt.Sprintf("Log de ineficiências %q excluído", l.Titulo))
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *InefficiencyHandler) versions(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	if _, err := h.Service.Get(ctx, id); err != nil {
		inefficiencyError(w, err)
		return
	}
	list, err := h.Service.Versions(ctx, id)
	if err != nil {
		internalError(w, err)
		return
	}
	if list == nil {
		list = []models.InefficiencyVersion{}
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

// entries edita uma entrada por vez: POST sem entryId inclui, PUT e DELETE
// com entryId alteram ou removem. Cada chamada é um save (e uma versão).
// O autor vem de ?autor=.
func (h *InefficiencyHandler) entries(w http.ResponseWriter, r *http.Request, logID, entryID string) {
	var edit func(*inefficiency.Draft) error
	code := http.StatusOK

	switch {
	case r.Method == http.MethodPost && entryID == "":
		e, ok := h.decodeEntry(w, r)
		if !ok {
			return
		}
		edit = func(d *inefficiency.Draft) error {
			d.AddEntry(e)
			return nil
		}
		code = http.StatusCreated
	case r.Method == http.MethodPut && entryID != "":
		e, ok := h.decodeEntry(w, r)
		if !ok {
			return
		}
		e.ID = entryID
		edit = func(d *inefficiency.Draft) error { return d.UpdateEntry(e) }
	case r.Method == http.MethodDelete && entryID != "":
		edit = func(d *inefficiency.Draft) error { return d.RemoveEntry(entryID) }
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	res, err := h.Service.Edit(ctx, logID, r.URL.Query().Get("autor"), edit)
	if err != nil {
		inefficiencyError(w, err)
		return
	}
	if res.Version != nil {
		h.notify(r, events.ActionVersion, res.Log,
			fmt.Sprintf("Log %q salvo na versão %d: %s", res.Log.Titulo, res.Log.VersaoAtual, res.Version.Resumo))
	}
	utils.WriteJSON(w, code, res)
}

func (h *InefficiencyHandler) decodeEntry(w http.ResponseWriter, r *http.Request) (models.InefficiencyEntry, bool) {
	var dto EntryDTO
	if err := utils.DecodeStrict(r.Body, &dto); err != nil {
		utils.BadRequest(w, utils.DecodeError(err))
		return models.InefficiencyEntry{}, false
	}
	if err := h.Validate.Struct(dto); err != nil {
		utils.BadRequest(w, validationMessage(err))
		return models.InefficiencyEntry{}, false
	}
	return toEntries([]EntryDTO{dto})[0], true
}

func (h *InefficiencyHandler) notify(r *http.Request, a events.Action, l *models.InefficiencyLog, msg string) {
	h.Events.Notify(r.Context(), events.Event{
		Acao: a, Entidade: events.EntityInefficiency,
		ID: l.ID, EmpresaID: l.EmpresaID, Nome: l.Titulo, Mensagem: msg,
	})
}
