package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Werneck0live/pipeline-empresas/internal/events"
	"github.com/Werneck0live/pipeline-empresas/internal/filter"
	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/repository"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

type CompanyLister interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
}

type CompanyStore interface {
	CompanyLister
	UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error)
	GetCompanyByID(ctx context.Context, id string) (*models.Company, error)
	GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error)
	DeleteCompany(ctx context.Context, id string) (bool, error)
}

type CompanyHandler struct {
	Store    CompanyStore
	Events   Notifier
	Validate *validator.Validate
	Timeout  time.Duration
}

func NewCompanyHandler(store CompanyStore, ev Notifier, v *validator.Validate) *CompanyHandler {
	if v == nil {
		v = NewValidator()
	}
	return &CompanyHandler{Store: store, Events: notifierOrNop(ev), Validate: v}
}

// /api/companies
func (h *CompanyHandler) Companies(w http.ResponseWriter, r *http.Request) {
	switch r.Method {

	// lista filtrada pela query string e paginada (skip, limit)
	case http.MethodGet:
		limit, skip := pagination(r)
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		list, err := h.Store.ListCompanies(ctx)
		if err != nil {
			internalError(w, err)
			return
		}
		list = filter.Apply(list, filter.FromQuery(r.URL.Query()))
		utils.WriteJSON(w, http.StatusOK, page(list, limit, skip))

	// upsert pelo CNPJ
	case http.MethodPost:
		var dto CompanyDTO
		if err := utils.DecodeStrict(r.Body, &dto); err != nil {
			utils.BadRequest(w, utils.DecodeError(err))
			return
		}
		if err := h.Validate.Struct(dto); err != nil {
			utils.BadRequest(w, validationMessage(err))
			return
		}
		c := dto.toModel()

		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()
		saved, err := h.Store.UpsertCompany(ctx, &c)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateCNPJ) {
				writeError(w, http.StatusConflict, "cnpj already exists")
				return
			}
			internalError(w, err)
			return
		}

		code := http.StatusOK
		if saved.CreatedAt.Equal(saved.UpdatedAt) {
			code = http.StatusCreated
		}
		h.Events.Notify(ctx, events.Event{
			Acao: events.ActionUpsert, Entidade: events.EntityCompany,
			ID: saved.ID, EmpresaID: saved.ID, Nome: saved.DisplayName(),
			Mensagem: fmt.Sprintf("Empresa %s salva", saved.DisplayName()),
		})
		utils.WriteJSON(w, code, saved)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// /api/companies/{id} e /api/companies/cnpj/{cnpj}
func (h *CompanyHandler) CompanyByID(w http.ResponseWriter, r *http.Request) {
	parts := pathAfter(r.URL.Path, "/api/companies")
	switch {
	case len(parts) >= 2 && parts[0] == "cnpj":
		// CNPJ formatado traz uma "/" e chega partido em dois segmentos
		h.byTaxID(w, r, strings.Join(parts[1:], "/"))
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
		c, err := h.Store.GetCompanyByID(ctx, id)
		if err != nil {
			internalError(w, err)
			return
		}
		if c == nil {
			notFound(w)
			return
		}
		utils.WriteJSON(w, http.StatusOK, c)

	case http.MethodDelete:
		ctx, cancel := requestCtx(r, h.Timeout)
		defer cancel()

		// busca antes de deletar para o nome no evento
		c, err := h.Store.GetCompanyByID(ctx, id)
		if err != nil {
			internalError(w, err)
			return
		}
		if c == nil {
			notFound(w)
			return
		}
		if _, err := h.Store.DeleteCompany(ctx, id); err != nil {
			internalError(w, err)
			return
		}
		h.Events.Notify(ctx, events.Event{
			Acao: events.ActionDelete, Entidade: events.EntityCompany,
			ID: c.ID, EmpresaID: c.ID, Nome: c.DisplayName(),
			Mensagem: fmt.Sprintf("Empresa %s excluída", c.DisplayName()),
		})
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *CompanyHandler) byTaxID(w http.ResponseWriter, r *http.Request, cnpj string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !utils.ValidateCNPJ(cnpj) {
		utils.BadRequest(w, "invalid cnpj")
		return
	}
	ctx, cancel := requestCtx(r, h.Timeout)
	defer cancel()
	c, err := h.Store.GetCompanyByTaxID(ctx, cnpj)
	if err != nil {
		internalError(w, err)
		return
	}
	if c == nil {
		notFound(w)
		return
	}
	utils.WriteJSON(w, http.StatusOK, c)
}
