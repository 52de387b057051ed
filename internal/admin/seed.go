package admin

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

//go:embed seeds/companies.json
var companiesJSON []byte

type CompanySeeder interface {
	GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error)
	UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error)
}

// SeedCompanies é idempotente: cria se não existir; se já existir, ignora
// (não sobrescreve edições feitas depois do seed).
func SeedCompanies(ctx context.Context, store CompanySeeder, log *slog.Logger) error {
	return seed(ctx, store, log, companiesJSON)
}

func seed(ctx context.Context, store CompanySeeder, log *slog.Logger, raw []byte) error {
	var items []models.Company
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("decode seeds: %w", err)
	}

	created := 0
	for i := range items {
		c := items[i]
		if !utils.ValidateCNPJ(c.CNPJ) {
			log.Warn("seed_skip_invalid_cnpj", "raw", c.CNPJ)
			continue
		}
		c.CNPJ = utils.FormatCNPJ(c.CNPJ)

		// timeout curto por item pra não travar
		ictx, cancel := context.WithTimeout(ctx, 3*time.Second)
		existing, err := store.GetCompanyByTaxID(ictx, c.CNPJ)
		if err == nil && existing == nil {
			_, err = store.UpsertCompany(ictx, &c)
		}
		cancel()

		if err != nil {
			return fmt.Errorf("seed %s: %w", c.CNPJ, err)
		}
		if existing != nil {
			log.Info("seed_company_exists", "cnpj", c.CNPJ)
			continue
		}
		created++
		log.Info("seed_company_created", "cnpj", c.CNPJ)
	}

	log.Info("seed_companies_done", "count", len(items), "created", created)
	return nil
}
