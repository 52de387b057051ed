// Package localstore é o armazenamento local de reserva: uma tabela chave-valor
// em SQLite com o JSON de cada registro, agrupado por família.
package localstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

const (
	familyCompanies = "companies"
	familyDDItems   = "due_diligence_items"
	familyLogs      = "inefficiency_logs"
	familyVersions  = "inefficiency_versions"
)

// record: Ref indexa a busca secundária de cada família
// (CNPJ da empresa, empresa do item/log, log da versão).
type record struct {
	Family  string    `gorm:"primaryKey;size:32"`
	ID      string    `gorm:"primaryKey;size:64"`
	Ref     string    `gorm:"index;size:64"`
	Payload string    `gorm:"type:text;not null"`
	Created time.Time `gorm:"column:created;index"`
	Updated time.Time `gorm:"column:updated"`
}

func (record) TableName() string { return "local_records" }

type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// New migra a tabela e devolve o store pronto.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("migrate local_records: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) put(ctx context.Context, family, id, ref string, created, updated time.Time, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	rec := record{Family: family, ID: id, Ref: ref, Payload: string(b), Created: created, Updated: updated}
	return s.db.WithContext(ctx).Save(&rec).Error
}

func (s *Store) get(ctx context.Context, family, id string, dst any) (bool, error) {
	var rec record
	err := s.db.WithContext(ctx).Where("family = ? AND id = ?", family, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(rec.Payload), dst)
}

func (s *Store) findByRef(ctx context.Context, family, ref string, dst any) (bool, error) {
	var rec record
	err := s.db.WithContext(ctx).Where("family = ? AND ref = ?", family, ref).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal([]byte(rec.Payload), dst)
}

// list: ref vazio traz a família toda.
func (s *Store) list(ctx context.Context, family, ref, order string) ([]record, error) {
	q := s.db.WithContext(ctx).Where("family = ?", family)
	if ref != "" {
		q = q.Where("ref = ?", ref)
	}
	var recs []record
	if err := q.Order(order).Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *Store) del(ctx context.Context, family, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("family = ? AND id = ?", family, id).Delete(&record{})
	return res.RowsAffected > 0, res.Error
}

func decodeAll[T any](recs []record) ([]T, error) {
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		var v T
		if err := json.Unmarshal([]byte(r.Payload), &v); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", r.Family, r.ID, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Companies

func (s *Store) UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	rec := *c
	rec.CNPJ = utils.FormatCNPJ(rec.CNPJ)
	rec.WeightedScore = 0
	now := s.now()

	existing, err := s.GetCompanyByTaxID(ctx, rec.CNPJ)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	} else {
		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	if err := s.put(ctx, familyCompanies, rec.ID, rec.CNPJ, rec.CreatedAt, rec.UpdatedAt, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]models.Company, error) {
	recs, err := s.list(ctx, familyCompanies, "", "created desc")
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Company](recs)
}

func (s *Store) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	var c models.Company
	ok, err := s.get(ctx, familyCompanies, id, &c)
	if !ok || err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error) {
	var c models.Company
	ok, err := s.findByRef(ctx, familyCompanies, utils.FormatCNPJ(cnpj), &c)
	if !ok || err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) DeleteCompany(ctx context.Context, id string) (bool, error) {
	return s.del(ctx, familyCompanies, id)
}

// Due diligence

func (s *Store) UpsertDueDiligenceItem(ctx context.Context, it *models.DueDiligenceItem) (*models.DueDiligenceItem, error) {
	rec := *it
	if err := s.put(ctx, familyDDItems, rec.ID, rec.EmpresaID, rec.CreatedAt, rec.UpdatedAt, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ListDueDiligenceItems(ctx context.Context, f models.DueDiligenceFilter) ([]models.DueDiligenceItem, error) {
	recs, err := s.list(ctx, familyDDItems, f.EmpresaID, "created desc")
	if err != nil {
		return nil, err
	}
	all, err := decodeAll[models.DueDiligenceItem](recs)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for i := range all {
		if f.Match(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}

func (s *Store) GetDueDiligenceItemByID(ctx context.Context, id string) (*models.DueDiligenceItem, error) {
	var it models.DueDiligenceItem
	ok, err := s.get(ctx, familyDDItems, id, &it)
	if !ok || err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *Store) DeleteDueDiligenceItem(ctx context.Context, id string) (bool, error) {
	return s.del(ctx, familyDDItems, id)
}

func (s *Store) UpdateDueDiligenceStatus(ctx context.Context, id string, st models.DDStatus) (*models.DueDiligenceItem, error) {
	return s.patchItem(ctx, id, func(it *models.DueDiligenceItem) { it.Status = st })
}

func (s *Store) UpdateDueDiligenceRisk(ctx context.Context, id string, r models.DDRisk) (*models.DueDiligenceItem, error) {
	return s.patchItem(ctx, id, func(it *models.DueDiligenceItem) { it.Risco = r })
}

func (s *Store) patchItem(ctx context.Context, id string, fn func(*models.DueDiligenceItem)) (*models.DueDiligenceItem, error) {
	it, err := s.GetDueDiligenceItemByID(ctx, id)
	if it == nil || err != nil {
		return nil, err
	}
	fn(it)
	it.UpdatedAt = s.now()
	return s.UpsertDueDiligenceItem(ctx, it)
}

// Inefficiency logs: as entradas vão dentro do JSON do log, então regravar o
// log já troca o conjunto inteiro.

func (s *Store) UpsertInefficiencyLog(ctx context.Context, l *models.InefficiencyLog) (*models.InefficiencyLog, error) {
	rec := *l
	if rec.Entradas == nil {
		rec.Entradas = []models.InefficiencyEntry{}
	}
	if err := s.put(ctx, familyLogs, rec.ID, rec.EmpresaID, rec.CreatedAt, rec.UpdatedAt, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ListLogsByCompany(ctx context.Context, companyID string) ([]models.InefficiencyLog, error) {
	recs, err := s.list(ctx, familyLogs, companyID, "updated desc")
	if err != nil {
		return nil, err
	}
	return decodeAll[models.InefficiencyLog](recs)
}

func (s *Store) GetLogByID(ctx context.Context, id string) (*models.InefficiencyLog, error) {
	var l models.InefficiencyLog
	ok, err := s.get(ctx, familyLogs, id, &l)
	if !ok || err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLog apaga o log e as versões dele numa transação.
func (s *Store) DeleteLog(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("family = ? AND id = ?", familyLogs, id).Delete(&record{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return tx.Where("family = ? AND ref = ?", familyVersions, id).Delete(&record{}).Error
	})
	return deleted, err
}

func (s *Store) AppendVersion(ctx context.Context, v *models.InefficiencyVersion) (*models.InefficiencyVersion, error) {
	rec := *v
	if err := s.put(ctx, familyVersions, rec.ID, rec.LogID, rec.CreatedAt, rec.CreatedAt, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Store) ListVersions(ctx context.Context, logID string) ([]models.InefficiencyVersion, error) {
	recs, err := s.list(ctx, familyVersions, logID, "created desc")
	if err != nil {
		return nil, err
	}
	return decodeAll[models.InefficiencyVersion](recs)
}
