package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Werneck0live/pipeline-empresas/internal/gateway"
)

var _ gateway.Store = (*Store)(nil)

// Store junta os três repositórios Mongo atrás da interface do gateway.
type Store struct {
	*CompanyRepository
	*DueDiligenceRepository
	*InefficiencyRepository
}

func NewStore(db *mongo.Database) *Store {
	return &Store{
		CompanyRepository:      NewCompanyRepository(db),
		DueDiligenceRepository: NewDueDiligenceRepository(db),
		InefficiencyRepository: NewInefficiencyRepository(db),
	}
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	return errors.Join(
		s.CompanyRepository.EnsureIndexes(ctx),
		s.DueDiligenceRepository.EnsureIndexes(ctx),
		s.InefficiencyRepository.EnsureIndexes(ctx),
	)
}
