package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
	"github.com/Werneck0live/pipeline-empresas/internal/utils"
)

var (
	ErrDuplicateCNPJ  = errors.New("cnpj already exists")
	ErrDuplicateEntry = errors.New("duplicate inefficiency entry id")
)

type CompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{coll: db.Collection("companies")}
}

func (r *CompanyRepository) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys: bson.D{{Key: "cnpj", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetName("uniq_cnpj"),
	}
	_, err := r.coll.Indexes().CreateOne(ctx, model)
	if err == nil {
		return nil
	}
	// Se já existir com outra opção, tenta dropar e recriar
	if ce, ok := err.(mongo.CommandError); ok && ce.Code == 85 { // IndexOptionsConflict
		if _, dropErr := r.coll.Indexes().DropOne(ctx, "uniq_cnpj"); dropErr != nil {
			return fmt.Errorf("drop index uniq_cnpj: %w", dropErr)
		}
		_, createErr := r.coll.Indexes().CreateOne(ctx, model)
		return createErr
	}
	return err
}

// UpsertCompany usa o CNPJ como chave de negócio: se já existe, o registro é
// sobrescrito por inteiro (sem merge), mantendo só _id e created_at.
func (r *CompanyRepository) UpsertCompany(ctx context.Context, c *models.Company) (*models.Company, error) {
	rec := *c
	rec.CNPJ = utils.FormatCNPJ(rec.CNPJ)
	rec.WeightedScore = 0
	now := time.Now()

	existing, err := r.GetCompanyByTaxID(ctx, rec.CNPJ)
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

	doc := toCompanyDoc(&rec)
	_, err = r.coll.ReplaceOne(ctx, bson.M{"_id": rec.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateCNPJ
		}
		return nil, err
	}
	return &rec, nil
}

// ListCompanies devolve todas, mais recentes primeiro.
func (r *CompanyRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.Company{}
	for cur.Next(ctx) {
		var d companyDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		list = append(list, fromCompanyDoc(d))
	}
	return list, cur.Err()
}

func (r *CompanyRepository) GetCompanyByID(ctx context.Context, id string) (*models.Company, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetCompanyByTaxID aceita o CNPJ com ou sem pontuação.
func (r *CompanyRepository) GetCompanyByTaxID(ctx context.Context, cnpj string) (*models.Company, error) {
	return r.findOne(ctx, bson.M{"cnpj": utils.FormatCNPJ(cnpj)})
}

func (r *CompanyRepository) findOne(ctx context.Context, filter bson.M) (*models.Company, error) {
	var d companyDoc
	err := r.coll.FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := fromCompanyDoc(d)
	return &c, nil
}

func (r *CompanyRepository) DeleteCompany(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// isDuplicateKey cobre InsertOne (WriteException) e InsertMany (BulkWriteException).
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
