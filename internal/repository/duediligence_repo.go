package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

type DueDiligenceRepository struct {
	coll *mongo.Collection
}

func NewDueDiligenceRepository(db *mongo.Database) *DueDiligenceRepository {
	return &DueDiligenceRepository{coll: db.Collection("due_diligence_items")}
}

func (r *DueDiligenceRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "empresa_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_empresa_created"),
	})
	return err
}

// Upsert por _id: o documento inteiro é substituído.
func (r *DueDiligenceRepository) UpsertDueDiligenceItem(ctx context.Context, it *models.DueDiligenceItem) (*models.DueDiligenceItem, error) {
	doc := toDDItemDoc(it)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return nil, err
	}
	out := fromDDItemDoc(doc)
	return &out, nil
}

func (r *DueDiligenceRepository) ListDueDiligenceItems(ctx context.Context, f models.DueDiligenceFilter) ([]models.DueDiligenceItem, error) {
	q := bson.M{}
	if f.EmpresaID != "" {
		q["empresa_id"] = f.EmpresaID
	}
	if f.Categoria != "" {
		q["categoria"] = string(f.Categoria)
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Risco != "" {
		q["risco"] = string(f.Risco)
	}
	cur, err := r.coll.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.DueDiligenceItem{}
	for cur.Next(ctx) {
		var d ddItemDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		list = append(list, fromDDItemDoc(d))
	}
	return list, cur.Err()
}

func (r *DueDiligenceRepository) GetDueDiligenceItemByID(ctx context.Context, id string) (*models.DueDiligenceItem, error) {
	var d ddItemDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	it := fromDDItemDoc(d)
	return &it, nil
}

func (r *DueDiligenceRepository) DeleteDueDiligenceItem(ctx context.Context, id string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *DueDiligenceRepository) UpdateDueDiligenceStatus(ctx context.Context, id string, s models.DDStatus) (*models.DueDiligenceItem, error) {
	return r.setField(ctx, id, "status", string(s))
}

func (r *DueDiligenceRepository) UpdateDueDiligenceRisk(ctx context.Context, id string, risk models.DDRisk) (*models.DueDiligenceItem, error) {
	return r.setField(ctx, id, "risco", string(risk))
}

// setField mexe em um campo só (mais updated_at) e devolve o doc atualizado.
func (r *DueDiligenceRepository) setField(ctx context.Context, id, field, value string) (*models.DueDiligenceItem, error) {
	upd := bson.M{"$set": bson.M{field: value, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d ddItemDoc
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, upd, opts).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	it := fromDDItemDoc(d)
	return &it, nil
}
