package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Werneck0live/pipeline-empresas/internal/models"
)

type InefficiencyRepository struct {
	logs     *mongo.Collection
	entries  *mongo.Collection
	versions *mongo.Collection
}

func NewInefficiencyRepository(db *mongo.Database) *InefficiencyRepository {
	return &InefficiencyRepository{
		logs:     db.Collection("inefficiency_logs"),
		entries:  db.Collection("inefficiency_entries"),
		versions: db.Collection("inefficiency_versions"),
	}
}

func (r *InefficiencyRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.logs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "empresa_id", Value: 1}},
		Options: options.Index().SetName("idx_empresa"),
	}); err != nil {
		return fmt.Errorf("logs index: %w", err)
	}
	if _, err := r.entries.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "log_id", Value: 1}, {Key: "position", Value: 1}},
		Options: options.Index().SetName("idx_log_position"),
	}); err != nil {
		return fmt.Errorf("entries index: %w", err)
	}
	if _, err := r.versions.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "log_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("idx_log_created"),
	}); err != nil {
		return fmt.Errorf("versions index: %w", err)
	}
	return nil
}

// UpsertInefficiencyLog grava o log e troca o conjunto inteiro de entradas.
// São chamadas separadas: se a troca das entradas falhar o log já foi gravado.
func (r *InefficiencyRepository) UpsertInefficiencyLog(ctx context.Context, l *models.InefficiencyLog) (*models.InefficiencyLog, error) {
	doc, entries := toLogDocs(l)
	// checado antes do DeleteMany para não apagar as entradas atuais
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if seen[e.ID] {
			return nil, fmt.Errorf("log %s entry %s: %w", doc.ID, e.ID, ErrDuplicateEntry)
		}
		seen[e.ID] = true
	}
	if _, err := r.logs.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true)); err != nil {
		return nil, err
	}
	if _, err := r.entries.DeleteMany(ctx, bson.M{"log_id": doc.ID}); err != nil {
		return nil, fmt.Errorf("clear entries of log %s: %w", doc.ID, err)
	}
	if len(entries) > 0 {
		batch := make([]any, 0, len(entries))
		for _, e := range entries {
			batch = append(batch, e)
		}
		if _, err := r.entries.InsertMany(ctx, batch); err != nil {
			if isDuplicateKey(err) {
				return nil, fmt.Errorf("insert entries of log %s: %w", doc.ID, ErrDuplicateEntry)
			}
			return nil, fmt.Errorf("insert entries of log %s: %w", doc.ID, err)
		}
	}
	out := fromLogDocs(doc, entries)
	return &out, nil
}

func (r *InefficiencyRepository) GetLogByID(ctx context.Context, id string) (*models.InefficiencyLog, error) {
	var d logDoc
	err := r.logs.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	byLog, err := r.loadEntries(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	l := fromLogDocs(d, byLog[id])
	return &l, nil
}

// ListLogsByCompany: mais recentes primeiro, entradas carregadas num único $in.
func (r *InefficiencyRepository) ListLogsByCompany(ctx context.Context, companyID string) ([]models.InefficiencyLog, error) {
	cur, err := r.logs.Find(ctx, bson.M{"empresa_id": companyID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []logDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	byLog, err := r.loadEntries(ctx, ids)
	if err != nil {
		return nil, err
	}

	list := make([]models.InefficiencyLog, 0, len(docs))
	for _, d := range docs {
		list = append(list, fromLogDocs(d, byLog[d.ID]))
	}
	return list, nil
}

func (r *InefficiencyRepository) loadEntries(ctx context.Context, logIDs []string) (map[string][]entryDoc, error) {
	out := make(map[string][]entryDoc, len(logIDs))
	if len(logIDs) == 0 {
		return out, nil
	}
	cur, err := r.entries.Find(ctx, bson.M{"log_id": bson.M{"$in": logIDs}},
		options.Find().SetSort(bson.D{{Key: "log_id", Value: 1}, {Key: "position", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var e entryDoc
		if err := cur.Decode(&e); err != nil {
			return nil, err
		}
		out[e.LogID] = append(out[e.LogID], e)
	}
	return out, cur.Err()
}

// DeleteLog apaga o log e, em cascata, entradas e versões.
func (r *InefficiencyRepository) DeleteLog(ctx context.Context, id string) (bool, error) {
	res, err := r.logs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if _, err := r.entries.DeleteMany(ctx, bson.M{"log_id": id}); err != nil {
		return false, fmt.Errorf("delete entries of log %s: %w", id, err)
	}
	if _, err := r.versions.DeleteMany(ctx, bson.M{"log_id": id}); err != nil {
		return false, fmt.Errorf("delete versions of log %s: %w", id, err)
	}
	return res.DeletedCount > 0, nil
}

func (r *InefficiencyRepository) AppendVersion(ctx context.Context, v *models.InefficiencyVersion) (*models.InefficiencyVersion, error) {
	doc := toVersionDoc(v)
	if _, err := r.versions.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	out := fromVersionDoc(doc)
	return &out, nil
}

func (r *InefficiencyRepository) ListVersions(ctx context.Context, logID string) ([]models.InefficiencyVersion, error) {
	cur, err := r.versions.Find(ctx, bson.M{"log_id": logID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	list := []models.InefficiencyVersion{}
	for cur.Next(ctx) {
		var d versionDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		list = append(list, fromVersionDoc(d))
	}
	return list, cur.Err()
}
