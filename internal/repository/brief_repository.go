package repository

import (
	"context"
	"errors"
	"time"

	"campaign-app/brief-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BriefRepository interface {
	Create(ctx context.Context, brief *models.Brief) error
	Update(ctx context.Context, brief *models.Brief) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Brief, error)
	GetAll(ctx context.Context) ([]models.Brief, error)
	GetByStatus(ctx context.Context, status models.WorkflowStatus) ([]models.Brief, error)
	GetRecentlyModified(ctx context.Context, limit int64) ([]models.Brief, error)
	CountByStatus(ctx context.Context, status models.WorkflowStatus) (int64, error)
	CountByServiceLevel(ctx context.Context, level models.ServiceLevel) (int64, error)
	GetTitles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

type briefRepository struct {
	collection *mongo.Collection
}

func NewBriefRepository(db *mongo.Database) BriefRepository {
	return &briefRepository{collection: db.Collection("campaign_briefs")}
}

func (r *briefRepository) Create(ctx context.Context, brief *models.Brief) error {
	brief.ID = primitive.NewObjectID()
	brief.CreatedAt = time.Now()
	brief.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, brief)
	return err
}

func (r *briefRepository) Update(ctx context.Context, brief *models.Brief) error {
	brief.UpdatedAt = time.Now()
	update := bson.M{"$set": brief}
	if brief.Acceptance == nil {
		// $set с omitempty не удаляет поле, убираем явно
		update["$unset"] = bson.M{"acceptance": ""}
	}
	_, err := r.collection.UpdateByID(ctx, brief.ID, update)
	return err
}

func (r *briefRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *briefRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Brief, error) {
	var brief models.Brief
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&brief)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &brief, nil
}

func (r *briefRepository) GetAll(ctx context.Context) ([]models.Brief, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var briefs []models.Brief
	err = cursor.All(ctx, &briefs)
	return briefs, err
}

func (r *briefRepository) GetByStatus(ctx context.Context, status models.WorkflowStatus) ([]models.Brief, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"workflow_status": status})
	if err != nil {
		return nil, err
	}
	var briefs []models.Brief
	err = cursor.All(ctx, &briefs)
	return briefs, err
}

func (r *briefRepository) GetRecentlyModified(ctx context.Context, limit int64) ([]models.Brief, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var briefs []models.Brief
	err = cursor.All(ctx, &briefs)
	return briefs, err
}

func (r *briefRepository) CountByStatus(ctx context.Context, status models.WorkflowStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"workflow_status": status})
}

func (r *briefRepository) CountByServiceLevel(ctx context.Context, level models.ServiceLevel) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"service_level": level})
}

func (r *briefRepository) GetTitles(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	titles := make(map[primitive.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}
	opts := options.Find().SetProjection(bson.M{"title": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	var briefs []models.Brief
	if err := cursor.All(ctx, &briefs); err != nil {
		return nil, err
	}
	for _, b := range briefs {
		titles[b.ID] = b.Title
	}
	return titles, nil
}
