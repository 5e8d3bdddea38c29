package repository

import (
	"context"
	"time"

	"campaign-app/brief-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepository interface {
	Insert(ctx context.Context, msg *models.Message) error
	GetByBrief(ctx context.Context, briefID primitive.ObjectID, includeInternal bool) ([]models.Message, error)
	GetRecent(ctx context.Context, limit int64) ([]models.Message, error)
	CountByBrief(ctx context.Context, briefID primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, briefID primitive.ObjectID) (int64, error)
	CountUnreadTotal(ctx context.Context) (int64, error)
	MarkAllRead(ctx context.Context, briefID primitive.ObjectID) error
	DeleteByBrief(ctx context.Context, briefID primitive.ObjectID) error
}

type messageRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{
		collection: db.Collection("brief_messages"),
		counters:   db.Collection("counters"),
	}
}

// nextSeq выдаёт монотонный номер вставки. Timestamps могут совпадать,
// seq гарантирует стабильный порядок сообщений.
func (r *messageRepository) nextSeq(ctx context.Context) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "brief_messages_seq"},
		bson.M{"$inc": bson.M{"value": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Value, nil
}

func (r *messageRepository) Insert(ctx context.Context, msg *models.Message) error {
	seq, err := r.nextSeq(ctx)
	if err != nil {
		return err
	}
	msg.ID = primitive.NewObjectID()
	msg.Seq = seq
	msg.CreatedAt = time.Now()
	_, err = r.collection.InsertOne(ctx, msg)
	return err
}

func (r *messageRepository) GetByBrief(ctx context.Context, briefID primitive.ObjectID, includeInternal bool) ([]models.Message, error) {
	filter := bson.M{"brief_id": briefID}
	if !includeInternal {
		filter["is_internal"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var messages []models.Message
	err = cursor.All(ctx, &messages)
	return messages, err
}

func (r *messageRepository) GetRecent(ctx context.Context, limit int64) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var messages []models.Message
	err = cursor.All(ctx, &messages)
	return messages, err
}

func (r *messageRepository) CountByBrief(ctx context.Context, briefID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"brief_id": briefID})
}

func (r *messageRepository) CountUnread(ctx context.Context, briefID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"brief_id": briefID, "is_read": false})
}

func (r *messageRepository) CountUnreadTotal(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"is_read": false})
}

func (r *messageRepository) MarkAllRead(ctx context.Context, briefID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"brief_id": briefID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	return err
}

func (r *messageRepository) DeleteByBrief(ctx context.Context, briefID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"brief_id": briefID})
	return err
}
