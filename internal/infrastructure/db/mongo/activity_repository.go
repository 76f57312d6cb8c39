package mongo

import (
	"context"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/nebsit/hr-gateway/internal/core/domain"
)

const activityCollection = "activity_log"

// ActivityRepository implements ports.ActivityRepository using MongoDB.
type ActivityRepository struct {
	db *mongo.Database
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// EnsureIndexes creates the lookup indexes of the audit collection.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(activityCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "occurred_at", Value: -1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

// Insert persists an entry to the activity_log collection. A missing id is
// filled with a random UUID.
func (r *ActivityRepository) Insert(ctx context.Context, a *domain.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.OccurredAt = a.OccurredAt.UTC()
	_, err := r.db.Collection(activityCollection).InsertOne(ctx, a)
	return err
}
