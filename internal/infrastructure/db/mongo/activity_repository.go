package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/capitalcare/care-console/internal/core/domain"
)

const activityCollection = "activity_log"

// ActivityRepository persists the admin activity trail.
type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(activityCollection)}
}

type activityDoc struct {
	ID         string `bson:"_id"`
	Actor      string `bson:"actor"`
	Role       string `bson:"role"`
	Action     string `bson:"action"`
	Resource   string `bson:"resource,omitempty"`
	ResourceID int64  `bson:"resource_id,omitempty"`
	At         int64  `bson:"at"`
}

func (r *ActivityRepository) Insert(ctx context.Context, entry domain.ActivityEntry) error {
	doc := activityDoc{
		ID:         entry.ID,
		Actor:      entry.Actor,
		Role:       entry.Role,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		At:         entry.At.Unix(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent returns the newest entries first.
func (r *ActivityRepository) Recent(ctx context.Context, limit int) ([]domain.ActivityEntry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find activity: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []activityDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode activity: %w", err)
	}

	entries := make([]domain.ActivityEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, domain.ActivityEntry{
			ID:         d.ID,
			Actor:      d.Actor,
			Role:       d.Role,
			Action:     d.Action,
			Resource:   d.Resource,
			ResourceID: d.ResourceID,
			At:         time.Unix(d.At, 0).UTC(),
		})
	}
	return entries, nil
}
