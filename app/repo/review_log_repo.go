package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

const reviewCollection = "achievement_reviews"

// ReviewLogRepository is the append-only audit trail of review decisions.
type ReviewLogRepository interface {
	Record(ctx context.Context, event *model.ReviewEvent) error
	FindByAchievement(ctx context.Context, achievementID uuid.UUID) ([]model.ReviewEvent, error)
}

type ReviewLogRepo struct {
	coll *mongo.Collection
}

func NewReviewLogRepo(db *mongo.Database) *ReviewLogRepo {
	return &ReviewLogRepo{coll: db.Collection(reviewCollection)}
}

// EnsureIndexes creates the lookup index used by FindByAchievement.
func (r *ReviewLogRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "achievementId", Value: 1}, {Key: "occurredAt", Value: 1}},
	})
	return errors.Wrap(err, "reviewlogrepo.EnsureIndexes")
}

func (r *ReviewLogRepo) Record(ctx context.Context, event *model.ReviewEvent) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return errors.Wrap(err, "reviewlogrepo.Record")
	}
	return nil
}

func (r *ReviewLogRepo) FindByAchievement(ctx context.Context, achievementID uuid.UUID) ([]model.ReviewEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"achievementId": achievementID.String()}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "reviewlogrepo.FindByAchievement")
	}
	defer cursor.Close(ctx)

	events := []model.ReviewEvent{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, errors.Wrap(err, "reviewlogrepo.FindByAchievement decode")
	}
	return events, nil
}
