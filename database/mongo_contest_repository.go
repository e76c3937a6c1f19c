package database

import (
	"context"
	"fmt"
	"time"

	"mlb-streak-go/logging"
	"mlb-streak-go/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContestRepository persists the daily contest catalog. Contest rows are
// insert-only (never overwritten, never deleted) and results are recorded
// with a guarded write-once update.
type MongoContestRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoContestRepository(db *MongoDB) *MongoContestRepository {
	collection := db.GetCollection("contests")
	logger := logging.WithPrefix("mongo_contest_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on contests collection: %v", err)
	}

	return &MongoContestRepository{
		collection: collection,
		logger:     logger,
	}
}

// Upsert inserts the contest if its ID is unknown and is a no-op otherwise.
// An existing row keeps its recorded result and start time.
func (r *MongoContestRepository) Upsert(ctx context.Context, contest *models.Contest) error {
	filter := bson.M{"id": contest.ID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"id":        contest.ID,
			"away":      contest.Away,
			"home":      contest.Home,
			"startTime": contest.StartTime,
			"result":    nil,
			"createdAt": time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	result, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert contest %s: %w", contest.ID, err)
	}

	if result.UpsertedCount > 0 {
		r.logger.Debugf("Inserted contest %s: %s at %s", contest.ID, contest.Away, contest.Home)
	}
	return nil
}

// FindByID returns the contest with the given provider ID.
func (r *MongoContestRepository) FindByID(ctx context.Context, contestID string) (*models.Contest, error) {
	var contest models.Contest
	err := r.collection.FindOne(ctx, bson.M{"id": contestID}).Decode(&contest)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrContestNotFound
		}
		return nil, fmt.Errorf("failed to find contest %s: %w", contestID, err)
	}

	return &contest, nil
}

// ListForDay returns a snapshot of all contests starting on the given
// calendar date in the reference timezone, earliest first.
func (r *MongoContestRepository) ListForDay(ctx context.Context, day time.Time, loc *time.Location) ([]*models.Contest, error) {
	local := day.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)

	filter := bson.M{"startTime": bson.M{"$gte": start, "$lt": end}}
	sortOptions := options.Find().SetSort(bson.D{
		{Key: "startTime", Value: 1},
		{Key: "home", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, sortOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find contests for %s: %w", start.Format("2006-01-02"), err)
	}
	defer cursor.Close(ctx)

	var contests []*models.Contest
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, fmt.Errorf("failed to decode contests: %w", err)
	}

	return contests, nil
}

// SetResult records the final result for a contest. The update is guarded on
// "result is null" so a rerun of the reconciler (or two concurrent runs)
// can never overwrite an already-recorded result.
func (r *MongoContestRepository) SetResult(ctx context.Context, contestID string, result models.ContestResult) error {
	filter := bson.M{"id": contestID, "result": nil}
	update := bson.M{"$set": bson.M{"result": result}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set result for contest %s: %w", contestID, err)
	}

	if res.MatchedCount == 0 {
		// Either the contest is missing or its result is already recorded.
		if _, err := r.FindByID(ctx, contestID); err != nil {
			return err
		}
		return models.ErrAlreadyResolved
	}

	return nil
}
