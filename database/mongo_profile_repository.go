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

// MongoProfileRepository persists user profiles. Every pick mutation is a
// single-document update so the pick fields always change together, and the
// result-application updates are guarded on the contest the pick refers to.
type MongoProfileRepository struct {
	collection *mongo.Collection
	logger     *logging.Logger
}

func NewMongoProfileRepository(db *MongoDB) *MongoProfileRepository {
	collection := db.GetCollection("profiles")
	logger := logging.WithPrefix("mongo_profile_repo")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "streak", Value: -1}, {Key: "createdAt", Value: 1}},
	}

	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		logger.Errorf("Failed to create index on profiles collection: %v", err)
	}

	return &MongoProfileRepository{
		collection: collection,
		logger:     logger,
	}
}

// Create inserts a new profile. A duplicate user ID reports ErrAlreadyRegistered.
func (r *MongoProfileRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = profile.CreatedAt

	if _, err := r.collection.InsertOne(ctx, profile); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create profile %s: %w", profile.UserID, err)
	}

	return nil
}

// FindByID returns the profile for the given user ID.
func (r *MongoProfileRepository) FindByID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotRegistered
		}
		return nil, fmt.Errorf("failed to find profile %s: %w", userID, err)
	}

	return &profile, nil
}

// SetPick records a pick. Both pick fields are written in one document
// update, so readers never observe one without the other.
func (r *MongoProfileRepository) SetPick(ctx context.Context, userID, contestID, pick string) error {
	update := bson.M{"$set": bson.M{
		"currentPick":      pick,
		"currentContestId": contestID,
		"updatedAt":        time.Now(),
	}}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to set pick for %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotRegistered
	}

	return nil
}

// ClearPick nulls both pick fields. The filter requires an active pick, so a
// clear racing with the reconciler is a no-op rather than a partial write.
func (r *MongoProfileRepository) ClearPick(ctx context.Context, userID string) error {
	filter := bson.M{"_id": userID, "currentPick": bson.M{"$ne": nil}}
	update := bson.M{"$set": bson.M{
		"currentPick":      nil,
		"currentContestId": nil,
		"updatedAt":        time.Now(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to clear pick for %s: %w", userID, err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNoActivePick
	}

	return nil
}

// ApplyResult settles a resolved pick: the streak is incremented on a win or
// reset to zero on a loss, and both pick fields are nulled in the same
// document update. The filter pins the pick to the contest being settled, so
// a pick that was already settled (or re-pointed at a newer contest) is left
// alone; the returned bool reports whether the update was applied.
func (r *MongoProfileRepository) ApplyResult(ctx context.Context, userID, contestID string, won bool) (bool, error) {
	filter := bson.M{"_id": userID, "currentContestId": contestID}

	set := bson.M{
		"currentPick":      nil,
		"currentContestId": nil,
		"updatedAt":        time.Now(),
	}

	var update bson.M
	if won {
		update = bson.M{"$set": set, "$inc": bson.M{"streak": 1}}
	} else {
		set["streak"] = 0
		update = bson.M{"$set": set}
	}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to apply result for %s: %w", userID, err)
	}

	return res.MatchedCount > 0, nil
}

// VoidPick clears a pick without touching the streak, used when the contest
// it refers to ended in a draw. Guarded on the contest like ApplyResult.
func (r *MongoProfileRepository) VoidPick(ctx context.Context, userID, contestID string) (bool, error) {
	filter := bson.M{"_id": userID, "currentContestId": contestID}
	update := bson.M{"$set": bson.M{
		"currentPick":      nil,
		"currentContestId": nil,
		"updatedAt":        time.Now(),
	}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to void pick for %s: %w", userID, err)
	}

	return res.MatchedCount > 0, nil
}

// ListWithActivePick returns all profiles carrying an unresolved pick.
func (r *MongoProfileRepository) ListWithActivePick(ctx context.Context) ([]*models.UserProfile, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"currentContestId": bson.M{"$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles with active picks: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.UserProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	return profiles, nil
}

// ListAll returns every profile in registration order (oldest first).
func (r *MongoProfileRepository) ListAll(ctx context.Context) ([]*models.UserProfile, error) {
	sortOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, sortOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to find profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var profiles []*models.UserProfile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}

	return profiles, nil
}
