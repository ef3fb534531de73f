package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Vovarama1992/mediameta/internal/models"
	"github.com/Vovarama1992/mediameta/internal/ports"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoMediaRepo struct {
	coll *mongo.Collection
}

// NewMongoMediaRepo binds the repository to coll and declares the unique
// media_id index plus a lookup index on mobile_number.
func NewMongoMediaRepo(ctx context.Context, coll *mongo.Collection) (ports.MediaRepository, error) {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "media_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("media_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "mobile_number", Value: 1}},
			Options: options.Index().SetName("mobile_number"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create media indexes: %w", err)
	}
	return &MongoMediaRepo{coll: coll}, nil
}

func mongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", ports.ErrUniqueViolation, err)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ports.ErrRecordNotFound
	}
	return err
}

// BSON dates carry millisecond precision.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *MongoMediaRepo) InsertMedia(ctx context.Context, media *models.MediaRecord) (*models.MediaRecord, error) {
	if err := media.Validate(); err != nil {
		return nil, fmt.Errorf("insert media: %w", err)
	}

	doc := *media
	doc.ID = uuid.NewString()
	doc.CreatedAt = mongoNow()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert media: %w", mongoError(err))
	}

	*media = doc
	return media, nil
}

func (r *MongoMediaRepo) FindByMobileNumber(ctx context.Context, mobileNumber string) ([]models.MediaRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cur, err := r.coll.Find(ctx, bson.M{"mobile_number": mobileNumber}, opts)
	if err != nil {
		return nil, fmt.Errorf("find media by mobile number: %w", err)
	}

	records := []models.MediaRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("decode media: %w", err)
	}
	return records, nil
}

func (r *MongoMediaRepo) FindByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	var m models.MediaRecord
	if err := r.coll.FindOne(ctx, bson.M{"media_id": mediaID}).Decode(&m); err != nil {
		return nil, fmt.Errorf("find media by media id: %w", mongoError(err))
	}
	return &m, nil
}

// UpdateByMobileNumber refuses to touch an owner holding several records,
// since they cannot all take one unique media_id and UpdateMany would change
// the first before the index rejects the rest. The count and the write are
// separate calls.
func (r *MongoMediaRepo) UpdateByMobileNumber(ctx context.Context, mobileNumber, mediaID, filename string) (int64, error) {
	filter := bson.M{"mobile_number": mobileNumber}

	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count owner media: %w", err)
	}
	if n == 0 {
		return 0, nil
	}
	if n > 1 {
		return 0, fmt.Errorf("update media: %w: %d records would share %s", ports.ErrUniqueViolation, n, mediaID)
	}

	update := bson.M{"$set": bson.M{
		"media_id":   mediaID,
		"filename":   filename,
		"updated_at": mongoNow(),
	}}

	res, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("update media: %w", mongoError(err))
	}
	return res.MatchedCount, nil
}

func (r *MongoMediaRepo) DeleteByMediaID(ctx context.Context, mediaID string) (*models.MediaRecord, error) {
	var m models.MediaRecord
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"media_id": mediaID}).Decode(&m); err != nil {
		return nil, fmt.Errorf("delete media: %w", mongoError(err))
	}
	return &m, nil
}
