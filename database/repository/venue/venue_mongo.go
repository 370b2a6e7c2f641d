package venueRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"venuebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const venueCacheTTL = 5 * time.Minute

func venueCacheKey(id string) string {
	return "venue:" + id
}

func (repo *mongoVenueRepo) GetByID(ctx context.Context, id string) (*models.Venue, error) {
	if repo.cache != nil {
		if data, err := repo.cache.Get(ctx, venueCacheKey(id)).Result(); err == nil {
			var venue models.Venue
			if err := json.Unmarshal([]byte(data), &venue); err == nil {
				return &venue, nil
			}
			// Corrupt cache entry; fall through to the database.
			repo.cache.Del(ctx, venueCacheKey(id))
		}
	}

	var venue models.Venue
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch venue %s: %w", id, err)
	}

	if repo.cache != nil {
		if data, err := json.Marshal(venue); err == nil {
			if err := repo.cache.Set(ctx, venueCacheKey(id), data, venueCacheTTL).Err(); err != nil {
				zap.L().Warn("failed to cache venue", zap.String("venue", id), zap.Error(err))
			}
		}
	}
	return &venue, nil
}
