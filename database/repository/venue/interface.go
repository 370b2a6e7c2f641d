package venueRepo

import (
	"context"
	"errors"

	"venuebook/database"
	"venuebook/models"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("venue not found")

// VenueRepository is the read-only catalog view the booking core consumes.
// Venue CRUD belongs to the owner-facing surface, not here.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*models.Venue, error)
}

type mongoVenueRepo struct {
	coll  *mongo.Collection
	cache *redis.Client
}

// NewMongoVenueRepo constructs the catalog repository. When cache is non-nil,
// venue documents are cached for a short TTL to keep the hot booking path off
// the database.
func NewMongoVenueRepo(cache *redis.Client) VenueRepository {
	return &mongoVenueRepo{
		coll:  database.DB().Collection("venues"),
		cache: cache,
	}
}
