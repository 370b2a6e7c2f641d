package userRepo

import (
	"context"
	"errors"

	"venuebook/database"
	"venuebook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var ErrNotFound = errors.New("user not found")

// UserRepository is the narrow identity view the core needs: principal lookup
// for authorization and the notification inbox the worker writes to.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	AppendNotification(ctx context.Context, userID string, n models.Notification) error
}

type mongoUserRepo struct {
	coll *mongo.Collection
}

// NewMongoUserRepo constructs the MongoDB-backed UserRepository.
func NewMongoUserRepo() UserRepository {
	return &mongoUserRepo{
		coll: database.DB().Collection("users"),
	}
}
