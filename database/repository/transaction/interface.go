package transactionRepo

import (
	"context"
	"errors"
	"time"

	"venuebook/database"
	"venuebook/models"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrAlreadyClosed = errors.New("transaction already closed")
	ErrActiveExists  = errors.New("booking already has an active transaction")
)

// TransactionRepository owns payment transaction records. Close is the only
// mutation and is one-shot by construction. A booking holds at most one
// PENDING transaction at a time, backed by a partial unique index.
type TransactionRepository interface {
	// Insert opens a transaction; ErrActiveExists when the booking already
	// has a PENDING one.
	Insert(ctx context.Context, tx *models.Transaction) error
	GetByRef(ctx context.Context, ref string) (*models.Transaction, error)

	// FindActiveByBooking returns the booking's PENDING transaction, or
	// ErrNotFound when none is open.
	FindActiveByBooking(ctx context.Context, bookingID string) (*models.Transaction, error)

	// Close terminates a PENDING transaction as PAID or FAILED. The update is
	// a conditional write on status=PENDING; a transaction that has already
	// terminated returns ErrAlreadyClosed, never a second transition.
	Close(ctx context.Context, ref string, status models.TransactionStatus, gatewayRef string) (*models.Transaction, error)

	// FindStalePending lists PENDING transactions created before the cutoff,
	// for the reconciliation sweep.
	FindStalePending(ctx context.Context, before time.Time) ([]models.Transaction, error)
}

type mongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo constructs the MongoDB-backed TransactionRepository.
func NewMongoTransactionRepo() TransactionRepository {
	repo := &mongoTransactionRepo{
		coll: database.DB().Collection("transactions"),
	}
	repo.ensureIndexes(context.Background())
	return repo
}
