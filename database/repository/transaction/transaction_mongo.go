package transactionRepo

import (
	"context"
	"fmt"
	"time"

	"venuebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ensureIndexes backs the one-active-transaction invariant with a partial
// unique index: only PENDING documents participate, so a booking can settle
// and later hold history rows, but never two open transactions.
func (repo *mongoTransactionRepo) ensureIndexes(ctx context.Context) {
	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"status": models.TransactionPending}),
	})
	if err != nil {
		zap.L().Warn("failed to ensure transactions index", zap.Error(err))
	}
}

func (repo *mongoTransactionRepo) Insert(ctx context.Context, tx *models.Transaction) error {
	if _, err := repo.coll.InsertOne(ctx, tx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrActiveExists
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (repo *mongoTransactionRepo) FindActiveByBooking(ctx context.Context, bookingID string) (*models.Transaction, error) {
	var tx models.Transaction
	err := repo.coll.FindOne(ctx, bson.M{
		"booking_id": bookingID,
		"status":     models.TransactionPending,
	}).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active transaction for booking %s: %w", bookingID, err)
	}
	return &tx, nil
}

func (repo *mongoTransactionRepo) GetByRef(ctx context.Context, ref string) (*models.Transaction, error) {
	var tx models.Transaction
	err := repo.coll.FindOne(ctx, bson.M{"ref": ref}).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", ref, err)
	}
	return &tx, nil
}

func (repo *mongoTransactionRepo) Close(ctx context.Context, ref string, status models.TransactionStatus, gatewayRef string) (*models.Transaction, error) {
	if !status.Terminal() {
		return nil, fmt.Errorf("cannot close transaction %s with non-terminal status %s", ref, status)
	}

	set := bson.M{"status": status}
	if gatewayRef != "" {
		set["gateway_ref"] = gatewayRef
	}

	var tx models.Transaction
	err := repo.coll.FindOneAndUpdate(ctx,
		bson.M{"ref": ref, "status": models.TransactionPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		// Either the ref is unknown or the transaction has already terminated.
		if _, getErr := repo.GetByRef(ctx, ref); getErr != nil {
			return nil, getErr
		}
		return nil, ErrAlreadyClosed
	}
	if err != nil {
		return nil, fmt.Errorf("failed to close transaction %s: %w", ref, err)
	}
	return &tx, nil
}

func (repo *mongoTransactionRepo) FindStalePending(ctx context.Context, before time.Time) ([]models.Transaction, error) {
	cursor, err := repo.coll.Find(ctx, bson.M{
		"status":     models.TransactionPending,
		"created_at": bson.M{"$lt": before},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query stale pending transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txs, nil
}
