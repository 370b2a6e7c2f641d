package bookingRepo

import (
	"context"
	"fmt"

	"venuebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func (repo *mongoBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	if _, err := repo.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (repo *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *mongoBookingRepo) GetByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	cursor, err := repo.coll.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (repo *mongoBookingRepo) GetByVenueAndDate(ctx context.Context, venueID, date string) ([]models.Booking, error) {
	cursor, err := repo.coll.Find(ctx, bson.M{"venue_id": venueID, "date": date})
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings for venue %s on %s: %w", venueID, date, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// CountOverlapping uses the standard half-open interval condition:
// existing.start < candidate.end AND existing.end > candidate.start.
// Touching endpoints therefore never count as overlap.
func (repo *mongoBookingRepo) CountOverlapping(ctx context.Context, venueID, date string, start, end int, payment models.PaymentStatus, excludeID string) (int64, error) {
	filter := bson.M{
		"venue_id":       venueID,
		"date":           date,
		"payment_status": payment,
		"start":          bson.M{"$lt": end},
		"end":            bson.M{"$gt": start},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	count, err := repo.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count overlapping bookings: %w", err)
	}
	return count, nil
}

func (repo *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus) error {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish "gone" from "moved on" for the caller.
		if _, getErr := repo.GetByID(ctx, id); getErr != nil {
			return getErr
		}
		return ErrInvalidState
	}
	return nil
}
