package bookingRepo

import (
	"context"
	"errors"
	"fmt"

	"venuebook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// errReservationMoved signals that the (venue, date) reservation document
// changed under us; the whole claim is retried against fresh state.
var errReservationMoved = errors.New("slot reservation document moved concurrently")

const claimAttempts = 3

// slotEntry is one paid booking's claim inside a slotReservation document.
type slotEntry struct {
	BookingID string `bson:"booking_id"`
	Start     int    `bson:"start"`
	End       int    `bson:"end"`
}

// slotReservation aggregates the paid slots of one venue on one date. Every
// mark-paid writes this document, which is what makes two racing payers for
// the same day actually conflict: snapshot-isolated transactions only abort
// on overlapping write sets, so checking bookings and updating only your own
// booking document would let both racers commit.
type slotReservation struct {
	VenueID string      `bson:"venue_id"`
	Date    string      `bson:"date"`
	Version int64       `bson:"version"`
	Slots   []slotEntry `bson:"slots"`
}

func (repo *mongoBookingRepo) ensureIndexes(ctx context.Context) {
	_, err := repo.reservations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "venue_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		zap.L().Warn("failed to ensure slot_reservations index", zap.Error(err))
	}
}

// MarkPaidIfSlotFree claims the booking's slot in the shared per-(venue, date)
// reservation document and flips the booking to APPROVED/PAID, both inside one
// Mongo transaction. Racing payers write the same reservation document, so the
// loser's transaction aborts, retries against the winner's committed claim and
// surfaces ErrSlotConflict.
func (repo *mongoBookingRepo) MarkPaidIfSlotFree(ctx context.Context, bookingID, transactionRef string) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) (interface{}, error) {
		var booking models.Booking
		err := repo.coll.FindOne(sc, bson.M{"id": bookingID}).Decode(&booking)
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
		}

		if booking.Status == models.BookingApproved && booking.PaymentStatus == models.PaymentPaid {
			// Duplicate callbacks for the settling transaction land here; a
			// different transaction must not ride on someone else's payment.
			if booking.TransactionRef == transactionRef {
				return nil, nil
			}
			return nil, ErrAlreadyPaid
		}
		if booking.Status != models.BookingPending || booking.PaymentStatus != models.PaymentPending {
			return nil, ErrInvalidState
		}

		if err := repo.claimSlot(sc, &booking); err != nil {
			return nil, err
		}

		res, err := repo.coll.UpdateOne(sc,
			bson.M{"id": bookingID, "status": models.BookingPending, "payment_status": models.PaymentPending},
			bson.M{"$set": bson.M{
				"status":          models.BookingApproved,
				"payment_status":  models.PaymentPaid,
				"transaction_ref": transactionRef,
			}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to mark booking paid: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrInvalidState
		}
		return nil, nil
	}

	// WithTransaction retries transient write conflicts (the aborted loser of
	// a reservation race); errReservationMoved is our own stale-version signal
	// and gets the same bounded retry.
	for attempt := 1; ; attempt++ {
		_, err = sess.WithTransaction(ctx, txnFn)
		if !errors.Is(err, errReservationMoved) {
			return err
		}
		if attempt == claimAttempts {
			return fmt.Errorf("failed to claim slot for booking %s: %w", bookingID, err)
		}
	}
}

// claimSlot records the booking in the (venue, date) reservation document
// after checking it against the claims already there. Version-guarded so a
// concurrent writer either collides inside the transaction or fails the
// conditional update.
func (repo *mongoBookingRepo) claimSlot(sc mongo.SessionContext, booking *models.Booking) error {
	entry := slotEntry{BookingID: booking.ID, Start: booking.Start, End: booking.End}
	filter := bson.M{"venue_id": booking.VenueID, "date": booking.Date}

	var reservation slotReservation
	err := repo.reservations.FindOne(sc, filter).Decode(&reservation)
	if err == mongo.ErrNoDocuments {
		_, err := repo.reservations.InsertOne(sc, slotReservation{
			VenueID: booking.VenueID,
			Date:    booking.Date,
			Version: 1,
			Slots:   []slotEntry{entry},
		})
		if mongo.IsDuplicateKeyError(err) {
			return errReservationMoved
		}
		if err != nil {
			return fmt.Errorf("failed to create slot reservation: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fetch slot reservation: %w", err)
	}

	for _, s := range reservation.Slots {
		if s.BookingID == booking.ID {
			continue
		}
		if s.Start < booking.End && s.End > booking.Start {
			return ErrSlotConflict
		}
	}

	res, err := repo.reservations.UpdateOne(sc,
		bson.M{"venue_id": booking.VenueID, "date": booking.Date, "version": reservation.Version},
		bson.M{"$push": bson.M{"slots": entry}, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to update slot reservation: %w", err)
	}
	if res.MatchedCount == 0 {
		return errReservationMoved
	}
	return nil
}
