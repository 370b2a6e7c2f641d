package booking_test

import (
	"context"
	"sync"
	"time"

	bookingRepo "venuebook/database/repository/booking"
	transactionRepo "venuebook/database/repository/transaction"
	venueRepo "venuebook/database/repository/venue"
	"venuebook/models"
	"venuebook/services/payment"
)

// fakeBookingRepo is an in-memory BookingRepository with the same atomicity
// guarantees as the Mongo implementation: MarkPaidIfSlotFree re-checks the
// slot and flips both statuses under one lock.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
}

func (r *fakeBookingRepo) Insert(_ context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) GetByUser(_ context.Context, userID string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByVenueAndDate(_ context.Context, venueID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.VenueID == venueID && b.Date == date {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountOverlapping(_ context.Context, venueID, date string, start, end int, pay models.PaymentStatus, excludeID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.countOverlappingLocked(venueID, date, start, end, pay, excludeID), nil
}

func (r *fakeBookingRepo) countOverlappingLocked(venueID, date string, start, end int, pay models.PaymentStatus, excludeID string) int64 {
	var n int64
	for _, b := range r.bookings {
		if b.ID == excludeID || b.VenueID != venueID || b.Date != date || b.PaymentStatus != pay {
			continue
		}
		if b.Start < end && b.End > start {
			n++
		}
	}
	return n
}

func (r *fakeBookingRepo) MarkPaidIfSlotFree(_ context.Context, bookingID, transactionRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.Status == models.BookingApproved && b.PaymentStatus == models.PaymentPaid {
		if b.TransactionRef == transactionRef {
			return nil
		}
		return bookingRepo.ErrAlreadyPaid
	}
	if b.Status != models.BookingPending || b.PaymentStatus != models.PaymentPending {
		return bookingRepo.ErrInvalidState
	}
	if r.countOverlappingLocked(b.VenueID, b.Date, b.Start, b.End, models.PaymentPaid, b.ID) > 0 {
		return bookingRepo.ErrSlotConflict
	}
	b.Status = models.BookingApproved
	b.PaymentStatus = models.PaymentPaid
	b.TransactionRef = transactionRef
	return nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, from, to models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return bookingRepo.ErrInvalidState
	}
	b.Status = to
	return nil
}

// fakeTransactionRepo mirrors the one-shot Close semantics.
type fakeTransactionRepo struct {
	mu  sync.Mutex
	txs map[string]*models.Transaction
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{txs: make(map[string]*models.Transaction)}
}

func (r *fakeTransactionRepo) Insert(_ context.Context, tx *models.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.txs {
		if existing.BookingID == tx.BookingID && existing.Status == models.TransactionPending {
			return transactionRepo.ErrActiveExists
		}
	}
	cp := *tx
	r.txs[tx.Ref] = &cp
	return nil
}

func (r *fakeTransactionRepo) FindActiveByBooking(_ context.Context, bookingID string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.BookingID == bookingID && tx.Status == models.TransactionPending {
			cp := *tx
			return &cp, nil
		}
	}
	return nil, transactionRepo.ErrNotFound
}

// seedTransaction writes a transaction directly, bypassing the single-active
// guard, for tests that exercise recovery from historical bad state.
func (r *fakeTransactionRepo) seedTransaction(tx models.Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs[tx.Ref] = &tx
}

func (r *fakeTransactionRepo) GetByRef(_ context.Context, ref string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[ref]
	if !ok {
		return nil, transactionRepo.ErrNotFound
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTransactionRepo) Close(_ context.Context, ref string, status models.TransactionStatus, gatewayRef string) (*models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.txs[ref]
	if !ok {
		return nil, transactionRepo.ErrNotFound
	}
	if tx.Status != models.TransactionPending {
		return nil, transactionRepo.ErrAlreadyClosed
	}
	tx.Status = status
	if gatewayRef != "" {
		tx.GatewayRef = gatewayRef
	}
	cp := *tx
	return &cp, nil
}

func (r *fakeTransactionRepo) FindStalePending(_ context.Context, before time.Time) ([]models.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Transaction
	for _, tx := range r.txs {
		if tx.Status == models.TransactionPending && tx.CreatedAt.Before(before) {
			out = append(out, *tx)
		}
	}
	return out, nil
}

// fakeVenueRepo serves a static catalog.
type fakeVenueRepo struct {
	venues map[string]*models.Venue
}

func newFakeVenueRepo(venues ...*models.Venue) *fakeVenueRepo {
	m := make(map[string]*models.Venue, len(venues))
	for _, v := range venues {
		m[v.ID] = v
	}
	return &fakeVenueRepo{venues: m}
}

func (r *fakeVenueRepo) GetByID(_ context.Context, id string) (*models.Venue, error) {
	v, ok := r.venues[id]
	if !ok {
		return nil, venueRepo.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

// fakeGateway returns a scripted status per transaction ref and counts calls.
type fakeGateway struct {
	mu      sync.Mutex
	results map[string]*payment.StatusResult
	err     error
	calls   int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{results: make(map[string]*payment.StatusResult)}
}

func (g *fakeGateway) CheckStatus(_ context.Context, ref string, _ models.Money) (*payment.StatusResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	if res, ok := g.results[ref]; ok {
		return res, nil
	}
	return &payment.StatusResult{Status: payment.StatusNotFound}, nil
}

func (g *fakeGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeNotifier records published events.
type fakeNotifier struct {
	mu     sync.Mutex
	events []models.BookingEvent
	err    error
}

func (n *fakeNotifier) PublishBookingEvent(_ context.Context, event models.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, event)
	return nil
}

func (n *fakeNotifier) eventsOfType(t string) []models.BookingEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.BookingEvent
	for _, e := range n.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
