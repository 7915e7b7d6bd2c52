package order

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"

	"falcon-storefront/internal/domain"
	orderrepo "falcon-storefront/internal/repository/order"
)

var (
	// ErrForbidden indicates the order belongs to a different user.
	ErrForbidden = errors.New("order belongs to another user")
	// ErrBadTransition indicates a status change the lifecycle does not
	// allow, e.g. moving a delivered order back to processing.
	ErrBadTransition = errors.New("invalid status transition")
)

// statusRank orders the lifecycle; transitions only move forward.
// Cancellation is allowed from any non-terminal status.
var statusRank = map[string]int{
	domain.OrderStatusPending:    0,
	domain.OrderStatusConfirmed:  1,
	domain.OrderStatusProcessing: 2,
	domain.OrderStatusShipped:    3,
	domain.OrderStatusDelivered:  4,
}

type Service struct {
	repo   orderrepo.Repository
	logger *log.Logger
}

func New(repo orderrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// ListForUser returns the user's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetForUser fetches an order by number and checks ownership.
func (s *Service) GetForUser(ctx context.Context, userID, orderNumber string) (*domain.Order, error) {
	o, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, ErrForbidden
	}
	return o, nil
}

// ListAll returns every order for the back office.
func (s *Service) ListAll(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// UpdateStatus advances an order through its lifecycle. Moving to shipped
// assigns a tracking number if the order does not have one yet.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateTransition(current.Status, status); err != nil {
		return nil, err
	}

	var tracking *string
	if status == domain.OrderStatusShipped && current.TrackingNumber == nil {
		tn := newTrackingNumber()
		tracking = &tn
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status, tracking)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("order: status order=%s %s -> %s", updated.OrderNumber, current.Status, status)
	return updated, nil
}

func validateTransition(from, to string) error {
	if from == to {
		return nil
	}
	if from == domain.OrderStatusDelivered || from == domain.OrderStatusCancelled {
		return fmt.Errorf("%w: order already %s", ErrBadTransition, from)
	}
	if to == domain.OrderStatusCancelled {
		return nil
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrBadTransition, from)
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("%w: unknown status %q", ErrBadTransition, to)
	}
	if toRank < fromRank {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, from, to)
	}
	return nil
}

const trackingAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func newTrackingNumber() string {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	for i, b := range buf {
		buf[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}
	return "TRK" + string(buf)
}
