package checkout

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"falcon-storefront/internal/domain"
	"falcon-storefront/internal/mail"
	"falcon-storefront/internal/pricing"
)

var (
	// ErrUnauthenticated is returned when checkout is attempted without an
	// identity. No side effect happens in that case.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrCheckoutFailed is the generic failure surfaced for any persistence
	// problem. The cart stays untouched.
	ErrCheckoutFailed = errors.New("failed to process order, try again")
)

const (
	deliveryLeadTime   = 5 * 24 * time.Hour
	orderNumberRetries = 5
)

// Identity is the authenticated caller placing the order.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Input carries the checkout form data.
type Input struct {
	ShippingAddress domain.ShippingAddress
	PaymentMethod   string
}

// Service turns the current cart snapshot into a persisted order.
type Service struct {
	orders orderRepo
	carts  cartService
	mailer mail.Sender
	logger *log.Logger
	now    func() time.Time
}

type orderRepo interface {
	Create(ctx context.Context, o domain.Order) (*domain.Order, error)
}

type cartService interface {
	Get(ctx context.Context, ownerID string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, ownerID string) (domain.CartSnapshot, error)
}

func New(orders orderRepo, carts cartService, mailer mail.Sender, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		orders: orders,
		carts:  carts,
		mailer: mailer,
		logger: logger,
		now:    time.Now,
	}
}

// Submit places an order from the caller's current cart and returns the
// generated order number. On success the cart is cleared; on failure it is
// left as it was. An empty cart still produces a zero-item order.
func (s *Service) Submit(ctx context.Context, id Identity, in Input) (string, error) {
	if id.UserID == "" || id.Email == "" {
		return "", ErrUnauthenticated
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return "", fmt.Errorf("unknown payment method %q", in.PaymentMethod)
	}

	snap, err := s.carts.Get(ctx, id.UserID)
	if err != nil {
		s.logger.Printf("checkout: load cart user=%s error=%v", id.UserID, err)
		return "", ErrCheckoutFailed
	}

	totals := pricing.Compute(snap.Total)
	now := s.now().UTC()
	delivery := now.Add(deliveryLeadTime)

	order := domain.Order{
		UserID:          id.UserID,
		Status:          domain.OrderStatusConfirmed,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Shipping:        totals.Shipping,
		Total:           totals.Total,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		EstimatedDelivery: time.Date(
			delivery.Year(), delivery.Month(), delivery.Day(), 0, 0, 0, 0, time.UTC,
		),
	}
	for _, line := range snap.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:     line.ProductID,
			ProductName:   line.ProductName,
			ProductImage:  line.ProductImage,
			Price:         line.Price,
			Quantity:      line.Quantity,
			SelectedColor: line.SelectedColor,
			SelectedSize:  line.SelectedSize,
		})
	}

	// The order number is random; the orders table enforces uniqueness, so
	// regenerate on a collision.
	var stored *domain.Order
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		order.OrderNumber = newOrderNumber()
		stored, err = s.orders.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			s.logger.Printf("checkout: persist order user=%s error=%v", id.UserID, err)
			return "", ErrCheckoutFailed
		}
	}
	if stored == nil {
		s.logger.Printf("checkout: exhausted order number attempts user=%s", id.UserID)
		return "", ErrCheckoutFailed
	}

	if _, err := s.carts.Clear(ctx, id.UserID); err != nil {
		// The order is placed; a stale cart is an inconvenience, not a
		// failure.
		s.logger.Printf("checkout: clear cart user=%s error=%v", id.UserID, err)
	}

	if err := s.mailer.SendOrderConfirmation(ctx, id.Email, id.Name, *stored); err != nil {
		s.logger.Printf("checkout: confirmation mail user=%s error=%v", id.UserID, err)
	}

	return stored.OrderNumber, nil
}

// newOrderNumber returns "FL" followed by 6 random digits.
func newOrderNumber() string {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return fmt.Sprintf("FL%06d", time.Now().UnixNano()%1000000)
	}
	n := binary.BigEndian.Uint32(buf[:]) % 1000000
	return fmt.Sprintf("FL%06d", n)
}
