package checkout

import (
	"context"
	"errors"
	"io"
	"log"
	"regexp"
	"testing"
	"time"

	"falcon-storefront/internal/domain"
)

type stubOrderRepo struct {
	created   []domain.Order
	err       error
	dupesLeft int
}

func (s *stubOrderRepo) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.dupesLeft > 0 {
		s.dupesLeft--
		return nil, domain.ErrAlreadyExists
	}
	o.ID = "order-id"
	s.created = append(s.created, o)
	return &o, nil
}

type stubCartService struct {
	snap     domain.CartSnapshot
	getErr   error
	clearErr error
	cleared  bool
}

func (s *stubCartService) Get(_ context.Context, _ string) (domain.CartSnapshot, error) {
	return s.snap, s.getErr
}

func (s *stubCartService) Clear(_ context.Context, _ string) (domain.CartSnapshot, error) {
	if s.clearErr != nil {
		return domain.CartSnapshot{}, s.clearErr
	}
	s.cleared = true
	s.snap = domain.CartSnapshot{}
	return s.snap, nil
}

type stubMailer struct {
	confirmations int
	err           error
}

func (s *stubMailer) SendOrderConfirmation(_ context.Context, _, _ string, _ domain.Order) error {
	s.confirmations++
	return s.err
}

func (s *stubMailer) SendWelcome(_ context.Context, _, _ string) error { return nil }

func (s *stubMailer) SendPasswordReset(_ context.Context, _, _ string) error { return nil }

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func singleItemCart() domain.CartSnapshot {
	return domain.CartSnapshot{
		Lines: []domain.CartLine{
			{ProductID: "1", ProductName: "Premium Leather iPhone Case", ProductImage: "case.jpg", Price: 1299, Quantity: 1},
		},
		Total:     1299,
		ItemCount: 1,
	}
}

func identity() Identity {
	return Identity{UserID: "user-1", Email: "user@example.com", Name: "Asha Rao"}
}

func shippingInput() Input {
	return Input{
		ShippingAddress: domain.ShippingAddress{
			FirstName: "Asha", LastName: "Rao", Phone: "9876543210",
			Address: "12 MG Road", City: "Bengaluru", State: "Karnataka",
			Pincode: "560001", Country: "India",
		},
		PaymentMethod: domain.PaymentCOD,
	}
}

var orderNumberRe = regexp.MustCompile(`^FL\d{6}$`)

func TestSubmitHappyPath(t *testing.T) {
	repo := &stubOrderRepo{}
	carts := &stubCartService{snap: singleItemCart()}
	mailer := &stubMailer{}
	svc := New(repo, carts, mailer, discardLogger())
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC) }

	number, err := svc.Submit(context.Background(), identity(), shippingInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !orderNumberRe.MatchString(number) {
		t.Fatalf("order number %q does not match FL + 6 digits", number)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one order, got %d", len(repo.created))
	}

	order := repo.created[0]
	if order.Subtotal != 1299 {
		t.Fatalf("subtotal = %d, want 1299", order.Subtotal)
	}
	if order.Tax != 234 {
		t.Fatalf("tax = %d, want 234", order.Tax)
	}
	if order.Shipping != 0 {
		t.Fatalf("shipping = %d, want 0", order.Shipping)
	}
	if order.Total != 1533 {
		t.Fatalf("total = %d, want 1533", order.Total)
	}
	if order.Status != domain.OrderStatusConfirmed {
		t.Fatalf("status = %q, want confirmed", order.Status)
	}
	wantDelivery := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !order.EstimatedDelivery.Equal(wantDelivery) {
		t.Fatalf("estimated delivery = %v, want %v", order.EstimatedDelivery, wantDelivery)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != "1" {
		t.Fatalf("unexpected items: %+v", order.Items)
	}
	if !carts.cleared {
		t.Fatalf("expected cart cleared after success")
	}
	if mailer.confirmations != 1 {
		t.Fatalf("expected one confirmation mail, got %d", mailer.confirmations)
	}
}

func TestSubmitRequiresIdentity(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := New(repo, &stubCartService{snap: singleItemCart()}, &stubMailer{}, discardLogger())

	_, err := svc.Submit(context.Background(), Identity{}, shippingInput())
	if !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no side effects, got %d orders", len(repo.created))
	}
}

func TestSubmitInvalidPaymentMethod(t *testing.T) {
	svc := New(&stubOrderRepo{}, &stubCartService{snap: singleItemCart()}, &stubMailer{}, discardLogger())

	in := shippingInput()
	in.PaymentMethod = "cheque"
	_, err := svc.Submit(context.Background(), identity(), in)
	if err == nil {
		t.Fatal("expected an error for an unknown payment method")
	}
	if errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestSubmitPersistenceFailureKeepsCart(t *testing.T) {
	repo := &stubOrderRepo{err: errors.New("db down")}
	carts := &stubCartService{snap: singleItemCart()}
	svc := New(repo, carts, &stubMailer{}, discardLogger())

	_, err := svc.Submit(context.Background(), identity(), shippingInput())
	if !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
	if carts.cleared {
		t.Fatalf("cart must not be cleared on failure")
	}
}

func TestSubmitRetriesOnDuplicateOrderNumber(t *testing.T) {
	repo := &stubOrderRepo{dupesLeft: 2}
	carts := &stubCartService{snap: singleItemCart()}
	svc := New(repo, carts, &stubMailer{}, discardLogger())

	number, err := svc.Submit(context.Background(), identity(), shippingInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !orderNumberRe.MatchString(number) {
		t.Fatalf("unexpected order number %q", number)
	}
}

func TestSubmitGivesUpAfterRepeatedDuplicates(t *testing.T) {
	repo := &stubOrderRepo{dupesLeft: 100}
	svc := New(repo, &stubCartService{snap: singleItemCart()}, &stubMailer{}, discardLogger())

	_, err := svc.Submit(context.Background(), identity(), shippingInput())
	if !errors.Is(err, ErrCheckoutFailed) {
		t.Fatalf("expected ErrCheckoutFailed, got %v", err)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	repo := &stubOrderRepo{}
	svc := New(repo, &stubCartService{}, &stubMailer{}, discardLogger())

	number, err := svc.Submit(context.Background(), identity(), shippingInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if number == "" {
		t.Fatalf("expected order number")
	}
	order := repo.created[0]
	if len(order.Items) != 0 {
		t.Fatalf("expected zero items, got %d", len(order.Items))
	}
	if order.Subtotal != 0 || order.Tax != 0 || order.Shipping != 49 || order.Total != 49 {
		t.Fatalf("unexpected totals: %+v", order)
	}
}

func TestSubmitMailFailureDoesNotFailOrder(t *testing.T) {
	repo := &stubOrderRepo{}
	mailer := &stubMailer{err: errors.New("smtp down")}
	svc := New(repo, &stubCartService{snap: singleItemCart()}, mailer, discardLogger())

	_, err := svc.Submit(context.Background(), identity(), shippingInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
