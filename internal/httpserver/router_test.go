package httpserver

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"falcon-storefront/internal/domain"
	productrepo "falcon-storefront/internal/repository/product"
	checkoutsvc "falcon-storefront/internal/service/checkout"
	customersvc "falcon-storefront/internal/service/customer"
)

func logDiscard() *log.Logger {
	return log.New(io.Discard, "", 0)
}

var testOrigins = []string{"http://localhost:5173"}

type stubProductService struct {
	products []domain.Product
	product  *domain.Product
	err      error
}

func (s *stubProductService) List(_ context.Context, _ productrepo.Filter) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(_ context.Context, _ string) (*domain.Product, error) {
	if s.product == nil && s.err == nil {
		return nil, domain.ErrNotFound
	}
	return s.product, s.err
}

func (s *stubProductService) Search(_ context.Context, _ string) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Save(_ context.Context, p domain.Product) (*domain.Product, error) {
	return &p, s.err
}

func (s *stubProductService) SetInStock(_ context.Context, _ string, _ bool) error  { return s.err }
func (s *stubProductService) SetFeatured(_ context.Context, _ string, _ bool) error { return s.err }
func (s *stubProductService) Delete(_ context.Context, _ string) error              { return s.err }

type stubCartService struct {
	snapshot domain.CartSnapshot
	err      error
	owners   []string
}

func (s *stubCartService) Get(_ context.Context, ownerID string) (domain.CartSnapshot, error) {
	s.owners = append(s.owners, ownerID)
	return s.snapshot, s.err
}

func (s *stubCartService) Add(_ context.Context, ownerID, _ string, _, _ *string) (domain.CartSnapshot, error) {
	s.owners = append(s.owners, ownerID)
	return s.snapshot, s.err
}

func (s *stubCartService) Remove(_ context.Context, ownerID, _ string) (domain.CartSnapshot, error) {
	s.owners = append(s.owners, ownerID)
	return s.snapshot, s.err
}

func (s *stubCartService) SetQuantity(_ context.Context, ownerID, _ string, _ int) (domain.CartSnapshot, error) {
	s.owners = append(s.owners, ownerID)
	return s.snapshot, s.err
}

func (s *stubCartService) UpdateVariant(_ context.Context, ownerID, _ string, _, _ *string) (domain.CartSnapshot, error) {
	s.owners = append(s.owners, ownerID)
	return s.snapshot, s.err
}

func (s *stubCartService) Clear(_ context.Context, ownerID string) (domain.CartSnapshot, error) {
	s.owners = append(s.owners, ownerID)
	return s.snapshot, s.err
}

type stubCheckoutService struct {
	orderNumber string
	err         error
	identity    checkoutsvc.Identity
	input       checkoutsvc.Input
}

func (s *stubCheckoutService) Submit(_ context.Context, id checkoutsvc.Identity, in checkoutsvc.Input) (string, error) {
	s.identity = id
	s.input = in
	return s.orderNumber, s.err
}

type stubOrderService struct {
	orders []domain.Order
	order  *domain.Order
	err    error
}

func (s *stubOrderService) ListForUser(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) GetForUser(_ context.Context, _, _ string) (*domain.Order, error) {
	if s.order == nil && s.err == nil {
		return nil, domain.ErrNotFound
	}
	return s.order, s.err
}

func (s *stubOrderService) ListAll(_ context.Context) ([]domain.Order, error) {
	return s.orders, s.err
}

func (s *stubOrderService) UpdateStatus(_ context.Context, _, status string) (*domain.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	updated := *s.order
	updated.Status = status
	return &updated, nil
}

type stubCustomerService struct {
	user      *domain.User
	lookupErr error
	loginErr  error
	regErr    error
	addresses []domain.Address
}

func (s *stubCustomerService) Register(_ context.Context, _ customersvc.RegisterInput) (*domain.User, error) {
	return s.user, s.regErr
}

func (s *stubCustomerService) Login(_ context.Context, _, _ string) (*domain.User, string, string, error) {
	if s.loginErr != nil {
		return nil, "", "", s.loginErr
	}
	return s.user, "access-token", "refresh-token", nil
}

func (s *stubCustomerService) Logout(_ context.Context, _ string) error { return nil }

func (s *stubCustomerService) LookupByToken(_ context.Context, _ string) (*domain.User, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if s.user == nil {
		return nil, customersvc.ErrInvalidToken
	}
	return s.user, nil
}

func (s *stubCustomerService) UpdateProfile(_ context.Context, _ string, _ customersvc.UpdateInput) (*domain.User, error) {
	return s.user, nil
}

func (s *stubCustomerService) ChangePassword(_ context.Context, _, _, _ string) error { return nil }

func (s *stubCustomerService) RequestPasswordReset(_ context.Context, _ string) error { return nil }

func (s *stubCustomerService) ResetPassword(_ context.Context, _, _ string) error { return nil }

func (s *stubCustomerService) Addresses(_ context.Context, _ string) ([]domain.Address, error) {
	return s.addresses, nil
}

func (s *stubCustomerService) AddAddress(_ context.Context, _ string, _ customersvc.AddressInput) (*domain.Address, error) {
	return &domain.Address{ID: "addr-1"}, nil
}

func (s *stubCustomerService) UpdateAddress(_ context.Context, _, addressID string, _ customersvc.AddressInput) (*domain.Address, error) {
	return &domain.Address{ID: addressID}, nil
}

func (s *stubCustomerService) DeleteAddress(_ context.Context, _, _ string) error { return nil }

func (s *stubCustomerService) AccessTTLSeconds() int { return 3600 }

type stubUserDirectory struct {
	users []domain.User
	err   error
}

func (s *stubUserDirectory) List(_ context.Context) ([]domain.User, error) {
	return s.users, s.err
}

func (s *stubUserDirectory) Delete(_ context.Context, _ string) error { return s.err }

func testDeps() Deps {
	return Deps{
		ProductSvc:  &stubProductService{},
		CartSvc:     &stubCartService{},
		CheckoutSvc: &stubCheckoutService{},
		OrderSvc:    &stubOrderService{},
		CustomerSvc: &stubCustomerService{},
		Users:       &stubUserDirectory{},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(logDiscard(), nil, deps, testOrigins)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestBuildRouter_RejectsMissingDeps(t *testing.T) {
	gin.SetMode(gin.TestMode)
	deps := testDeps()
	deps.CartSvc = nil
	if _, err := buildRouter(logDiscard(), nil, deps, testOrigins); err == nil {
		t.Fatalf("expected error for missing cart service")
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz_NoDB(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestIdentifyUser_InvalidToken(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireUser_Anonymous(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	deps := testDeps()
	deps.CustomerSvc = &stubCustomerService{user: &domain.User{ID: "user-1"}}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	deps := testDeps()
	deps.CustomerSvc = &stubCustomerService{user: &domain.User{ID: "admin-1", IsAdmin: true}}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}
