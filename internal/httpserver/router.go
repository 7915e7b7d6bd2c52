package httpserver

import (
	"context"
	"errors"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"falcon-storefront/internal/domain"
	productrepo "falcon-storefront/internal/repository/product"
	checkoutsvc "falcon-storefront/internal/service/checkout"
	customersvc "falcon-storefront/internal/service/customer"
)

// ProductService is the catalog surface the router needs.
type ProductService interface {
	List(ctx context.Context, f productrepo.Filter) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
	Save(ctx context.Context, p domain.Product) (*domain.Product, error)
	SetInStock(ctx context.Context, id string, inStock bool) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	Delete(ctx context.Context, id string) error
}

// CartService mutates per-owner carts and returns the resulting snapshot.
type CartService interface {
	Get(ctx context.Context, ownerID string) (domain.CartSnapshot, error)
	Add(ctx context.Context, ownerID, productID string, color, size *string) (domain.CartSnapshot, error)
	Remove(ctx context.Context, ownerID, productID string) (domain.CartSnapshot, error)
	SetQuantity(ctx context.Context, ownerID, productID string, quantity int) (domain.CartSnapshot, error)
	UpdateVariant(ctx context.Context, ownerID, productID string, color, size *string) (domain.CartSnapshot, error)
	Clear(ctx context.Context, ownerID string) (domain.CartSnapshot, error)
}

// CheckoutService places orders from the caller's cart.
type CheckoutService interface {
	Submit(ctx context.Context, id checkoutsvc.Identity, in checkoutsvc.Input) (string, error)
}

// OrderService reads order history and drives the back-office lifecycle.
type OrderService interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	GetForUser(ctx context.Context, userID, orderNumber string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
}

// CustomerService covers accounts, sessions and address books.
type CustomerService interface {
	Register(ctx context.Context, in customersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Logout(ctx context.Context, accessToken string) error
	LookupByToken(ctx context.Context, accessToken string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in customersvc.UpdateInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, next string) error
	Addresses(ctx context.Context, userID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, userID string, in customersvc.AddressInput) (*domain.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, in customersvc.AddressInput) (*domain.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	AccessTTLSeconds() int
}

// UserDirectory is the slice of the user repository the admin surface needs.
type UserDirectory interface {
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) error
}

// Deps bundles the services the router dispatches to.
type Deps struct {
	ProductSvc  ProductService
	CartSvc     CartService
	CheckoutSvc CheckoutService
	OrderSvc    OrderService
	CustomerSvc CustomerService
	Users       UserDirectory
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service is required")
	case d.OrderSvc == nil:
		return errors.New("order service is required")
	case d.CustomerSvc == nil:
		return errors.New("customer service is required")
	case d.Users == nil:
		return errors.New("user directory is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = corsOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", sessionHeader)
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	api.Use(identifyUser(deps.CustomerSvc))

	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.GET("/products/:id", getProductHandler(deps.ProductSvc))

	api.GET("/cart", getCartHandler(deps.CartSvc))
	api.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	api.PATCH("/cart/items/:productID", updateCartItemHandler(deps.CartSvc))
	api.DELETE("/cart/items/:productID", removeCartItemHandler(deps.CartSvc))
	api.DELETE("/cart", clearCartHandler(deps.CartSvc))

	api.POST("/auth/register", registerHandler(deps.CustomerSvc))
	api.POST("/auth/login", loginHandler(deps.CustomerSvc))
	api.POST("/auth/forgot-password", forgotPasswordHandler(deps.CustomerSvc))
	api.POST("/auth/reset-password", resetPasswordHandler(deps.CustomerSvc))

	authed := api.Group("")
	authed.Use(requireUser())

	authed.POST("/auth/logout", logoutHandler(deps.CustomerSvc))
	authed.GET("/me", meHandler)
	authed.PATCH("/me", updateProfileHandler(deps.CustomerSvc))
	authed.POST("/me/password", changePasswordHandler(deps.CustomerSvc))
	authed.GET("/me/addresses", listAddressesHandler(deps.CustomerSvc))
	authed.POST("/me/addresses", addAddressHandler(deps.CustomerSvc))
	authed.PUT("/me/addresses/:id", updateAddressHandler(deps.CustomerSvc))
	authed.DELETE("/me/addresses/:id", deleteAddressHandler(deps.CustomerSvc))

	authed.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
	authed.GET("/orders", listOrdersHandler(deps.OrderSvc))
	authed.GET("/orders/:number", getOrderHandler(deps.OrderSvc))

	admin := authed.Group("/admin")
	admin.Use(requireAdmin())

	admin.GET("/orders", adminListOrdersHandler(deps.OrderSvc))
	admin.PATCH("/orders/:id/status", adminUpdateOrderStatusHandler(deps.OrderSvc))
	admin.POST("/products", adminSaveProductHandler(deps.ProductSvc))
	admin.PUT("/products/:id", adminSaveProductHandler(deps.ProductSvc))
	admin.PATCH("/products/:id/stock", adminSetStockHandler(deps.ProductSvc))
	admin.PATCH("/products/:id/featured", adminSetFeaturedHandler(deps.ProductSvc))
	admin.DELETE("/products/:id", adminDeleteProductHandler(deps.ProductSvc))
	admin.GET("/users", adminListUsersHandler(deps.Users))
	admin.DELETE("/users/:id", adminDeleteUserHandler(deps.Users))

	return router, nil
}
