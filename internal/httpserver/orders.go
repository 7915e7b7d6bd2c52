package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"falcon-storefront/internal/domain"
	checkoutsvc "falcon-storefront/internal/service/checkout"
	ordersvc "falcon-storefront/internal/service/order"
)

type checkoutRequest struct {
	ShippingAddress domain.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod" binding:"required"`
}

func checkoutHandler(checkout CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "shippingAddress and paymentMethod are required"})
			return
		}

		identity := checkoutsvc.Identity{
			UserID: user.ID,
			Email:  user.Email,
			Name:   strings.TrimSpace(user.FirstName + " " + user.LastName),
		}
		orderNumber, err := checkout.Submit(c.Request.Context(), identity, checkoutsvc.Input{
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		if err != nil {
			switch {
			case errors.Is(err, checkoutsvc.ErrUnauthenticated):
				c.JSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			case errors.Is(err, checkoutsvc.ErrCheckoutFailed):
				c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			default:
				c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"orderNumber": orderNumber})
	}
}

func listOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		result, err := orders.ListForUser(c.Request.Context(), user.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list orders"})
			return
		}
		if result == nil {
			result = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": result})
	}
}

func getOrderHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		order, err := orders.GetForUser(c.Request.Context(), user.ID, c.Param("number"))
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound), errors.Is(err, ordersvc.ErrForbidden):
				// A foreign order looks the same as a missing one.
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
