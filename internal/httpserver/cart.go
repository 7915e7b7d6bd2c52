package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"falcon-storefront/internal/domain"
	cartsvc "falcon-storefront/internal/service/cart"
)

type addCartItemRequest struct {
	ProductID     string  `json:"productId" binding:"required"`
	SelectedColor *string `json:"selectedColor"`
	SelectedSize  *string `json:"selectedSize"`
}

type updateCartItemRequest struct {
	Quantity      *int    `json:"quantity"`
	SelectedColor *string `json:"selectedColor"`
	SelectedSize  *string `json:"selectedSize"`
}

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := cartOwner(c)
		snapshot, err := carts.Get(c.Request.Context(), owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load cart"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := cartOwner(c)
		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "productId is required"})
			return
		}
		snapshot, err := carts.Add(c.Request.Context(), owner, req.ProductID, req.SelectedColor, req.SelectedSize)
		if err != nil {
			if errors.Is(err, cartsvc.ErrProductNotFound) || errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// updateCartItemHandler covers both quantity changes and variant changes.
// A request with a quantity adjusts it; one with only colour or size swaps
// the variant on every line of the product.
func updateCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := cartOwner(c)
		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
			return
		}
		productID := c.Param("productID")
		ctx := c.Request.Context()

		var (
			snapshot domain.CartSnapshot
			err      error
		)
		switch {
		case req.Quantity != nil:
			snapshot, err = carts.SetQuantity(ctx, owner, productID, *req.Quantity)
		case req.SelectedColor != nil || req.SelectedSize != nil:
			snapshot, err = carts.UpdateVariant(ctx, owner, productID, req.SelectedColor, req.SelectedSize)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"message": "nothing to update"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := cartOwner(c)
		snapshot, err := carts.Remove(c.Request.Context(), owner, c.Param("productID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner := cartOwner(c)
		snapshot, err := carts.Clear(c.Request.Context(), owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to clear cart"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}
