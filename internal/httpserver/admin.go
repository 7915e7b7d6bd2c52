package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"falcon-storefront/internal/domain"
	ordersvc "falcon-storefront/internal/service/order"
)

func adminListOrdersHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := orders.ListAll(c.Request.Context())
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

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func adminUpdateOrderStatusHandler(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "status is required"})
			return
		}
		order, err := orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
			case errors.Is(err, ordersvc.ErrBadTransition):
				c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update order"})
			}
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func adminSaveProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.Product
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
			return
		}
		if id := c.Param("id"); id != "" {
			req.ID = id
		}
		if req.Name == "" || req.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "name and a positive price are required"})
			return
		}
		saved, err := products.Save(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to save product"})
			return
		}
		c.JSON(http.StatusOK, saved)
	}
}

type setStockRequest struct {
	InStock *bool `json:"inStock" binding:"required"`
}

func adminSetStockHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "inStock is required"})
			return
		}
		if err := products.SetInStock(c.Request.Context(), c.Param("id"), *req.InStock); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update product"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type setFeaturedRequest struct {
	Featured *bool `json:"featured" binding:"required"`
}

func adminSetFeaturedHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setFeaturedRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "featured is required"})
			return
		}
		if err := products.SetFeatured(c.Request.Context(), c.Param("id"), *req.Featured); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update product"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func adminDeleteProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := products.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete product"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func adminListUsersHandler(users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := users.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list users"})
			return
		}
		if result == nil {
			result = []domain.User{}
		}
		c.JSON(http.StatusOK, gin.H{"users": result})
	}
}

func adminDeleteUserHandler(users UserDirectory) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("id") == currentUser(c).ID {
			c.JSON(http.StatusBadRequest, gin.H{"message": "cannot delete your own account"})
			return
		}
		if err := users.Delete(c.Request.Context(), c.Param("id")); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete user"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
