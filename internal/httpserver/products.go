package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"falcon-storefront/internal/domain"
	productrepo "falcon-storefront/internal/repository/product"
)

func listProductsHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if q := c.Query("q"); q != "" {
			result, err := products.Search(ctx, q)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to search products"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"products": result})
			return
		}

		filter := productrepo.Filter{
			Category: c.Query("category"),
			Featured: c.Query("featured") == "true",
		}
		result, err := products.List(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": result})
	}
}

func getProductHandler(products ProductService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to load product"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
