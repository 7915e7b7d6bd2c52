package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"falcon-storefront/internal/domain"
	customersvc "falcon-storefront/internal/service/customer"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type sessionResponse struct {
	User         *domain.User `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int          `json:"expiresIn"`
}

func registerHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.RegisterInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
			return
		}
		user, err := customers.Register(c.Request.Context(), req)
		if err != nil {
			if errors.Is(err, customersvc.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"message": "an account with this email already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

func loginHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
			return
		}
		user, access, refresh, err := customers.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid email or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log in"})
			return
		}
		c.JSON(http.StatusOK, sessionResponse{
			User:         user,
			AccessToken:  access,
			RefreshToken: refresh,
			ExpiresIn:    customers.AccessTTLSeconds(),
		})
	}
}

func logoutHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := customers.Logout(c.Request.Context(), currentToken(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to log out"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func updateProfileHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.UpdateInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
			return
		}
		user, err := customers.UpdateProfile(c.Request.Context(), currentUser(c).ID, req)
		if err != nil {
			if errors.Is(err, customersvc.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"message": "an account with this email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update profile"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func changePasswordHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "currentPassword and newPassword are required"})
			return
		}
		err := customers.ChangePassword(c.Request.Context(), currentUser(c).ID, req.CurrentPassword, req.NewPassword)
		if err != nil {
			if errors.Is(err, customersvc.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "current password is incorrect"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func forgotPasswordHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req forgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
			return
		}
		if err := customers.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to process request"})
			return
		}
		// Unknown addresses get the same answer as known ones.
		c.JSON(http.StatusOK, gin.H{"message": "if the email exists, a reset link has been sent"})
	}
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

func resetPasswordHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req resetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "token and newPassword are required"})
			return
		}
		if err := customers.ResetPassword(c.Request.Context(), req.Token, req.NewPassword); err != nil {
			if errors.Is(err, customersvc.ErrInvalidToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired reset token"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listAddressesHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := customers.Addresses(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to list addresses"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

func addAddressHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.AddressInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
			return
		}
		address, err := customers.AddAddress(c.Request.Context(), currentUser(c).ID, req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

func updateAddressHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req customersvc.AddressInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
			return
		}
		address, err := customers.UpdateAddress(c.Request.Context(), currentUser(c).ID, c.Param("id"), req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusOK, address)
	}
}

func deleteAddressHandler(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := customers.DeleteAddress(c.Request.Context(), currentUser(c).ID, c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to delete address"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}
