package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"falcon-storefront/internal/domain"
)

// sessionHeader carries the anonymous session id used to key guest carts.
const sessionHeader = "X-Session-ID"

const (
	userCtxKey  = "authUser"
	tokenCtxKey = "authToken"
)

// identifyUser resolves the Bearer token, if any, and stores the user on the
// context. Requests without a token pass through anonymously.
func identifyUser(customers CustomerService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.Next()
			return
		}
		user, err := customers.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}
		c.Set(userCtxKey, user)
		c.Set(tokenCtxKey, token)
		c.Next()
	}
}

// requireUser rejects anonymous requests.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}
		c.Next()
	}
}

// requireAdmin rejects non-admin users. Runs behind requireUser.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin access required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

func currentToken(c *gin.Context) string {
	v, ok := c.Get(tokenCtxKey)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}

// cartOwner keys the cart by user id when authenticated, otherwise by the
// caller-provided session id. A guest without a session gets a fresh one,
// echoed back in the response header so the client can keep it.
func cartOwner(c *gin.Context) string {
	if user := currentUser(c); user != nil {
		return user.ID
	}
	session := strings.TrimSpace(c.GetHeader(sessionHeader))
	if session == "" {
		session = uuid.NewString()
		c.Header(sessionHeader, session)
	}
	return "anon:" + session
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
