package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/conectando/booking-backend/internal/models"
	"github.com/conectando/booking-backend/pkg/jwt"
)

// AccountContextKey is the key used to store account information in Gin context
const AccountContextKey = "account"

// AccountContext represents the authenticated account's information
type AccountContext struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}

// AuthMiddleware creates a middleware that validates JWT access tokens
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
				"code":    "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
				"code":    "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if jwtService.IsTokenExpired(tokenString) {
				logrus.WithFields(logrus.Fields{
					"path": c.Request.URL.Path,
					"ip":   c.ClientIP(),
				}).Warn("Auth failed: token expired")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "token_expired",
					"message": "Access token has expired. Please refresh your token.",
					"code":    "TOKEN_EXPIRED",
				})
			} else {
				logrus.WithFields(logrus.Fields{
					"path":  c.Request.URL.Path,
					"ip":    c.ClientIP(),
					"error": err.Error(),
				}).Warn("Auth failed: invalid token")
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "invalid_token",
					"message": "Invalid access token",
					"code":    "INVALID_TOKEN",
				})
			}
			c.Abort()
			return
		}

		c.Set(AccountContextKey, AccountContext{
			AccountID: claims.AccountID,
			Email:     claims.Email,
			Role:      claims.Role,
		})

		c.Next()
	}
}

// RequireRole creates a middleware that checks the account's role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		acctCtx, exists := GetAccountContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Account context not found. Auth middleware may not be applied.",
				"code":    "MISSING_ACCOUNT_CONTEXT",
			})
			c.Abort()
			return
		}

		hasRole := false
		for _, requiredRole := range roles {
			if acctCtx.Role == requiredRole {
				hasRole = true
				break
			}
		}

		if !hasRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "You don't have permission to access this resource",
				"code":    "INSUFFICIENT_PERMISSIONS",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetAccountContext retrieves the account context from Gin context
func GetAccountContext(c *gin.Context) (AccountContext, bool) {
	value, exists := c.Get(AccountContextKey)
	if !exists {
		return AccountContext{}, false
	}

	acctCtx, ok := value.(AccountContext)
	if !ok {
		return AccountContext{}, false
	}

	return acctCtx, true
}

// Actor builds the acting account from the request context. The returned
// account carries only the identity fields the service layer checks.
func Actor(c *gin.Context) (*models.Account, bool) {
	acctCtx, exists := GetAccountContext(c)
	if !exists {
		return nil, false
	}

	return &models.Account{
		ID:    acctCtx.AccountID,
		Email: acctCtx.Email,
		Role:  models.Role(acctCtx.Role),
	}, true
}
