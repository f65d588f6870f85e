package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/BruksfildServices01/booking-saas/internal/config"
	"github.com/BruksfildServices01/booking-saas/internal/httperr"
	"github.com/BruksfildServices01/booking-saas/internal/models"
)

const (
	ContextUserID     = "userID"
	ContextBusinessID = "businessID"
	ContextUserRole   = "userRole"
	ContextCustomerID = "customerID"
)

// IssueToken signs an HS256 token for user. customerID is zero for admins.
func IssueToken(cfg *config.Config, user *models.User, customerID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        user.ID,
		"businessId": user.BusinessID,
		"role":       user.Role,
		"customerId": customerID,
		"exp":        now.Add(cfg.JWTTTL()).Unix(),
		"iat":        now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required.")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Expected a bearer token.")
			c.Abort()
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWTSecret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "Token is invalid or expired.")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "Token claims are malformed.")
			c.Abort()
			return
		}

		userID, ok1 := claims["sub"].(float64)
		businessID, ok2 := claims["businessId"].(float64)
		role, _ := claims["role"].(string)
		customerID, _ := claims["customerId"].(float64)
		if !ok1 || !ok2 || businessID == 0 {
			httperr.Unauthorized(c, "invalid_token_payload", "Token payload is incomplete.")
			c.Abort()
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextBusinessID, uint(businessID))
		c.Set(ContextUserRole, role)
		c.Set(ContextCustomerID, uint(customerID))

		c.Next()
	}
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "Operation not allowed for this role.")
		c.Abort()
	}
}
