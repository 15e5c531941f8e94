// utils/auth.go
package utils

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	ContextUserID   = "userId"
	ContextTenantID = "tenantId"
)

// Hash password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	return string(bytes), err
}

// Check password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Generate JWT token
func GenerateToken(secret string, expiry time.Duration, userID, tenantID string) (string, error) {
	if secret == "" {
		return "", errors.New("JWT_SECRET not set")
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      userID,
		"tenantId": tenantID,
		"exp":      now.Add(expiry).Unix(),
		"iat":      now.Unix(),
	})

	return token.SignedString([]byte(secret))
}

// Auth middleware. An empty secret rejects every request.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			RespondWithError(c, 401, "Authentication is not configured")
			return
		}

		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			if cookie, err := c.Cookie("token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			RespondWithError(c, 401, "Authorization header required")
			return
		}

		if len(tokenString) > 7 && strings.ToUpper(tokenString[0:6]) == "BEARER" {
			tokenString = tokenString[7:]
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			RespondWithError(c, 401, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			RespondWithError(c, 401, "Invalid token claims")
			return
		}
		sub, _ := claims["sub"].(string)
		tenant, _ := claims["tenantId"].(string)
		if sub == "" || tenant == "" {
			RespondWithError(c, 401, "Invalid token claims")
			return
		}
		c.Set(ContextUserID, sub)
		c.Set(ContextTenantID, tenant)

		c.Next()
	}
}

// SharedSecretMiddleware guards machine endpoints (the daily recurring
// invoice trigger) with a static secret header. An empty secret disables the
// endpoint.
func SharedSecretMiddleware(header, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			RespondWithError(c, 403, "Endpoint disabled")
			return
		}
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(header)), []byte(secret)) != 1 {
			RespondWithError(c, 401, "Invalid secret")
			return
		}
		c.Next()
	}
}
