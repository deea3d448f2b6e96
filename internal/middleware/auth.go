package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenLeeway absorbs clock skew between the issuer and this service.
const tokenLeeway = 30 * time.Second

var errMalformedAuthHeader = errors.New("authorization header must be Bearer {token}")

// AuthMiddleware validates HMAC-signed bearer tokens issued by the external
// identity service. The token subject becomes the acting user for ledger writes.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(tokenLeeway),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(jwtSecret), nil }

	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			logger.Warn("Rejected request without usable bearer token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims := &jwt.RegisteredClaims{}
		if _, err := parser.ParseWithClaims(raw, claims, keyFunc); err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": tokenErrorMessage(err)})
			return
		}
		if claims.Subject == "" {
			logger.Error("Token has no subject")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), userIDKey, claims.Subject)
		c.Request = c.Request.WithContext(WithLogger(ctx, logger.With(slog.String("user_id", claims.Subject))))
		c.Set(string(userIDKey), claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.New("authorization header required")
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", errMalformedAuthHeader
	}
	return token, nil
}

func tokenErrorMessage(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	default:
		return "Invalid token"
	}
}
