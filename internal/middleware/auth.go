package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/harshrajsoni/campusconnect/internal/domain"
)

// identityKey is the gin context key the authenticated identity is stored under.
const identityKey = "identity"

// ErrMissingToken is returned when neither the Authorization header nor the
// token cookie carries a credential.
var ErrMissingToken = errors.New("missing authentication token")

// Auth returns a middleware that verifies the JWT and stores the caller's
// identity in the context. Tokens are accepted as a Bearer header or as the
// "token" cookie (browsers open websocket connections with cookies only).
func Auth(jwtSecret string) gin.HandlerFunc {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}

	return func(c *gin.Context) {
		tokenStr, err := extractToken(c)
		if err != nil {
			if errors.Is(err, ErrMissingToken) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication token is required"})
			} else {
				logrus.WithError(err).Warn("Auth middleware: malformed token")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format"})
			}
			c.Abort()
			return
		}

		claims, err := validateToken(tokenStr, jwtSecret)
		if err != nil {
			logrus.WithError(err).Warn("Auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		identity, err := identityFromClaims(claims)
		if err != nil {
			logrus.WithError(err).Error("Auth middleware: bad claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity set by Auth.
func IdentityFromContext(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func extractToken(c *gin.Context) (string, error) {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", jwt.ErrTokenMalformed
		}
		return parts[1], nil
	}
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", ErrMissingToken
}

func validateToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token or claims type")
}

func identityFromClaims(claims jwt.MapClaims) (domain.Identity, error) {
	idClaim, ok := claims["user_id"]
	if !ok {
		return domain.Identity{}, errors.New("user_id claim missing")
	}
	// JWT numbers decode as float64.
	idFloat, ok := idClaim.(float64)
	if !ok || idFloat <= 0 || idFloat != float64(uint(idFloat)) {
		return domain.Identity{}, fmt.Errorf("user_id claim is not a valid id: %v", idClaim)
	}

	roleClaim, _ := claims["user_type"].(string)
	role, err := domain.ParseRole(roleClaim)
	if err != nil {
		return domain.Identity{}, err
	}

	return domain.Identity{ID: uint(idFloat), Role: role}, nil
}
