package middleware

import (
	"errors"
	"net/http"
	"time"

	"unieats/internal/common"
	"unieats/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWTCustomClaims are the claims carried by access tokens.
type JWTCustomClaims struct {
	UserID int64       `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ParseJWTPayload checks the custom claims after signature verification.
func ParseJWTPayload(claims *JWTCustomClaims) (*JWTCustomClaims, error) {
	if claims.UserID <= 0 {
		return nil, errors.New("missing user_id in token")
	}
	role, err := models.ParseRole(string(claims.Role))
	if err != nil {
		return nil, err
	}
	claims.Role = role
	return claims, nil
}

// JWTConfig verifies HS256 bearer tokens and stores the user id and role on
// the request context.
func JWTConfig(secret string) echojwt.Config {
	return echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Alg(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(JWTCustomClaims)
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, err := ParseJWTPayload(token.Claims.(*JWTCustomClaims))
			if err != nil {
				return
			}
			ctx := common.WithUser(c.Request().Context(), claims.UserID, claims.Role)
			c.SetRequest(c.Request().WithContext(ctx))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}
}

// JWT returns the bearer token middleware.
func JWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(JWTConfig(secret))
}

// IssueToken signs an access token for the user.
func IssueToken(secret string, userID int64, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTCustomClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
