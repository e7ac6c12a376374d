package middleware

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/valeri-app/valeri/internal/utils"
)

type apiError struct {
	Error string     `json:"error"`
	Code  utils.Code `json:"code,omitempty"`
}

type accessClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// JWTAuth validates the auth provider's HS256 access token and puts the
// caller's user id and email on the context. It deliberately does NOT read
// any role out of the token: roles are re-verified against the profile
// store by RequireAdmin.
func JWTAuth() gin.HandlerFunc {
	secret := os.Getenv("AUTH_JWT_SECRET")
	issuer := os.Getenv("AUTH_JWT_ISSUER")     // optional
	audience := os.Getenv("AUTH_JWT_AUDIENCE") // optional

	return func(c *gin.Context) {
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, apiError{
				Error: "AUTH_JWT_SECRET is not set",
				Code:  utils.CodeInternal,
			})
			return
		}

		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "Unauthorized",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "Unauthorized",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		claims := &accessClaims{}
		tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || tok == nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "Unauthorized",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		if issuer != "" && claims.Issuer != issuer {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "Unauthorized",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		if audience != "" {
			valid := false
			for _, aud := range claims.Audience {
				if aud == audience {
					valid = true
					break
				}
			}
			if !valid {
				c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
					Error: "Unauthorized",
					Code:  utils.CodeUnauthorized,
				})
				return
			}
		}

		userID := claims.Subject // provider user uuid lives in "sub"
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apiError{
				Error: "Unauthorized",
				Code:  utils.CodeUnauthorized,
			})
			return
		}

		c.Set("user_id", userID)
		c.Set("email", claims.Email)
		c.Set("access_token", raw)
		c.Next()
	}
}
