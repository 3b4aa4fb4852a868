package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	autherrors "github.com/lolotam/EMMAR-DELIVERY-sub000/internal/auth/errors"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/apperror"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/contextutil"
	"github.com/lolotam/EMMAR-DELIVERY-sub000/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// extractToken mencari access token di header Authorization dulu, lalu cookie.
// Cookie dipakai frontend; header dipakai integrasi mesin-ke-mesin.
func extractToken(c *gin.Context) string {
	if token, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && token != "" {
		return token
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie
	}
	return ""
}

func abortUnauthorized(c *gin.Context, code, message string) {
	response.Error(c, http.StatusUnauthorized, code, message, nil)
	c.Abort()
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			abortUnauthorized(c, apperror.CodeUnauthorized, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = autherrors.ErrTokenExpired
			}
			abortUnauthorized(c, errObj.Code, errObj.Message)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortUnauthorized(c, autherrors.ErrInvalidToken.Code, "Invalid token claims")
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			abortUnauthorized(c, autherrors.ErrInvalidToken.Code, "User ID not found in token")
			return
		}

		username, _ := claims["username"].(string)
		c.Set("user_id", userID)
		c.Set("username", username)

		// Propagasi ke standard context untuk service layer & logging
		c.Request = c.Request.WithContext(
			contextutil.WithUserID(c.Request.Context(), userID),
		)

		c.Next()
	}
}
