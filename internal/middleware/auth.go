package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/quizshare/api/internal/dto"
)

const userIDKey = "userID"

// Auth validates the bearer token and stores the authenticated user id in the
// gin context. Tokens are HS256 with the user id in the sub claim.
func Auth(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(ctx)
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			abortUnauthenticated(ctx)
			return
		}

		claims, ok := token.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject == "" {
			abortUnauthenticated(ctx)
			return
		}
		userID, err := strconv.ParseUint(claims.Subject, 10, 32)
		if err != nil {
			abortUnauthenticated(ctx)
			return
		}

		ctx.Set(userIDKey, uint(userID))
		ctx.Next()
	}
}

// CurrentUserID returns the user id set by Auth. The second return is false
// on routes that skipped the middleware.
func CurrentUserID(ctx *gin.Context) (uint, bool) {
	val, exists := ctx.Get(userIDKey)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}

func abortUnauthenticated(ctx *gin.Context) {
	ctx.Header("WWW-Authenticate", "Bearer")
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Could not validate credentials"})
}
