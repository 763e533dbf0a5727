package middleware

import (
	"net/http"
	"strings"

	"lingua_tutor_server/pkg/errorx"
	"lingua_tutor_server/pkg/util/jwt"

	"github.com/gin-gonic/gin"
)

// JWTAuth validates the bearer access token and puts the user id into the
// context. WebSocket clients cannot set headers, so a token query parameter
// is accepted as a fallback.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"code": errorx.CodeUnauthorized,
					"msg":  "malformed Authorization header, use Bearer token",
				})
				return
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Query("token")
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "please log in first",
			})
			return
		}

		claims, err := jwt.ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "token expired or invalid, please log in again",
			})
			return
		}

		// refresh tokens must not pass as access tokens
		if claims.Subject != "access_token" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": errorx.CodeUnauthorized,
				"msg":  "an access token is required here",
			})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
