package api

import (
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey   = "user_id"
	tokenCookie = "token"
)

type TokenParser interface {
	Parse(token string) (string, error)
}

// Identity resolves the requester from a bearer token or the token cookie.
// Requests without a valid token continue anonymously; handlers decide
// whether identity is required.
func Identity(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(tokenCookie)
		}
		if token != "" {
			if userID, err := parser.Parse(token); err == nil {
				c.Set(userIDKey, userID)
			}
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("request method=%s path=%s status=%d duration=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// userIDFrom returns the authenticated user id, or "" for anonymous requests.
func userIDFrom(c *gin.Context) string {
	return c.GetString(userIDKey)
}
