package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var devOrigins = []string{
	"http://localhost:3000",
	"http://localhost:9002",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:9002",
}

// CORS allows the local dev frontends plus any extra origins (CORS_ALLOWED_ORIGINS).
func CORS(extraOrigins []string) gin.HandlerFunc {
	origins := append(append([]string(nil), devOrigins...), extraOrigins...)
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Trace-Id", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
