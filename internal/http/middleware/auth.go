package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/http/response"
	"github.com/justicebot/justicebot-backend/internal/platform/ctxutil"
	"github.com/justicebot/justicebot-backend/internal/platform/firebaseauth"
	"github.com/justicebot/justicebot-backend/internal/platform/logger"
)

type AuthMiddleware struct {
	log      *logger.Logger
	verifier firebaseauth.Verifier
}

func NewAuthMiddleware(log *logger.Logger, verifier firebaseauth.Verifier) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), verifier: verifier}
}

// RequireAuth verifies the Firebase ID token in the Authorization header and attaches the caller to the request context.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing authentication token"))
			return
		}
		id, err := am.verifier.VerifyIDToken(c.Request.Context(), tokenString)
		if err != nil {
			am.log.Debug("token rejected", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", errors.New("invalid authentication token"))
			return
		}
		ctx := ctxutil.WithAuthData(c.Request.Context(), &ctxutil.AuthData{
			UID:           id.UID,
			Email:         id.Email,
			EmailVerified: id.EmailVerified,
			TokenString:   tokenString,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
