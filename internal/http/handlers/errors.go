package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/flows"
	"github.com/justicebot/justicebot-backend/internal/http/response"
)

// respondFlowError maps flow failures onto HTTP statuses.
func respondFlowError(c *gin.Context, err error) {
	var malformed *flows.MalformedResponseError
	switch {
	case errors.Is(err, flows.ErrInvalidInput):
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
	case errors.As(err, &malformed):
		response.RespondError(c, http.StatusBadGateway, "malformed_model_response", err)
	case errors.Is(err, context.DeadlineExceeded):
		response.RespondError(c, http.StatusGatewayTimeout, "flow_timeout", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "flow_failed", err)
	}
}

// runFlow binds the JSON body into In, runs fn and writes its output.
func runFlow[In any, Out any](c *gin.Context, fn func(context.Context, In) (Out, error)) {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := fn(c.Request.Context(), in)
	if err != nil {
		respondFlowError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func requireUID(c *gin.Context, uid string) bool {
	if uid != "" {
		return true
	}
	response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing authenticated user"))
	return false
}
