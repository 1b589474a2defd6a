package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justicebot/justicebot-backend/internal/forms"
	"github.com/justicebot/justicebot-backend/internal/http/response"
)

type FormsHandler struct {
	catalog *forms.Catalog
}

func NewFormsHandler(catalog *forms.Catalog) *FormsHandler {
	return &FormsHandler{catalog: catalog}
}

// GET /api/forms?category=eviction_notice
func (h *FormsHandler) List(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	list, ok := h.catalog.List(category)
	if !ok {
		response.RespondError(c, http.StatusNotFound, "unknown_category", fmt.Errorf("unknown form category %q", category))
		return
	}
	response.RespondOK(c, gin.H{"category": category, "forms": list})
}
