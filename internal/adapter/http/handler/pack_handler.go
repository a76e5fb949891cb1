package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlahmadiQ8/coda-pack-azure-cogtinive-services/internal/pack"
)

// PackHandler serves the pack definition
type PackHandler struct {
	pack *pack.Pack
}

// NewPackHandler creates a new pack handler
func NewPackHandler(p *pack.Pack) *PackHandler {
	return &PackHandler{pack: p}
}

// GetPack handles GET /api/v1/pack
func (h *PackHandler) GetPack(c *gin.Context) {
	respondSuccess(c, http.StatusOK, h.pack)
}
