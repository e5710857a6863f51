package handler

import (
	"net/http"

	"github.com/shemaparfait19/centurysoapv2/internal/service"

	"github.com/gin-gonic/gin"
)

type MigrateHandler struct{ svc service.MigrationService }

func NewMigrateHandler(svc service.MigrationService) *MigrateHandler {
	return &MigrateHandler{svc: svc}
}

// Run sweeps sale records still stored in the old single-product shape and
// rewrites them as items arrays. Safe to call repeatedly.
func (h *MigrateHandler) Run(c *gin.Context) {
	resp, err := h.svc.MigrateLegacySales(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
