package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rbroggi/oneclick/internal/core/model"
	log "github.com/sirupsen/logrus"
)

// writeError maps core errors to HTTP statuses. Unmapped errors become a 500
// with a generic body so that internals never leak to callers.
func writeError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "kind": "validation", "field": validationErr.Field})
	case errors.Is(err, model.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "kind": "unauthorized"})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "kind": "not_found"})
	case errors.Is(err, model.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists", "kind": "duplicate"})
	default:
		log.WithError(err).Error("internal error serving request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": "internal"})
	}
}
