package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/store"
)

// DirectionHandlers serves the direction catalogue.
type DirectionHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewDirectionHandlers creates a new direction handlers instance.
func NewDirectionHandlers(st store.Store, logger *zerolog.Logger) *DirectionHandlers {
	return &DirectionHandlers{store: st, log: logger}
}

// ListDirections lists every direction.
// GET /api/directions
func (h *DirectionHandlers) ListDirections(c *gin.Context) {
	directions, err := h.store.ListDirections(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list directions")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]api.Direction, 0, len(directions))
	for _, d := range directions {
		response = append(response, directionResponse(d))
	}
	c.JSON(http.StatusOK, response)
}

// CreateDirection adds a direction.
// POST /api/directions
func (h *DirectionHandlers) CreateDirection(c *gin.Context) {
	var req api.DirectionInput
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	direction, err := h.store.CreateDirection(c.Request.Context(), strings.TrimSpace(req.Name), req.Description)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create direction")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(http.StatusCreated, directionResponse(direction))
}

// DeleteDirection removes a direction.
// DELETE /api/directions/:id
func (h *DirectionHandlers) DeleteDirection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.store.DeleteDirection(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "direction not found"})
			return
		}
		h.log.Error().Err(err).Int64("direction_id", id).Msg("failed to delete direction")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}
