package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/skillhub/internal/api"
	"github.com/vovakirdan/skillhub/internal/store"
)

// RoomHandlers provides HTTP handlers for room management endpoints.
type RoomHandlers struct {
	store store.Store
	log   *zerolog.Logger
}

// NewRoomHandlers creates a new room handlers instance.
func NewRoomHandlers(st store.Store, logger *zerolog.Logger) *RoomHandlers {
	return &RoomHandlers{
		store: st,
		log:   logger,
	}
}

func (h *RoomHandlers) internalError(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Msg(msg)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// GetRoom returns a room.
// GET /api/rooms/:id
func (h *RoomHandlers) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	room, err := h.store.GetRoomByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.internalError(c, err, "failed to get room")
		return
	}
	c.JSON(http.StatusOK, roomResponse(room))
}

// RoomsByDirection lists the rooms of a direction.
// GET /api/rooms/direction/:id
func (h *RoomHandlers) RoomsByDirection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rooms, err := h.store.ListRoomsByDirection(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "failed to list direction rooms")
		return
	}
	c.JSON(http.StatusOK, roomsResponse(rooms))
}

// UserRooms lists the rooms a user belongs to.
// GET /api/rooms/users/:id
func (h *RoomHandlers) UserRooms(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	rooms, err := h.store.ListUserRooms(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "failed to list user rooms")
		return
	}

	h.log.Debug().Int64("user_id", id).Int("room_count", len(rooms)).Msg("user rooms listed")
	c.JSON(http.StatusOK, roomsResponse(rooms))
}

// CreateRoom creates a room and makes the caller its owner.
// POST /api/rooms
func (h *RoomHandlers) CreateRoom(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}

	var req api.RoomInput
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" || req.DirectionID <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	room, err := h.store.CreateRoom(c.Request.Context(), &store.Room{
		ID:          req.ID,
		DirectionID: req.DirectionID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "room already exists"})
			return
		}
		h.internalError(c, err, "failed to create room")
		return
	}

	if _, err := h.store.AddMember(c.Request.Context(), uid, room.ID, store.RoomRoleOwner); err != nil {
		h.internalError(c, err, "failed to add room owner")
		return
	}

	h.log.Info().Str("room_name", room.Name).Int64("room_id", room.ID).Int64("owner_id", uid).Msg("room created successfully")
	c.JSON(http.StatusCreated, roomResponse(room))
}

// DeleteRoom removes a room. Only its owner may do so.
// DELETE /api/rooms/:id
func (h *RoomHandlers) DeleteRoom(c *gin.Context) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if _, err := h.store.GetRoomByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.internalError(c, err, "failed to get room")
		return
	}
	if !h.requireRole(c, uid, id, store.RoomRoleOwner) {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), id); err != nil {
		h.internalError(c, err, "failed to delete room")
		return
	}
	c.Status(http.StatusNoContent)
}

// requireRole answers 403 unless uid holds role in the room.
func (h *RoomHandlers) requireRole(c *gin.Context, uid, roomID int64, role store.RoomRole) bool {
	members, err := h.store.ListMembers(c.Request.Context(), roomID)
	if err != nil {
		h.internalError(c, err, "failed to list members")
		return false
	}
	for _, m := range members {
		if m.UserID == uid && m.Role == role {
			return true
		}
	}
	c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	return false
}

// memberTarget resolves the userId query parameter, which must name the
// caller.
func (h *RoomHandlers) memberTarget(c *gin.Context) (roomID, userID int64, ok bool) {
	uid, ok := currentUserID(c, h.log)
	if !ok {
		return 0, 0, false
	}
	roomID, ok = pathID(c, "id")
	if !ok {
		return 0, 0, false
	}

	userID = uid
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid userId"})
			return 0, 0, false
		}
		userID = parsed
	}
	if userID != uid {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "cannot change another user's membership"})
		return 0, 0, false
	}

	if _, err := h.store.GetRoomByID(c.Request.Context(), roomID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return 0, 0, false
		}
		h.internalError(c, err, "failed to get room")
		return 0, 0, false
	}
	return roomID, userID, true
}

// JoinRoom adds the caller to a room.
// POST /api/rooms/:id/join?userId=&role=
func (h *RoomHandlers) JoinRoom(c *gin.Context) {
	roomID, userID, ok := h.memberTarget(c)
	if !ok {
		return
	}

	role := store.RoomRole(strings.ToUpper(c.DefaultQuery("role", string(store.RoomRoleMember))))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid role"})
		return
	}

	member, err := h.store.AddMember(c.Request.Context(), userID, roomID, role)
	if err != nil {
		h.internalError(c, err, "failed to join room")
		return
	}

	h.log.Info().Int64("room_id", roomID).Int64("user_id", userID).Msg("user joined room")
	c.JSON(http.StatusOK, memberResponse(member))
}

// LeaveRoom removes the caller from a room.
// POST /api/rooms/:id/leave?userId=
func (h *RoomHandlers) LeaveRoom(c *gin.Context) {
	roomID, userID, ok := h.memberTarget(c)
	if !ok {
		return
	}

	if err := h.store.RemoveMember(c.Request.Context(), userID, roomID); err != nil {
		h.internalError(c, err, "failed to leave room")
		return
	}

	h.log.Info().Int64("room_id", roomID).Int64("user_id", userID).Msg("user left room")
	c.Status(http.StatusNoContent)
}

// Members lists the members of a room.
// GET /api/rooms/:id/members
func (h *RoomHandlers) Members(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.store.ListMembers(c.Request.Context(), id)
	if err != nil {
		h.internalError(c, err, "failed to list members")
		return
	}

	response := make([]api.UserRoom, 0, len(members))
	for _, m := range members {
		response = append(response, memberResponse(m))
	}
	c.JSON(http.StatusOK, response)
}
