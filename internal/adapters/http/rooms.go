package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/partyline/partyline/internal/app"
	"github.com/partyline/partyline/internal/directory"
	"github.com/partyline/partyline/internal/domain"
)

// RoomHandler is the thin directory-management glue. The session core
// never calls it; it exists so rooms can be created and browsed.
type RoomHandler struct {
	dir      directory.Directory
	coord    *app.Coordinator
	validate *validator.Validate
}

func NewRoomHandler(dir directory.Directory, coord *app.Coordinator) *RoomHandler {
	return &RoomHandler{
		dir:      dir,
		coord:    coord,
		validate: validator.New(),
	}
}

type roomView struct {
	ID             uint   `json:"id"`
	RoomName       string `json:"room_name"`
	Description    string `json:"description"`
	MaxPeople      int    `json:"max_people"`
	IsPrivate      bool   `json:"is_private"`
	CurrentMembers int    `json:"current_members"`
}

func (h *RoomHandler) view(room *domain.Room) roomView {
	return roomView{
		ID:             room.ID,
		RoomName:       room.RoomName,
		Description:    room.Description,
		MaxPeople:      room.MaxPeople,
		IsPrivate:      room.IsPrivate,
		CurrentMembers: h.coord.MemberCount(room.ID),
	}
}

// List returns the public rooms with their live member counts.
func (h *RoomHandler) List(c *gin.Context) {
	rooms, err := h.dir.ListRooms(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("list rooms")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
		return
	}
	out := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		if room.IsPrivate {
			continue
		}
		out = append(out, h.view(room))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RoomHandler) Create(c *gin.Context) {
	var input directory.CreateRoomInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	room, err := h.dir.CreateRoom(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, directory.ErrDuplicateRoom) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		log.Error().Err(err).Str("module", "adapters.http").Str("room", input.RoomName).Msg("create room")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
		return
	}
	c.JSON(http.StatusCreated, h.view(room))
}
