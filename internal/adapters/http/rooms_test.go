package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/partyline/partyline/internal/app"
	"github.com/partyline/partyline/internal/directory"
)

func newTestHandler(t *testing.T) (*gin.Engine, directory.Directory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := directory.NewMemoryDirectory(bcrypt.MinCost)
	coord := app.NewCoordinator(
		dir,
		app.NewAuthGate(10*time.Millisecond),
		app.NewMembershipManager(),
		app.NewRelay(),
		directory.NoopPresence{},
	)

	r := gin.New()
	h := NewRoomHandler(dir, coord)
	r.GET("/api/rooms", h.List)
	r.POST("/api/rooms", h.Create)
	return r, dir
}

func TestCreateRoomEndpoint(t *testing.T) {
	r, _ := newTestHandler(t)

	body := `{"room_name":"lobby","description":"hang out","max_people":2,"creator_key":"ck"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var view map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.Equal(t, "lobby", view["room_name"])
	require.EqualValues(t, 2, view["max_people"])
	require.EqualValues(t, 0, view["current_members"])
	// secrets never leave the directory
	require.NotContains(t, w.Body.String(), "ck")
	require.NotContains(t, w.Body.String(), "channel_key")
}

func TestCreateRoomValidation(t *testing.T) {
	r, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(`{"room_name":"lobby"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRoomDuplicate(t *testing.T) {
	r, dir := newTestHandler(t)
	_, err := dir.CreateRoom(context.Background(), directory.CreateRoomInput{RoomName: "lobby", CreatorKey: "ck"})
	require.NoError(t, err)

	body := `{"room_name":"lobby","creator_key":"other"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestListRoomsHidesPrivate(t *testing.T) {
	r, dir := newTestHandler(t)
	ctx := context.Background()
	_, err := dir.CreateRoom(ctx, directory.CreateRoomInput{RoomName: "open", CreatorKey: "ck"})
	require.NoError(t, err)
	_, err = dir.CreateRoom(ctx, directory.CreateRoomInput{RoomName: "hidden", IsPrivate: true, Password: "p", CreatorKey: "ck"})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var rooms []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	require.Equal(t, "open", rooms[0]["room_name"])
}
