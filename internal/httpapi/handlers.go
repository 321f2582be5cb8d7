package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnJayAx/Personality-Parade/internal/hub"
	"github.com/AnJayAx/Personality-Parade/internal/room"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// RoomExists lets the join form validate a code before opening a websocket.
func RoomExists(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.ToUpper(chi.URLParam(r, "code"))

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply

		w.Header().Set("Content-Type", "application/json")
		if rm == nil {
			w.WriteHeader(http.StatusNotFound)
		}
		_ = json.NewEncoder(w).Encode(struct {
			Code   string `json:"code"`
			Exists bool   `json:"exists"`
		}{Code: code, Exists: rm != nil})
	}
}
