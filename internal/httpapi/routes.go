package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AnJayAx/Personality-Parade/internal/hub"
	"github.com/AnJayAx/Personality-Parade/internal/ws"
)

func SetupRoutes(h *hub.Hub, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/rooms/{code}", RoomExists(h))
	r.Get("/ws", ws.Handler(h, logger))
	return r
}
