package ws

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/mediameta/internal/ports"
)

// WSHandler subscribes the caller to change events for the owner named by
// the mobile_number query parameter.
func WSHandler(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := r.URL.Query().Get("mobile_number")
		if roomID == "" {
			http.Error(w, "mobile_number is required", http.StatusBadRequest)
			return
		}

		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade has already written the error response.
			return
		}

		hub.Register(roomID, conn)
		defer hub.Unregister(roomID, conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}

// Broadcast forwards service events to the owner's room until events is
// closed or ctx is done.
func Broadcast(ctx context.Context, hub *Hub, events <-chan ports.MediaEvent, log *logger.ZapLogger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}

			payload, err := json.Marshal(ev)
			if err != nil {
				log.Log(logger.LogEntry{
					Level:   "error",
					Message: "media event marshal failed",
					Error:   err,
				})
				continue
			}

			hub.SendToRoom(ev.MobileNumber, payload)
		}
	}
}
