package receiverhttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const wsPushPeriod = 200 * time.Millisecond

var progressUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Происхождение не проверяем: аутентификации у сервиса нет вовсе.
	CheckOrigin: func(*http.Request) bool { return true },
}

// streamProgress пушит снапшоты прогресса по websocket, пока загрузка не
// финализирована. Каждый снапшот — независимая копия, писатель не блокируется.
func (s *Server) streamProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, ok := s.Uploads.Progress(id); !ok {
		http.NotFound(w, r)
		return
	}

	conn, err := progressUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(wsPushPeriod)
	defer ticker.Stop()

	for range ticker.C {
		snap, ok := s.Uploads.Progress(id)
		if !ok {
			return
		}

		if err := conn.WriteJSON(snap); err != nil {
			return
		}

		if snap.Closed {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "upload finished"))
			return
		}
	}
}
