package receiverhttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// getProgress отдаёт снапшот прогресса загрузки. Снапшот — копия состояния
// трекера: читатель никогда не держит лок пишущей стороны.
func (s *Server) getProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, ok := s.Uploads.Progress(id)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}
