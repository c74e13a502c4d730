package receiverhttp

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// getUpload возвращает метаданные завершённой загрузки.
func (s *Server) getUpload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	upload, err := s.Uploads.Get(r.Context(), id)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(upload)
}
