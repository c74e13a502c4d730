package receiverhttp

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
)

// getStoredFile отдаёт содержимое сохранённого файла потоком.
func (s *Server) getStoredFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")

	f, size, err := s.Uploads.OpenFile(r.Context(), id, name)
	if err != nil {
		httperrors.Write(w, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("Content-Type", "application/octet-stream")

	if _, err = io.Copy(w, f); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
