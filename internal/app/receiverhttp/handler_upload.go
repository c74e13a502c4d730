package receiverhttp

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/internal/usecase/uploadsvc"
	"github.com/sir_venger/upload_lite/pkg/httperrors"
	"github.com/sir_venger/upload_lite/pkg/uploadproto"
)

// postUploadResp — тело ответа с метаданными принятой загрузки.
type postUploadResp struct {
	UploadID string              `json:"upload_id"`
	Files    []models.StoredFile `json:"files"`
}

// postUpload принимает multipart-поток и полностью делегирует приём сервису загрузок.
func (s *Server) postUpload(w http.ResponseWriter, r *http.Request) {
	uploadID := extractUploadID(r)

	uploadsInFlight.Inc()
	defer uploadsInFlight.Dec()

	body := r.Body
	if s.Cfg != nil && s.Cfg.MaxUploadBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, s.Cfg.MaxUploadBytes)
	}

	res, err := s.Uploads.Receive(r.Context(), uploadsvc.ReceiveRequest{
		UploadID:      uploadID,
		Body:          body,
		ContentType:   r.Header.Get("Content-Type"),
		ContentLength: r.Header.Get("Content-Length"),
	})

	s.observeOutcome(res.ID, uploadID, err)

	if err != nil {
		httperrors.Write(w, err)
		return
	}

	files := make([]models.StoredFile, 0, len(res.Files))
	for _, f := range res.Files {
		f.Path = "" // пути на диске клиенту не отдаём
		files = append(files, f)
		fileSizeBytes.Observe(float64(f.Size))
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(postUploadResp{
		UploadID: res.ID,
		Files:    files,
	})
}

// observeOutcome обновляет счётчики по финальному снапшоту трекера.
func (s *Server) observeOutcome(resolvedID, requestedID string, err error) {
	outcome := "completed"
	if err != nil {
		outcome = "aborted"
	}
	uploadsTotal.WithLabelValues(outcome).Inc()

	id := resolvedID
	if id == "" {
		id = requestedID
	}
	if snap, ok := s.Uploads.Progress(id); ok {
		var total int64
		for _, e := range snap.Files {
			total += e.UploadedBytes
		}
		receivedBytesTotal.Add(float64(total))
	}
}

// extractUploadID пытается вытащить идентификатор загрузки из заголовка или query-параметра.
func extractUploadID(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(uploadproto.HeaderUploadID)); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.URL.Query().Get("upload_id")); v != "" {
		return v
	}
	return ""
}
