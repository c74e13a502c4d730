package receiverhttp

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK          bool  `json:"ok"`
	StoredBytes int64 `json:"stored_bytes"`
	Tracked     int   `json:"tracked_uploads"`
}

// health возвращает агрегированную статистику по каталогу загрузок.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	var total int64
	// Проходим по всем сохранённым файлам и суммируем их размер для простого capacity-метрика.
	err := filepath.WalkDir(s.Store.UploadsDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()

		return nil
	})

	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(healthStats{
		OK:          true,
		StoredBytes: total,
		Tracked:     s.Registry.Len(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}
