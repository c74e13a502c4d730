// Package uploadclient — HTTP-клиент приёмника загрузок с индикатором
// выполнения в терминале.
package uploadclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/pkg/uploadproto"
)

// UploadRequest описывает один запрос на отправку набора файлов.
type UploadRequest struct {
	UploadID string
	Field    string
	Paths    []string
}

// UploadResult — распакованный ответ приёмника.
type UploadResult struct {
	UploadID string              `json:"upload_id"`
	Files    []models.StoredFile `json:"files"`
}

type Client interface {
	// Upload отправить файлы на приёмник одним multipart-запросом
	Upload(ctx context.Context, baseURL string, req UploadRequest) (UploadResult, error)
}

type httpClient struct {
	c *http.Client
}

// New создаёт HTTP-клиент по умолчанию.
func New() Client {
	return &httpClient{
		c: &http.Client{},
	}
}

// Upload стримит файлы через io.Pipe: тело запроса формируется на лету,
// без буферизации файлов в памяти.
func (h *httpClient) Upload(ctx context.Context, baseURL string, req UploadRequest) (UploadResult, error) {
	field := req.Field
	if field == "" {
		field = "file"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, field, req.Paths))
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+uploadproto.UploadPath, pr)
	if err != nil {
		return UploadResult{}, err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if req.UploadID != "" {
		httpReq.Header.Set(uploadproto.HeaderUploadID, req.UploadID)
	}

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return UploadResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return UploadResult{}, fmt.Errorf("upload failed: %s: %s", resp.Status, string(body))
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResult{}, err
	}
	return out, nil
}

// writeParts последовательно пишет файлы в multipart-поток, рисуя прогресс.
func writeParts(mw *multipart.Writer, field string, paths []string) error {
	for _, path := range paths {
		if err := writeOnePart(mw, field, path); err != nil {
			return err
		}
	}
	return mw.Close()
}

func writeOnePart(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	name := filepath.Base(path)
	part, err := mw.CreateFormFile(field, name)
	if err != nil {
		return err
	}

	bar := newProgressBar(fmt.Sprintf("Uploading %s", name), info.Size())
	bar.render(true, "")

	if _, err := io.Copy(part, io.TeeReader(f, progressWriter{bar: bar})); err != nil {
		bar.Fail(err)
		return err
	}

	bar.Finish()
	return nil
}
