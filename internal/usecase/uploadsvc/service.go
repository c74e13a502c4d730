package uploadsvc

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sir_venger/upload_lite/internal/models"
)

type (
	// MetaStorage хранилище метаданных завершённых загрузок
	MetaStorage interface {
		Get(ctx context.Context, id string) (models.Upload, error)
		Save(ctx context.Context, upload models.Upload) error
	}

	// Store — сторадж-коллаборатор: выдаёт синки на приём, фиксирует
	// принятые файлы и открывает их на чтение отдельным хендлом.
	Store interface {
		SinkFactory
		Commit(ctx context.Context, uploadID string, files []models.StoredFile) ([]models.StoredFile, error)
		Open(uploadID, filename string) (io.ReadCloser, int64, error)
	}

	// Service объединяет приём загрузок и read-path для наблюдателей.
	Service interface {
		Receive(ctx context.Context, req ReceiveRequest) (models.Upload, error)
		Progress(uploadID string) (Snapshot, bool)
		Get(ctx context.Context, id string) (models.Upload, error)
		OpenFile(ctx context.Context, id, name string) (io.ReadCloser, int64, error)
	}
)

// ReceiveRequest описывает входящий запрос на загрузку.
type ReceiveRequest struct {
	UploadID      string
	Body          io.Reader
	ContentType   string
	ContentLength string // сырое значение заголовка, парсится best-effort
}

type Deps struct {
	MetaStorage MetaStorage
	Store       Store
	Registry    *Registry
	Listener    Listener
}

type Uploads struct {
	Deps
}

// New конструирует сервис загрузки с заданными зависимостями.
func New(deps Deps) *Uploads {
	return &Uploads{Deps: deps}
}

var _ Service = (*Uploads)(nil)

// Receive проводит multipart-тело через трекер и сторадж. Spool-файлы
// переезжают в постоянное хранилище только после полного успеха; при аварии
// частичные файлы остаются на откуп GC стораджа.
func (s *Uploads) Receive(ctx context.Context, req ReceiveRequest) (models.Upload, error) {
	uploadID := req.UploadID
	if uploadID == "" {
		uploadID = uuid.NewString()
	}

	tracker := NewTracker(s.Listener)
	tracker.Begin(req.ContentLength)

	if s.Registry != nil {
		s.Registry.Put(uploadID, tracker)
		defer s.Registry.Done(uploadID)
	}

	recv := NewReceiver(uploadID, tracker, s.Store)
	if err := recv.Run(ctx, req.Body, req.ContentType); err != nil {
		// ID возвращаем и при ошибке: наблюдателю нужен ключ трекера.
		return models.Upload{ID: uploadID}, err
	}

	files, err := s.Store.Commit(ctx, uploadID, recv.Files())
	if err != nil {
		return models.Upload{ID: uploadID}, err
	}

	upload := models.Upload{
		ID:            uploadID,
		ContentLength: tracker.ContentLength(),
		Files:         make(map[string]models.StoredFile, len(files)),
		CreatedAt:     time.Now().UTC(),
	}
	for _, f := range files {
		upload.Files[f.Name] = f
	}

	if err := s.MetaStorage.Save(ctx, upload); err != nil {
		return models.Upload{ID: uploadID}, err
	}

	return upload, nil
}

// Progress отдаёт снапшот трекера для наблюдателя.
func (s *Uploads) Progress(uploadID string) (Snapshot, bool) {
	if s.Registry == nil {
		return Snapshot{}, false
	}
	t, ok := s.Registry.Get(uploadID)
	if !ok {
		return Snapshot{}, false
	}
	return t.Snapshot(), true
}

// Get возвращает метаданные завершённой загрузки.
func (s *Uploads) Get(ctx context.Context, id string) (models.Upload, error) {
	return s.MetaStorage.Get(ctx, id)
}

// OpenFile открывает сохранённый файл на чтение.
func (s *Uploads) OpenFile(ctx context.Context, id, name string) (io.ReadCloser, int64, error) {
	if _, err := s.MetaStorage.Get(ctx, id); err != nil {
		return nil, 0, err
	}
	return s.Store.Open(id, name)
}
