package uploadsvc

import (
	"strconv"
	"strings"
	"sync"
)

// Entry — текущее состояние приёма одного файла внутри запроса.
type Entry struct {
	UploadedBytes int64 `json:"uploaded_bytes"`
	Complete      bool  `json:"complete"`
}

// Listener получает события прогресса; все методы вызываются вне локов трекера.
type Listener interface {
	// Started вызывается один раз при старте приёма тела запроса.
	Started(contentLength int64)
	// FileProgress сообщает накопленный объём файла; switched выставлен,
	// если активный файл сменился по сравнению с прошлым событием.
	FileProgress(fileID string, uploadedBytes int64, switched bool)
	// FileDone вызывается, когда файл полностью принят и закрыт.
	FileDone(fileID string, uploadedBytes int64)
	// Finished вызывается при финализации трекера.
	Finished()
}

// Snapshot — копия состояния трекера для наблюдателей.
type Snapshot struct {
	ContentLength int64            `json:"content_length"`
	Closed        bool             `json:"closed"`
	Files         map[string]Entry `json:"files"`
}

// Tracker ведёт прогресс всех файлов одного запроса. Пишет в него только
// горутина запроса, читают — наблюдатели (поллинг, websocket), поэтому все
// операции идут под RWMutex, а чтение отдаёт копию.
type Tracker struct {
	mu            sync.RWMutex
	contentLength int64
	entries       map[string]*Entry
	lastActive    string
	closed        bool

	listener Listener
}

// NewTracker создаёт пустой трекер; listener может быть nil.
func NewTracker(listener Listener) *Tracker {
	return &Tracker{
		entries:  map[string]*Entry{},
		listener: listener,
	}
}

// Begin разбирает заявленный Content-Length. Невалидный или пустой заголовок
// не ошибка: длина остаётся нулевой и трактуется как неизвестная.
func (t *Tracker) Begin(contentLengthHeader string) {
	length, err := strconv.ParseInt(strings.TrimSpace(contentLengthHeader), 10, 64)
	if err != nil || length < 0 {
		length = 0
	}

	t.mu.Lock()
	t.contentLength = length
	t.mu.Unlock()

	if t.listener != nil {
		t.listener.Started(length)
	}
}

// ContentLength возвращает заявленный размер тела (0 — неизвестен).
func (t *Tracker) ContentLength() int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.contentLength
}

// RecordWrite добавляет delta к счётчику файла, создавая запись при первом
// обращении. После финализации записи игнорируются.
func (t *Tracker) RecordWrite(fileID string, delta int64) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}

	e, ok := t.entries[fileID]
	if !ok {
		e = &Entry{}
		t.entries[fileID] = e
	}
	e.UploadedBytes += delta

	switched := t.lastActive != "" && t.lastActive != fileID
	t.lastActive = fileID
	uploaded := e.UploadedBytes
	t.mu.Unlock()

	if t.listener != nil {
		t.listener.FileProgress(fileID, uploaded, switched)
	}
}

// RecordClose помечает файл завершённым. Для неизвестного файла — no-op:
// запись не создаётся и ошибки нет.
func (t *Tracker) RecordClose(fileID string) {
	t.mu.Lock()
	e, ok := t.entries[fileID]
	if !ok {
		t.mu.Unlock()
		return
	}
	e.Complete = true
	uploaded := e.UploadedBytes
	t.mu.Unlock()

	if t.listener != nil {
		t.listener.FileDone(fileID, uploaded)
	}
}

// Finalize закрывает трекер. Повторные вызовы — защитный no-op: финализация
// срабатывает и на нормальном конце тела, и на аварийном, и не должна
// выполниться дважды.
func (t *Tracker) Finalize() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	if t.listener != nil {
		t.listener.Finished()
	}
}

// Closed сообщает, была ли уже финализация.
func (t *Tracker) Closed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Snapshot отдаёт копию состояния; лок не удерживается дольше копирования.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := Snapshot{
		ContentLength: t.contentLength,
		Closed:        t.closed,
		Files:         make(map[string]Entry, len(t.entries)),
	}
	for id, e := range t.entries {
		out.Files[id] = *e
	}
	return out
}
