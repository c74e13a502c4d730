package uploadsvc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/url"
	"strings"

	"github.com/sir_venger/upload_lite/internal/models"
)

// Лимит на размер одного не-файлового поля формы.
const formValueLimit = 1 << 20

type receiverState int

const (
	stateIdle receiverState = iota
	stateParsing
	stateCompleted
	stateAborted
)

// SinkFactory выдаёт новый приёмник байтов для каждого обнаруженного файла.
type SinkFactory interface {
	CreateSink(uploadID, filename string) (ByteSink, error)
}

// Receiver проводит multipart-тело запроса через tracked-синки: парсинг и
// запись в сторадж идут одним проходом, без буферизации тела. Экземпляр
// одноразовый: после Completed/Aborted повторный запуск запрещён.
type Receiver struct {
	uploadID string
	tracker  *Tracker
	sinks    SinkFactory

	state receiverState
	form  url.Values
	files []models.StoredFile
}

// NewReceiver связывает трекер запроса с фабрикой синков.
func NewReceiver(uploadID string, tracker *Tracker, sinks SinkFactory) *Receiver {
	return &Receiver{
		uploadID: uploadID,
		tracker:  tracker,
		sinks:    sinks,
		form:     url.Values{},
	}
}

// Run читает части тела в порядке прихода с провода. Финализация трекера
// выполняется на любом исходе — нормальном, ошибочном и при отмене контекста.
func (r *Receiver) Run(ctx context.Context, body io.Reader, contentType string) (err error) {
	if r.state != stateIdle {
		return fmt.Errorf("receiver already used")
	}
	r.state = stateParsing

	defer func() {
		r.tracker.Finalize()
		if err != nil {
			r.state = stateAborted
		} else {
			r.state = stateCompleted
		}
	}()

	mr, err := newBodyReader(body, contentType)
	if err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", models.ErrMalformedBody, err)
		}

		// Часть без имени файла — обычное поле формы; сюда же попадает
		// file-input без выбранного файла.
		if part.FileName() == "" {
			if err := r.consumeFormValue(part); err != nil {
				return err
			}
			continue
		}

		if err := r.receiveFile(part); err != nil {
			return err
		}
	}
}

// receiveFile создаёт свежий синк, оборачивает его трекингом и прокачивает
// байты части в порядке прихода, попутно считая SHA-256.
func (r *Receiver) receiveFile(part *multipart.Part) error {
	name := part.FileName()

	sink, err := r.sinks.CreateSink(r.uploadID, name)
	if err != nil {
		return err
	}

	tracked := newTrackedSink(name, sink, r.tracker)
	hasher := sha256.New()

	n, err := io.Copy(io.MultiWriter(tracked, hasher), partReader{part})
	if err != nil {
		// Закрываем сырой синк в обход репортера: completion при аварии
		// не репортится, но ресурс освобождается безусловно.
		_ = sink.Close()
		return err
	}

	if err := tracked.Close(); err != nil {
		return err
	}

	r.files = append(r.files, models.StoredFile{
		Name:   name,
		Size:   n,
		Sha256: hex.EncodeToString(hasher.Sum(nil)),
	})
	return nil
}

func (r *Receiver) consumeFormValue(part *multipart.Part) error {
	field := part.FormName()
	if field == "" {
		_, err := io.Copy(io.Discard, part)
		return err
	}

	b, err := io.ReadAll(io.LimitReader(part, formValueLimit))
	if err != nil {
		return err
	}
	r.form.Add(field, string(b))
	return nil
}

// Files возвращает описания принятых файлов в порядке появления в теле.
func (r *Receiver) Files() []models.StoredFile {
	return append([]models.StoredFile{}, r.files...)
}

// Form возвращает накопленные значения не-файловых полей.
func (r *Receiver) Form() url.Values {
	return r.form
}

// Completed и Aborted — терминальные состояния адаптера.
func (r *Receiver) Completed() bool { return r.state == stateCompleted }
func (r *Receiver) Aborted() bool   { return r.state == stateAborted }

// partReader помечает ошибки чтения части как сломанное тело запроса:
// срыв на проводе — это не ошибка стораджа.
type partReader struct {
	part io.Reader
}

func (p partReader) Read(b []byte) (int, error) {
	n, err := p.part.Read(b)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: %v", models.ErrMalformedBody, err)
	}
	return n, err
}

// newBodyReader валидирует Content-Type и отдаёт потоковый multipart-ридер.
func newBodyReader(body io.Reader, contentType string) (*multipart.Reader, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedBody, err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return nil, fmt.Errorf("%w: unexpected content type %q", models.ErrMalformedBody, mediaType)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return nil, fmt.Errorf("%w: missing boundary", models.ErrMalformedBody)
	}

	return multipart.NewReader(body, boundary), nil
}
