// Package disk реализует сторадж-коллаборатор поверх локального диска:
// принимаемые файлы пишутся в spool-каталог и при коммите переезжают в
// постоянный каталог загрузок.
package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sir_venger/upload_lite/internal/models"
	"github.com/sir_venger/upload_lite/internal/usecase/uploadsvc"
)

// Ограничение на параллельность переноса файлов при коммите.
const commitConcurrency = 4

// Store хранит spool- и uploads-каталоги. Создание каталогов — забота
// конструктора, а не горячего пути запроса.
type Store struct {
	spoolDir   string
	uploadsDir string
}

// New провизионит оба каталога и возвращает готовый сторадж.
func New(spoolDir, uploadsDir string) (*Store, error) {
	if strings.TrimSpace(spoolDir) == "" || strings.TrimSpace(uploadsDir) == "" {
		return nil, fmt.Errorf("spool and uploads dirs are required")
	}
	for _, dir := range []string{spoolDir, uploadsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	return &Store{
		spoolDir:   spoolDir,
		uploadsDir: uploadsDir,
	}, nil
}

var _ uploadsvc.Store = (*Store)(nil)

// CreateSink открывает spool-файл под очередную часть. Возвращается голый
// *os.File: контракт синка — только Write и Close.
func (s *Store) CreateSink(uploadID, filename string) (uploadsvc.ByteSink, error) {
	name, err := safeName(filename)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.spoolDir, uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return os.Create(filepath.Join(dir, name))
}

// Commit переносит spool-файлы завершённой загрузки в постоянный каталог.
// Переносы независимы, поэтому идут параллельно.
func (s *Store) Commit(ctx context.Context, uploadID string, files []models.StoredFile) ([]models.StoredFile, error) {
	if len(files) == 0 {
		// Пустая загрузка валидна: spool-каталог просто убирается.
		_ = os.RemoveAll(filepath.Join(s.spoolDir, uploadID))
		return nil, nil
	}

	dstDir := filepath.Join(s.uploadsDir, uploadID)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return nil, err
	}

	out := make([]models.StoredFile, len(files))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(commitConcurrency)

	for i, f := range files {
		i, f := i, f
		eg.Go(func() error {
			name, err := safeName(f.Name)
			if err != nil {
				return err
			}

			dst := filepath.Join(dstDir, name)
			if err := os.Rename(filepath.Join(s.spoolDir, uploadID, name), dst); err != nil {
				return err
			}

			f.Path = dst
			out[i] = f
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	_ = os.Remove(filepath.Join(s.spoolDir, uploadID))
	return out, nil
}

// Open возвращает отдельный read-хендл на сохранённый файл и его размер.
func (s *Store) Open(uploadID, filename string) (io.ReadCloser, int64, error) {
	name, err := safeName(filename)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(filepath.Join(s.uploadsDir, uploadID, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, models.ErrNotFound
		}
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}

// UploadsDir возвращает корень постоянного хранилища.
func (s *Store) UploadsDir() string {
	return s.uploadsDir
}

// SpoolDir возвращает корень spool-каталога.
func (s *Store) SpoolDir() string {
	return s.spoolDir
}

// safeName сводит имя к базовому и отклоняет пустые и точечные имена.
func safeName(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", models.ErrBadFilename
	}
	return base, nil
}
