package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/sir_venger/upload_lite/internal/models"
)

// Get возвращает описание загрузки по её идентификатору.
func (s *PGStore) Get(ctx context.Context, id string) (models.Upload, error) {
	if strings.TrimSpace(id) == "" {
		return models.Upload{}, fmt.Errorf("upload id is empty")
	}

	// COALESCE(files, '{}') — чтобы гарантированно получить валидный JSON для Unmarshal
	sqlStr, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select(
			"content_length",
			"COALESCE(files, '{}'::jsonb) AS files",
			"created_at",
		).
		From(uploadsTable).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return models.Upload{}, fmt.Errorf("build select: %w", err)
	}

	var (
		contentLength int64
		filesRaw      []byte
		createdAt     time.Time
	)

	if err = s.pool.QueryRow(ctx, sqlStr, args...).Scan(&contentLength, &filesRaw, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Upload{}, models.ErrNotFound
		}
		return models.Upload{}, fmt.Errorf("scan upload row: %w", err)
	}

	var files map[string]models.StoredFile
	if err := json.Unmarshal(filesRaw, &files); err != nil {
		return models.Upload{}, fmt.Errorf("unmarshal files: %w", err)
	}
	if files == nil {
		files = make(map[string]models.StoredFile)
	}

	return models.Upload{
		ID:            id,
		ContentLength: contentLength,
		Files:         files,
		CreatedAt:     createdAt,
	}.Clone(), nil
}
