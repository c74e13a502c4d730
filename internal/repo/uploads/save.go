package uploads

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/sir_venger/upload_lite/internal/models"
)

// Save записывает (или обновляет) описание загрузки.
func (s *PGStore) Save(ctx context.Context, upload models.Upload) error {
	if upload.Files == nil {
		upload.Files = make(map[string]models.StoredFile)
	}

	filesJSON, err := json.Marshal(upload.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}

	sqlStr, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert(uploadsTable).
		Columns("id", "content_length", "files", "created_at").
		Values(upload.ID, upload.ContentLength, filesJSON, upload.CreatedAt).
		Suffix(`
					ON CONFLICT (id) DO UPDATE
					SET content_length = EXCLUDED.content_length,
						files          = EXCLUDED.files,
						created_at     = EXCLUDED.created_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert sql: %w", err)
	}

	if _, err := s.pool.Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("exec upsert: %w", err)
	}

	return nil
}
