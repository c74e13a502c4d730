// Package repo выбирает и конструирует хранилище метаданных загрузок.
package repo

import (
	"context"
	"strings"

	"github.com/sir_venger/upload_lite/internal/repo/uploads"
	"github.com/sir_venger/upload_lite/internal/usecase/uploadsvc"
)

// Open возвращает стор по DSN: пустая строка и memory:// дают in-memory
// хранилище, всё остальное трактуется как Postgres DSN.
func Open(ctx context.Context, dsn string) (uploadsvc.MetaStorage, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" || strings.HasPrefix(dsn, "memory://") {
		return NewMemoryStore(), nil
	}
	return uploads.NewPGStore(ctx, dsn)
}
