package models

import "time"

// StoredFile описывает один принятый файл внутри загрузки.
type StoredFile struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Sha256 string `json:"sha256"`
	Path   string `json:"path,omitempty"`
}

// Upload содержит агрегированные метаданные об одной завершённой загрузке.
type Upload struct {
	ID            string                `json:"upload_id"`
	ContentLength int64                 `json:"content_length"`
	Files         map[string]StoredFile `json:"files"`
	CreatedAt     time.Time             `json:"created_at"`
}

// Clone возвращает копию структуры, чтобы не делиться внутренними картами.
func (u Upload) Clone() Upload {
	out := Upload{
		ID:            u.ID,
		ContentLength: u.ContentLength,
		Files:         map[string]StoredFile{},
		CreatedAt:     u.CreatedAt,
	}
	for name, f := range u.Files {
		out.Files[name] = f
	}
	return out
}
