// Package uploadproto описывает HTTP-протокол сервиса приёма загрузок.
package uploadproto

// Параметры REST-протокола приёма файлов и чтения прогресса.
const (
	HeaderUploadID = "X-Upload-Id"

	UploadPath         = "/"
	ProgressPathFormat = "%s/progress/%s"
	UploadMetaFormat   = "%s/uploads/%s"
	StoredFileFormat   = "%s/uploads/%s/files/%s"
)
