package models

import "errors"

var (
	ErrNotFound      = errors.New("upload not found")
	ErrMalformedBody = errors.New("malformed multipart body")
	ErrBadFilename   = errors.New("bad file name")
)
