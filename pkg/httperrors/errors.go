package httperrors

import (
	"context"
	"errors"
	"net/http"

	"github.com/sir_venger/upload_lite/internal/models"
)

func Write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrMalformedBody):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrBadFilename):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Клиент ушёл или время вышло; 499-подобного статуса в net/http нет.
		http.Error(w, err.Error(), http.StatusRequestTimeout)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
