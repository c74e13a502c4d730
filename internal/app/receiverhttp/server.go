package receiverhttp

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sir_venger/upload_lite/internal/config"
	"github.com/sir_venger/upload_lite/internal/repo"
	"github.com/sir_venger/upload_lite/internal/storage/disk"
	"github.com/sir_venger/upload_lite/internal/usecase/uploadsvc"
)

type Server struct {
	Uploads  uploadsvc.Service
	Registry *uploadsvc.Registry
	Store    *disk.Store
	Cfg      *config.Config
}

// NewServer конструктор
func NewServer(cfg *config.Config, listener uploadsvc.Listener) (http.Handler, *Server, error) {
	service, registry, store, err := buildUploadService(cfg, listener)
	if err != nil {
		return nil, nil, err
	}

	srv := &Server{
		Uploads:  service,
		Registry: registry,
		Store:    store,
		Cfg:      cfg,
	}

	rtr := chi.NewRouter()
	rtr.Get("/", srv.uploadForm)
	rtr.Post("/", srv.postUpload)
	rtr.Get("/progress/{id}", srv.getProgress)
	rtr.Get("/progress/{id}/ws", srv.streamProgress)
	rtr.Get("/uploads/{id}", srv.getUpload)
	rtr.Get("/uploads/{id}/files/{name}", srv.getStoredFile)
	rtr.Get("/health", srv.health)
	rtr.Handle("/metrics", promhttp.Handler())

	return rtr, srv, nil
}

func buildUploadService(cfg *config.Config, listener uploadsvc.Listener) (uploadsvc.Service, *uploadsvc.Registry, *disk.Store, error) {
	store, err := disk.New(cfg.SpoolDir, cfg.UploadsDir)
	if err != nil {
		return nil, nil, nil, err
	}

	meta, err := repo.Open(context.Background(), cfg.MetaDSN)
	if err != nil {
		return nil, nil, nil, err
	}

	registry := uploadsvc.NewRegistry()
	service := uploadsvc.New(uploadsvc.Deps{
		MetaStorage: meta,
		Store:       store,
		Registry:    registry,
		Listener:    listener,
	})

	return service, registry, store, nil
}
