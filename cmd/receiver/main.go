package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sir_venger/upload_lite/internal/app/receiverhttp"
	"github.com/sir_venger/upload_lite/internal/config"
	"github.com/sir_venger/upload_lite/internal/storage/disk"
	"github.com/sir_venger/upload_lite/pkg/progresscli"
)

const (
	gcTTLHoursEnv         = "SPOOL_GC_TTL_HOURS"
	gcIntervalMinEnv      = "SPOOL_GC_INTERVAL_MIN"
	retentionMinEnv       = "PROGRESS_RETENTION_MIN"
	defaultGCTTLHours     = 24
	defaultGCIntervalMin  = 30
	defaultRetentionMin   = 10
	registryPurgeInterval = time.Minute
)

// main инициализирует HTTP-приёмник загрузок и обеспечивает корректное завершение по сигналу.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	handler, srv, err := receiverhttp.NewServer(cfg, progresscli.New(os.Stdout))
	if err != nil {
		log.Fatal(err)
	}

	// Фоновая чистка: spool-каталог от оборванных загрузок, реестр — от
	// завершённых трекеров после retention-периода.
	gcTTLHours := envInt(gcTTLHoursEnv, defaultGCTTLHours)
	gcEveryMin := envInt(gcIntervalMinEnv, defaultGCIntervalMin)
	stopGC := disk.StartGC(cfg.SpoolDir, time.Duration(gcTTLHours)*time.Hour, time.Duration(gcEveryMin)*time.Minute)
	defer stopGC()

	retentionMin := envInt(retentionMinEnv, defaultRetentionMin)
	stopPurge := srv.Registry.StartPurge(time.Duration(retentionMin)*time.Minute, registryPurgeInterval)
	defer stopPurge()

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("RECEIVER shutdown error: %v", err)
		}
	}()

	log.Printf("RECEIVER listening on %s (spool=%s, uploads=%s, GC ttl=%dh, every=%dm)",
		cfg.ListenAddr, cfg.SpoolDir, cfg.UploadsDir, gcTTLHours, gcEveryMin)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("RECEIVER final shutdown error: %v", err)
	}
}

// envInt возвращает целочисленное значение из переменной окружения либо дефолт.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
