package disk

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StartGC стартует периодическую чистку spool-каталога: оборванные загрузки
// оставляют частичные файлы на месте (ядро приёма их не трогает), и только
// TTL-очистка стораджа их добирает.
func StartGC(spoolDir string, ttl, every time.Duration) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				_ = sweepOnce(spoolDir, ttl)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// sweepOnce удаляет spool-каталоги загрузок, не менявшиеся дольше ttl.
func sweepOnce(root string, ttl time.Duration) error {
	now := time.Now()
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		pdir := filepath.Join(root, e.Name())
		// Каталог живой, пока хоть один файл в нём моложе ttl.
		files, err := os.ReadDir(pdir)
		if err != nil {
			continue
		}

		stale := true
		if len(files) == 0 {
			if info, err := e.Info(); err == nil && now.Sub(info.ModTime()) < ttl {
				stale = false
			}
		}
		for _, f := range files {
			info, err := f.Info()
			if err != nil {
				continue
			}
			if now.Sub(info.ModTime()) < ttl {
				stale = false
				break
			}
		}

		if stale {
			_ = os.RemoveAll(pdir)
		}
	}

	return nil
}
