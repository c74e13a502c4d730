package uploadsvc

import (
	"sync"
	"time"
)

type regEntry struct {
	tracker *Tracker
	doneAt  time.Time
}

// Registry раздаёт трекеры активных загрузок наблюдателям (поллинг,
// websocket). Завершённые трекеры живут ещё retention-период, чтобы клиент
// успел прочитать финальное состояние.
type Registry struct {
	mu       sync.RWMutex
	trackers map[string]*regEntry
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{trackers: map[string]*regEntry{}}
}

// Put регистрирует трекер под идентификатором загрузки.
func (r *Registry) Put(id string, t *Tracker) {
	if id == "" || t == nil {
		return
	}
	r.mu.Lock()
	r.trackers[id] = &regEntry{tracker: t}
	r.mu.Unlock()
}

// Get возвращает трекер по идентификатору.
func (r *Registry) Get(id string) (*Tracker, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.trackers[id]
	if !ok {
		return nil, false
	}
	return e.tracker, true
}

// Done помечает загрузку завершённой; с этого момента тикает retention.
func (r *Registry) Done(id string) {
	r.mu.Lock()
	if e, ok := r.trackers[id]; ok && e.doneAt.IsZero() {
		e.doneAt = time.Now()
	}
	r.mu.Unlock()
}

// Len возвращает число зарегистрированных трекеров.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.trackers)
}

// StartPurge стартует периодическую чистку завершённых трекеров старше ttl.
func (r *Registry) StartPurge(ttl, every time.Duration) func() {
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
				r.purgeOnce(ttl, time.Now())
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

// purgeOnce удаляет записи, завершённые раньше, чем now-ttl.
func (r *Registry) purgeOnce(ttl time.Duration, now time.Time) {
	r.mu.Lock()
	for id, e := range r.trackers {
		if !e.doneAt.IsZero() && now.Sub(e.doneAt) >= ttl {
			delete(r.trackers, id)
		}
	}
	r.mu.Unlock()
}
