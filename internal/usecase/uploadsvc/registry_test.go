package uploadsvc

import (
	"testing"
	"time"
)

func TestRegistry_PutGetDone(t *testing.T) {
	reg := NewRegistry()

	if _, ok := reg.Get("nope"); ok {
		t.Fatal("unexpected tracker")
	}

	tr := NewTracker(nil)
	reg.Put("u1", tr)

	got, ok := reg.Get("u1")
	if !ok || got != tr {
		t.Fatal("registered tracker not returned")
	}

	// После Done трекер остаётся читаемым до истечения retention.
	reg.Done("u1")
	if _, ok := reg.Get("u1"); !ok {
		t.Fatal("tracker dropped right after done")
	}
}

func TestRegistry_PurgeOnce(t *testing.T) {
	reg := NewRegistry()
	reg.Put("active", NewTracker(nil))
	reg.Put("finished", NewTracker(nil))
	reg.Done("finished")

	// Не вышедшие за ttl записи остаются.
	reg.purgeOnce(time.Hour, time.Now())
	if reg.Len() != 2 {
		t.Fatalf("len = %d, want 2", reg.Len())
	}

	// Сдвигаем "сейчас" за ttl: уходит только завершённый трекер.
	reg.purgeOnce(time.Hour, time.Now().Add(2*time.Hour))
	if _, ok := reg.Get("finished"); ok {
		t.Fatal("finished tracker survived purge")
	}
	if _, ok := reg.Get("active"); !ok {
		t.Fatal("active tracker purged")
	}
}
