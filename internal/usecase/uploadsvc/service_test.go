package uploadsvc

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"testing"

	"github.com/sir_venger/upload_lite/internal/models"
)

// fakeStore собирает синки в памяти и помнит, что именно закоммитили.
type fakeStore struct {
	*memSinkFactory
	committed []models.StoredFile
	commitErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{memSinkFactory: newMemSinkFactory()}
}

func (s *fakeStore) Commit(_ context.Context, _ string, files []models.StoredFile) ([]models.StoredFile, error) {
	if s.commitErr != nil {
		return nil, s.commitErr
	}
	out := make([]models.StoredFile, len(files))
	for i, f := range files {
		f.Path = "/fake/" + f.Name
		out[i] = f
	}
	s.committed = out
	return out, nil
}

func (s *fakeStore) Open(_, filename string) (io.ReadCloser, int64, error) {
	sink, ok := s.sinks[filename]
	if !ok {
		return nil, 0, models.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(sink.buf.Bytes())), int64(sink.buf.Len()), nil
}

type memMeta struct {
	saved map[string]models.Upload
}

func (m *memMeta) Get(_ context.Context, id string) (models.Upload, error) {
	u, ok := m.saved[id]
	if !ok {
		return models.Upload{}, models.ErrNotFound
	}
	return u, nil
}

func (m *memMeta) Save(_ context.Context, u models.Upload) error {
	m.saved[u.ID] = u
	return nil
}

func newService(store Store) (*Uploads, *memMeta) {
	meta := &memMeta{saved: map[string]models.Upload{}}
	return New(Deps{
		MetaStorage: meta,
		Store:       store,
		Registry:    NewRegistry(),
	}), meta
}

func receiveReq(t *testing.T, id string, build func(*multipart.Writer)) ReceiveRequest {
	t.Helper()
	body, ctype := multipartBody(t, build)
	return ReceiveRequest{UploadID: id, Body: body, ContentType: ctype, ContentLength: "400"}
}

func TestUploads_Receive_CommitsAndSaves(t *testing.T) {
	store := newFakeStore()
	svc, meta := newService(store)

	req := receiveReq(t, "u-1", func(mw *multipart.Writer) {
		fw, _ := mw.CreateFormFile("file", "a.txt")
		fw.Write(bytes.Repeat([]byte{'a'}, 300))
	})

	got, err := svc.Receive(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "u-1" || got.ContentLength != 400 {
		t.Fatalf("unexpected upload: %+v", got)
	}
	if f, ok := got.Files["a.txt"]; !ok || f.Size != 300 || f.Path != "/fake/a.txt" {
		t.Fatalf("unexpected file entry: %+v", got.Files)
	}
	if _, ok := meta.saved["u-1"]; !ok {
		t.Fatal("upload meta not saved")
	}
	if len(store.committed) != 1 {
		t.Fatalf("committed %d files, want 1", len(store.committed))
	}

	// Трекер остаётся в реестре и после завершения: наблюдатели дочитывают
	// финальный снапшот, чистка — забота purge.
	snap, ok := svc.Progress("u-1")
	if !ok || !snap.Closed {
		t.Fatalf("want closed snapshot after receive, got ok=%v snap=%+v", ok, snap)
	}
}

func TestUploads_Receive_GeneratesID(t *testing.T) {
	svc, _ := newService(newFakeStore())

	req := receiveReq(t, "", func(mw *multipart.Writer) {
		fw, _ := mw.CreateFormFile("file", "a.txt")
		fw.Write([]byte("hi"))
	})

	got, err := svc.Receive(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID == "" {
		t.Fatal("want generated upload id")
	}
}

func TestUploads_Receive_CommitError(t *testing.T) {
	store := newFakeStore()
	store.commitErr = errors.New("rename failed")
	svc, meta := newService(store)

	req := receiveReq(t, "u-2", func(mw *multipart.Writer) {
		fw, _ := mw.CreateFormFile("file", "a.txt")
		fw.Write([]byte("hi"))
	})

	got, err := svc.Receive(context.Background(), req)
	if err == nil {
		t.Fatal("want commit error")
	}
	if got.ID != "u-2" {
		t.Fatalf("error path must still carry upload id, got %q", got.ID)
	}
	if len(meta.saved) != 0 {
		t.Fatal("meta must not be saved on commit error")
	}
}

func TestUploads_OpenFile_UnknownUpload(t *testing.T) {
	svc, _ := newService(newFakeStore())

	if _, _, err := svc.OpenFile(context.Background(), "nope", "a.txt"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
