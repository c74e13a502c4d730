package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sir_venger/upload_lite/internal/app/receiverhttp"
	"github.com/sir_venger/upload_lite/internal/config"
	"github.com/sir_venger/upload_lite/internal/usecase/uploadsvc"
	"github.com/sir_venger/upload_lite/pkg/uploadproto"
)

func newReceiver(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ListenAddr: ":0",
		MetaDSN:    "memory://",
		SpoolDir:   filepath.Join(t.TempDir(), "spool"),
		UploadsDir: filepath.Join(t.TempDir(), "uploads"),
	}

	handler, _, err := receiverhttp.NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("new receiver: %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

// Живой сценарий: тело запроса уходит кусками через pipe, а прогресс
// читается поллингом, пока передача ещё в полёте.
func Test_LiveProgress_MidFlight(t *testing.T) {
	srv := newReceiver(t)
	const uploadID = "live-1"

	pr, pw := io.Pipe()
	defer pw.CloseWithError(errors.New("test aborted"))
	mw := multipart.NewWriter(pw)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/", pr)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(uploadproto.HeaderUploadID, uploadID)

	respc := make(chan *http.Response, 1)
	errc := make(chan error, 1)
	go func() {
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			errc <- err
			return
		}
		respc <- resp
	}()

	// Полезная нагрузка без '\r': multipart-ридер на сервере не придерживает
	// байты в ожидании границы, и счётчик виден точным.
	chunk := bytes.Repeat([]byte{'a'}, 100)

	fw, err := mw.CreateFormFile("file", "a.txt")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := fw.Write(chunk); err != nil {
		t.Fatal(err)
	}
	waitEntry(t, srv.URL, uploadID, "a.txt", 100, false)

	if _, err := fw.Write(chunk); err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(chunk); err != nil {
		t.Fatal(err)
	}
	waitEntry(t, srv.URL, uploadID, "a.txt", 300, false)

	// Начало следующей части закрывает предыдущий файл.
	fw, err = mw.CreateFormFile("file", "b.txt")
	if err != nil {
		t.Fatal(err)
	}
	waitEntry(t, srv.URL, uploadID, "a.txt", 300, true)

	if _, err := fw.Write(bytes.Repeat([]byte{'b'}, 50)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	pw.Close()

	select {
	case err := <-errc:
		t.Fatalf("request failed: %v", err)
	case resp := <-respc:
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			t.Fatalf("upload status %s: %s", resp.Status, body)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("upload did not finish")
	}

	snap := fetchSnapshot(t, srv.URL, uploadID)
	if !snap.Closed {
		t.Fatal("tracker not finalized")
	}
	a, b := snap.Files["a.txt"], snap.Files["b.txt"]
	if a.UploadedBytes != 300 || !a.Complete {
		t.Fatalf("a.txt = %+v", a)
	}
	if b.UploadedBytes != 50 || !b.Complete {
		t.Fatalf("b.txt = %+v", b)
	}
}

// waitEntry поллит прогресс, пока файл не достигнет нужного объёма (и,
// опционально, завершённости). Канал чтения eventual-consistent, поэтому
// просто ждём с дедлайном.
func waitEntry(t *testing.T, baseURL, uploadID, file string, wantBytes int64, wantComplete bool) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	var last uploadsvc.Entry
	for time.Now().Before(deadline) {
		snap := fetchSnapshot(t, baseURL, uploadID)
		last = snap.Files[file]
		if last.UploadedBytes > wantBytes {
			t.Fatalf("%s overshot: %d > %d", file, last.UploadedBytes, wantBytes)
		}
		if last.UploadedBytes == wantBytes && (!wantComplete || last.Complete) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s stuck at %+v, want {%d %v}", file, last, wantBytes, wantComplete)
}

func fetchSnapshot(t *testing.T, baseURL, uploadID string) uploadsvc.Snapshot {
	t.Helper()

	resp, err := http.Get(fmt.Sprintf(uploadproto.ProgressPathFormat, baseURL, uploadID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("progress status %s", resp.Status)
	}

	var snap uploadsvc.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	return snap
}
