// Package progresscli рендерит события прогресса загрузок в консоль.
// Ядро приёма само никуда не пишет: печать — забота этого подписчика.
package progresscli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sir_venger/upload_lite/internal/usecase/uploadsvc"
	"github.com/sir_venger/upload_lite/pkg/humanize"
)

const renderPeriod = 120 * time.Millisecond

// Printer печатает строку на каждое значимое событие; частые промежуточные
// апдейты одного файла троттлятся, чтобы не заливать терминал.
type Printer struct {
	mu         sync.Mutex
	out        io.Writer
	lastRender time.Time
}

// New создаёт принтер поверх произвольного writer'а (обычно os.Stdout).
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

var _ uploadsvc.Listener = (*Printer)(nil)

// Started печатает строку о старте приёма с заявленным размером.
func (p *Printer) Started(contentLength int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s: upload of total size %s is starting\n",
		time.Now().Format("Jan 02, 3:04PM"),
		humanize.Bytes(contentLength),
	)
}

// FileProgress печатает накопленный объём файла; смена активного файла
// отбивается пустой строкой и рендерится всегда, без троттлинга.
func (p *Printer) FileProgress(fileID string, uploadedBytes int64, switched bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if !switched && now.Sub(p.lastRender) < renderPeriod {
		return
	}
	p.lastRender = now

	if switched {
		fmt.Fprintln(p.out)
	}
	p.line(fileID, uploadedBytes)
}

// FileDone печатает финальную строку файла вне зависимости от троттлинга.
func (p *Printer) FileDone(fileID string, uploadedBytes int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.line(fileID, uploadedBytes)
	fmt.Fprintf(p.out, "%s done\n", fileID)
}

// Finished отмечает конец запроса.
func (p *Printer) Finished() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.out, "upload finished")
}

func (p *Printer) line(fileID string, uploadedBytes int64) {
	fmt.Fprintf(p.out, "=> %d bytes (%s) %s\n", uploadedBytes, humanize.Bytes(uploadedBytes), fileID)
}
