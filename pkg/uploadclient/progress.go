package uploadclient

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sir_venger/upload_lite/pkg/humanize"
)

const (
	progressBarWidth     = 32
	progressRenderPeriod = 120 * time.Millisecond
)

// progressBar рисует ASCII-индикатор выполнения для отправляемого файла.
type progressBar struct {
	prefix        string
	total         int64
	current       int64
	lastRender    time.Time
	lastLineWidth int
	finished      bool
	mu            sync.Mutex
}

func newProgressBar(prefix string, total int64) *progressBar {
	return &progressBar{
		prefix: prefix,
		total:  total,
	}
}

func (p *progressBar) AddBytes(n int64) {
	if p == nil || n <= 0 {
		return
	}
	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.current += n
	p.mu.Unlock()
	p.render(false, "")
}

func (p *progressBar) render(force bool, suffix string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	if p.finished && !force {
		p.mu.Unlock()
		return
	}
	now := time.Now()
	if !force && now.Sub(p.lastRender) < progressRenderPeriod {
		p.mu.Unlock()
		return
	}

	line := p.lineLocked()
	prevWidth := p.lastLineWidth
	p.lastLineWidth = len(line) + len(suffix)
	p.lastRender = now
	p.mu.Unlock()

	padding := ""
	if prevWidth > len(line)+len(suffix) {
		padding = strings.Repeat(" ", prevWidth-len(line)-len(suffix))
	}
	fmt.Fprintf(os.Stdout, "\r%s%s%s", line, suffix, padding)
}

func (p *progressBar) lineLocked() string {
	var builder strings.Builder
	builder.Grow(len(p.prefix) + 64)
	builder.WriteString(p.prefix)
	builder.WriteByte(' ')

	if p.total > 0 {
		ratio := float64(p.current) / float64(p.total)
		if ratio > 1 {
			ratio = 1
		}
		filled := int(ratio*float64(progressBarWidth) + 0.5)
		if filled > progressBarWidth {
			filled = progressBarWidth
		}
		builder.WriteByte('[')
		builder.WriteString(strings.Repeat("=", filled))
		builder.WriteString(strings.Repeat(" ", progressBarWidth-filled))
		builder.WriteString("] ")
		builder.WriteString(fmt.Sprintf("%3d%% ", int(ratio*100+0.5)))
		builder.WriteString(humanize.Bytes(p.current))
		builder.WriteByte('/')
		builder.WriteString(humanize.Bytes(p.total))
	} else {
		builder.WriteString(humanize.Bytes(p.current))
		builder.WriteString(" sent")
	}

	return builder.String()
}

func (p *progressBar) Finish() {
	p.complete(true, nil)
}

func (p *progressBar) Fail(err error) {
	p.complete(false, err)
}

func (p *progressBar) complete(success bool, err error) {
	if p == nil {
		return
	}

	p.mu.Lock()
	if p.finished {
		p.mu.Unlock()
		return
	}
	p.finished = true
	line := p.lineLocked()
	prevWidth := p.lastLineWidth
	p.lastLineWidth = len(line)
	p.mu.Unlock()

	suffix := " ✓"
	if !success {
		if err != nil {
			suffix = fmt.Sprintf(" ✗ %v", err)
		} else {
			suffix = " ✗"
		}
	}

	padding := ""
	if prevWidth > len(line)+len(suffix) {
		padding = strings.Repeat(" ", prevWidth-len(line)-len(suffix))
	}

	fmt.Fprintf(os.Stdout, "\r%s%s%s\n", line, suffix, padding)
}

type progressWriter struct {
	bar *progressBar
}

func (w progressWriter) Write(p []byte) (int, error) {
	if len(p) > 0 && w.bar != nil {
		w.bar.AddBytes(int64(len(p)))
	}
	return len(p), nil
}
