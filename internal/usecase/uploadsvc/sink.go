package uploadsvc

import "io"

// ByteSink принимает байты одного файла и закрывается после его конца.
// Никакого знания о прогрессе у синка нет.
type ByteSink interface {
	io.Writer
	io.Closer
}

// Reporter получает события записи и закрытия от trackedSink.
type Reporter interface {
	RecordWrite(fileID string, delta int64)
	RecordClose(fileID string)
}

var _ Reporter = (*Tracker)(nil)

// trackedSink связывает один ByteSink с репортером прогресса: каждая запись
// сначала уходит в синк, и только принятые им байты попадают в счётчик.
type trackedSink struct {
	fileID   string
	sink     ByteSink
	reporter Reporter
}

func newTrackedSink(fileID string, sink ByteSink, reporter Reporter) *trackedSink {
	return &trackedSink{
		fileID:   fileID,
		sink:     sink,
		reporter: reporter,
	}
}

// Write пишет в синк и репортит фактически принятый объём. При ошибке синка
// дельта не репортится вовсе: в трекере остаются только подтверждённые байты.
func (s *trackedSink) Write(p []byte) (int, error) {
	n, err := s.sink.Write(p)
	if err != nil {
		return n, err
	}
	if n > 0 {
		s.reporter.RecordWrite(s.fileID, int64(n))
	}
	return n, nil
}

// Close закрывает синк и лишь после успешного закрытия помечает файл
// завершённым: completion подтверждается только после стораджа.
func (s *trackedSink) Close() error {
	if err := s.sink.Close(); err != nil {
		return err
	}
	s.reporter.RecordClose(s.fileID)
	return nil
}
