package receiverhttp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики приёмника. Байты считаются по фактически принятым дельтам из
// трекера, поэтому оборванные загрузки тоже попадают в счётчик.
var (
	uploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "receiver",
		Name:      "uploads_total",
		Help:      "Завершённые запросы загрузки по исходу.",
	}, []string{"outcome"})

	receivedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "receiver",
		Name:      "received_bytes_total",
		Help:      "Принятые байты файлов, включая оборванные загрузки.",
	})

	uploadsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "receiver",
		Name:      "uploads_in_flight",
		Help:      "Число запросов загрузки в обработке.",
	})

	fileSizeBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "receiver",
		Name:      "file_size_bytes",
		Help:      "Размеры полностью принятых файлов.",
		Buckets:   prometheus.ExponentialBuckets(1024, 4, 10),
	})
)
