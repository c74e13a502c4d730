// Package receiverhttp реализует HTTP-интерфейс приёма загрузок. Основные эндпоинты:
//   - GET  / — HTML-форма загрузки.
//   - POST / — принимает multipart-тело, стримя файлы в сторадж и считая прогресс.
//   - GET  /progress/{id} — снапшот прогресса загрузки для поллинга.
//   - GET  /progress/{id}/ws — websocket-фид того же снапшота.
//   - GET  /uploads/{id} — метаданные завершённой загрузки.
//   - GET  /uploads/{id}/files/{name} — содержимое сохранённого файла.
//   - GET  /health — агрегированные метрики по каталогу данных для health-check'ов.
//   - GET  /metrics — Prometheus-метрики.
package receiverhttp
