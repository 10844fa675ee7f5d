// Package telemetry обеспечивает наблюдаемость оркестратора.
//
// Включает:
//   - logging.go — structured logging через slog с контекстными
//     помощниками WithWatcher/WithFile/WithTrigger
//   - metrics.go — Prometheus-метрики vigil_* (запуски и рестарты
//     watcher'ов, маршрутизация файлов, срабатывания триггеров)
//
// Формат и уровень логирования задаются переменными окружения
// LOG_FORMAT и LOG_LEVEL; метрики отдаёт /metrics команды orchestrate.
package telemetry
