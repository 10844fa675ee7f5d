package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Метрики оркестрации.
//
// Supervisor не делает backoff при перезапуске упавших watcher'ов —
// защита от crash-loop отдана оператору. WatcherRestarts и есть тот
// сигнал, по которому crash-loop виден: rate() по нему на дашборде
// показывает частоту падений каждого watcher'а.
var (
	// WatcherStarts — количество запусков watcher-процессов.
	WatcherStarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_watcher_starts_total",
			Help: "Number of watcher process launches.",
		},
		[]string{"watcher"},
	)

	// WatcherRestarts — количество перезапусков после падения.
	WatcherRestarts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_watcher_restarts_total",
			Help: "Number of watcher relaunches after a crash.",
		},
		[]string{"watcher"},
	)

	// WatchersAlive — количество живых watcher-процессов.
	WatchersAlive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vigil_watchers_alive",
			Help: "Number of currently live watcher processes.",
		},
	)

	// FilesRouted — количество классифицированных task-файлов.
	FilesRouted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_files_routed_total",
			Help: "Number of inbox files classified by the router.",
		},
		[]string{"skill"},
	)

	// TriggerFires — количество срабатываний триггеров расписания.
	TriggerFires = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vigil_trigger_fires_total",
			Help: "Number of schedule trigger fires.",
		},
		[]string{"trigger"},
	)

	// AuditWriteErrors — количество ошибок записи audit-лога.
	AuditWriteErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vigil_audit_write_errors_total",
			Help: "Number of failed audit log writes.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		WatcherStarts,
		WatcherRestarts,
		WatchersAlive,
		FilesRouted,
		TriggerFires,
		AuditWriteErrors,
	)
}
