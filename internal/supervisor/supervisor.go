package supervisor

import (
	"log/slog"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/telemetry"
)

// actorName — имя компонента в audit-логе.
const actorName = "supervisor"

// Supervisor запускает watcher-процессы и поддерживает их живыми.
//
// Все операции вызываются из одного цикла оркестратора, поэтому
// внутреннее состояние не нуждается в синхронизации.
type Supervisor struct {
	descriptors []config.WatcherDescriptor
	vaultPath   string
	dryRun      bool

	handles map[string]*Handle

	auditLog *audit.Log
	logger   *slog.Logger
}

// Config — конфигурация Supervisor.
type Config struct {
	Descriptors []config.WatcherDescriptor
	VaultPath   string
	DryRun      bool
	AuditLog    *audit.Log
	Logger      *slog.Logger
}

// New создаёт Supervisor.
func New(cfg Config) *Supervisor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		descriptors: cfg.Descriptors,
		vaultPath:   cfg.VaultPath,
		dryRun:      cfg.DryRun,
		handles:     make(map[string]*Handle),
		auditLog:    cfg.AuditLog,
		logger:      logger,
	}
}

// Start запускает один дескриптор и регистрирует handle.
//
// Ошибка запуска не поднимается вызывающему: она записывается в
// audit-лог (watcher_start_failed), и для этого тика операция
// становится no-op. В dry-run процесс не запускается вовсе.
func (s *Supervisor) Start(desc config.WatcherDescriptor) {
	logger := telemetry.WithWatcher(s.logger, desc.Name)

	if s.dryRun {
		logger.Info("[dry run] would start watcher")
		s.auditLog.Record(actorName, audit.ActionWatcherStarted, desc.Name, audit.ResultDryRun)
		return
	}

	logger.Info("starting watcher")
	h, err := launch(desc, s.vaultPath)
	if err != nil {
		logger.Error("failed to start watcher", "error", err)
		s.auditLog.Record(actorName, audit.ActionWatcherStartFailed, desc.Name, audit.ResultError,
			"error", err.Error())
		return
	}

	s.handles[desc.Name] = h
	telemetry.WatcherStarts.WithLabelValues(desc.Name).Inc()
	telemetry.WatchersAlive.Set(float64(len(s.handles)))

	logger.Info("watcher started", "pid", h.PID, "handle_id", h.ID)
	s.auditLog.Record(actorName, audit.ActionWatcherStarted, desc.Name, audit.ResultSuccess,
		"pid", h.PID, "handle_id", h.ID.String())
}

// StartAll запускает все сконфигурированные дескрипторы.
func (s *Supervisor) StartAll() {
	for _, desc := range s.descriptors {
		s.Start(desc)
	}
}

// HealthCheck проверяет каждый живой handle неблокирующим опросом.
//
// Завершившийся процесс записывается в audit-лог (watcher_crashed,
// restarting, с кодом выхода) и немедленно перезапускается через
// Start. Без backoff и без потолка перезапусков: watcher, падающий
// каждый тик, перезапускается каждый тик. Защита от crash-loop —
// забота оператора через метрику vigil_watcher_restarts_total.
func (s *Supervisor) HealthCheck() {
	for name, h := range s.handles {
		if !h.Exited() {
			continue
		}

		code := h.ExitCode()
		delete(s.handles, name)
		telemetry.WatchersAlive.Set(float64(len(s.handles)))
		telemetry.WatcherRestarts.WithLabelValues(name).Inc()

		telemetry.WithWatcher(s.logger, name).Warn("watcher exited, restarting",
			"exit_code", code,
			"uptime", h.StartedAt,
		)
		s.auditLog.Record(actorName, audit.ActionWatcherCrashed, name, audit.ResultRestarting,
			"exit_code", code)

		s.Start(h.Descriptor)
	}
}

// StopAll посылает SIGTERM всем живым handle и очищает состояние.
// Вызывается только при остановке оркестратора.
func (s *Supervisor) StopAll() {
	for name, h := range s.handles {
		if err := h.Terminate(); err != nil {
			telemetry.WithWatcher(s.logger, name).Warn("failed to terminate watcher", "error", err)
			continue
		}
		telemetry.WithWatcher(s.logger, name).Info("watcher stopped")
	}
	s.handles = make(map[string]*Handle)
	telemetry.WatchersAlive.Set(0)
}

// Handle возвращает живой handle дескриптора, если он есть.
func (s *Supervisor) Handle(name string) (*Handle, bool) {
	h, ok := s.handles[name]
	return h, ok
}

// LiveCount возвращает количество живых handle.
func (s *Supervisor) LiveCount() int {
	return len(s.handles)
}
