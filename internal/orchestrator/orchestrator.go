package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/config"
	"github.com/shaiso/Vigil/internal/router"
	"github.com/shaiso/Vigil/internal/scheduler"
	"github.com/shaiso/Vigil/internal/supervisor"
	"github.com/shaiso/Vigil/internal/vault"
)

// actorName — имя компонента в audit-логе.
const actorName = "orchestrator"

// Orchestrator — главный цикл системы.
//
// Orchestrator — единственный компонент с собственным циклом; он
// последовательно вызывает:
//   - Health-check supervisor'а (перезапуск упавших watcher'ов)
//   - Скан inbox роутером (классификация новых файлов)
//   - Тик scheduler'а (ежедневные и еженедельные триггеры)
//
// Порядок шагов фиксирован, шаги никогда не выполняются параллельно.
// Любая ошибка внутри итерации логируется и не прерывает цикл:
// оркестратор умирает только по сигналу остановки.
type Orchestrator struct {
	cfg    config.Config
	layout vault.Layout

	auditLog  *audit.Log
	superv    *supervisor.Supervisor
	router    *router.Router
	scheduler *scheduler.Scheduler

	logger  *slog.Logger
	state   atomic.Int32
	started atomic.Bool
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Config — общая конфигурация приложения. Должна быть
	// провалидирована вызывающим; New валидирует повторно.
	Config config.Config

	// Logger — логгер. Default: slog.Default().
	Logger *slog.Logger

	// Now — источник времени для scheduler'а (для тестов).
	Now func() time.Time
}

// New создаёт Orchestrator и все его компоненты.
//
// Структура vault создаётся сразу: если корень недоступен, это
// фатальная ошибка конфигурации и оркестратор не стартует.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.Config.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	layout := vault.NewLayout(cfg.Config.VaultPath)
	if err := layout.Ensure(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVaultNotReady, err)
	}

	auditLog := audit.New(audit.Config{
		Layout: layout,
		Logger: logger,
		Now:    cfg.Now,
	})

	superv := supervisor.New(supervisor.Config{
		Descriptors: cfg.Config.Watchers,
		VaultPath:   cfg.Config.VaultPath,
		DryRun:      cfg.Config.DryRun,
		AuditLog:    auditLog,
		Logger:      logger,
	})

	rtr := router.New(router.Config{
		Layout:   layout,
		AuditLog: auditLog,
		Logger:   logger,
	})

	sched := scheduler.New(scheduler.Config{
		Layout:          layout,
		DailyHour:       cfg.Config.DailyHour,
		WeeklyDay:       cfg.Config.WeeklyDay,
		DailyRenderer:   cfg.Config.DailyRenderer,
		RendererTimeout: cfg.Config.RendererTimeout,
		DryRun:          cfg.Config.DryRun,
		AuditLog:        auditLog,
		Logger:          logger,
		Now:             cfg.Now,
	})

	return &Orchestrator{
		cfg:       cfg.Config,
		layout:    layout,
		auditLog:  auditLog,
		superv:    superv,
		router:    rtr,
		scheduler: sched,
		logger:    logger,
	}, nil
}

// State возвращает текущую фазу жизненного цикла.
func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// AuditLog возвращает audit-лог оркестратора.
func (o *Orchestrator) AuditLog() *audit.Log {
	return o.auditLog
}

// LiveWatchers возвращает число живых watcher-процессов.
func (o *Orchestrator) LiveWatchers() int {
	return o.superv.LiveCount()
}

// Run выполняет основной цикл до отмены контекста.
//
// Первая итерация выполняется сразу, без ожидания тика. Отмена
// контекста переводит оркестратор в Stopping: watcher-процессы
// получают SIGTERM, в audit-лог пишется orchestrator_stopped,
// состояние становится Stopped. Run возвращает nil при graceful
// shutdown; единственная ошибка — повторный вызов Run.
func (o *Orchestrator) Run(ctx context.Context) error {
	// Однократность отслеживается отдельно от фазы: после остановки
	// state снова Stopped, но повторный Run по-прежнему запрещён.
	if !o.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	o.state.Store(int32(StateRunning))

	o.logger.Info("orchestrator starting",
		"vault", o.layout.Root,
		"tick_interval", o.cfg.TickInterval,
		"dry_run", o.cfg.DryRun,
		"no_watchers", o.cfg.NoWatchers,
	)

	o.auditLog.Record(actorName, audit.ActionOrchestratorStarted, o.layout.Root,
		audit.ResultSuccess,
		"dry_run", o.cfg.DryRun,
		"no_watchers", o.cfg.NoWatchers,
	)

	if !o.cfg.NoWatchers {
		o.superv.StartAll()
	}

	o.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			return nil
		case <-time.After(o.cfg.TickInterval):
			o.runOnce(ctx)
		}
	}
}

// runOnce выполняет одну итерацию: health-check → scan → tick.
//
// Ошибки шагов не прерывают итерацию: каждый шаг изолирован.
func (o *Orchestrator) runOnce(ctx context.Context) {
	if !o.cfg.NoWatchers {
		o.superv.HealthCheck()
	}

	if err := o.router.Scan(); err != nil {
		o.logger.Error("inbox scan failed", "error", err)
	}

	o.scheduler.Tick(ctx)
}

// shutdown останавливает watcher-процессы и финализирует audit-лог.
func (o *Orchestrator) shutdown() {
	o.state.Store(int32(StateStopping))
	o.logger.Info("orchestrator stopping...")

	o.superv.StopAll()

	o.auditLog.Record(actorName, audit.ActionOrchestratorStopped, o.layout.Root,
		audit.ResultSuccess)

	o.state.Store(int32(StateStopped))
	o.logger.Info("orchestrator stopped")
}
