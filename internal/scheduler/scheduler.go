package scheduler

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/briefing"
	"github.com/shaiso/Vigil/internal/telemetry"
	"github.com/shaiso/Vigil/internal/vault"
)

// actorName — имя компонента в audit-логе.
const actorName = "scheduler"

// Имена триггеров для метрик и логов.
const (
	TriggerDaily  = "daily"
	TriggerWeekly = "weekly"
)

const defaultRendererTimeout = 120 * time.Second

// Scheduler проверяет wall-clock триггеры раз в тик и запускает
// периодические задачи: ежедневную сводку и еженедельный CEO-брифинг.
//
// Состояние «последнего запуска» держится только в памяти: после
// рестарта ближайший подходящий тик срабатывает снова. Это осознанная
// at-least-once семантика периодических задач.
type Scheduler struct {
	layout    vault.Layout
	dailyHour int
	weeklyDay int // 0=Пн … 6=Вс

	dailyRenderer   []string
	rendererTimeout time.Duration
	dryRun          bool

	auditLog *audit.Log
	logger   *slog.Logger
	now      func() time.Time

	lastDaily  string // "YYYY-MM-DD" последнего daily-запуска
	lastWeekly string // "YYYY-MM-DD" последнего weekly-запуска
}

// Config — конфигурация Scheduler.
type Config struct {
	Layout          vault.Layout
	DailyHour       int
	WeeklyDay       int      // 0=Пн … 6=Вс
	DailyRenderer   []string // внешний рендерер; пусто — встроенный
	RendererTimeout time.Duration
	DryRun          bool
	AuditLog        *audit.Log
	Logger          *slog.Logger
	Now             func() time.Time // для тестов; default: time.Now
}

// New создаёт Scheduler.
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	timeout := cfg.RendererTimeout
	if timeout <= 0 {
		timeout = defaultRendererTimeout
	}
	return &Scheduler{
		layout:          cfg.Layout,
		dailyHour:       cfg.DailyHour,
		weeklyDay:       cfg.WeeklyDay,
		dailyRenderer:   cfg.DailyRenderer,
		rendererTimeout: timeout,
		dryRun:          cfg.DryRun,
		auditLog:        cfg.AuditLog,
		logger:          logger,
		now:             now,
	}
}

// Tick выполняет одну проверку триггеров.
//
// Триггеры оцениваются на грубых часах (тик оркестратора): условие
// считается выполненным весь час, в котором совпадает DailyHour, —
// от повторных срабатываний защищает маркер последнего запуска, а не
// граница тика. Weekly-триггер приоритетен и подавляет daily на весь
// день: еженедельный брифинг — надмножество ежедневного.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.now()
	switch {
	case s.weeklyDue(now):
		s.runWeekly(now)
	case s.dailyDue(now):
		s.runDaily(ctx, now)
	}
}

func (s *Scheduler) dailyDue(now time.Time) bool {
	return now.Hour() == s.dailyHour && s.lastDaily != dateOf(now)
}

func (s *Scheduler) weeklyDue(now time.Time) bool {
	return weekdayMondayBased(now) == s.weeklyDay &&
		now.Hour() == s.dailyHour &&
		s.lastWeekly != dateOf(now)
}

// runDaily запускает ежедневную сводку.
//
// Маркер последнего запуска сдвигается безусловно — даже при ошибке
// рендерера: не более одного запуска за период, без retry-штормов.
func (s *Scheduler) runDaily(ctx context.Context, now time.Time) {
	defer func() { s.lastDaily = dateOf(now) }()

	logger := telemetry.WithTrigger(s.logger, TriggerDaily)
	logger.Info("triggering daily briefing")
	telemetry.TriggerFires.WithLabelValues(TriggerDaily).Inc()

	if s.dryRun {
		logger.Info("[dry run] would render daily briefing")
		s.auditLog.Record(actorName, audit.ActionDailyBriefing, s.rendererName(), audit.ResultDryRun)
		return
	}

	if len(s.dailyRenderer) == 0 {
		name, err := briefing.WriteDaily(s.layout, now)
		if err != nil {
			logger.Error("daily briefing failed", "error", err)
			s.auditLog.Record(actorName, audit.ActionDailyBriefing, "builtin", audit.ResultError,
				"error", err.Error())
			return
		}
		logger.Info("daily briefing completed", "file", name)
		s.auditLog.Record(actorName, audit.ActionDailyBriefing, name, audit.ResultSuccess)
		return
	}

	s.invokeRenderer(ctx, logger)
}

// invokeRenderer запускает внешний рендерер под таймаутом.
// Просроченный процесс бросается и записывается как ошибка — он не
// ожидается бесконечно.
func (s *Scheduler) invokeRenderer(ctx context.Context, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(ctx, s.rendererTimeout)
	defer cancel()

	name := s.rendererName()
	cmd := exec.CommandContext(ctx, s.dailyRenderer[0], s.dailyRenderer[1:]...)
	cmd.Env = append(os.Environ(), "VAULT_PATH="+s.layout.Root)

	out, err := cmd.CombinedOutput()
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		logger.Error("daily renderer timed out", "timeout", s.rendererTimeout)
		s.auditLog.Record(actorName, audit.ActionDailyBriefing, name, audit.ResultError,
			"error", "timeout")
	case err != nil:
		logger.Error("daily renderer failed", "error", err, "output", string(out))
		s.auditLog.Record(actorName, audit.ActionDailyBriefing, name, audit.ResultError,
			"error", err.Error())
	default:
		logger.Info("daily briefing completed")
		s.auditLog.Record(actorName, audit.ActionDailyBriefing, name, audit.ResultSuccess)
	}
}

// runWeekly рендерит еженедельный CEO-брифинг.
//
// Сдвигаются оба маркера: еженедельный брифинг — надмножество
// ежедневного, поэтому в день weekly ежедневная сводка не нужна
// вовсе, а не только в том же тике.
func (s *Scheduler) runWeekly(now time.Time) {
	defer func() {
		s.lastWeekly = dateOf(now)
		s.lastDaily = dateOf(now)
	}()

	logger := telemetry.WithTrigger(s.logger, TriggerWeekly)
	logger.Info("triggering weekly CEO briefing")
	telemetry.TriggerFires.WithLabelValues(TriggerWeekly).Inc()

	if s.dryRun {
		logger.Info("[dry run] would write CEO briefing")
		s.auditLog.Record(actorName, audit.ActionCEOBriefing, "ceo_briefing", audit.ResultDryRun)
		return
	}

	name, err := briefing.WriteWeekly(s.layout, now)
	if err != nil {
		logger.Error("CEO briefing failed", "error", err)
		s.auditLog.Record(actorName, audit.ActionCEOBriefing, "ceo_briefing", audit.ResultError,
			"error", err.Error())
		return
	}

	logger.Info("CEO briefing written", "file", name)
	s.auditLog.Record(actorName, audit.ActionCEOBriefing, name, audit.ResultSuccess)
}

func (s *Scheduler) rendererName() string {
	if len(s.dailyRenderer) == 0 {
		return "builtin"
	}
	return s.dailyRenderer[0]
}

func dateOf(t time.Time) string {
	return t.Format("2006-01-02")
}

// weekdayMondayBased переводит time.Weekday (0=Вс) в соглашение
// конфигурации 0=Пн … 6=Вс.
func weekdayMondayBased(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
