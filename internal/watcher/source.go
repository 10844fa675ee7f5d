package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/telemetry"
)

// Item — один новый элемент, обнаруженный источником.
type Item struct {
	// Key — уникальный идентификатор элемента (обычно имя файла).
	Key string

	// Path — путь к исходному файлу.
	Path string
}

// Source — опрашиваемый источник работы.
//
// Poll возвращает новые элементы с момента прошлого опроса;
// Materialize превращает элемент в действие (обычно task-файл в inbox)
// и возвращает имя результата. Источник внедряется в общий Runner —
// единственный цикл опроса на все виды watcher'ов.
type Source interface {
	Name() string
	Poll(ctx context.Context) ([]Item, error)
	Materialize(ctx context.Context, item Item) (string, error)
}

// Параметры retry при опросе источника.
const (
	defaultMaxRetries = 3
	defaultRetryBase  = 5 * time.Second
	maxRetryDelay     = 60 * time.Second
)

// Runner — общий цикл watcher-процесса: опрос с retry, материализация
// каждого элемента, audit-записи, сон до следующего интервала.
type Runner struct {
	source     Source
	interval   time.Duration
	maxRetries int
	retryBase  time.Duration

	auditLog *audit.Log
	logger   *slog.Logger
}

// RunnerConfig — конфигурация Runner.
type RunnerConfig struct {
	Source     Source
	Interval   time.Duration
	MaxRetries int           // default: 3
	RetryBase  time.Duration // default: 5s, экспоненциально до 60s
	AuditLog   *audit.Log
	Logger     *slog.Logger
}

// NewRunner создаёт Runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	retryBase := cfg.RetryBase
	if retryBase <= 0 {
		retryBase = defaultRetryBase
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	return &Runner{
		source:     cfg.Source,
		interval:   interval,
		maxRetries: maxRetries,
		retryBase:  retryBase,
		auditLog:   cfg.AuditLog,
		logger:     telemetry.WithWatcher(logger, cfg.Source.Name()),
	}
}

// Run крутит цикл опроса до отмены контекста.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("watcher starting", "interval", r.interval)

	for {
		r.runOnce(ctx)

		select {
		case <-ctx.Done():
			r.logger.Info("watcher stopped")
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

// runOnce — одна итерация: опрос с retry и материализация найденного.
func (r *Runner) runOnce(ctx context.Context) {
	items := r.pollWithRetry(ctx)
	created := 0

	for _, item := range items {
		name, err := r.source.Materialize(ctx, item)
		if err != nil {
			telemetry.WithFile(r.logger, item.Key).Error("failed to materialize item", "error", err)
			r.auditLog.Record(r.source.Name(), audit.ActionFileFailed, item.Key, audit.ResultError,
				"error", err.Error())
			continue
		}
		telemetry.WithFile(r.logger, name).Info("action file created")
		r.auditLog.Record(r.source.Name(), audit.ActionFileCreated, name, audit.ResultSuccess)
		created++
	}

	if created > 0 {
		r.logger.Info("processed new items", "count", created)
	}
}

// pollWithRetry опрашивает источник с экспоненциальным backoff.
// После исчерпания попыток ошибка уходит в audit-лог (check_failed),
// и итерация считается пустой.
func (r *Runner) pollWithRetry(ctx context.Context) []Item {
	for attempt := 0; attempt < r.maxRetries; attempt++ {
		items, err := r.source.Poll(ctx)
		if err == nil {
			return items
		}

		if attempt == r.maxRetries-1 {
			r.logger.Error("all poll attempts failed", "attempts", r.maxRetries, "error", err)
			r.auditLog.Record(r.source.Name(), audit.ActionCheckFailed, "external_source", audit.ResultError,
				"error", err.Error(), "attempts", r.maxRetries)
			return nil
		}

		delay := r.retryBase << attempt
		if delay > maxRetryDelay {
			delay = maxRetryDelay
		}
		r.logger.Warn("poll attempt failed, retrying", "attempt", attempt+1, "delay", delay, "error", err)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
	}
	return nil
}
