package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Default configuration values.
const (
	DefaultTickInterval    = 60 * time.Second
	DefaultWatchInterval   = 60 * time.Second
	DefaultDailyHour       = 20 // 8 PM
	DefaultWeeklyDay       = 6  // воскресенье (0=Пн … 6=Вс)
	DefaultRendererTimeout = 120 * time.Second
	DefaultHandlerTimeout  = 60 * time.Second
	DefaultMetricsAddr     = ":9090"
)

// WatcherDescriptor — статическое описание одного watcher-процесса.
//
// Загружается из конфигурации при старте и никогда не мутируется.
// Имя уникально; именно по нему supervisor поддерживает инвариант
// «не более одного живого процесса на дескриптор».
type WatcherDescriptor struct {
	// Name — уникальный идентификатор watcher'а.
	Name string

	// Command — исполняемый файл и аргументы запуска.
	Command []string
}

// Config — явная конфигурация всех компонентов.
//
// Передаётся по значению в конструкторы; компоненты никогда не читают
// глобальное окружение в точке использования.
type Config struct {
	// VaultPath — корень vault.
	VaultPath string

	// DryRun — логировать намерения, не запуская процессы
	// и не записывая файлы задач и брифингов.
	DryRun bool

	// NoWatchers — не управлять watcher-процессами (только
	// роутинг и расписание).
	NoWatchers bool

	// TickInterval — период цикла оркестратора.
	TickInterval time.Duration

	// WatchInterval — период опроса источника внутри watcher'а.
	WatchInterval time.Duration

	// DailyHour — час суток (0–23) для ежедневного брифинга.
	DailyHour int

	// WeeklyDay — день недели (0=Пн … 6=Вс) для еженедельного
	// CEO-брифинга. Срабатывает в тот же час, что и DailyHour.
	WeeklyDay int

	// DailyRenderer — команда внешнего рендерера ежедневного
	// брифинга. Пустая команда — встроенный рендерер.
	DailyRenderer []string

	// RendererTimeout — таймаут запуска рендерера.
	RendererTimeout time.Duration

	// EmailHandler — команда отправки одобренного письма.
	EmailHandler []string

	// LinkedInHandler — команда публикации одобренного поста.
	LinkedInHandler []string

	// HandlerTimeout — таймаут запуска обработчика approval-файла.
	HandlerTimeout time.Duration

	// Watchers — дескрипторы управляемых watcher-процессов.
	Watchers []WatcherDescriptor

	// MetricsAddr — адрес HTTP-сервера /healthz и /metrics.
	MetricsAddr string
}

// Default возвращает конфигурацию со значениями по умолчанию.
// VaultPath берётся из переменной окружения VAULT_PATH, если задана.
func Default() Config {
	vault := os.Getenv("VAULT_PATH")
	if vault == "" {
		vault = "vault"
	}

	return Config{
		VaultPath:       vault,
		TickInterval:    DefaultTickInterval,
		WatchInterval:   DefaultWatchInterval,
		DailyHour:       DefaultDailyHour,
		WeeklyDay:       DefaultWeeklyDay,
		RendererTimeout: DefaultRendererTimeout,
		HandlerTimeout:  DefaultHandlerTimeout,
		MetricsAddr:     DefaultMetricsAddr,
	}
}

// Ошибки валидации конфигурации.
var (
	ErrNoVaultPath   = errors.New("vault path is empty")
	ErrBadDailyHour  = errors.New("daily hour out of range 0-23")
	ErrBadWeeklyDay  = errors.New("weekly day out of range 0-6")
	ErrBadInterval   = errors.New("interval must be positive")
	ErrEmptyWatcher  = errors.New("watcher descriptor has no command")
	ErrDuplicateName = errors.New("duplicate watcher name")
	ErrNoWatcherName = errors.New("watcher descriptor has no name")
)

// Validate проверяет конфигурацию перед стартом.
// Любая ошибка здесь фатальна: оркестратор не входит в Running.
func (c Config) Validate() error {
	if c.VaultPath == "" {
		return ErrNoVaultPath
	}
	if c.DailyHour < 0 || c.DailyHour > 23 {
		return fmt.Errorf("%w: %d", ErrBadDailyHour, c.DailyHour)
	}
	if c.WeeklyDay < 0 || c.WeeklyDay > 6 {
		return fmt.Errorf("%w: %d", ErrBadWeeklyDay, c.WeeklyDay)
	}
	if c.TickInterval <= 0 || c.WatchInterval <= 0 {
		return ErrBadInterval
	}

	names := make(map[string]bool, len(c.Watchers))
	for _, w := range c.Watchers {
		if w.Name == "" {
			return ErrNoWatcherName
		}
		if len(w.Command) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyWatcher, w.Name)
		}
		if names[w.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, w.Name)
		}
		names[w.Name] = true
	}

	return nil
}
