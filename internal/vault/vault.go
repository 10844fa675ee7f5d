package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Layout — структура директорий vault.
//
// Vault — единственное постоянное хранилище системы и одновременно
// шина сообщений между компонентами. Все пути вычисляются от Root.
type Layout struct {
	// Root — корневая директория vault.
	Root string
}

// NewLayout создаёт Layout для указанного корня.
func NewLayout(root string) Layout {
	return Layout{Root: root}
}

// NeedsAction — директория входящих task-файлов (inbox).
func (l Layout) NeedsAction() string { return filepath.Join(l.Root, "Needs_Action") }

// Done — терминальная директория обработанных task-файлов.
func (l Layout) Done() string { return filepath.Join(l.Root, "Done") }

// Logs — директория audit-логов и служебного состояния.
func (l Layout) Logs() string { return filepath.Join(l.Root, "Logs") }

// Orders — drop-директория для CSV-экспортов заказов.
func (l Layout) Orders() string { return filepath.Join(l.Root, "Orders") }

// Approved — drop-директория одобренных черновиков.
func (l Layout) Approved() string { return filepath.Join(l.Root, "Approved") }

// PendingApproval — директория черновиков, ожидающих одобрения.
func (l Layout) PendingApproval() string { return filepath.Join(l.Root, "Pending_Approval") }

// Briefings — директория сгенерированных брифингов.
func (l Layout) Briefings() string { return filepath.Join(l.Root, "Briefings") }

// Secrets — директория с выданными credentials (только чтение).
func (l Layout) Secrets() string { return filepath.Join(l.Root, ".secrets") }

// AuditFile возвращает путь к дневной партиции audit-лога.
func (l Layout) AuditFile(day time.Time) string {
	return filepath.Join(l.Logs(), day.Format("2006-01-02")+".json")
}

// SeenFile возвращает путь к персистентному seen-file set роутера.
func (l Layout) SeenFile() string {
	return filepath.Join(l.Logs(), "router_seen_files.json")
}

// Ensure создаёт все директории vault.
//
// Вызывается один раз при старте. Ошибка здесь — фатальная
// конфигурационная ошибка: без vault система работать не может.
func (l Layout) Ensure() error {
	dirs := []string{
		l.Root,
		l.NeedsAction(),
		l.Done(),
		l.Logs(),
		l.Orders(),
		l.Approved(),
		l.PendingApproval(),
		l.Briefings(),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create vault directory %s: %w", dir, err)
		}
	}
	return nil
}

// taskNameClock обеспечивает строго возрастающие timestamp-компоненты
// имён task-файлов внутри одного процесса. Два файла, созданных в одну
// секунду, получили бы одинаковое имя — второй сдвигается на секунду вперёд.
type taskNameClock struct {
	mu   sync.Mutex
	last time.Time
}

var nameClock taskNameClock

func (c *taskNameClock) next(now time.Time) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	now = now.Truncate(time.Second)
	if !now.After(c.last) {
		now = c.last.Add(time.Second)
	}
	c.last = now
	return now
}

// TaskFileName строит имя task-файла: <PREFIX>_<slug>_<timestamp>.md.
//
// Имена уникальны и сортируются по времени создания. Префикс несёт
// тип задачи и используется роутером для классификации.
func TaskFileName(prefix, slug string, now time.Time) string {
	ts := nameClock.next(now).Format("2006-01-02_15-04-05")
	if slug == "" {
		return fmt.Sprintf("%s_%s.md", prefix, ts)
	}
	return fmt.Sprintf("%s_%s_%s.md", prefix, sanitizeSlug(slug), ts)
}

// sanitizeSlug убирает из slug символы, недопустимые в имени файла.
func sanitizeSlug(slug string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, slug)
}
