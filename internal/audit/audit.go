package audit

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/shaiso/Vigil/internal/telemetry"
	"github.com/shaiso/Vigil/internal/vault"
)

// timestampLayout — локальный ISO-8601 без зоны, как пишут все
// компоненты системы.
const timestampLayout = "2006-01-02T15:04:05.999999"

// Log — append-only audit-лог, партиционированный по календарным дням.
//
// Все записи одного процесса сериализуются мьютексом, поэтому внутри
// процесса read-modify-write безопасен. Гонка между независимыми
// процессами (watcher'ы пишут в те же партиции) остаётся — см. doc.go.
type Log struct {
	layout vault.Layout
	logger *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	lastTS time.Time
}

// Config — конфигурация Log.
type Config struct {
	Layout vault.Layout
	Logger *slog.Logger
	Now    func() time.Time // для тестов; default: time.Now
}

// New создаёт audit-лог поверх vault layout.
func New(cfg Config) *Log {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Log{
		layout: cfg.Layout,
		logger: logger,
		now:    now,
	}
}

// Append добавляет запись в партицию текущего дня.
//
// Партиция читается целиком, разбирается как JSON-массив (ошибка
// разбора — «пустая партиция, начать заново», никогда не фатальна),
// запись добавляется в конец и файл перезаписывается. Timestamp
// проставляется здесь и монотонно не убывает в пределах процесса.
//
// Ошибка записи логируется и возвращается, но вызывающие её, как
// правило, игнорируют: audit-лог не должен ронять рабочий цикл.
func (l *Log) Append(e Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Before(l.lastTS) {
		now = l.lastTS
	}
	l.lastTS = now
	e.Timestamp = now.Format(timestampLayout)

	path := l.layout.AuditFile(now)
	entries := l.readPartition(path)
	entries = append(entries, e)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		telemetry.AuditWriteErrors.Inc()
		return fmt.Errorf("marshal audit partition: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		telemetry.AuditWriteErrors.Inc()
		l.logger.Error("audit write failed", "path", path, "error", err)
		return fmt.Errorf("write audit partition: %w", err)
	}
	return nil
}

// readPartition читает существующую партицию. Отсутствующий или
// нечитаемый файл — пустая партиция.
func (l *Log) readPartition(path string) []Entry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		l.logger.Warn("audit partition unparseable, starting fresh", "path", path, "error", err)
		return nil
	}
	return entries
}

// Read возвращает все записи партиции указанного дня.
// Отсутствующая или нечитаемая партиция — пустой срез.
func (l *Log) Read(day time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readPartition(l.layout.AuditFile(day))
}

// Record — укороченная форма Append: собирает Entry из аргументов.
// Extra-пары передаются как чередование ключ/значение.
func (l *Log) Record(actor, actionType, target string, result Result, extra ...any) {
	e := Entry{
		ActionType: actionType,
		Actor:      actor,
		Target:     target,
		Result:     result,
	}
	if len(extra) > 0 {
		e.Extra = make(map[string]any, len(extra)/2)
		for i := 0; i+1 < len(extra); i += 2 {
			key, ok := extra[i].(string)
			if !ok {
				continue
			}
			e.Extra[key] = extra[i+1]
		}
	}
	_ = l.Append(e)
}
