package router

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/telemetry"
	"github.com/shaiso/Vigil/internal/vault"
)

// actorName — имя компонента в audit-логе.
const actorName = "router"

// UnknownSkill — sentinel-метка для файлов вне словаря префиксов.
const UnknownSkill = "unknown"

// rule — одно правило классификации: префикс имени → skill-метка.
type rule struct {
	prefix string
	skill  string
}

// routeTable — приоритетный список правил, первый матч побеждает.
//
// Словарь префиксов фиксирован внешним интерфейсом inbox-директории;
// метки — стабильные идентификаторы downstream-обработчиков.
var routeTable = []rule{
	{"MSG_", "email-responder"},
	{"EMAIL_", "email-responder"},
	{"NEW_ORDERS_", "order-reader"},
	{"ORDERS_", "order-reader"},
	{"ORDER_", "order-reader"},
	{"LINKEDIN_", "linkedin-poster"},
	{"PLAN_", "plan-creator"},
}

// Route возвращает skill-метку для имени файла.
func Route(filename string) string {
	for _, r := range routeTable {
		if strings.HasPrefix(filename, r.prefix) {
			return r.skill
		}
	}
	return UnknownSkill
}

// Router сканирует inbox и классифицирует новые файлы по имени.
//
// Роутер никогда не открывает, не перемещает и не удаляет файлы —
// классификация консультативна и потребляется downstream-автоматикой
// через audit-лог. Поведение — чистая функция от (листинг, seen-set).
type Router struct {
	layout   vault.Layout
	seen     *seenSet
	auditLog *audit.Log
	logger   *slog.Logger
}

// Config — конфигурация Router.
type Config struct {
	Layout   vault.Layout
	AuditLog *audit.Log
	Logger   *slog.Logger
}

// New создаёт Router и загружает персистентный seen-set.
// Нечитаемый seen-файл означает пустое множество, не ошибку.
func New(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Router{
		layout:   cfg.Layout,
		seen:     newSeenSet(cfg.Layout.SeenFile()),
		auditLog: cfg.AuditLog,
		logger:   logger,
	}
	if n := r.seen.load(logger); n > 0 {
		logger.Info("seen-file set loaded", "count", n)
	}
	return r
}

// Scan проходит inbox один раз.
//
// Для каждого нового regular-файла: классификация по префиксу,
// audit-запись file_detected/routed с меткой, добавление в seen-set.
// После прохода seen-set сбрасывается на диск, чтобы рестарт роутера
// не переклассифицировал уже учтённые файлы.
func (r *Router) Scan() error {
	entries, err := os.ReadDir(r.layout.NeedsAction())
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("list inbox: %w", err)
	}

	routed := 0
	for _, entry := range entries {
		name := entry.Name()
		if r.seen.has(name) || !entry.Type().IsRegular() {
			continue
		}

		skill := Route(name)
		telemetry.WithFile(r.logger, name).Info("new file detected", "skill", skill)
		r.auditLog.Record(actorName, audit.ActionFileDetected, name, audit.ResultRouted,
			"skill", skill)
		telemetry.FilesRouted.WithLabelValues(skill).Inc()

		r.seen.add(name)
		routed++
	}

	if err := r.seen.flush(); err != nil {
		return fmt.Errorf("flush seen-file set: %w", err)
	}

	if routed > 0 {
		r.logger.Info("inbox scan completed", "routed", routed)
	}
	return nil
}
