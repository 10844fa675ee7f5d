package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shaiso/Vigil/internal/vault"
)

// OrdersSource наблюдает за drop-директорией Orders/ и на каждый новый
// CSV/TSV-экспорт материализует trigger-файл NEW_ORDERS_* в inbox.
type OrdersSource struct {
	layout vault.Layout
	drop   *DropWatch
	dryRun bool
	logger *slog.Logger
	now    func() time.Time
}

// OrdersConfig — конфигурация OrdersSource.
type OrdersConfig struct {
	Layout vault.Layout
	DryRun bool
	Logger *slog.Logger
	Now    func() time.Time // для тестов; default: time.Now
}

// NewOrdersSource создаёт источник и начинает слушать Orders/.
func NewOrdersSource(cfg OrdersConfig) (*OrdersSource, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	drop, err := NewDropWatch(cfg.Layout.Orders(), []string{".csv", ".tsv"}, logger)
	if err != nil {
		return nil, err
	}
	return &OrdersSource{
		layout: cfg.Layout,
		drop:   drop,
		dryRun: cfg.DryRun,
		logger: logger,
		now:    now,
	}, nil
}

// Name возвращает имя watcher'а для audit-лога.
func (s *OrdersSource) Name() string { return "orders-watcher" }

// Poll отдаёт новые файлы заказов.
func (s *OrdersSource) Poll(ctx context.Context) ([]Item, error) {
	return s.drop.Poll(ctx)
}

// Materialize пишет trigger-файл в inbox, чтобы downstream-обработчик
// увидел новый экспорт. Содержимое исходного CSV не интерпретируется.
func (s *OrdersSource) Materialize(_ context.Context, item Item) (string, error) {
	stem := strings.TrimSuffix(item.Key, filepath.Ext(item.Key))
	name := vault.TaskFileName("NEW_ORDERS", stem, s.now())

	if s.dryRun {
		s.logger.Info("[dry run] would create trigger file", "name", name)
		return name, nil
	}

	content := s.triggerContent(item)
	path := filepath.Join(s.layout.NeedsAction(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write trigger file: %w", err)
	}
	return name, nil
}

func (s *OrdersSource) triggerContent(item Item) string {
	now := s.now()
	return fmt.Sprintf(`---
type: new_order_file
source_file: %s
source_path: %s
detected: %s
status: pending_processing
---

## New Order Export Detected

A new order export has been dropped into Orders/.

**File**: %s
**Detected**: %s

Process it with the order-reader handler, then move this trigger
file to Done/.
`, item.Key, item.Path, now.Format(time.RFC3339),
		item.Key, now.Format("2006-01-02 15:04:05"))
}

// Close останавливает наблюдение за директорией.
func (s *OrdersSource) Close() error { return s.drop.Close() }
