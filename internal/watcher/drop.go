package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// DropWatch наблюдает за одной drop-директорией через fsnotify и
// отдаёт новые файлы порциями при опросе.
//
// События накапливаются фоновой горутиной; Poll сливает накопленное.
// Первый Poll дополнительно делает полный проход по директории, чтобы
// файлы, появившиеся до старта watcher'а, не потерялись. Повторные
// появления одного имени дедуплицируются на всё время жизни процесса.
type DropWatch struct {
	dir    string
	exts   map[string]bool
	fsw    *fsnotify.Watcher
	logger *slog.Logger

	mu      sync.Mutex
	pending []string
	seen    map[string]bool
	scanned bool
}

// NewDropWatch создаёт DropWatch и начинает слушать директорию.
// exts — допустимые расширения в нижнем регистре (".csv"); пустой
// список означает «любые файлы».
func NewDropWatch(dir string, exts []string, logger *slog.Logger) (*DropWatch, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fs watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[strings.ToLower(e)] = true
	}

	d := &DropWatch{
		dir:    dir,
		exts:   extSet,
		fsw:    fsw,
		logger: logger,
		seen:   make(map[string]bool),
	}
	go d.loop()
	return d, nil
}

// loop переносит события fsnotify в pending-буфер.
func (d *DropWatch) loop() {
	for {
		select {
		case ev, ok := <-d.fsw.Events:
			if !ok {
				return
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) {
				d.offer(ev.Name)
			}
		case err, ok := <-d.fsw.Errors:
			if !ok {
				return
			}
			d.logger.Warn("fs watch error", "dir", d.dir, "error", err)
		}
	}
}

// offer добавляет путь в pending, если он проходит фильтр и ещё не виден.
func (d *DropWatch) offer(path string) {
	if !d.accepts(path) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	name := filepath.Base(path)
	if d.seen[name] {
		return
	}
	d.seen[name] = true
	d.pending = append(d.pending, path)
}

func (d *DropWatch) accepts(path string) bool {
	if len(d.exts) == 0 {
		return true
	}
	return d.exts[strings.ToLower(filepath.Ext(path))]
}

// Poll возвращает накопленные новые файлы. Контекст не используется:
// опрос не ждёт событий, только сливает буфер.
func (d *DropWatch) Poll(_ context.Context) ([]Item, error) {
	if err := d.initialScan(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	paths := d.pending
	d.pending = nil
	d.mu.Unlock()

	items := make([]Item, 0, len(paths))
	for _, p := range paths {
		// Директории (в т.ч. созданные после старта) не материализуются.
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		items = append(items, Item{Key: filepath.Base(p), Path: p})
	}
	return items, nil
}

// initialScan один раз добирает файлы, лежавшие в директории до старта.
func (d *DropWatch) initialScan() error {
	d.mu.Lock()
	done := d.scanned
	d.scanned = true
	d.mu.Unlock()
	if done {
		return nil
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("initial scan of %s: %w", d.dir, err)
	}
	for _, e := range entries {
		if e.Type().IsRegular() {
			d.offer(filepath.Join(d.dir, e.Name()))
		}
	}
	return nil
}

// Close останавливает наблюдение.
func (d *DropWatch) Close() error {
	return d.fsw.Close()
}
