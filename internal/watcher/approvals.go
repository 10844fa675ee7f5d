package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/shaiso/Vigil/internal/vault"
)

const defaultHandlerTimeout = 60 * time.Second

// ApprovalsSource наблюдает за Approved/ и передаёт каждый одобренный
// файл соответствующему внешнему обработчику:
//
//	EMAIL_REPLY_*.md → команда отправки письма
//	LINKEDIN_*.md    → команда публикации поста
//	остальные        → перемещаются в Done/
//
// Обработчик — непрозрачный исполняемый файл; успех — код выхода 0.
// Единственная защита — таймаут: ни retry, ни backoff для обработчиков
// нет, at-most-once их побочных эффектов не гарантируется.
type ApprovalsSource struct {
	layout          vault.Layout
	drop            *DropWatch
	emailHandler    []string
	linkedinHandler []string
	timeout         time.Duration
	dryRun          bool
	logger          *slog.Logger
}

// ApprovalsConfig — конфигурация ApprovalsSource.
type ApprovalsConfig struct {
	Layout          vault.Layout
	EmailHandler    []string
	LinkedInHandler []string
	HandlerTimeout  time.Duration // default: 60s
	DryRun          bool
	Logger          *slog.Logger
}

// NewApprovalsSource создаёт источник и начинает слушать Approved/.
func NewApprovalsSource(cfg ApprovalsConfig) (*ApprovalsSource, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.HandlerTimeout
	if timeout <= 0 {
		timeout = defaultHandlerTimeout
	}
	drop, err := NewDropWatch(cfg.Layout.Approved(), []string{".md"}, logger)
	if err != nil {
		return nil, err
	}
	return &ApprovalsSource{
		layout:          cfg.Layout,
		drop:            drop,
		emailHandler:    cfg.EmailHandler,
		linkedinHandler: cfg.LinkedInHandler,
		timeout:         timeout,
		dryRun:          cfg.DryRun,
		logger:          logger,
	}, nil
}

// Name возвращает имя watcher'а для audit-лога.
func (s *ApprovalsSource) Name() string { return "approval-watcher" }

// Poll отдаёт новые одобренные файлы.
func (s *ApprovalsSource) Poll(ctx context.Context) ([]Item, error) {
	return s.drop.Poll(ctx)
}

// Materialize диспетчеризует одобренный файл по префиксу имени.
func (s *ApprovalsSource) Materialize(ctx context.Context, item Item) (string, error) {
	switch {
	case strings.HasPrefix(item.Key, "EMAIL_REPLY_"):
		return item.Key, s.dispatch(ctx, s.emailHandler, item, nil)
	case strings.HasPrefix(item.Key, "LINKEDIN_"):
		tokenFile := filepath.Join(s.layout.Secrets(), "linkedin_token.txt")
		return item.Key, s.dispatch(ctx, s.linkedinHandler, item, []string{"--token-file", tokenFile})
	default:
		return item.Key, s.moveToDone(item)
	}
}

// dispatch запускает обработчик под таймаутом.
func (s *ApprovalsSource) dispatch(ctx context.Context, handler []string, item Item, extraArgs []string) error {
	if len(handler) == 0 {
		return fmt.Errorf("%w for %s", ErrNoHandler, item.Key)
	}

	args := append(append([]string{}, handler[1:]...), "--file", item.Path, "--vault", s.layout.Root)
	args = append(args, extraArgs...)
	if s.dryRun {
		args = append(args, "--dry-run")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, handler[0], args...)
	cmd.Env = append(os.Environ(), "VAULT_PATH="+s.layout.Root)

	out, err := cmd.CombinedOutput()
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		return fmt.Errorf("%w: %s after %s", ErrHandlerTimeout, handler[0], s.timeout)
	case err != nil:
		return fmt.Errorf("handler %s failed: %w: %s", handler[0], err, strings.TrimSpace(string(out)))
	}

	s.logger.Info("approval handled", "file", item.Key, "handler", handler[0])
	return nil
}

// moveToDone убирает файл неизвестного типа из Approved/.
func (s *ApprovalsSource) moveToDone(item Item) error {
	if s.dryRun {
		s.logger.Info("[dry run] would move to Done", "file", item.Key)
		return nil
	}
	dst := filepath.Join(s.layout.Done(), item.Key)
	if err := os.Rename(item.Path, dst); err != nil {
		return fmt.Errorf("move %s to Done: %w", item.Key, err)
	}
	s.logger.Info("unknown approval type, moved to Done", "file", item.Key)
	return nil
}

// Close останавливает наблюдение за директорией.
func (s *ApprovalsSource) Close() error { return s.drop.Close() }
