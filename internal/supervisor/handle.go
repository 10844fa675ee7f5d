package supervisor

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Vigil/internal/config"
)

// Handle — живой watcher-процесс под наблюдением supervisor'а.
//
// Создаётся при запуске дескриптора и уничтожается (с перезапуском
// дескриптора) при любом завершении процесса. В любой момент на один
// дескриптор существует не более одного handle.
type Handle struct {
	// Descriptor — дескриптор, из которого запущен процесс.
	Descriptor config.WatcherDescriptor

	// ID — идентификатор конкретного запуска.
	ID uuid.UUID

	// PID — идентификатор процесса ОС.
	PID int

	// StartedAt — время запуска.
	StartedAt time.Time

	cmd      *exec.Cmd
	done     chan struct{}
	exitCode int
}

// launch запускает команду дескриптора с VAULT_PATH в окружении.
//
// Завершение процесса наблюдается wait-горутиной, закрывающей done —
// эквивалент poll() по exitcode, но без блокировки: healthCheck лишь
// заглядывает в канал.
func launch(desc config.WatcherDescriptor, vaultPath string) (*Handle, error) {
	cmd := exec.Command(desc.Command[0], desc.Command[1:]...)
	cmd.Env = append(os.Environ(), "VAULT_PATH="+vaultPath)

	// Диагностический вывод watcher'а непрозрачен для supervisor'а;
	// свои логи watcher ведёт сам через telemetry.
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	h := &Handle{
		Descriptor: desc,
		ID:         uuid.New(),
		PID:        cmd.Process.Pid,
		StartedAt:  time.Now(),
		cmd:        cmd,
		done:       make(chan struct{}),
	}

	go func() {
		err := cmd.Wait()
		h.exitCode = exitCodeOf(err)
		close(h.done)
	}()

	return h, nil
}

// Exited — неблокирующая проверка завершения процесса.
func (h *Handle) Exited() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ExitCode возвращает код завершения. Валиден только после Exited().
func (h *Handle) ExitCode() int {
	return h.exitCode
}

// Terminate посылает процессу SIGTERM.
func (h *Handle) Terminate() error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Signal(syscall.SIGTERM)
}

// exitCodeOf извлекает код завершения из ошибки Wait.
func exitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
