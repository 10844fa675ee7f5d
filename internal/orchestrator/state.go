package orchestrator

// State — фаза жизненного цикла оркестратора.
//
// Переходы строго односторонние:
//
//	Stopped → Running → Stopping → Stopped
//
// Повторный запуск одного экземпляра не поддерживается: Run можно
// вызвать ровно один раз.
type State int32

const (
	// StateStopped — оркестратор не работает.
	StateStopped State = iota

	// StateRunning — основной цикл выполняется.
	StateRunning

	// StateStopping — получен сигнал остановки, идёт graceful shutdown.
	StateStopping
)

// String возвращает человекочитаемое имя состояния.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}
