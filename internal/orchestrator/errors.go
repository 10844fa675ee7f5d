package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrAlreadyStarted — Run уже был вызван на этом экземпляре.
	ErrAlreadyStarted = errors.New("orchestrator already started")

	// ErrVaultNotReady — структура vault не создаётся.
	ErrVaultNotReady = errors.New("vault layout not ready")
)
