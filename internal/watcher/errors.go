package watcher

import "errors"

// Ошибки watcher-источников.
var (
	// ErrNoHandler — для типа approval-файла не сконфигурирован обработчик.
	ErrNoHandler = errors.New("no handler configured")

	// ErrHandlerTimeout — обработчик превысил таймаут и брошен.
	ErrHandlerTimeout = errors.New("handler timed out")

	// ErrUnknownSource — неизвестное имя источника в vigil watch.
	ErrUnknownSource = errors.New("unknown watch source")
)
