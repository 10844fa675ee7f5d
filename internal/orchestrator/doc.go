// Package orchestrator — главный цикл системы.
//
// Orchestrator отвечает за:
//   - Создание структуры vault при старте
//   - Запуск и перезапуск watcher-процессов через supervisor
//   - Периодический скан inbox через router
//   - Срабатывание триггеров расписания через scheduler
//   - Graceful shutdown по отмене контекста
//
// # Обзор
//
// Цикл однопоточный: шаги итерации (health-check → scan → tick)
// выполняются строго последовательно, поэтому компоненты ниже
// не нуждаются в собственной синхронизации. Ошибка любого шага
// логируется и не прерывает цикл — оркестратор завершается только
// по сигналу остановки.
package orchestrator
