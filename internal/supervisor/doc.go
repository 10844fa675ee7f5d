// Package supervisor управляет жизненным циклом watcher-процессов.
//
// # Обзор
//
// Каждый watcher — независимый процесс ОС со своим внутренним циклом.
// Supervisor запускает процессы из статических дескрипторов, на каждом
// тике оркестратора неблокирующе проверяет их живость и немедленно
// перезапускает завершившиеся.
//
// # Инварианты
//
//   - На один дескриптор — не более одного живого handle; число живых
//     handle никогда не превышает число дескрипторов.
//   - Перезапуск без backoff и без потолка: осознанное упрощение,
//     стабильность crash-loop'ящего watcher'а — забота оператора
//     (метрика vigil_watcher_restarts_total).
//   - Ошибка запуска никогда не поднимается вызывающему — только
//     audit-запись watcher_start_failed.
//
// Завершение процесса наблюдается wait-горутиной, закрывающей канал;
// HealthCheck лишь заглядывает в него, что эквивалентно опросу
// exitcode без блокировки.
package supervisor
