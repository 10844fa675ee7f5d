// Package scheduler реализует wall-clock триггеры периодических задач.
//
// # Обзор
//
// Tick() вызывается раз на итерацию цикла оркестратора (обычно 60s)
// и независимо оценивает два триггера:
//
//   - daily: час совпал с DailyHour и сегодня ещё не запускался;
//   - weekly: день недели совпал с WeeklyDay, час — с DailyHour,
//     на этой неделе ещё не запускался.
//
// Weekly приоритетен и подавляет daily на весь день: еженедельный
// брифинг — надмножество ежедневного, поэтому его запуск сдвигает
// оба маркера.
//
// # Семантика at-most-once-per-period
//
// Маркер последнего запуска сдвигается безусловно, даже если рендерер
// упал или просрочил таймаут — лучше пропущенный период, чем
// retry-шторм. Маркеры не персистентны: после рестарта процесс в
// подходящем окне сработает снова (at-least-once по рестартам).
//
// # Грубые часы
//
// Условие триггера выполнено весь час, в котором совпал DailyHour;
// от дублей внутри этого окна защищает маркер, а не граница тика.
package scheduler
