package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер cron-выражений (без секундного поля).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NextRuns вычисляет ближайшие моменты срабатывания daily- и
// weekly-триггеров после from.
//
// Сами триггеры оцениваются простым сравнением часа и дня недели в
// Tick; cron здесь отвечает только на вопрос «когда следующий запуск» —
// для стартового лога и команды vigil schedule next.
func NextRuns(dailyHour, weeklyDay int, from time.Time) (daily, weekly time.Time, err error) {
	dailySpec := fmt.Sprintf("0 %d * * *", dailyHour)
	// cron использует 0=Вс, конфигурация — 0=Пн … 6=Вс.
	weeklySpec := fmt.Sprintf("0 %d * * %d", dailyHour, (weeklyDay+1)%7)

	ds, err := cronParser.Parse(dailySpec)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse daily spec %q: %w", dailySpec, err)
	}
	ws, err := cronParser.Parse(weeklySpec)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse weekly spec %q: %w", weeklySpec, err)
	}

	return ds.Next(from), ws.Next(from), nil
}
