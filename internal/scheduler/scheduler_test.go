package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/vault"
)

// testClock — управляемые часы для Tick.
type testClock struct {
	t time.Time
}

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) set(t time.Time)         { c.t = t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestScheduler(t *testing.T, cfg Config) (*Scheduler, *audit.Log, *testClock) {
	t.Helper()
	layout := vault.NewLayout(t.TempDir())
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	clock := &testClock{t: time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local)} // понедельник
	log := audit.New(audit.Config{Layout: layout, Now: clock.now})

	cfg.Layout = layout
	cfg.AuditLog = log
	cfg.Now = clock.now
	if cfg.DailyHour == 0 {
		cfg.DailyHour = 20
	}
	return New(cfg), log, clock
}

func countByDay(t *testing.T, log *audit.Log, day time.Time, actionType string) int {
	t.Helper()
	n := 0
	for _, e := range log.Read(day) {
		if e.ActionType == actionType {
			n++
		}
	}
	return n
}

func TestTick_WeekSimulation(t *testing.T) {
	// hour=20, weeklyDay=6 (воскресенье); часы идут минута за минутой
	// через неделю. Weekly срабатывает ровно один раз — на первом тике
	// с (weekday==6 && hour==20) — и подавляет daily в этом тике;
	// daily срабатывает в 20:00 каждого из остальных шести дней.
	s, log, clock := newTestScheduler(t, Config{WeeklyDay: 6, DryRun: true})

	start := clock.now()
	var daily, weekly int
	for i := 0; i < 7*24*60; i++ {
		s.Tick(context.Background())
		clock.advance(time.Minute)
	}

	for d := 0; d < 7; d++ {
		day := start.AddDate(0, 0, d)
		daily += countByDay(t, log, day, audit.ActionDailyBriefing)
		weekly += countByDay(t, log, day, audit.ActionCEOBriefing)
	}

	if weekly != 1 {
		t.Errorf("weekly fired %d times, want 1", weekly)
	}
	if daily != 6 {
		t.Errorf("daily fired %d times, want 6 (suppressed on Sunday)", daily)
	}

	// В воскресенье daily не срабатывал вовсе.
	sunday := time.Date(2026, 1, 11, 0, 0, 0, 0, time.Local)
	if got := countByDay(t, log, sunday, audit.ActionDailyBriefing); got != 0 {
		t.Errorf("daily fired %d times on Sunday, want 0", got)
	}
	if got := countByDay(t, log, sunday, audit.ActionCEOBriefing); got != 1 {
		t.Errorf("weekly fired %d times on Sunday, want 1", got)
	}
}

func TestTick_WeeklyAdvancesDailyMarker(t *testing.T) {
	// Weekly в 20:00 воскресенья сдвигает оба маркера: следующие тики
	// того же часа не запускают daily, а в понедельник daily работает.
	s, log, clock := newTestScheduler(t, Config{WeeklyDay: 6, DryRun: true})

	sunday := time.Date(2026, 1, 11, 20, 0, 0, 0, time.Local)
	clock.set(sunday)
	s.Tick(context.Background())
	clock.advance(time.Minute)
	s.Tick(context.Background())

	if got := countByDay(t, log, sunday, audit.ActionCEOBriefing); got != 1 {
		t.Errorf("weekly fired %d times, want 1", got)
	}
	if got := countByDay(t, log, sunday, audit.ActionDailyBriefing); got != 0 {
		t.Errorf("daily fired %d times after weekly, want 0", got)
	}

	monday := sunday.AddDate(0, 0, 1)
	clock.set(monday)
	s.Tick(context.Background())
	if got := countByDay(t, log, monday, audit.ActionDailyBriefing); got != 1 {
		t.Errorf("daily fired %d times on Monday, want 1", got)
	}
}

func TestTick_AtMostOncePerDay(t *testing.T) {
	s, log, clock := newTestScheduler(t, Config{WeeklyDay: 6, DryRun: true})

	clock.set(time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	s.Tick(context.Background())
	clock.advance(time.Minute)
	s.Tick(context.Background())
	clock.advance(30 * time.Minute)
	s.Tick(context.Background())

	if got := countByDay(t, log, clock.now(), audit.ActionDailyBriefing); got != 1 {
		t.Errorf("daily fired %d times within the hour, want 1", got)
	}
}

func TestTick_WrongHourDoesNotFire(t *testing.T) {
	s, log, clock := newTestScheduler(t, Config{WeeklyDay: 6, DryRun: true})

	clock.set(time.Date(2026, 1, 5, 19, 59, 0, 0, time.Local))
	s.Tick(context.Background())

	if got := countByDay(t, log, clock.now(), audit.ActionDailyBriefing); got != 0 {
		t.Errorf("daily fired %d times at 19:59, want 0", got)
	}
}

func TestTick_RestartRefiresSamePeriod(t *testing.T) {
	// Состояние расписания не персистентно: новый Scheduler в том же
	// окне срабатывает снова (at-least-once).
	s1, log, clock := newTestScheduler(t, Config{WeeklyDay: 6, DryRun: true})
	clock.set(time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	s1.Tick(context.Background())

	s2 := New(Config{
		Layout:    s1.layout,
		DailyHour: 20,
		WeeklyDay: 6,
		DryRun:    true,
		AuditLog:  log,
		Now:       clock.now,
	})
	s2.Tick(context.Background())

	if got := countByDay(t, log, clock.now(), audit.ActionDailyBriefing); got != 2 {
		t.Errorf("daily fired %d times across restart, want 2", got)
	}
}

func TestRunDaily_BuiltinRenderer(t *testing.T) {
	s, log, clock := newTestScheduler(t, Config{WeeklyDay: 6})

	clock.set(time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	s.Tick(context.Background())

	path := filepath.Join(s.layout.Briefings(), "2026-01-05_Daily_Summary.md")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("builtin renderer should write the daily summary: %v", err)
	}
	entries := log.Read(clock.now())
	if len(entries) != 1 || entries[0].Result != audit.ResultSuccess {
		t.Errorf("unexpected audit entries: %v", entries)
	}
}

func TestRunDaily_FailureStillAdvancesMarker(t *testing.T) {
	s, log, clock := newTestScheduler(t, Config{
		WeeklyDay:     6,
		DailyRenderer: []string{"sh", "-c", "exit 1"},
	})

	clock.set(time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	s.Tick(context.Background())
	clock.advance(time.Minute)
	s.Tick(context.Background())

	entries := log.Read(clock.now())
	if len(entries) != 1 {
		t.Fatalf("renderer failure must not retry this period, got %d entries", len(entries))
	}
	if entries[0].Result != audit.ResultError {
		t.Errorf("Result = %q, want error", entries[0].Result)
	}
}

func TestRunDaily_RendererTimeout(t *testing.T) {
	s, log, clock := newTestScheduler(t, Config{
		WeeklyDay:       6,
		DailyRenderer:   []string{"sh", "-c", "sleep 10"},
		RendererTimeout: 50 * time.Millisecond,
	})

	clock.set(time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	s.Tick(context.Background())

	entries := log.Read(clock.now())
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Result != audit.ResultError {
		t.Errorf("Result = %q, want error", entries[0].Result)
	}
	if entries[0].Extra["error"] != "timeout" {
		t.Errorf("error = %v, want timeout", entries[0].Extra["error"])
	}
}

func TestRunWeekly_WritesBriefing(t *testing.T) {
	s, log, clock := newTestScheduler(t, Config{WeeklyDay: 6})

	// Воскресенье, 20:00.
	clock.set(time.Date(2026, 1, 11, 20, 0, 0, 0, time.Local))
	s.Tick(context.Background())

	path := filepath.Join(s.layout.Briefings(), "2026-01-11_Monday_Briefing.md")
	if _, err := os.Stat(path); err != nil {
		t.Errorf("CEO briefing not written: %v", err)
	}
	entries := log.Read(clock.now())
	if len(entries) != 1 || entries[0].ActionType != audit.ActionCEOBriefing {
		t.Errorf("unexpected audit entries: %v", entries)
	}
}

func TestWeekdayMondayBased(t *testing.T) {
	// 2026-01-05 — понедельник, 2026-01-11 — воскресенье.
	if got := weekdayMondayBased(time.Date(2026, 1, 5, 0, 0, 0, 0, time.Local)); got != 0 {
		t.Errorf("Monday = %d, want 0", got)
	}
	if got := weekdayMondayBased(time.Date(2026, 1, 11, 0, 0, 0, 0, time.Local)); got != 6 {
		t.Errorf("Sunday = %d, want 6", got)
	}
}
