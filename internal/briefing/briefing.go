package briefing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shaiso/Vigil/internal/vault"
)

// Stats — снимок состояния vault для брифинга.
type Stats struct {
	// Done — имена обработанных task-файлов.
	Done []string

	// NeedsAction — имена файлов, ожидающих действия.
	NeedsAction []string

	// PendingApproval — имена черновиков на одобрении.
	PendingApproval []string

	// EmailsDone и OrdersDone — срезы Done по типу задачи.
	EmailsDone int
	OrdersDone int
}

// CollectStats собирает снимок vault. Отсутствующие директории
// считаются пустыми.
func CollectStats(layout vault.Layout) Stats {
	var s Stats
	s.Done = listMarkdown(layout.Done())
	s.NeedsAction = listMarkdown(layout.NeedsAction())
	s.PendingApproval = listMarkdown(layout.PendingApproval())

	for _, name := range s.Done {
		switch {
		case strings.HasPrefix(name, "EMAIL_"), strings.HasPrefix(name, "MSG_"):
			s.EmailsDone++
		case strings.HasPrefix(name, "ORDERS_"), strings.HasPrefix(name, "NEW_ORDERS_"),
			strings.HasPrefix(name, "ORDER_"):
			s.OrdersDone++
		}
	}
	return s
}

func listMarkdown(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	return names
}

// RenderWeekly строит текст еженедельного CEO-брифинга.
func RenderWeekly(s Stats, now time.Time) string {
	date := now.Format("2006-01-02")

	var b strings.Builder
	fmt.Fprintf(&b, `---
generated: %s
period: Weekly CEO Briefing
type: ceo_briefing
---

# Monday Morning CEO Briefing
*Generated by Vigil — %s*

## Executive Summary
Weekly audit of store operations, communications, and pending items.

## Operations This Week
- Emails handled: %d
- Order batches processed: %d
- Items still pending approval: %d
- Items awaiting action: %d

`, now.Format(time.RFC3339), date, s.EmailsDone, s.OrdersDone,
		len(s.PendingApproval), len(s.NeedsAction))

	b.WriteString("## Completed Tasks\n")
	writeChecklist(&b, lastN(s.Done, 10), "[x]", "No completed tasks this week")

	b.WriteString("\n## Pending Approval\n")
	writeChecklist(&b, s.PendingApproval, "[ ]", "Nothing pending approval")

	b.WriteString("\n## Bottlenecks / Needs Action\n")
	writeChecklist(&b, s.NeedsAction, "", "No pending items")

	b.WriteString(`
## Proactive Suggestions
- Review any orders older than 48h in Needs_Action/
- Check LinkedIn token expiry (tokens expire every 60 days)
- Verify order CSV exports are being dropped to Orders/
`)
	return b.String()
}

// RenderDaily строит короткую ежедневную сводку. Используется, когда
// внешний рендерер не сконфигурирован.
func RenderDaily(s Stats, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, `---
generated: %s
period: Daily Summary
type: daily_summary
---

# Daily Summary — %s

- Completed today: %d
- Awaiting action: %d
- Pending approval: %d
`, now.Format(time.RFC3339), now.Format("2006-01-02"),
		len(s.Done), len(s.NeedsAction), len(s.PendingApproval))
	return b.String()
}

// WriteWeekly рендерит CEO-брифинг в Briefings/ и возвращает имя файла.
func WriteWeekly(layout vault.Layout, now time.Time) (string, error) {
	name := now.Format("2006-01-02") + "_Monday_Briefing.md"
	path := filepath.Join(layout.Briefings(), name)

	content := RenderWeekly(CollectStats(layout), now)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write weekly briefing: %w", err)
	}
	return name, nil
}

// WriteDaily рендерит ежедневную сводку в Briefings/ и возвращает имя файла.
func WriteDaily(layout vault.Layout, now time.Time) (string, error) {
	name := now.Format("2006-01-02") + "_Daily_Summary.md"
	path := filepath.Join(layout.Briefings(), name)

	content := RenderDaily(CollectStats(layout), now)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write daily summary: %w", err)
	}
	return name, nil
}

func writeChecklist(b *strings.Builder, names []string, box, empty string) {
	if len(names) == 0 {
		fmt.Fprintf(b, "- %s\n", empty)
		return
	}
	for _, n := range names {
		if box == "" {
			fmt.Fprintf(b, "- %s\n", n)
		} else {
			fmt.Fprintf(b, "- %s %s\n", box, n)
		}
	}
}

func lastN(names []string, n int) []string {
	if len(names) <= n {
		return names
	}
	return names[len(names)-n:]
}
