package router

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shaiso/Vigil/internal/audit"
	"github.com/shaiso/Vigil/internal/vault"
)

func newTestRouter(t *testing.T, layout vault.Layout) (*Router, *audit.Log) {
	t.Helper()
	log := audit.New(audit.Config{Layout: layout})
	return New(Config{Layout: layout, AuditLog: log}), log
}

func newTestLayout(t *testing.T) vault.Layout {
	t.Helper()
	layout := vault.NewLayout(t.TempDir())
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	return layout
}

func dropFile(t *testing.T, layout vault.Layout, name string) {
	t.Helper()
	path := filepath.Join(layout.NeedsAction(), name)
	if err := os.WriteFile(path, []byte("task"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func detectedEntries(log *audit.Log) []audit.Entry {
	var out []audit.Entry
	for _, e := range log.Read(time.Now()) {
		if e.ActionType == audit.ActionFileDetected {
			out = append(out, e)
		}
	}
	return out
}

func TestRoute(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"MSG_2026-01-01.md", "email-responder"},
		{"EMAIL_customer_reply.md", "email-responder"},
		{"ORDER_2026-01-01.md", "order-reader"},
		{"ORDERS_batch_12.md", "order-reader"},
		{"NEW_ORDERS_export_2026-01-01.md", "order-reader"},
		{"LINKEDIN_launch_post.md", "linkedin-poster"},
		{"PLAN_q1_campaign.md", "plan-creator"},
		{"random_note.md", UnknownSkill},
		{"", UnknownSkill},
	}

	for _, tt := range tests {
		if got := Route(tt.filename); got != tt.want {
			t.Errorf("Route(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestScan_RoutesAndRecords(t *testing.T) {
	layout := newTestLayout(t)
	r, log := newTestRouter(t, layout)

	dropFile(t, layout, "ORDER_2026-01-01.md")
	dropFile(t, layout, "MSG_2026-01-01.md")

	if err := r.Scan(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := detectedEntries(log)
	if len(entries) != 2 {
		t.Fatalf("got %d file_detected entries, want 2", len(entries))
	}

	skills := map[string]string{}
	for _, e := range entries {
		if e.Result != audit.ResultRouted {
			t.Errorf("Result = %q, want routed", e.Result)
		}
		skill, _ := e.Extra["skill"].(string)
		skills[e.Target] = skill
	}
	if skills["ORDER_2026-01-01.md"] != "order-reader" {
		t.Errorf("order file routed to %q", skills["ORDER_2026-01-01.md"])
	}
	if skills["MSG_2026-01-01.md"] != "email-responder" {
		t.Errorf("message file routed to %q", skills["MSG_2026-01-01.md"])
	}
}

func TestScan_Idempotent(t *testing.T) {
	layout := newTestLayout(t)
	r, log := newTestRouter(t, layout)

	dropFile(t, layout, "ORDER_2026-01-01.md")
	dropFile(t, layout, "MSG_2026-01-01.md")

	if err := r.Scan(); err != nil {
		t.Fatal(err)
	}
	first := len(detectedEntries(log))

	// Повторный проход по неизменной директории — ноль новых записей.
	if err := r.Scan(); err != nil {
		t.Fatal(err)
	}
	if got := len(detectedEntries(log)); got != first {
		t.Errorf("second scan produced %d new entries", got-first)
	}
}

func TestScan_SeenSurvivesRestart(t *testing.T) {
	layout := newTestLayout(t)
	r1, log := newTestRouter(t, layout)

	dropFile(t, layout, "ORDER_2026-01-01.md")
	if err := r1.Scan(); err != nil {
		t.Fatal(err)
	}

	// Новый Router поверх того же vault — рестарт процесса.
	// Файл всё ещё физически в inbox, но уже классифицирован.
	r2 := New(Config{Layout: layout, AuditLog: log})
	if err := r2.Scan(); err != nil {
		t.Fatal(err)
	}

	if got := len(detectedEntries(log)); got != 1 {
		t.Errorf("got %d file_detected entries after restart, want 1", got)
	}
}

func TestScan_SkipsDirectories(t *testing.T) {
	layout := newTestLayout(t)
	r, log := newTestRouter(t, layout)

	if err := os.Mkdir(filepath.Join(layout.NeedsAction(), "ORDER_subdir"), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := r.Scan(); err != nil {
		t.Fatal(err)
	}
	if got := len(detectedEntries(log)); got != 0 {
		t.Errorf("directories must not be routed, got %d entries", got)
	}
}

func TestScan_UnknownLabel(t *testing.T) {
	layout := newTestLayout(t)
	r, log := newTestRouter(t, layout)

	dropFile(t, layout, "whatever.md")
	if err := r.Scan(); err != nil {
		t.Fatal(err)
	}

	entries := detectedEntries(log)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if skill, _ := entries[0].Extra["skill"].(string); skill != UnknownSkill {
		t.Errorf("skill = %q, want %q", skill, UnknownSkill)
	}
}

func TestScan_MissingInbox(t *testing.T) {
	layout := vault.NewLayout(t.TempDir())
	if err := os.MkdirAll(layout.Logs(), 0o755); err != nil {
		t.Fatal(err)
	}
	r, _ := newTestRouter(t, layout)

	// Отсутствующий inbox — не ошибка, просто нечего сканировать.
	if err := r.Scan(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSeenSet_CorruptFileTreatedAsEmpty(t *testing.T) {
	layout := newTestLayout(t)
	if err := os.WriteFile(layout.SeenFile(), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, log := newTestRouter(t, layout)
	dropFile(t, layout, "PLAN_restart.md")

	if err := r.Scan(); err != nil {
		t.Fatal(err)
	}
	if got := len(detectedEntries(log)); got != 1 {
		t.Errorf("got %d entries, want 1", got)
	}
}
