package vault

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLayout_Ensure(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	l := NewLayout(root)

	if err := l.Ensure(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, dir := range []string{
		l.NeedsAction(), l.Done(), l.Logs(), l.Orders(),
		l.Approved(), l.PendingApproval(), l.Briefings(),
	} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory %s not created: %v", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("%s should be a directory", dir)
		}
	}
}

func TestLayout_Ensure_NotCreatable(t *testing.T) {
	// Файл на месте корня делает vault несоздаваемым.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLayout(filepath.Join(blocker, "vault"))
	if err := l.Ensure(); err == nil {
		t.Error("expected error for uncreatable vault root")
	}
}

func TestLayout_AuditFile(t *testing.T) {
	l := NewLayout("/vault")
	day := time.Date(2026, 1, 5, 14, 0, 0, 0, time.Local)

	got := l.AuditFile(day)
	want := filepath.Join("/vault", "Logs", "2026-01-05.json")
	if got != want {
		t.Errorf("AuditFile = %q, want %q", got, want)
	}
}

func TestTaskFileName_Unique(t *testing.T) {
	now := time.Date(2026, 1, 5, 14, 30, 0, 0, time.Local)

	a := TaskFileName("NEW_ORDERS", "export", now)
	b := TaskFileName("NEW_ORDERS", "export", now)

	if a == b {
		t.Errorf("names should be unique within one second: %q", a)
	}
	if !strings.HasPrefix(a, "NEW_ORDERS_export_") {
		t.Errorf("unexpected name %q", a)
	}
	if !strings.HasSuffix(a, ".md") {
		t.Errorf("unexpected extension in %q", a)
	}
	// Имена сортируются по времени создания.
	if !(a < b) {
		t.Errorf("names should sort in creation order: %q >= %q", a, b)
	}
}

func TestTaskFileName_SanitizesSlug(t *testing.T) {
	name := TaskFileName("MSG", "re: order #42?", time.Now())
	if strings.ContainsAny(name, ":#? ") {
		t.Errorf("slug not sanitized: %q", name)
	}
}

func TestTaskFileName_EmptySlug(t *testing.T) {
	name := TaskFileName("PLAN", "", time.Now())
	if !strings.HasPrefix(name, "PLAN_") {
		t.Errorf("unexpected name %q", name)
	}
	if strings.Contains(name, "__") {
		t.Errorf("empty slug should not leave a double underscore: %q", name)
	}
}
