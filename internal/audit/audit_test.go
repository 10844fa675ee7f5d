package audit

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/shaiso/Vigil/internal/vault"
)

func newTestLog(t *testing.T) (*Log, vault.Layout) {
	t.Helper()
	layout := vault.NewLayout(t.TempDir())
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}
	return New(Config{Layout: layout}), layout
}

func TestAppend_CreatesPartition(t *testing.T) {
	log, layout := newTestLog(t)

	err := log.Append(Entry{
		ActionType: ActionWatcherStarted,
		Actor:      "supervisor",
		Target:     "orders-watcher",
		Result:     ResultSuccess,
		Extra:      map[string]any{"pid": 4242},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := log.Read(time.Now())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ActionType != ActionWatcherStarted {
		t.Errorf("ActionType = %q", e.ActionType)
	}
	if e.Result != ResultSuccess {
		t.Errorf("Result = %q", e.Result)
	}
	if pid, ok := e.Extra["pid"].(float64); !ok || int(pid) != 4242 {
		t.Errorf("Extra pid = %v", e.Extra["pid"])
	}

	// На диске — плоский объект, extra подняты на верхний уровень.
	data, err := os.ReadFile(layout.AuditFile(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("partition is not a JSON array: %v", err)
	}
	if _, ok := raw[0]["pid"]; !ok {
		t.Error("pid should be flattened into the root object")
	}
	if _, ok := raw[0]["extra"]; ok {
		t.Error("no nested extra object should be written")
	}
}

func TestAppend_AppendsInOrder(t *testing.T) {
	log, _ := newTestLog(t)

	for _, target := range []string{"a", "b", "c"} {
		log.Record("router", ActionFileDetected, target, ResultRouted)
	}

	entries := log.Read(time.Now())
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	for i, want := range []string{"a", "b", "c"} {
		if entries[i].Target != want {
			t.Errorf("entries[%d].Target = %q, want %q", i, entries[i].Target, want)
		}
	}
}

func TestAppend_InvalidPartitionTreatedAsEmpty(t *testing.T) {
	log, layout := newTestLog(t)

	path := layout.AuditFile(time.Now())
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := log.Append(Entry{ActionType: ActionFileDetected, Actor: "router", Result: ResultRouted}); err != nil {
		t.Fatalf("append after corrupt partition should succeed: %v", err)
	}

	entries := log.Read(time.Now())
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want exactly 1 (corrupt history discarded)", len(entries))
	}
}

func TestAppend_MonotonicTimestamps(t *testing.T) {
	layout := vault.NewLayout(t.TempDir())
	if err := layout.Ensure(); err != nil {
		t.Fatal(err)
	}

	// Часы идут назад: второй вызов возвращает более раннее время.
	times := []time.Time{
		time.Date(2026, 1, 5, 12, 0, 10, 0, time.Local),
		time.Date(2026, 1, 5, 12, 0, 5, 0, time.Local),
	}
	i := 0
	log := New(Config{Layout: layout, Now: func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}})

	log.Record("a", "x", "t1", ResultSuccess)
	log.Record("a", "x", "t2", ResultSuccess)

	entries := log.Read(times[0])
	if len(entries) != 2 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[1].Timestamp < entries[0].Timestamp {
		t.Errorf("timestamps went backwards: %q then %q", entries[0].Timestamp, entries[1].Timestamp)
	}
}

func TestRead_MissingPartition(t *testing.T) {
	log, _ := newTestLog(t)

	entries := log.Read(time.Date(1999, 1, 1, 0, 0, 0, 0, time.Local))
	if len(entries) != 0 {
		t.Errorf("missing partition should read as empty, got %d", len(entries))
	}
}

func TestEntry_JSONRoundTrip(t *testing.T) {
	in := Entry{
		Timestamp:  "2026-01-05T14:30:00.000001",
		ActionType: ActionWatcherCrashed,
		Actor:      "supervisor",
		Target:     "approval-watcher",
		Result:     ResultRestarting,
		Extra:      map[string]any{"exit_code": float64(137), "skill": "unknown"},
	}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Entry
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.ActionType != in.ActionType || out.Actor != in.Actor ||
		out.Target != in.Target || out.Result != in.Result {
		t.Errorf("round trip mismatch: %+v", out)
	}
	if out.Extra["exit_code"] != float64(137) {
		t.Errorf("exit_code = %v", out.Extra["exit_code"])
	}
	if out.Time().IsZero() {
		t.Error("Time() should parse the timestamp")
	}
}
