package router

import (
	"encoding/json"
	"log/slog"
	"os"
	"sort"
)

// seenSet — персистентное множество имён уже классифицированных файлов.
//
// Хранится как JSON-массив имён; на диске имена отсортированы, чтобы
// файл был стабилен между сбросами.
type seenSet struct {
	path  string
	names map[string]bool
}

func newSeenSet(path string) *seenSet {
	return &seenSet{path: path, names: make(map[string]bool)}
}

// load читает множество с диска. Отсутствие или нечитаемость файла —
// пустое множество; испорченный seen-файл перезаписывается при
// следующем успешном flush.
func (s *seenSet) load(logger *slog.Logger) int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		logger.Warn("seen-file set unparseable, starting fresh", "path", s.path, "error", err)
		return 0
	}
	for _, n := range names {
		s.names[n] = true
	}
	return len(names)
}

func (s *seenSet) has(name string) bool {
	return s.names[name]
}

func (s *seenSet) add(name string) {
	s.names[name] = true
}

// flush сбрасывает множество на диск.
func (s *seenSet) flush() error {
	names := make([]string, 0, len(s.names))
	for n := range s.names {
		names = append(names, n)
	}
	sort.Strings(names)

	data, err := json.Marshal(names)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}
