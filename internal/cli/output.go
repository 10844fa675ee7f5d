package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// Output форматирует результат команды: таблица для человека,
// JSON для скриптов поверх vault.
type Output struct {
	jsonMode bool
	w        io.Writer // stdout для данных
	errW     io.Writer // stderr для сообщений
}

// NewOutput создаёт Output. Если jsonMode=true, данные выводятся в JSON.
func NewOutput(jsonMode bool) *Output {
	return &Output{
		jsonMode: jsonMode,
		w:        os.Stdout,
		errW:     os.Stderr,
	}
}

// Print выводит набор строк таблицей или JSON-представлением raw.
// Пустой набор в табличном режиме сообщается в stderr: пустая
// audit-партиция — обычное дело, не ошибка.
func (o *Output) Print(headers []string, rows [][]string, raw any) {
	if o.jsonMode {
		o.JSON(raw)
		return
	}
	if len(rows) == 0 {
		fmt.Fprintln(o.errW, "no entries")
		return
	}
	o.Table(headers, rows)
}

// Table выводит строки через tabwriter: заголовки, разделитель, данные.
func (o *Output) Table(headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(o.w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	dashes := make([]string, len(headers))
	for i, h := range headers {
		dashes[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(tw, strings.Join(dashes, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	tw.Flush()
}

// JSON выводит данные с отступами.
func (o *Output) JSON(v any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// Success выводит сообщение об успехе в stderr, не смешивая его
// с данными в stdout.
func (o *Output) Success(msg string) {
	fmt.Fprintln(o.errW, msg)
}
