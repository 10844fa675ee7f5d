package audit

import (
	"encoding/json"
	"time"
)

// Result — стабильный enum результата действия.
//
// Значения — идентификаторы для offline-агрегации, не свободный текст.
type Result string

const (
	ResultSuccess    Result = "success"
	ResultError      Result = "error"
	ResultRestarting Result = "restarting"
	ResultRouted     Result = "routed"
	ResultDryRun     Result = "dry_run"
)

// Стабильная таксономия action_type. Таксономия открытая: компоненты
// могут вводить новые типы, но существующие идентификаторы не меняются.
const (
	ActionWatcherStarted      = "watcher_started"
	ActionWatcherStartFailed  = "watcher_start_failed"
	ActionWatcherCrashed      = "watcher_crashed"
	ActionFileDetected        = "file_detected"
	ActionDailyBriefing       = "daily_briefing"
	ActionCEOBriefing         = "ceo_briefing"
	ActionOrchestratorStarted = "orchestrator_started"
	ActionOrchestratorStopped = "orchestrator_stopped"
	ActionFileCreated         = "action_file_created"
	ActionFileFailed          = "action_file_failed"
	ActionCheckFailed         = "check_failed"
	ActionApprovalDispatched  = "approval_dispatched"
)

// Entry — одна запись audit-лога.
//
// Записи добавляются в конец дневной партиции и никогда не мутируются
// и не удаляются. Extra-поля при сериализации разворачиваются в
// корневой объект (pid, exit_code, skill, error, ...), поэтому на
// диске запись — плоский JSON-объект.
type Entry struct {
	// Timestamp — локальное время ISO-8601. Монотонно не убывает
	// в пределах одного процесса.
	Timestamp string

	// ActionType — идентификатор действия из таксономии выше.
	ActionType string

	// Actor — имя компонента, записавшего entry.
	Actor string

	// Target — объект действия: имя файла, имя watcher'а и т.п.
	Target string

	// Result — результат действия.
	Result Result

	// Extra — дополнительные структурированные поля.
	Extra map[string]any
}

// известные ключи корневого объекта; всё остальное при разборе
// собирается в Extra.
var knownKeys = map[string]bool{
	"timestamp":   true,
	"action_type": true,
	"actor":       true,
	"target":      true,
	"result":      true,
}

// MarshalJSON сериализует entry плоским объектом: Extra-поля
// поднимаются на верхний уровень рядом с фиксированными.
func (e Entry) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, 5+len(e.Extra))
	obj["timestamp"] = e.Timestamp
	obj["action_type"] = e.ActionType
	obj["actor"] = e.Actor
	obj["target"] = e.Target
	obj["result"] = string(e.Result)
	for k, v := range e.Extra {
		if !knownKeys[k] {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON разбирает плоский объект обратно: неизвестные ключи
// попадают в Extra.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}

	e.Timestamp, _ = obj["timestamp"].(string)
	e.ActionType, _ = obj["action_type"].(string)
	e.Actor, _ = obj["actor"].(string)
	e.Target, _ = obj["target"].(string)
	if r, ok := obj["result"].(string); ok {
		e.Result = Result(r)
	}

	for k := range knownKeys {
		delete(obj, k)
	}
	if len(obj) > 0 {
		e.Extra = obj
	}
	return nil
}

// Time разбирает Timestamp. Нулевое время при ошибке разбора.
func (e Entry) Time() time.Time {
	t, err := time.ParseInLocation(timestampLayout, e.Timestamp, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
