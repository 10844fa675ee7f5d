// Package audit реализует append-only audit-лог системы.
//
// # Обзор
//
// Лог партиционирован по календарным дням: Logs/YYYY-MM-DD.json,
// внутри — JSON-массив плоских объектов:
//
//	{
//	  "timestamp": "2026-01-05T14:30:00.120000",
//	  "action_type": "watcher_crashed",
//	  "actor": "supervisor",
//	  "target": "orders-watcher",
//	  "result": "restarting",
//	  "exit_code": 1
//	}
//
// Записи добавляются только в конец и никогда не мутируются. Потребители
// обязаны переживать отсутствие файла (пустая партиция) и не полагаться
// на порядок записей за пределами append-порядка одного писателя.
//
// # Известная гонка между процессами
//
// Запись — это чтение всей партиции, добавление entry и перезапись
// файла. Внутри одного процесса операции сериализованы мьютексом, и
// для оркестратора этого достаточно. Но в те же партиции пишут и
// независимые watcher-процессы: два одновременных read-modify-write из
// разных процессов могут молча потерять одну запись. Это осознанное
// ограничение формата (внешний интерфейс фиксирует JSON-массив, а не
// NDJSON с атомарным append), а не гарантированный инвариант — счётчики
// offline-анализа под нагрузкой приблизительны.
package audit
