// Package vault описывает файловую структуру vault — общего корневого
// дерева директорий, которое служит единственным постоянным хранилищем
// системы и каналом обмена между компонентами.
//
// # Структура
//
//	<root>/
//	├── Needs_Action/      — inbox: task-файлы, ожидающие обработки
//	├── Done/              — обработанные task-файлы
//	├── Orders/            — drop-папка CSV-экспортов заказов
//	├── Approved/          — одобренные черновики (email, посты)
//	├── Pending_Approval/  — черновики на одобрении
//	├── Briefings/         — сгенерированные брифинги
//	├── Logs/              — audit-лог (YYYY-MM-DD.json) и seen-set
//	└── .secrets/          — выданные credentials (только чтение)
//
// # Task-файлы
//
// Имя task-файла несёт тип через фиксированный префикс и
// timestamp-компонент для уникальности и сортировки:
//
//	NEW_ORDERS_export_2026-01-05_14-30-00.md
//	MSG_customer_2026-01-05_14-31-12.md
//
// Ядро никогда не удаляет task-файлы: их перемещает в Done/
// внешний обработчик.
package vault
