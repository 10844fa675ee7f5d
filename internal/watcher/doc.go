// Package watcher содержит источники работы и общий цикл их опроса.
//
// # Обзор
//
// Watcher — долгоживущий процесс, опрашивающий один источник и
// материализующий каждый новый элемент в действие: task-файл в inbox
// или вызов внешнего обработчика. Конкретный источник реализует
// интерфейс Source (Poll + Materialize) и внедряется в общий Runner,
// который владеет циклом, retry с экспоненциальным backoff и
// audit-записями.
//
// # Источники
//
//   - OrdersSource — drop-папка Orders/ (CSV/TSV-экспорты); на каждый
//     новый файл пишет NEW_ORDERS_* trigger-файл в Needs_Action/.
//   - ApprovalsSource — drop-папка Approved/; передаёт одобренные файлы
//     внешним обработчикам по префиксу имени (EMAIL_REPLY_, LINKEDIN_),
//     неизвестные перемещает в Done/.
//
// Обе drop-папки наблюдаются через fsnotify (DropWatch) с полным
// начальным проходом, поэтому файлы, появившиеся до старта watcher'а,
// тоже попадают в обработку.
//
// Запускаются источники командой vigil watch <source>; supervisor
// оркестратора держит эти процессы живыми.
package watcher
