// Package router классифицирует новые файлы в inbox-директории vault.
//
// # Обзор
//
// Router на каждом тике листает Needs_Action/, пропускает уже виденные
// и не-regular файлы, а для остальных подбирает skill-метку по
// приоритетной таблице префиксов (первый матч побеждает, вне словаря —
// "unknown") и пишет audit-запись file_detected/routed.
//
// Классификация консультативна: роутер не открывает содержимое, не
// перемещает и не удаляет файлы. Интерпретация содержимого — забота
// downstream-обработчиков; роутингу достаточно имени.
//
// # Seen-file set
//
// Множество уже классифицированных имён персистентно
// (Logs/router_seen_files.json) и сбрасывается после каждого Scan,
// поэтому рестарт роутера никогда не порождает повторных routing-записей
// для тех же файлов — даже если файлы физически остались в inbox
// (роутер их классифицирует, но не убирает).
package router
