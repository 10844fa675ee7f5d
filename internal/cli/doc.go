// Package cli содержит команды инструмента vigil.
//
// Каждая команда создаётся конструктором New*Cmd и подключается к
// корневой команде в cmd/vigil. Долгоживущие команды (orchestrate,
// watch) завершаются по SIGINT/SIGTERM с кодом 0; ненулевой код
// возможен только при ошибке конфигурации на старте.
package cli
