// Package config содержит явную конфигурацию системы.
//
// # Обзор
//
// Вся конфигурация собирается один раз при старте (флаги CLI поверх
// значений по умолчанию, VAULT_PATH из окружения как fallback) в
// структуру Config и передаётся по значению в конструкторы компонентов.
// Компоненты никогда не обращаются к окружению в точке использования.
//
// Единственное исключение — пакет telemetry, читающий LOG_LEVEL и
// LOG_FORMAT до того, как конфигурация вообще существует.
package config
