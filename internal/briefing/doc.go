// Package briefing рендерит ежедневные и еженедельные брифинги.
//
// Рендереры — чистые функции от снимка состояния vault (Stats) к
// markdown-тексту; файловая запись вынесена в Write*-обёртки.
// Вызываются планировщиком по расписанию и командой vigil briefing
// по требованию.
package briefing
