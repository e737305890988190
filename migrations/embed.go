// Package migrations содержит SQL-миграции, встроенные в бинарник.
// Миграции применяются автоматически при старте сервера.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
