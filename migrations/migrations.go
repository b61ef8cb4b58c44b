// Package migrations — схема БД журнала уведомлений (goose).
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
