// Package riskblock holds assets shared by the commands, such as the
// history database migrations.
package riskblock

import "embed"

// Migrations contains the goose migrations of the run history database.
//
//go:embed migrations/*.sql
var Migrations embed.FS
