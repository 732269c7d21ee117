// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migrations embeds the versioned SQL schema of Folio.
//
// Files follow the golang-migrate naming scheme: {version}_{title}.{up|down}.sql.
package migrations

import "embed"

// FS holds every migration file, read by [migration.RunUp] through the iofs source.
//
//go:embed *.sql
var FS embed.FS
