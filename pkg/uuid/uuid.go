// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered unique identifiers for Folio records.

It wraps google/uuid to generate Version 7 values: naturally ordered by
creation time, which keeps PostgreSQL B-tree indexes compact.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}
