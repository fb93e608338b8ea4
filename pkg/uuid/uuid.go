// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered surrogate identifiers for catalogue records.

Authors and books are addressed by their natural keys (email and slug), which
change on rename. The ID assigned here never changes, so log lines and clients
can follow a record across renames.

Version 7 values sort by creation time (millisecond precision).
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}
