package domain

import "time"

// Backup is a full snapshot of every tournament, as produced by export.
type Backup struct {
	ID        int
	CreatedAt time.Time
	Data      []byte
}
