package models

import (
	"encoding/json"
	"time"
)

// Setting is a process-wide key/value configuration row. Values carry no
// enforced schema; they are stored as JSONB and surfaced verbatim.
type Setting struct {
	Key         string          `json:"key" db:"key"`
	Value       json.RawMessage `json:"value" db:"value"`
	Description *string         `json:"description,omitempty" db:"description"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}
