package model

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire and query format of every calendar-day column.
const DateLayout = "2006-01-02"

// BaseModel audit timestamps embedded by every table
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// ensureID fills an empty surrogate key. Ids are generated in Go so the
// schema works on databases without gen_random_uuid().
func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}
