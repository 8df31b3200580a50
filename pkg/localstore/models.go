package localstore

import "time"

// SessionRecord persists the single active session as a JSON payload. The
// fixed primary key keeps at most one row in the table.
type SessionRecord struct {
	ID        int    `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName keeps the sqlite table names stable.
func (SessionRecord) TableName() string { return "session" }

// MenuSnapshotRecord is the last-known-good menu for a vendor, used when the
// menu endpoint is unreachable.
type MenuSnapshotRecord struct {
	VendorID  string `gorm:"primaryKey"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName keeps the sqlite table names stable.
func (MenuSnapshotRecord) TableName() string { return "menu_snapshots" }
