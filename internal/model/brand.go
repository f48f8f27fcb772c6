package model

import "time"

// Brand is a catalog entry created lazily the first time a user types a
// brand name that is not already known. Never updated or deleted.
type Brand struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
