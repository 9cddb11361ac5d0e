package models

import (
	"database/sql"
	"time"
)

// User is the persisted account record. Both the relational and the
// flat-file repositories produce this shape.
type User struct {
	ID           string         `db:"id" json:"id"`
	Username     string         `db:"username" json:"username"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"password_hash"`
	DisplayName  sql.NullString `db:"display_name" json:"display_name"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
