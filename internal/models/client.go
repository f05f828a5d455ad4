package models

import "time"

// Client is a directory entry for a firm client. The scheduling core only
// consumes the id/name pair; the rest serves the directory endpoints.
type Client struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Company   string    `db:"company" json:"company"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ClientRef is the id/name pair events carry. No referential integrity is
// enforced against the directory.
type ClientRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClientFilter captures filtering criteria for listing clients.
type ClientFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
