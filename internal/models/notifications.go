package models

import "database/sql"

type Notification struct {
	ID        int            `json:"id,omitempty" db:"id,omitempty"`
	UserID    int            `json:"user_id,omitempty" db:"user_id,omitempty"`
	Title     string         `json:"title,omitempty" db:"title,omitempty"`
	Body      string         `json:"body,omitempty" db:"body,omitempty"`
	Type      string         `json:"type,omitempty" db:"type,omitempty"`
	CreatedAt sql.NullString `json:"created_at,omitempty" db:"created_at,omitempty"`
}

type LoginLog struct {
	ID         int            `json:"id,omitempty" db:"id,omitempty"`
	UserID     sql.NullInt64  `json:"user_id,omitempty" db:"user_id,omitempty"`
	Email      string         `json:"email,omitempty" db:"email,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty" db:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty" db:"user_agent,omitempty"`
	Location   string         `json:"location,omitempty" db:"location,omitempty"`
	Success    bool           `json:"success" db:"success"`
	LoggedInAt sql.NullString `json:"logged_in_at,omitempty" db:"logged_in_at,omitempty"`
}
