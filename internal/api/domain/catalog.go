package domain

import "time"

// Category is a named grouping used to filter jobs
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
