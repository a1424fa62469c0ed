package entity

import "time"

// File is an uploaded object. URL is derived from Path and never stored.
type File struct {
	ID        int64
	Name      string
	Path      string
	URL       string
	CreatedAt time.Time
}
