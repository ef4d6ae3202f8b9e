package domain

import "time"

type Note struct {
	ID        uint
	UserID    uint
	Content   string
	ShortID   int
	CreatedAt time.Time
	UpdatedAt time.Time
}
