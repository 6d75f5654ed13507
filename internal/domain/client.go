package domain

import "time"

type Client struct {
	ID        uint
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Company   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
