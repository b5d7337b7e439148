package models

import "time"

// ContactSubmission is one persisted contact-form entry.
type ContactSubmission struct {
	ID        int64     `json:"id" db:"id"`
	FirstName string    `json:"firstName" db:"first_name"`
	LastName  string    `json:"lastName" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Company   *string   `json:"company" db:"company"` // optional
	Service   *string   `json:"service" db:"service"` // optional
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// NewContactSubmission is the write model accepted by the contact service.
type NewContactSubmission struct {
	FirstName string
	LastName  string
	Email     string
	Company   *string
	Service   *string
	Message   string
}
