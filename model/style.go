package model

import "time"

type (
	StyleService interface {
		Create(style *Style) error
		GetAll() ([]Style, error)
		GetByName(name string) (*Style, error)
		Delete(id string) error
	}

	Style struct {
		ID          string    `db:"id"`
		Name        string    `db:"name"`
		Description string    `db:"description"`
		Prompt      string    `db:"prompt"`
		Tags        string    `db:"tags"` // JSON array
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}
)
