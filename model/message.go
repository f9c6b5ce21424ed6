package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type (
	MessageService interface {
		Create(message *Message) error
		GetByGalleryID(galleryID string) ([]Message, error)
	}

	Message struct {
		ID        string    `db:"id"`
		GalleryID string    `db:"gallery_id"`
		Role      string    `db:"role"`
		Content   string    `db:"content"`
		CreatedAt time.Time `db:"created_at"`
	}
)
