package sql

import (
	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
)

type messageService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewMessageService(db *sqlx.DB) *messageService {
	return &messageService{
		DB:  db,
		log: logger.New("messageService"),
	}
}

func (db *messageService) Create(message *model.Message) error {
	if message.ID == "" {
		message.ID = xid.New().String()
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now()
	}

	const query = `INSERT INTO messages (id, gallery_id, role, content, created_at)
    VALUES (:id, :gallery_id, :role, :content, :created_at)`
	_, err := db.NamedExec(query, message)
	return err
}

func (db *messageService) GetByGalleryID(galleryID string) ([]model.Message, error) {
	const query = `SELECT id, gallery_id, role, content, created_at
    FROM messages WHERE gallery_id = ? ORDER BY created_at, id`
	var messages []model.Message
	err := db.Select(&messages, query, galleryID)
	return messages, err
}
