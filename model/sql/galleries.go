package sql

import (
	"database/sql"
	"errors"
	"time"

	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
	"golang.org/x/exp/slices"
)

type galleryService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewGalleryService(db *sqlx.DB) *galleryService {
	return &galleryService{
		DB:  db,
		log: logger.New("galleryService"),
	}
}

func (db *galleryService) Create(gallery *model.Gallery) error {
	if gallery.ID == "" {
		gallery.ID = xid.New().String()
	}
	if gallery.CreatedAt.IsZero() {
		gallery.CreatedAt = now()
	}

	const query = `INSERT INTO galleries
    (id, origin_image, effect_image, total_input_tokens, total_output_tokens, created_at)
    VALUES (:id, :origin_image, :effect_image, :total_input_tokens, :total_output_tokens, :created_at)`
	_, err := db.NamedExec(query, gallery)
	return err
}

// Update rewrites images and token totals. created_at is immutable.
func (db *galleryService) Update(gallery *model.Gallery) error {
	const query = `UPDATE galleries SET
    origin_image = :origin_image,
    effect_image = :effect_image,
    total_input_tokens = :total_input_tokens,
    total_output_tokens = :total_output_tokens
    WHERE id = :id`
	_, err := db.NamedExec(query, gallery)
	return err
}

func (db *galleryService) Get(id string) (*model.Gallery, error) {
	const query = `SELECT id, origin_image, effect_image, total_input_tokens, total_output_tokens, created_at
    FROM galleries WHERE id = ?`
	var gallery model.Gallery
	err := db.DB.Get(&gallery, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &gallery, nil
}

func (db *galleryService) GetAll() ([]model.Gallery, error) {
	const query = `SELECT id, origin_image, effect_image, total_input_tokens, total_output_tokens, created_at
    FROM galleries ORDER BY created_at DESC`
	var galleries []model.Gallery
	err := db.Select(&galleries, query)
	return galleries, err
}

// BatchDelete removes the galleries and their messages in one transaction.
func (db *galleryService) BatchDelete(ids []string) error {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil
	}

	tx, err := db.Beginx()
	if err != nil {
		return err
	}

	deleteMessages, args, err := sqlx.In(`DELETE FROM messages WHERE gallery_id IN (?)`, ids)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(tx.Rebind(deleteMessages), args...); err != nil {
		db.log.Err(err).Strs("ids", ids).Msg("Failed to delete messages")
		_ = tx.Rollback()
		return err
	}

	deleteGalleries, args, err := sqlx.In(`DELETE FROM galleries WHERE id IN (?)`, ids)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.Exec(tx.Rebind(deleteGalleries), args...); err != nil {
		db.log.Err(err).Strs("ids", ids).Msg("Failed to delete galleries")
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// TokenUsage sums input and output tokens of galleries created in [from, to).
func (db *galleryService) TokenUsage(from, to time.Time) (int64, error) {
	const query = `SELECT COALESCE(SUM(total_input_tokens + total_output_tokens), 0)
    FROM galleries WHERE created_at >= ? AND created_at < ?`
	var total int64
	err := db.DB.Get(&total, query, from.UTC(), to.UTC())
	return total, err
}
