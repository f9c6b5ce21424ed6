package sql

import (
	"database/sql"
	"errors"

	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
)

const mysqlErrDuplicateEntry = 1062

type styleService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewStyleService(db *sqlx.DB) *styleService {
	return &styleService{
		DB:  db,
		log: logger.New("styleService"),
	}
}

func (db *styleService) exists(name string) (bool, error) {
	const query = `SELECT 1 FROM styles WHERE name = ?`
	var exists bool
	err := db.DB.Get(&exists, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (db *styleService) Create(style *model.Style) error {
	exists, err := db.exists(style.Name)
	if err != nil {
		return err
	}
	if exists {
		return model.ErrAlreadyExists
	}

	if style.ID == "" {
		style.ID = xid.New().String()
	}
	if style.Tags == "" {
		style.Tags = "[]"
	}
	style.CreatedAt = now()
	style.UpdatedAt = style.CreatedAt

	const query = `INSERT INTO styles (id, name, description, prompt, tags, created_at, updated_at)
    VALUES (:id, :name, :description, :prompt, :tags, :created_at, :updated_at)`
	_, err = db.NamedExec(query, style)

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
		return model.ErrAlreadyExists
	}
	return err
}

func (db *styleService) GetAll() ([]model.Style, error) {
	const query = `SELECT id, name, description, prompt, tags, created_at, updated_at
    FROM styles ORDER BY created_at DESC`
	var styles []model.Style
	err := db.Select(&styles, query)
	return styles, err
}

func (db *styleService) GetByName(name string) (*model.Style, error) {
	const query = `SELECT id, name, description, prompt, tags, created_at, updated_at
    FROM styles WHERE name = ?`
	var style model.Style
	err := db.DB.Get(&style, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &style, nil
}

func (db *styleService) Delete(id string) error {
	const query = `DELETE FROM styles WHERE id = ?`
	res, err := db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return model.ErrNotFound
	}
	return nil
}
