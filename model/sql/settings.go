package sql

import (
	"database/sql"
	"errors"

	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
	"github.com/jmoiron/sqlx"
	"github.com/rs/xid"
)

type settingService struct {
	*sqlx.DB
	log *logger.Logger
}

func NewSettingService(db *sqlx.DB) *settingService {
	return &settingService{
		DB:  db,
		log: logger.New("settingService"),
	}
}

func (db *settingService) Get() (*model.Setting, error) {
	const query = `SELECT id, api_endpoint, api_key, model, updated_at FROM settings ORDER BY updated_at DESC LIMIT 1`
	var setting model.Setting
	err := db.DB.Get(&setting, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetOrCreateDefault returns the stored settings or persists and returns the defaults.
func (db *settingService) GetOrCreateDefault() (*model.Setting, error) {
	setting, err := db.Get()
	if err == nil {
		return setting, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	setting = &model.Setting{
		ID:          xid.New().String(),
		APIEndpoint: model.DefaultAPIEndpoint,
		Model:       model.DefaultModel,
		UpdatedAt:   now(),
	}
	if err := db.insert(setting); err != nil {
		return nil, err
	}
	db.log.Info().Str("id", setting.ID).Msg("Created default settings")
	return setting, nil
}

// Save overwrites the single settings row, creating it if needed.
func (db *settingService) Save(setting *model.Setting) error {
	if setting.ID == "" {
		existing, err := db.Get()
		switch {
		case err == nil:
			setting.ID = existing.ID
		case errors.Is(err, model.ErrNotFound):
			setting.ID = xid.New().String()
		default:
			return err
		}
	}
	setting.UpdatedAt = now()

	const query = `INSERT INTO settings (id, api_endpoint, api_key, model, updated_at)
    VALUES (:id, :api_endpoint, :api_key, :model, :updated_at)
    ON DUPLICATE KEY UPDATE
    api_endpoint = VALUES(api_endpoint),
    api_key = VALUES(api_key),
    model = VALUES(model),
    updated_at = VALUES(updated_at)`
	_, err := db.NamedExec(query, setting)
	return err
}

func (db *settingService) insert(setting *model.Setting) error {
	const query = `INSERT INTO settings (id, api_endpoint, api_key, model, updated_at)
    VALUES (:id, :api_endpoint, :api_key, :model, :updated_at)`
	_, err := db.NamedExec(query, setting)
	return err
}
