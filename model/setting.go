package model

import "time"

const (
	DefaultAPIEndpoint = "https://api.openai.com/v1"
	DefaultModel       = "gpt-4o"
)

type (
	SettingService interface {
		Get() (*Setting, error)
		GetOrCreateDefault() (*Setting, error)
		Save(setting *Setting) error
	}

	Setting struct {
		ID          string    `db:"id"`
		APIEndpoint string    `db:"api_endpoint"`
		APIKey      string    `db:"api_key"`
		Model       string    `db:"model"`
		UpdatedAt   time.Time `db:"updated_at"`
	}
)

func (s *Setting) HasAPIKey() bool {
	return s.APIKey != ""
}
