package model

import "time"

type (
	GalleryService interface {
		Create(gallery *Gallery) error
		Update(gallery *Gallery) error
		Get(id string) (*Gallery, error)
		GetAll() ([]Gallery, error)
		BatchDelete(ids []string) error
		TokenUsage(from, to time.Time) (int64, error)
	}

	// Gallery is one edit: the uploaded image, the current result and the tokens spent on it.
	Gallery struct {
		ID                string    `db:"id"`
		OriginImage       string    `db:"origin_image"`
		EffectImage       string    `db:"effect_image"`
		TotalInputTokens  int64     `db:"total_input_tokens"`
		TotalOutputTokens int64     `db:"total_output_tokens"`
		CreatedAt         time.Time `db:"created_at"`
	}
)

func (g *Gallery) TotalTokens() int64 {
	return g.TotalInputTokens + g.TotalOutputTokens
}

func (g *Gallery) Edited() bool {
	return g.EffectImage != g.OriginImage
}
