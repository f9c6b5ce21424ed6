package gallery

import (
	"context"
	"fmt"

	"github.com/Brawl345/picedit/ai"
	"github.com/Brawl345/picedit/logger"
	"github.com/Brawl345/picedit/model"
)

// State of one edit request.
type State string

const (
	StateCreated       State = "created"
	StateAwaitingModel State = "awaiting_model"
	StateCompleted     State = "completed"
	StateFailed        State = "failed"
)

type (
	// Gateway is the AI call. It may block for the whole retry loop.
	Gateway interface {
		Call(ctx context.Context, endpoint, apiKey string, req ai.Request) (*ai.Response, error)
	}

	Service struct {
		store   model.Store
		gateway Gateway
		log     *logger.Logger
	}

	EditRequest struct {
		// OriginImage is a data URI or raw base64.
		OriginImage string
		Prompt      string
		StyleName   string
	}

	EditResult struct {
		Success     bool
		EffectImage string
		GalleryID   string
		Message     string
	}

	StyleResult struct {
		Success     bool
		StyleName   string
		StylePrompt string
		Message     string
	}

	// EditError is returned when the model call failed after the gallery was saved.
	EditError struct {
		GalleryID string
		Err       error
	}
)

func (e *EditError) Error() string {
	return fmt.Sprintf("AI processing failed for gallery %s: %v", e.GalleryID, e.Err)
}

func (e *EditError) Unwrap() error {
	return e.Err
}

func NewService(store model.Store, gateway Gateway) *Service {
	return &Service{
		store:   store,
		gateway: gateway,
		log:     logger.New("gallery"),
	}
}

func (s *Service) transition(galleryID string, state State) {
	s.log.Debug().
		Str("gallery", galleryID).
		Str("state", string(state)).
		Msg("Edit state changed")
}
