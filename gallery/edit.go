package gallery

import (
	"context"
	"errors"

	"github.com/Brawl345/picedit/ai"
	"github.com/Brawl345/picedit/model"
	"github.com/Brawl345/picedit/utils"
)

const (
	editMaxTokens   = 1000
	editTemperature = 0.7
)

// EditImage saves the request, calls the model without holding the store and
// saves the answer. A failed call leaves the gallery and the user message in place.
func (s *Service) EditImage(ctx context.Context, req EditRequest) (*EditResult, error) {
	var (
		gallery     *model.Gallery
		setting     *model.Setting
		stylePrompt string
	)

	err := s.store.Exclusive(func(repos *model.Repositories) error {
		gallery = &model.Gallery{
			OriginImage: req.OriginImage,
			EffectImage: req.OriginImage,
		}
		if err := repos.Galleries.Create(gallery); err != nil {
			return err
		}
		s.transition(gallery.ID, StateCreated)

		if err := repos.Messages.Create(&model.Message{
			GalleryID: gallery.ID,
			Role:      model.RoleUser,
			Content:   req.Prompt,
		}); err != nil {
			return err
		}

		var err error
		setting, err = repos.Settings.GetOrCreateDefault()
		if err != nil {
			return err
		}
		if !setting.HasAPIKey() {
			return &model.ConfigError{Err: model.ErrMissingAPIKey}
		}

		if req.StyleName == "" {
			return nil
		}
		style, err := repos.Styles.GetByName(req.StyleName)
		if errors.Is(err, model.ErrNotFound) {
			s.log.Warn().Str("style", req.StyleName).Msg("Style not found, editing without style")
			return nil
		}
		if err != nil {
			return err
		}
		stylePrompt = style.Prompt
		return nil
	})
	if err != nil {
		if gallery != nil && gallery.ID != "" {
			s.transition(gallery.ID, StateFailed)
		}
		return nil, err
	}

	s.transition(gallery.ID, StateAwaitingModel)
	resp, err := s.gateway.Call(ctx, setting.APIEndpoint, setting.APIKey, ai.Request{
		Model:       setting.Model,
		Prompt:      ComposePrompt(req.Prompt, stylePrompt),
		Image:       req.OriginImage,
		MaxTokens:   ai.Ptr(uint32(editMaxTokens)),
		Temperature: ai.Ptr(float32(editTemperature)),
	})
	if err != nil {
		s.transition(gallery.ID, StateFailed)
		s.log.Err(err).
			Str("gallery", gallery.ID).
			Str("model", setting.Model).
			Msg("AI processing failed")
		return nil, &EditError{GalleryID: gallery.ID, Err: err}
	}

	effectImage := EffectImage(resp.Content, gallery.OriginImage, gallery.ID)

	err = s.store.Exclusive(func(repos *model.Repositories) error {
		if err := repos.Messages.Create(&model.Message{
			GalleryID: gallery.ID,
			Role:      model.RoleAssistant,
			Content:   resp.Content,
		}); err != nil {
			return err
		}

		gallery.EffectImage = effectImage
		gallery.TotalInputTokens = 0
		gallery.TotalOutputTokens = int64(resp.TokensUsed)
		return repos.Galleries.Update(gallery)
	})
	if err != nil {
		s.transition(gallery.ID, StateFailed)
		return nil, &EditError{GalleryID: gallery.ID, Err: err}
	}

	s.transition(gallery.ID, StateCompleted)
	s.log.Info().
		Str("gallery", gallery.ID).
		Str("model", setting.Model).
		Str("tokens", utils.FormatThousand(resp.TokensUsed)).
		Str("effect_size", utils.HumanizeSize(int64(decodedSize(effectImage)))).
		Msg("Image edited")

	return &EditResult{
		Success:     true,
		EffectImage: effectImage,
		GalleryID:   gallery.ID,
		Message:     "Image edit completed",
	}, nil
}
