package gallery

import (
	"context"
	"regexp"
	"strings"

	"github.com/Brawl345/picedit/ai"
	"github.com/Brawl345/picedit/model"
	jsoniter "github.com/json-iterator/go"
)

const (
	fallbackStyleName   = "Custom style"
	fallbackStylePrompt = "Apply artistic style transformation"
)

var (
	json = jsoniter.ConfigCompatibleWithStandardLibrary

	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
)

// GenerateStyleFromMessage asks the model to turn content into a reusable style.
// The store is only held while reading settings.
func (s *Service) GenerateStyleFromMessage(ctx context.Context, content string) (*StyleResult, error) {
	var setting *model.Setting
	err := s.store.Exclusive(func(repos *model.Repositories) error {
		var err error
		setting, err = repos.Settings.GetOrCreateDefault()
		if err != nil {
			return err
		}
		if !setting.HasAPIKey() {
			return &model.ConfigError{Err: model.ErrMissingAPIKey}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp, err := s.gateway.Call(ctx, setting.APIEndpoint, setting.APIKey, ai.Request{
		Model:       setting.Model,
		Prompt:      stylePrompt(content),
		MaxTokens:   ai.Ptr(uint32(200)),
		Temperature: ai.Ptr(float32(0.7)),
	})
	if err != nil {
		s.log.Err(err).Str("model", setting.Model).Msg("Style generation failed")
		return nil, err
	}

	name, prompt := parseStyle(resp.Content)
	return &StyleResult{
		Success:     true,
		StyleName:   name,
		StylePrompt: prompt,
		Message:     "Style generated",
	}, nil
}

// parseStyle reads {"name", "prompt"} from the model output, tolerating code fences.
func parseStyle(content string) (name, prompt string) {
	var generated struct {
		Name   string `json:"name"`
		Prompt string `json:"prompt"`
	}

	raw := strings.TrimSpace(content)
	if match := codeFenceRegex.FindStringSubmatch(raw); match != nil {
		raw = match[1]
	}
	_ = json.Unmarshal([]byte(raw), &generated)

	name = strings.TrimSpace(generated.Name)
	if name == "" {
		name = firstQuoted(content)
	}
	if name == "" {
		name = fallbackStyleName
	}

	prompt = strings.TrimSpace(generated.Prompt)
	if prompt == "" {
		prompt = fallbackStylePrompt
	}
	return name, prompt
}

func firstQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start == -1 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end == -1 {
		return ""
	}
	return s[start+1 : start+1+end]
}
