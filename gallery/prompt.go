package gallery

import (
	"fmt"
	"strings"
)

const editInstruction = "Please process this image according to the user's request."

const styleInstruction = "Based on the following user request for image processing, generate a style name and description " +
	"suitable for an AI image processing style library. Return only a JSON object with 'name' and 'prompt' fields. " +
	"User request: %s"

// ComposePrompt prefixes the user prompt with the edit instruction and, if set, the style.
func ComposePrompt(userPrompt, stylePrompt string) string {
	var sb strings.Builder
	sb.WriteString(editInstruction)
	if stylePrompt != "" {
		sb.WriteString(fmt.Sprintf(" Apply the %q style.", stylePrompt))
	}
	sb.WriteString(" User request: ")
	sb.WriteString(userPrompt)
	return sb.String()
}

func stylePrompt(content string) string {
	return fmt.Sprintf(styleInstruction, content)
}
