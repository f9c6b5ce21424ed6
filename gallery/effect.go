package gallery

import (
	"encoding/base64"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/Brawl345/picedit/utils"
)

var (
	dataURIRegex       = regexp.MustCompile(`data:image/[a-zA-Z0-9.+-]+;base64,[A-Za-z0-9+/]+=*`)
	markdownImageRegex = regexp.MustCompile(`!\[[^\]]*]\((https?://[^\s)]+)\)`)
)

const cardLineLength = 40

// EffectImage picks the edited image out of the model output. Without one, the text
// is rendered as an SVG card. The result never equals origin.
func EffectImage(content, origin, galleryID string) string {
	if img := dataURIRegex.FindString(content); img != "" && img != origin {
		return img
	}
	if match := markdownImageRegex.FindStringSubmatch(content); match != nil && match[1] != origin {
		return match[1]
	}
	return renderCard(content, galleryID)
}

func renderCard(content, galleryID string) string {
	var sb strings.Builder
	sb.WriteString(`<svg width="400" height="400" xmlns="http://www.w3.org/2000/svg">`)
	sb.WriteString(`<rect width="400" height="400" fill="#3373dc"/>`)
	sb.WriteString(`<text x="20" y="40" font-family="monospace" font-size="14px" fill="white">`)

	dy := 0
	for _, line := range wrap(utils.Preview(content, cardLineLength*12), cardLineLength) {
		sb.WriteString(fmt.Sprintf(`<tspan x="20" dy="%d">%s</tspan>`, dy, html.EscapeString(line)))
		dy = 20
	}

	sb.WriteString(`</text>`)
	sb.WriteString(fmt.Sprintf(`<text x="20" y="380" font-family="monospace" font-size="10px" fill="#cfdcf5">%s</text>`,
		html.EscapeString(galleryID)))
	sb.WriteString(`</svg>`)

	return utils.ToDataURI([]byte(sb.String()), "image/svg+xml")
}

func wrap(s string, width int) []string {
	var lines []string
	var current []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		if len(current) > 0 && len(current)+1+len(w) > width {
			lines = append(lines, string(current))
			current = nil
		}
		if len(current) > 0 {
			current = append(current, ' ')
		}
		current = append(current, w...)
	}
	if len(current) > 0 {
		lines = append(lines, string(current))
	}
	if len(lines) == 0 {
		lines = []string{"AI Processed"}
	}
	return lines
}

// decodedSize is the payload size of a base64 data URI.
func decodedSize(dataURI string) int {
	_, payload, found := strings.Cut(dataURI, ";base64,")
	if !found {
		return 0
	}
	return base64.StdEncoding.DecodedLen(len(payload))
}
