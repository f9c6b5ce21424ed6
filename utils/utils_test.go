package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatThousand(t *testing.T) {
	assert.Equal(t, "0", FormatThousand(0))
	assert.Equal(t, "999", FormatThousand(999))
	assert.Equal(t, "1,000", FormatThousand(1000))
	assert.Equal(t, "1,234,567", FormatThousand(int64(1234567)))
	assert.Equal(t, "-12,345", FormatThousand(-12345))
	assert.Equal(t, "4,294,967,295", FormatThousand(uint32(4294967295)))
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b c", Preview("a\n  b\tc", 10))
	assert.Equal(t, "äöü...", Preview("äöüß", 3))
}

func TestHumanizeSize(t *testing.T) {
	assert.Equal(t, "512 B", HumanizeSize(512))
	assert.Equal(t, "1.50 KB", HumanizeSize(1536))
	assert.Equal(t, "19.07 MB", HumanizeSize(MaxImageSize))
}

func TestToDataURI(t *testing.T) {
	assert.Equal(t, "data:image/png;base64,AQI=", ToDataURI([]byte{1, 2}, "image/png; charset=binary"))

	png := []byte("\x89PNG\r\n\x1a\n0000")
	uri := ToDataURI(png, "application/octet-stream")
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"), uri)
	assert.True(t, IsDataURI(uri))
	assert.False(t, IsDataURI("/tmp/image.png"))
}

func TestEmbedGUID(t *testing.T) {
	assert.Equal(t, " (ref abc)", EmbedGUID("abc"))
}

func TestPeriodBounds(t *testing.T) {
	now := time.Date(2024, time.February, 29, 23, 30, 0, 0, time.FixedZone("CET", 3600))

	from, to := PeriodBounds(PeriodDay, now)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = PeriodBounds(PeriodMonth, now)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), to)

	from, to = PeriodBounds(PeriodYear, now)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Month ")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	_, err = ParsePeriod("week")
	assert.Error(t, err)
}
