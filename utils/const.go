package utils

import "time"

const (
	Day = 24 * time.Hour

	MaxImageSize = 20000000 // Largest image accepted for editing = 20 MB

	PreviewLength = 60
)
