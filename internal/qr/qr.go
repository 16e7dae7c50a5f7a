// Package qr renders short links as QR code images.
package qr

import (
	"errors"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 256
	ContentType = "image/png"
)

var ErrEmptyContent = errors.New("qr content is empty")

// Encoder turns text into image bytes.
type Encoder interface {
	Encode(text string) ([]byte, error)
	ContentType() string
}

// PNGEncoder renders square PNG images.
type PNGEncoder struct {
	size  int
	level qrcode.RecoveryLevel
}

// NewPNGEncoder returns an encoder producing size x size images. level is one
// of low, medium, high or highest.
func NewPNGEncoder(size int, level string) (*PNGEncoder, error) {
	if size <= 0 {
		size = DefaultSize
	}

	recovery, err := ParseRecoveryLevel(level)
	if err != nil {
		return nil, err
	}

	return &PNGEncoder{size: size, level: recovery}, nil
}

func (e *PNGEncoder) Encode(text string) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyContent
	}

	png, err := qrcode.Encode(text, e.level, e.size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

func (e *PNGEncoder) ContentType() string {
	return ContentType
}

func ParseRecoveryLevel(level string) (qrcode.RecoveryLevel, error) {
	switch level {
	case "low":
		return qrcode.Low, nil
	case "medium", "":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unsupported qr recovery level: %s", level)
	}
}
