// Package idgen provides short identifier generators for links.
// Generators are safe for concurrent use.
package idgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/sp3dr4/qrlink/internal/domain"
)

const (
	StrategyUUID   = "uuid"
	StrategyNanoID = "nanoid"

	// uuidHexDigits is the number of hex digits in a UUID without dashes.
	uuidHexDigits = 32

	alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

var ErrInvalidLength = errors.New("id length must be positive")

/***************
 * UUID prefix
 ***************/

type uuidGen struct {
	length int
}

// NewUUID returns a generator that truncates a random v4 UUID to length hex
// digits. Lengths above 32 are clamped.
func NewUUID(length int) (domain.IDGenerator, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	return &uuidGen{length: min(length, uuidHexDigits)}, nil
}

func (g *uuidGen) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	return hex[:g.length], nil
}

/***************
 * Nano ID
 ***************/

type nanoIDGen struct {
	length int
}

// NewNanoID returns a generator of alphanumeric nano ids.
func NewNanoID(length int) (domain.IDGenerator, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	return &nanoIDGen{length: length}, nil
}

func (g *nanoIDGen) Generate() (string, error) {
	id, err := gonanoid.Generate(alphanumeric, g.length)
	if err != nil {
		return "", fmt.Errorf("generate nano id: %w", err)
	}
	return id, nil
}

// New returns the generator for a configured strategy.
func New(strategy string, length int) (domain.IDGenerator, error) {
	switch strategy {
	case StrategyUUID, "":
		return NewUUID(length)
	case StrategyNanoID:
		return NewNanoID(length)
	default:
		return nil, fmt.Errorf("unsupported id generator: %s", strategy)
	}
}
