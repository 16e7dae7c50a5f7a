package domain

import (
	"errors"
	"strings"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrInvalidInput = errors.New("invalid input")

	// ErrIDCollision is returned by repositories when the identifier is already
	// taken. It never leaves the application layer.
	ErrIDCollision = errors.New("link id already exists")

	// ErrIDSpaceExhausted means every create attempt collided.
	ErrIDSpaceExhausted = errors.New("could not allocate a unique link id")
)

const defaultScheme = "https://"

// Link maps a short identifier to its destination. The destination lives in
// the url column of the urls table.
type Link struct {
	ID          string `db:"id" json:"id"`
	Destination string `db:"url" json:"url"`
}

// NewLink builds a Link with a normalized destination.
func NewLink(id, destination string) (*Link, error) {
	if id == "" {
		return nil, ErrInvalidInput
	}

	normalized, err := NormalizeDestination(destination)
	if err != nil {
		return nil, err
	}

	return &Link{ID: id, Destination: normalized}, nil
}

// NormalizeDestination trims the input and makes sure it carries an http or
// https scheme, prefixing https:// otherwise. Hosts are not checked.
func NormalizeDestination(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", ErrInvalidInput
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s, nil
	}

	return defaultScheme + s, nil
}
