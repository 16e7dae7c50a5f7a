package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDestination(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "bare host", input: "example.com", want: "https://example.com"},
		{name: "bare host with path", input: "openai.com/research?x=1", want: "https://openai.com/research?x=1"},
		{name: "https unchanged", input: "https://example.org/page", want: "https://example.org/page"},
		{name: "http unchanged", input: "http://example.org", want: "http://example.org"},
		{name: "whitespace trimmed", input: "  example.net\n", want: "https://example.net"},
		{name: "other scheme gets prefixed", input: "ftp://files.example", want: "https://ftp://files.example"},
		{name: "scheme check is case sensitive", input: "HTTPS://example.com", want: "https://HTTPS://example.com"},
		{name: "empty", input: "", wantErr: ErrInvalidInput},
		{name: "whitespace only", input: " \t ", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDestination(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDestination_Idempotent(t *testing.T) {
	for _, input := range []string{"example.com", "http://a.example", "https://b.example/x", " c.example "} {
		once, err := NormalizeDestination(input)
		require.NoError(t, err)
		twice, err := NormalizeDestination(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNewLink(t *testing.T) {
	link, err := NewLink("abc123", "openai.com")
	require.NoError(t, err)
	assert.Equal(t, &Link{ID: "abc123", Destination: "https://openai.com"}, link)

	_, err = NewLink("", "openai.com")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewLink("abc123", " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
