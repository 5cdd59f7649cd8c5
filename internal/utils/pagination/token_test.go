package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	ts := time.Date(2026, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(ts, "audit-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedTS, decodedID, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.True(t, ts.Equal(decodedTS))
	assert.Equal(t, "audit-42", decodedID)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	noSeparator := base64.URLEncoding.EncodeToString([]byte("2026-05-15T00:00:00Z"))
	_, _, err = DecodeToken(noSeparator)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.URLEncoding.EncodeToString([]byte("notadate|id-1"))
	_, _, err = DecodeToken(badDate)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "timestamp parse")
}

func TestBefore(t *testing.T) {
	ts := time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, Before(ts.Add(-time.Second), "z", ts, "a"))
	assert.True(t, Before(ts, "a", ts, "b"))
	assert.False(t, Before(ts, "b", ts, "b"))
	assert.False(t, Before(ts.Add(time.Second), "a", ts, "b"))
}
