// songsource/songsource.go
package songsource

import (
	"context"
	"errors"
	"fmt"

	"github.com/wfunc/guessjam/game"
)

// Code classifies a song source failure for the host-facing surface.
type Code string

const (
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeNotFound      Code = "NOT_FOUND"
	CodeForbidden     Code = "FORBIDDEN"
	CodeQuotaExceeded Code = "QUOTA_EXCEEDED"
	CodeUpstreamError Code = "UPSTREAM_ERROR"
)

// Error is a coded, host-visible song source failure.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf extracts the failure code from an error, defaulting to
// UPSTREAM_ERROR for anything uncoded.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeUpstreamError
}

// Source resolves a playlist reference into an ordered list of playable
// songs.
type Source interface {
	Resolve(ctx context.Context, input string) ([]game.Song, error)
}
