package api

import (
	"errors"
	"strconv"
	"strings"
)

// ErrInvalidID reports a card id that is not a positive integer.
var ErrInvalidID = errors.New("invalid card id")

// ParseCardID parses a card id from a path segment or CLI argument.
func ParseCardID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
