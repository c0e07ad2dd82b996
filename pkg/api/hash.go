package api

import (
	"encoding/hex"
	"strconv"

	"github.com/zeebo/blake3"
)

// Hash returns a deterministic BLAKE3 hash of the card. It is served as the
// card's ETag and compared against If-Match on update.
func (c Card) Hash() string {
	h := blake3.New()

	// Null-delimited fields keep "ab"+"c" distinct from "a"+"bc".
	h.Write([]byte(strconv.FormatInt(c.ID, 10)))
	h.Write([]byte{0})

	h.Write([]byte(c.DeckKey))
	h.Write([]byte{0})

	h.Write([]byte(c.Title))
	h.Write([]byte{0})

	h.Write([]byte(c.Content))
	h.Write([]byte{0})

	h.Write([]byte(c.Category))
	h.Write([]byte{0})

	h.Write([]byte(c.Preview))
	h.Write([]byte{0})

	h.Write([]byte(strconv.Itoa(c.Order)))

	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}

// ETag is Hash quoted as an HTTP entity tag.
func (c Card) ETag() string {
	return `"` + c.Hash() + `"`
}
