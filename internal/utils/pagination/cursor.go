package pagination

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	svcErr "github.com/hey-granth/profile-guard/internal/errors"
)

// Cursor is the opaque pagination state we encode/decode.
// UserID + UpdatedUnix (in millis) establish a stable cursor over
// (updated_at DESC, user id DESC) orderings.
type Cursor struct {
	UserID      uint64 `json:"user_id"`
	UpdatedUnix int64  `json:"updated_unix,omitempty"`
}

// IsZero reports whether the cursor points at the first page.
func (c Cursor) IsZero() bool {
	return c.UserID == 0 || c.UpdatedUnix == 0
}

// UpdatedAt returns the cursor timestamp in UTC.
func (c Cursor) UpdatedAt() time.Time {
	return time.UnixMilli(c.UpdatedUnix).UTC()
}

// Encode converts a Cursor into a Base64 string.
func Encode(c Cursor) (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// Decode parses a Base64 string into a Cursor.
// Empty token → empty cursor (first page).
func Decode(token string) (Cursor, error) {
	if token == "" {
		return Cursor{}, nil
	}

	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token", svcErr.ErrValidation)
	}

	var c Cursor
	if err := json.Unmarshal(b, &c); err != nil {
		return Cursor{}, fmt.Errorf("%w: invalid pagination token", svcErr.ErrValidation)
	}
	return c, nil
}
