package storage

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// pageCursor is the opaque pagination token threaded through feed, reply and
// notification listings: the sort key plus id of the last row on the previous page.
type pageCursor struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
}

func encodeCursor(createdAt time.Time, id string) string {
	b, _ := json.Marshal(pageCursor{CreatedAt: createdAt, ID: id})
	return base64.URLEncoding.EncodeToString(b)
}

func decodeCursor(cursor string) (*pageCursor, error) {
	if cursor == "" {
		return nil, nil
	}
	b, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return nil, err
	}
	var c pageCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// encodePathCursor/decodePathCursor page the reply path ordering, whose sort key is the
// ltree path itself rather than a (created_at, id) pair.
func encodePathCursor(path string) string {
	return base64.URLEncoding.EncodeToString([]byte(path))
}

func decodePathCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
