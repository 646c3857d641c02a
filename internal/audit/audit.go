package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Entry represents an audit log entry for one API operation call.
// Credentials, tokens and query strings are never recorded.
type Entry struct {
	ID         string    `db:"id"`
	Operation  string    `db:"operation"`
	Method     string    `db:"method"`
	Path       string    `db:"path"`
	Status     int       `db:"status"`
	Actor      string    `db:"actor"`
	IP         string    `db:"ip"`
	UserAgent  string    `db:"user_agent"`
	RequestID  string    `db:"request_id"`
	DurationMS int64     `db:"duration_ms"`
	CreatedAt  time.Time `db:"created_at"`
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	return "audit-" + uuid.NewString()
}
