package redis

import (
	"context"

	"github.com/alem-hub/gradebook/internal/domain/ledger"
	"github.com/alem-hub/gradebook/internal/domain/shared"

	"github.com/redis/go-redis/v9"
)

// PrefixAudit namespaces the mirrored log lists.
const PrefixAudit = "audit:"

// DefaultMaxLen bounds each mirrored list.
const DefaultMaxLen = 10000

// AuditKey returns the list key for a log kind, e.g. "audit:grades".
func AuditKey(kind ledger.Kind) string {
	return PrefixAudit + string(kind)
}

// listWriter is the part of redis.Cmdable the mirror uses.
type listWriter interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
}

// AuditMirror implements ledger.Log by appending each entry's line to a
// Redis list and trimming the list to the newest maxLen entries.
type AuditMirror struct {
	client listWriter
	maxLen int64
}

// NewAuditMirror creates a mirror over client. maxLen <= 0 disables trimming.
func NewAuditMirror(client listWriter, maxLen int64) *AuditMirror {
	return &AuditMirror{client: client, maxLen: maxLen}
}

// AppendGrade pushes e onto audit:grades.
func (m *AuditMirror) AppendGrade(ctx context.Context, e ledger.GradeEntry) error {
	return m.push(ctx, ledger.KindGrade, e.Line())
}

// AppendAttendance pushes e onto audit:attendance.
func (m *AuditMirror) AppendAttendance(ctx context.Context, e ledger.AttendanceEntry) error {
	return m.push(ctx, ledger.KindAttendance, e.Line())
}

func (m *AuditMirror) push(ctx context.Context, kind ledger.Kind, line string) error {
	key := AuditKey(kind)

	if err := m.client.RPush(ctx, key, line).Err(); err != nil {
		return shared.StorageError("redis", "AuditMirror", "cannot push to "+key, err)
	}

	if m.maxLen > 0 {
		if err := m.client.LTrim(ctx, key, -m.maxLen, -1).Err(); err != nil {
			return shared.StorageError("redis", "AuditMirror", "cannot trim "+key, err)
		}
	}
	return nil
}

var _ ledger.Log = (*AuditMirror)(nil)
