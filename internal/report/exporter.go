package report

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"

	"hcroi/internal/blob"
	"hcroi/internal/ctxlog"
)

// ExportStatus describes the outcome of one artifact write.
type ExportStatus string

const (
	ExportStatusStored ExportStatus = "stored"
	ExportStatusFailed ExportStatus = "failed"
)

// StoredArtifact captures an artifact written to the blob store.
type StoredArtifact struct {
	Name        string            `json:"name"`
	Key         string            `json:"key"`
	Format      Format            `json:"format"`
	ContentType string            `json:"content_type"`
	SizeBytes   int64             `json:"size_bytes"`
	ETag        string            `json:"etag,omitempty"`
	URL         string            `json:"url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// AuditLogger records export audit entries.
type AuditLogger interface {
	Record(ctx context.Context, entry AuditEntry)
}

// AuditEntry captures audit trail metadata for one artifact write.
type AuditEntry struct {
	ID         string            `json:"id"`
	Action     string            `json:"action"`
	RunID      string            `json:"run_id"`
	Artifact   string            `json:"artifact"`
	Key        string            `json:"key"`
	Format     Format            `json:"format"`
	Status     ExportStatus      `json:"status"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// Exporter writes rendered artifacts to the blob store under the run's
// prefix, one at a time and in the order given.
type Exporter struct {
	store blob.Store
	audit AuditLogger
	now   func() time.Time
}

// NewExporter constructs an exporter. A nil audit logger disables auditing.
func NewExporter(store blob.Store, audit AuditLogger) *Exporter {
	return &Exporter{store: store, audit: audit, now: func() time.Time { return time.Now().UTC() }}
}

// ArtifactKey returns the blob key of an artifact within a run.
func ArtifactKey(runID, name string) (string, error) {
	return blob.CleanKey(path.Join(runID, name))
}

// Export stores every artifact and returns what was written. The first
// failure aborts the export; artifacts already stored are reported with the
// error.
func (e *Exporter) Export(ctx context.Context, runID string, artifacts []Artifact) ([]StoredArtifact, error) {
	if e.store == nil {
		return nil, fmt.Errorf("export: no blob store configured")
	}
	logger := ctxlog.FromContext(ctx)
	out := make([]StoredArtifact, 0, len(artifacts))
	for _, a := range artifacts {
		key, err := ArtifactKey(runID, a.Name)
		if err != nil {
			e.record(ctx, runID, a, a.Name, ExportStatusFailed, map[string]string{"error": err.Error()})
			return out, fmt.Errorf("export %s: %w", a.Name, err)
		}
		meta := mergeMetadata(a.Metadata, map[string]string{"run_id": runID, "format": string(a.Format)})
		info, err := e.store.Put(ctx, key, bytes.NewReader(a.Payload), blob.PutOptions{
			ContentType: a.Format.ContentType(),
			Metadata:    meta,
		})
		if err != nil {
			e.record(ctx, runID, a, key, ExportStatusFailed, map[string]string{"error": err.Error()})
			return out, fmt.Errorf("export %s: %w", a.Name, err)
		}
		stored := StoredArtifact{
			Name:        a.Name,
			Key:         info.Key,
			Format:      a.Format,
			ContentType: info.ContentType,
			SizeBytes:   info.Size,
			ETag:        info.ETag,
			URL:         info.URL,
			Metadata:    mergeMetadata(meta, info.Metadata),
			CreatedAt:   info.LastModified,
		}
		if stored.ContentType == "" {
			stored.ContentType = a.Format.ContentType()
		}
		if stored.SizeBytes == 0 {
			stored.SizeBytes = int64(len(a.Payload))
		}
		if stored.CreatedAt.IsZero() {
			stored.CreatedAt = e.now()
		}
		out = append(out, stored)
		logger.Debug("artifact stored", "key", stored.Key, "format", stored.Format, "bytes", stored.SizeBytes)
		e.record(ctx, runID, a, stored.Key, ExportStatusStored, map[string]string{"etag": stored.ETag})
	}
	return out, nil
}

func (e *Exporter) record(ctx context.Context, runID string, a Artifact, key string, status ExportStatus, meta map[string]string) {
	if e.audit == nil {
		return
	}
	e.audit.Record(ctx, AuditEntry{
		ID:         newID(),
		Action:     "artifact_export",
		RunID:      runID,
		Artifact:   a.Name,
		Key:        key,
		Format:     a.Format,
		Status:     status,
		Metadata:   meta,
		OccurredAt: e.now(),
	})
}

func mergeMetadata(base, extra map[string]string) map[string]string {
	if len(base) == 0 && len(extra) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

func newID() string { return uuid.NewString() }

// SlogAudit writes audit entries to the context logger.
type SlogAudit struct{}

// Record logs the entry at info level, or warn for failures.
func (SlogAudit) Record(ctx context.Context, entry AuditEntry) {
	logger := ctxlog.FromContext(ctx)
	attrs := []any{
		"audit_id", entry.ID,
		"action", entry.Action,
		"run_id", entry.RunID,
		"artifact", entry.Artifact,
		"key", entry.Key,
		"format", entry.Format,
		"status", entry.Status,
	}
	if msg, ok := entry.Metadata["error"]; ok {
		logger.Warn("artifact audit", append(attrs, "error", msg)...)
		return
	}
	logger.Info("artifact audit", attrs...)
}

// MemoryAuditLog captures audit entries in-memory for assertions.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
}

// Record stores an audit entry.
func (l *MemoryAuditLog) Record(_ context.Context, entry AuditEntry) {
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
}

// Entries returns a copy of recorded audit entries.
func (l *MemoryAuditLog) Entries() []AuditEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]AuditEntry, len(l.entries))
	copy(out, l.entries)
	return out
}
