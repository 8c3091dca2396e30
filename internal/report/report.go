// Package report stores validation reports as zstd-compressed JSON blobs, one
// per validation run, under a per-infrastructure prefix.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/klauspost/compress/zstd"

	"infracheck/internal/blob"
	"infracheck/internal/core"
)

// ContentType is set on every stored report.
const ContentType = "application/zstd"

// Prefix returns the key prefix holding the reports of infraID.
func Prefix(infraID int64) string {
	return fmt.Sprintf("reports/infra-%d/", infraID)
}

// Key returns the blob key of one run.
func Key(infraID int64, runID string) string {
	return Prefix(infraID) + runID + ".json.zst"
}

// Exporter writes reports to a blob store. It satisfies core.ReportExporter.
type Exporter struct {
	store blob.Store
	level zstd.EncoderLevel
}

var _ core.ReportExporter = (*Exporter)(nil)

// Option customizes an Exporter.
type Option func(*Exporter)

// WithLevel sets the zstd compression level.
func WithLevel(level zstd.EncoderLevel) Option {
	return func(e *Exporter) { e.level = level }
}

// NewExporter returns an exporter writing to store.
func NewExporter(store blob.Store, opts ...Option) *Exporter {
	e := &Exporter{store: store, level: zstd.SpeedDefault}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export compresses r and stores it under Key(r.InfraID, r.RunID).
func (e *Exporter) Export(ctx context.Context, r core.Report) (string, error) {
	if r.RunID == "" {
		return "", fmt.Errorf("report has no run id")
	}
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(e.level))
	if err != nil {
		return "", fmt.Errorf("zstd writer: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(r); err != nil {
		_ = enc.Close()
		return "", fmt.Errorf("encode report %s: %w", r.RunID, err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("compress report %s: %w", r.RunID, err)
	}
	key := Key(r.InfraID, r.RunID)
	_, err = e.store.Put(ctx, key, bytes.NewReader(buf.Bytes()), blob.PutOptions{
		ContentType: ContentType,
		Metadata: map[string]string{
			"infra_id": strconv.FormatInt(r.InfraID, 10),
			"run_id":   r.RunID,
			"errors":   strconv.Itoa(r.Total()),
		},
	})
	if err != nil {
		return "", fmt.Errorf("store report %s: %w", key, err)
	}
	return key, nil
}

// Read loads and decompresses the report stored at key.
func Read(ctx context.Context, store blob.Store, key string) (core.Report, error) {
	_, rc, err := store.Get(ctx, key)
	if err != nil {
		return core.Report{}, err
	}
	defer func() { _ = rc.Close() }()
	dec, err := zstd.NewReader(rc)
	if err != nil {
		return core.Report{}, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()
	var r core.Report
	if err := json.NewDecoder(dec).Decode(&r); err != nil {
		return core.Report{}, fmt.Errorf("decode report %s: %w", key, err)
	}
	return r, nil
}

// List returns the stored reports of infraID oldest run first. Keys embed the
// UUIDv7 run id, whose text form sorts by start time.
func List(ctx context.Context, store blob.Store, infraID int64) ([]blob.Info, error) {
	infos, err := store.List(ctx, Prefix(infraID))
	if err != nil {
		return nil, fmt.Errorf("list reports for infra %d: %w", infraID, err)
	}
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}
