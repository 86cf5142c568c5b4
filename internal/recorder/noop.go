package recorder

import "context"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordAnalysis(_ context.Context, _ *AnalysisRecord) error { return nil }
func (n *NoopRecorder) RecordRefresh(_ context.Context, _ *RefreshEvent) error    { return nil }
func (n *NoopRecorder) Recent(_ context.Context, _ string, _ int) ([]AnalysisRecord, error) {
	return nil, nil
}
func (n *NoopRecorder) Close() error { return nil }
