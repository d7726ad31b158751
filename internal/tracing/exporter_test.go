package tracing

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func readRecords(t *testing.T, path string) []SpanRecord {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	var records []SpanRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec SpanRecord
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &rec))
		records = append(records, rec)
	}
	require.NoError(t, scanner.Err())
	return records
}

func TestNewFileExporter_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "traces.jsonl")

	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	_, err = os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_ExportSpans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	start := time.Now()
	stub := tracetest.SpanStub{
		Name:      SpanKeystroke,
		SpanKind:  trace.SpanKindInternal,
		StartTime: start,
		EndTime:   start.Add(2 * time.Millisecond),
		Status:    sdktrace.Status{Code: codes.Error, Description: "Unknown command"},
		Attributes: []attribute.KeyValue{
			attribute.String(AttrModeBefore, "COMMAND"),
			attribute.String(AttrOutcome, "error"),
		},
		Events: []sdktrace.Event{
			{Name: EventUnknownCommand, Time: start},
		},
	}
	require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	require.NoError(t, exporter.Shutdown(context.Background()))

	records := readRecords(t, path)
	require.Len(t, records, 1)
	rec := records[0]
	require.Equal(t, SpanKeystroke, rec.Name)
	require.Empty(t, rec.Parent)
	require.Equal(t, "Unknown command", rec.Error)
	require.Equal(t, "COMMAND", rec.Attrs[AttrModeBefore])
	require.Len(t, rec.Events, 1)
	require.Equal(t, EventUnknownCommand, rec.Events[0].Name)
	require.Equal(t, time.Duration(0), rec.Events[0].Offset)
	require.Equal(t, 2*time.Millisecond, rec.Duration)
	require.True(t, start.Equal(rec.Start))
}

func TestFileExporter_AppendsAcrossBatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces.jsonl")
	exporter, err := NewFileExporter(path)
	require.NoError(t, err)

	for _, name := range []string{"first", "second"} {
		stub := tracetest.SpanStub{Name: name, Status: sdktrace.Status{Code: codes.Error}}
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()}))
	}

	// Each batch is flushed, so the file is readable before shutdown.
	records := readRecords(t, path)
	require.Len(t, records, 2)
	require.Equal(t, "second", records[1].Name)
	require.Equal(t, "error", records[1].Error, "error status without a description")
	require.Nil(t, records[0].Attrs)
	require.NoError(t, exporter.Shutdown(context.Background()))
}

func TestFileExporter_ExportAfterShutdown(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.Shutdown(context.Background()))
	require.NoError(t, exporter.Shutdown(context.Background()), "second shutdown is a no-op")

	stub := tracetest.SpanStub{Name: "late"}
	err = exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{stub.Snapshot()})
	require.ErrorIs(t, err, errExporterClosed)
}

func TestFileExporter_EmptyBatch(t *testing.T) {
	exporter, err := NewFileExporter(filepath.Join(t.TempDir(), "traces.jsonl"))
	require.NoError(t, err)
	require.NoError(t, exporter.ExportSpans(context.Background(), nil))
	require.NoError(t, exporter.Shutdown(context.Background()))
}
