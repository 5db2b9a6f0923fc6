package querylog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cachie/internal/models"
)

func openBackends(t *testing.T) map[string]Log {
	t.Helper()

	badgerLog, err := OpenBadger(nil)
	require.NoError(t, err)

	logs := map[string]Log{
		BackendMemory: NewMemory(),
		BackendBadger: badgerLog,
	}
	t.Cleanup(func() {
		for _, l := range logs {
			l.Close()
		}
	})
	return logs
}

func collect(t *testing.T, l Log) []models.SearchRecord {
	t.Helper()
	var out []models.SearchRecord
	err := l.ForEach(context.Background(), func(rec models.SearchRecord) error {
		out = append(out, rec)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestLog_AppendAndScanInOrder(t *testing.T) {
	for name, l := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			want := make([]models.SearchRecord, 0, 300)
			for i := 0; i < 300; i++ {
				rec := models.SearchRecord{
					Query:     fmt.Sprintf("query number %d", i),
					ClientID:  fmt.Sprintf("c%d", i%3),
					SessionID: fmt.Sprintf("s%d", i%7),
				}
				require.NoError(t, l.Append(ctx, rec))
				want = append(want, rec)
			}

			assert.Equal(t, 300, l.Len())
			assert.Equal(t, want, collect(t, l))
		})
	}
}

func TestLog_EmptyScan(t *testing.T) {
	for name, l := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, 0, l.Len())
			assert.Empty(t, collect(t, l))
		})
	}
}

func TestLog_ForEachStopsOnError(t *testing.T) {
	stop := errors.New("stop")
	for name, l := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 5; i++ {
				require.NoError(t, l.Append(ctx, models.SearchRecord{Query: "q", ClientID: "c", SessionID: "s"}))
			}

			visited := 0
			err := l.ForEach(ctx, func(models.SearchRecord) error {
				visited++
				if visited == 2 {
					return stop
				}
				return nil
			})
			assert.ErrorIs(t, err, stop)
			assert.Equal(t, 2, visited)
		})
	}
}

func TestLog_CanceledContext(t *testing.T) {
	for name, l := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			err := l.Append(ctx, models.SearchRecord{Query: "q"})
			assert.ErrorIs(t, err, context.Canceled)
			assert.Equal(t, 0, l.Len())
		})
	}
}

func TestLog_ClosedRejectsAppend(t *testing.T) {
	for name, l := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, l.Close())
			err := l.Append(context.Background(), models.SearchRecord{Query: "q"})
			assert.ErrorIs(t, err, ErrClosed)
		})
	}
}

func TestLog_ConcurrentAppendDuringScan(t *testing.T) {
	for name, l := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 50; i++ {
				require.NoError(t, l.Append(ctx, models.SearchRecord{Query: "seed", ClientID: "c", SessionID: "s"}))
			}

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 200; i++ {
					l.Append(ctx, models.SearchRecord{Query: "late", ClientID: "c", SessionID: "s"})
				}
			}()

			seen := 0
			err := l.ForEach(ctx, func(models.SearchRecord) error {
				seen++
				return nil
			})
			wg.Wait()

			require.NoError(t, err)
			assert.GreaterOrEqual(t, seen, 50)
			assert.LessOrEqual(t, seen, 250)
			assert.Equal(t, 250, l.Len())
		})
	}
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		backend string
		wantErr error
	}{
		{"default", "", nil},
		{"memory", BackendMemory, nil},
		{"badger", BackendBadger, nil},
		{"unknown", "postgres", ErrUnknownBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Open(tt.backend, nil)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, l.Close())
		})
	}
}

func TestRecordCodec(t *testing.T) {
	tests := []struct {
		name string
		rec  models.SearchRecord
	}{
		{"plain", models.SearchRecord{Query: "hello world", ClientID: "c1", SessionID: "s1"}},
		{"empty fields", models.SearchRecord{}},
		{"unicode", models.SearchRecord{Query: "café crème", ClientID: "клиент", SessionID: "セッション"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnmarshalRecord(MarshalRecord(tt.rec))
			require.NoError(t, err)
			assert.Equal(t, tt.rec, got)
		})
	}
}

func TestUnmarshalRecord_Truncated(t *testing.T) {
	bs := MarshalRecord(models.SearchRecord{Query: "hello world", ClientID: "c1", SessionID: "s1"})
	_, err := UnmarshalRecord(bs[:len(bs)-2])
	assert.Error(t, err)
}
