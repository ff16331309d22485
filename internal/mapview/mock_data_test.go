package mapview_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/stretchr/testify/require"
)

// fixtureSource serves summaries from testdata/storage_summary_<code>.json.
// When gate is set, each fetch signals entered and then blocks until gate is
// closed or its context ends.
type fixtureSource struct {
	data    map[string][]domain.RegionSummary
	err     error
	calls   atomic.Int64
	gate    chan struct{}
	entered chan struct{}
}

func loadFixtures(t *testing.T, codes ...string) *fixtureSource {
	t.Helper()
	src := &fixtureSource{data: make(map[string][]domain.RegionSummary)}
	for _, code := range codes {
		raw, err := os.ReadFile(filepath.Join("testdata", fmt.Sprintf("storage_summary_%s.json", code)))
		require.NoError(t, err)
		var records []domain.RegionSummary
		require.NoError(t, json.Unmarshal(raw, &records))
		src.data[code] = records
	}
	return src
}

func (f *fixtureSource) FetchSummaries(ctx context.Context, scope domain.Scope) ([]domain.RegionSummary, error) {
	f.calls.Add(1)
	if f.gate != nil {
		select {
		case f.entered <- struct{}{}:
		default:
		}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.data[scope.Code()], nil
}

// recordingNavigator captures navigation events.
type recordingNavigator struct {
	mu     sync.Mutex
	events []domain.NavigationEvent
	err    error
}

func (r *recordingNavigator) Navigate(_ context.Context, event domain.NavigationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.err
}

func (r *recordingNavigator) Events() []domain.NavigationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.NavigationEvent(nil), r.events...)
}
