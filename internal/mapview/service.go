package mapview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/couchcryptid/warehouse-capacity-map/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// Snapshot is the aggregated map of one scope at one point in time. It is
// never modified after it is published.
type Snapshot struct {
	Scope       domain.Scope     `json:"scope"`
	Visuals     domain.VisualMap `json:"regions"`
	Issues      []domain.Issue   `json:"issues,omitempty"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// ClickResult describes what a click on a feature led to.
type ClickResult struct {
	Navigated bool                    `json:"navigated"`
	Target    string                  `json:"target,omitempty"`
	Event     *domain.NavigationEvent `json:"event,omitempty"`
}

// DefaultRefreshTimeout bounds a shared refresh when Settings leaves it unset.
const DefaultRefreshTimeout = 15 * time.Second

// Settings configures a Service.
type Settings struct {
	Directory   *domain.Directory
	BaseColor   domain.Color
	SnapshotTTL time.Duration
	// RefreshTimeout bounds one fetch-and-aggregate cycle. The cycle is
	// shared by every caller waiting on the scope, so it does not inherit
	// any caller's cancellation.
	RefreshTimeout time.Duration
	Clock          clockwork.Clock
}

// Invalidator is implemented by summary sources that cache, so a forced
// refresh can bypass them.
type Invalidator interface {
	Invalidate(scope domain.Scope)
}

// Service keeps one aggregated snapshot per scope and answers fill, tooltip,
// and click queries against it.
type Service struct {
	source    domain.SummarySource
	navigator domain.Navigator
	dir       *domain.Directory
	resolver  *domain.Resolver
	ttl       time.Duration
	timeout   time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	group singleflight.Group
	ready atomic.Bool

	mu        sync.RWMutex
	base      domain.Color
	snapshots map[string]*Snapshot
}

// New creates a Service. A nil navigator logs navigation events instead of
// publishing them.
func New(settings Settings, source domain.SummarySource, navigator domain.Navigator, logger *slog.Logger, metrics *observability.Metrics) *Service {
	if navigator == nil {
		navigator = NewLogNavigator(logger)
	}
	if settings.Clock == nil {
		settings.Clock = clockwork.NewRealClock()
	}
	if settings.RefreshTimeout <= 0 {
		settings.RefreshTimeout = DefaultRefreshTimeout
	}
	return &Service{
		source:    source,
		navigator: navigator,
		dir:       settings.Directory,
		resolver:  domain.NewResolver(settings.Directory, logger),
		ttl:       settings.SnapshotTTL,
		timeout:   settings.RefreshTimeout,
		clock:     settings.Clock,
		logger:    logger,
		metrics:   metrics,
		base:      settings.BaseColor,
		snapshots: make(map[string]*Snapshot),
	}
}

// ErrUnknownState is returned for a state code the directory does not know.
var ErrUnknownState = errors.New("unknown state code")

// Scope returns the scope for a state code; an empty code is the country.
func (s *Service) Scope(stateCode string) domain.Scope {
	return domain.NewScope(s.dir.CountryCode(), stateCode)
}

// ParseScope is Scope restricted to state codes in the directory.
func (s *Service) ParseScope(stateCode string) (domain.Scope, error) {
	scope := s.Scope(stateCode)
	if scope.IsCountry() {
		return scope, nil
	}
	if _, ok := s.dir.Name(scope.StateCode); !ok {
		return scope, fmt.Errorf("%w: %q", ErrUnknownState, stateCode)
	}
	return scope, nil
}

// CheckReadiness returns nil once at least one snapshot has been built.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no map snapshot has been built yet")
	}
	return nil
}

// BaseColor returns the colour regions are shaded with.
func (s *Service) BaseColor() domain.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.base
}

// SetBaseColor changes the shading colour and drops every snapshot so the
// next query recomputes with the new colour.
func (s *Service) SetBaseColor(c domain.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = c
	s.snapshots = make(map[string]*Snapshot)
	s.logger.Info("base color changed", "color", c.Hex())
}

// Snapshot returns the current snapshot for a state code, rebuilding it when
// it is missing or older than the snapshot TTL. Concurrent callers share one
// rebuild; a caller whose ctx ends stops waiting without cancelling it.
func (s *Service) Snapshot(ctx context.Context, stateCode string) (*Snapshot, error) {
	scope, err := s.ParseScope(stateCode)
	if err != nil {
		return nil, err
	}
	key := scope.String()

	if snap := s.lookup(key); snap != nil && s.clock.Since(snap.GeneratedAt) < s.ttl {
		return snap, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.refresh(rctx, scope)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Snapshot), nil
	}
}

// Refresh drops the scope's snapshot and any cached summaries behind it, then
// rebuilds from the upstream API.
func (s *Service) Refresh(ctx context.Context, stateCode string) (*Snapshot, error) {
	scope, err := s.ParseScope(stateCode)
	if err != nil {
		return nil, err
	}
	if inv, ok := s.source.(Invalidator); ok {
		inv.Invalidate(scope)
	}

	s.mu.Lock()
	delete(s.snapshots, scope.String())
	s.mu.Unlock()

	s.logger.Info("snapshot refresh forced", "scope", scope.String())
	return s.Snapshot(ctx, stateCode)
}

// Fill returns the CSS fill colour for a feature.
func (s *Service) Fill(ctx context.Context, stateCode string, props domain.FeatureProperties) (string, error) {
	snap, err := s.Snapshot(ctx, stateCode)
	if err != nil {
		return "", err
	}
	return domain.FillColor(props, snap.Scope, snap.Visuals), nil
}

// Tooltip returns the hover tooltip for a feature.
func (s *Service) Tooltip(ctx context.Context, stateCode string, props domain.FeatureProperties) (domain.Tooltip, error) {
	snap, err := s.Snapshot(ctx, stateCode)
	if err != nil {
		return domain.Tooltip{}, err
	}
	return domain.TooltipFor(props, snap.Scope, snap.Visuals), nil
}

// Click resolves a click on a feature and, when it leads to a state with
// data, emits exactly one navigation event. Clicks on a state map never
// navigate. A navigation event that cannot be delivered is logged; the
// result still carries the resolved target.
func (s *Service) Click(ctx context.Context, stateCode string, props domain.FeatureProperties) (ClickResult, error) {
	s.logger.Debug("warehouse map feature clicked",
		"state_name", props.StateName,
		"district", props.DistrictName,
	)

	scope, err := s.ParseScope(stateCode)
	if err != nil {
		return ClickResult{}, err
	}
	if !scope.IsCountry() {
		s.metrics.Clicks.WithLabelValues("ignored").Inc()
		return ClickResult{}, nil
	}

	snap, err := s.Snapshot(ctx, stateCode)
	if err != nil {
		return ClickResult{}, err
	}

	target, ok := s.resolver.ResolveTarget(props, snap.Scope, snap.Visuals)
	if !ok {
		s.metrics.Clicks.WithLabelValues("unresolved").Inc()
		return ClickResult{}, nil
	}

	event := domain.NewNavigationEvent(snap.Scope, target, props.StateName)
	s.logger.Info("navigating to warehouse state", "target", target, "state_name", props.StateName)
	if err := s.navigator.Navigate(ctx, event); err != nil {
		s.metrics.NavigationPublishErrs.Inc()
		s.logger.Error("navigation event not delivered", "id", event.ID, "target", target, "error", err)
	}
	s.metrics.Clicks.WithLabelValues("navigated").Inc()

	return ClickResult{Navigated: true, Target: target, Event: &event}, nil
}

func (s *Service) lookup(key string) *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshots[key]
}

// refresh fetches the scope's summaries, aggregates them, and publishes the
// resulting snapshot in place of the previous one.
func (s *Service) refresh(ctx context.Context, scope domain.Scope) (*Snapshot, error) {
	start := s.clock.Now()

	records, err := s.source.FetchSummaries(ctx, scope)
	if err != nil {
		s.metrics.SnapshotRefreshes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetch summaries for %s: %w", scope, err)
	}

	issues := domain.ValidateSummaries(records, scope, s.dir)
	for _, issue := range issues {
		s.metrics.SummaryIssues.WithLabelValues(string(issue.Kind)).Inc()
		s.logger.Warn("storage summary issue",
			"scope", scope.String(),
			"kind", issue.Kind,
			"location", issue.Location,
			"detail", issue.Detail,
		)
	}

	base := s.BaseColor()
	snap := &Snapshot{
		Scope:       scope,
		Visuals:     domain.Aggregate(records, scope, s.dir, base),
		Issues:      issues,
		GeneratedAt: s.clock.Now(),
	}

	s.mu.Lock()
	if s.base == base {
		s.snapshots[scope.String()] = snap
	}
	s.mu.Unlock()

	s.ready.Store(true)
	s.metrics.SnapshotRefreshes.WithLabelValues("success").Inc()
	s.metrics.SnapshotRegions.WithLabelValues(scope.String()).Set(float64(len(snap.Visuals)))
	s.metrics.SnapshotRefreshDuration.Observe(s.clock.Since(start).Seconds())

	s.logger.Debug("snapshot refreshed", "scope", scope.String(), "regions", len(snap.Visuals), "issues", len(issues))
	return snap, nil
}
