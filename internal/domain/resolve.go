package domain

import (
	"log/slog"
	"strings"
)

// ResolveKey returns the region key a feature is looked up under. In country
// scope it is the state name verbatim; in sub-region scope it is the
// upper-cased "STATE-DISTRICT" composite the summary API uses.
func ResolveKey(props FeatureProperties, scope Scope) string {
	if scope.IsCountry() {
		return props.StateName
	}
	return strings.ToUpper(props.StateName + "-" + props.DistrictName)
}

// Resolver turns clicked features into navigation targets.
type Resolver struct {
	dir    *Directory
	logger *slog.Logger
}

// NewResolver creates a Resolver over the given state directory.
func NewResolver(dir *Directory, logger *slog.Logger) *Resolver {
	return &Resolver{dir: dir, logger: logger}
}

// ResolveTarget returns the state code a click on props should navigate to.
// Navigation only happens from the country map, only to a state other than
// the country itself, and only when visuals holds data for the clicked state.
// Failing any of these is not an error: ok is false and a diagnostic is logged.
func (r *Resolver) ResolveTarget(props FeatureProperties, scope Scope, visuals VisualMap) (target string, ok bool) {
	if !scope.IsCountry() || props.StateName == "" {
		return "", false
	}

	code, match := r.dir.Lookup(props.StateName)
	_, hasData := visuals[props.StateName]

	r.logger.Debug("state lookup",
		"state_name", props.StateName,
		"target", code,
		"match", match.String(),
		"has_data", hasData,
	)

	if match == NoMatch || !hasData || strings.EqualFold(code, r.dir.CountryCode()) {
		r.logger.Warn("state code not found or no warehouse data",
			"state_name", props.StateName,
			"match", match.String(),
			"has_data", hasData,
		)
		return "", false
	}
	return code, true
}
