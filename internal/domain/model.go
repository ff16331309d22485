package domain

import (
	"context"
	"strings"
	"time"
)

// WarehouseRecord is one warehouse type's capacity and count within a region.
type WarehouseRecord struct {
	Type     string  `json:"type"`
	Capacity float64 `json:"capacity"`
	Count    int     `json:"count"`
}

// RegionSummary groups the warehouse records of one region as returned by the
// storage summary API. Location is a state code in country scope and a
// "STATE-DISTRICT" composite in sub-region scope.
type RegionSummary struct {
	Location   string            `json:"location"`
	Warehouses []WarehouseRecord `json:"warehouses"`
}

// TotalCapacity sums the capacity of every warehouse record in the region.
// Negative capacities are treated as zero.
func (s RegionSummary) TotalCapacity() float64 {
	var total float64
	for _, w := range s.Warehouses {
		if w.Capacity > 0 {
			total += w.Capacity
		}
	}
	return total
}

// Scope identifies which map is being viewed.
type Scope struct {
	CountryCode string `json:"country_code"`
	StateCode   string `json:"state_code,omitempty"`
}

// NewScope builds a scope for stateCode. An empty stateCode, or one equal to
// the country code, selects the country scope.
func NewScope(countryCode, stateCode string) Scope {
	stateCode = strings.ToUpper(strings.TrimSpace(stateCode))
	if stateCode == strings.ToUpper(countryCode) {
		stateCode = ""
	}
	return Scope{CountryCode: countryCode, StateCode: stateCode}
}

// IsCountry reports whether the scope is the country-level map.
func (s Scope) IsCountry() bool {
	return s.StateCode == ""
}

// Code returns the code the summary API is queried with: the state code in
// sub-region scope, the country code otherwise.
func (s Scope) Code() string {
	if s.IsCountry() {
		return s.CountryCode
	}
	return s.StateCode
}

func (s Scope) String() string {
	if s.IsCountry() {
		return s.CountryCode
	}
	return s.CountryCode + "/" + s.StateCode
}

// TooltipRow is one line of a tooltip table: label, value, count.
type TooltipRow [3]string

// RegionVisual is the derived view of one region.
type RegionVisual struct {
	Name          string       `json:"name"`
	Color         Color        `json:"color"`
	TotalCapacity float64      `json:"total_capacity"`
	Intensity     float64      `json:"intensity"`
	TooltipRows   []TooltipRow `json:"rows"`
}

// VisualMap maps region keys to their visuals. A VisualMap is built whole by
// Aggregate and never mutated afterwards.
type VisualMap map[string]RegionVisual

// FeatureProperties are the properties of a rendered geometry feature.
type FeatureProperties struct {
	StateName    string `json:"st_nm"`
	DistrictName string `json:"district,omitempty"`
}

// Tooltip is the title and table shown when hovering a feature.
type Tooltip struct {
	Title string       `json:"title"`
	Rows  []TooltipRow `json:"rows"`
}

// NavigationEvent asks the front end to drill down into a state.
type NavigationEvent struct {
	ID        string    `json:"id"`
	From      Scope     `json:"from"`
	Target    string    `json:"target"`
	StateName string    `json:"state_name"`
	Path      string    `json:"path"`
	EmittedAt time.Time `json:"emitted_at"`
}

// Navigator delivers navigation events.
type Navigator interface {
	Navigate(ctx context.Context, event NavigationEvent) error
}
