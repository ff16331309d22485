// Package domain turns warehouse storage summaries into the data a
// choropleth map needs: a colour and a tooltip for every rendered region and
// a navigation target when a region is clicked.
//
// # Scopes
//
// The map is viewed at one of two granularities:
//
//	country scope:   one region per state, StateCode empty or equal to the
//	                 country code (e.g. "IN")
//	sub-region scope: one region per district of a single state, StateCode
//	                 set to the state code (e.g. "MH")
//
// # Naming Conventions
//
// The storage summary API and the map geometry name the same places
// differently, and the Aggregator and Resolver must agree on a region key.
//
// Summary locations:
//
//	country scope:    two-letter state code, "MH"
//	sub-region scope: upper-cased "STATE-DISTRICT" composite, "MH-PUNE"
//
// Geometry feature properties (datameet style):
//
//	st_nm:    state display name, "Maharashtra" (country) or the state
//	          code on district layers, "MH"
//	district: district display name, "Pune", only on district layers
//
// Region keys:
//
//	country scope:    the directory display name of the state code,
//	                  matched against st_nm verbatim
//	sub-region scope: the raw location, matched against
//	                  upper("st_nm-district")
//
// # Colour Scale
//
// Each region's total capacity is normalised against the min and max of the
// current scope and mapped onto the opacity of the base colour:
//
//	intensity = 0.3 + 0.7 * (total - min) / (max - min)
//
// The 0.3 floor keeps every region with data distinguishable from regions
// without data, which are filled with the fixed fallback #ffffff. When every
// region has the same total the scale collapses to the floor.
//
// # Navigation
//
// Clicking a state on the country map resolves the state name to a state
// code through the [Directory]. The directory indexes exact names and a
// normalised form (case folded, punctuation stripped) so that spelling skew
// between the geometry source and the summary API does not break drill-down.
package domain
