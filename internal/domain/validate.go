package domain

import (
	"fmt"
	"strings"
)

// IssueKind classifies a problem found in a batch of region summaries.
type IssueKind string

const (
	IssueDuplicateLocation IssueKind = "duplicate_location"
	IssueUnknownState      IssueKind = "unknown_state"
	IssueNegativeCapacity  IssueKind = "negative_capacity"
	IssueNegativeCount     IssueKind = "negative_count"
	IssueMalformedLocation IssueKind = "malformed_location"
)

// Issue is one problem in a summary batch. Index is the position of the
// offending record.
type Issue struct {
	Kind     IssueKind `json:"kind"`
	Index    int       `json:"index"`
	Location string    `json:"location"`
	Detail   string    `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s at #%d (%s): %s", i.Kind, i.Index, i.Location, i.Detail)
}

// ValidateSummaries reports records that would render incorrectly: region
// keys that collide (later records silently replace earlier ones), locations
// the directory cannot name, and negative capacities or counts.
func ValidateSummaries(records []RegionSummary, scope Scope, dir *Directory) []Issue {
	var issues []Issue
	seen := make(map[string]int, len(records))

	for i, rec := range records {
		key, _ := regionKey(rec.Location, scope, dir)
		if first, dup := seen[key]; dup {
			issues = append(issues, Issue{
				Kind: IssueDuplicateLocation, Index: i, Location: rec.Location,
				Detail: fmt.Sprintf("replaces record #%d for key %q", first, key),
			})
		}
		seen[key] = i

		issues = append(issues, locationIssues(i, rec.Location, scope, dir)...)

		for _, w := range rec.Warehouses {
			if w.Capacity < 0 {
				issues = append(issues, Issue{
					Kind: IssueNegativeCapacity, Index: i, Location: rec.Location,
					Detail: fmt.Sprintf("type %q capacity %g", w.Type, w.Capacity),
				})
			}
			if w.Count < 0 {
				issues = append(issues, Issue{
					Kind: IssueNegativeCount, Index: i, Location: rec.Location,
					Detail: fmt.Sprintf("type %q count %d", w.Type, w.Count),
				})
			}
		}
	}
	return issues
}

func locationIssues(i int, location string, scope Scope, dir *Directory) []Issue {
	if scope.IsCountry() {
		if _, ok := dir.Name(location); !ok {
			return []Issue{{Kind: IssueUnknownState, Index: i, Location: location, Detail: "state code not in directory"}}
		}
		return nil
	}

	state, district, ok := strings.Cut(location, "-")
	switch {
	case !ok || district == "":
		return []Issue{{Kind: IssueMalformedLocation, Index: i, Location: location, Detail: `want "STATE-DISTRICT"`}}
	case !strings.EqualFold(state, scope.StateCode):
		return []Issue{{Kind: IssueMalformedLocation, Index: i, Location: location, Detail: fmt.Sprintf("state %q outside scope %s", state, scope)}}
	case location != strings.ToUpper(location):
		return []Issue{{Kind: IssueMalformedLocation, Index: i, Location: location, Detail: "not upper-cased, features will not match"}}
	}
	return nil
}
