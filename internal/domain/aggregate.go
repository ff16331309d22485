package domain

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

const (
	// IntensityFloor is the opacity of the region with the least capacity.
	IntensityFloor = 0.3
	// IntensitySpan is added to the floor for the region with the most capacity.
	IntensitySpan = 0.7
)

// Aggregate computes the visual of every region in records for the given
// scope. Country-scope regions are keyed by the directory display name of
// their state code, sub-region regions by their raw location. A later record
// with the same key replaces an earlier one.
func Aggregate(records []RegionSummary, scope Scope, dir *Directory, base Color) VisualMap {
	visuals := make(VisualMap, len(records))
	if len(records) == 0 {
		return visuals
	}

	totals := make([]float64, len(records))
	minCapacity, maxCapacity := records[0].TotalCapacity(), records[0].TotalCapacity()
	for i, rec := range records {
		totals[i] = rec.TotalCapacity()
		minCapacity = min(minCapacity, totals[i])
		maxCapacity = max(maxCapacity, totals[i])
	}
	offset, span := capacityScale(minCapacity, maxCapacity)

	for i, rec := range records {
		key, name := regionKey(rec.Location, scope, dir)
		intensity := Intensity(totals[i], offset, span)
		visuals[key] = RegionVisual{
			Name:          name,
			Color:         base.WithOpacity(intensity),
			TotalCapacity: totals[i],
			Intensity:     intensity,
			TooltipRows:   tooltipRows(rec.Warehouses),
		}
	}
	return visuals
}

// capacityScale returns the offset and range totals are normalised with.
// Equal bounds collapse every region onto the floor.
func capacityScale(minCapacity, maxCapacity float64) (offset, span float64) {
	if minCapacity == maxCapacity {
		return minCapacity, 1
	}
	return minCapacity, maxCapacity - minCapacity
}

// Intensity maps a region total onto [IntensityFloor, 1].
func Intensity(total, offset, span float64) float64 {
	v := IntensityFloor + IntensitySpan*(total-offset)/span
	return max(IntensityFloor, min(1, v))
}

func regionKey(location string, scope Scope, dir *Directory) (key, name string) {
	if scope.IsCountry() {
		if n, ok := dir.Name(location); ok {
			return n, n
		}
		return location, location
	}
	if _, district, ok := strings.Cut(location, "-"); ok {
		return location, district
	}
	return location, location
}

func tooltipRows(warehouses []WarehouseRecord) []TooltipRow {
	rows := make([]TooltipRow, 0, len(warehouses))
	for _, w := range warehouses {
		rows = append(rows, TooltipRow{w.Type, ReadableCapacity(w.Capacity), strconv.Itoa(w.Count)})
	}
	return rows
}

// ReadableCapacity formats a capacity with thousands separators and at most
// two decimals, e.g. 1234567.891 -> "1,234,567.89".
func ReadableCapacity(capacity float64) string {
	return humanize.CommafWithDigits(capacity, 2)
}
