package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseColor = "#1976d2"

var (
	countryScope = Scope{CountryCode: IndiaCode}
	mhScope      = Scope{CountryCode: IndiaCode, StateCode: "MH"}
)

func testBase(t *testing.T) Color {
	t.Helper()
	c, err := ParseColor(testBaseColor)
	require.NoError(t, err)
	return c
}

func TestAggregate_CountryScope(t *testing.T) {
	records := []RegionSummary{
		{Location: "MH", Warehouses: []WarehouseRecord{
			{Type: "Cold Storage", Capacity: 100, Count: 2},
			{Type: "Dry", Capacity: 50, Count: 1},
		}},
		{Location: "KA", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 50, Count: 3}}},
		{Location: "TN", Warehouses: nil},
	}

	visuals := Aggregate(records, countryScope, IndiaDirectory(), testBase(t))

	require.Len(t, visuals, 3)
	require.Contains(t, visuals, "Maharashtra")
	require.Contains(t, visuals, "Karnataka")
	require.Contains(t, visuals, "Tamil Nadu")

	mh := visuals["Maharashtra"]
	assert.Equal(t, "Maharashtra", mh.Name)
	assert.Equal(t, 150.0, mh.TotalCapacity)
	assert.InDelta(t, 1.0, mh.Intensity, 1e-9)
	assert.Equal(t, []TooltipRow{
		{"Cold Storage", "100", "2"},
		{"Dry", "50", "1"},
	}, mh.TooltipRows)

	assert.InDelta(t, 0.3+0.7*50.0/150.0, visuals["Karnataka"].Intensity, 1e-9)
	assert.Equal(t, "rgba(25, 118, 210, 0.5333)", visuals["Karnataka"].Color.String())

	tn := visuals["Tamil Nadu"]
	assert.Equal(t, IntensityFloor, tn.Intensity)
	assert.Equal(t, "rgba(25, 118, 210, 0.3)", tn.Color.String())
	assert.Empty(t, tn.TooltipRows)
}

func TestAggregate_SubRegionScope(t *testing.T) {
	records := []RegionSummary{
		{Location: "MH-PUNE", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 100, Count: 4}}},
		{Location: "MH-NASHIK", Warehouses: []WarehouseRecord{}},
	}
	base := testBase(t)

	visuals := Aggregate(records, mhScope, IndiaDirectory(), base)

	want := VisualMap{
		"MH-PUNE": {
			Name:          "PUNE",
			Color:         base.WithOpacity(1),
			TotalCapacity: 100,
			Intensity:     1,
			TooltipRows:   []TooltipRow{{"Dry", "100", "4"}},
		},
		"MH-NASHIK": {
			Name:          "NASHIK",
			Color:         base.WithOpacity(0.3),
			TotalCapacity: 0,
			Intensity:     0.3,
			TooltipRows:   []TooltipRow{},
		},
	}
	if diff := cmp.Diff(want, visuals); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	assert.Empty(t, Aggregate(nil, countryScope, IndiaDirectory(), testBase(t)))
	assert.Empty(t, Aggregate([]RegionSummary{}, mhScope, IndiaDirectory(), testBase(t)))
	assert.NotNil(t, Aggregate(nil, countryScope, IndiaDirectory(), testBase(t)))
}

func TestAggregate_SingleRegionGetsFloor(t *testing.T) {
	records := []RegionSummary{
		{Location: "MH", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 9000, Count: 1}}},
	}

	visuals := Aggregate(records, countryScope, IndiaDirectory(), testBase(t))

	assert.Equal(t, 0.3, visuals["Maharashtra"].Intensity)
}

func TestAggregate_AllEqualTotalsGetFloor(t *testing.T) {
	records := []RegionSummary{
		{Location: "MH", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 40, Count: 1}, {Type: "Cold", Capacity: 60, Count: 1}}},
		{Location: "KA", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 100, Count: 1}}},
		{Location: "GJ", Warehouses: []WarehouseRecord{{Type: "Cold", Capacity: 25, Count: 1}, {Type: "Cold", Capacity: 75, Count: 1}}},
	}

	visuals := Aggregate(records, countryScope, IndiaDirectory(), testBase(t))

	require.Len(t, visuals, 3)
	for key, v := range visuals {
		assert.Equal(t, 0.3, v.Intensity, key)
		assert.Equal(t, "rgba(25, 118, 210, 0.3)", v.Color.String(), key)
	}
}

func TestAggregate_AllEmptyRegionsGetFloor(t *testing.T) {
	records := []RegionSummary{{Location: "MH"}, {Location: "KA"}}

	visuals := Aggregate(records, countryScope, IndiaDirectory(), testBase(t))

	assert.Equal(t, 0.3, visuals["Maharashtra"].Intensity)
	assert.Equal(t, 0.3, visuals["Karnataka"].Intensity)
}

func TestAggregate_IntensityBounds(t *testing.T) {
	capacities := []float64{0, 1, 17.5, 250, 1e3, 4096, 99999.9, 1e7}
	records := make([]RegionSummary, 0, len(capacities))
	for i, c := range capacities {
		records = append(records, RegionSummary{
			Location:   "MH-D" + string(rune('A'+i)),
			Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: c, Count: 1}},
		})
	}

	visuals := Aggregate(records, mhScope, IndiaDirectory(), testBase(t))

	require.Len(t, visuals, len(capacities))
	for key, v := range visuals {
		assert.GreaterOrEqual(t, v.Intensity, 0.3, key)
		assert.LessOrEqual(t, v.Intensity, 1.0, key)
	}
	assert.Equal(t, 0.3, visuals["MH-DA"].Intensity)
	assert.InDelta(t, 1.0, visuals["MH-DH"].Intensity, 1e-12)
}

func TestAggregate_DuplicateLocationLastWins(t *testing.T) {
	records := []RegionSummary{
		{Location: "MH-PUNE", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 10, Count: 1}}},
		{Location: "MH-THANE", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 500, Count: 1}}},
		{Location: "MH-PUNE", Warehouses: []WarehouseRecord{{Type: "Cold", Capacity: 200, Count: 7}}},
	}

	visuals := Aggregate(records, mhScope, IndiaDirectory(), testBase(t))

	require.Len(t, visuals, 2)
	pune := visuals["MH-PUNE"]
	assert.Equal(t, 200.0, pune.TotalCapacity)
	assert.Equal(t, []TooltipRow{{"Cold", "200", "7"}}, pune.TooltipRows)
}

func TestAggregate_UnknownStateCodeKeyedByLocation(t *testing.T) {
	records := []RegionSummary{{Location: "ZZ", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: 1, Count: 1}}}}

	visuals := Aggregate(records, countryScope, IndiaDirectory(), testBase(t))

	require.Contains(t, visuals, "ZZ")
	assert.Equal(t, "ZZ", visuals["ZZ"].Name)
}

func TestAggregate_NegativeCapacityCountsAsZero(t *testing.T) {
	records := []RegionSummary{
		{Location: "MH-PUNE", Warehouses: []WarehouseRecord{{Type: "Dry", Capacity: -50, Count: 1}, {Type: "Cold", Capacity: 20, Count: 1}}},
	}

	visuals := Aggregate(records, mhScope, IndiaDirectory(), testBase(t))

	assert.Equal(t, 20.0, visuals["MH-PUNE"].TotalCapacity)
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		name   string
		total  float64
		offset float64
		span   float64
		want   float64
	}{
		{"at min", 10, 10, 90, 0.3},
		{"at max", 100, 10, 90, 1.0},
		{"midpoint", 55, 10, 90, 0.65},
		{"below min clamps", 0, 10, 90, 0.3},
		{"above max clamps", 500, 10, 90, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Intensity(tt.total, tt.offset, tt.span), 1e-9)
		})
	}
}

func TestReadableCapacity(t *testing.T) {
	assert.Equal(t, "0", ReadableCapacity(0))
	assert.Equal(t, "950", ReadableCapacity(950))
	assert.Equal(t, "12,500", ReadableCapacity(12500))
	assert.Equal(t, "1,234,567.89", ReadableCapacity(1234567.891))
}
