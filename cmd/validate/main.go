// Command validate checks a storage summary JSON file (the body of a
// getStorageSummary response) for records that would render incorrectly:
// duplicate region keys, unknown state codes, malformed district locations,
// and negative capacities or counts. It then prints the capacity range the
// colour scale would use.
//
// Usage:
//
//	go run ./cmd/validate -file data/mock/storage_summary_IN.json
//	go run ./cmd/validate -file data/mock/storage_summary_MH.json -state MH
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
)

func main() {
	file := flag.String("file", "", "path to a storage summary JSON file")
	country := flag.String("country", domain.IndiaCode, "country code of the state directory")
	state := flag.String("state", "", "state code for a district-level file; empty for country level")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	os.Exit(run(*file, *country, *state))
}

func run(path, countryCode, stateCode string) int {
	dir, err := domain.DirectoryFor(countryCode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	scope := domain.NewScope(dir.CountryCode(), stateCode)

	records, err := loadSummaries(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load %s: %v\n", path, err)
		return 1
	}

	fmt.Printf("=== Storage Summary Validation (%s) ===\n\n", scope)

	issues := domain.ValidateSummaries(records, scope, dir)
	visuals := domain.Aggregate(records, scope, dir, domain.MustParseColor("#1976d2"))

	printRange(visuals)
	fmt.Printf("Records: %d, regions: %d\n", len(records), len(visuals))

	if len(issues) == 0 {
		fmt.Printf("\n  %-42s %s\n", "Summary integrity", "\033[32mPASS\033[0m")
		return 0
	}

	fmt.Printf("\n  %-42s \033[31mFAIL (%d issues)\033[0m\n\n", "Summary integrity", len(issues))
	for i, issue := range issues {
		fmt.Printf("  [%d] %s\n", i+1, issue)
	}
	return 1
}

func loadSummaries(path string) ([]domain.RegionSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.RegionSummary
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// printRange lists regions from most to least capacity with their intensity.
func printRange(visuals domain.VisualMap) {
	keys := make([]string, 0, len(visuals))
	for k := range visuals {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := visuals[keys[i]], visuals[keys[j]]
		if a.TotalCapacity != b.TotalCapacity {
			return a.TotalCapacity > b.TotalCapacity
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		v := visuals[k]
		fmt.Printf("  %-32s %14s  %.3f\n", k, domain.ReadableCapacity(v.TotalCapacity), v.Intensity)
	}
	if lo, hi, ok := capacityRange(visuals); ok {
		fmt.Printf("\nCapacity range: %s .. %s\n", lo, hi)
	}
}

// capacityRange returns the smallest and largest region totals, formatted
// like the tooltip capacities.
func capacityRange(visuals domain.VisualMap) (lo, hi string, ok bool) {
	first := true
	var minTotal, maxTotal float64
	for _, v := range visuals {
		if first {
			minTotal, maxTotal, first = v.TotalCapacity, v.TotalCapacity, false
			continue
		}
		minTotal = min(minTotal, v.TotalCapacity)
		maxTotal = max(maxTotal, v.TotalCapacity)
	}
	if first {
		return "", "", false
	}
	return domain.ReadableCapacity(minTotal), domain.ReadableCapacity(maxTotal), true
}
