// Command genmock writes deterministic storage summary fixtures shaped like
// getStorageSummary responses: one country-level file covering every state
// in the directory, and one district-level file per -districts flag. The
// output is validated with the same rules the service applies.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock \
//	  -districts MH=PUNE,NASHIK,NAGPUR \
//	  -districts KA=BENGALURU,MYSURU
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/couchcryptid/warehouse-capacity-map/internal/domain"
	"github.com/dustin/go-humanize"
)

var warehouseTypes = []string{"Cold Storage", "Dry Warehouse", "Silo", "Bonded Warehouse", "Distribution Center"}

// districtFlag collects repeated STATE=D1,D2 values.
type districtFlag map[string][]string

func (d districtFlag) String() string { return fmt.Sprint(map[string][]string(d)) }

func (d districtFlag) Set(v string) error {
	state, list, ok := strings.Cut(v, "=")
	if !ok || state == "" || list == "" {
		return fmt.Errorf("want STATE=DISTRICT[,DISTRICT...], got %q", v)
	}
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			d[strings.ToUpper(state)] = append(d[strings.ToUpper(state)], strings.ToUpper(name))
		}
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	districts := districtFlag{}
	out := flag.String("out", "data/mock", "output directory")
	country := flag.String("country", domain.IndiaCode, "country code of the state directory")
	seed := flag.Uint64("seed", 240426, "random seed")
	empty := flag.Float64("empty", 0.15, "fraction of states generated without warehouses")
	flag.Var(districts, "districts", "STATE=DISTRICT,... (repeatable)")
	flag.Parse()

	dir, err := domain.DirectoryFor(*country)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>1|1))

	countryScope := domain.NewScope(dir.CountryCode(), "")
	var records []domain.RegionSummary //nolint:prealloc // some states are skipped
	for _, code := range dir.Codes() {
		if rng.Float64() < *empty {
			continue
		}
		records = append(records, domain.RegionSummary{Location: code, Warehouses: randomWarehouses(rng, 1_000_000)})
	}
	if err := writeFixture(*out, countryScope, dir, records); err != nil {
		return err
	}

	states := make([]string, 0, len(districts))
	for state := range districts {
		states = append(states, state)
	}
	sort.Strings(states)

	for _, state := range states {
		names := districts[state]
		scope := domain.NewScope(dir.CountryCode(), state)
		if _, ok := dir.Name(scope.StateCode); !ok {
			return fmt.Errorf("unknown state code %q", state)
		}
		recs := make([]domain.RegionSummary, 0, len(names))
		for _, name := range names {
			recs = append(recs, domain.RegionSummary{
				Location:   scope.StateCode + "-" + name,
				Warehouses: randomWarehouses(rng, 100_000),
			})
		}
		if err := writeFixture(*out, scope, dir, recs); err != nil {
			return err
		}
	}
	return nil
}

func randomWarehouses(rng *rand.Rand, maxCapacity int) []domain.WarehouseRecord {
	n := 1 + rng.IntN(3)
	perm := rng.Perm(len(warehouseTypes))
	ws := make([]domain.WarehouseRecord, 0, n)
	for _, i := range perm[:n] {
		ws = append(ws, domain.WarehouseRecord{
			Type:     warehouseTypes[i],
			Capacity: float64(1000 * (1 + rng.IntN(maxCapacity/1000))),
			Count:    1 + rng.IntN(20),
		})
	}
	return ws
}

func writeFixture(outDir string, scope domain.Scope, dir *domain.Directory, records []domain.RegionSummary) error {
	if issues := domain.ValidateSummaries(records, scope, dir); len(issues) > 0 {
		return fmt.Errorf("generated %s fixture is invalid: %s", scope, issues[0])
	}

	path := filepath.Join(outDir, fmt.Sprintf("storage_summary_%s.json", scope.Code()))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	var total float64
	for _, r := range records {
		total += r.TotalCapacity()
	}
	log.Printf("wrote %s: %d regions, %s total capacity", path, len(records), humanize.Comma(int64(total)))
	return nil
}
