// Command validate checks a FIRMS CSV export and an assets seed file before
// they are used as fixtures or loaded into a local run. It verifies that
// every row decodes, that detections fall inside the monitored region, that
// the seed is consistent, and reports which guardians would be alerted.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -csv testdata/firms_modis_nrt.csv \
//	  -assets testdata/assets.json \
//	  -bbox -81.3,-18.3,-68.7,0
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/wildfire-guardian/internal/adapter/firms"
	"github.com/couchcryptid/wildfire-guardian/internal/adapter/memory"
	"github.com/couchcryptid/wildfire-guardian/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	csvPath := fs.String("csv", "", "path to a FIRMS area CSV export")
	assetsPath := fs.String("assets", "", "path to an assets seed JSON file")
	bboxStr := fs.String("bbox", domain.PeruBounds.String(), "monitored region west,south,east,north")
	fields := fs.Int("expected-fields", domain.FIRMSFieldCount, "columns per FIRMS row")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *csvPath == "" || *assetsPath == "" {
		fs.Usage()
		return 2
	}

	bbox, err := domain.ParseBoundingBox(*bboxStr)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}

	fmt.Fprintln(stdout, "=== Wildfire Fixture Validation ===")

	rows, err := loadRows(*csvPath)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load FIRMS CSV: %v\n", err)
		return 1
	}
	registry, err := memory.LoadRegistryFile(*assetsPath)
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: load assets: %v\n", err)
		return 1
	}
	assets, err := registry.ListMonitored(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: list assets: %v\n", err)
		return 1
	}

	detections, decode := validateRows(rows, *fields)
	phases := []*phase{
		decode,
		validateRegion(detections, bbox),
		validateAssets(registry.Forests(), bbox),
		reportProximity(assets, detections),
	}

	allPassed := true
	fmt.Fprintln(stdout)
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(stdout, "  %-36s %s\n", p.name, status)
	}
	fmt.Fprintf(stdout, "\nRecords: %d rows, %d detections, %d monitored assets\n", len(rows), len(detections), len(assets))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Fprintf(stdout, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(stdout, "  [%d] %s\n", i+1, e)
		}
		for _, n := range p.notes {
			fmt.Fprintf(stdout, "  %s\n", n)
		}
	}

	if allPassed {
		fmt.Fprintln(stdout, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(stdout, "\nValidation FAILED.")
	return 1
}

func loadRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := firms.ReadRows(f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}
	return rows, nil
}

// ── Validation phases ──

func validateRows(rows [][]string, expectedFields int) ([]domain.FireDetection, *phase) {
	p := &phase{name: "Phase 1: Row decoding"}
	detections, errs := domain.ParseDetections(rows, expectedFields)
	for _, err := range errs {
		var rowErr *domain.RowError
		if errors.As(err, &rowErr) {
			// Row 0 is the first line after the header.
			p.errorf("line %d: %v", rowErr.Row+2, rowErr.Err)
			continue
		}
		p.errorf("%v", err)
	}

	seen := make(map[string]int, len(detections))
	for i, d := range detections {
		if prev, dup := seen[d.ID]; dup {
			p.errorf("detection %d duplicates %d (id %s)", i, prev, d.ID)
			continue
		}
		seen[d.ID] = i
	}
	return detections, p
}

func validateRegion(detections []domain.FireDetection, bbox domain.BoundingBox) *phase {
	p := &phase{name: "Phase 2: Region bounds"}
	for _, d := range detections {
		if !bbox.Contains(d.Location) {
			p.errorf("%s at %.4f,%.4f is outside %s", d.ID, d.Location.Lat, d.Location.Lon, bbox)
		}
	}
	return p
}

func validateAssets(forests []domain.Forest, bbox domain.BoundingBox) *phase {
	p := &phase{name: "Phase 3: Asset seed"}
	for _, f := range forests {
		if f.Name == "" {
			p.errorf("forest %s has no name", f.ID)
		}
		if !bbox.Contains(f.Location) {
			p.errorf("forest %s at %.4f,%.4f is outside %s", f.ID, f.Location.Lat, f.Location.Lon, bbox)
		}
	}
	return p
}

// reportProximity never fails; it lists the alerts a cycle over these
// fixtures would raise.
func reportProximity(assets []domain.MonitoredAsset, detections []domain.FireDetection) *phase {
	p := &phase{name: "Phase 4: Proximity preview"}
	for _, a := range assets {
		closest, dist, ok := domain.Nearest(a.Location, detections)
		if !ok || dist >= domain.AlertRadiusKm {
			continue
		}
		p.notef("%s -> %s: %s at %.2f km (%s)",
			a.ID, a.GuardianContact, closest.ID, dist, domain.ClassifyDistance(dist))
	}
	return p
}
