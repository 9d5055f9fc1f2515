// Command validate performs data integrity checks across a raw/processed
// directory pair: batch parity, record counts, and schema constraints on the
// standardized incident files.
//
// Usage:
//
//	go run ./cmd/validate -raw-dir data/raw -processed-dir data/processed
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/couchcryptid/incident-feed-etl/internal/domain"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	rawDir := flag.String("raw-dir", "", "directory containing raw post batch files")
	processedDir := flag.String("processed-dir", "", "directory containing standardized incident files")
	openVocabulary := flag.Bool("open-vocabulary", false, "skip the taxonomy label check (entity strategy output)")
	flag.Parse()

	if *rawDir == "" || *processedDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*rawDir, *processedDir, *openVocabulary); code != 0 {
		os.Exit(code)
	}
}

func run(rawDir, processedDir string, openVocabulary bool) int {
	fmt.Println("=== Incident Data Integrity Validation ===")
	fmt.Println()

	rawBatches, err := loadBatches[domain.RawPost](rawDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load raw batches: %v\n", err)
		return 1
	}

	processedBatches, err := loadBatches[domain.StandardizedIncident](processedDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load processed batches: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateBatchParity(rawBatches, processedBatches),
		validateSchema(processedBatches, openVocabulary),
		validateDescriptions(rawBatches, processedBatches),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Batches: %d raw, %d processed; records: %d raw, %d processed\n",
		len(rawBatches), len(processedBatches), countRecords(rawBatches), countRecords(processedBatches))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// loadBatches reads every *.json file in dir into a name-keyed map.
func loadBatches[T any](dir string) (map[string][]T, error) {
	names, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	batches := make(map[string][]T, len(names))
	for _, path := range names {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		batches[filepath.Base(path)] = items
	}
	return batches, nil
}

func countRecords[T any](batches map[string][]T) int {
	n := 0
	for _, items := range batches {
		n += len(items)
	}
	return n
}

// ── Phase 1: Batch Parity ──
// Every processed file must have a raw counterpart with the same record count.

func validateBatchParity(raw map[string][]domain.RawPost, processed map[string][]domain.StandardizedIncident) *phase {
	p := &phase{name: "Phase 1: Batch Parity (raw vs processed)"}

	for name, incidents := range processed {
		posts, ok := raw[name]
		if !ok {
			p.errorf("%s: processed batch has no raw counterpart", name)
			continue
		}
		if len(posts) != len(incidents) {
			p.errorf("%s: raw has %d posts, processed has %d incidents", name, len(posts), len(incidents))
		}
	}
	return p
}

// ── Phase 2: Schema Alignment ──
// Validates field constraints on every standardized incident.

func validateSchema(processed map[string][]domain.StandardizedIncident, openVocabulary bool) *phase {
	p := &phase{name: "Phase 2: Schema Alignment (incidents)"}

	labels := domain.TaxonomyLabels()
	for name, incidents := range processed {
		for i := range incidents {
			checkIncident(p, name, i, &incidents[i], labels, openVocabulary)
		}
	}
	return p
}

func checkIncident(p *phase, name string, i int, inc *domain.StandardizedIncident, labels map[string]bool, openVocabulary bool) {
	pf := func(format string, args ...any) {
		p.errorf("%s record %d: "+format, append([]any{name, i}, args...)...)
	}

	if inc.IncidentType == "" {
		pf("incident_type is empty")
	} else if inc.IncidentType != strings.ToLower(inc.IncidentType) {
		pf("incident_type %q is not lowercase", inc.IncidentType)
	} else if !openVocabulary && inc.IncidentType != domain.IncidentUnknown && !labels[inc.IncidentType] {
		pf("incident_type %q not in the taxonomy", inc.IncidentType)
	}

	if inc.Date != "" && !dateRe.MatchString(inc.Date) {
		pf("date %q is not YYYY-MM-DD", inc.Date)
	}

	checkLocation(pf, inc.Location)

	if inc.OriginalLink != "" && !strings.HasPrefix(inc.OriginalLink, "http") {
		pf("original_link %q is not a URL", inc.OriginalLink)
	}
}

func checkLocation(pf func(string, ...any), loc domain.LocationInfo) {
	switch len(loc.Coordinates) {
	case 0:
		if loc.Coordinates == nil {
			pf("coordinates is null (must be an empty array)")
		}
	case 2:
		lat, lon := loc.Coordinates[0], loc.Coordinates[1]
		if lat < -90 || lat > 90 {
			pf("latitude %g out of range", lat)
		}
		if lon < -180 || lon > 180 {
			pf("longitude %g out of range", lon)
		}
		if loc.City == "" && loc.Country == "" {
			pf("coordinates present but city and country are both empty")
		}
	default:
		pf("coordinates has %d elements (must be 0 or 2)", len(loc.Coordinates))
	}
}

// ── Phase 3: Description Integrity ──
// Descriptions must be link-free, and any extracted link must come from the
// corresponding raw post.

func validateDescriptions(raw map[string][]domain.RawPost, processed map[string][]domain.StandardizedIncident) *phase {
	p := &phase{name: "Phase 3: Description Integrity"}

	for name, incidents := range processed {
		posts := raw[name]
		for i := range incidents {
			inc := &incidents[i]
			if strings.Contains(inc.Description, "http://") || strings.Contains(inc.Description, "https://") {
				p.errorf("%s record %d: description still contains a link", name, i)
			}
			if inc.OriginalLink != "" && i < len(posts) && !strings.Contains(posts[i].Text, inc.OriginalLink) {
				p.errorf("%s record %d: original_link %q not found in raw post text", name, i, inc.OriginalLink)
			}
		}
	}
	return p
}
