// Command verify checks the integrity of a completed scene-preparation run:
// the manifest parses, every entry's file exists, and every scene file
// decodes to a single-variable array.
//
// Usage:
//
//	go run ./cmd/verify -data-path /data/goes16
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/couchcryptid/cloud-scene-etl/gridded"
	"github.com/couchcryptid/cloud-scene-etl/internal/pipeline"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data-path", ".", "data directory of a completed run")
	scenesDir := flag.String("scenes-dir", "scenes", "scene subdirectory name")
	manifestName := flag.String("manifest", "scene_ids.yml", "manifest filename")
	flag.Parse()

	manifestPath := filepath.Join(*dataPath, *scenesDir, *manifestName)

	phases := []*phase{
		{name: "manifest parses"},
		{name: "scene files exist"},
		{name: "scene files decode"},
	}

	entries, err := pipeline.ReadManifest(manifestPath)
	if err != nil {
		phases[0].errorf("%v", err)
		report(phases)
		return
	}
	if len(entries) == 0 {
		phases[0].errorf("manifest %s has no entries", manifestPath)
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		path := entries[id]
		if _, err := os.Stat(path); err != nil {
			phases[1].errorf("scene %q: %v", id, err)
			continue
		}
		da, err := gridded.ReadDataArray(path)
		if err != nil {
			phases[2].errorf("scene %q: %v", id, err)
			continue
		}
		if da.Size() == 0 {
			phases[2].errorf("scene %q: empty array", id)
		}
	}

	report(phases)
}

func report(phases []*phase) {
	failed := false
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			failed = true
		}
		fmt.Printf("[%s] %s\n", status, p.name)
		for _, e := range p.errors {
			fmt.Printf("       %s\n", e)
		}
	}
	if failed {
		os.Exit(1)
	}
}
