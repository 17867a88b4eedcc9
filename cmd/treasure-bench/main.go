// treasure-bench is a benchmark and stress test for the treasure package.
// It generates a source file with a full treasure table, grows every group
// to capacity and measures the cost of counting, lookup and append.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/phroun/treasure"
)

const (
	numTreasures = treasure.DefaultNumTreasures
	countRounds  = 100
	searchRounds = 20
)

type BenchResult struct {
	Name     string
	Duration time.Duration
	Ops      int
	Extra    string
}

func (r BenchResult) String() string {
	if r.Ops > 0 {
		opsPerSec := float64(r.Ops) / r.Duration.Seconds()
		if r.Extra != "" {
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Microsecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Microsecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Microsecond))
}

func main() {
	fmt.Println("Treasure Benchmark and Stress Test")
	fmt.Println("==================================")
	fmt.Printf("Treasures: $%02x, subids per treasure: %d\n", numTreasures, treasure.MaxSubids)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("GOMAXPROCS: %d\n", runtime.GOMAXPROCS(0))
	fmt.Println()

	tmpDir, err := os.MkdirTemp("", "treasure-bench-*")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(tmpDir)

	testFile := filepath.Join(tmpDir, "treasure_data.s")

	var results []BenchResult

	fmt.Println("Generating test file...")
	result := generateTestFile(testFile)
	results = append(results, result)
	fmt.Println(result)
	fmt.Println()

	p := treasure.NewProject(treasure.ProjectOptions{
		NumTreasures: numTreasures,
		LogLevel:     "NOOP",
	})

	// Helper to run and print each benchmark
	runBench := func(name string, fn func() BenchResult) {
		fmt.Printf("  %-40s ", name+"...")
		result := fn()
		fmt.Printf("%v\n", result.Duration.Round(time.Microsecond))
		results = append(results, result)
	}

	fmt.Println("Running benchmarks...")
	fmt.Println()

	var d *treasure.Document
	fmt.Println("File opening:")
	runBench("Open file", func() BenchResult {
		var r BenchResult
		d, r = benchOpenFile(p, testFile)
		return r
	})
	if d == nil {
		os.Exit(1)
	}

	var initial []byte
	runBench("Checkpoint (initial)", func() BenchResult {
		var r BenchResult
		initial, r = benchCheckpoint(d)
		return r
	})

	fmt.Println("\nGroup growth:")
	runBench("Convert direct to pointer", func() BenchResult { return benchConvert(p) })
	runBench("Fill groups to capacity", func() BenchResult { return benchFill(p) })

	fmt.Println("\nLookups:")
	runBench("Count subids", func() BenchResult { return benchCount(p) })
	runBench("Get objects (uncached)", func() BenchResult { return benchGetObjects(p, "Get objects (uncached)") })
	runBench("Get objects (cached)", func() BenchResult { return benchGetObjects(p, "Get objects (cached)") })
	runBench("Evaluate fields", func() BenchResult { return benchEvaluate(p) })

	fmt.Println("\nSearch operations:")
	runBench("Search string", func() BenchResult { return benchSearch(d) })
	runBench("Search regex", func() BenchResult { return benchSearchRegex(d) })

	fmt.Println("\nPersistence:")
	runBench("Save file", func() BenchResult { return benchSave(d, filepath.Join(tmpDir, "grown.s")) })
	runBench("Revert to initial checkpoint", func() BenchResult { return benchRevert(p, d, initial) })

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	for _, r := range results {
		fmt.Println(r)
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	fmt.Println()
	fmt.Printf("Peak heap allocation: %d MB\n", m.HeapSys/(1024*1024))
	fmt.Printf("Total allocations: %d MB\n", m.TotalAlloc/(1024*1024))
}

// generateTestFile writes a treasure table whose even treasures are direct
// entries and odd ones point at a one-entry subid table.
func generateTestFile(path string) BenchResult {
	start := time.Now()

	var b strings.Builder
	for i := 0; i < numTreasures; i++ {
		fmt.Fprintf(&b, ".define TREASURE_T%02X $%02x\n", i, i)
	}
	b.WriteString("\n" + treasure.TreasureDataLabel + ":\n")
	for i := 0; i < numTreasures; i++ {
		if i%2 == 0 {
			fmt.Fprintf(&b, "\t/* $%02x */ %s   $00, $00, $ff, $00, TREASURE_OBJECT_T%02X_00\n", i, treasure.CommandTreasureSubid, i)
		} else {
			fmt.Fprintf(&b, "\t/* $%02x */ %s treasureObjectData%02x\n", i, treasure.CommandTreasurePtr, i)
		}
	}
	for i := 1; i < numTreasures; i += 2 {
		fmt.Fprintf(&b, "\ntreasureObjectData%02x:\n", i)
		fmt.Fprintf(&b, "\t%s TREASURE_T%02X\n", treasure.CommandBeginSubids, i)
		fmt.Fprintf(&b, "\t%s $00, $00, $ff, $00, TREASURE_OBJECT_T%02X_00\n", treasure.CommandTreasureSubid, i)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return BenchResult{Name: "Generate test file", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	return BenchResult{
		Name:     "Generate test file",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d bytes", b.Len()),
	}
}

func benchOpenFile(p *treasure.Project, path string) (*treasure.Document, BenchResult) {
	start := time.Now()

	d, err := p.Open(treasure.FileOptions{FilePath: path})
	if err != nil {
		return nil, BenchResult{Name: "Open file", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	return d, BenchResult{
		Name:     "Open file",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d lines, %d bytes", len(d.Lines()), d.ByteCount()),
	}
}

func benchCheckpoint(d *treasure.Document) ([]byte, BenchResult) {
	start := time.Now()

	cp, err := d.Checkpoint()
	if err != nil {
		return nil, BenchResult{Name: "Checkpoint (initial)", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	return cp, BenchResult{
		Name:     "Checkpoint (initial)",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d bytes encoded", len(cp)),
	}
}

func benchConvert(p *treasure.Project) BenchResult {
	ops := 0
	start := time.Now()

	for i := 0; i < numTreasures; i += 2 {
		g, err := p.TreasureGroup(i)
		if err != nil {
			return BenchResult{Name: "Convert direct to pointer", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		if _, err := g.AddObject(); err != nil {
			return BenchResult{Name: "Convert direct to pointer", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		ops++
	}

	return BenchResult{
		Name:     "Convert direct to pointer",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchFill(p *treasure.Project) BenchResult {
	ops := 0
	start := time.Now()

	for i := 0; i < numTreasures; i++ {
		g, err := p.TreasureGroup(i)
		if err != nil {
			return BenchResult{Name: "Fill groups to capacity", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		for {
			obj, err := g.AddObject()
			if err != nil {
				return BenchResult{Name: "Fill groups to capacity", Extra: fmt.Sprintf("ERROR: %v", err)}
			}
			if obj == nil {
				break
			}
			ops++
		}
	}

	return BenchResult{
		Name:     "Fill groups to capacity",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchCount(p *treasure.Project) BenchResult {
	ops := 0
	total := 0
	start := time.Now()

	for round := 0; round < countRounds; round++ {
		for i := 0; i < numTreasures; i++ {
			g, _ := p.TreasureGroup(i)
			total += g.NumObjects()
			ops++
		}
	}

	return BenchResult{
		Name:     "Count subids",
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    fmt.Sprintf("%d subids per round", total/countRounds),
	}
}

func benchGetObjects(p *treasure.Project, name string) BenchResult {
	ops := 0
	missing := 0
	start := time.Now()

	for i := 0; i < numTreasures; i++ {
		g, _ := p.TreasureGroup(i)
		for s := 0; s < treasure.MaxSubids; s++ {
			if g.GetObject(s) == nil {
				missing++
			}
			ops++
		}
	}

	extra := ""
	if missing > 0 {
		extra = fmt.Sprintf("%d missing", missing)
	}
	return BenchResult{
		Name:     name,
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    extra,
	}
}

func benchEvaluate(p *treasure.Project) BenchResult {
	ops := 0
	start := time.Now()

	for i := 0; i < numTreasures; i++ {
		g, _ := p.TreasureGroup(i)
		obj := g.GetObject(treasure.MaxSubids - 1)
		if obj == nil {
			continue
		}
		for f := treasure.FieldSpawnMode; f <= treasure.FieldGraphics; f++ {
			if _, err := obj.IntValue(f); err != nil {
				return BenchResult{Name: "Evaluate fields", Extra: fmt.Sprintf("ERROR: %v", err)}
			}
			ops++
		}
	}

	return BenchResult{
		Name:     "Evaluate fields",
		Duration: time.Since(start),
		Ops:      ops,
	}
}

func benchSearch(d *treasure.Document) BenchResult {
	ops := 0
	matches := 0
	start := time.Now()

	for i := 0; i < searchRounds; i++ {
		matches = len(d.FindString("TREASURE_OBJECT_T00_", treasure.SearchOptions{CaseSensitive: true}))
		ops++
	}

	return BenchResult{
		Name:     "Search string",
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    fmt.Sprintf("%d matches", matches),
	}
}

func benchSearchRegex(d *treasure.Document) BenchResult {
	ops := 0
	matches := 0
	start := time.Now()

	for i := 0; i < searchRounds; i++ {
		results, err := d.FindRegex(`^treasureObjectData[0-9a-f]{2}:$`, treasure.RegexOptions{})
		if err != nil {
			return BenchResult{Name: "Search regex", Extra: fmt.Sprintf("ERROR: %v", err)}
		}
		matches = len(results)
		ops++
	}

	return BenchResult{
		Name:     "Search regex",
		Duration: time.Since(start),
		Ops:      ops,
		Extra:    fmt.Sprintf("%d matches", matches),
	}
}

func benchSave(d *treasure.Document, path string) BenchResult {
	start := time.Now()

	if err := d.SaveAs(path); err != nil {
		return BenchResult{Name: "Save file", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	return BenchResult{
		Name:     "Save file",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d bytes", d.ByteCount()),
	}
}

func benchRevert(p *treasure.Project, d *treasure.Document, cp []byte) BenchResult {
	start := time.Now()

	if err := p.Revert(d, cp); err != nil {
		return BenchResult{Name: "Revert to initial checkpoint", Extra: fmt.Sprintf("ERROR: %v", err)}
	}

	return BenchResult{
		Name:     "Revert to initial checkpoint",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d bytes", d.ByteCount()),
	}
}
