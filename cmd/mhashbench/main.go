// Package main provides mhashbench, a throughput and layout-quality
// benchmark for pkg/mhash.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"github.com/spf13/pflag"
	"github.com/tailscale/hujson"

	"github.com/mhashlab/mhashmap/pkg/mhash"
)

// config holds all benchmark configuration, populated from flags and
// optionally overridden by a workload profile file.
type config struct {
	Counts          []int
	InitialCapacity uint64
	Seed            int64
	Profile         string
	Out             string
}

// profile is the optional JSON-with-comments workload description read via
// --profile. It layers over, rather than replaces, the flag defaults.
type profile struct {
	Counts          []int  `json:"counts,omitempty"`
	InitialCapacity uint64 `json:"initial_capacity,omitempty"`
	Seed            int64  `json:"seed,omitempty"`
}

// report is the JSON document written via --out.
type report struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Results     []benchResult `json:"results"`
}

// benchResult holds one count's worth of measurements.
type benchResult struct {
	Count              int     `json:"count"`
	InsertNanosPerOp   float64 `json:"insert_ns_per_op"`
	FindHitNanosPerOp  float64 `json:"find_hit_ns_per_op"`
	FindMissNanosPerOp float64 `json:"find_miss_ns_per_op"`
	mhash.Stats        `json:"stats"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "mhashbench: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("mhashbench", pflag.ContinueOnError)

	countsFlag := flags.IntSlice("counts", []int{10_000, 100_000, 1_000_000}, "entry counts to benchmark, comma separated")
	capacityFlag := flags.Uint64("capacity", 2, "initial page capacity")
	seedFlag := flags.Int64("seed", 1, "PRNG seed for generated keys")
	profileFlag := flags.String("profile", "", "optional JSON-with-comments workload profile file")
	outFlag := flags.String("out", "", "optional path to write a JSON report to (atomically)")

	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg := config{
		Counts:          *countsFlag,
		InitialCapacity: *capacityFlag,
		Seed:            *seedFlag,
		Profile:         *profileFlag,
		Out:             *outFlag,
	}

	if cfg.Profile != "" {
		if err := applyProfile(&cfg, cfg.Profile); err != nil {
			return fmt.Errorf("loading profile %s: %w", cfg.Profile, err)
		}
	}

	var results []benchResult

	for _, count := range cfg.Counts {
		result, err := benchmarkOne(cfg, count)
		if err != nil {
			return err
		}

		results = append(results, result)
		printResult(result)
	}

	if cfg.Out != "" {
		if err := writeReport(cfg.Out, results); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	return nil
}

// applyProfile loads a JSON-with-comments workload profile (JSONC, via
// hujson) and overlays any fields it sets onto cfg.
func applyProfile(cfg *config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return fmt.Errorf("invalid JSONC: %w", err)
	}

	var p profile
	if err := json.Unmarshal(standardized, &p); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if len(p.Counts) > 0 {
		cfg.Counts = p.Counts
	}

	if p.InitialCapacity > 0 {
		cfg.InitialCapacity = p.InitialCapacity
	}

	if p.Seed != 0 {
		cfg.Seed = p.Seed
	}

	return nil
}

func benchmarkOne(cfg config, count int) (benchResult, error) {
	tbl, err := mhash.New(mhash.Options{InitialCapacity: cfg.InitialCapacity})
	if err != nil {
		return benchResult{}, err
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	keys := make([]uint64, count)

	for i := range keys {
		keys[i] = rnd.Uint64()
	}

	insertStart := time.Now()
	for _, k := range keys {
		tbl.Insert(k, k)
	}
	insertElapsed := time.Since(insertStart)

	hitStart := time.Now()
	for _, k := range keys {
		_ = tbl.Find(k)
	}
	hitElapsed := time.Since(hitStart)

	missStart := time.Now()
	for _, k := range keys {
		_ = tbl.Find(^k)
	}
	missElapsed := time.Since(missStart)

	return benchResult{
		Count:              count,
		InsertNanosPerOp:   float64(insertElapsed.Nanoseconds()) / float64(count),
		FindHitNanosPerOp:  float64(hitElapsed.Nanoseconds()) / float64(count),
		FindMissNanosPerOp: float64(missElapsed.Nanoseconds()) / float64(count),
		Stats:              tbl.Stats(),
	}, nil
}

func printResult(r benchResult) {
	fmt.Printf("Count           : %d\n", r.Count)
	fmt.Printf("Insert          : %.1f ns/op\n", r.InsertNanosPerOp)
	fmt.Printf("Find (hit)      : %.1f ns/op\n", r.FindHitNanosPerOp)
	fmt.Printf("Find (miss)     : %.1f ns/op\n", r.FindMissNanosPerOp)
	fmt.Println(r.Stats)
	fmt.Println(strings.Repeat("-", 40))
}

// writeReport marshals results to JSON and writes them atomically, so a
// reader never observes a half-written report file.
func writeReport(path string, results []benchResult) error {
	rep := report{GeneratedAt: time.Now(), Results: results}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}

	return atomic.WriteFile(path, bytes.NewReader(data))
}
