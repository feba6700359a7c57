// treesel-bench is a stress test for the selection model. It builds a wide,
// deep synthetic tree and measures point selection, range selection, point
// queries, structural shift storms, and clears.
package main

import (
	"fmt"
	"math/rand"
	"runtime"
	"time"

	"github.com/phroun/treesel"
)

const (
	fanOut   = 64
	depth    = 3
	selectN  = 100_000
	queryN   = 1_000_000
	rangeN   = 10_000
	spliceN  = 50_000
	rngSeed  = 1
	clearRep = 100
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
			return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec) %s", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec, r.Extra)
		}
		return fmt.Sprintf("%-40s %12v  (%d ops, %.2f ops/sec)", r.Name, r.Duration.Round(time.Millisecond), r.Ops, opsPerSec)
	}
	if r.Extra != "" {
		return fmt.Sprintf("%-40s %12v  %s", r.Name, r.Duration.Round(time.Millisecond), r.Extra)
	}
	return fmt.Sprintf("%-40s %12v", r.Name, r.Duration.Round(time.Millisecond))
}

func main() {
	fmt.Println("Treesel Benchmark and Stress Test")
	fmt.Println("=================================")
	fmt.Printf("Tree: fan-out %d, depth %d\n", fanOut, depth)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Println()

	var results []BenchResult

	fmt.Println("Building synthetic tree...")
	start := time.Now()
	tree, nodeCount := buildTree()
	results = append(results, BenchResult{
		Name:     "Build tree",
		Duration: time.Since(start),
		Extra:    fmt.Sprintf("%d nodes", nodeCount),
	})
	fmt.Println(results[len(results)-1])

	rng := rand.New(rand.NewSource(rngSeed))
	paths := randomPaths(rng, selectN)

	m := treesel.New[int](tree, treesel.Options{})

	results = append(results, run("Point select", selectN, func() {
		for _, p := range paths {
			m.Select(p)
		}
	}))

	results = append(results, run("IsSelected query", queryN, func() {
		for i := 0; i < queryN; i++ {
			m.IsSelected(paths[i%len(paths)])
		}
	}))

	results = append(results, run("Point deselect", selectN, func() {
		for _, p := range paths {
			m.Deselect(p)
		}
	}))

	results = append(results, run("Sibling range select", rangeN, func() {
		for i := 0; i < rangeN; i++ {
			a := paths[rng.Intn(len(paths))]
			b := paths[rng.Intn(len(paths))]
			m.SelectRange(a, b)
		}
	}))

	results = append(results, run("Clear full selection", clearRep, func() {
		for i := 0; i < clearRep; i++ {
			m.SelectRange(treesel.NewPath(0, 0, 0), treesel.NewPath(fanOut-1, 0, 0))
			m.Clear()
		}
	}))

	m.SelectRange(treesel.NewPath(0, 0), treesel.NewPath(fanOut-1, fanOut-1))
	results = append(results, run("Structural shift storm", spliceN, func() {
		for i := 0; i < spliceN; i++ {
			parent := treesel.IndexPath(rng.Intn(fanOut))
			tree.InsertChild(parent, 0, &treesel.TreeNode[int]{Value: -1})
			tree.RemoveChild(parent, 0)
		}
	}))

	results = append(results, run("Batched bulk update", 1, func() {
		m.Batch(func() {
			for i := 0; i < fanOut; i++ {
				m.Select(treesel.NewPath(i, 0))
			}
			m.Clear()
		})
	}))

	fmt.Println()
	fmt.Println("Results")
	fmt.Println("-------")
	for _, r := range results {
		fmt.Println(r)
	}
}

func run(name string, ops int, fn func()) BenchResult {
	fmt.Printf("Running %s...\n", name)
	start := time.Now()
	fn()
	r := BenchResult{Name: name, Duration: time.Since(start), Ops: ops}
	fmt.Println(r)
	return r
}

// buildTree creates a uniform tree with fanOut children per node down to the
// configured depth. Values are sequential node numbers.
func buildTree() (*treesel.SliceTree[int], int) {
	count := 0
	var build func(level int) *treesel.TreeNode[int]
	build = func(level int) *treesel.TreeNode[int] {
		count++
		n := &treesel.TreeNode[int]{Value: count}
		if level >= depth {
			return n
		}
		n.Children = make([]*treesel.TreeNode[int], fanOut)
		for i := range n.Children {
			n.Children[i] = build(level + 1)
		}
		return n
	}
	roots := make([]*treesel.TreeNode[int], fanOut)
	for i := range roots {
		roots[i] = build(1)
	}
	return treesel.NewSliceTree(roots...), count
}

// randomPaths generates depth-3 paths inside the synthetic tree.
func randomPaths(rng *rand.Rand, n int) []treesel.Path {
	paths := make([]treesel.Path, n)
	for i := range paths {
		paths[i] = treesel.NewPath(rng.Intn(fanOut), rng.Intn(fanOut), rng.Intn(fanOut))
	}
	return paths
}
