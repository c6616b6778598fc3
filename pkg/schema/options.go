package schema

import (
	"math/rand"
	"sort"

	"digital.vasic.datacheck/pkg/table"
)

// validateConfig holds the resolved options for one validation
// run.
type validateConfig struct {
	lazy       bool
	head       int
	tail       int
	sampleN    int
	sampleSeed int64
	hasSample  bool
	inPlace    bool
}

// ValidateOption configures a single validation run.
type ValidateOption func(*validateConfig)

// Lazy collects every schema error instead of failing on the
// first one; the aggregate is returned as *Errors.
func Lazy() ValidateOption {
	return func(c *validateConfig) {
		c.lazy = true
	}
}

// Head restricts checks to the first n rows.
func Head(n int) ValidateOption {
	return func(c *validateConfig) {
		c.head = n
	}
}

// Tail restricts checks to the last n rows.
func Tail(n int) ValidateOption {
	return func(c *validateConfig) {
		c.tail = n
	}
}

// Sample restricts checks to n rows drawn with the given seed.
// The same seed always selects the same rows.
func Sample(n int, seed int64) ValidateOption {
	return func(c *validateConfig) {
		c.sampleN = n
		c.sampleSeed = seed
		c.hasSample = true
	}
}

// InPlace validates the container directly instead of a copy.
// Coercion then mutates the caller's data.
func InPlace() ValidateOption {
	return func(c *validateConfig) {
		c.inPlace = true
	}
}

func resolveOptions(opts []ValidateOption) validateConfig {
	var cfg validateConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// subsamplePositions resolves the row positions selected by
// head/tail/sample, sorted ascending with duplicates removed.
// Nil means the whole container is checked.
func subsamplePositions(n int, cfg validateConfig) []int {
	if cfg.head <= 0 && cfg.tail <= 0 && !cfg.hasSample {
		return nil
	}

	selected := make(map[int]struct{})

	if cfg.head > 0 {
		limit := min(cfg.head, n)
		for i := 0; i < limit; i++ {
			selected[i] = struct{}{}
		}
	}
	if cfg.tail > 0 {
		start := max(n-cfg.tail, 0)
		for i := start; i < n; i++ {
			selected[i] = struct{}{}
		}
	}
	if cfg.hasSample && cfg.sampleN > 0 {
		rng := rand.New(rand.NewSource(cfg.sampleSeed))
		perm := rng.Perm(n)
		limit := min(cfg.sampleN, n)
		for _, p := range perm[:limit] {
			selected[p] = struct{}{}
		}
	}

	positions := make([]int, 0, len(selected))
	for p := range selected {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	return positions
}

// subsampleColumn applies the configured subsampling to a
// column.
func subsampleColumn(
	col *table.Column,
	cfg validateConfig,
) *table.Column {
	positions := subsamplePositions(col.Len(), cfg)
	if positions == nil {
		return col
	}
	return col.Take(positions)
}

// subsampleTable applies the configured subsampling to a table.
func subsampleTable(
	tbl *table.Table,
	cfg validateConfig,
) *table.Table {
	positions := subsamplePositions(tbl.Len(), cfg)
	if positions == nil {
		return tbl
	}
	return tbl.Take(positions)
}
