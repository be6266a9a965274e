package pdfengine

import (
	"math"
	"sort"
)

// Alignment buckets for table detection. A column needs three blocks
// sharing a left edge, a row needs two blocks sharing a baseline.
const (
	colBucketWidth = 5.0
	rowBucketWidth = 3.0
	minColBlocks   = 3
	minRowBlocks   = 2
	spacingSlack   = 0.3
)

type detectedTable struct {
	bbox [4]float64
	grid [][]string
}

// detectTable decides whether the blocks form a grid: enough left edges
// and baselines aligned into buckets, evenly spaced on both axes. Cell
// text is the blocks assigned to a row and column crossing, joined with
// spaces.
func (a analyzer) detectTable(blocks []textBlock) (detectedTable, bool) {
	if len(blocks) < a.opts.MinTableRows*a.opts.MinTableCols {
		return detectedTable{}, false
	}

	colXs := alignedPositions(blocks, colBucketWidth, minColBlocks, func(b textBlock) float64 { return b.x })
	rowYs := alignedPositions(blocks, rowBucketWidth, minRowBlocks, func(b textBlock) float64 { return b.y })
	if len(colXs) < a.opts.MinTableCols || len(rowYs) < a.opts.MinTableRows {
		return detectedTable{}, false
	}
	sort.Float64s(colXs)
	sort.Float64s(rowYs)
	if !consistentSpacing(colXs) || !consistentSpacing(rowYs) {
		return detectedTable{}, false
	}
	// Top row of the page becomes the first grid row.
	for i, j := 0, len(rowYs)-1; i < j; i, j = i+1, j-1 {
		rowYs[i], rowYs[j] = rowYs[j], rowYs[i]
	}

	grid := make([][]string, len(rowYs))
	for i := range grid {
		grid[i] = make([]string, len(colXs))
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, b := range blocks {
		r := nearestIndex(rowYs, b.y, rowBucketWidth*2)
		c := nearestIndex(colXs, b.x, colBucketWidth*2)
		if r < 0 || c < 0 {
			continue
		}
		if grid[r][c] == "" {
			grid[r][c] = b.text
		} else {
			grid[r][c] += " " + b.text
		}
		minY = math.Min(minY, b.y)
		maxY = math.Max(maxY, b.y+b.h)
	}
	for r := range grid {
		for c := range grid[r] {
			grid[r][c] = normalizeGlyphs(grid[r][c])
		}
	}

	bbox := [4]float64{
		colXs[0],
		minY,
		colXs[len(colXs)-1] + a.opts.TableCellMinWidth,
		maxY,
	}
	return detectedTable{bbox: bbox, grid: grid}, true
}

// alignedPositions buckets one coordinate of every block and keeps the
// buckets that collect at least minCount blocks.
func alignedPositions(blocks []textBlock, bucket float64, minCount int, coord func(textBlock) float64) []float64 {
	counts := make(map[int]int)
	for _, b := range blocks {
		counts[int(coord(b)/bucket)]++
	}
	var out []float64
	for k, n := range counts {
		if n >= minCount {
			out = append(out, float64(k)*bucket)
		}
	}
	return out
}

// consistentSpacing reports whether consecutive gaps stay within
// spacingSlack of their mean. Prose indents fail this, grids pass.
func consistentSpacing(sorted []float64) bool {
	if len(sorted) < 3 {
		return true
	}
	sum := 0.0
	for i := 1; i < len(sorted); i++ {
		sum += sorted[i] - sorted[i-1]
	}
	mean := sum / float64(len(sorted)-1)
	if mean <= 0 {
		return false
	}
	for i := 1; i < len(sorted); i++ {
		if math.Abs(sorted[i]-sorted[i-1]-mean) > mean*spacingSlack {
			return false
		}
	}
	return true
}

func nearestIndex(positions []float64, v, tolerance float64) int {
	best, bestDist := -1, tolerance
	for i, p := range positions {
		if d := math.Abs(v - p); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
