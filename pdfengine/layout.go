package pdfengine

import (
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Column detection votes for gap positions bucketed to this width. A
// boundary needs the gap to repeat on a quarter of the rows, three at
// minimum, before it splits the page.
const (
	gapBucketWidth = 20.0
	minGapRowShare = 25
	minGapRows     = 3
)

// textBlock is a run of fragments merged into one word or line. x and y
// are the lower left corner, h the nominal line height.
type textBlock struct {
	x, y, w, h float64
	fontSize   float64
	text       string
}

type textRow struct {
	y     float64
	texts []pdf.Text
}

type analyzer struct {
	opts Options
}

// filterTexts drops fragments with no visible content. Gaps left behind
// reappear as spaces during block assembly.
func filterTexts(texts []pdf.Text) []pdf.Text {
	var out []pdf.Text
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// rows groups fragments whose baselines sit within RowTolerance of each
// other, ordered top of page first and left to right within a row.
func (a analyzer) rows(texts []pdf.Text) []textRow {
	var rows []textRow
	for _, t := range texts {
		placed := false
		for i := range rows {
			if math.Abs(rows[i].y-t.Y) <= a.opts.RowTolerance {
				rows[i].texts = append(rows[i].texts, t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, textRow{y: t.Y, texts: []pdf.Text{t}})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].y > rows[j].y })
	for i := range rows {
		row := rows[i].texts
		sort.Slice(row, func(i, j int) bool { return row[i].X < row[j].X })
	}
	return rows
}

// columns splits the page into column regions by looking for horizontal
// gaps of at least ColumnGap that recur at the same X across rows. With
// no recurring gap the whole page is one region.
func (a analyzer) columns(texts []pdf.Text) [][]pdf.Text {
	if len(texts) == 0 {
		return nil
	}
	rows := a.rows(texts)

	gapVotes := make(map[int]int)
	for _, row := range rows {
		for i := 1; i < len(row.texts); i++ {
			prev := row.texts[i-1]
			gap := row.texts[i].X - (prev.X + prev.W)
			if gap >= a.opts.ColumnGap {
				center := prev.X + prev.W + gap/2
				gapVotes[int(center/gapBucketWidth)]++
			}
		}
	}

	need := len(rows) * minGapRowShare / 100
	if need < minGapRows {
		need = minGapRows
	}
	var boundaries []float64
	for bucket, votes := range gapVotes {
		if votes >= need {
			boundaries = append(boundaries, float64(bucket)*gapBucketWidth+gapBucketWidth/2)
		}
	}
	if len(boundaries) == 0 {
		return [][]pdf.Text{texts}
	}
	sort.Float64s(boundaries)

	merged := []float64{boundaries[0]}
	for _, b := range boundaries[1:] {
		if b-merged[len(merged)-1] > 2*gapBucketWidth {
			merged = append(merged, b)
		}
	}

	regions := make([][]pdf.Text, len(merged)+1)
	for _, t := range texts {
		center := t.X + t.W/2
		idx := len(merged)
		for i, b := range merged {
			if center < b {
				idx = i
				break
			}
		}
		regions[idx] = append(regions[idx], t)
	}

	out := regions[:0]
	for _, region := range regions {
		if len(region) > 0 {
			out = append(out, region)
		}
	}
	return out
}

// wordBlocks merges adjacent fragments on a row into words. Fragments
// closer than WordSpaceRatio of the font size are runs of the same word
// split by the content stream, anything wider is a word break.
func (a analyzer) wordBlocks(texts []pdf.Text) []textBlock {
	var blocks []textBlock
	for _, row := range a.rows(texts) {
		var cur textBlock
		open := false
		for _, t := range row.texts {
			if !open {
				cur = newBlock(t)
				open = true
				continue
			}
			if gap := t.X - (cur.x + cur.w); gap <= a.wordGap(cur.fontSize) {
				cur.text += t.S
				cur.w = t.X + t.W - cur.x
				if t.FontSize > cur.fontSize {
					cur.fontSize = t.FontSize
					cur.h = t.FontSize
				}
				continue
			}
			blocks = append(blocks, cur)
			cur = newBlock(t)
		}
		if open {
			blocks = append(blocks, cur)
		}
	}
	return blocks
}

// lineBlocks collapses word blocks into one block per visual line.
func (a analyzer) lineBlocks(texts []pdf.Text) []textBlock {
	var lines []textBlock
	for _, w := range a.wordBlocks(texts) {
		if len(lines) > 0 {
			last := &lines[len(lines)-1]
			if math.Abs(last.y-w.y) <= a.opts.RowTolerance {
				last.text += " " + w.text
				last.w = w.x + w.w - last.x
				if w.fontSize > last.fontSize {
					last.fontSize = w.fontSize
					last.h = w.fontSize
				}
				continue
			}
		}
		lines = append(lines, w)
	}
	return lines
}

// layoutText renders column regions in reading order, lines separated by
// newlines and regions by blank lines.
func (a analyzer) layoutText(texts []pdf.Text) string {
	var parts []string
	for _, region := range a.columns(texts) {
		if s := a.joinBlocks(a.wordBlocks(region)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// readingText renders the page top to bottom without column detection.
func (a analyzer) readingText(texts []pdf.Text) string {
	return a.joinBlocks(a.wordBlocks(texts))
}

func (a analyzer) joinBlocks(blocks []textBlock) string {
	var sb strings.Builder
	lastY := 0.0
	for _, b := range blocks {
		if sb.Len() > 0 {
			if math.Abs(b.y-lastY) > a.opts.RowTolerance {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(b.text)
		lastY = b.y
	}
	return sb.String()
}

func (a analyzer) wordGap(fontSize float64) float64 {
	if g := a.opts.WordSpaceRatio * fontSize; g > 0 {
		return g
	}
	return 3.0
}

func newBlock(t pdf.Text) textBlock {
	return textBlock{x: t.X, y: t.Y, w: t.W, h: t.FontSize, fontSize: t.FontSize, text: t.S}
}
