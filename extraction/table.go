package extraction

import "strings"

// NormalizeTable turns a raw cell grid into a TableRecord and its markdown
// rendering. Rows and Cols reflect the raw extracted shape: row count and
// the length of the first row before any padding. Data keeps the grid as
// extracted. Only the markdown rendering cleans cells and pads short rows.
//
// An empty grid yields a record with zero rows and cols and no markdown.
func NormalizeTable(grid [][]string, bbox [4]float64, tableIndex int) (TableRecord, string) {
	if grid == nil {
		grid = [][]string{}
	}
	rec := TableRecord{
		TableIndex: tableIndex,
		BBox:       bbox,
		Data:       grid,
	}
	if len(grid) == 0 {
		return rec, ""
	}
	rec.Rows = len(grid)
	rec.Cols = len(grid[0])
	return rec, tableMarkdown(grid)
}

// tableMarkdown renders a cell grid as a markdown pipe table: first row as
// the header, a --- separator row, then data rows. Cells are cleaned
// (interior newlines collapsed to a space, surrounding whitespace trimmed)
// and rows right-padded with empty cells to the widest row. No column
// width alignment is applied.
func tableMarkdown(grid [][]string) string {
	cols := 0
	rows := make([][]string, len(grid))
	for i, row := range grid {
		cleaned := make([]string, len(row))
		for j, cell := range row {
			cleaned[j] = strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
		}
		rows[i] = cleaned
		if len(cleaned) > cols {
			cols = len(cleaned)
		}
	}
	for i, row := range rows {
		for len(row) < cols {
			row = append(row, "")
		}
		rows[i] = row
	}

	render := func(cells []string) string {
		return "| " + strings.Join(cells, " | ") + " |"
	}
	separator := make([]string, cols)
	for i := range separator {
		separator[i] = "---"
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, render(rows[0]), render(separator))
	for _, row := range rows[1:] {
		lines = append(lines, render(row))
	}
	return strings.Join(lines, "\n")
}
