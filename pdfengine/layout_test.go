package pdfengine

import (
	"testing"

	"github.com/ledongthuc/pdf"
)

func twoColumnTexts() []pdf.Text {
	return []pdf.Text{
		// Left column
		{S: "Alpha", X: 50, Y: 700, W: 40, FontSize: 12},
		{S: "Beta", X: 50, Y: 680, W: 35, FontSize: 12},
		{S: "Gamma", X: 50, Y: 660, W: 45, FontSize: 12},
		// Right column
		{S: "One", X: 300, Y: 700, W: 30, FontSize: 12},
		{S: "Two", X: 300, Y: 680, W: 30, FontSize: 12},
		{S: "Six", X: 300, Y: 660, W: 25, FontSize: 12},
	}
}

func TestAnalyzerColumns(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}

	regions := a.columns(twoColumnTexts())
	if len(regions) != 2 {
		t.Fatalf("columns() found %d regions, want 2", len(regions))
	}
	if len(regions[0]) != 3 || len(regions[1]) != 3 {
		t.Errorf("region sizes = %d, %d, want 3, 3", len(regions[0]), len(regions[1]))
	}
	for _, txt := range regions[0] {
		if txt.X != 50 {
			t.Errorf("left region holds fragment at X=%v", txt.X)
		}
	}
	for _, txt := range regions[1] {
		if txt.X != 300 {
			t.Errorf("right region holds fragment at X=%v", txt.X)
		}
	}
}

func TestAnalyzerColumnsSingleRegion(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}

	texts := []pdf.Text{
		{S: "Only", X: 50, Y: 700, W: 40, FontSize: 12},
		{S: "prose", X: 95, Y: 700, W: 45, FontSize: 12},
		{S: "here", X: 50, Y: 680, W: 35, FontSize: 12},
	}

	regions := a.columns(texts)
	if len(regions) != 1 {
		t.Fatalf("columns() found %d regions, want 1", len(regions))
	}
	if len(regions[0]) != 3 {
		t.Errorf("single region holds %d fragments, want 3", len(regions[0]))
	}
}

func TestAnalyzerColumnsEmpty(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}
	if regions := a.columns(nil); regions != nil {
		t.Errorf("columns(nil) = %v, want nil", regions)
	}
}

func TestAnalyzerWordBlocks(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}

	texts := []pdf.Text{
		{S: "Hel", X: 50, Y: 700, W: 18, FontSize: 12},
		{S: "lo", X: 68.5, Y: 700, W: 12, FontSize: 12},
		{S: "world", X: 85, Y: 700, W: 30, FontSize: 12},
	}

	blocks := a.wordBlocks(texts)
	if len(blocks) != 2 {
		t.Fatalf("wordBlocks() = %d blocks, want 2", len(blocks))
	}
	if blocks[0].text != "Hello" {
		t.Errorf("blocks[0].text = %q, want %q", blocks[0].text, "Hello")
	}
	if blocks[0].w != 30.5 {
		t.Errorf("blocks[0].w = %v, want 30.5", blocks[0].w)
	}
	if blocks[1].text != "world" {
		t.Errorf("blocks[1].text = %q, want %q", blocks[1].text, "world")
	}
}

func TestAnalyzerLineBlocks(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}

	lines := a.lineBlocks(twoColumnTexts())
	if len(lines) != 3 {
		t.Fatalf("lineBlocks() = %d lines, want 3", len(lines))
	}
	if lines[0].text != "Alpha One" {
		t.Errorf("lines[0].text = %q, want %q", lines[0].text, "Alpha One")
	}
	if lines[0].y != 700 {
		t.Errorf("lines[0].y = %v, want 700", lines[0].y)
	}
	if lines[2].text != "Gamma Six" {
		t.Errorf("lines[2].text = %q, want %q", lines[2].text, "Gamma Six")
	}
}

func TestAnalyzerLayoutText(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}

	got := a.layoutText(twoColumnTexts())
	want := "Alpha\nBeta\nGamma\n\nOne\nTwo\nSix"
	if got != want {
		t.Errorf("layoutText() = %q, want %q", got, want)
	}
}

func TestAnalyzerReadingText(t *testing.T) {
	a := analyzer{opts: DefaultOptions()}

	got := a.readingText(twoColumnTexts())
	want := "Alpha One\nBeta Two\nGamma Six"
	if got != want {
		t.Errorf("readingText() = %q, want %q", got, want)
	}
}

func TestFilterTexts(t *testing.T) {
	texts := []pdf.Text{
		{S: "keep", X: 50, Y: 700, W: 30, FontSize: 12},
		{S: "   ", X: 85, Y: 700, W: 10, FontSize: 12},
		{S: "", X: 100, Y: 700, W: 0, FontSize: 12},
	}

	got := filterTexts(texts)
	if len(got) != 1 || got[0].S != "keep" {
		t.Errorf("filterTexts() kept %v, want just %q", got, "keep")
	}
}
