package pdfengine

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/ledongthuc/pdf"

	"github.com/antflydb/docparse/extraction"
)

// Options tunes the layout analysis. Zero fields fall back to defaults, so
// partial configuration files work.
type Options struct {
	// ColumnGap is the minimum horizontal gap, in points, treated as a
	// column boundary.
	ColumnGap float64 `json:"column_gap" yaml:"column_gap"`

	// RowTolerance is the Y distance, in points, within which fragments
	// belong to the same row.
	RowTolerance float64 `json:"row_tolerance" yaml:"row_tolerance"`

	// TableCellMinWidth is the assumed width of a table's last column.
	TableCellMinWidth float64 `json:"table_cell_min_width" yaml:"table_cell_min_width"`

	// WordSpaceRatio is the fraction of the font size treated as a word
	// boundary between adjacent fragments.
	WordSpaceRatio float64 `json:"word_space_ratio" yaml:"word_space_ratio"`

	// MinTableRows and MinTableCols are the smallest grid reported as a
	// table.
	MinTableRows int `json:"min_table_rows" yaml:"min_table_rows"`
	MinTableCols int `json:"min_table_cols" yaml:"min_table_cols"`
}

// DefaultOptions returns the thresholds that work for most documents.
func DefaultOptions() Options {
	return Options{
		ColumnGap:         30.0,
		RowTolerance:      3.0,
		TableCellMinWidth: 20.0,
		WordSpaceRatio:    0.3,
		MinTableRows:      2,
		MinTableCols:      2,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ColumnGap <= 0 {
		o.ColumnGap = def.ColumnGap
	}
	if o.RowTolerance <= 0 {
		o.RowTolerance = def.RowTolerance
	}
	if o.TableCellMinWidth <= 0 {
		o.TableCellMinWidth = def.TableCellMinWidth
	}
	if o.WordSpaceRatio <= 0 {
		o.WordSpaceRatio = def.WordSpaceRatio
	}
	if o.MinTableRows <= 0 {
		o.MinTableRows = def.MinTableRows
	}
	if o.MinTableCols <= 0 {
		o.MinTableCols = def.MinTableCols
	}
	return o
}

// Engine parses PDFs with the ledongthuc/pdf reader and reconstructs
// layout, text blocks, and table grids from positioned text fragments.
type Engine struct {
	opts Options
}

var _ extraction.Engine = (*Engine)(nil)

// New creates an Engine with the given layout options.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Name identifies the underlying reader, reported by the health endpoint.
func (e *Engine) Name() string { return "ledongthuc/pdf" }

// Open parses content as a PDF. The reader panics on some malformed
// structures, so parse failures of either kind come back as a
// *extraction.DocumentOpenError.
func (e *Engine) Open(content []byte) (doc extraction.Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &extraction.DocumentOpenError{Err: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &extraction.DocumentOpenError{Err: err}
	}
	return &document{reader: reader, opts: e.opts}, nil
}

type document struct {
	reader *pdf.Reader
	opts   Options
}

func (d *document) NumPages() int { return d.reader.NumPage() }

func (d *document) Page(index int) (extraction.Page, error) {
	src := d.reader.Page(index + 1) // the reader numbers pages from 1
	if src.V.IsNull() {
		return nil, fmt.Errorf("page %d missing from the page tree", index)
	}
	return &page{src: src, opts: d.opts}, nil
}

// Close is a no-op: the reader is backed by the request's byte slice and
// holds no file handle.
func (d *document) Close() error { return nil }

type page struct {
	src  pdf.Page
	opts Options
}

func (p *page) Text(layout bool) (text string, err error) {
	defer catchPanic(&err, "extracting text")

	texts := filterTexts(p.src.Content().Text)
	a := analyzer{opts: p.opts}
	if layout {
		text = a.layoutText(texts)
	} else {
		text = a.readingText(texts)
	}
	return normalizeGlyphs(text), nil
}

// Images lists the page's image XObjects without decoding their streams.
// The reader does not expose raw object numbers, so the XObject resource
// name stands in for the cross reference id.
func (p *page) Images() (images []extraction.ImageInfo, err error) {
	defer catchPanic(&err, "reading images")

	resources := p.src.V.Key("Resources")
	if resources.IsNull() {
		return nil, nil
	}
	xobjects := resources.Key("XObject")
	if xobjects.IsNull() || xobjects.Kind() != pdf.Dict {
		return nil, nil
	}

	index := 0
	for _, name := range xobjects.Keys() {
		obj := xobjects.Key(name)
		if obj.IsNull() || obj.Key("Subtype").Name() != "Image" {
			continue
		}
		colorspace := ""
		if cs := obj.Key("ColorSpace"); cs.Kind() == pdf.Name {
			colorspace = cs.Name()
		}
		images = append(images, extraction.ImageInfo{
			Index:      index,
			XRef:       xrefFromName(name),
			Width:      int(obj.Key("Width").Int64()),
			Height:     int(obj.Key("Height").Int64()),
			Colorspace: colorspace,
		})
		index++
	}
	return images, nil
}

// TextBlocks reports one text block per reconstructed line plus one image
// block per image XObject.
func (p *page) TextBlocks() (blocks []extraction.TextBlock, err error) {
	defer catchPanic(&err, "reading text blocks")

	texts := filterTexts(p.src.Content().Text)
	a := analyzer{opts: p.opts}
	for _, line := range a.lineBlocks(texts) {
		blocks = append(blocks, extraction.TextBlock{
			Type: extraction.BlockText,
			BBox: [4]float64{line.x, line.y, line.x + line.w, line.y + line.h},
			Text: normalizeGlyphs(line.text),
		})
	}

	images, err := p.Images()
	if err != nil {
		return nil, err
	}
	for _, img := range images {
		blocks = append(blocks, extraction.TextBlock{
			Type: extraction.BlockImage,
			BBox: [4]float64{0, 0, float64(img.Width), float64(img.Height)},
		})
	}
	return blocks, nil
}

// FindTables runs table detection over each detected column region and
// returns a handle per table found.
func (p *page) FindTables() (handles []extraction.TableHandle, err error) {
	defer catchPanic(&err, "detecting tables")

	texts := filterTexts(p.src.Content().Text)
	a := analyzer{opts: p.opts}
	for _, region := range a.columns(texts) {
		table, ok := a.detectTable(a.wordBlocks(region))
		if !ok {
			continue
		}
		handles = append(handles, &tableHandle{table: table})
	}
	return handles, nil
}

type tableHandle struct {
	table detectedTable
}

func (h *tableHandle) BBox() [4]float64 { return h.table.bbox }

func (h *tableHandle) Extract() ([][]string, error) { return h.table.grid, nil }

// catchPanic converts a reader panic on malformed page structures into an
// error. recover only works when called directly from the deferred frame.
func catchPanic(err *error, op string) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%s: %v", op, r)
	}
}

func xrefFromName(name string) int {
	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i < len(name) {
		if n, err := strconv.Atoi(name[i:]); err == nil {
			return n
		}
	}
	h := fnv.New32a()
	h.Write([]byte(name))
	return int(h.Sum32() & 0x7fffffff)
}
