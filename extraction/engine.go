package extraction

// BlockType tags a content block reported by the engine.
type BlockType int

const (
	BlockText  BlockType = 0
	BlockImage BlockType = 1
)

// ImageInfo describes an embedded image without decoding it. All fields are
// passed through from the engine verbatim.
type ImageInfo struct {
	Index      int    `json:"index"`
	XRef       int    `json:"xref"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Colorspace string `json:"colorspace"`
}

// TextBlock is a positioned run of page content with a type tag.
type TextBlock struct {
	Type BlockType
	BBox [4]float64
	Text string
}

// TableHandle is a detected table region. Extract pulls the cell grid,
// row-major, with absent cells surfaced as empty strings.
type TableHandle interface {
	BBox() [4]float64
	Extract() ([][]string, error)
}

// Page exposes the per-page primitives the orchestrator consumes. Text
// returns the page text, layout-aware when layout is true. FindTables
// failures degrade that page to zero tables; failures from the other
// methods fail the whole extraction.
type Page interface {
	Text(layout bool) (string, error)
	Images() ([]ImageInfo, error)
	TextBlocks() ([]TextBlock, error)
	FindTables() ([]TableHandle, error)
}

// Document is an open document. Page takes a zero-based index. A Document
// belongs to the single extraction that opened it and must be closed when
// that extraction finishes.
type Document interface {
	NumPages() int
	Page(index int) (Page, error)
	Close() error
}

// Engine opens raw bytes as a document. Open failures should be wrapped in
// *DocumentOpenError. Engines must support concurrent Open calls; the
// documents they return need not be safe for concurrent use.
type Engine interface {
	Name() string
	Open(content []byte) (Document, error)
}
