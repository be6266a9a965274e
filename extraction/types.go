package extraction

// TableRecord is the structured form of one extracted table. Data holds the
// grid exactly as the engine extracted it; Rows and Cols describe that raw
// shape, not the padded shape the markdown rendering uses.
type TableRecord struct {
	TableIndex int        `json:"table_index"`
	BBox       [4]float64 `json:"bbox"`
	Rows       int        `json:"rows"`
	Cols       int        `json:"cols"`
	Data       [][]string `json:"data"`
}

// DocumentTable is a TableRecord tagged with the page it was found on, used
// by the flattened tables-only response.
type DocumentTable struct {
	TableRecord
	PageNumber int `json:"page_number"`
}

// PageResult is the full per-page extraction output. TablesMarkdown holds
// only the non-empty renderings, so it can be shorter than Tables; each
// TableRecord keeps the index it had in the page's discovery order.
type PageResult struct {
	PageNumber     int           `json:"page_number"`
	Text           string        `json:"text"`
	Tables         []TableRecord `json:"tables"`
	TablesMarkdown []string      `json:"tables_markdown"`
	Images         []ImageInfo   `json:"images"`
	IsScanned      bool          `json:"is_scanned"`
	TextBlockCount int           `json:"text_block_count"`
}

// ExtractionResponse is the full-mode result. When Success is false the
// content fields are empty and Error describes the document failure.
type ExtractionResponse struct {
	Success            bool         `json:"success"`
	Filename           string       `json:"filename"`
	TotalPages         int          `json:"total_pages"`
	Pages              []PageResult `json:"pages"`
	FullText           string       `json:"full_text"`
	FullTextWithTables string       `json:"full_text_with_tables"`
	ScannedPageCount   int          `json:"scanned_page_count"`
	Error              string       `json:"error,omitempty"`
}

// TextExtractionResponse is the text-only result: concatenated page text
// and a scanned page count, with no per-page breakdown.
type TextExtractionResponse struct {
	Success          bool   `json:"success"`
	Filename         string `json:"filename"`
	TotalPages       int    `json:"total_pages"`
	Text             string `json:"text"`
	ScannedPageCount int    `json:"scanned_page_count"`
	Error            string `json:"error,omitempty"`
}

// TableExtractionResponse is the tables-only result: every table in the
// document flattened into one sequence, each tagged with its page, and the
// markdown renderings flattened separately without page boundaries.
type TableExtractionResponse struct {
	Success        bool            `json:"success"`
	Filename       string          `json:"filename"`
	TotalPages     int             `json:"total_pages"`
	Tables         []DocumentTable `json:"tables"`
	TablesMarkdown []string        `json:"tables_markdown"`
	Error          string          `json:"error,omitempty"`
}
