package extraction

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Options are the extraction knobs recognized across entry points.
// ExtractTables and ExtractImages apply to full extraction only; LayoutMode
// applies wherever text is extracted; PageRange applies everywhere.
type Options struct {
	ExtractTables bool
	ExtractImages bool
	LayoutMode    bool
	PageRange     string
}

// DefaultOptions returns the options used when the caller supplies none:
// tables on, images off, layout-aware text, all pages.
func DefaultOptions() Options {
	return Options{ExtractTables: true, LayoutMode: true}
}

// Service runs extractions against a document parsing engine. One Service
// handles any number of concurrent extractions; each opens its own
// document.
type Service struct {
	engine Engine
	logger *zap.Logger
}

// NewService creates a Service on the given engine. A nil logger disables
// table discovery warnings.
func NewService(engine Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, logger: logger}
}

// Engine returns the engine the service extracts with.
func (s *Service) Engine() Engine { return s.engine }

// pageWants selects the per-page work for one extraction mode, so the three
// modes share a single page loop instead of drifting apart.
type pageWants struct {
	text     bool
	classify bool
	blocks   bool
	tables   bool
	images   bool
}

// pageData accumulates one page's output from the shared loop.
type pageData struct {
	number   int
	text     string
	blocks   int
	tables   []TableRecord
	markdown []string
	images   []ImageInfo
	scanned  bool
}

// walkResult is the shared loop's outcome. openErr is set instead of an
// error return when the document could not be opened, since that case
// becomes a failed response rather than a fault.
type walkResult struct {
	totalPages int
	pages      []pageData
	openErr    error
}

// ExtractFull extracts text, tables, image metadata, and scanned detection
// for every page in range. The returned error is either an
// *InvalidRangeError or a page-level engine fault; document open failures
// come back as a response with Success false.
func (s *Service) ExtractFull(content []byte, filename string, opts Options) (*ExtractionResponse, error) {
	res, err := s.walk(content, opts, pageWants{
		text:     true,
		classify: true,
		blocks:   true,
		tables:   opts.ExtractTables,
		images:   opts.ExtractImages,
	})
	if err != nil {
		return nil, err
	}
	if res.openErr != nil {
		return &ExtractionResponse{
			Filename: filename,
			Pages:    []PageResult{},
			Error:    openErrorMessage(res.openErr),
		}, nil
	}

	pages := make([]PageResult, 0, len(res.pages))
	textParts := make([]string, 0, len(res.pages))
	withTableParts := make([]string, 0, len(res.pages))
	scanned := 0
	for _, p := range res.pages {
		pages = append(pages, PageResult{
			PageNumber:     p.number,
			Text:           p.text,
			Tables:         notNilTables(p.tables),
			TablesMarkdown: notNilStrings(p.markdown),
			Images:         notNilImages(p.images),
			IsScanned:      p.scanned,
			TextBlockCount: p.blocks,
		})
		if p.scanned {
			scanned++
		}
		textParts = append(textParts, p.text)
		pageText := p.text
		if len(p.markdown) > 0 {
			pageText += "\n\n" + strings.Join(p.markdown, "\n\n")
		}
		withTableParts = append(withTableParts, pageText)
	}

	return &ExtractionResponse{
		Success:            true,
		Filename:           filename,
		TotalPages:         res.totalPages,
		Pages:              pages,
		FullText:           strings.TrimSpace(strings.Join(textParts, "\n")),
		FullTextWithTables: strings.TrimSpace(strings.Join(withTableParts, "\n")),
		ScannedPageCount:   scanned,
	}, nil
}

// ExtractText extracts concatenated page text and a scanned page count,
// skipping table and image work entirely.
func (s *Service) ExtractText(content []byte, filename string, opts Options) (*TextExtractionResponse, error) {
	res, err := s.walk(content, opts, pageWants{text: true, classify: true})
	if err != nil {
		return nil, err
	}
	if res.openErr != nil {
		return &TextExtractionResponse{
			Filename: filename,
			Error:    openErrorMessage(res.openErr),
		}, nil
	}

	textParts := make([]string, 0, len(res.pages))
	scanned := 0
	for _, p := range res.pages {
		textParts = append(textParts, p.text)
		if p.scanned {
			scanned++
		}
	}

	return &TextExtractionResponse{
		Success:          true,
		Filename:         filename,
		TotalPages:       res.totalPages,
		Text:             strings.TrimSpace(strings.Join(textParts, "\n")),
		ScannedPageCount: scanned,
	}, nil
}

// ExtractTables extracts every table in range, flattened across pages. Each
// record is tagged with its page number; the markdown renderings are
// flattened into one sequence with no page boundaries.
func (s *Service) ExtractTables(content []byte, filename string, opts Options) (*TableExtractionResponse, error) {
	res, err := s.walk(content, opts, pageWants{tables: true})
	if err != nil {
		return nil, err
	}
	if res.openErr != nil {
		return &TableExtractionResponse{
			Filename:       filename,
			Tables:         []DocumentTable{},
			TablesMarkdown: []string{},
			Error:          openErrorMessage(res.openErr),
		}, nil
	}

	tables := []DocumentTable{}
	markdown := []string{}
	for _, p := range res.pages {
		for _, rec := range p.tables {
			tables = append(tables, DocumentTable{TableRecord: rec, PageNumber: p.number})
		}
		markdown = append(markdown, p.markdown...)
	}

	return &TableExtractionResponse{
		Success:        true,
		Filename:       filename,
		TotalPages:     res.totalPages,
		Tables:         tables,
		TablesMarkdown: markdown,
	}, nil
}

// walk opens the document, resolves the page range, and runs the per-page
// work selected by wants. The document is released on every path. Errors
// returned are range errors or page-level engine faults; open failures are
// reported through walkResult.openErr.
func (s *Service) walk(content []byte, opts Options, wants pageWants) (*walkResult, error) {
	doc, err := s.engine.Open(content)
	if err != nil {
		return &walkResult{openErr: err}, nil
	}
	defer doc.Close()

	totalPages := doc.NumPages()
	indices, err := ResolvePageRange(opts.PageRange, totalPages)
	if err != nil {
		return nil, err
	}

	res := &walkResult{totalPages: totalPages}
	for _, n := range indices {
		page, err := doc.Page(n)
		if err != nil {
			return nil, fmt.Errorf("loading page %d: %w", n, err)
		}
		data := pageData{number: n}

		if wants.text {
			data.text, err = page.Text(opts.LayoutMode)
			if err != nil {
				return nil, fmt.Errorf("extracting text from page %d: %w", n, err)
			}
		}
		if wants.classify || wants.images {
			images, err := page.Images()
			if err != nil {
				return nil, fmt.Errorf("reading images on page %d: %w", n, err)
			}
			if wants.classify {
				data.scanned = IsScannedPage(len(images), data.text)
			}
			if wants.images {
				data.images = images
			}
		}
		if wants.blocks {
			blocks, err := page.TextBlocks()
			if err != nil {
				return nil, fmt.Errorf("reading text blocks on page %d: %w", n, err)
			}
			for _, b := range blocks {
				if b.Type == BlockText {
					data.blocks++
				}
			}
		}
		if wants.tables {
			data.tables, data.markdown = s.pageTables(n, page)
		}

		res.pages = append(res.pages, data)
	}
	return res, nil
}

// pageTables discovers and normalizes the tables on one page. Discovery or
// cell extraction failures degrade the page: a warning is logged, tables
// normalized so far are kept, and the rest of the page is skipped.
func (s *Service) pageTables(pageNumber int, page Page) ([]TableRecord, []string) {
	records := []TableRecord{}
	markdown := []string{}

	handles, err := page.FindTables()
	if err != nil {
		s.logger.Warn("table extraction failed",
			zap.Int("page_number", pageNumber), zap.Error(err))
		return records, markdown
	}
	for i, handle := range handles {
		grid, err := handle.Extract()
		if err != nil {
			s.logger.Warn("table extraction failed",
				zap.Int("page_number", pageNumber), zap.Error(err))
			break
		}
		if len(grid) == 0 {
			continue
		}
		rec, md := NormalizeTable(grid, handle.BBox(), i)
		records = append(records, rec)
		if md != "" {
			markdown = append(markdown, md)
		}
	}
	return records, markdown
}

// openErrorMessage formats the failed-response error for an unopenable
// document, unwrapping the engine's *DocumentOpenError so the message
// carries the underlying cause once.
func openErrorMessage(err error) string {
	var openErr *DocumentOpenError
	if errors.As(err, &openErr) {
		err = openErr.Err
	}
	return fmt.Sprintf("Failed to open PDF: %v", err)
}

func notNilTables(t []TableRecord) []TableRecord {
	if t == nil {
		return []TableRecord{}
	}
	return t
}

func notNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func notNilImages(i []ImageInfo) []ImageInfo {
	if i == nil {
		return []ImageInfo{}
	}
	return i
}
