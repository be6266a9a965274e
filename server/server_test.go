package server

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/antflydb/docparse/config"
	"github.com/antflydb/docparse/extraction"
)

type stubTable struct {
	bbox [4]float64
	grid [][]string
}

func (t stubTable) BBox() [4]float64 { return t.bbox }

func (t stubTable) Extract() ([][]string, error) { return t.grid, nil }

type stubPage struct {
	text   string
	tables []extraction.TableHandle
	images []extraction.ImageInfo
}

func (p stubPage) Text(layout bool) (string, error) { return p.text, nil }

func (p stubPage) Images() ([]extraction.ImageInfo, error) { return p.images, nil }

func (p stubPage) TextBlocks() ([]extraction.TextBlock, error) {
	if strings.TrimSpace(p.text) == "" {
		return nil, nil
	}
	return []extraction.TextBlock{{Type: extraction.BlockText, Text: p.text}}, nil
}

func (p stubPage) FindTables() ([]extraction.TableHandle, error) { return p.tables, nil }

type stubDoc struct {
	pages []stubPage
}

func (d stubDoc) NumPages() int { return len(d.pages) }

func (d stubDoc) Page(i int) (extraction.Page, error) { return d.pages[i], nil }

func (d stubDoc) Close() error { return nil }

type stubEngine struct {
	doc     stubDoc
	openErr error
}

func (e stubEngine) Name() string { return "stub" }

func (e stubEngine) Open(content []byte) (extraction.Document, error) {
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.doc, nil
}

func defaultEngine() stubEngine {
	return stubEngine{doc: stubDoc{pages: []stubPage{{
		text: "Quarterly results follow.",
		tables: []extraction.TableHandle{stubTable{
			bbox: [4]float64{50, 600, 300, 700},
			grid: [][]string{{"Region", "Total"}, {"North", "42"}},
		}},
		images: []extraction.ImageInfo{{
			Index: 0, XRef: 5, Width: 100, Height: 80, Colorspace: "DeviceRGB",
		}},
	}}}}
}

func newTestServer(eng extraction.Engine) *Server {
	cfg := config.ServerConfig{Host: "127.0.0.1", Port: 0, MaxUploadMB: 2}
	svc := extraction.NewService(eng, zap.NewNop())
	return New(cfg, svc, zap.NewNop(), "0.1.0")
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postExtract(t *testing.T, s *Server, path, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func errorDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
	return body.Detail
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(defaultEngine())

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var health HealthResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "0.1.0", health.Version)
	require.Equal(t, "stub", health.Engine)
}

func TestProbes(t *testing.T) {
	s := newTestServer(defaultEngine())

	for path, want := range map[string]string{
		"/healthz": "ok",
		"/readyz":  "ready",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
		require.Equal(t, want, rec.Body.String(), path)
	}
}

func TestExtractFull(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("%PDF-1.4 stub"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp extraction.ExtractionResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "report.pdf", resp.Filename)
	require.Equal(t, 1, resp.TotalPages)
	require.Len(t, resp.Pages, 1)
	require.Equal(t, "Quarterly results follow.", resp.Pages[0].Text)
	require.Len(t, resp.Pages[0].Tables, 1)
	require.Equal(t, 2, resp.Pages[0].Tables[0].Rows)
	require.Equal(t, 2, resp.Pages[0].Tables[0].Cols)
	// Image metadata is off by default.
	require.Empty(t, resp.Pages[0].Images)
	require.Equal(t, "Quarterly results follow.", resp.FullText)
	require.Contains(t, resp.FullTextWithTables, "| Region | Total |")
}

func TestExtractImagesToggle(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("%PDF-1.4 stub"),
		map[string]string{"extract_images": "true"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp extraction.ExtractionResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Pages[0].Images, 1)
	require.Equal(t, 5, resp.Pages[0].Images[0].XRef)
	require.Equal(t, "DeviceRGB", resp.Pages[0].Images[0].Colorspace)
}

func TestExtractTablesToggle(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("%PDF-1.4 stub"),
		map[string]string{"extract_tables": "false"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp extraction.ExtractionResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.Empty(t, resp.Pages[0].Tables)
	require.Equal(t, resp.FullText, resp.FullTextWithTables)
}

func TestExtractRejectsNonPDF(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "notes.txt", []byte("hello"), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Only PDF files are supported", errorDetail(t, rec))
}

func TestExtractRejectsEmptyFile(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Empty file uploaded", errorDetail(t, rec))
}

func TestExtractRejectsMissingFile(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "", nil, map[string]string{"layout_mode": "true"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "No file uploaded", errorDetail(t, rec))
}

func TestExtractRejectsOversize(t *testing.T) {
	s := newTestServer(defaultEngine())

	big := bytes.Repeat([]byte("a"), 2<<20+16)
	rec := postExtract(t, s, "/v1/extract", "big.pdf", big, nil)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "File too large. Maximum size is 2MB", errorDetail(t, rec))
}

func TestExtractBadPageRange(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("%PDF-1.4 stub"),
		map[string]string{"page_range": "abc"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, errorDetail(t, rec), "invalid page range")
}

func TestExtractRejectsBadBool(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("%PDF-1.4 stub"),
		map[string]string{"extract_tables": "maybe"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "Invalid boolean value for 'extract_tables'", errorDetail(t, rec))
}

func TestExtractOpenFailure(t *testing.T) {
	s := newTestServer(stubEngine{
		openErr: &extraction.DocumentOpenError{Err: errors.New("bad xref table")},
	})

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("not really a pdf"), nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "Failed to open PDF: bad xref table", errorDetail(t, rec))
}

func TestExtractTextEndpoint(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract/text", "report.pdf", []byte("%PDF-1.4 stub"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp extraction.TextExtractionResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "Quarterly results follow.", resp.Text)
	require.Equal(t, 1, resp.TotalPages)
}

func TestExtractTablesEndpoint(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract/tables", "report.pdf", []byte("%PDF-1.4 stub"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp extraction.TableExtractionResponse
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Len(t, resp.Tables, 1)
	require.Equal(t, 0, resp.Tables[0].PageNumber)
	require.Equal(t, 0, resp.Tables[0].TableIndex)
	require.Equal(t, [][]string{{"Region", "Total"}, {"North", "42"}}, resp.Tables[0].Data)
	require.Len(t, resp.TablesMarkdown, 1)
	require.Contains(t, resp.TablesMarkdown[0], "| North | 42 |")
}

func TestExtractMethodNotAllowed(t *testing.T) {
	s := newTestServer(defaultEngine())

	req := httptest.NewRequest(http.MethodGet, "/v1/extract", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(defaultEngine())

	rec := postExtract(t, s, "/v1/extract", "report.pdf", []byte("%PDF-1.4 stub"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	s.Handler().ServeHTTP(mrec, req)

	require.Equal(t, http.StatusOK, mrec.Code)
	body := mrec.Body.String()
	require.Contains(t, body, "docparse_http_requests_total")
	require.Contains(t, body, "docparse_pages_extracted_total")
	require.Contains(t, body, "docparse_scanned_pages_total")
}

func TestOpenAPIDocument(t *testing.T) {
	doc, err := LoadSpec()
	require.NoError(t, err)
	require.Equal(t, "docparse", doc.Info.Title)

	s := newTestServer(defaultEngine())
	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var spec map[string]any
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &spec))
	paths, ok := spec["paths"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, paths, "/v1/extract")
	require.Contains(t, paths, "/v1/extract/tables")
}
