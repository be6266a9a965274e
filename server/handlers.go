package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/bytedance/sonic/encoder"
	"go.uber.org/zap"

	"github.com/antflydb/docparse/extraction"
)

// errorBody is the JSON error envelope: {"detail": "..."}.
type errorBody struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := encoder.NewStreamEncoder(w).Encode(v); err != nil {
		s.logger.Error("writing response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorBody{Detail: detail})
}

// readUpload pulls the uploaded file out of the multipart form and applies
// the name and size rules shared by every extract endpoint.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (content []byte, filename string, ok bool) {
	// A megabyte of headroom covers multipart framing and form fields.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes()+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, s.tooLargeDetail())
			return nil, "", false
		}
		s.writeError(w, http.StatusBadRequest, "No file uploaded")
		return nil, "", false
	}
	defer file.Close()

	filename = header.Filename
	if filename == "" {
		filename = "unknown.pdf"
	}
	if !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		s.writeError(w, http.StatusBadRequest, "Only PDF files are supported")
		return nil, "", false
	}

	content, err = io.ReadAll(file)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to read upload")
		return nil, "", false
	}
	if len(content) == 0 {
		s.writeError(w, http.StatusBadRequest, "Empty file uploaded")
		return nil, "", false
	}
	if int64(len(content)) > s.cfg.MaxUploadBytes() {
		s.writeError(w, http.StatusRequestEntityTooLarge, s.tooLargeDetail())
		return nil, "", false
	}
	return content, filename, true
}

func (s *Server) tooLargeDetail() string {
	return fmt.Sprintf("File too large. Maximum size is %dMB", s.cfg.MaxUploadMB)
}

// boolField reads an optional boolean form field. An absent field takes the
// default; a present one must satisfy strconv.ParseBool or the request is
// rejected with a 400.
func (s *Server) boolField(w http.ResponseWriter, r *http.Request, key string, def bool) (bool, bool) {
	v := r.FormValue(key)
	if v == "" {
		return def, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid boolean value for '%s'", key))
		return false, false
	}
	return b, true
}

// extractionError maps orchestration failures onto status codes: bad page
// range input is the caller's fault, anything else is an engine fault.
func (s *Server) extractionError(w http.ResponseWriter, err error) {
	var rangeErr *extraction.InvalidRangeError
	if errors.As(err, &rangeErr) {
		s.writeError(w, http.StatusBadRequest, rangeErr.Error())
		return
	}
	s.logger.Error("extraction failed", zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "Internal extraction error")
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	extractTables, ok := s.boolField(w, r, "extract_tables", true)
	if !ok {
		return
	}
	extractImages, ok := s.boolField(w, r, "extract_images", false)
	if !ok {
		return
	}
	layoutMode, ok := s.boolField(w, r, "layout_mode", true)
	if !ok {
		return
	}
	opts := extraction.Options{
		ExtractTables: extractTables,
		ExtractImages: extractImages,
		LayoutMode:    layoutMode,
		PageRange:     r.FormValue("page_range"),
	}

	s.logger.Info("full extraction",
		zap.String("filename", filename),
		zap.Int("bytes", len(content)),
	)

	result, err := s.service.ExtractFull(content, filename, opts)
	if err != nil {
		s.extractionError(w, err)
		return
	}
	if !result.Success {
		s.writeError(w, http.StatusUnprocessableEntity, result.Error)
		return
	}

	tables := 0
	for _, p := range result.Pages {
		tables += len(p.Tables)
	}
	pagesExtracted.Add(float64(len(result.Pages)))
	tablesExtracted.Add(float64(tables))
	scannedPages.Add(float64(result.ScannedPageCount))

	s.logger.Info("extraction complete",
		zap.String("filename", filename),
		zap.Int("pages", result.TotalPages),
		zap.Int("scanned", result.ScannedPageCount),
		zap.Int("chars", len(result.FullText)),
	)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExtractText(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	layoutMode, ok := s.boolField(w, r, "layout_mode", true)
	if !ok {
		return
	}
	opts := extraction.Options{
		LayoutMode: layoutMode,
		PageRange:  r.FormValue("page_range"),
	}

	s.logger.Info("text extraction",
		zap.String("filename", filename),
		zap.Int("bytes", len(content)),
	)

	result, err := s.service.ExtractText(content, filename, opts)
	if err != nil {
		s.extractionError(w, err)
		return
	}
	if !result.Success {
		s.writeError(w, http.StatusUnprocessableEntity, result.Error)
		return
	}
	scannedPages.Add(float64(result.ScannedPageCount))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExtractTables(w http.ResponseWriter, r *http.Request) {
	content, filename, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	s.logger.Info("table extraction",
		zap.String("filename", filename),
		zap.Int("bytes", len(content)),
	)

	result, err := s.service.ExtractTables(content, filename, extraction.Options{
		PageRange: r.FormValue("page_range"),
	})
	if err != nil {
		s.extractionError(w, err)
		return
	}
	if !result.Success {
		s.writeError(w, http.StatusUnprocessableEntity, result.Error)
		return
	}
	tablesExtracted.Add(float64(len(result.Tables)))
	s.writeJSON(w, http.StatusOK, result)
}
