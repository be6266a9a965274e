package server

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
)

//go:embed openapi.yaml
var openapiSpec []byte

// LoadSpec parses and validates the bundled OpenAPI document.
func LoadSpec() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("parsing openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validating openapi document: %w", err)
	}
	return doc, nil
}

// handleOpenAPI serves the API description as JSON. The document is
// validated and rendered once, on first request.
func (s *Server) handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	s.specOnce.Do(func() {
		doc, err := LoadSpec()
		if err != nil {
			s.specErr = err
			return
		}
		s.specJSON, s.specErr = doc.MarshalJSON()
	})
	if s.specErr != nil {
		s.logger.Error("openapi document unavailable", zap.Error(s.specErr))
		s.writeError(w, http.StatusInternalServerError, "OpenAPI document unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(s.specJSON); err != nil {
		s.logger.Error("writing openapi document", zap.Error(err))
	}
}
