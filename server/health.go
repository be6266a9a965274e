// Copyright 2025 Antfly, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"net/http"

	"go.uber.org/zap"
)

// HealthResponse reports service status and build information.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Engine  string `json:"engine"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: s.version,
		Engine:  s.service.Engine().Name(),
	})
}

// handleHealthz is the Kubernetes liveness probe: the process is alive.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("ok")); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// handleReadyz is the readiness probe: the extraction service is wired up.
func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.service != nil && s.service.Engine() != nil {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ready")); err != nil {
			s.logger.Error("failed to write ready response", zap.Error(err))
		}
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	if _, err := w.Write([]byte("not ready")); err != nil {
		s.logger.Error("failed to write not ready response", zap.Error(err))
	}
}
