package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
	"github.com/KaramelBytes/dsvalidate-cli/internal/loader"
	"github.com/KaramelBytes/dsvalidate-cli/internal/validation"
)

// ValidateResponse is the success body of POST /validate.
type ValidateResponse struct {
	Status    string                  `json:"status"`
	Filename  string                  `json:"filename"`
	RequestID string                  `json:"request_id"`
	Report    *validation.FinalReport `json:"validation_report"`
}

type errorResponse struct {
	Detail    string `json:"detail"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Dataset Validation Agent API",
		"status":  "active",
	})
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	fs := loader.SupportedFormats()
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.String()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"supported_formats": out})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFrom(r.Context())
	log := s.log.WithRequest(reqID)
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) || strings.Contains(err.Error(), "request body too large") {
			s.fail(w, r, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes))
			return
		}
		s.fail(w, r, http.StatusBadRequest, "expected multipart form: "+err.Error())
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, "read upload: "+err.Error())
		return
	}

	column := r.FormValue("target_column")
	if strings.TrimSpace(column) == "" {
		s.fail(w, r, http.StatusBadRequest, "target_column is required")
		return
	}
	kind, err := dataset.ParseTargetKind(r.FormValue("target_type"))
	if err != nil {
		s.fail(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := loader.Load(header.Filename, data, s.opts.Load)
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	log.Infow("validating upload", "filename", header.Filename, "rows", ds.Rows(), "columns", ds.NumColumns())

	report, err := s.validator.Run(r.Context(), ds, dataset.TargetSpec{Column: column, Kind: kind})
	if err != nil {
		s.failErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Status:    "success",
		Filename:  header.Filename,
		RequestID: reqID,
		Report:    report,
	})
}

// failErr maps pipeline and loader errors onto status codes.
func (s *Server) failErr(w http.ResponseWriter, r *http.Request, err error) {
	var (
		inputErr *dataset.InputError
		narrErr  *validation.NarrativeError
	)
	switch {
	case errors.As(err, &inputErr):
		s.fail(w, r, http.StatusBadRequest, inputErr.Error())
	case errors.As(err, &narrErr):
		s.fail(w, r, http.StatusBadGateway, narrErr.Error())
	default:
		s.log.WithRequest(RequestIDFrom(r.Context())).Errorw("validation failed", "error", err)
		s.fail(w, r, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{Detail: msg, RequestID: RequestIDFrom(r.Context())})
}

// writeJSON encodes v before committing the status so an encoding failure
// still reaches the client as a 500 body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		b, _ = json.Marshal(errorResponse{Detail: fmt.Sprintf("encode response: %v", err)})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(b, '\n'))
}
