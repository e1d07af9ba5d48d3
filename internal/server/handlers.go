package server

import (
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/huangsam/xmr/core"
	"github.com/huangsam/xmr/schema"
)

// ProcessRequest is the body of POST /api/process.
type ProcessRequest struct {
	CSVData  string `json:"csvData" validate:"required"`
	Filename string `json:"filename" validate:"omitempty,max=255"`
	Layout   string `json:"layout" validate:"omitempty,oneof=auto long wide"`
}

// DemoRequest is the optional body of POST /api/demo.
type DemoRequest struct {
	Seed *int64 `json:"seed" validate:"omitempty,gte=0"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "ok"})
}

// handleProcess handles POST /api/process
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if apiErr := s.decode(r, &req, true); apiErr != nil {
		renderError(w, r, apiErr)
		return
	}

	ctx := core.WithSuppressHeader(r.Context())
	result, err := core.ProcessCSV(ctx, s.cfg, s.mgr, req.CSVData, req.Filename, schema.InputLayout(req.Layout))
	if err != nil {
		renderError(w, r, InvalidCSV(err))
		return
	}
	s.respond(w, r, result)
}

// handleDemo handles POST /api/demo
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	var req DemoRequest
	if apiErr := s.decode(r, &req, false); apiErr != nil {
		renderError(w, r, apiErr)
		return
	}

	seed := s.cfg.Seed
	if req.Seed != nil {
		seed = uint64(*req.Seed)
	}
	result := core.ProcessDemo(core.WithSuppressHeader(r.Context()), s.cfg, s.mgr, seed)
	s.respond(w, r, result)
}

// handleLoadActual handles POST /api/load-actual
func (s *Server) handleLoadActual(w http.ResponseWriter, r *http.Request) {
	result, err := core.ProcessDir(core.WithSuppressHeader(r.Context()), s.cfg, s.mgr, s.cfg.InputDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			renderError(w, r, NewAPIErrorWithDetails(http.StatusNotFound, "INPUT_DIR_NOT_FOUND", "Input directory not found", s.cfg.InputDir))
			return
		}
		s.logger.Error("failed to load input directory", zap.String("dir", s.cfg.InputDir), zap.Error(err))
		renderError(w, r, Unprocessable(err.Error(), s.cfg.InputDir))
		return
	}
	s.respond(w, r, result)
}

// respond records the result metrics and writes it, or a 422 when no chart
// could be built.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, result schema.ProcessingResult) {
	s.metrics.ObserveResult(result)
	if !result.Success {
		details := any(result.Failures)
		if len(result.Failures) == 0 && len(result.Warnings) > 0 {
			details = result.Warnings
		}
		renderError(w, r, Unprocessable(result.Error, details))
		return
	}
	render.JSON(w, r, result)
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted when required is false.
func (s *Server) decode(r *http.Request, dst any, required bool) *APIError {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		if !(errors.Is(err, io.EOF) && !required) {
			return InvalidRequest(err)
		}
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return InvalidRequest(err)
		}
		fields := make([]ValidationError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, ValidationError{Field: fe.Field(), Message: validationMessage(fe)})
		}
		return ValidationFailed(fields)
	}
	return nil
}

// validationMessage renders a field error in plain words.
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " failed " + fe.Tag() + " validation"
	}
}
