package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docexd/internal/extract"
	"docexd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Extract(ctx context.Context, req extract.Request) (*types.ExtractionResponse, error)
	SaveMarkdown(content, originalFilename string) (string, error)
	Batch(ctx context.Context, reqs []extract.Request) types.BatchExtractionResponse
	Warmup(ctx context.Context, vlmMode, vlmModelID string) error
	Status() types.StatusResponse
	Ready() bool
}

// NewMux builds the full router: extraction endpoints under /api/v1 plus
// health, readiness, status and metrics.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/extract", handleExtract(svc))
		r.Post("/extract-and-save", handleExtractAndSave(svc))
		r.Post("/extract-json", handleExtractJSON(svc))
		r.Post("/extract-html", handleExtractHTML(svc))
		r.Post("/extract-text", handleExtractText(svc))
		r.Post("/batch-extract", handleBatchExtract(svc))
		r.Post("/warmup", handleWarmup(svc))
	})

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.Status()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("loading"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)

	return r
}

// parseExtractForm reads the multipart upload and shared pipeline form
// fields shared by the single-file extraction endpoints.
func parseExtractForm(w http.ResponseWriter, r *http.Request) (extract.Request, bool) {
	var req extract.Request
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return req, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no file provided")
		return req, false
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "failed to read upload")
		return req, false
	}
	req = extract.Request{Content: content, Filename: header.Filename}
	if !fillPipelineFields(w, r, &req) {
		return req, false
	}
	return req, true
}

// fillPipelineFields parses the optional pipeline toggles. Booleans default
// to true like the upstream API contract.
func fillPipelineFields(w http.ResponseWriter, r *http.Request, req *extract.Request) bool {
	var ok bool
	if req.OCREnabled, ok = formBool(w, r, "ocr_enabled", true); !ok {
		return false
	}
	if req.TableExtraction, ok = formBool(w, r, "table_extraction_enabled", true); !ok {
		return false
	}
	req.VLMMode = strings.TrimSpace(r.FormValue("vlm_mode"))
	req.VLMModelID = strings.TrimSpace(r.FormValue("vlm_model_id"))
	return true
}

func formBool(w http.ResponseWriter, r *http.Request, field string, def bool) (bool, bool) {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return def, true
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, field+" must be a boolean")
		return false, false
	}
	return b, true
}

// runExtract executes one extraction with joined server/request contexts and
// the optional handler timeout.
func runExtract(w http.ResponseWriter, r *http.Request, svc Service, op string) (*types.ExtractionResponse, extract.Request, bool) {
	req, ok := parseExtractForm(w, r)
	if !ok {
		return nil, req, false
	}
	start := time.Now()
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	if extractTimeout > 0 {
		var tcancel context.CancelFunc
		ctx, tcancel = context.WithTimeout(ctx, time.Duration(extractTimeout)*time.Second)
		defer tcancel()
	}
	res, err := svc.Extract(ctx, req)
	if err != nil {
		if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
			return nil, req, false
		}
		status := writeExtractionError(w, err)
		logExtraction(r, op, req.Filename, status, start, err)
		return nil, req, false
	}
	countExtractedPages(op, res.Metadata.PageCount)
	logExtraction(r, op, req.Filename, http.StatusOK, start, nil)
	return res, req, true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
	}
}

// handleExtract godoc
// @Summary  Extract a document to structured markdown
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "Document to extract"
// @Success  200 {object} types.ExtractionResponse
// @Failure  400 {object} types.ErrorResponse
// @Failure  422 {object} types.ErrorResponse
// @Router   /api/v1/extract [post]
func handleExtract(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _, ok := runExtract(w, r, svc, "extract")
		if !ok {
			return
		}
		writeJSON(w, res)
	}
}

// handleExtractAndSave godoc
// @Summary  Extract a document and persist the markdown to storage
// @Accept   multipart/form-data
// @Produce  json
// @Success  200 {object} types.SaveResponse
// @Router   /api/v1/extract-and-save [post]
func handleExtractAndSave(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, req, ok := runExtract(w, r, svc, "extract-and-save")
		if !ok {
			return
		}
		path, err := svc.SaveMarkdown(res.Markdown, req.Filename)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, types.SaveResponse{
			Message:    "Extraction successful and file saved.",
			SavedPath:  path,
			Extraction: *res,
		})
	}
}

// handleExtractJSON godoc
// @Summary  Extract a document and return a content/metadata envelope
// @Accept   multipart/form-data
// @Produce  json
// @Success  200 {object} types.JSONExtractionResponse
// @Router   /api/v1/extract-json [post]
func handleExtractJSON(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _, ok := runExtract(w, r, svc, "extract-json")
		if !ok {
			return
		}
		writeJSON(w, types.JSONExtractionResponse{
			Content:  types.JSONContent{Markdown: res.Markdown, Tables: res.Tables},
			Metadata: res.Metadata,
		})
	}
}

// handleExtractHTML godoc
// @Summary  Extract a document and render it as a standalone HTML page
// @Accept   multipart/form-data
// @Produce  html
// @Router   /api/v1/extract-html [post]
func handleExtractHTML(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, req, ok := runExtract(w, r, svc, "extract-html")
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(extract.ToHTML(res.Markdown, req.Filename)))
	}
}

// handleExtractText godoc
// @Summary  Extract a document as plain text
// @Accept   multipart/form-data
// @Produce  plain
// @Router   /api/v1/extract-text [post]
func handleExtractText(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, _, ok := runExtract(w, r, svc, "extract-text")
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(extract.ToPlainText(res.Markdown)))
	}
}

// handleBatchExtract godoc
// @Summary  Extract several documents with per-file failure isolation
// @Accept   multipart/form-data
// @Produce  json
// @Success  200 {object} types.BatchExtractionResponse
// @Router   /api/v1/batch-extract [post]
func handleBatchExtract(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		var headers []*multipart.FileHeader
		if r.MultipartForm != nil {
			headers = r.MultipartForm.File["files"]
		}
		if len(headers) == 0 {
			writeJSONError(w, http.StatusBadRequest, "no files provided")
			return
		}
		var shared extract.Request
		if !fillPipelineFields(w, r, &shared) {
			return
		}
		reqs := make([]extract.Request, 0, len(headers))
		for _, h := range headers {
			req := shared
			req.Filename = h.Filename
			content, err := readFileHeader(h)
			if err != nil {
				// Leave content empty; the coordinator records the
				// failure for this file and continues.
				req.Content = nil
			} else {
				req.Content = content
			}
			reqs = append(reqs, req)
		}

		start := time.Now()
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp := svc.Batch(ctx, reqs)
		logExtraction(r, "batch-extract", "", http.StatusOK, start, nil)
		writeJSON(w, resp)
	}
}

func readFileHeader(h *multipart.FileHeader) ([]byte, error) {
	f, err := h.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// handleWarmup godoc
// @Summary  Preload the conversion engine and optional local model
// @Produce  json
// @Success  200 {object} types.WarmupResponse
// @Router   /api/v1/warmup [post]
func handleWarmup(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vlmMode := strings.TrimSpace(r.FormValue("vlm_mode"))
		vlmModelID := strings.TrimSpace(r.FormValue("vlm_model_id"))

		start := time.Now()
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.Warmup(ctx, vlmMode, vlmModelID); err != nil {
			status := writeExtractionError(w, err)
			logExtraction(r, "warmup", "", status, start, err)
			return
		}
		logExtraction(r, "warmup", "", http.StatusOK, start, nil)
		writeJSON(w, types.WarmupResponse{Message: "Warmup completed successfully"})
	}
}
