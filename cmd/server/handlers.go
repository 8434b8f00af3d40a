package main

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	textcharset "github.com/baditaflorin/go_text_charset"
)

// ScanResponse is the body returned by /scan.
type ScanResponse struct {
	ValidUTF8    bool     `json:"valid_utf8"`
	ASCIIOnly    bool     `json:"ascii_only"`
	BytesScanned int      `json:"bytes_scanned"`
	Diagnostics  []string `json:"diagnostics,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

type server struct {
	detector *textcharset.Detector
	logger   l.Logger
}

func newServer(d *textcharset.Detector, logger l.Logger) *server {
	return &server{detector: d, logger: logger}
}

// handle is the main fasthttp request handler
func (s *server) handle(ctx *fasthttp.RequestCtx) {
	startTime := time.Now()

	// Set common headers
	ctx.Response.Header.Set("Content-Type", "application/json")
	ctx.Response.Header.Set("Server", "CharsetServer")

	// Route based on path
	switch string(ctx.Path()) {
	case "/health":
		s.handleHealthCheck(ctx)
	case "/detect":
		s.handleDetect(ctx)
	case "/scan":
		s.handleScan(ctx)
	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		s.writeJSONError(ctx, "Not found")
	}

	s.logger.Info("Request processed",
		"method", string(ctx.Method()),
		"path", string(ctx.Path()),
		"status", ctx.Response.StatusCode(),
		"ip", ctx.RemoteIP().String(),
		"bytes", len(ctx.PostBody()),
		"duration", time.Since(startTime),
	)
}

// handleHealthCheck responds to health check requests
func (s *server) handleHealthCheck(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleDetect runs the full detection on the raw request body.
// ?diagnostics=false drops the diagnostic log from the response.
func (s *server) handleDetect(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return
	}

	report := s.detector.Detect(bytes.NewReader(ctx.PostBody()))
	if !wantDiagnostics(ctx) {
		report.Diagnostics = nil
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, report)
}

// handleScan validates the raw request body as UTF-8 without looking for byte-order marks.
func (s *server) handleScan(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
		s.writeJSONError(ctx, "Method not allowed")
		return
	}

	verdict := s.detector.ScanBytes(ctx.PostBody())
	response := ScanResponse{
		ValidUTF8:    verdict.ValidUTF8,
		ASCIIOnly:    verdict.ASCIIOnly,
		BytesScanned: verdict.BytesScanned,
	}
	if wantDiagnostics(ctx) {
		response.Diagnostics = verdict.Diagnostics
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	s.writeJSONResponse(ctx, response)
}

func wantDiagnostics(ctx *fasthttp.RequestCtx) bool {
	return string(ctx.QueryArgs().Peek("diagnostics")) != "false"
}

// writeJSONResponse writes a JSON response to the context
func (s *server) writeJSONResponse(ctx *fasthttp.RequestCtx, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON response", "error", err)
		s.writeJSONError(ctx, "Internal server error")
		return
	}

	ctx.SetBody(response)
}

// writeJSONError writes a JSON error response to the context
func (s *server) writeJSONError(ctx *fasthttp.RequestCtx, message string) {
	response, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		s.logger.Error("Error marshaling JSON error response", "error", err)
		ctx.SetBodyString(`{"error":"Internal server error"}`)
		return
	}

	ctx.SetBody(response)
}
