package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sanghoon/clubhub/internal/app/models/dto"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

// bodyCaptureWriter buffers the response body so it can be reshaped after
// the handler chain has run. Headers and status pass through to the
// underlying writer; the actual body is written once, at the end.
type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// ResponseEnvelope reshapes every JSON response into the uniform envelope.
// Payloads that already carry a "success" key pass through unchanged, so
// handlers that build the envelope themselves are not double-wrapped.
// Empty bodies (204, HEAD) and non-JSON bodies are left untouched.
func ResponseEnvelope() gin.HandlerFunc {
	return func(c *gin.Context) {
		capture := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = capture

		c.Next()

		c.Writer = capture.ResponseWriter
		raw := capture.body.Bytes()

		status := c.Writer.Status()
		if status == http.StatusNoContent || len(raw) == 0 {
			return
		}

		contentType := c.Writer.Header().Get("Content-Type")
		if contentType != "" && !strings.HasPrefix(contentType, "application/json") {
			writeRaw(c, raw)
			return
		}

		var payload interface{}
		if err := json.Unmarshal(raw, &payload); err != nil {
			writeRaw(c, raw)
			return
		}

		out, err := json.Marshal(reshapePayload(payload, status))
		if err != nil {
			writeRaw(c, raw)
			return
		}

		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Writer.Header().Set("Content-Length", strconv.Itoa(len(out)))
		if _, err := c.Writer.Write(out); err != nil {
			logger.Error().Err(err).Msg("Failed to write response body")
		}
	}
}

// reshapePayload applies the envelope rules to a decoded response body.
func reshapePayload(payload interface{}, status int) interface{} {
	// Already enveloped payloads pass through unchanged.
	if obj, ok := payload.(map[string]interface{}); ok {
		if _, wrapped := obj["success"]; wrapped {
			return payload
		}
	}

	if status >= http.StatusBadRequest {
		return dto.NewErrorResponse(dto.CodeForStatus(status), dto.NormalizeDetail(payload))
	}
	return dto.NewSuccessResponse(payload, "")
}

func writeRaw(c *gin.Context, raw []byte) {
	if _, err := c.Writer.Write(raw); err != nil {
		logger.Error().Err(err).Msg("Failed to write response body")
	}
}
