package httpapi

import (
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/shopplan/internal/logger"
)

type recordingLogger struct {
	logger.NopLogger
	errors []string
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	l := &recordingLogger{}
	h := &Handler{Logger: l}

	rec := httptest.NewRecorder()
	h.writeJSON(rec, http.StatusOK, Envelope{Success: true, Data: math.Inf(1)})

	require.Len(t, l.errors, 1)
	assert.Contains(t, l.errors[0], "encode response")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteJSON_NilLoggerDoesNotPanic(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()

	assert.NotPanics(t, func() {
		h.writeJSON(rec, http.StatusOK, Envelope{Data: math.NaN()})
	})
}
