package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assokit/assokit/pkg/requestid"
)

func serve(t *testing.T, header string) (seen string, echoed string) {
	t.Helper()
	h := requestid.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		id, ok := requestid.FromContext(r.Context())
		require.True(t, ok)
		seen = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(requestid.Header, header)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec.Header().Get(requestid.Header)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("keeps client id", func(t *testing.T) {
		t.Parallel()
		seen, echoed := serve(t, "req_2026-abc")
		assert.Equal(t, "req_2026-abc", seen)
		assert.Equal(t, seen, echoed)
	})

	for name, header := range map[string]string{
		"missing":     "",
		"spaces":      "a b",
		"markup":      "<script>",
		"slashes":     "a/b",
		"too long":    strings.Repeat("a", 129),
		"non ascii":   "réunion",
		"header crlf": "id\r\nx",
	} {
		t.Run("replaces "+name, func(t *testing.T) {
			t.Parallel()
			seen, echoed := serve(t, header)
			_, err := uuid.Parse(seen)
			require.NoError(t, err)
			assert.Equal(t, seen, echoed)
		})
	}
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	_, ok := requestid.LoggerExtractor()(context.Background())
	assert.False(t, ok)

	attr, ok := requestid.LoggerExtractor()(requestid.WithContext(context.Background(), "r1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "r1", attr.Value.String())
}
