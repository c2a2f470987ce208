package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_ProxiesToBankroll(t *testing.T) {
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	proxy, err := Proxy(upstream.URL)
	require.NoError(t, err)
	gw := httptest.NewServer(Router(proxy, []string{"*"}))
	defer gw.Close()

	resp, err := http.Get(gw.URL + "/api/bankroll/v1/dashboard?userId=u1")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/v1/dashboard?userId=u1", gotPath)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := Router(http.NotFoundHandler(), []string{"http://localhost:5173"})

	req := httptest.NewRequest(http.MethodOptions, "/api/bankroll/v1/picks", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/bankroll/v1/picks", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
