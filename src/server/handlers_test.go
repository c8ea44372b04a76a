package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigmaforge/SixSigmaCharter/src/config"
	"github.com/sigmaforge/SixSigmaCharter/src/sigmachart"
	"github.com/sigmaforge/SixSigmaCharter/src/sixsigma"
)

// testRouter uses small chart options to keep renders fast.
func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return NewRouter(config.Config{
		ListenAddr: ":0",
		LogLevel:   "warn",
		MaxBatch:   5,
		Single:     sigmachart.Options{RowWidth: 640, RowHeight: 240, SamplesPerUnit: 20},
		Multi:      sigmachart.Options{RowWidth: 480, RowHeight: 200, SamplesPerUnit: 10},
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, target string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestRootRedirects(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/healthz", w.Header().Get("Location"))
}

func TestChartSingleProcess(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/chart?tests=50&fails=25&name=press", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=chart.png", w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	assert.Equal(t, "50", w.Header().Get("Process-Tests"))
	assert.Equal(t, "25", w.Header().Get("Process-Fails"))
	assert.Equal(t, "press", w.Header().Get("Process-Name"))
	assert.Equal(t, "0.5", w.Header().Get("Process-Defect-Rate"))
	assert.Equal(t, "1.5", w.Header().Get("Process-Sigma"))
	assert.Equal(t, "RED", w.Header().Get("Process-Label"))

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
}

func TestChartZeroDefects(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/chart?tests=100&fails=0", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "inf", w.Header().Get("Process-Sigma"))
	assert.Equal(t, "GREEN", w.Header().Get("Process-Label"))
	assert.Empty(t, w.Header().Get("Process-Name"))
}

func TestChartFailsAboveTests(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodGet, "/chart?tests=50&fails=51", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "fails", body["field"])
	assert.Equal(t, "must not exceed tests", body["constraint"])
}

func TestChartMissingAndOutOfRangeParams(t *testing.T) {
	cases := []struct {
		name   string
		target string
		field  string
	}{
		{"missing fails", "/chart?tests=50", "fails"},
		{"missing tests", "/chart?fails=1", "tests"},
		{"zero tests", "/chart?tests=0&fails=0", "tests"},
		{"negative fails", "/chart?tests=10&fails=-1", "fails"},
	}
	router := testRouter(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodGet, tc.target, nil)
			require.Equal(t, http.StatusUnprocessableEntity, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.field, body["field"])
		})
	}
}

func TestChartsBatchTruncation(t *testing.T) {
	specs := make([]map[string]any, 0, 7)
	for i := 0; i < 7; i++ {
		specs = append(specs, map[string]any{"tests": 100, "fails": i})
	}
	body, err := json.Marshal(specs)
	require.NoError(t, err)

	w := doRequest(t, testRouter(t), http.MethodPost, "/charts", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "inline; filename=plot.png", w.Header().Get("Content-Disposition"))

	var records []sixsigma.Record
	require.NoError(t, json.Unmarshal([]byte(w.Header().Get("Process-List")), &records))
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, i, rec.Fails, "input order must be preserved")
	}

	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 200*5, img.Bounds().Dy())
}

func TestChartsEmptyBatch(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodPost, "/charts", []byte(`[]`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestChartsMalformedBody(t *testing.T) {
	w := doRequest(t, testRouter(t), http.MethodPost, "/charts", []byte(`{"tests": 1`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChartsInvalidElementFailsWholeBatch(t *testing.T) {
	body := []byte(`[{"tests":10,"fails":1},{"tests":10,"fails":11}]`)
	w := doRequest(t, testRouter(t), http.MethodPost, "/charts", body)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fails", resp["field"])
	assert.Contains(t, resp["error"], "process 1")
}

func TestChartsInfiniteSigmaSentinels(t *testing.T) {
	body := []byte(`[{"tests":10,"fails":0},{"tests":10,"fails":10}]`)
	w := doRequest(t, testRouter(t), http.MethodPost, "/charts", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	list := w.Header().Get("Process-List")
	assert.Contains(t, list, `"sigma":"inf"`)
	assert.Contains(t, list, `"sigma":"-inf"`)
	assert.Contains(t, list, `"label":"GREEN"`)
	assert.Contains(t, list, `"label":"RED"`)
}

func TestChartNameTooLong(t *testing.T) {
	target := "/chart?tests=10&fails=1&name=" + strings.Repeat("x", maxNameLen+1)
	w := doRequest(t, testRouter(t), http.MethodGet, target, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "name", body["field"])
	assert.Equal(t, "max", body["constraint"])
}

func TestChartsNameTooLong(t *testing.T) {
	body, err := json.Marshal([]map[string]any{{"tests": 10, "fails": 1, "name": strings.Repeat("x", maxNameLen+1)}})
	require.NoError(t, err)
	w := doRequest(t, testRouter(t), http.MethodPost, "/charts", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMetricsExposed(t *testing.T) {
	router := testRouter(t)
	// one render so the counter vec has at least one child
	w := doRequest(t, router, http.MethodGet, "/chart?tests=10&fails=1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, router, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sigmacharter_charts_renders_total")
	assert.Contains(t, w.Body.String(), "sigmacharter_charts_render_seconds")
}
