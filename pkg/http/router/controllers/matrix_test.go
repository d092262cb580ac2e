package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/engine/routing"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	helper "github.com/lintang-b-s/navigatorx-matrix/pkg/http/router/routerhelper"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/http/usecases"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

type fakeMatrixService struct {
	sources      []geo.Coordinate
	destinations []geo.Coordinate
	hints        []string
	checksum     uint64
	err          error
}

func (f *fakeMatrixService) ComputeMatrix(sources, destinations []geo.Coordinate, sourceHints,
	destinationHints []string, checksum uint64) (*usecases.MatrixResult, error) {
	f.sources, f.destinations, f.hints, f.checksum = sources, destinations, sourceHints, checksum
	if f.err != nil {
		return nil, f.err
	}

	m := routing.NewMatrix(len(sources), len(destinations))
	for i := range sources {
		for j := range destinations {
			switch {
			case i == j:
				m.Set(i, j, routing.DistanceCell(0))
			case j == 2:
				m.Set(i, j, routing.DestInvalidCell())
			case i == 2:
				m.Set(i, j, routing.OriginInvalidCell())
			case i > j:
				m.Set(i, j, routing.NoPathCell())
			default:
				m.Set(i, j, routing.DistanceCell(151))
			}
		}
	}
	m.Seal()

	hints := make([]string, len(sources))
	for i := range hints {
		hints[i] = "h"
	}
	return &usecases.MatrixResult{Matrix: m, SourceHints: hints, DestinationHints: hints[:len(destinations)],
		Checksum: 99}, nil
}

func newTestRouter(svc MatrixService) *httprouter.Router {
	router := httprouter.New()
	New(svc, zap.NewNop()).Routes(helper.NewRouteGroup(router, "/api"))
	return router
}

type matrixEnvelope struct {
	Data matrixResponse `json:"data"`
}

func TestComputeMatrixGet(t *testing.T) {
	svc := &fakeMatrixService{}
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/api/computeMatrix?loc=-7.76,110.37&loc=-7.77,110.38&loc=-7.78,110.39&hint=a&hint=b&checksum=99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body matrixEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 0.3, body.Data.Version)
	assert.Equal(t, "Found matrix", body.Data.StatusMessage)
	assert.Equal(t, [][]int64{
		{0, 16, -2},
		{noPathSeconds, 0, -2},
		{-1, -1, 0},
	}, body.Data.TimeMatrix)
	assert.Len(t, body.Data.Hints, 3)
	assert.Equal(t, uint64(99), body.Data.Checksum)

	assert.Equal(t, svc.sources, svc.destinations)
	assert.Equal(t, geo.NewCoordinate(-7.77, 110.38), svc.sources[1])
	assert.Equal(t, []string{"a", "b"}, svc.hints)
	assert.Equal(t, uint64(99), svc.checksum)
}

func TestComputeMatrixGetPolyline(t *testing.T) {
	svc := &fakeMatrixService{}
	router := newTestRouter(svc)

	encoded := polyline.EncodeCoords([][]float64{{-7.76, 110.37}, {-7.77, 110.38}})
	req := httptest.NewRequest(http.MethodGet, "/api/computeMatrix?polyline="+url.QueryEscape(string(encoded)), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.sources, 2)
	assert.InDelta(t, -7.77, svc.sources[1].Lat, 1e-5)
	assert.InDelta(t, 110.38, svc.sources[1].Lon, 1e-5)
}

func TestComputeMatrixGetJSONP(t *testing.T) {
	router := newTestRouter(&fakeMatrixService{})

	req := httptest.NewRequest(http.MethodGet, "/api/computeMatrix?loc=-7.76,110.37&loc=-7.77,110.38&jsonp=cb", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/javascript", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), `cb({"data":`))
	assert.True(t, strings.HasSuffix(rec.Body.String(), ")\n"))
}

func TestComputeMatrixGetBadRequests(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{"single location", "loc=-7.76,110.37"},
		{"no locations", ""},
		{"malformed location", "loc=-7.76&loc=-7.77,110.38"},
		{"latitude out of range", "loc=-97.76,110.37&loc=-7.77,110.38"},
		{"invalid checksum", "loc=-7.76,110.37&loc=-7.77,110.38&checksum=abc"},
		{"invalid jsonp callback", "loc=-7.76,110.37&loc=-7.77,110.38&jsonp=alert(1)"},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeMatrixService{})
			req := httptest.NewRequest(http.MethodGet, "/api/computeMatrix?"+tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestComputeMatrixPost(t *testing.T) {
	svc := &fakeMatrixService{}
	router := newTestRouter(svc)

	body := `{"sources":[{"lat":-7.76,"lon":110.37},{"lat":-7.77,"lon":110.38}],
		"destinations":[{"lat":-7.76,"lon":110.37}],"checksum":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/computeMatrix", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp matrixEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, [][]int64{{0}, {noPathSeconds}}, resp.Data.TimeMatrix)
	assert.Len(t, resp.Data.SourceHints, 2)
	assert.Len(t, resp.Data.DestinationHints, 1)
	assert.Len(t, svc.destinations, 1)
	assert.Equal(t, uint64(5), svc.checksum)
}

func TestComputeMatrixServiceErrors(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
	}{
		{"too large", util.WrapErrorf(nil, util.ErrResourceExhausted, "too large"), http.StatusRequestEntityTooLarge},
		{"bad input", util.WrapErrorf(nil, util.ErrBadParamInput, "bad"), http.StatusBadRequest},
		{"internal", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&fakeMatrixService{err: tt.err})
			req := httptest.NewRequest(http.MethodGet, "/api/computeMatrix?loc=-7.76,110.37&loc=-7.77,110.38", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCellSeconds(t *testing.T) {
	assert.Equal(t, int64(0), cellSeconds(routing.DistanceCell(0)))
	assert.Equal(t, int64(1), cellSeconds(routing.DistanceCell(1)))
	assert.Equal(t, int64(16), cellSeconds(routing.DistanceCell(150)))
	assert.Equal(t, int64(-1), cellSeconds(routing.OriginInvalidCell()))
	assert.Equal(t, int64(-2), cellSeconds(routing.DestInvalidCell()))
	assert.Equal(t, int64(214748365), cellSeconds(routing.NoPathCell()))
}
