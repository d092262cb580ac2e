package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/navigatorx-matrix/pkg/geo"
	helper "github.com/lintang-b-s/navigatorx-matrix/pkg/http/router/routerhelper"
	"github.com/twpayne/go-polyline"
	"go.uber.org/zap"
)

type matrixAPI struct {
	matrixService MatrixService
	validate      *validator.Validate
	trans         ut.Translator
	log           *zap.Logger
}

func New(matrixService MatrixService, log *zap.Logger) *matrixAPI {
	validate, trans := newValidator()
	return &matrixAPI{
		matrixService: matrixService,
		validate:      validate,
		trans:         trans,
		log:           log,
	}
}

func (api *matrixAPI) Routes(group *helper.RouteGroup) {
	group.GET("/computeMatrix", api.computeMatrix)
	group.POST("/computeMatrix", api.computeRectangularMatrix)
}

// parseLocation. "lat,lon"
func parseLocation(s string) (geo.Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return geo.Coordinate{}, fmt.Errorf("loc %q must be lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("loc %q has an invalid latitude", s)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("loc %q has an invalid longitude", s)
	}
	return geo.NewCoordinate(lat, lon), nil
}

func parseQueryRequest(query map[string][]string) (matrixQueryRequest, error) {
	var request matrixQueryRequest
	for _, loc := range query["loc"] {
		c, err := parseLocation(loc)
		if err != nil {
			return request, err
		}
		request.Locations = append(request.Locations, c)
	}

	for _, encoded := range query["polyline"] {
		coords, _, err := polyline.DecodeCoords([]byte(encoded))
		if err != nil {
			return request, fmt.Errorf("invalid polyline: %w", err)
		}
		for _, c := range coords {
			request.Locations = append(request.Locations, geo.NewCoordinate(c[0], c[1]))
		}
	}

	request.Hints = query["hint"]
	if cs := first(query["checksum"]); cs != "" {
		checksum, err := strconv.ParseUint(cs, 10, 64)
		if err != nil {
			return request, errors.New("checksum must be an unsigned integer")
		}
		request.Checksum = checksum
	}
	request.Jsonp = first(query["jsonp"])
	return request, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// computeMatrix. square matrix over the loc/polyline points, each point is both origin and destination.
func (api *matrixAPI) computeMatrix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	request, err := parseQueryRequest(r.URL.Query())
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := api.validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	result, err := api.matrixService.ComputeMatrix(request.Locations, request.Locations, request.Hints,
		request.Hints, request.Checksum)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := newMatrixResponse(result.Matrix, result.Checksum)
	resp.Hints = result.SourceHints

	if request.Jsonp != "" {
		if err := api.writeJSONP(w, http.StatusOK, request.Jsonp, envelope{"data": resp}); err != nil {
			api.ServerErrorResponse(w, r, err)
		}
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

func (api *matrixAPI) computeRectangularMatrix(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request matrixRequest

	err := json.NewDecoder(r.Body).Decode(&request)
	if err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := r.Body.Close(); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
	if err := api.validateStruct(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	result, err := api.matrixService.ComputeMatrix(request.Sources, request.Destinations, request.SourceHints,
		request.DestinationHints, request.Checksum)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	resp := newMatrixResponse(result.Matrix, result.Checksum)
	resp.SourceHints = result.SourceHints
	resp.DestinationHints = result.DestinationHints

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": resp}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}
