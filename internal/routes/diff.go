package routes

import (
	"boxdiff/internal/diff/box"
	"boxdiff/internal/myhttp"
	"boxdiff/internal/pipeline"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const maxRequestBytes = 1 << 20

type DiffRequest struct {
	ImageURLA        string   `json:"imageUrlA"`
	ImageURLB        string   `json:"imageUrlB"`
	Threshold        *float64 `json:"threshold,omitempty"`
	MinBoxArea       *int     `json:"minBoxArea,omitempty"`
	MinClusterPixels *int     `json:"minClusterPixels,omitempty"`
	Annotate         bool     `json:"annotate,omitempty"`
}

type DiffResponse struct {
	box.Response
	AnnotatedURL string `json:"annotatedUrl,omitempty"`
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(v)
}

func DiffBoundingBox(p *pipeline.Pipeline, boxesPerDiff metric.Int64Histogram) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := myhttp.Logger(r.Context())

		var request DiffRequest
		if err := decode(w, r, &request); err != nil || request.ImageURLA == "" || request.ImageURLB == "" {
			myhttp.WriteError(w, http.StatusBadRequest, "Invalid body. Expected JSON { imageUrlA: string, imageUrlB: string, threshold?, minBoxArea?, minClusterPixels?, annotate? }")
			return
		}

		result, err := p.Run(r.Context(), pipeline.Input{
			Baseline:         pipeline.Source{Ref: request.ImageURLA},
			Target:           pipeline.Source{Ref: request.ImageURLB},
			Threshold:        request.Threshold,
			MinBoxArea:       request.MinBoxArea,
			MinClusterPixels: request.MinClusterPixels,
			Annotate:         request.Annotate,
		})
		if err != nil {
			logger.Error(fmt.Sprintf("failed to compute diff: %s", err))
			myhttp.WriteError(w, http.StatusBadRequest, err.Error())
			boxesPerDiff.Record(r.Context(), 0, metric.WithAttributes(
				attribute.Key("dimension_mismatch").Bool(errors.Is(err, box.ErrDimensionMismatch)),
			))
			return
		}

		boxesPerDiff.Record(r.Context(), int64(len(result.Boxes)), metric.WithAttributes(
			attribute.Key("dimension_mismatch").Bool(false),
		))
		myhttp.WriteJSON(w, http.StatusOK, DiffResponse{
			Response:     result.Response,
			AnnotatedURL: result.AnnotatedURL,
		})
	}
}
