package routes

import (
	"boxdiff/internal/compose"
	"boxdiff/internal/imageio"
	"boxdiff/internal/myhttp"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/storage"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

type MergeHalvesRequest struct {
	TopImageURL    string `json:"topImageUrl"`
	BottomImageURL string `json:"bottomImageUrl"`
}

type MergeHalvesResponse struct {
	URL string `json:"url"`
}

func MergeHalves(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := myhttp.Logger(r.Context())

		var request MergeHalvesRequest
		if err := decode(w, r, &request); err != nil || request.TopImageURL == "" || request.BottomImageURL == "" {
			myhttp.WriteError(w, http.StatusBadRequest, "Invalid body. Expected JSON { topImageUrl: string, bottomImageUrl: string }")
			return
		}

		top, bottom, err := p.Loader.LoadPair(r.Context(), request.TopImageURL, request.BottomImageURL)
		if err != nil {
			myhttp.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		merged, err := compose.MergeHalves(top, bottom)
		if err != nil {
			myhttp.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}

		data, err := imageio.EncodePNG(merged)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to encode merged image: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		url, err := p.Storage.Put(r.Context(), fmt.Sprintf("merged/%s.png", uuid.NewString()), data, storage.WithContentType("image/png"))
		if err != nil {
			logger.Error(fmt.Sprintf("failed to store merged image: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		myhttp.WriteJSON(w, http.StatusOK, MergeHalvesResponse{URL: url})
	}
}
