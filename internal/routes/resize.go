package routes

import (
	"boxdiff/internal/myhttp"
	"boxdiff/internal/resize"
	"net/http"
)

func Resize(s *resize.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var request resize.Request
		if err := decode(w, r, &request); err != nil || len(request.ImageURLs) == 0 {
			myhttp.WriteError(w, http.StatusBadRequest, "Invalid body. Expected JSON { imageUrls: string[], maxWidth?, maxHeight?, force? }.")
			return
		}

		response := s.Resize(r.Context(), &request)
		if len(response.Items) == 0 {
			myhttp.WriteJSON(w, http.StatusBadRequest, response)
			return
		}
		myhttp.WriteJSON(w, http.StatusOK, response)
	}
}
