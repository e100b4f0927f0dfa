package routes

import (
	v1 "boxdiff/api/v1"
	"boxdiff/internal/myhttp"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/dynamic"
)

// ResultPatch builds a status merge patch that replaces every result field, including an empty box list.
func ResultPatch(result v1.DiffResult, now time.Time) ([]byte, error) {
	boxes := result.Boxes
	if boxes == nil {
		boxes = []v1.Box{}
	}

	return json.Marshal(map[string]any{
		"status": map[string]any{
			"baselineUrl":  result.BaselineURL,
			"targetUrl":    result.TargetURL,
			"annotatedUrl": result.AnnotatedURL,
			"imageWidth":   result.ImageWidth,
			"imageHeight":  result.ImageHeight,
			"boxes":        boxes,
			"message":      result.Message,
			"lastDiffTime": metav1.NewTime(now),
		},
	})
}

// UpdateResult receives worker callbacks and writes the diff into the BoxDiff status.
func UpdateResult(dynamicClient dynamic.Interface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := myhttp.Logger(r.Context())

		var result v1.DiffResult
		if err := decode(w, r, &result); err != nil {
			myhttp.WriteError(w, http.StatusBadRequest, "Invalid JSON format")
			return
		}

		patch, err := ResultPatch(result, time.Now())
		if err != nil {
			logger.Error(fmt.Sprintf("failed to marshal patch data: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		u, err := dynamicClient.Resource(resources["boxdiffs"]).Namespace(r.PathValue("namespace")).Patch(
			r.Context(),
			r.PathValue("name"),
			types.MergePatchType,
			patch,
			metav1.PatchOptions{},
			"status",
		)
		if err != nil {
			if apierrors.IsNotFound(err) {
				myhttp.WriteError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
				return
			}
			logger.Error(fmt.Sprintf("failed to patch status: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		myhttp.WriteJSON(w, http.StatusOK, u.Object)
	}
}
