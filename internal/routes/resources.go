package routes

import (
	v1 "boxdiff/api/v1"
	"boxdiff/internal/myhttp"
	"fmt"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
)

var resources = map[string]schema.GroupVersionResource{
	"boxdiffs":          v1.GroupVersion.WithResource("boxdiffs"),
	"scheduledboxdiffs": v1.GroupVersion.WithResource("scheduledboxdiffs"),
}

func resourceFor(w http.ResponseWriter, r *http.Request) (schema.GroupVersionResource, bool) {
	gvr, ok := resources[r.PathValue("kind")]
	if !ok {
		myhttp.WriteError(w, http.StatusNotFound, fmt.Sprintf("unsupported resource kind: %s", r.PathValue("kind")))
	}
	return gvr, ok
}

func GetResource(dynamicClient dynamic.Interface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gvr, ok := resourceFor(w, r)
		if !ok {
			return
		}

		u, err := dynamicClient.Resource(gvr).Namespace(r.PathValue("namespace")).Get(r.Context(), r.PathValue("name"), metav1.GetOptions{})
		if err != nil {
			if apierrors.IsNotFound(err) {
				myhttp.WriteError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
				return
			}
			myhttp.Logger(r.Context()).Error(fmt.Sprintf("failed to get resource: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		myhttp.WriteJSON(w, http.StatusOK, u.Object)
	}
}

func ListResources(dynamicClient dynamic.Interface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gvr, ok := resourceFor(w, r)
		if !ok {
			return
		}

		list, err := dynamicClient.Resource(gvr).Namespace(r.PathValue("namespace")).List(r.Context(), metav1.ListOptions{})
		if err != nil {
			myhttp.Logger(r.Context()).Error(fmt.Sprintf("failed to list resources: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		items := make([]map[string]any, 0, len(list.Items))
		for _, item := range list.Items {
			items = append(items, item.Object)
		}
		myhttp.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}
