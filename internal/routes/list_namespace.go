package routes

import (
	"boxdiff/internal/myhttp"
	"fmt"
	"net/http"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

type NamespacesResponse struct {
	Namespaces []string `json:"namespaces"`
}

func ListNamespaces(clientset kubernetes.Interface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		namespaces, err := clientset.CoreV1().Namespaces().List(r.Context(), metav1.ListOptions{})
		if err != nil {
			myhttp.Logger(r.Context()).Error(fmt.Sprintf("failed to list namespaces: %s", err))
			myhttp.WriteError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
			return
		}

		response := NamespacesResponse{Namespaces: make([]string, 0, len(namespaces.Items))}
		for _, namespace := range namespaces.Items {
			response.Namespaces = append(response.Namespaces, namespace.Name)
		}
		myhttp.WriteJSON(w, http.StatusOK, response)
	}
}
