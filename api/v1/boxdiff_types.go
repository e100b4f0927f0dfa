package v1

import (
	metaV1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// BoxDiffSpec defines the desired state of BoxDiff
type BoxDiffSpec struct {
	// Baseline is the image (or page when Capture is set) compared against
	Baseline string `json:"baseline"`
	// Target is the image (or page when Capture is set) that is checked for differences
	Target string `json:"target"`
	// Capture renders Baseline and Target as web pages instead of fetching them as images
	// +optional
	Capture bool `json:"capture,omitempty"`
	// MaskSelectors are CSS selectors hidden before capture
	// +optional
	MaskSelectors []string `json:"maskSelectors,omitempty"`
	// Headers are sent with every capture request
	// +optional
	Headers map[string]string `json:"headers,omitempty"`
	// +optional
	Parameters DiffParameters `json:"parameters,omitempty"`
}

// BoxDiffStatus defines the observed state of BoxDiff
type BoxDiffStatus struct {
	DiffResult `json:",inline"`
	// ObservedGeneration is the generation the current result was computed for
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`
	// LastDiffTime is the time when the last diff finished
	LastDiffTime *metaV1.Time `json:"lastDiffTime,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:printcolumn:name="Last Diff",type=date,JSONPath=`.status.lastDiffTime`

// BoxDiff is the schema for the boxdiffs API
type BoxDiff struct {
	metaV1.TypeMeta   `json:",inline"`
	metaV1.ObjectMeta `json:"metadata,omitempty"`

	Spec   BoxDiffSpec   `json:"spec,omitempty"`
	Status BoxDiffStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// BoxDiffList contains a list of BoxDiff
type BoxDiffList struct {
	metaV1.TypeMeta `json:",inline"`
	metaV1.ListMeta `json:"metadata,omitempty"`
	Items           []BoxDiff `json:"items"`
}
