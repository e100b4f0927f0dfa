package v1

import (
	metaV1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ScheduledBoxDiffSpec defines the desired state of ScheduledBoxDiff
type ScheduledBoxDiffSpec struct {
	// Schedule in Cron format, see https://en.wikipedia.org/wiki/Cron.
	Schedule string `json:"schedule"`
	// Target is the URL to take a screenshot of
	Target string `json:"target"`
	// +optional
	MaskSelectors []string `json:"maskSelectors,omitempty"`
	// +optional
	Headers map[string]string `json:"headers,omitempty"`
	// +optional
	Parameters DiffParameters `json:"parameters,omitempty"`
}

// ScheduledBoxDiffStatus defines the observed state of ScheduledBoxDiff.
// Every run compares the new capture with the previous one, which becomes the baseline.
type ScheduledBoxDiffStatus struct {
	DiffResult `json:",inline"`
	// LastDiffTime is the time when the last capture was taken
	LastDiffTime *metaV1.Time `json:"lastDiffTime,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status

// ScheduledBoxDiff is the schema for the scheduledboxdiffs API
type ScheduledBoxDiff struct {
	metaV1.TypeMeta   `json:",inline"`
	metaV1.ObjectMeta `json:"metadata,omitempty"`

	Spec   ScheduledBoxDiffSpec   `json:"spec,omitempty"`
	Status ScheduledBoxDiffStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// ScheduledBoxDiffList contains a list of ScheduledBoxDiff
type ScheduledBoxDiffList struct {
	metaV1.TypeMeta `json:",inline"`
	metaV1.ListMeta `json:"metadata,omitempty"`
	Items           []ScheduledBoxDiff `json:"items"`
}
