package v1

// DiffParameters tune the bounding box diff. Unset fields use the diff defaults.
type DiffParameters struct {
	// Threshold is the normalized per-pixel distance above which a pixel counts as different
	// +kubebuilder:validation:Minimum=0
	// +kubebuilder:validation:Maximum=1
	// +optional
	Threshold *float64 `json:"threshold,omitempty"`
	// MinBoxArea drops regions whose bounding rectangle is smaller than this
	// +kubebuilder:validation:Minimum=0
	// +optional
	MinBoxArea *int `json:"minBoxArea,omitempty"`
	// MinClusterPixels drops regions with fewer differing pixels than this
	// +kubebuilder:validation:Minimum=0
	// +optional
	MinClusterPixels *int `json:"minClusterPixels,omitempty"`
}

// Box is a rectangular region where the two images differ
type Box struct {
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	DiffScore float64 `json:"diffScore"`
	Pixels    int     `json:"pixels"`
}

// DiffResult is the outcome of the most recent diff
type DiffResult struct {
	// BaselineURL is the storage URL of the baseline image
	BaselineURL string `json:"baselineUrl,omitempty"`
	// TargetURL is the storage URL of the target image
	TargetURL string `json:"targetUrl,omitempty"`
	// AnnotatedURL is the storage URL of the target image with every box outlined
	AnnotatedURL string `json:"annotatedUrl,omitempty"`
	ImageWidth   int    `json:"imageWidth,omitempty"`
	ImageHeight  int    `json:"imageHeight,omitempty"`
	// Boxes are sorted by area, largest first
	Boxes []Box `json:"boxes,omitempty"`
	// Message explains why the last diff did not produce boxes, e.g. a dimension mismatch
	Message string `json:"message,omitempty"`
}
