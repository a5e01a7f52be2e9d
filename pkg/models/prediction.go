package models

// PoseOutput is the variant-specific part of a prediction. Single-pose
// variants fill Keypoints; the multi-pose variant fills RawOutput0 and RawShape.
type PoseOutput struct {
	Keypoints  interface{} `json:"keypoints,omitempty"`
	RawOutput0 interface{} `json:"raw_output_0,omitempty"`
	RawShape   []int64     `json:"raw_shape,omitempty"`
}

// PredictionResult is the response of a predict call and the document
// persisted when storing is requested.
type PredictionResult struct {
	PoseOutput

	ModelVariant         string  `json:"model_variant"`
	ModelHandle          string  `json:"model_handle"`
	InferenceTimeMsModel float64 `json:"inference_time_ms_model"`
	Timestamp            string  `json:"timestamp"`

	// Attached after inference by the API layer.
	HostCPUPercent       *float64 `json:"host_cpu_percent,omitempty"`
	HostMemPercent       *float64 `json:"host_mem_percent,omitempty"`
	InferenceTimeMsTotal float64  `json:"inference_time_ms_total,omitempty"`
	StoredAt             string   `json:"stored_at,omitempty"`
}

// PredictionRequest carries one uploaded image through the service.
type PredictionRequest struct {
	Image   []byte
	Variant string
	Store   bool
}
