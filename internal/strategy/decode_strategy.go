package strategy

import (
	"fmt"

	"go-pose-estimator/internal/pose"
	"go-pose-estimator/pkg/models"
)

// DecodeStrategy turns raw serving-function outputs into the JSON shape of a variant family
type DecodeStrategy interface {
	Decode(outputs map[string]pose.Tensor) (models.PoseOutput, error)
	GetStrategyName() string
}

// SinglePoseStrategy decodes single-person MoveNet output [1,1,17,3] into keypoints [1,17,3]
type SinglePoseStrategy struct {
	outputName string
}

// NewSinglePoseStrategy creates a new single-pose strategy reading outputName
func NewSinglePoseStrategy(outputName string) DecodeStrategy {
	return &SinglePoseStrategy{outputName: outputName}
}

// Decode squeezes the person axis and emits nested keypoint lists
func (s *SinglePoseStrategy) Decode(outputs map[string]pose.Tensor) (models.PoseOutput, error) {
	out, ok := outputs[s.outputName]
	if !ok {
		return models.PoseOutput{}, fmt.Errorf("missing model output %q", s.outputName)
	}
	squeezed, err := out.Squeeze(1)
	if err != nil {
		return models.PoseOutput{}, fmt.Errorf("decode keypoints: %w", err)
	}
	return models.PoseOutput{Keypoints: squeezed.Nested()}, nil
}

// GetStrategyName returns the strategy name
func (s *SinglePoseStrategy) GetStrategyName() string {
	return "single_pose"
}

// MultiPoseStrategy passes the multi-person output through undecoded.
// Per-person keypoint extraction is not implemented.
type MultiPoseStrategy struct {
	outputName string
}

// NewMultiPoseStrategy creates a new multi-pose strategy reading outputName
func NewMultiPoseStrategy(outputName string) DecodeStrategy {
	return &MultiPoseStrategy{outputName: outputName}
}

// Decode emits the raw tensor as nested lists together with its shape
func (s *MultiPoseStrategy) Decode(outputs map[string]pose.Tensor) (models.PoseOutput, error) {
	out, ok := outputs[s.outputName]
	if !ok {
		return models.PoseOutput{}, fmt.Errorf("missing model output %q", s.outputName)
	}
	return models.PoseOutput{
		RawOutput0: out.Nested(),
		RawShape:   append([]int64(nil), out.Shape...),
	}, nil
}

// GetStrategyName returns the strategy name
func (s *MultiPoseStrategy) GetStrategyName() string {
	return "multi_pose"
}

// ForSpec picks the strategy matching the variant's family
func ForSpec(spec pose.VariantSpec) (DecodeStrategy, error) {
	switch spec.Family {
	case pose.FamilySingle:
		return NewSinglePoseStrategy(spec.OutputName), nil
	case pose.FamilyMulti:
		return NewMultiPoseStrategy(spec.OutputName), nil
	default:
		return nil, fmt.Errorf("unsupported variant family: %s", spec.Family)
	}
}
