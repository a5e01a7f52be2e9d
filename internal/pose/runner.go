package pose

import (
	"fmt"
	"math"
	"time"
)

// Inference holds one serving call's outputs and its wall-clock cost.
type Inference struct {
	Outputs   map[string]Tensor
	ElapsedMs float64
}

// Run invokes the model's serving function once. There are no retries.
func Run(model Model, input ImageTensor) (*Inference, error) {
	start := time.Now()
	outputs, err := model.Serve(input)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}
	return &Inference{
		Outputs:   outputs,
		ElapsedMs: RoundMillis(elapsed),
	}, nil
}

// RoundMillis converts d to milliseconds rounded to two decimals.
func RoundMillis(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	return math.Round(ms*100) / 100
}
