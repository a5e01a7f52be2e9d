package pose

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var runtimeMu sync.Mutex

// InitRuntime initialises the ONNX Runtime environment once per process.
// A failed attempt may be retried.
func InitRuntime(libPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// ShutdownRuntime tears the environment down. Models must be closed first.
func ShutdownRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !ort.IsInitialized() {
		return nil
	}
	return ort.DestroyEnvironment()
}

// ONNXModel runs a MoveNet ONNX export through a fixed-tensor session.
type ONNXModel struct {
	mu      sync.Mutex
	spec    VariantSpec
	session *ort.AdvancedSession
	input   *ort.Tensor[int32]
	output  *ort.Tensor[float32]
}

// NewONNXModel opens modelPath for spec. InitRuntime must have succeeded.
func NewONNXModel(modelPath string, spec VariantSpec) (*ONNXModel, error) {
	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("error creating session options: %w", err)
	}
	defer options.Destroy()

	if err := options.SetIntraOpNumThreads(runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("error setting intra-op threads: %w", err)
	}

	inputShape := ort.NewShape(1, int64(spec.Height), int64(spec.Width), 3)
	inputTensor, err := ort.NewEmptyTensor[int32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("error creating input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(spec.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("error creating output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{spec.InputName},
		[]string{spec.OutputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &ONNXModel{
		spec:    spec,
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

// Serve copies input into the bound tensor, runs the session and returns a
// copy of the output. Calls on one model are serialised.
func (m *ONNXModel) Serve(input ImageTensor) (map[string]Tensor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil, errors.New("model is closed")
	}

	dst := m.input.GetData()
	if len(input.Data) != len(dst) {
		return nil, fmt.Errorf("input has %d values, %s expects %d", len(input.Data), m.spec.Variant, len(dst))
	}
	copy(dst, input.Data)

	if err := m.session.Run(); err != nil {
		return nil, err
	}

	out := make([]float32, len(m.output.GetData()))
	copy(out, m.output.GetData())
	tensor, err := NewTensor(m.spec.OutputShape, out)
	if err != nil {
		return nil, err
	}
	return map[string]Tensor{m.spec.OutputName: tensor}, nil
}

// Close destroys the session and its tensors.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return nil
	}
	err := errors.Join(m.session.Destroy(), m.input.Destroy(), m.output.Destroy())
	m.session = nil
	return err
}
