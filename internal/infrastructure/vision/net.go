//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// onnxNet: ONNX-сеть OpenCV DNN. cv::dnn::Net не потокобезопасна,
// поэтому Forward выполняется под мьютексом.
type onnxNet struct {
	mu  sync.Mutex
	net gocv.Net
}

// loadONNX читает модель и настраивает CPU-бэкенд.
func loadONNX(path string) (*onnxNet, error) {
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load ONNX model %s", path)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)
	return &onnxNet{net: net}, nil
}

// forward прогоняет NCHW-тензор и возвращает копию выхода с его формой.
func (n *onnxNet) forward(tensor []float32, shape []int) ([]float32, []int, error) {
	blob, err := gocv.NewMatWithSizesFromBytes(shape, gocv.MatTypeCV32F, TensorBytes(tensor))
	if err != nil {
		return nil, nil, fmt.Errorf("build input blob: %w", err)
	}
	defer blob.Close()

	n.mu.Lock()
	defer n.mu.Unlock()

	n.net.SetInput(blob, "")
	out := n.net.Forward("")
	defer out.Close()
	if out.Empty() {
		return nil, nil, errors.New("empty network output")
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, nil, fmt.Errorf("read network output: %w", err)
	}
	values := make([]float32, len(data))
	copy(values, data)
	return values, out.Size(), nil
}

func (n *onnxNet) close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.net.Close()
}
