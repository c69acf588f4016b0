package vision

import (
	"fmt"
	"image"
	"sort"

	"annadata/internal/domain/entity"
)

// Пороги этого детектора: уверенность 0.25, IoU для NMS 0.45.
const (
	DefaultConfThreshold = 0.25
	DefaultIoUThreshold  = 0.45
	DefaultDetectorSize  = 640

	DefaultClassifierSize = 224
)

// candidate: рамка в координатах входа модели (x0,y0,x1,y1).
type candidate struct {
	box     [4]float64
	classID int
	score   float32
}

// DecodeYOLO разбирает выход головы YOLOv8 формы [1, 4+nc, anchors]
// (или транспонированный [1, anchors, 4+nc]) и возвращает рамки после NMS
// в координатах исходного кадра.
func DecodeYOLO(output []float32, shape []int, lb Letterbox, conf, iou float32) ([]entity.Detection, error) {
	if len(shape) != 3 || shape[0] != 1 {
		return nil, fmt.Errorf("unexpected detector output shape %v", shape)
	}
	attrs, anchors := shape[1], shape[2]
	transposed := false
	if attrs > anchors {
		attrs, anchors = anchors, attrs
		transposed = true
	}
	if attrs < 5 {
		return nil, fmt.Errorf("detector output has %d attributes, need at least 5", attrs)
	}
	if len(output) < attrs*anchors {
		return nil, fmt.Errorf("detector output has %d values, shape %v needs %d", len(output), shape, attrs*anchors)
	}

	at := func(a, i int) float32 {
		if transposed {
			return output[i*attrs+a]
		}
		return output[a*anchors+i]
	}

	var cands []candidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 4; c < attrs; c++ {
			if s := at(c, i); s > bestScore {
				best, bestScore = c-4, s
			}
		}
		if best < 0 || bestScore < conf {
			continue
		}
		cx, cy, w, h := float64(at(0, i)), float64(at(1, i)), float64(at(2, i)), float64(at(3, i))
		cands = append(cands, candidate{
			box:     [4]float64{cx - w/2, cy - h/2, cx + w/2, cy + h/2},
			classID: best,
			score:   bestScore,
		})
	}

	kept := nonMaxSuppression(cands, iou)
	out := make([]entity.Detection, 0, len(kept))
	for _, c := range kept {
		r := lb.Unproject(c.box[0], c.box[1], c.box[2], c.box[3])
		if r.Empty() {
			continue
		}
		out = append(out, toDetection(r, c))
	}
	return out, nil
}

func toDetection(r image.Rectangle, c candidate) entity.Detection {
	return entity.Detection{
		X:          r.Min.X,
		Y:          r.Min.Y,
		Width:      r.Dx(),
		Height:     r.Dy(),
		ClassID:    c.classID,
		Confidence: c.score,
	}
}

// nonMaxSuppression оставляет самые уверенные рамки внутри каждого класса.
func nonMaxSuppression(cands []candidate, iou float32) []candidate {
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })

	suppressed := make([]bool, len(cands))
	kept := make([]candidate, 0, len(cands))
	for i := range cands {
		if suppressed[i] {
			continue
		}
		kept = append(kept, cands[i])
		for j := i + 1; j < len(cands); j++ {
			if suppressed[j] || cands[j].classID != cands[i].classID {
				continue
			}
			if boxIoU(cands[i].box, cands[j].box) > float64(iou) {
				suppressed[j] = true
			}
		}
	}
	return kept
}

func boxIoU(a, b [4]float64) float64 {
	ix0, iy0 := max(a[0], b[0]), max(a[1], b[1])
	ix1, iy1 := min(a[2], b[2]), min(a[3], b[3])
	if ix1 <= ix0 || iy1 <= iy0 {
		return 0
	}
	inter := (ix1 - ix0) * (iy1 - iy0)
	areaA := (a[2] - a[0]) * (a[3] - a[1])
	areaB := (b[2] - b[0]) * (b[3] - b[1])
	return inter / (areaA + areaB - inter)
}
