package vision

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Параметры нормализации ImageNet, с которыми обучался классификатор листа.
var (
	ImageNetMean = [3]float32{0.485, 0.456, 0.406}
	ImageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// letterboxFill: серый цвет полей, как при обучении YOLO.
var letterboxFill = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// Letterbox описывает, как исходный кадр вписан в квадрат модели.
type Letterbox struct {
	Scale      float64 // коэффициент масштабирования исходного кадра
	PadX, PadY int     // отступы слева и сверху
	SrcW, SrcH int     // размер исходного кадра
}

// Unproject переводит рамку из координат модели в координаты исходного кадра.
func (l Letterbox) Unproject(x0, y0, x1, y1 float64) image.Rectangle {
	toSrc := func(v float64, pad int, limit int) int {
		s := (v - float64(pad)) / l.Scale
		return clampInt(int(math.Round(s)), 0, limit)
	}
	return image.Rect(
		toSrc(x0, l.PadX, l.SrcW),
		toSrc(y0, l.PadY, l.SrcH),
		toSrc(x1, l.PadX, l.SrcW),
		toSrc(y1, l.PadY, l.SrcH),
	)
}

// LetterboxTensor вписывает изображение в квадрат size×size с сохранением
// пропорций и возвращает тензор NCHW (RGB, значения 0..1).
func LetterboxTensor(img image.Image, size int) ([]float32, Letterbox) {
	b := img.Bounds()
	scale := math.Min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	newW := maxInt(1, int(math.Round(float64(b.Dx())*scale)))
	newH := maxInt(1, int(math.Round(float64(b.Dy())*scale)))
	padX := (size - newW) / 2
	padY := (size - newH) / 2

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: letterboxFill}, image.Point{}, draw.Src)
	xdraw.BiLinear.Scale(canvas, image.Rect(padX, padY, padX+newW, padY+newH), img, b, xdraw.Src, nil)

	meta := Letterbox{Scale: scale, PadX: padX, PadY: padY, SrcW: b.Dx(), SrcH: b.Dy()}
	return chwTensor(canvas, [3]float32{0, 0, 0}, [3]float32{1, 1, 1}), meta
}

// ClassifierTensor растягивает изображение до size×size и нормализует
// каналы средним и стандартным отклонением.
func ClassifierTensor(img image.Image, size int, mean, std [3]float32) []float32 {
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.BiLinear.Scale(canvas, canvas.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return chwTensor(canvas, mean, std)
}

// chwTensor раскладывает RGBA-картинку в плоский тензор [1,3,H,W].
func chwTensor(img *image.RGBA, mean, std [3]float32) []float32 {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	plane := w * h
	out := make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			px := row[x*4:]
			i := y*w + x
			for c := 0; c < 3; c++ {
				v := float32(px[c]) / 255
				out[c*plane+i] = (v - mean[c]) / std[c]
			}
		}
	}
	return out
}

// TensorBytes кодирует float32-тензор в little-endian байты для cv::Mat.
func TensorBytes(values []float32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(v))
	}
	return out
}

// ArgMax возвращает индекс наибольшего значения (-1 для пустого среза).
func ArgMax(values []float32) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
