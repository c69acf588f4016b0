package port

import "image"

// FrameSource интерфейс источника кадров камеры
type FrameSource interface {
	// Read возвращает следующий кадр
	Read() (image.Image, error)

	// Close освобождает источник
	Close() error
}

// FrameSourceOpener открывает источник по URL камеры
type FrameSourceOpener func(url string) (FrameSource, error)
