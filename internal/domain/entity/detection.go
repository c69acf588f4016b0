package entity

// Detection представляет рамку, найденную детектором
type Detection struct {
	X          int     // координата X левого верхнего угла
	Y          int     // координата Y левого верхнего угла
	Width      int     // ширина рамки в пикселях
	Height     int     // высота рамки в пикселях
	ClassID    int     // индекс класса детектора
	Confidence float32 // уверенность модели
}

// Center возвращает координаты центра рамки
func (d Detection) Center() (x, y int) {
	return d.X + d.Width/2, d.Y + d.Height/2
}

// Area возвращает площадь рамки в пикселях
func (d Detection) Area() int {
	return d.Width * d.Height
}
