package entity

import (
	"strconv"
	"strings"
	"time"
)

// EventType: тип события в журнале результатов.
type EventType string

const (
	EventSoilFertility EventType = "Soil_Fertility"
	EventLeafDisease   EventType = "Leaf_Disease"
	EventWeed          EventType = "Weed"
)

// WeedDetectedResult пишется в колонку Result при найденном сорняке.
const WeedDetectedResult = "WEED_DETECTED"

// TimestampLayout: формат колонки Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// LogHeader: заголовок CSV журнала.
var LogHeader = []string{"Timestamp", "Type", "Result", "Latitude", "Longitude"}

// LogEntry: одна строка журнала результатов.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Result    string    `json:"result"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// Record возвращает строку в порядке колонок LogHeader.
func (e LogEntry) Record() []string {
	return []string{
		e.Timestamp.Format(TimestampLayout),
		string(e.Type),
		e.Result,
		formatCoord(e.Latitude),
		formatCoord(e.Longitude),
	}
}

// formatCoord пишет координату с хотя бы одним знаком после точки: 13 -> "13.0".
func formatCoord(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// HistoryRow: строка журнала в том виде, в каком она лежит в файле.
// Координаты остаются строками, чтобы не терять чужие форматы.
type HistoryRow struct {
	Timestamp string `json:"Timestamp"`
	Type      string `json:"Type"`
	Result    string `json:"Result"`
	Latitude  string `json:"Latitude"`
	Longitude string `json:"Longitude"`
}

// Coordinate: координата (моковая).
type Coordinate struct {
	Latitude  float64
	Longitude float64
}
