package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLogEntry_Record(t *testing.T) {
	e := LogEntry{
		Timestamp: time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local),
		Type:      EventWeed,
		Result:    WeedDetectedResult,
		Latitude:  12.912345,
		Longitude: 80.2,
	}
	require.Equal(t, []string{"2025-03-04 05:06:07", "Weed", "WEED_DETECTED", "12.912345", "80.2"}, e.Record())
	require.Len(t, LogHeader, len(e.Record()))
}

func TestFormatCoord(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{13, "13.0"},
		{80.2, "80.2"},
		{12.345678, "12.345678"},
		{-7, "-7.0"},
		{0, "0.0"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, formatCoord(tt.in))
	}
}
