package dashboard

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"annadata/internal/domain/entity"
)

func TestState_DefaultSnapshot(t *testing.T) {
	s := NewState(nil)

	snap := s.Snapshot()
	require.False(t, snap.Monitoring)
	require.Equal(t, Badge{Label: "N/A", Tone: ToneWarn}, snap.Leaf)
	require.Equal(t, Badge{Label: "N/A", Tone: ToneWarn}, snap.Weed)
	require.Nil(t, snap.Fertility)
	require.Empty(t, snap.LastProcessed)
	require.NotNil(t, snap.History)
}

func TestState_Transitions(t *testing.T) {
	var changes atomic.Int32
	s := NewState(func() { changes.Add(1) })

	s.StartMonitoring("http://cam/video")
	s.SetLabels(Labels{Leaf: "Healthy", Weed: "Not Detected"}, time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local))
	s.SetFertility("Medium Fertility")
	s.SetHistory([]entity.HistoryRow{{Type: "Weed"}})

	snap := s.Snapshot()
	require.True(t, snap.Monitoring)
	require.Equal(t, "http://cam/video", snap.CameraURL)
	require.Equal(t, Badge{Label: "Healthy", Tone: ToneOK}, snap.Leaf)
	require.Equal(t, "2025-01-02 03:04:05", snap.LastProcessed)
	require.Equal(t, &Badge{Label: "Medium Fertility", Tone: ToneAlert}, snap.Fertility)
	require.Len(t, snap.History, 1)

	s.StopMonitoring(WarnStreamLost)
	snap = s.Snapshot()
	require.False(t, snap.Monitoring)
	require.Equal(t, WarnStreamLost, snap.Warning)
	require.Equal(t, int32(5), changes.Load())

	s.StartMonitoring("http://cam/video")
	require.Empty(t, s.Snapshot().Warning)
	require.Equal(t, InitialLabels, s.Labels())
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := NewState(nil)
	s.SetHistory([]entity.HistoryRow{{Type: "Weed"}})

	snap := s.Snapshot()
	snap.History[0].Type = "changed"
	require.Equal(t, "Weed", s.Snapshot().History[0].Type)
}
