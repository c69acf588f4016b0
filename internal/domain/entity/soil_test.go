package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSoilSample_Features(t *testing.T) {
	s := SoilSample{N: 150, P: 50, K: 200, PH: 7.0, EC: 0.5}
	require.Equal(t, []float64{150, 50, 200, 7.0, 0.5}, s.Features())
	require.True(t, s.InRange())
}

func TestSoilSample_Clamped(t *testing.T) {
	s := SoilSample{N: 1000, P: 0, K: 200, PH: 14, EC: 0.01}
	require.False(t, s.InRange())

	c := s.Clamped()
	require.True(t, c.InRange())
	require.Equal(t, 383.0, c.N)
	require.Equal(t, 3.0, c.P)
	require.Equal(t, 200.0, c.K)
	require.Equal(t, 12.0, c.PH)
	require.Equal(t, 0.1, c.EC)
}
