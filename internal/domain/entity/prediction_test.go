package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiseaseLabel(t *testing.T) {
	label, err := DiseaseLabel(2)
	require.NoError(t, err)
	require.Equal(t, DiseaseBrownSpot, label)

	_, err = DiseaseLabel(4)
	require.ErrorIs(t, err, ErrClassOutOfRange)

	_, err = DiseaseLabel(-1)
	require.ErrorIs(t, err, ErrClassOutOfRange)
}

func TestFertilityLabel(t *testing.T) {
	for i, want := range []string{FertilityLow, FertilityMedium, FertilityHigh} {
		label, err := FertilityLabel(i)
		require.NoError(t, err)
		require.Equal(t, want, label)
	}

	_, err := FertilityLabel(3)
	require.ErrorIs(t, err, ErrClassOutOfRange)
}
