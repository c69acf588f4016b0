package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"annadata/internal/domain/entity"
)

type scriptedInference struct {
	leaf    *entity.LeafDiagnosis
	leafErr error
	weed    *entity.WeedReport
	weedErr error
	weedHit int
}

func (s *scriptedInference) ClassifyLeaf(ctx context.Context, frame []byte) (*entity.LeafDiagnosis, error) {
	return s.leaf, s.leafErr
}

func (s *scriptedInference) DetectWeed(ctx context.Context, frame []byte) (*entity.WeedReport, error) {
	s.weedHit++
	return s.weed, s.weedErr
}

func TestAnalyzer(t *testing.T) {
	prev := Labels{Leaf: "Healthy", Weed: "Detected"}

	cases := []struct {
		name     string
		api      *scriptedInference
		want     Labels
		wantWeed int
	}{
		{
			name: "no leaf",
			api:  &scriptedInference{leaf: &entity.LeafDiagnosis{Disease: "N/A"}},
			want: Labels{Leaf: LabelNoLeaf, Weed: LabelNA},
		},
		{
			name:     "leaf and weed",
			api:      &scriptedInference{leaf: &entity.LeafDiagnosis{Disease: "Blast", LeafDetected: true}, weed: &entity.WeedReport{WeedDetected: true}},
			want:     Labels{Leaf: "Blast", Weed: LabelDetected},
			wantWeed: 1,
		},
		{
			name:     "leaf without weed",
			api:      &scriptedInference{leaf: &entity.LeafDiagnosis{Disease: "Healthy", LeafDetected: true}, weed: &entity.WeedReport{}},
			want:     Labels{Leaf: "Healthy", Weed: LabelNotDetected},
			wantWeed: 1,
		},
		{
			name:     "weed call fails keeps previous weed",
			api:      &scriptedInference{leaf: &entity.LeafDiagnosis{Disease: "Blight", LeafDetected: true}, weedErr: &StatusError{Code: 500}},
			want:     Labels{Leaf: "Blight", Weed: "Detected"},
			wantWeed: 1,
		},
		{
			name:     "weed transport error resets labels",
			api:      &scriptedInference{leaf: &entity.LeafDiagnosis{Disease: "Blight", LeafDetected: true}, weedErr: errors.New("dial tcp: connection refused")},
			want:     Labels{Leaf: LabelNA, Weed: LabelNA},
			wantWeed: 1,
		},
		{
			name: "leaf call fails",
			api:  &scriptedInference{leafErr: errors.New("connection refused")},
			want: Labels{Leaf: LabelNA, Weed: LabelNA},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAnalyzer(tc.api, zap.NewNop())
			require.Equal(t, tc.want, a.Analyze(context.Background(), []byte("jpeg"), prev))
			require.Equal(t, tc.wantWeed, tc.api.weedHit)
		})
	}
}
