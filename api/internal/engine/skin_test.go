package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSkinScore_Recalibration(t *testing.T) {
	res := SkinScore(SkinInput{Health: 8, Acne: 0, Stain: 0, FaceQuality: 90})

	// health 8 -> 8*12.5+20 = 120 -> clamp 100; acne/stain 0 -> 120 -> clamp 100
	require.Equal(t, 100.0, res.Health)
	require.Equal(t, 100.0, res.Acne)
	require.Equal(t, 100.0, res.Stain)
	// weighted = 100, blend: 0.7*100 + 0.3*90 = 97
	require.InDelta(t, 97.0, res.SkinScore, 1e-9)
}

func TestSkinScore_WorstCase(t *testing.T) {
	res := SkinScore(SkinInput{Health: 0, Acne: 100, Stain: 100, FaceQuality: 0})

	require.Equal(t, 20.0, res.Health) // сдвиг: низ шкалы не катастрофа
	require.Equal(t, 0.0, res.Acne)
	require.Equal(t, 0.0, res.Stain)
	// weighted = 0.45*20 = 9; blend 0.7*9 = 6.3
	require.InDelta(t, 6.3, res.SkinScore, 1e-9)
}

// symmetricFace — testFace с заполнителями на центральной оси, так что средний X
// набора равен ровно 300, а все семантические пары зеркальны вокруг него.
func symmetricFace() []Point {
	raw := testFace()
	for i := range raw {
		if _, semantic := semanticIndexSet()[i]; !semantic {
			raw[i] = Point{X: 300, Y: 1000 + float64(i)}
		}
	}
	return raw
}

func semanticIndexSet() map[int]struct{} {
	set := make(map[int]struct{}, len(nameIndex106))
	for _, idx := range nameIndex106 {
		set[idx] = struct{}{}
	}
	return set
}

func TestSymmetryScore_PerfectlySymmetricFace(t *testing.T) {
	ls := mustLandmarks(t, symmetricFace())

	score, ok := SymmetryScore(ls)
	require.True(t, ok)
	require.InDelta(t, 1.0, score, 1e-9)
}

func TestSymmetryScore_AsymmetryLowersScore(t *testing.T) {
	skewed := symmetricFace()
	skewed[104].X -= 40 // левый зрачок уехал

	score, ok := SymmetryScore(mustLandmarks(t, skewed))
	require.True(t, ok)
	require.Less(t, score, 1.0)
	require.Greater(t, score, 0.0)
}
