package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// testFace builds a plausible 106-point frontal face in pixel coordinates.
// Non-semantic slots get distinct filler points so no vector degenerates by accident.
func testFace() []Point {
	pts := make([]Point, LandmarkCount106)
	for i := range pts {
		pts[i] = Point{X: 10 + float64(i)*3, Y: 20 + float64(i)*2}
	}
	for idx, p := range map[int]Point{
		0:   {140, 320}, // face_left
		2:   {150, 360}, // zygion_left
		4:   {180, 460}, // gonion_left
		8:   {300, 560}, // menton
		12:  {420, 460}, // gonion_right
		14:  {450, 360}, // zygion_right
		16:  {460, 320}, // face_right
		19:  {300, 200}, // brow
		24:  {300, 140}, // forehead
		27:  {300, 280}, // nose_bridge
		30:  {300, 330}, // face_center
		33:  {300, 380}, // nose_base
		36:  {200, 272}, // left_eye_outer
		37:  {225, 264}, // left_eye_top
		39:  {250, 276}, // left_eye_inner
		41:  {225, 284}, // left_eye_bottom
		42:  {350, 276}, // right_eye_inner
		43:  {375, 264}, // right_eye_top
		45:  {400, 272}, // right_eye_outer
		47:  {375, 284}, // right_eye_bottom
		48:  {260, 470}, // mouth_left
		51:  {300, 455}, // upper_lip_top
		54:  {340, 470}, // mouth_right
		57:  {300, 505}, // lower_lip_bottom
		104: {225, 274}, // pupil_left
		105: {375, 274}, // pupil_right
	} {
		pts[idx] = p
	}
	return pts
}

func TestNormalize_ValidInput(t *testing.T) {
	ls, err := Normalize106(testFace())
	require.NoError(t, err)
	require.Equal(t, LandmarkCount106, ls.Len())

	p, ok := ls.Point(PtMenton)
	require.True(t, ok)
	require.Equal(t, Point{300, 560}, p)

	_, ok = ls.Point("no_such_point")
	require.False(t, ok)
}

func TestNormalize_LengthMismatch(t *testing.T) {
	raw := testFace()[:50]

	_, err := Normalize106(raw)
	require.Error(t, err)

	var malformed *MalformedInputError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, LandmarkCount106, malformed.Expected)
	require.Equal(t, 50, malformed.Got)
	require.Equal(t, "length", malformed.Reason)
}

func TestNormalize_NonFiniteCoordinate(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		raw := testFace()
		raw[33].Y = bad

		_, err := Normalize106(raw)
		require.Error(t, err)

		var malformed *MalformedInputError
		require.True(t, errors.As(err, &malformed))
		require.Equal(t, 33, malformed.Index)
		require.Equal(t, "non_finite", malformed.Reason)
	}
}

func TestNormalize_CopiesInput(t *testing.T) {
	raw := testFace()
	ls, err := Normalize106(raw)
	require.NoError(t, err)

	raw[8] = Point{0, 0}

	p, ok := ls.Point(PtMenton)
	require.True(t, ok)
	require.Equal(t, Point{300, 560}, p)
}
