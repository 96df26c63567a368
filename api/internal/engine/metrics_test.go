package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustLandmarks(t *testing.T, raw []Point) *LandmarkSet {
	t.Helper()
	ls, err := Normalize106(raw)
	require.NoError(t, err)
	return ls
}

func TestComputeAll_NoNaNLeaks(t *testing.T) {
	cfg := DefaultConfig()
	ms := ComputeAll(cfg, mustLandmarks(t, testFace()))

	require.Len(t, ms, len(cfg.Metrics))
	for id, mv := range ms {
		if mv.Unavailable {
			require.NotEmpty(t, mv.Reason, "metric %s unavailable without a reason", id)
			continue
		}
		require.False(t, math.IsNaN(mv.Value), "metric %s leaked NaN", id)
		require.False(t, math.IsInf(mv.Value, 0), "metric %s leaked Inf", id)
	}
}

func TestAngles_TranslationInvariant(t *testing.T) {
	cfg := DefaultConfig()
	base := ComputeAll(cfg, mustLandmarks(t, testFace()))

	shifted := testFace()
	for i := range shifted {
		shifted[i].X += 137.5
		shifted[i].Y -= 42.25
	}
	moved := ComputeAll(cfg, mustLandmarks(t, shifted))

	for _, d := range cfg.Metrics {
		if d.Op != OpLineAngle && d.Op != OpVertexAngle {
			continue
		}
		require.False(t, base[d.ID].Unavailable)
		require.InDelta(t, base[d.ID].Value, moved[d.ID].Value, 1e-9, "angle %s changed under translation", d.ID)
	}
}

func TestRatios_ScaleInvariant_DistancesScaleLinearly(t *testing.T) {
	const k = 2.75
	cfg := DefaultConfig()
	base := ComputeAll(cfg, mustLandmarks(t, testFace()))

	scaled := testFace()
	for i := range scaled {
		scaled[i].X *= k
		scaled[i].Y *= k
	}
	big := ComputeAll(cfg, mustLandmarks(t, scaled))

	for _, d := range cfg.Metrics {
		switch d.Op {
		case OpRatio:
			require.InDelta(t, base[d.ID].Value, big[d.ID].Value, 1e-9, "ratio %s changed under uniform scale", d.ID)
		case OpDistance:
			require.InDelta(t, base[d.ID].Value*k, big[d.ID].Value, 1e-9, "distance %s did not scale linearly", d.ID)
		}
	}
}

func TestCanthalTilt_Sign(t *testing.T) {
	cfg := DefaultConfig()
	ms := ComputeAll(cfg, mustLandmarks(t, testFace()))

	// на тестовом лице внешние уголки глаз выше внутренних на 4px при 50px по горизонтали
	tilt := ms[MetricCanthalTilt]
	require.False(t, tilt.Unavailable)
	want := math.Atan2(4, 50) * 180 / math.Pi
	require.InDelta(t, want, tilt.Value, 1e-9)
}

func TestCanthalTilt_CoincidentPointsUnavailable(t *testing.T) {
	raw := testFace()
	raw[36] = raw[39] // внешний уголок совпал с внутренним

	cfg := DefaultConfig()
	ms := ComputeAll(cfg, mustLandmarks(t, raw))

	tilt := ms[MetricCanthalTilt]
	require.True(t, tilt.Unavailable)
	require.Equal(t, "zero_vector", tilt.Reason)

	agg, err := NewAggregator(cfg)
	require.NoError(t, err)
	require.Contains(t, agg.WeakMetrics(ms), string(MetricCanthalTilt))
}

func TestRatio_ZeroDenominatorUnavailable(t *testing.T) {
	raw := testFace()
	raw[0] = raw[16] // ширина лица нулевая -> знаменатель midface_ratio

	cfg := DefaultConfig()
	ms := ComputeAll(cfg, mustLandmarks(t, raw))

	mr := ms[MetricMidfaceRatio]
	require.True(t, mr.Unavailable)
	require.Equal(t, "zero_denominator", mr.Reason)
}

func TestVertexAngle_ZeroRayUnavailable(t *testing.T) {
	raw := testFace()
	raw[0] = raw[8] // луч menton->face_left нулевой

	cfg := DefaultConfig()
	ms := ComputeAll(cfg, mustLandmarks(t, raw))

	ga := ms[MetricGonialAngle]
	require.True(t, ga.Unavailable)
	require.Equal(t, "zero_vector", ga.Reason)
}

func TestCompute_KnownValues(t *testing.T) {
	cfg := DefaultConfig()
	ms := ComputeAll(cfg, mustLandmarks(t, testFace()))

	// interpupillary: (225,274) -> (375,274)
	require.InDelta(t, 150, ms[MetricInterpupillary].Value, 1e-9)
	// bizygomatic: (150,360) -> (450,360)
	require.InDelta(t, 300, ms[MetricBizygomaticW].Value, 1e-9)
	// bigonial: (180,460) -> (420,460)
	require.InDelta(t, 240, ms[MetricBigonialW].Value, 1e-9)
	// jaw prominence: 240/300
	require.InDelta(t, 0.8, ms[MetricJawProminence].Value, 1e-9)
	// midface: dist(bridge, base)=100 / dist(face_left, face_right)=320
	require.InDelta(t, 0.3125, ms[MetricMidfaceRatio].Value, 1e-9)
}
