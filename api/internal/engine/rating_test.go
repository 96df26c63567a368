package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// idealMetricSet строит MetricSet, где каждая метрика сидит внутри идеального
// диапазона, т.е. каждый компонент композита равен 10.
func idealMetricSet(cfg *Config) MetricSet {
	ms := make(MetricSet, len(cfg.Metrics))
	for _, d := range cfg.Metrics {
		v := d.Ideal.Lo + 1
		if d.Ideal.Hi != math.MaxFloat64 {
			v = (d.Ideal.Lo + d.Ideal.Hi) / 2
		}
		ms[d.ID] = MetricValue{ID: d.ID, Unit: d.Unit, Value: v}
	}
	return ms
}

func TestAggregate_IdealScenario(t *testing.T) {
	cfg := DefaultConfig()
	agg, err := NewAggregator(cfg)
	require.NoError(t, err)

	// beauty=80, symmetry=90, все компоненты метрик на максимуме:
	// 0.40*8 + 0.25*10 + 0.20*10 + 0.10*9 + 0.05*10 = 9.1
	res := agg.Aggregate(idealMetricSet(cfg), 80, 90)

	require.InDelta(t, 8.0, res.BaseRating, 1e-9)
	require.InDelta(t, 9.1, res.CompositeRating, 1e-9)
	require.Equal(t, "PSL-God", res.Label)
	require.Empty(t, res.WeakMetrics)
}

func TestAggregate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	agg, err := NewAggregator(cfg)
	require.NoError(t, err)

	ms := ComputeAll(cfg, mustLandmarks(t, testFace()))
	first := agg.Aggregate(ms, 73.4, 81.2)
	second := agg.Aggregate(ms, 73.4, 81.2)

	require.Equal(t, first, second)
	require.Equal(t, math.Float64bits(first.CompositeRating), math.Float64bits(second.CompositeRating))
}

func TestAggregate_ScoresClamped(t *testing.T) {
	cfg := DefaultConfig()
	agg, err := NewAggregator(cfg)
	require.NoError(t, err)

	res := agg.Aggregate(idealMetricSet(cfg), 250, -10)
	require.Equal(t, 10.0, res.BaseRating)
	require.LessOrEqual(t, res.CompositeRating, 10.0)
	require.GreaterOrEqual(t, res.CompositeRating, 0.0)
}

func TestAggregate_UnavailableUsesWorstCaseNotRenormalized(t *testing.T) {
	cfg := DefaultConfig()
	agg, err := NewAggregator(cfg)
	require.NoError(t, err)

	ms := idealMetricSet(cfg)
	ms[MetricCanthalTilt] = MetricValue{ID: MetricCanthalTilt, Unit: UnitDegrees, Unavailable: true, Reason: "zero_vector"}

	res := agg.Aggregate(ms, 80, 90)

	// недоступный компонент внёс worst-case (0), а не выпал из суммы:
	// 9.1 - 0.25*10 = 6.6
	require.InDelta(t, 6.6, res.CompositeRating, 1e-9)
	require.Contains(t, res.WeakMetrics, string(MetricCanthalTilt))
}

func TestLabel_BoundaryBelongsToUpperBucket(t *testing.T) {
	agg, err := NewAggregator(DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, "HTN", agg.Label(4.5))
	require.Equal(t, "LTN", agg.Label(3))
	require.Equal(t, "Sub-5", agg.Label(0))
	require.Equal(t, "PSL-God", agg.Label(8.5))
	require.Equal(t, "PSL-God", agg.Label(10)) // последний бакет закрыт сверху
}

func TestLabel_MonotonicAndExhaustive(t *testing.T) {
	cfg := DefaultConfig()
	agg, err := NewAggregator(cfg)
	require.NoError(t, err)

	rank := map[string]int{}
	for i, b := range cfg.Labels {
		rank[b.Label] = i
	}

	prev := -1
	for v := 0.0; v <= 10.0; v += 0.01 {
		label := agg.Label(v)
		r, ok := rank[label]
		require.True(t, ok, "composite %.2f mapped to unknown label %q", v, label)
		require.GreaterOrEqual(t, r, prev, "label rank decreased at composite %.2f", v)
		prev = r
	}
}

func TestWeakMetrics_OutsideAcceptableRange(t *testing.T) {
	cfg := DefaultConfig()
	agg, err := NewAggregator(cfg)
	require.NoError(t, err)

	ms := idealMetricSet(cfg)
	ms[MetricGonialAngle] = MetricValue{ID: MetricGonialAngle, Unit: UnitDegrees, Value: 160}

	weak := agg.WeakMetrics(ms)
	require.Equal(t, []string{string(MetricGonialAngle)}, weak)
}

func TestNewAggregator_WeightsMustSumToOne(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Midface = 0.04 // сумма 0.99

	_, err := NewAggregator(cfg)
	require.Error(t, err)

	var confErr *ConfigurationError
	require.True(t, errors.As(err, &confErr))
}
