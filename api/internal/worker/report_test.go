package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"lookism-bot/api/internal/engine"
)

func sampleResult() *Result {
	return &Result{
		Rating: engine.RatingResult{
			BaseRating:      8.0,
			CompositeRating: 9.1,
			Label:           "PSL-God",
			WeakMetrics:     []string{"gonial_angle"},
		},
		Metrics: engine.MetricSet{
			engine.MetricGonialAngle: {ID: engine.MetricGonialAngle, Value: 150, Unit: engine.UnitDegrees},
			engine.MetricCanthalTilt: {ID: engine.MetricCanthalTilt, Value: 6.5, Unit: engine.UnitDegrees},
			engine.MetricFWHR:        {ID: engine.MetricFWHR, Unavailable: true, Reason: "zero_denominator"},
		},
		Symmetry: 0.93,
		Skin:     engine.SkinResult{SkinScore: 82.5, Acne: 90, Stain: 88},
		Beauty:   80,
		Age:      24,
		Gender:   "Male",
	}
}

func TestBuildReportPrompt(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	prompt := buildReportPrompt(sampleResult(), now)

	require.Contains(t, prompt, "composite_rating: 9.1")
	require.Contains(t, prompt, "label: PSL-God")
	require.Contains(t, prompt, "weak_metrics: gonial_angle")
	require.Contains(t, prompt, "Композитный рейтинг: 9.1/10")
	// повторный анализ через 30 дней
	require.Contains(t, prompt, "2025-03-31")
	// недоступная метрика не попадает в данные
	require.NotContains(t, prompt, "fwhr:")
}

func TestMetricsBlock_SkipsUnavailable(t *testing.T) {
	block := metricsBlock(sampleResult())
	require.Contains(t, block, "Гониальный угол 150.0°")
	require.Contains(t, block, "Кантальный наклон +6.5°")
	require.NotContains(t, block, "FWHR")
	require.Contains(t, block, "SkinScore 82.5/100")
}
