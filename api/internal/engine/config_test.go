package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireConfigError(t *testing.T, cfg *Config, fragment string) {
	t.Helper()
	err := cfg.Validate()
	require.Error(t, err)

	var confErr *ConfigurationError
	require.True(t, errors.As(err, &confErr))
	require.Contains(t, err.Error(), fragment)
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidate_LabelTableGap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Labels[2].Lo = 4.6 // дырка между [3,4.5) и [4.6,6)
	requireConfigError(t, cfg, "gap/overlap")
}

func TestValidate_LabelTableMustCoverScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Labels[len(cfg.Labels)-1].Hi = 9.5
	requireConfigError(t, cfg, "end at 10")

	cfg = DefaultConfig()
	cfg.Labels[0].Lo = 0.5
	requireConfigError(t, cfg, "start at 0")
}

func TestValidate_UndefinedLandmarkName(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics[0].Points = []string{"nonexistent", PtLeftEyeOuter, PtRightEyeInner, PtRightEyeOuter}
	requireConfigError(t, cfg, "undefined landmark name")
}

func TestValidate_DuplicateMetric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics = append(cfg.Metrics, cfg.Metrics[0])
	requireConfigError(t, cfg, "defined twice")
}

func TestValidate_WrongPointArity(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics[0].Points = []string{PtLeftEyeInner, PtLeftEyeOuter} // line_angle ждёт 4
	requireConfigError(t, cfg, "needs 4 points")
}

func TestValidate_BadFalloff(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Metrics[1].Falloff = 0
	requireConfigError(t, cfg, "falloff")
}

func TestComponent_TrapezoidCurve(t *testing.T) {
	d := MetricDef{
		ID: MetricGonialAngle, Op: OpVertexAngle, Unit: UnitDegrees,
		Points:  []string{PtFaceLeft, PtMenton, PtFaceRight},
		Ideal:   Range{Lo: 115, Hi: 125},
		Falloff: 100,
	}

	// внутри идеала — максимум
	require.Equal(t, 10.0, d.Component(115))
	require.Equal(t, 10.0, d.Component(120))
	require.Equal(t, 10.0, d.Component(125))

	// симметричный линейный спад
	require.InDelta(t, 9.0, d.Component(105), 1e-9)
	require.InDelta(t, 9.0, d.Component(135), 1e-9)
	require.InDelta(t, 5.0, d.Component(65), 1e-9)

	// за пределами falloff — ноль, не отрицательное
	require.Equal(t, 0.0, d.Component(300))
	require.Equal(t, 0.0, d.Component(-300))
}
