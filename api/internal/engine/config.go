package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MetricID — закрытое перечисление идентификаторов метрик.
type MetricID string

const (
	MetricCanthalTilt     MetricID = "canthal_tilt"
	MetricGonialAngle     MetricID = "gonial_angle"
	MetricMidfaceRatio    MetricID = "midface_ratio"
	MetricInterpupillary  MetricID = "interpupillary_distance"
	MetricBizygomaticW    MetricID = "bizygomatic_width"
	MetricBigonialW       MetricID = "bigonial_width"
	MetricFWHR            MetricID = "fwhr"
	MetricEyeAspectRatio  MetricID = "eye_aspect_ratio"
	MetricJawProminence   MetricID = "jaw_prominence"
	MetricNasofrontal     MetricID = "nasofrontal_angle"
)

// Unit — единица измерения метрики.
type Unit string

const (
	UnitDegrees Unit = "deg"
	UnitPixels  Unit = "px"
	UnitRatio   Unit = "ratio"
)

// Op — геометрическая операция метрики.
type Op string

const (
	// OpLineAngle — знаковое возвышение латеральной точки над медиальной к горизонтали,
	// усреднённое по двум парам. Points: [l_medial l_lateral r_medial r_lateral].
	OpLineAngle Op = "line_angle"
	// OpVertexAngle — беззнаковый угол в вершине. Points: [a vertex b].
	OpVertexAngle Op = "vertex_angle"
	// OpDistance — евклидово расстояние. Points: [a b].
	OpDistance Op = "distance"
	// OpRatio — отношение двух расстояний. Points: [n1 n2 d1 d2] (числитель / знаменатель).
	OpRatio Op = "ratio"
)

// Range — закрытый интервал [Lo, Hi].
type Range struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

func (r Range) Contains(v float64) bool { return v >= r.Lo && v <= r.Hi }

// MetricDef описывает одну метрику: какие точки берём, какой операцией считаем,
// где идеал и что считается приемлемым.
type MetricDef struct {
	ID     MetricID `validate:"required"`
	Op     Op       `validate:"required,oneof=line_angle vertex_angle distance ratio"`
	Points []string `validate:"required,min=2"`
	Unit   Unit     `validate:"required,oneof=deg px ratio"`

	// Ideal и Falloff задают кривую пересчёта значения в компонент 0–10:
	// внутри Ideal компонент равен 10, снаружи линейно симметрично спадает до 0
	// на расстоянии Falloff от ближайшей границы идеала.
	Ideal   Range
	Falloff float64

	// Acceptable — допустимый диапазон для отбора слабых метрик.
	Acceptable Range

	// WorstCase — компонент-заглушка для недоступной метрики в взвешенной сумме.
	WorstCase float64
}

// expectedPoints возвращает требуемое число имён точек для операции.
func (op Op) expectedPoints() int {
	switch op {
	case OpLineAngle, OpRatio:
		return 4
	case OpVertexAngle:
		return 3
	default:
		return 2
	}
}

// Component пересчитывает сырое значение метрики в вклад 0–10 (трапеция вокруг идеала).
func (d MetricDef) Component(v float64) float64 {
	if d.Ideal.Contains(v) {
		return 10
	}
	var dist float64
	if v < d.Ideal.Lo {
		dist = d.Ideal.Lo - v
	} else {
		dist = v - d.Ideal.Hi
	}
	if d.Falloff <= 0 {
		return 0
	}
	return 10 * math.Max(0, 1-dist/d.Falloff)
}

// Weights — пять весов взвешенной суммы композитного рейтинга. Сумма должна быть ровно 1.00.
type Weights struct {
	Beauty   float64 `json:"beauty"`
	Canthal  float64 `json:"canthal"`
	Gonial   float64 `json:"gonial"`
	Symmetry float64 `json:"symmetry"`
	Midface  float64 `json:"midface"`
}

func (w Weights) sum() float64 {
	return w.Beauty + w.Canthal + w.Gonial + w.Symmetry + w.Midface
}

// LabelBand — полуинтервал [Lo, Hi) шкалы композитного рейтинга; последний бакет закрыт сверху.
type LabelBand struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Label string  `json:"label"`
}

// Config — полная конфигурация движка. Загружается один раз на старте процесса
// и далее неизменяема.
type Config struct {
	LandmarkCount int `validate:"required,gt=0"`
	Weights       Weights
	Metrics       []MetricDef `validate:"required,min=1,dive"`
	Labels        []LabelBand `validate:"required,min=2"`
}

// ConfigurationError — дефект конфигурации: поднимается один раз при загрузке,
// никогда per-request.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "engine config: " + strings.Join(e.Problems, "; ")
}

const weightSumEps = 1e-9

// Validate проверяет конфигурацию целиком: веса, таблицу лейблов, ссылки на точки.
// Молчаливой перенормировки весов нет.
func (c *Config) Validate() error {
	var problems []string

	if err := validator.New().Struct(c); err != nil {
		problems = append(problems, err.Error())
	}

	if s := c.Weights.sum(); math.Abs(s-1.0) > weightSumEps {
		problems = append(problems, fmt.Sprintf("weights sum to %.4f, want 1.00", s))
	}

	seen := map[MetricID]bool{}
	for _, d := range c.Metrics {
		if seen[d.ID] {
			problems = append(problems, fmt.Sprintf("metric %s defined twice", d.ID))
		}
		seen[d.ID] = true

		if want := d.Op.expectedPoints(); len(d.Points) != want {
			problems = append(problems, fmt.Sprintf("metric %s: op %s needs %d points, got %d", d.ID, d.Op, want, len(d.Points)))
		}
		for _, name := range d.Points {
			if !definedName(name) {
				problems = append(problems, fmt.Sprintf("metric %s: undefined landmark name %q", d.ID, name))
			}
		}
		if d.Ideal.Lo > d.Ideal.Hi {
			problems = append(problems, fmt.Sprintf("metric %s: ideal range inverted", d.ID))
		}
		if d.Acceptable.Lo > d.Acceptable.Hi {
			problems = append(problems, fmt.Sprintf("metric %s: acceptable range inverted", d.ID))
		}
		if d.Falloff <= 0 {
			problems = append(problems, fmt.Sprintf("metric %s: falloff must be > 0", d.ID))
		}
		if d.WorstCase < 0 || d.WorstCase > 10 {
			problems = append(problems, fmt.Sprintf("metric %s: worst-case component outside [0,10]", d.ID))
		}
	}

	// таблица лейблов: непрерывная, без перекрытий, от 0 до 10
	if len(c.Labels) >= 2 {
		if c.Labels[0].Lo != 0 {
			problems = append(problems, "label table must start at 0")
		}
		if c.Labels[len(c.Labels)-1].Hi != 10 {
			problems = append(problems, "label table must end at 10")
		}
		for i, b := range c.Labels {
			if b.Lo >= b.Hi {
				problems = append(problems, fmt.Sprintf("label band %d empty or inverted", i))
			}
			if i > 0 && c.Labels[i-1].Hi != b.Lo {
				problems = append(problems, fmt.Sprintf("label table gap/overlap between bands %d and %d", i-1, i))
			}
			if b.Label == "" {
				problems = append(problems, fmt.Sprintf("label band %d has empty label", i))
			}
		}
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// metric находит определение по идентификатору.
func (c *Config) metric(id MetricID) (MetricDef, bool) {
	for _, d := range c.Metrics {
		if d.ID == id {
			return d, true
		}
	}
	return MetricDef{}, false
}

// DefaultConfig — рабочая таблица метрик и весов для раскладки landmark106.
func DefaultConfig() *Config {
	return &Config{
		LandmarkCount: LandmarkCount106,
		Weights: Weights{
			Beauty:   0.40,
			Canthal:  0.25,
			Gonial:   0.20,
			Symmetry: 0.10,
			Midface:  0.05,
		},
		Metrics: []MetricDef{
			{
				ID: MetricCanthalTilt, Op: OpLineAngle, Unit: UnitDegrees,
				Points:     []string{PtLeftEyeInner, PtLeftEyeOuter, PtRightEyeInner, PtRightEyeOuter},
				Ideal:      Range{Lo: 5, Hi: 8},
				Falloff:    10,
				Acceptable: Range{Lo: 0, Hi: 12},
				WorstCase:  0,
			},
			{
				ID: MetricGonialAngle, Op: OpVertexAngle, Unit: UnitDegrees,
				Points:     []string{PtFaceLeft, PtMenton, PtFaceRight},
				Ideal:      Range{Lo: 115, Hi: 125},
				Falloff:    100,
				Acceptable: Range{Lo: 100, Hi: 140},
				WorstCase:  0,
			},
			{
				ID: MetricMidfaceRatio, Op: OpRatio, Unit: UnitRatio,
				Points:     []string{PtNoseBridge, PtNoseBase, PtFaceLeft, PtFaceRight},
				Ideal:      Range{Lo: 0.45, Hi: 0.55},
				Falloff:    0.5,
				Acceptable: Range{Lo: 0.38, Hi: 0.62},
				WorstCase:  0,
			},
			{
				ID: MetricInterpupillary, Op: OpDistance, Unit: UnitPixels,
				Points:     []string{PtPupilLeft, PtPupilRight},
				Ideal:      Range{Lo: 0, Hi: math.MaxFloat64},
				Falloff:    1,
				Acceptable: Range{Lo: 0, Hi: math.MaxFloat64},
				WorstCase:  0,
			},
			{
				ID: MetricBizygomaticW, Op: OpDistance, Unit: UnitPixels,
				Points:     []string{PtZygionLeft, PtZygionRight},
				Ideal:      Range{Lo: 0, Hi: math.MaxFloat64},
				Falloff:    1,
				Acceptable: Range{Lo: 0, Hi: math.MaxFloat64},
				WorstCase:  0,
			},
			{
				ID: MetricBigonialW, Op: OpDistance, Unit: UnitPixels,
				Points:     []string{PtGonionLeft, PtGonionRight},
				Ideal:      Range{Lo: 0, Hi: math.MaxFloat64},
				Falloff:    1,
				Acceptable: Range{Lo: 0, Hi: math.MaxFloat64},
				WorstCase:  0,
			},
			{
				ID: MetricFWHR, Op: OpRatio, Unit: UnitRatio,
				Points:     []string{PtZygionLeft, PtZygionRight, PtBrow, PtMenton},
				Ideal:      Range{Lo: 0.80, Hi: 0.90},
				Falloff:    0.5,
				Acceptable: Range{Lo: 0.70, Hi: 1.0},
				WorstCase:  0,
			},
			{
				ID: MetricEyeAspectRatio, Op: OpRatio, Unit: UnitRatio,
				Points:     []string{PtLeftEyeOuter, PtLeftEyeInner, PtLeftEyeTop, PtLeftEyeBot},
				Ideal:      Range{Lo: 2.8, Hi: 3.4},
				Falloff:    2.0,
				Acceptable: Range{Lo: 2.2, Hi: 4.0},
				WorstCase:  0,
			},
			{
				ID: MetricJawProminence, Op: OpRatio, Unit: UnitRatio,
				Points:     []string{PtGonionLeft, PtGonionRight, PtZygionLeft, PtZygionRight},
				Ideal:      Range{Lo: 0.80, Hi: 0.92},
				Falloff:    0.4,
				Acceptable: Range{Lo: 0.70, Hi: 1.0},
				WorstCase:  0,
			},
			{
				ID: MetricNasofrontal, Op: OpVertexAngle, Unit: UnitDegrees,
				Points:     []string{PtForehead, PtNoseBridge, PtNoseBase},
				Ideal:      Range{Lo: 125, Hi: 140},
				Falloff:    60,
				Acceptable: Range{Lo: 115, Hi: 150},
				WorstCase:  0,
			},
		},
		Labels: []LabelBand{
			{Lo: 0, Hi: 3, Label: "Sub-5"},
			{Lo: 3, Hi: 4.5, Label: "LTN"},
			{Lo: 4.5, Hi: 6, Label: "HTN"},
			{Lo: 6, Hi: 7.5, Label: "Chad-Lite"},
			{Lo: 7.5, Hi: 8.5, Label: "PSL-God-Candidate"},
			{Lo: 8.5, Hi: 10, Label: "PSL-God"},
		},
	}
}
