package engine

// MetricValue — именованный скаляр. Недоступность — первоклассный вариант,
// а не число-заглушка: Value при Unavailable=true не несёт смысла.
type MetricValue struct {
	ID          MetricID `json:"id"`
	Value       float64  `json:"value"`
	Unit        Unit     `json:"unit"`
	Unavailable bool     `json:"unavailable,omitempty"`
	Reason      string   `json:"reason,omitempty"` // "zero_vector" | "zero_denominator" | "missing_point"
}

// MetricSet — отображение метрика -> значение, по одной записи на каждую
// определённую метрику. Строится атомарно из одного LandmarkSet.
type MetricSet map[MetricID]MetricValue

func unavailable(d MetricDef, reason string) MetricValue {
	return MetricValue{ID: d.ID, Unit: d.Unit, Unavailable: true, Reason: reason}
}

func available(d MetricDef, v float64) MetricValue {
	return MetricValue{ID: d.ID, Unit: d.Unit, Value: v}
}

// Compute считает одну метрику по её определению. Вырожденная геометрия
// (совпавшие точки, нулевой знаменатель) даёт недоступную метрику, не ошибку.
func Compute(d MetricDef, ls *LandmarkSet) MetricValue {
	pts := make([]Point, len(d.Points))
	for i, name := range d.Points {
		p, ok := ls.Point(name)
		if !ok {
			return unavailable(d, "missing_point")
		}
		pts[i] = p
	}

	switch d.Op {
	case OpLineAngle:
		// каждая пара — (медиальная, латеральная) точка одного глаза;
		// наклоны двух глаз усредняются
		left, okL := tiltAngle(pts[0], pts[1])
		right, okR := tiltAngle(pts[2], pts[3])
		if !okL || !okR {
			return unavailable(d, "zero_vector")
		}
		return available(d, (left+right)/2)

	case OpVertexAngle:
		a, ok := vertexAngle(pts[0], pts[1], pts[2])
		if !ok {
			return unavailable(d, "zero_vector")
		}
		return available(d, a)

	case OpDistance:
		return available(d, distance(pts[0], pts[1]))

	case OpRatio:
		den := distance(pts[2], pts[3])
		if den == 0 {
			return unavailable(d, "zero_denominator")
		}
		return available(d, distance(pts[0], pts[1])/den)
	}

	return unavailable(d, "missing_point")
}

// ComputeAll строит MetricSet: по одной записи на каждую метрику конфигурации.
// Метрики независимы друг от друга, порядок вычисления значения не имеет.
func ComputeAll(cfg *Config, ls *LandmarkSet) MetricSet {
	ms := make(MetricSet, len(cfg.Metrics))
	for _, d := range cfg.Metrics {
		ms[d.ID] = Compute(d, ls)
	}
	return ms
}
