package engine

import "math"

// Чистая 2-D геометрия над точками. Ошибок нет — вырожденные случаи
// сигнализируются вторым возвращаемым значением и наверху превращаются
// в недоступную метрику, а не в NaN.

func distance(p1, p2 Point) float64 {
	return math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
}

// tiltAngle — знаковое возвышение точки p2 над p1 относительно горизонтали,
// в градусах. Ось Y на изображении направлена вниз, поэтому p2 выше p1 даёт
// положительный угол; сторона лица роли не играет — берём модуль горизонтального
// расстояния. false — точки совпали, угол не определён.
func tiltAngle(p1, p2 Point) (float64, bool) {
	dx := p2.X - p1.X
	dy := p1.Y - p2.Y
	if dx == 0 && dy == 0 {
		return 0, false
	}
	return math.Atan2(dy, math.Abs(dx)) * 180 / math.Pi, true
}

// vertexAngle — беззнаковый угол в вершине v между лучами v->a и v->b, в градусах.
// false — один из лучей нулевой длины.
func vertexAngle(a, v, b Point) (float64, bool) {
	v1x, v1y := a.X-v.X, a.Y-v.Y
	v2x, v2y := b.X-v.X, b.Y-v.Y

	m1 := math.Hypot(v1x, v1y)
	m2 := math.Hypot(v2x, v2y)
	if m1 == 0 || m2 == 0 {
		return 0, false
	}

	cos := (v1x*v2x + v1y*v2y) / (m1 * m2)
	// защита от выхода за [-1,1] на округлении
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
