package engine

// Пары точек для оценки симметрии относительно вертикали через центр лица.
var symmetryPairs = [][2]string{
	{PtPupilLeft, PtPupilRight},
	{PtLeftEyeOuter, PtRightEyeOuter},
	{PtMouthLeft, PtMouthRight},
	{PtGonionLeft, PtGonionRight},
	{PtZygionLeft, PtZygionRight},
}

// SymmetryScore оценивает симметрию лица по LandmarkSet на шкале 0–1
// (1 — идеальная симметрия). Центр — средний X всех точек набора.
// Пары с вырожденной геометрией пропускаются; если пригодных пар нет,
// возвращается false.
func SymmetryScore(ls *LandmarkSet) (float64, bool) {
	if ls.Len() == 0 {
		return 0, false
	}

	var centerX float64
	for i := 0; i < ls.Len(); i++ {
		centerX += ls.points[i].X
	}
	centerX /= float64(ls.Len())

	var total float64
	var valid int
	for _, pair := range symmetryPairs {
		left, okL := ls.Point(pair[0])
		right, okR := ls.Point(pair[1])
		if !okL || !okR {
			continue
		}
		lDist := abs(left.X - centerX)
		rDist := abs(right.X - centerX)
		if lDist+rDist == 0 {
			continue
		}
		total += 1 - abs(lDist-rDist)/(lDist+rDist)
		valid++
	}
	if valid == 0 {
		return 0, false
	}
	return total / float64(valid), true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
