package engine

import (
	"fmt"
	"math"
)

// Point — 2-D точка в пиксельных координатах исходного изображения.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LandmarkCount106 — число точек в ответе AILab landmark106.
const LandmarkCount106 = 106

// Семантические имена точек для раскладки landmark106.
// Индексы фиксированы версией API источника; при смене версии меняется вся таблица целиком.
const (
	PtFaceLeft     = "face_left"
	PtFaceRight    = "face_right"
	PtMenton       = "menton"
	PtZygionLeft   = "zygion_left"
	PtZygionRight  = "zygion_right"
	PtGonionLeft   = "gonion_left"
	PtGonionRight  = "gonion_right"
	PtBrow         = "brow"
	PtForehead     = "forehead"
	PtNoseBridge   = "nose_bridge"
	PtFaceCenter   = "face_center"
	PtNoseBase     = "nose_base"
	PtLeftEyeOuter = "left_eye_outer"
	PtLeftEyeTop   = "left_eye_top"
	PtLeftEyeInner = "left_eye_inner"
	PtLeftEyeBot   = "left_eye_bottom"
	PtRightEyeInner = "right_eye_inner"
	PtRightEyeTop   = "right_eye_top"
	PtRightEyeOuter = "right_eye_outer"
	PtRightEyeBot   = "right_eye_bottom"
	PtMouthLeft    = "mouth_left"
	PtUpperLipTop  = "upper_lip_top"
	PtMouthRight   = "mouth_right"
	PtLowerLipBot  = "lower_lip_bottom"
	PtPupilLeft    = "pupil_left"
	PtPupilRight   = "pupil_right"
)

// nameIndex106 — закрытая таблица имя->индекс для landmark106.
var nameIndex106 = map[string]int{
	PtFaceLeft:      0,
	PtZygionLeft:    2,
	PtGonionLeft:    4,
	PtMenton:        8,
	PtGonionRight:   12,
	PtZygionRight:   14,
	PtFaceRight:     16,
	PtBrow:          19,
	PtForehead:      24,
	PtNoseBridge:    27,
	PtFaceCenter:    30,
	PtNoseBase:      33,
	PtLeftEyeOuter:  36,
	PtLeftEyeTop:    37,
	PtLeftEyeInner:  39,
	PtLeftEyeBot:    41,
	PtRightEyeInner: 42,
	PtRightEyeTop:   43,
	PtRightEyeOuter: 45,
	PtRightEyeBot:   47,
	PtMouthLeft:     48,
	PtUpperLipTop:   51,
	PtMouthRight:    54,
	PtLowerLipBot:   57,
	PtPupilLeft:     104,
	PtPupilRight:    105,
}

// MalformedInputError — ошибка формы входа: неверная длина или не-конечная координата.
// Фатальна для сессии, числовых подстановок не делаем.
type MalformedInputError struct {
	Expected int
	Got      int
	Index    int    // индекс битой точки, -1 если дело в длине
	Reason   string // "length" | "non_finite"
}

func (e *MalformedInputError) Error() string {
	if e.Reason == "length" {
		return fmt.Sprintf("malformed landmarks: expected %d points, got %d", e.Expected, e.Got)
	}
	return fmt.Sprintf("malformed landmarks: non-finite coordinate at point %d", e.Index)
}

// LandmarkSet — проверенный упорядоченный набор точек с доступом по семантическому имени.
type LandmarkSet struct {
	points []Point
	index  map[string]int
}

// Normalize валидирует сырой массив точек и строит LandmarkSet.
// Длина должна точно совпадать с ожидаемой для источника; каждая координата — конечное число.
func Normalize(raw []Point, expected int) (*LandmarkSet, error) {
	if len(raw) != expected {
		return nil, &MalformedInputError{Expected: expected, Got: len(raw), Index: -1, Reason: "length"}
	}
	for i, p := range raw {
		if !finite(p.X) || !finite(p.Y) {
			return nil, &MalformedInputError{Expected: expected, Got: len(raw), Index: i, Reason: "non_finite"}
		}
	}
	pts := make([]Point, len(raw))
	copy(pts, raw)
	return &LandmarkSet{points: pts, index: nameIndex106}, nil
}

// Normalize106 — сокращение для источника AILab landmark106.
func Normalize106(raw []Point) (*LandmarkSet, error) {
	return Normalize(raw, LandmarkCount106)
}

// Point возвращает точку по семантическому имени.
func (ls *LandmarkSet) Point(name string) (Point, bool) {
	i, ok := ls.index[name]
	if !ok || i >= len(ls.points) {
		return Point{}, false
	}
	return ls.points[i], true
}

// Len возвращает число точек в наборе.
func (ls *LandmarkSet) Len() int { return len(ls.points) }

// HasName сообщает, определено ли семантическое имя в таблице раскладки.
func (ls *LandmarkSet) HasName(name string) bool {
	_, ok := ls.index[name]
	return ok
}

func definedName(name string) bool {
	_, ok := nameIndex106[name]
	return ok
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
