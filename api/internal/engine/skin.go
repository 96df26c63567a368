package engine

// SkinInput — сырые показатели кожи из атрибутов vision API.
// health у источника в диапазоне 0–10, acne и stain 0–100, где больше = хуже.
type SkinInput struct {
	Health      float64
	Acne        float64
	Stain       float64
	FaceQuality float64 // 0–100
}

// SkinResult — перекалиброванные показатели на интуитивной шкале 0–100 (100 = лучшая кожа).
type SkinResult struct {
	SkinScore float64 `json:"skin_score"`
	Health    float64 `json:"health"`
	Acne      float64 `json:"acne"`
	Stain     float64 `json:"stain"`
}

// SkinScore нормализует сырые показатели кожи и сводит их в единый балл.
// Внутренние веса 0.45/0.40/0.15, затем смешивание 0.7/0.3 с качеством кадра.
func SkinScore(in SkinInput) SkinResult {
	// health: источник отдаёт 0–10 для большинства лиц; растягиваем линейно
	// со сдвигом, чтобы низ шкалы не был катастрофой
	health := clamp(in.Health*12.5+20, 0, 100)

	// acne/stain: у источника больше = хуже; переворачиваем в 0–100
	// с небольшим бонусом за идеальную кожу
	acne := clamp(120-1.2*in.Acne, 0, 100)
	stain := clamp(120-1.2*in.Stain, 0, 100)

	weighted := 0.45*health + 0.40*acne + 0.15*stain
	score := 0.7*weighted + 0.3*clamp(in.FaceQuality, 0, 100)

	return SkinResult{
		SkinScore: score,
		Health:    health,
		Acne:      acne,
		Stain:     stain,
	}
}
