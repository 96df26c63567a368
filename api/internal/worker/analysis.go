package worker

import (
	"context"
	"fmt"

	"lookism-bot/api/internal/ailab"
	"lookism-bot/api/internal/engine"
	"lookism-bot/api/internal/facepp"
)

// Result — полный результат анализа одной сессии. Сохраняется в sessions.result_json.
type Result struct {
	Rating   engine.RatingResult `json:"rating"`
	Metrics  engine.MetricSet    `json:"metrics"`
	Symmetry float64             `json:"symmetry"`
	Skin     engine.SkinResult   `json:"skin"`
	Beauty   float64             `json:"beauty_score"`
	Age      int                 `json:"age"`
	Gender   string              `json:"gender"`
	Profile  *ProfilePose        `json:"profile,omitempty"`
}

// ProfilePose — поза головы на профильном фото (для истории и будущих метрик профиля).
type ProfilePose struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// analyze гоняет фронтальное фото через Face++ и AILab и собирает результат:
// атрибуты от Face++, геометрия — по 106 точкам AILab. Профильное фото
// обрабатывается best-effort: рейтинг считается по анфасу.
func (w *Worker) analyze(ctx context.Context, front, profile []byte) (*Result, error) {
	fppResp, err := w.FPP.Detect(ctx, front)
	if err != nil {
		return nil, fmt.Errorf("facepp: %w", err)
	}
	if len(fppResp.Faces) == 0 {
		return nil, fmt.Errorf("facepp: no faces detected")
	}
	face := fppResp.Faces[0]

	alResp, err := w.AILab.Analyze(ctx, front)
	if err != nil {
		return nil, fmt.Errorf("ailab: %w", err)
	}

	pts := make([]engine.Point, 0, len(alResp.Data.Landmark106))
	for _, p := range alResp.Data.Landmark106 {
		pts = append(pts, engine.Point{X: p.X, Y: p.Y})
	}
	ls, err := engine.Normalize106(pts)
	if err != nil {
		return nil, fmt.Errorf("landmarks: %w", err)
	}

	metrics := engine.ComputeAll(w.Agg.Config(), ls)

	symmetry := 0.0
	if s, ok := engine.SymmetryScore(ls); ok {
		symmetry = s
	}

	// beauty: берём оценку по полу, который увидел Face++
	beauty := face.Attributes.Beauty.MaleScore
	if face.Attributes.Gender.Value == "Female" {
		beauty = face.Attributes.Beauty.FemaleScore
	}

	skin := engine.SkinScore(engine.SkinInput{
		Health:      face.Attributes.Skinstatus.Health,
		Acne:        face.Attributes.Skinstatus.Acne,
		Stain:       face.Attributes.Skinstatus.Stain,
		FaceQuality: 100,
	})

	rating := w.Agg.Aggregate(metrics, beauty, symmetry*100)

	res := &Result{
		Rating:   rating,
		Metrics:  metrics,
		Symmetry: symmetry,
		Skin:     skin,
		Beauty:   beauty,
		Age:      face.Attributes.Age.Value,
		Gender:   face.Attributes.Gender.Value,
	}

	if len(profile) > 0 {
		if pr, err := w.FPP.Detect(ctx, profile); err == nil && len(pr.Faces) > 0 {
			hp := pr.Faces[0].Attributes.Headpose
			res.Profile = &ProfilePose{Yaw: hp.YawAngle, Pitch: hp.PitchAngle, Roll: hp.RollAngle}
		}
	}

	return res, nil
}

// интерфейсы клиентов — чтобы в тестах подменять сетевые вызовы
type faceDetector interface {
	Detect(ctx context.Context, image []byte) (facepp.DetectResponse, error)
}

type landmarkClient interface {
	Analyze(ctx context.Context, image []byte) (ailab.AnalyzeResponse, error)
}
