package photocheck

import (
	"context"
	"fmt"
	"math"

	"lookism-bot/api/internal/facepp"
	"lookism-bot/api/internal/util"
)

// Pose — ожидаемый ракурс фото.
type Pose string

const (
	PoseFront   Pose = "front"
	PoseProfile Pose = "profile"
)

const (
	MinFileSize = 50 * 1024
	MaxFileSize = 10 * 1024 * 1024

	// Пороговые углы поворота головы (yaw) по Face++ headpose.
	frontMaxYaw   = 20.0
	profileMinYaw = 30.0
)

// Result — итог валидации одного фото.
type Result struct {
	OK     bool
	Reason string       // текст для пользователя, если OK=false
	Face   *facepp.Face // найденное лицо, если OK=true
}

type detector interface {
	Detect(ctx context.Context, image []byte) (facepp.DetectResponse, error)
}

type Checker struct {
	fpp detector
}

func New(fpp detector) *Checker { return &Checker{fpp: fpp} }

// CheckSize проверяет размер файла до похода во внешний API.
func CheckSize(size int) (bool, string) {
	switch {
	case size < MinFileSize:
		return false, "Фото слишком маленькое (меньше 50 КБ). Пришлите снимок в лучшем качестве."
	case size > MaxFileSize:
		return false, "Фото слишком большое (больше 10 МБ). Сожмите снимок и пришлите снова."
	}
	return true, ""
}

// Check валидирует фото: ровно одно лицо и подходящий ракурс.
func (c *Checker) Check(ctx context.Context, image []byte, pose Pose) (Result, error) {
	if ok, reason := CheckSize(len(image)); !ok {
		return Result{Reason: reason}, nil
	}
	if m := util.SniffMimeHTTP(image); m != "image/jpeg" && m != "image/png" {
		return Result{Reason: "Такой формат файла не подойдёт. Пришлите фото в JPEG или PNG."}, nil
	}

	resp, err := c.fpp.Detect(ctx, image)
	if err != nil {
		return Result{}, err
	}

	faces := resp.Faces
	if len(faces) == 0 {
		return Result{Reason: "На фото не найдено ни одного лица. Пожалуйста, попробуйте другое фото."}, nil
	}
	if len(faces) > 1 {
		return Result{Reason: fmt.Sprintf("На фото найдено несколько лиц (%d). Пожалуйста, выберите фото с одним лицом.", len(faces))}, nil
	}

	face := faces[0]
	yaw := math.Abs(face.Attributes.Headpose.YawAngle)

	switch pose {
	case PoseFront:
		if yaw > frontMaxYaw {
			return Result{Reason: fmt.Sprintf("Это фото больше похоже на профиль (угол поворота %d°). Пожалуйста, загрузите фото анфас.", int(yaw))}, nil
		}
	case PoseProfile:
		if yaw < profileMinYaw {
			return Result{Reason: fmt.Sprintf("Это фото больше похоже на анфас (угол поворота %d°). Пожалуйста, загрузите фото в профиль.", int(yaw))}, nil
		}
	}

	return Result{OK: true, Face: &face}, nil
}
