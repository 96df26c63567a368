package photocheck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lookism-bot/api/internal/facepp"
)

type fakeDetector struct {
	resp facepp.DetectResponse
	err  error
}

func (f *fakeDetector) Detect(_ context.Context, _ []byte) (facepp.DetectResponse, error) {
	return f.resp, f.err
}

// jpegBytes собирает валидный по сигнатуре JPEG нужного размера.
func jpegBytes(size int) []byte {
	b := make([]byte, size)
	b[0], b[1] = 0xFF, 0xD8
	return b
}

func faceWithYaw(yaw float64) facepp.DetectResponse {
	return facepp.DetectResponse{
		FaceNum: 1,
		Faces: []facepp.Face{{
			Attributes: facepp.Attributes{
				Headpose: facepp.Headpose{YawAngle: yaw},
			},
		}},
	}
}

func TestCheck_FrontAccepted(t *testing.T) {
	c := New(&fakeDetector{resp: faceWithYaw(5)})
	res, err := c.Check(context.Background(), jpegBytes(60*1024), PoseFront)
	require.NoError(t, err)
	require.True(t, res.OK)
	require.NotNil(t, res.Face)
}

func TestCheck_FrontRejectsTurnedHead(t *testing.T) {
	c := New(&fakeDetector{resp: faceWithYaw(35)})
	res, err := c.Check(context.Background(), jpegBytes(60*1024), PoseFront)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "анфас")
}

func TestCheck_ProfileRejectsFrontalPhoto(t *testing.T) {
	c := New(&fakeDetector{resp: faceWithYaw(10)})
	res, err := c.Check(context.Background(), jpegBytes(60*1024), PoseProfile)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "профиль")
}

func TestCheck_ProfileAccepted(t *testing.T) {
	// отрицательный yaw (поворот в другую сторону) тоже профиль
	c := New(&fakeDetector{resp: faceWithYaw(-45)})
	res, err := c.Check(context.Background(), jpegBytes(60*1024), PoseProfile)
	require.NoError(t, err)
	require.True(t, res.OK)
}

func TestCheck_NoFaces(t *testing.T) {
	c := New(&fakeDetector{resp: facepp.DetectResponse{}})
	res, err := c.Check(context.Background(), jpegBytes(60*1024), PoseFront)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "не найдено")
}

func TestCheck_MultipleFaces(t *testing.T) {
	resp := facepp.DetectResponse{
		FaceNum: 2,
		Faces:   []facepp.Face{{}, {}},
	}
	c := New(&fakeDetector{resp: resp})
	res, err := c.Check(context.Background(), jpegBytes(60*1024), PoseFront)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "несколько лиц")
}

func TestCheck_SizeLimits(t *testing.T) {
	c := New(&fakeDetector{resp: faceWithYaw(0)})

	res, err := c.Check(context.Background(), jpegBytes(10*1024), PoseFront)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "маленькое")

	res, err = c.Check(context.Background(), jpegBytes(11*1024*1024), PoseFront)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "большое")
}

func TestCheck_RejectsNonImage(t *testing.T) {
	b := make([]byte, 60*1024) // нулевые байты — не JPEG и не PNG
	c := New(&fakeDetector{resp: faceWithYaw(0)})
	res, err := c.Check(context.Background(), b, PoseFront)
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Contains(t, res.Reason, "формат")
}
