package ailab

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSign_SortedParams(t *testing.T) {
	c := New("key", "secret")
	params := map[string]string{
		"timestamp":       "1700000000",
		"apikey":          "key",
		"return_landmark": "106",
	}

	// подпись считается по параметрам, отсортированным по ключу
	mac := hmac.New(sha256.New, []byte("secret"))
	mac.Write([]byte("apikey=key&return_landmark=106&timestamp=1700000000"))
	want := hex.EncodeToString(mac.Sum(nil))

	require.Equal(t, want, c.sign(params))
}

func TestSign_EscapesValues(t *testing.T) {
	c := New("k", "s")
	got := c.sign(map[string]string{"apikey": "a b&c"})

	mac := hmac.New(sha256.New, []byte("s"))
	mac.Write([]byte("apikey=a+b%26c"))
	require.Equal(t, hex.EncodeToString(mac.Sum(nil)), got)
}

func TestLandmarks_Flattens(t *testing.T) {
	r := AnalyzeResponse{}
	r.Data.Landmark106 = []LandmarkPoint{{X: 1, Y: 2}, {X: 3, Y: 4}}
	require.Equal(t, []float64{1, 2, 3, 4}, r.Landmarks())
}
