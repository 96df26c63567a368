package ailab

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"lookism-bot/api/internal/logger"
)

const analyzeURL = "https://api.ailabapi.com/rest/160/face_analyze"

const (
	maxAttempts  = 3
	retryBackoff = 800 * time.Millisecond
)

// Client — клиент AILab face_analyze. Единственное, что нам от него нужно —
// 106 точек лица (landmark106) для геометрических метрик.
type Client struct {
	APIKey    string
	APISecret string
	httpc     *http.Client
}

func New(key, secret string) *Client {
	return &Client{
		APIKey:    key,
		APISecret: secret,
		httpc:     &http.Client{Timeout: 30 * time.Second},
	}
}

// AnalyzeResponse — ответ face_analyze (errno=0 при успехе).
type AnalyzeResponse struct {
	Errno  int    `json:"errno"`
	Errmsg string `json:"errmsg"`
	Data   Data   `json:"data"`
}

type Data struct {
	Landmark106 []LandmarkPoint `json:"landmark106"`
}

type LandmarkPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmarks возвращает точки плоским массивом [x0 y0 x1 y1 ...] — в таком
// виде их ждёт конвейер метрик.
func (r AnalyzeResponse) Landmarks() []float64 {
	out := make([]float64, 0, len(r.Data.Landmark106)*2)
	for _, p := range r.Data.Landmark106 {
		out = append(out, p.X, p.Y)
	}
	return out
}

// sign — HMAC-SHA256 от urlencoded-параметров, отсортированных по ключу.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(params[k]))
	}

	mac := hmac.New(sha256.New, []byte(c.APISecret))
	mac.Write([]byte(sb.String()))
	return hex.EncodeToString(mac.Sum(nil))
}

// Analyze выполняет запрос с ретраями: до трёх попыток с паузой 800 мс.
// AILab периодически отвечает 5xx под нагрузкой, один ретрай обычно спасает.
func (c *Client) Analyze(ctx context.Context, image []byte) (AnalyzeResponse, error) {
	if c.APIKey == "" || c.APISecret == "" {
		return AnalyzeResponse{}, fmt.Errorf("AILAB_API_KEY/AILAB_API_SECRET not set")
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		r, err := c.analyzeOnce(ctx, image)
		if err == nil {
			return r, nil
		}
		lastErr = err
		logger.Warn("ailab: попытка не удалась", logger.Fields{"attempt": attempt, "err": err})
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return AnalyzeResponse{}, ctx.Err()
			case <-time.After(retryBackoff):
			}
		}
	}
	return AnalyzeResponse{}, lastErr
}

func (c *Client) analyzeOnce(ctx context.Context, image []byte) (AnalyzeResponse, error) {
	params := map[string]string{
		"apikey":          c.APIKey,
		"timestamp":       strconv.FormatInt(time.Now().Unix(), 10),
		"return_landmark": "106",
	}
	params["sign"] = c.sign(params)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	fw, err := w.CreateFormFile("image", "image.jpg")
	if err != nil {
		return AnalyzeResponse{}, err
	}
	if _, err := fw.Write(image); err != nil {
		return AnalyzeResponse{}, err
	}
	if err := w.Close(); err != nil {
		return AnalyzeResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", analyzeURL, &buf)
	if err != nil {
		return AnalyzeResponse{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return AnalyzeResponse{}, fmt.Errorf("ailab analyze: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		x, _ := io.ReadAll(resp.Body)
		return AnalyzeResponse{}, fmt.Errorf("ailab analyze %d: %s", resp.StatusCode, strings.TrimSpace(string(x)))
	}

	var r AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return AnalyzeResponse{}, fmt.Errorf("ailab analyze: bad JSON: %w", err)
	}
	if r.Errno != 0 {
		return AnalyzeResponse{}, fmt.Errorf("ailab analyze: errno=%d %s", r.Errno, r.Errmsg)
	}
	return r, nil
}
