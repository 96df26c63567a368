package facepp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const detectURL = "https://api-us.faceplusplus.com/facepp/v3/detect"

// Client — клиент Face++ Detect API. Используется для атрибутов лица
// (beauty, headpose, skinstatus, возраст, пол) и проверки количества лиц.
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

// DetectResponse — ответ /detect (только нужные нам поля).
type DetectResponse struct {
	RequestID    string `json:"request_id"`
	FaceNum      int    `json:"face_num"`
	Faces        []Face `json:"faces"`
	ErrorMessage string `json:"error_message"`
}

type Face struct {
	FaceToken     string     `json:"face_token"`
	FaceRectangle Rectangle  `json:"face_rectangle"`
	Attributes    Attributes `json:"attributes"`
}

type Rectangle struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Attributes struct {
	Beauty     Beauty     `json:"beauty"`
	Headpose   Headpose   `json:"headpose"`
	Skinstatus Skinstatus `json:"skinstatus"`
	Age        IntValue   `json:"age"`
	Gender     StrValue   `json:"gender"`
}

type Beauty struct {
	MaleScore   float64 `json:"male_score"`
	FemaleScore float64 `json:"female_score"`
}

type Headpose struct {
	YawAngle   float64 `json:"yaw_angle"`
	PitchAngle float64 `json:"pitch_angle"`
	RollAngle  float64 `json:"roll_angle"`
}

type Skinstatus struct {
	Health     float64 `json:"health"`
	Stain      float64 `json:"stain"`
	Acne       float64 `json:"acne"`
	DarkCircle float64 `json:"dark_circle"`
}

type IntValue struct {
	Value int `json:"value"`
}

type StrValue struct {
	Value string `json:"value"`
}

// Detect загружает изображение и возвращает разобранный ответ Face++.
// Ошибку API (error_message в JSON) возвращаем как обычную ошибку.
func (c *Client) Detect(ctx context.Context, image []byte) (DetectResponse, error) {
	if c.APIKey == "" || c.APISecret == "" {
		return DetectResponse{}, fmt.Errorf("FACEPP_API_KEY/FACEPP_API_SECRET not set")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("api_key", c.APIKey)
	_ = w.WriteField("api_secret", c.APISecret)
	_ = w.WriteField("return_landmark", "1")
	_ = w.WriteField("return_attributes", "beauty,emotion,age,gender,headpose,skinstatus,dark_circle")
	fw, err := w.CreateFormFile("image_file", "image.jpg")
	if err != nil {
		return DetectResponse{}, err
	}
	if _, err := fw.Write(image); err != nil {
		return DetectResponse{}, err
	}
	if err := w.Close(); err != nil {
		return DetectResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", detectURL, &buf)
	if err != nil {
		return DetectResponse{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return DetectResponse{}, fmt.Errorf("facepp detect: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return DetectResponse{}, err
	}

	var r DetectResponse
	// Face++ и на 4xx присылает JSON с error_message — сначала пробуем разобрать.
	if err := json.Unmarshal(body, &r); err != nil {
		if resp.StatusCode != 200 {
			return DetectResponse{}, fmt.Errorf("facepp detect %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return DetectResponse{}, fmt.Errorf("facepp detect: bad JSON: %w", err)
	}
	if r.ErrorMessage != "" {
		return DetectResponse{}, fmt.Errorf("facepp detect: %s", r.ErrorMessage)
	}
	if resp.StatusCode != 200 {
		return DetectResponse{}, fmt.Errorf("facepp detect %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return r, nil
}
