package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const defaultEmbeddingURL = "http://localhost:8000"

// ErrNoFace is returned when the server detects no face in the image.
var ErrNoFace = errors.New("no face detected")

// HTTPSource computes face embeddings using an external embedding server.
//
// The server contract is POST {baseURL}/embed/face with a multipart "file"
// field, answering {"faces_count": n, "faces": [{"embedding": [...],
// "det_score": s, ...}], "model": "..."}. The face with the highest detection
// score is used.
type HTTPSource struct {
	baseURL string
	dim     int
	client  *http.Client
}

// NewHTTPSource creates a new embedding server client.
func NewHTTPSource(baseURL string, dim int) *HTTPSource {
	if baseURL == "" {
		baseURL = defaultEmbeddingURL
	}
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		dim:     dim,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type faceDetection struct {
	FaceIndex int       `json:"face_index"`
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
	BBox      []float64 `json:"bbox"`
	DetScore  float64   `json:"det_score"`
}

type faceResponse struct {
	FacesCount int             `json:"faces_count"`
	Faces      []faceDetection `json:"faces"`
	Model      string          `json:"model"`
}

// Embed posts the image and returns the embedding of the most confident face.
func (c *HTTPSource) Embed(ctx context.Context, imageData []byte) ([]float32, error) {
	body, err := c.postMultipartImage(ctx, "/embed/face", imageData)
	if err != nil {
		return nil, err
	}

	var resp faceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Faces) == 0 {
		return nil, ErrNoFace
	}

	best := resp.Faces[0]
	for _, f := range resp.Faces[1:] {
		if f.DetScore > best.DetScore {
			best = f
		}
	}
	if len(best.Embedding) == 0 {
		return nil, errors.New("empty embedding returned")
	}
	if c.dim > 0 && len(best.Embedding) != c.dim {
		return nil, fmt.Errorf("embedding has %d dimensions, want %d", len(best.Embedding), c.dim)
	}
	return best.Embedding, nil
}

func (c *HTTPSource) postMultipartImage(ctx context.Context, endpoint string, imageData []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="image"`)
	h.Set("Content-Type", http.DetectContentType(imageData))
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
