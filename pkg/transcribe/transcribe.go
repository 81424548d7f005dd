// Package transcribe defines the contract with the external
// speech-to-text service and an HTTP client for it.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const uploadTimeout = 30 * time.Minute

type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type client struct {
	baseURL string
	model   string
	http    *http.Client
}

// NewClient talks to a transcription service exposing POST
// {baseURL}/v1/transcribe accepting a multipart "file" field plus a
// "model" field and returning {"text": "..."}.
func NewClient(baseURL, model string) Transcriber {
	return &client{
		baseURL: baseURL,
		model:   model,
		http:    &http.Client{Timeout: uploadTimeout},
	}
}

type transcribeResponse struct {
	Text string `json:"text"`
}

func (c *client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	if c.model != "" {
		if err := mw.WriteField("model", c.model); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/transcribe", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, string(msg))
	}

	var decoded transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return strings.TrimSpace(decoded.Text), nil
}
