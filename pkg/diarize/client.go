package diarize

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
	"time"
)

const uploadTimeout = 30 * time.Minute

type client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient talks to a diarization service exposing POST
// {baseURL}/v1/diarize accepting a multipart "file" field and returning
// {"speakers": [SpeakerTrack...]}.
func NewClient(baseURL, token string) Diarizer {
	return &client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: uploadTimeout},
	}
}

type diarizeResponse struct {
	Speakers []SpeakerTrack `json:"speakers"`
}

func (c *client) Diarize(ctx context.Context, audioPath string) ([]SpeakerTrack, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/diarize", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("diarization request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("diarization service returned %d: %s", resp.StatusCode, string(msg))
	}

	var decoded diarizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode diarization response: %w", err)
	}
	return decoded.Speakers, nil
}
