package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Local posts to a self-hosted backend's /predict endpoint. The backend
// answers with either the exact option text or a 1-based index.
type Local struct {
	BaseURL string
	HTTP    *http.Client
}

func NewLocal(baseURL string) *Local {
	return &Local{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type localRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type localResponse struct {
	Success     bool   `json:"success"`
	AnswerIndex *int   `json:"answer_index,omitempty"`
	AnswerText  string `json:"answer_text,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (l *Local) Predict(ctx context.Context, req Request) (Response, error) {
	if l.BaseURL == "" {
		return Response{}, errors.New("local backend URL not configured")
	}
	body, _ := json.Marshal(localRequest{Question: req.Question, Options: req.Options})
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, l.BaseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return Response{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := l.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(httpReq)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return Response{}, fmt.Errorf("local backend: status %d", resp.StatusCode)
	}

	var out localResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Response{}, fmt.Errorf("local backend: decoding response: %w", err)
	}
	if !out.Success {
		if out.Error != "" {
			return Response{}, fmt.Errorf("local backend: %s", out.Error)
		}
		return Response{}, errors.New("local backend: could not determine answer")
	}
	answer := strings.TrimSpace(out.AnswerText)
	if answer == "" && out.AnswerIndex != nil {
		answer = strconv.Itoa(*out.AnswerIndex + 1)
	}
	if answer == "" {
		return Response{}, errors.New("local backend: empty answer")
	}
	return Response{Answer: answer, Provider: "local"}, nil
}
