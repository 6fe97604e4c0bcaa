package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"
	"time"

	"productivity-ranker/internal/config"
	"productivity-ranker/internal/metrics"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator is the external text-generation service.
type Generator interface {
	Complete(ctx context.Context, msgs []Message) (string, error)
	// Stream yields reply fragments in order. A non-nil error is yielded at
	// most once and ends the sequence.
	Stream(ctx context.Context, msgs []Message) iter.Seq2[string, error]
}

// AIService talks to an OpenAI-compatible chat-completions endpoint.
type AIService struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

func NewAIService(cfg config.LLMConfig) *AIService {
	return newAIService(cfg, time.Duration(cfg.TimeoutSec)*time.Second)
}

// newAIService bounds only the wait for response headers. A streamed reply
// may run as long as the caller's ctx allows.
func newAIService(cfg config.LLMConfig, headerTimeout time.Duration) *AIService {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.ResponseHeaderTimeout = headerTimeout
	return &AIService{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Transport: tr},
	}
}

func (s *AIService) post(ctx context.Context, msgs []Message, stream bool) (*http.Response, error) {
	body := map[string]interface{}{
		"model":       s.model,
		"stream":      stream,
		"temperature": s.temperature,
		"messages":    msgs,
	}
	payload, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	if stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm call: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("llm status %d: %s", resp.StatusCode, data)
	}
	return resp, nil
}

func (s *AIService) Complete(ctx context.Context, msgs []Message) (reply string, err error) {
	start := time.Now()
	defer func() { metrics.LLMCall("complete", err == nil, time.Since(start)) }()

	resp, err := s.post(ctx, msgs, false)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty choices")
	}
	return result.Choices[0].Message.Content, nil
}

func (s *AIService) Stream(ctx context.Context, msgs []Message) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		var err error
		defer func() { metrics.LLMCall("stream", err == nil, time.Since(start)) }()

		var resp *http.Response
		resp, err = s.post(ctx, msgs, true)
		if err != nil {
			yield("", err)
			return
		}
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(line[5:])
			if data == "[DONE]" {
				return
			}
			var chunk struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
			}
			if json.Unmarshal([]byte(data), &chunk) != nil || len(chunk.Choices) == 0 {
				continue
			}
			if token := chunk.Choices[0].Delta.Content; token != "" {
				if !yield(token, nil) {
					return
				}
			}
		}
		if err = scanner.Err(); err != nil {
			yield("", fmt.Errorf("read stream: %w", err))
		}
	}
}
