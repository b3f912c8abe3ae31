package generator

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"google.golang.org/genai"
)

// GeminiStreamer streams from the Gemini API. The SDK client is created on
// first use so a missing key is reported by Client.Generate, not here.
type GeminiStreamer struct {
	apiKey string

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGeminiStreamer returns a streamer authenticated with apiKey.
func NewGeminiStreamer(apiKey string) *GeminiStreamer {
	return &GeminiStreamer{apiKey: apiKey}
}

func (s *GeminiStreamer) init(ctx context.Context) (*genai.Client, error) {
	s.once.Do(func() {
		s.client, s.err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  s.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if s.err != nil {
			s.err = fmt.Errorf("create gemini client: %w", s.err)
		}
	})
	return s.client, s.err
}

// Stream implements Streamer.
func (s *GeminiStreamer) Stream(ctx context.Context, req Request) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		client, err := s.init(ctx)
		if err != nil {
			yield("", err)
			return
		}

		temperature := req.Temperature
		cfg := &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(req.SystemInstruction, genai.RoleUser),
			Temperature:       &temperature,
		}

		for resp, err := range client.Models.GenerateContentStream(ctx, req.Model, genai.Text(req.Prompt), cfg) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(resp.Text(), nil) {
				return
			}
		}
	}
}

var _ Streamer = (*GeminiStreamer)(nil)
