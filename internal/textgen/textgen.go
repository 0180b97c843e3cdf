// Package textgen wraps the external text-generation API
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrDisabled is returned when no API key is configured
var ErrDisabled = errors.New("text generation is not configured")

const requestTimeout = 30 * time.Second

// Generator produces text for a prompt under a system instruction
type Generator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}

// Gemini generates text with the Gemini API
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends one prompt and returns the trimmed response text
func (g *Gemini) Generate(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

// Disabled is the generator used without an API key. Callers fall back to
// static content.
type Disabled struct{}

// Generate always returns ErrDisabled
func (Disabled) Generate(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

// New returns a Gemini generator when apiKey is set and Disabled otherwise
func New(ctx context.Context, apiKey, model string) (Generator, error) {
	if apiKey == "" {
		return Disabled{}, nil
	}
	return NewGemini(ctx, apiKey, model)
}
