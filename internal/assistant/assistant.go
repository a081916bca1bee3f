// Package assistant answers free-form market questions with an LLM grounded
// on the text briefing of the current snapshot. It never classifies jobs.
package assistant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
)

// ErrDisabled is returned by the Disabled assistant.
var ErrDisabled = errors.New("assistant is disabled; set assistant.enabled: true in config.yaml")

// ErrEmptyQuestion is returned when the question is blank.
var ErrEmptyQuestion = errors.New("question must not be empty")

// Asker answers a question given the market context.
type Asker interface {
	Ask(ctx context.Context, marketContext, question string) (string, error)
}

// LLMAssistant renders the prompt and sends it to a provider.
type LLMAssistant struct {
	provider LLMProvider
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewLLMAssistant creates an assistant backed by provider.
func NewLLMAssistant(provider LLMProvider, tmpl *template.Template, logger *slog.Logger) *LLMAssistant {
	return &LLMAssistant{
		provider: provider,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// Ask answers question using marketContext as the only data source.
func (a *LLMAssistant) Ask(ctx context.Context, marketContext, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	var promptBuf bytes.Buffer
	if err := a.tmpl.Execute(&promptBuf, struct{ Context, Question string }{
		Context:  marketContext,
		Question: question,
	}); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	if a.logger != nil {
		a.logger.Debug("asking assistant", "prompt_bytes", promptBuf.Len())
	}
	answer, err := a.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		return "", fmt.Errorf("llm complete: %w", err)
	}
	return strings.TrimSpace(answer), nil
}
