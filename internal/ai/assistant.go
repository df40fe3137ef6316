package ai

import (
	"context"
	"strings"
	"time"

	"github.com/JonMunkholm/dgref/internal/core"
	"github.com/JonMunkholm/dgref/internal/logging"
)

// Fixed messages returned in place of a model answer.
const (
	UnconfiguredMessage = "AI assistant is not configured. Set GEMINI_API_KEY to enable it."
	FailureMessage      = "The assistant could not complete this request. Please try again."
)

// Answer is what the assistant returns for every request.
type Answer struct {
	Text    string                  `json:"text"`
	Sources []Source                `json:"sources"`
	Status  core.ConsultationStatus `json:"status"`
}

// Options configures an Assistant.
type Options struct {
	// Timeout bounds each provider call. Zero means no extra deadline.
	Timeout time.Duration

	// Grounded enables web search grounding on every request.
	Grounded bool
}

// Assistant answers chat questions, audits shipments and verifies records.
// Failures are logged and replaced by FailureMessage; a missing provider
// yields UnconfiguredMessage. Concurrent requests are independent.
type Assistant struct {
	provider Provider
	journal  core.Journal
	opts     Options
}

// NewAssistant creates an Assistant. provider may be nil when no API key is
// configured; journal may be nil to skip recording.
func NewAssistant(provider Provider, journal core.Journal, opts Options) *Assistant {
	return &Assistant{provider: provider, journal: journal, opts: opts}
}

// Configured reports whether a provider is available.
func (a *Assistant) Configured() bool {
	return a.provider != nil
}

// Chat answers a free-form question.
func (a *Assistant) Chat(ctx context.Context, question string) Answer {
	return a.ask(ctx, core.KindChat, chatPrompt(question))
}

// AuditShipment checks a shipment for non-compliance.
func (a *Assistant) AuditShipment(ctx context.Context, shipment Shipment) Answer {
	return a.ask(ctx, core.KindAudit, auditPrompt(shipment))
}

// VerifyRecord asks the model to check one record of a dataset.
func (a *Assistant) VerifyRecord(ctx context.Context, dataset string, rec core.Record) Answer {
	return a.ask(ctx, core.KindVerify, verifyPrompt(dataset, rec))
}

func (a *Assistant) ask(ctx context.Context, kind core.ConsultationKind, prompt string) Answer {
	logger := logging.WithFields(ctx, "kind", string(kind))
	start := time.Now()

	answer := a.generate(ctx, prompt)
	if answer.Status == core.StatusFailed {
		logger.Warn("assistant request failed", "duration_ms", time.Since(start).Milliseconds())
	} else {
		logger.Info("assistant request",
			"status", string(answer.Status),
			"sources", len(answer.Sources),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	if a.journal != nil {
		_, err := a.journal.Record(ctx, core.ConsultationParams{
			Kind:     kind,
			Status:   answer.Status,
			Prompt:   prompt,
			Sources:  len(answer.Sources),
			Duration: time.Since(start),
		})
		if err != nil {
			logger.Error("record consultation failed", "error", err)
		}
	}
	return answer
}

func (a *Assistant) generate(ctx context.Context, prompt string) Answer {
	if a.provider == nil {
		return Answer{Text: UnconfiguredMessage, Sources: []Source{}, Status: core.StatusUnconfigured}
	}
	if strings.TrimSpace(prompt) == "" {
		return failed()
	}

	if a.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.Timeout)
		defer cancel()
	}

	resp, err := a.provider.Generate(ctx, Request{
		System:   systemPrompt,
		Prompt:   prompt,
		Grounded: a.opts.Grounded,
	})
	if err != nil {
		logging.FromContext(ctx).Error("provider call failed", "error", err)
		return failed()
	}
	if strings.TrimSpace(resp.Text) == "" {
		logging.FromContext(ctx).Error("provider returned empty text")
		return failed()
	}

	sources := resp.Sources
	if sources == nil {
		sources = []Source{}
	}
	return Answer{Text: resp.Text, Sources: sources, Status: core.StatusOK}
}

func failed() Answer {
	return Answer{Text: FailureMessage, Sources: []Source{}, Status: core.StatusFailed}
}
