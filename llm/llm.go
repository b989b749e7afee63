// Package llm generates bill summaries and debate arguments.
package llm

import (
	"context"
	"fmt"
)

// Client is a chat completion backend.
type Client interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Default models for each task.
const (
	SummaryModel   = "gpt-3.5-turbo"
	ArgumentsModel = "gpt-4-turbo-preview"
)

const (
	summarySystem = "You are going to generate a 3-4 sentence response summarizing a bill passed in the Florida senate. You will receive the raw text of the bill. Do not include the title of the bill in the summary or the reference numbers. Do not mention the bill number either."

	prosSystem = "You are a helpful assistant designed to generate pros for supporting a bill based on its summary. You must specifically have 3 Pros, separated by numbers--no exceptions. Numbers separated as 1) 2) 3)"
	consSystem = "You are a helpful assistant designed to generate cons against supporting a bill based on its summary. You must specifically have 3 Cons, separated by numbers--no exceptions. Numbers separated as 1) 2) 3)"
)

// Generator produces summaries and pro/con arguments for a bill.
type Generator struct {
	Client Client

	// SummaryModel and ArgumentsModel override the defaults when set.
	SummaryModel   string
	ArgumentsModel string
}

// NewGenerator creates a Generator with default models.
func NewGenerator(c Client) *Generator {
	return &Generator{Client: c, SummaryModel: SummaryModel, ArgumentsModel: ArgumentsModel}
}

// Summarize produces a short summary of the bill text, omitting bill numbers.
func (g *Generator) Summarize(ctx context.Context, fullText string) (string, error) {
	out, err := g.Client.Complete(ctx, g.summaryModel(), summarySystem,
		fmt.Sprintf("Please summarize the following text:\n\n%s", fullText))
	if err != nil {
		return "", fmt.Errorf("summarizing bill: %w", err)
	}
	return out, nil
}

// GeneratePros produces three numbered arguments in favor of the bill.
func (g *Generator) GeneratePros(ctx context.Context, fullText string) (string, error) {
	out, err := g.Client.Complete(ctx, g.argumentsModel(), prosSystem,
		fmt.Sprintf("What are the pros of supporting this bill? Make it no more than 2 sentences \n\n%s", fullText))
	if err != nil {
		return "", fmt.Errorf("generating pros: %w", err)
	}
	return out, nil
}

// GenerateCons produces three numbered arguments against the bill.
func (g *Generator) GenerateCons(ctx context.Context, fullText string) (string, error) {
	out, err := g.Client.Complete(ctx, g.argumentsModel(), consSystem,
		fmt.Sprintf("What are the cons of supporting this bill? Make it no more than 2 sentences \n\n%s", fullText))
	if err != nil {
		return "", fmt.Errorf("generating cons: %w", err)
	}
	return out, nil
}

func (g *Generator) summaryModel() string {
	if g.SummaryModel != "" {
		return g.SummaryModel
	}
	return SummaryModel
}

func (g *Generator) argumentsModel() string {
	if g.ArgumentsModel != "" {
		return g.ArgumentsModel
	}
	return ArgumentsModel
}
