package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/FranciscoRer293/pizzaria-ultimat/lang"
	"github.com/FranciscoRer293/pizzaria-ultimat/models"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// ErrInterpreter wraps failures of the free-form interpreter.
var ErrInterpreter = errors.New("interpreter")

// Interpreter answers messages that match none of the fixed patterns.
type Interpreter interface {
	Interpret(ctx context.Context, history []Turn) (string, error)
}

// contentGenerator is the part of llms.Model the interpreter needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type LLMConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LLMInterpreter asks an OpenAI-compatible model for the reply.
type LLMInterpreter struct {
	model     contentGenerator
	system    string
	maxTokens int
}

func NewLLMInterpreter(cfg LLMConfig, system string) (*LLMInterpreter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	opts := []openai.Option{openai.WithToken(cfg.APIKey)}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return newLLMInterpreter(client, system), nil
}

func newLLMInterpreter(model contentGenerator, system string) *LLMInterpreter {
	return &LLMInterpreter{model: model, system: system, maxTokens: 300}
}

func (i *LLMInterpreter) Interpret(ctx context.Context, history []Turn) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+1)
	if i.system != "" {
		messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, i.system))
	}
	for _, t := range history {
		msgType := schema.ChatMessageTypeHuman
		if t.Role == RoleBot {
			msgType = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(msgType, t.Text))
	}

	resp, err := i.model.GenerateContent(ctx, messages,
		llms.WithMaxTokens(i.maxTokens),
		llms.WithTemperature(0.3),
	)
	if err != nil {
		return "", fmt.Errorf("%w: generate: %v", ErrInterpreter, err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", fmt.Errorf("%w: empty response", ErrInterpreter)
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

// CannedInterpreter is used when no model is configured.
type CannedInterpreter struct{}

func (CannedInterpreter) Interpret(context.Context, []Turn) (string, error) {
	return lang.T("interpreter_default"), nil
}

// BuildInterpreterPrompt is the system prompt describing the pizzeria.
func BuildInterpreterPrompt(cat *models.Catalog, digitalMenuURL string) string {
	var b strings.Builder
	b.WriteString(`Você é o atendente virtual da Pizzaria Di Casa em um chat.
Responda em português, de forma curta e simpática, sem inventar preços ou sabores.
Se o cliente quiser pedir, explique que ele deve escrever quantidade, tamanho (P, G ou F) e sabores,
por exemplo: "1 G Calabresa com borda". Para ver o menu ele pode digitar "menu".
`)
	b.WriteString("\nCardápio:\n")
	for _, s := range []models.Size{models.SizeSmall, models.SizeLarge, models.SizeFamily} {
		if p, ok := cat.Price(s); ok {
			fmt.Fprintf(&b, "- Pizza %s: %s\n", s, FormatMoney(p))
		}
	}
	fmt.Fprintf(&b, "- Borda recheada: + %s\n", FormatMoney(cat.CrustPrice))
	b.WriteString("Sabores: ")
	names := make([]string, len(cat.Flavors))
	for i, f := range cat.Flavors {
		names[i] = f.Name
	}
	b.WriteString(strings.Join(names, ", "))
	if digitalMenuURL != "" {
		fmt.Fprintf(&b, "\nCardápio digital: %s", digitalMenuURL)
	}
	return b.String()
}
