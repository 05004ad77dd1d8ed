package review

import (
	"context"
	"strings"
	"time"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	"github.com/radarobras/radar_api/internal/telemetry"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `Você é um revisor de código sênior. Analise o código-fonte a seguir e produza, em português:

1. Resumo geral da arquitetura e qualidade do código.
2. Problemas críticos (bugs, falhas de segurança, condições de corrida), com arquivo e trecho.
3. Sugestões de melhoria, em ordem de impacto.

Seja direto e específico. Não elogie por elogiar.`

type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Result struct {
	Review      string    `json:"review"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Service runs a full-repo code review through a chat model. Admin only:
// the collected source is sent to an external provider.
type Service struct {
	Client     Completer
	Model      string
	SourceRoot string
}

func (s *Service) Run(ctx context.Context) (*Result, error) {
	if !identity.IsAdmin(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}
	if s.Client == nil {
		return nil, apperrors.New(apperrors.KindInternal, "review client not configured")
	}

	root := s.SourceRoot
	if root == "" {
		root = "."
	}

	source, err := CollectSource(root)
	if err != nil {
		return nil, apperrors.New(apperrors.KindInternal, "failed to collect source")
	}
	if strings.TrimSpace(source) == "" {
		return nil, apperrors.New(apperrors.KindInvalidInput, "no source files found")
	}

	model := s.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	start := time.Now()
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: source},
		},
	})
	if err != nil {
		telemetry.LogError(ctx, "code review failed",
			telemetry.LogString("review.model", model),
			telemetry.LogString("error", err.Error()),
		)
		return nil, apperrors.New(apperrors.KindInternal, "review provider failed")
	}
	if len(resp.Choices) == 0 {
		return nil, apperrors.New(apperrors.KindInternal, "review provider returned no content")
	}

	telemetry.LogInfo(ctx, "code review completed",
		telemetry.LogString("review.model", model),
		telemetry.LogString("review.duration", time.Since(start).String()),
	)

	return &Result{
		Review:      resp.Choices[0].Message.Content,
		Model:       model,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
