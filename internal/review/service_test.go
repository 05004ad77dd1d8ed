package review

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/radarobras/radar_api/internal/apperrors"
	"github.com/radarobras/radar_api/internal/identity"
	openai "github.com/sashabaranov/go-openai"
)

type completerStub struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (c *completerStub) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	c.req = req
	return c.resp, c.err
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func adminCtx() context.Context {
	return identity.WithUser(context.Background(), "usr_a", "admin", "")
}

func TestCollectSourceHeadsFilesWithPaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "internal/api/router.go", "package api\n")
	writeFile(t, dir, "node_modules/dep/index.js", "ignored")
	writeFile(t, dir, "logo.png", "\x89PNG")

	src, err := CollectSource(dir)
	if err != nil {
		t.Fatalf("collect error: %v", err)
	}
	if !strings.Contains(src, "===== main.go =====") {
		t.Fatal("main.go header missing")
	}
	if !strings.Contains(src, "===== internal/api/router.go =====") {
		t.Fatal("nested file header missing")
	}
	if strings.Contains(src, "node_modules") {
		t.Fatal("node_modules not skipped")
	}
	if strings.Contains(src, "logo.png") {
		t.Fatal("binary file not skipped")
	}
}

func TestRunSendsSourceToModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")

	stub := &completerStub{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "Resumo: ok."}},
		},
	}}
	svc := &Service{Client: stub, SourceRoot: dir}

	res, err := svc.Run(adminCtx())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if res.Review != "Resumo: ok." {
		t.Fatalf("unexpected review: %q", res.Review)
	}
	if len(stub.req.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(stub.req.Messages))
	}
	if !strings.Contains(stub.req.Messages[1].Content, "package main") {
		t.Fatal("source not included in prompt")
	}
}

func TestRunForbiddenForNonAdmin(t *testing.T) {
	svc := &Service{Client: &completerStub{}, SourceRoot: t.TempDir()}

	ctx := identity.WithUser(context.Background(), "usr_1", "gerente", "loja_1")
	_, err := svc.Run(ctx)

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRunProviderFailure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")

	svc := &Service{Client: &completerStub{err: errors.New("rate limited")}, SourceRoot: dir}
	_, err := svc.Run(adminCtx())

	var appErr *apperrors.Error
	if !errors.As(err, &appErr) || appErr.Kind != apperrors.KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}
