package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/pairwise/pkg/llm"
	"github.com/papercomputeco/pairwise/pkg/llm/provider"
	"github.com/papercomputeco/pairwise/pkg/llm/provider/openai"
)

type capturedRequest struct {
	Path   string
	Auth   string
	Model  string
	Roles  []string
	Bodies []string
}

// fakeUpstream serves canned chat-completion responses and records what the
// client sent.
type fakeUpstream struct {
	mu       sync.Mutex
	status   int
	body     string
	requests []capturedRequest
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	var decoded struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	_ = json.Unmarshal(raw, &decoded)

	req := capturedRequest{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Model: decoded.Model}
	for _, m := range decoded.Messages {
		req.Roles = append(req.Roles, m.Role)
		req.Bodies = append(req.Bodies, m.Content)
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	status, body := f.status, f.body
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func completionBody(content string) string {
	return `{
		"id": "chatcmpl-123",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "gpt-4",
		"choices": [
			{"index": 0, "message": {"role": "assistant", "content": "` + content + `"}, "finish_reason": "stop"},
			{"index": 1, "message": {"role": "assistant", "content": "ignored"}, "finish_reason": "stop"}
		],
		"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
	}`
}

var _ = Describe("Client", func() {
	var (
		upstream *fakeUpstream
		server   *httptest.Server
		client   provider.Completer
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		upstream = &fakeUpstream{status: http.StatusOK, body: completionBody("Hello there")}
		server = httptest.NewServer(upstream)
		DeferCleanup(server.Close)

		c, err := openai.New(openai.Config{APIKey: "sk-test", BaseURL: server.URL})
		Expect(err).NotTo(HaveOccurred())
		client = c
	})

	Describe("New", func() {
		It("requires an API key", func() {
			_, err := openai.New(openai.Config{BaseURL: server.URL})
			Expect(err).To(MatchError(openai.ErrMissingAPIKey))
		})

		It("rejects a whitespace-only API key", func() {
			_, err := openai.New(openai.Config{APIKey: "  "})
			Expect(err).To(MatchError(openai.ErrMissingAPIKey))
		})
	})

	Describe("Name", func() {
		It("returns 'openai'", func() {
			Expect(client.Name()).To(Equal("openai"))
		})
	})

	Describe("Complete", func() {
		It("returns the first choice's content", func() {
			text, err := client.Complete(ctx, "gpt-4", []llm.Message{
				llm.NewTextMessage(llm.RoleUser, "Hi"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Hello there"))
		})

		It("posts the transcript to the chat completions endpoint", func() {
			_, err := client.Complete(ctx, "gpt-3.5-turbo", llm.Transcript("sys", []llm.Turn{
				{UserPrompt: "q1", ModelResponse: "a1"},
			}, "q2"))
			Expect(err).NotTo(HaveOccurred())

			Expect(upstream.requests).To(HaveLen(1))
			req := upstream.requests[0]
			Expect(req.Path).To(Equal("/chat/completions"))
			Expect(req.Auth).To(Equal("Bearer sk-test"))
			Expect(req.Model).To(Equal("gpt-3.5-turbo"))
			Expect(req.Roles).To(Equal([]string{"system", "user", "assistant", "user"}))
			Expect(req.Bodies).To(Equal([]string{"sys", "q1", "a1", "q2"}))
		})

		It("surfaces provider errors without retrying", func() {
			upstream.status = http.StatusTooManyRequests
			upstream.body = `{"error": {"message": "quota exceeded", "type": "insufficient_quota"}}`

			_, err := client.Complete(ctx, "gpt-4", []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hi")})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("status 429"))
			Expect(upstream.requests).To(HaveLen(1))
		})

		It("returns ErrNoChoices when nothing was generated", func() {
			upstream.body = `{"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4", "choices": []}`

			_, err := client.Complete(ctx, "gpt-4", []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hi")})
			Expect(err).To(MatchError(llm.ErrNoChoices))
		})

		It("fails when the upstream is unreachable", func() {
			server.Close()

			_, err := client.Complete(ctx, "gpt-4", []llm.Message{llm.NewTextMessage(llm.RoleUser, "Hi")})
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("APIKeyFromEnv", func() {
	It("prefers the pairwise-specific variable", func() {
		GinkgoT().Setenv("OPENAI_API_KEY", "sk-openai")
		GinkgoT().Setenv("PAIRWISE_UPSTREAM_API_KEY", "sk-pairwise")
		Expect(openai.APIKeyFromEnv()).To(Equal("sk-pairwise"))
	})

	It("falls back to OPENAI_API_KEY", func() {
		GinkgoT().Setenv("PAIRWISE_UPSTREAM_API_KEY", "  ")
		GinkgoT().Setenv("OPENAI_API_KEY", "sk-openai")
		Expect(openai.APIKeyFromEnv()).To(Equal("sk-openai"))
	})

	It("returns empty when neither is set", func() {
		GinkgoT().Setenv("PAIRWISE_UPSTREAM_API_KEY", "")
		GinkgoT().Setenv("OPENAI_API_KEY", "")
		Expect(openai.APIKeyFromEnv()).To(BeEmpty())
	})
})
