package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

const helloPage = "<html><body><p>Hello world</p></body></html>"

// fakeFetcher returns a fixed page or error and counts calls.
type fakeFetcher struct {
	html  string
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.calls++
	return f.html, f.err
}

// recordedChat is one request seen by a fake chat completions server.
type recordedChat struct {
	Path string
	Auth string
	Body chatRequest
	Raw  map[string]any
}

// chatServer is a fake OpenAI-compatible server. Replies are chosen by the
// first snippet contained in the user message.
type chatServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedChat
	replies  map[string]string
	models   []string
}

func newChatServer(t *testing.T, replies map[string]string) *chatServer {
	t.Helper()
	cs := &chatServer{replies: replies}
	cs.Server = httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(cs.Close)
	return cs
}

func (cs *chatServer) serve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/models") {
		data := make([]map[string]string, len(cs.models))
		for i, m := range cs.models {
			data[i] = map[string]string{"id": m, "object": "model", "owned_by": "test"}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
		http.NotFound(w, r)
		return
	}

	raw, _ := io.ReadAll(r.Body)
	var body chatRequest
	_ = json.Unmarshal(raw, &body)
	var generic map[string]any
	_ = json.Unmarshal(raw, &generic)

	cs.mu.Lock()
	cs.requests = append(cs.requests, recordedChat{Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body, Raw: generic})
	cs.mu.Unlock()

	var user string
	for _, m := range body.Messages {
		if m.Role == "user" {
			user = m.Content
		}
	}
	reply := "unexpected prompt"
	for snippet, candidate := range cs.replies {
		if strings.Contains(user, snippet) {
			reply = candidate
			break
		}
	}
	_, _ = fmt.Fprintf(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":%q,`+
		`"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":%s}}]}`,
		body.Model, mustJSON(reply))
}

func (cs *chatServer) Requests() []recordedChat {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]recordedChat(nil), cs.requests...)
}

func mustJSON(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// stageReplies keys each stage's reply on a phrase only its prompt contains.
func stageReplies(content, summary, post string) map[string]string {
	return map[string]string{
		"extract the core content":       content,
		"summarize the provided content": summary,
		"generate a post":                post,
	}
}

func writeExamples(t *testing.T, examples []Example) string {
	t.Helper()
	data, err := json.Marshal(examples)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "post-examples.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

var testExamples = []Example{
	{Topic: "Rust vector database", Post: "Another vector DB? Yes. Small tools win."},
	{Topic: "AI code review study", Post: "We read AI code the way we read terms and conditions."},
}
