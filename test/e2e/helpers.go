//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wayfinder-ai/wayfinder/internal/api/handlers"
	"github.com/wayfinder-ai/wayfinder/internal/chat"
	"github.com/wayfinder-ai/wayfinder/internal/corpus"
	"github.com/wayfinder-ai/wayfinder/internal/crawler"
	"github.com/wayfinder-ai/wayfinder/internal/ingest"
	"github.com/wayfinder-ai/wayfinder/internal/openai"
	"github.com/wayfinder-ai/wayfinder/internal/retrieval"
	"github.com/wayfinder-ai/wayfinder/internal/server"
	"github.com/wayfinder-ai/wayfinder/internal/session"
)

// fakeAI is a deterministic stand-in for the embedding and completion
// backend. Embeddings are letter-frequency vectors, so texts sharing
// vocabulary score as similar under cosine.
type fakeAI struct{}

func (fakeAI) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec, nil
}

func (fakeAI) GenerateCompletion(_ context.Context, messages []openai.Message, _ float32) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}
	return "Based on the documentation, see [S1].", nil
}

type testEnv struct {
	T          *testing.T
	Site       *httptest.Server
	API        *httptest.Server
	Store      *session.Store
	HTTPClient *http.Client
}

// targetSite serves a small crawlable site: a home page linking to a
// contact page whose footer carries a phone number.
func targetSite() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Acme Widgets</title></head>
<body>
<article>
<h1>Acme Widgets</h1>
<p>Acme builds industrial widgets for every purpose. Our widgets are assembled by hand and tested twice.</p>
<p>Browse the catalog or reach out to our sales team for custom orders.</p>
</article>
<a href="/contact">Contact us</a>
</body></html>`)
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>Contact Acme</title></head>
<body>
<article>
<h1>Contact</h1>
<p>Our support team answers every message within one business day. Write to us about orders, returns, or repairs.</p>
</article>
<a href="mailto:support@acme.test">Email support</a>
<footer>Call us: (555) 123-4567</footer>
</body></html>`)
	})
	return httptest.NewServer(mux)
}

func setupEnv(t *testing.T) *testEnv {
	site := targetSite()

	ai := fakeAI{}
	store := session.NewStore(30*time.Minute, nil)

	siteCrawler := crawler.New(site.Client(), crawler.Config{
		MaxPages:     5,
		Fanout:       5,
		FetchTimeout: 5 * time.Second,
	})
	indexer := ingest.NewIndexer(ai, ingest.DefaultChunkConfig())
	ingestSvc := ingest.NewService(siteCrawler, indexer, store, nil)

	retriever := retrieval.NewRetriever(ai)
	chatSvc := chat.NewService(retriever, ai, chat.DefaultTemperature, retrieval.DefaultTopK)

	defaultCorpus := corpus.New(nil)
	router := server.NewRouter(server.RouterConfig{
		ChatHandler:   handlers.NewChatHandler(chatSvc, store, defaultCorpus),
		IngestHandler: handlers.NewIngestHandler(ingestSvc, store),
	})
	api := httptest.NewServer(router)

	t.Cleanup(func() {
		api.Close()
		site.Close()
	})

	return &testEnv{
		T:          t,
		Site:       site,
		API:        api,
		Store:      store,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type apiResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (env *testEnv) post(path string, body any) (int, *apiResponse) {
	env.T.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		env.T.Fatalf("marshal request: %v", err)
	}

	resp, err := env.HTTPClient.Post(env.API.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		env.T.Fatalf("POST %s: %v", path, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, decodeResponse(env.T, resp.Body)
}

func (env *testEnv) get(path string) (int, *apiResponse) {
	env.T.Helper()

	resp, err := env.HTTPClient.Get(env.API.URL + path)
	if err != nil {
		env.T.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	return resp.StatusCode, decodeResponse(env.T, resp.Body)
}

func decodeResponse(t *testing.T, body io.Reader) *apiResponse {
	t.Helper()

	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	var resp apiResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatalf("parse response %q: %v", raw, err)
	}
	return &resp
}

type statusData struct {
	Status string `json:"status"`
	Pages  []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
	} `json:"pages"`
}

// waitReady polls the session endpoint until it reports ready or the
// session disappears.
func (env *testEnv) waitReady(sessionID string, timeout time.Duration) *statusData {
	env.T.Helper()

	deadline := time.Now().Add(timeout)
	for {
		code, resp := env.get("/sessions/" + sessionID)
		if code != http.StatusOK {
			env.T.Fatalf("unexpected status code %d polling session", code)
		}

		var status statusData
		if err := json.Unmarshal(resp.Data, &status); err != nil {
			env.T.Fatalf("parse status: %v", err)
		}

		switch status.Status {
		case "ready", "not_found":
			return &status
		}

		if time.Now().After(deadline) {
			env.T.Fatalf("session %s never became ready", sessionID)
		}
		time.Sleep(20 * time.Millisecond)
	}
}
