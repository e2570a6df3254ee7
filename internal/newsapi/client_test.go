package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ajoubert/newsdesk/internal/article"
	"github.com/ajoubert/newsdesk/internal/category"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    category.Category
		wantErr bool
	}{
		{"confident match", 200, `{"category":"politique"}`, category.Politique, false},
		{"no match sentinel", 200, `{"category":"other"}`, category.Other, false},
		{"absent category", 200, `{}`, category.Other, false},
		{"unknown label", 200, `{"category":"finance-exotique"}`, category.Other, false},
		{"server error", 500, `boom`, category.Other, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/classify" {
					t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			got, err := c.Classify(context.Background(), "elections france")
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchNewsQueryParams(t *testing.T) {
	var got []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("topic") != "politique" {
			t.Errorf("topic = %q, want politique", q.Get("topic"))
		}
		if q.Get("logged") != "1" {
			t.Errorf("logged = %q, want 1", q.Get("logged"))
		}
		got = append(got, q.Get("nonce"))
		w.Write([]byte(`[]`))
	})

	for i := 0; i < 2; i++ {
		if _, err := c.FetchNews(context.Background(), "politique"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}

	if got[0] == "" || got[1] == "" {
		t.Fatal("nonce missing from request")
	}
	if got[0] == got[1] {
		t.Error("nonce must differ between requests")
	}
}

func TestFetchNewsNoTopic(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("topic") {
			t.Error("empty topic must not be sent")
		}
		w.Write([]byte(`[{"title":"A"}]`))
	})

	articles, err := c.FetchNews(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "A" {
		t.Errorf("unexpected articles: %+v", articles)
	}
}

// The three failure modes and the empty-but-valid outcome must stay
// distinguishable.
func TestFetchNewsErrorTaxonomy(t *testing.T) {
	t.Run("http failure", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		_, err := c.FetchNews(context.Background(), "x")
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusBadGateway {
			t.Errorf("expected StatusError 502, got %v", err)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {})
		_, err := c.FetchNews(context.Background(), "x")
		if !errors.Is(err, ErrEmptyPayload) {
			t.Errorf("expected ErrEmptyPayload, got %v", err)
		}
	})

	t.Run("null payload", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`null`))
		})
		_, err := c.FetchNews(context.Background(), "x")
		if !errors.Is(err, ErrEmptyPayload) {
			t.Errorf("expected ErrEmptyPayload, got %v", err)
		}
	})

	t.Run("non-array payload", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"error":"nope"}`))
		})
		_, err := c.FetchNews(context.Background(), "x")
		if !errors.Is(err, ErrNotAList) {
			t.Errorf("expected ErrNotAList, got %v", err)
		}
	})

	t.Run("empty array is valid", func(t *testing.T) {
		c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})
		articles, err := c.FetchNews(context.Background(), "x")
		if err != nil {
			t.Fatalf("empty array must not error: %v", err)
		}
		if len(articles) != 0 {
			t.Errorf("expected 0 articles, got %d", len(articles))
		}
	})
}

func TestChat(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var in struct {
			Message string `json:"message"`
			Article struct {
				Title   string `json:"title"`
				Summary string `json:"summary"`
				URL     string `json:"url"`
			} `json:"article"`
		}
		if err := jsonDecode(r, &in); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if in.Message != "why?" {
			t.Errorf("message = %q", in.Message)
		}
		if in.Article.Title != "T" || in.Article.Summary != "S" || in.Article.URL != "https://a.com" {
			t.Errorf("article context = %+v", in.Article)
		}
		w.Write([]byte(`{"reply":"because"}`))
	})

	a := article.Article{Title: "T", Summary: "S", Link: "https://a.com"}
	reply, err := c.Chat(context.Background(), "why?", a)
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "because" {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"rate_limited","message":"slow down"}`))
	})

	_, err := c.Chat(context.Background(), "hi", article.Article{Title: "T"})
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if ue.Message != "slow down" {
		t.Errorf("message = %q", ue.Message)
	}
}

func TestChatMissingReply(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	if _, err := c.Chat(context.Background(), "hi", article.Article{}); err == nil {
		t.Error("missing reply field must be an error")
	}
}

func TestBotToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bot-token" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"token":"abc123"}`))
	})

	token, err := c.BotToken(context.Background())
	if err != nil {
		t.Fatalf("bot-token: %v", err)
	}
	if token != "abc123" {
		t.Errorf("token = %q", token)
	}
}

func TestSources(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sources":["Le Monde","BBC News"],"count":2}`))
	})

	sources, err := c.Sources(context.Background())
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if len(sources) != 2 || sources[0] != "Le Monde" {
		t.Errorf("sources = %v", sources)
	}
}

func jsonDecode(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}
