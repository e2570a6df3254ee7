package search

import (
	"context"
	"errors"
	"testing"

	"github.com/ajoubert/newsdesk/internal/article"
	"github.com/ajoubert/newsdesk/internal/category"
)

type fakeClassifier struct {
	cat category.Category
	err error
}

func (f fakeClassifier) Classify(_ context.Context, _ string) (category.Category, error) {
	return f.cat, f.err
}

type fakeFetcher struct {
	gotTopic string
	articles []article.Article
	err      error
}

func (f *fakeFetcher) FetchNews(_ context.Context, topic string) ([]article.Article, error) {
	f.gotTopic = topic
	return f.articles, f.err
}

func TestRunUsesConfidentCategory(t *testing.T) {
	fetcher := &fakeFetcher{articles: []article.Article{{Title: "A"}}}
	c := NewController(fakeClassifier{cat: category.Politique}, fetcher)

	out := c.Run(context.Background(), c.Begin(), "elections france")

	if fetcher.gotTopic != "politique" {
		t.Errorf("topic = %q, want politique", fetcher.gotTopic)
	}
	if out.Category != category.Politique {
		t.Errorf("category = %q", out.Category)
	}
	if out.Status != StatusResults {
		t.Errorf("status = %v", out.Status)
	}
}

func TestRunFallsBackToRawText(t *testing.T) {
	tests := []struct {
		name       string
		classifier fakeClassifier
	}{
		{"sentinel category", fakeClassifier{cat: category.Other}},
		{"classifier failure", fakeClassifier{cat: category.Other, err: errors.New("boom")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{articles: []article.Article{{Title: "A"}}}
			c := NewController(tt.classifier, fetcher)

			out := c.Run(context.Background(), c.Begin(), "asdkjasd")

			if fetcher.gotTopic != "asdkjasd" {
				t.Errorf("topic = %q, want raw query", fetcher.gotTopic)
			}
			if out.Status != StatusResults {
				t.Errorf("classification failure must not surface: %v, %v", out.Status, out.Err)
			}
		})
	}
}

// Empty result and failed fetch are distinct, user-visible outcomes.
func TestRunOutcomeTaxonomy(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		c := NewController(fakeClassifier{cat: category.Other}, &fakeFetcher{})
		out := c.Run(context.Background(), c.Begin(), "asdkjasd")
		if out.Status != StatusNoResults {
			t.Errorf("status = %v, want StatusNoResults", out.Status)
		}
		if out.Err != nil {
			t.Errorf("no-results is not an error: %v", out.Err)
		}
	})

	t.Run("fetch failure", func(t *testing.T) {
		fetchErr := errors.New("network down")
		c := NewController(fakeClassifier{cat: category.Other}, &fakeFetcher{err: fetchErr})
		out := c.Run(context.Background(), c.Begin(), "x")
		if out.Status != StatusError {
			t.Errorf("status = %v, want StatusError", out.Status)
		}
		if !errors.Is(out.Err, fetchErr) {
			t.Errorf("err = %v", out.Err)
		}
	})
}

func TestRunStats(t *testing.T) {
	fetcher := &fakeFetcher{articles: []article.Article{
		{Title: "1", Source: "a"}, {Title: "2", Source: "b"}, {Title: "3", Source: "a"},
		{Title: "4", Source: "c"}, {Title: "5", Source: "c"},
	}}
	c := NewController(fakeClassifier{cat: category.Politique}, fetcher)

	out := c.Run(context.Background(), c.Begin(), "elections france")

	if out.Deck.Stats.Articles != 5 {
		t.Errorf("articles = %d, want 5", out.Deck.Stats.Articles)
	}
	if out.Deck.Stats.Sources > 5 {
		t.Errorf("sources = %d, must be <= article count", out.Deck.Stats.Sources)
	}
}

// A superseded search's completion must be recognizable as stale.
func TestGenerationTagging(t *testing.T) {
	c := NewController(fakeClassifier{cat: category.Other}, &fakeFetcher{})

	first := c.Begin()
	second := c.Begin()

	if c.Current(first) {
		t.Error("first generation must be stale after a second Begin")
	}
	if !c.Current(second) {
		t.Error("second generation must be current")
	}

	out := c.Run(context.Background(), first, "old query")
	if out.Gen != first {
		t.Errorf("outcome must carry its generation, got %d", out.Gen)
	}
	if c.Current(out.Gen) {
		t.Error("stale outcome must not test as current")
	}
}
