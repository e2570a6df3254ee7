// Package search runs the query pipeline: classify the text, pick a topic,
// fetch articles, build the deck.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/ajoubert/newsdesk/internal/article"
	"github.com/ajoubert/newsdesk/internal/category"
	"github.com/ajoubert/newsdesk/internal/render"
)

// Classifier maps free text onto a category label.
type Classifier interface {
	Classify(ctx context.Context, query string) (category.Category, error)
}

// Fetcher retrieves articles for a topic.
type Fetcher interface {
	FetchNews(ctx context.Context, topic string) ([]article.Article, error)
}

type Status int

const (
	// StatusResults: articles came back; the deck is populated.
	StatusResults Status = iota
	// StatusNoResults: a valid but empty list. Not an error.
	StatusNoResults
	// StatusError: the fetch failed; Err says how.
	StatusError
)

// Outcome is the result of one search pass.
type Outcome struct {
	Gen      int
	Query    string
	Topic    string
	Category category.Category
	Status   Status
	Deck     render.Deck
	Err      error
}

// Controller executes searches and tags each with a generation so a
// completion that has been superseded by a newer search can be recognized
// and dropped instead of overwriting fresher results.
type Controller struct {
	classifier Classifier
	fetcher    Fetcher

	mu  sync.Mutex
	gen int
}

func NewController(c Classifier, f Fetcher) *Controller {
	return &Controller{classifier: c, fetcher: f}
}

// Begin registers a new search and returns its generation tag.
func (c *Controller) Begin() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Current reports whether gen is still the latest search.
func (c *Controller) Current(gen int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.gen
}

// Run executes the pipeline for one query. Classification failure is
// non-fatal: the raw text becomes the topic. Fetch failures come back in
// the outcome, never as a panic or process exit.
func (c *Controller) Run(ctx context.Context, gen int, query string) Outcome {
	query = strings.TrimSpace(query)
	out := Outcome{Gen: gen, Query: query, Topic: query, Category: category.Other}

	if query != "" {
		cat, err := c.classifier.Classify(ctx, query)
		if err == nil && cat.Confident() {
			out.Category = cat
			out.Topic = string(cat)
		}
	}

	articles, err := c.fetcher.FetchNews(ctx, out.Topic)
	if err != nil {
		out.Status = StatusError
		out.Err = err
		return out
	}

	out.Deck = render.Build(out.Topic, articles)
	if len(articles) == 0 {
		out.Status = StatusNoResults
	} else {
		out.Status = StatusResults
	}
	return out
}
