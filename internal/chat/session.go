// Package chat holds the state machine for the per-article chat panel.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/ajoubert/newsdesk/internal/article"
)

// Sender identifies who authored a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Entry is one line of the transcript.
type Entry struct {
	Sender Sender
	Text   string
}

// Responder produces one reply for one message about one article.
type Responder interface {
	Chat(ctx context.Context, message string, a article.Article) (string, error)
}

type State int

const (
	// Idle: no article bound, panel closed.
	Idle State = iota
	// Active: panel open, article bound, transcript live.
	Active
)

var (
	ErrClosed = errors.New("chat session is not open")
	ErrBusy   = errors.New("a reply is still pending")
)

// Session owns the chat panel state: the bound article, the append-only
// transcript, and the single in-flight exchange. One instance exists at a
// time; Close discards everything and a later Open starts fresh.
//
// Replies resolve asynchronously, so each exchange carries the epoch
// returned by Send. Close bumps the epoch, which makes any reply that
// arrives afterwards fall on the floor instead of landing in a stale (or
// brand new) transcript.
type Session struct {
	state      State
	current    article.Article
	transcript []Entry
	busy       bool
	epoch      int
}

func New() *Session {
	return &Session{}
}

func (s *Session) State() State { return s.state }

// Busy reports whether an exchange is outstanding. The input control must
// stay disabled while true.
func (s *Session) Busy() bool { return s.busy }

// Article returns the bound article, if any.
func (s *Session) Article() (article.Article, bool) {
	return s.current, s.state == Active
}

// Transcript returns a copy of the transcript entries in order.
func (s *Session) Transcript() []Entry {
	out := make([]Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Open binds an article and resets the transcript to a single greeting.
// pos is the article's position in the originating render pass, used for
// the title fallback. Opening over an active session starts over.
func (s *Session) Open(a article.Article, pos int) {
	s.epoch++
	s.state = Active
	s.current = a
	s.busy = false
	s.transcript = []Entry{{
		Sender: SenderBot,
		Text:   fmt.Sprintf("You're now chatting about %q. What would you like to know?", a.DisplayTitle(pos)),
	}}
}

// Close discards the bound article and transcript unconditionally, even
// with an exchange outstanding. The epoch bump orphans that exchange.
func (s *Session) Close() {
	s.epoch++
	s.state = Idle
	s.current = article.Article{}
	s.busy = false
	s.transcript = nil
}

// Send appends the user's entry and marks the session busy. It returns the
// epoch token the eventual Resolve call must present. Only one exchange
// may be outstanding at a time.
func (s *Session) Send(text string) (int, error) {
	if s.state != Active {
		return 0, ErrClosed
	}
	if s.busy {
		return 0, ErrBusy
	}
	s.transcript = append(s.transcript, Entry{Sender: SenderUser, Text: text})
	s.busy = true
	return s.epoch, nil
}

// Resolve completes the exchange started at epoch, appending exactly one
// bot entry: the reply, or a formatted error line when the request failed.
// A reply from a closed or superseded session is discarded; Resolve reports
// whether the entry was applied.
func (s *Session) Resolve(epoch int, reply string, err error) bool {
	if s.state != Active || epoch != s.epoch || !s.busy {
		return false
	}
	text := reply
	if err != nil {
		text = fmt.Sprintf("Sorry, I couldn't get an answer: %v. Please try again.", err)
	}
	s.transcript = append(s.transcript, Entry{Sender: SenderBot, Text: text})
	s.busy = false
	return true
}
