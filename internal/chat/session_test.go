package chat

import (
	"errors"
	"strings"
	"testing"

	"github.com/ajoubert/newsdesk/internal/article"
)

func TestOpenGreeting(t *testing.T) {
	s := New()
	s.Open(article.Article{Title: "Réforme des retraites"}, 1)

	if s.State() != Active {
		t.Fatal("expected Active after Open")
	}
	tr := s.Transcript()
	if len(tr) != 1 {
		t.Fatalf("expected single greeting, got %d entries", len(tr))
	}
	if tr[0].Sender != SenderBot {
		t.Error("greeting must be bot-authored")
	}
	if !strings.Contains(tr[0].Text, "Réforme des retraites") {
		t.Errorf("greeting must reference the title: %q", tr[0].Text)
	}
}

func TestOpenUntitledArticle(t *testing.T) {
	s := New()
	s.Open(article.Article{}, 4)
	if !strings.Contains(s.Transcript()[0].Text, "Article 4") {
		t.Errorf("greeting must use the positional title: %q", s.Transcript()[0].Text)
	}
}

func TestSendResolveAppendOnly(t *testing.T) {
	s := New()
	s.Open(article.Article{Title: "T"}, 1)

	epoch, err := s.Send("first question")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !s.Busy() {
		t.Error("session must be busy while awaiting a reply")
	}
	if !s.Resolve(epoch, "first answer", nil) {
		t.Fatal("resolve rejected")
	}
	if s.Busy() {
		t.Error("session must re-enable after resolve")
	}

	epoch, err = s.Send("second question")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	s.Resolve(epoch, "second answer", nil)

	tr := s.Transcript()
	want := []Entry{
		{SenderBot, tr[0].Text}, // greeting
		{SenderUser, "first question"},
		{SenderBot, "first answer"},
		{SenderUser, "second question"},
		{SenderBot, "second answer"},
	}
	if len(tr) != len(want) {
		t.Fatalf("transcript has %d entries, want %d", len(tr), len(want))
	}
	for i := range want {
		if tr[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, tr[i], want[i])
		}
	}
}

func TestSendWhileBusy(t *testing.T) {
	s := New()
	s.Open(article.Article{Title: "T"}, 1)

	if _, err := s.Send("one"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := s.Send("two"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy while a reply is pending, got %v", err)
	}
	if n := len(s.Transcript()); n != 2 {
		t.Errorf("rejected send must not touch the transcript, got %d entries", n)
	}
}

func TestSendWhileClosed(t *testing.T) {
	s := New()
	if _, err := s.Send("hello"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

// Errors still produce exactly one bot entry, formatted, never dropped.
func TestResolveError(t *testing.T) {
	s := New()
	s.Open(article.Article{Title: "T"}, 1)

	epoch, _ := s.Send("question")
	if !s.Resolve(epoch, "", errors.New("connection refused")) {
		t.Fatal("error resolve rejected")
	}

	tr := s.Transcript()
	last := tr[len(tr)-1]
	if last.Sender != SenderBot {
		t.Error("error entry must be bot-authored")
	}
	if !strings.Contains(last.Text, "connection refused") {
		t.Errorf("error entry must carry the failure: %q", last.Text)
	}
	if s.Busy() {
		t.Error("input must re-enable after an error")
	}
}

func TestCloseClearsEverything(t *testing.T) {
	s := New()
	s.Open(article.Article{Title: "A"}, 1)
	epoch, _ := s.Send("msg about A")
	s.Resolve(epoch, "reply about A", nil)

	s.Close()
	if s.State() != Idle {
		t.Error("expected Idle after Close")
	}
	if len(s.Transcript()) != 0 {
		t.Error("transcript must be discarded on Close")
	}
	if _, ok := s.Article(); ok {
		t.Error("article must be unbound on Close")
	}

	// Session B starts with only its own greeting.
	s.Open(article.Article{Title: "B"}, 1)
	tr := s.Transcript()
	if len(tr) != 1 || !strings.Contains(tr[0].Text, "B") {
		t.Errorf("session B must start fresh, got %+v", tr)
	}
}

// A reply landing after Close must be ignored, not applied to whatever
// transcript exists by then.
func TestLateReplyDiscarded(t *testing.T) {
	s := New()
	s.Open(article.Article{Title: "A"}, 1)
	epoch, _ := s.Send("question for A")

	s.Close()
	if s.Resolve(epoch, "late reply", nil) {
		t.Error("reply after Close must be discarded")
	}

	s.Open(article.Article{Title: "B"}, 1)
	if s.Resolve(epoch, "late reply", nil) {
		t.Error("stale epoch must not resolve into a new session")
	}
	if len(s.Transcript()) != 1 {
		t.Errorf("session B transcript polluted: %+v", s.Transcript())
	}
}
