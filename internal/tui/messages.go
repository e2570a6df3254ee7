package tui

import (
	"github.com/ajoubert/newsdesk/internal/render"
	"github.com/ajoubert/newsdesk/internal/search"
)

type searchDoneMsg struct {
	outcome search.Outcome
}

type resortedMsg struct {
	deck render.Deck
	err  error
}

type sourcesLoadedMsg struct {
	sources []string
}

type chatReplyMsg struct {
	epoch int
	reply string
	err   error
}

type voiceDoneMsg struct {
	text string
	err  error
}

type statusMsg struct {
	text string
}
