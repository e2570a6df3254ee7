package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ajoubert/newsdesk/internal/article"
	"github.com/ajoubert/newsdesk/internal/browser"
	"github.com/ajoubert/newsdesk/internal/chat"
	"github.com/ajoubert/newsdesk/internal/config"
	"github.com/ajoubert/newsdesk/internal/newsapi"
	"github.com/ajoubert/newsdesk/internal/render"
	"github.com/ajoubert/newsdesk/internal/search"
	"github.com/ajoubert/newsdesk/internal/store"
	"github.com/ajoubert/newsdesk/internal/voice"
)

type mode int

const (
	modeHome mode = iota
	modeLoading
	modeResults
	modeNoResults
	modeError
	modeChat
	modeHelp
)

type App struct {
	cfg        *config.Config
	client     *newsapi.Client
	db         *store.Store
	controller *search.Controller
	session    *chat.Session
	mic        voice.Transcriber

	mode   mode
	width  int
	height int

	queryInput textinput.Model
	chatInput  textinput.Model
	spinner    spinner.Model

	deck         render.Deck
	cursor       int
	sortOrder    store.Sort
	sources      []string
	sourceFilter string

	lastQuery string
	chatTitle string
	listening bool
	status    string
	fetchErr  error
}

// RunOpts holds everything the TUI needs to start.
type RunOpts struct {
	Cfg    *config.Config
	Client *newsapi.Client
	DB     *store.Store
	Mic    voice.Transcriber
}

func NewApp(opts RunOpts) *App {
	qi := textinput.New()
	qi.Placeholder = "elections france, météo, sport..."
	qi.Prompt = searchPromptStyle.Render("? ")
	qi.CharLimit = 100
	qi.Focus()

	ci := textinput.New()
	ci.Placeholder = "Ask about this article..."
	ci.Prompt = searchPromptStyle.Render("> ")
	ci.CharLimit = 300

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	sortOrder := store.SortNewest
	switch opts.Cfg.DefaultSort {
	case "source":
		sortOrder = store.SortSource
	case "title":
		sortOrder = store.SortTitle
	}

	return &App{
		cfg:        opts.Cfg,
		client:     opts.Client,
		db:         opts.DB,
		controller: search.NewController(opts.Client, opts.Client),
		session:    chat.New(),
		mic:        opts.Mic,
		queryInput: qi,
		chatInput:  ci,
		spinner:    sp,
		sortOrder:  sortOrder,
		mode:       modeHome,
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// submitSearch registers a new generation and runs the pipeline off the
// update loop. The generation makes a superseded completion detectable.
func (a *App) submitSearch(query string) tea.Cmd {
	gen := a.controller.Begin()
	ctrl := a.controller
	timeout := a.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()
		return searchDoneMsg{outcome: ctrl.Run(ctx, gen, query)}
	}
}

func (a *App) resortCmd() tea.Cmd {
	db := a.db
	opts := store.QueryOpts{Sort: a.sortOrder}
	if a.sourceFilter != "" {
		opts.Sources = []string{a.sourceFilter}
	}
	topic := a.deck.Topic
	return func() tea.Msg {
		articles, positions, err := db.Articles(opts)
		if err != nil {
			return resortedMsg{err: err}
		}
		return resortedMsg{deck: render.BuildAt(topic, articles, positions)}
	}
}

func (a *App) loadSourcesCmd() tea.Cmd {
	db := a.db
	return func() tea.Msg {
		sources, err := db.Sources()
		if err != nil {
			return nil
		}
		return sourcesLoadedMsg{sources: sources}
	}
}

func (a *App) chatSendCmd(epoch int, text string, art article.Article) tea.Cmd {
	client := a.client
	timeout := a.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := client.Chat(ctx, text, art)
		return chatReplyMsg{epoch: epoch, reply: reply, err: err}
	}
}

func (a *App) listenCmd() tea.Cmd {
	mic := a.mic
	timeout := a.cfg.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 4*timeout)
		defer cancel()
		text, err := mic.Transcribe(ctx)
		return voiceDoneMsg{text: text, err: err}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return statusMsg{text: err.Error()}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		a.status = ""
		return a.handleKey(msg)

	case searchDoneMsg:
		// A newer search supersedes this one; drop the stale outcome.
		if !a.controller.Current(msg.outcome.Gen) {
			return a, nil
		}
		return a.applyOutcome(msg.outcome)

	case resortedMsg:
		if msg.err != nil {
			a.status = msg.err.Error()
			return a, nil
		}
		a.deck = msg.deck
		if a.cursor >= len(a.deck.Cards) {
			a.cursor = max(0, len(a.deck.Cards)-1)
		}
		return a, nil

	case sourcesLoadedMsg:
		a.sources = msg.sources
		return a, nil

	case chatReplyMsg:
		// Resolve discards replies for closed or superseded sessions.
		a.session.Resolve(msg.epoch, msg.reply, msg.err)
		return a, nil

	case voiceDoneMsg:
		a.listening = false
		if msg.err != nil {
			a.status = fmt.Sprintf("Voice input: %v", msg.err)
			return a, nil
		}
		a.queryInput.SetValue(msg.text)
		a.lastQuery = msg.text
		a.mode = modeLoading
		return a, tea.Batch(a.submitSearch(msg.text), a.spinner.Tick)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case spinner.TickMsg:
		if a.mode == modeLoading || a.listening || a.session.Busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) applyOutcome(out search.Outcome) (tea.Model, tea.Cmd) {
	a.lastQuery = out.Query
	a.fetchErr = nil

	switch out.Status {
	case search.StatusError:
		a.fetchErr = out.Err
		a.mode = modeError
		return a, nil
	case search.StatusNoResults:
		a.deck = out.Deck
		a.mode = modeNoResults
		return a, nil
	default:
		a.deck = out.Deck
		a.cursor = 0
		a.sourceFilter = ""
		a.mode = modeResults

		articles := make([]article.Article, len(out.Deck.Cards))
		for i, c := range out.Deck.Cards {
			articles[i] = c.Article
		}
		if err := a.db.Replace(articles); err != nil {
			a.status = err.Error()
			return a, nil
		}
		return a, tea.Batch(a.resortCmd(), a.loadSourcesCmd())
	}
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeHome:
		return a.handleHomeKey(msg)
	case modeLoading:
		if msg.String() == "esc" {
			// Invalidate the in-flight search; its completion is now stale.
			a.controller.Begin()
			a.mode = modeHome
		}
		return a, nil
	case modeResults:
		return a.handleResultsKey(msg)
	case modeNoResults, modeError:
		return a.handlePanelKey(msg)
	case modeChat:
		return a.handleChatKey(msg)
	case modeHelp:
		switch msg.String() {
		case "?", "esc", "q":
			a.mode = modeHome
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.listening {
		return a, nil
	}

	switch msg.String() {
	case "enter":
		query := a.queryInput.Value()
		if query == "" {
			return a, nil
		}
		a.lastQuery = query
		a.mode = modeLoading
		return a, tea.Batch(a.submitSearch(query), a.spinner.Tick)
	case "ctrl+t":
		if !a.mic.Available() {
			a.status = "Voice input is not available on this system"
			return a, nil
		}
		a.listening = true
		return a, tea.Batch(a.listenCmd(), a.spinner.Tick)
	case "?":
		a.mode = modeHelp
		return a, nil
	case "esc":
		a.queryInput.SetValue("")
		return a, nil
	}

	if msg.String() == "q" && a.queryInput.Value() == "" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.queryInput, cmd = a.queryInput.Update(msg)
	return a, cmd
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "/":
		a.mode = modeHome
		a.queryInput.Focus()
		return a, textinput.Blink
	case "j", "down":
		if a.cursor < len(a.deck.Cards)-1 {
			a.cursor++
		}
		return a, nil
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	case "o":
		if card := a.selectedCard(); card != nil {
			return a, openBrowserCmd(card.Link)
		}
		return a, nil
	case "s":
		a.sortOrder = a.sortOrder.Next()
		return a, a.resortCmd()
	case "f":
		a.cycleSourceFilter()
		a.cursor = 0
		return a, a.resortCmd()
	case "r":
		a.mode = modeLoading
		return a, tea.Batch(a.submitSearch(a.lastQuery), a.spinner.Tick)
	case "enter", "c":
		if card := a.selectedCard(); card != nil {
			a.session.Open(card.Article, card.Pos)
			a.chatTitle = card.Title
			a.chatInput.Reset()
			a.chatInput.Focus()
			a.mode = modeChat
			return a, textinput.Blink
		}
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}
	return a, nil
}

func (a *App) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc":
		a.mode = modeHome
		a.queryInput.Focus()
		return a, textinput.Blink
	case "r":
		if a.mode == modeError && a.lastQuery != "" {
			a.mode = modeLoading
			return a, tea.Batch(a.submitSearch(a.lastQuery), a.spinner.Tick)
		}
		return a, nil
	}
	return a, nil
}

func (a *App) handleChatKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		// Close discards the transcript; a reply still in flight will be
		// dropped by its epoch.
		a.session.Close()
		a.chatInput.Blur()
		a.mode = modeResults
		return a, nil
	case "enter":
		if a.session.Busy() {
			return a, nil
		}
		text := a.chatInput.Value()
		if text == "" {
			return a, nil
		}
		art, ok := a.session.Article()
		if !ok {
			return a, nil
		}
		epoch, err := a.session.Send(text)
		if err != nil {
			return a, nil
		}
		a.chatInput.Reset()
		return a, tea.Batch(a.chatSendCmd(epoch, text, art), a.spinner.Tick)
	}

	// Input stays disabled while a reply is outstanding.
	if a.session.Busy() {
		return a, nil
	}

	var cmd tea.Cmd
	a.chatInput, cmd = a.chatInput.Update(msg)
	return a, cmd
}

func (a *App) selectedCard() *render.Card {
	if len(a.deck.Cards) == 0 || a.cursor >= len(a.deck.Cards) {
		return nil
	}
	return &a.deck.Cards[a.cursor]
}

func (a *App) cycleSourceFilter() {
	if len(a.sources) == 0 {
		return
	}
	if a.sourceFilter == "" {
		a.sourceFilter = a.sources[0]
		return
	}
	for i, s := range a.sources {
		if s == a.sourceFilter {
			if i+1 < len(a.sources) {
				a.sourceFilter = a.sources[i+1]
			} else {
				a.sourceFilter = ""
			}
			return
		}
	}
	a.sourceFilter = ""
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsdesk")
	}

	switch a.mode {
	case modeHome:
		return renderHomeScreen(a.width, a.height, a.queryInput.View(), a.mic.Available(), a.listening, a.status)
	case modeLoading:
		return renderLoading(a.width, a.height, a.spinner.View(), a.lastQuery)
	case modeError:
		return renderErrorPanel(a.width, a.height, a.fetchErr)
	case modeNoResults:
		return renderNoResultsPanel(a.width, a.height, a.deck.Topic)
	case modeChat:
		return renderChatView(a.width, a.height, a.chatTitle, a.session.Transcript(), a.chatInput.View(), a.session.Busy(), a.spinner.View())
	case modeHelp:
		return a.renderHelp()
	}

	return a.renderResults()
}

func (a *App) renderResults() string {
	headerHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1

	if contentHeight < 3 {
		contentHeight = 3
	}

	headerLeft := headerStyle.Render("newsdesk")
	headerRight := headerTopicStyle.Render(a.deck.Topic)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	innerListW := listWidth - 4
	listContent := renderCardList(a.deck.Cards, a.cursor, contentHeight, innerListW)
	listPane := listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	innerPreviewW := previewWidth - 4
	previewContent := renderCardPreview(a.selectedCard(), innerPreviewW, contentHeight)
	previewPane := previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(a.deck.Stats, a.deck.Topic, a.sortOrder.String(), a.sourceFilter, a.width)
	if a.status != "" {
		status = statusBarStyle.Width(a.width).Render(errorTextStyle.Render(a.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsdesk")

	help := title + dimStyle.Render(" — Keyboard Shortcuts") + "\n\n" +
		dimStyle.Render("Home") + "\n" +
		"  enter         Search for news\n" +
		"  ctrl+t        Speak a query (when voice is configured)\n\n" +
		dimStyle.Render("Results") + "\n" +
		"  j/k, ↑/↓     Move between articles\n" +
		"  enter, c      Discuss the selected article\n" +
		"  o             Open the article in a browser\n" +
		"  s             Cycle sort (newest, source, title)\n" +
		"  f             Cycle source filter\n" +
		"  r             Re-run the search\n" +
		"  esc, /        Back to search\n\n" +
		dimStyle.Render("Chat") + "\n" +
		"  enter         Send message\n" +
		"  esc           Close the chat (discards the transcript)\n\n" +
		dimStyle.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := panelStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
