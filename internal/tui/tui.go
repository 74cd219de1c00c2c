// Package tui is the terminal front end. It renders the active game's View
// and translates typed input into game actions; all game logic lives behind
// the game.Game interface.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/souvikroy/LP-to-gamification/internal/game"
)

type sessionState int

const (
	stateMenu sessionState = iota
	statePlaying
	stateLoading
)

// choice is one selectable line in the rendered phase, paired with the
// action it triggers.
type choice struct {
	label  string
	action game.Action
}

type model struct {
	state     sessionState
	games     []game.Game
	active    game.Game
	choices   []choice
	textInput textinput.Model
	viewport  viewport.Model
	gameLog   string
	width     int
	height    int
}

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EEEEEE")).
			Background(lipgloss.Color("#5F5F87")).
			Bold(true).
			PaddingLeft(1)

	gameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	rightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FD75F")).
			Bold(true)

	wrongStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D75F5F")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	stateStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)
)

func NewModel(games []game.Game) model {
	ti := textinput.New()
	ti.Placeholder = "Pick a game by number..."
	ti.Focus()
	ti.CharLimit = 300
	ti.Width = 60

	return model{
		state:     stateMenu,
		games:     games,
		textInput: ti,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

type actionResultMsg struct {
	feedback game.Feedback
	err      error
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.state == stateMenu {
				return m.selectGame(m.textInput.Value()), nil
			}
			if m.state == statePlaying {
				input := strings.TrimSpace(m.textInput.Value())
				if input == "" {
					return m, nil
				}
				m.textInput.Reset()
				return m.handleInput(input)
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = int(float64(msg.Width) * 0.75)
		m.viewport.Height = msg.Height - 6
		if m.state == statePlaying {
			m.viewport.SetContent(m.gameLog)
		}

	case actionResultMsg:
		m.state = statePlaying
		if msg.err != nil {
			m.appendLog(wrongStyle.Render(fmt.Sprintf("Something went wrong: %v", msg.err)))
			m.appendScreen()
			return m, nil
		}
		m.appendFeedback(msg.feedback)
		m.appendScreen()
		return m, nil
	}

	if m.state == stateMenu || m.state == statePlaying {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

// selectGame leaves the menu and starts the chosen game.
func (m model) selectGame(input string) model {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(m.games) {
		return m
	}
	m.active = m.games[n-1]
	m.state = statePlaying
	m.gameLog = ""
	m.textInput.Reset()
	m.textInput.Placeholder = "Type a number, an answer, or /help"
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.logWidth(), m.height-6)
	}
	m.appendScreen()
	return m
}

// handleInput maps one line of typed input onto a game action.
func (m model) handleInput(input string) (model, tea.Cmd) {
	logWidth := m.logWidth()
	m.gameLog += "\n" + userStyle.Width(logWidth).Render("> "+input) + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()

	switch {
	case input == "/quit":
		return m, tea.Quit

	case input == "/menu":
		m.state = stateMenu
		m.active = nil
		m.gameLog = ""
		m.textInput.Placeholder = "Pick a game by number..."
		return m, nil

	case input == "/help":
		m.appendLog(helpStyle.Render("Commands: /menu, /reset, /next, /ask <question>, /quit.\nAnswer by typing a choice number or the answer itself."))
		m.appendScreen()
		return m, nil

	case input == "/reset":
		return m.dispatch(game.Reset{})

	case input == "/next":
		return m.dispatch(game.Advance{})

	case strings.HasPrefix(input, "/ask "):
		question := strings.TrimSpace(strings.TrimPrefix(input, "/ask "))
		if question == "" {
			return m, nil
		}
		return m.dispatch(game.Ask{Question: question})
	}

	v := m.active.View()
	if v.NeedsText {
		return m.dispatch(game.Submit{Answer: input})
	}
	if v.SpotCount > 0 {
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= v.SpotCount {
			return m.dispatch(game.Select{Spot: n})
		}
	}

	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(m.choices) {
		return m.dispatch(m.choices[n-1].action)
	}
	for _, c := range m.choices {
		if strings.EqualFold(c.label, input) {
			return m.dispatch(c.action)
		}
	}

	// Fall through to a plain submit so free answers still work.
	return m.dispatch(game.Submit{Answer: input})
}

// dispatch runs the action off the UI thread; evaluator-backed actions can
// take a while.
func (m model) dispatch(action game.Action) (model, tea.Cmd) {
	g := m.active
	m.state = stateLoading
	return m, func() tea.Msg {
		fb, err := g.Handle(context.Background(), action)
		return actionResultMsg{feedback: fb, err: err}
	}
}

func (m *model) appendFeedback(fb game.Feedback) {
	if fb.Message == "" {
		return
	}
	switch {
	case fb.Correct == nil:
		m.appendLog(gameStyle.Render(fb.Message))
	case *fb.Correct:
		m.appendLog(rightStyle.Render(fb.Message))
	default:
		m.appendLog(wrongStyle.Render(fb.Message))
	}
}

// appendScreen re-renders the active game's current phase into the log and
// rebuilds the numbered choice list.
func (m *model) appendScreen() {
	if m.active == nil {
		return
	}
	v := m.active.View()
	m.choices = buildChoices(v)

	var b strings.Builder
	if v.Heading != "" {
		b.WriteString(gameStyle.Bold(true).Render(v.Heading) + "\n\n")
	}
	if v.Body != "" {
		b.WriteString(v.Body + "\n\n")
	}
	if v.Prompt != "" {
		b.WriteString(gameStyle.Render(v.Prompt) + "\n")
	}
	for i, c := range m.choices {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, c.label))
	}
	if v.Completed {
		b.WriteString(helpStyle.Render("\nGame complete. /reset to play again, /menu for another game."))
	} else if v.CanAdvance {
		b.WriteString(helpStyle.Render("\nType /next to continue."))
	}
	if v.CanAsk {
		b.WriteString(helpStyle.Render("\nCurious? /ask <your question>."))
	}

	m.appendLog(gameStyle.Width(m.logWidth()).Render(b.String()))
}

func buildChoices(v game.View) []choice {
	var out []choice
	for _, o := range v.Options {
		out = append(out, choice{label: o, action: game.Submit{Answer: o}})
	}
	for _, l := range v.Locations {
		out = append(out, choice{label: l, action: game.Visit{Location: l}})
	}
	for _, a := range v.Areas {
		out = append(out, choice{label: a, action: game.Explore{Area: a}})
	}
	for _, item := range v.Items {
		out = append(out, choice{label: item, action: game.Pickup{Item: item}})
	}
	return out
}

func (m *model) appendLog(s string) {
	m.gameLog += s + "\n\n"
	m.viewport.SetContent(m.gameLog)
	m.viewport.GotoBottom()
}

func (m model) logWidth() int {
	w := int(float64(m.width) * 0.75)
	if w <= 0 {
		w = 80
	}
	return w
}

func (m model) View() string {
	var s string

	switch m.state {
	case stateMenu:
		var b strings.Builder
		b.WriteString("Welcome to the Lesson Arcade!\n\n")
		b.WriteString("Pick a game:\n\n")
		for i, g := range m.games {
			d := g.Descriptor()
			b.WriteString(fmt.Sprintf("  %d. %s\n     %s\n", i+1, d.Title, d.Description))
		}
		s = fmt.Sprintf("%s\n%s", b.String(), m.textInput.View())

	case stateLoading:
		logView := m.viewport.View()
		s = lipgloss.JoinVertical(lipgloss.Left,
			logView,
			"\n  Thinking...",
		)

	case statePlaying:
		logView := m.viewport.View()
		stateView := m.renderState()

		mainView := lipgloss.JoinHorizontal(lipgloss.Top,
			logView,
			stateView,
		)

		help := helpStyle.Render("Commands: /menu, /reset, /next, /ask <question>, /quit.")

		s = lipgloss.JoinVertical(lipgloss.Left,
			mainView,
			"\n"+m.textInput.View(),
			"\n"+help,
		)
	}

	return "\n" + s + "\n"
}

func (m model) renderState() string {
	if m.active == nil {
		return ""
	}
	v := m.active.View()

	title := titleStyle.Render("GAME") + "\n" + m.active.Descriptor().Title + "\n\n"
	phase := titleStyle.Render("PHASE") + "\n" + v.Phase + "\n\n"
	score := titleStyle.Render("SCORE") + "\n" + strconv.Itoa(v.Score) + "\n\n"

	invTitle := titleStyle.Render("COLLECTED") + "\n"
	inventory := ""
	if len(v.Collected) == 0 {
		inventory = "(nothing yet)"
	} else {
		for _, item := range v.Collected {
			inventory += "- " + item + "\n"
		}
	}

	content := title + phase + score + invTitle + inventory

	stateWidth := int(float64(m.width) * 0.23)
	return stateStyle.Width(stateWidth).Height(m.viewport.Height).Render(content)
}

func Run(games []game.Game) error {
	p := tea.NewProgram(NewModel(games), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
