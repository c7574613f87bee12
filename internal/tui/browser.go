// Package tui is the interactive study browser: a list of saved studies
// with a rendered markdown preview. It uses bubbletea's model/update/view
// loop.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"lectio/internal/study"
)

type browserState int

const (
	stateList browserState = iota
	statePreview
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Padding(0, 1)

	flagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)
)

// studyItem adapts a metadata record to the bubbles list.
type studyItem struct {
	meta study.Metadata
}

func (i studyItem) Title() string {
	return fmt.Sprintf("%s — %s", i.meta.Reference, i.meta.Engine)
}

func (i studyItem) Description() string {
	desc := fmt.Sprintf("%s · %d words", i.meta.Timestamp.Format("2006-01-02"), i.meta.WordCount)
	if i.meta.LengthFlag != "" {
		desc += " · " + flagStyle.Render(i.meta.LengthFlag)
	}
	return desc
}

func (i studyItem) FilterValue() string {
	return i.meta.Reference + " " + i.meta.Engine
}

// Browser is the application model.
type Browser struct {
	store    *study.Store
	list     list.Model
	viewport viewport.Model
	state    browserState
	current  study.Metadata
	err      error
	width    int
	height   int
}

// NewBrowser loads the stored studies into a browser model.
func NewBrowser(store *study.Store) (*Browser, error) {
	records, err := store.List()
	if err != nil {
		return nil, err
	}
	items := make([]list.Item, 0, len(records))
	for _, meta := range records {
		items = append(items, studyItem{meta: meta})
	}

	delegate := list.NewDefaultDelegate()
	l := list.New(items, delegate, 0, 0)
	l.Title = "Saved Studies"
	l.Styles.Title = titleStyle

	return &Browser{
		store:    store,
		list:     l,
		viewport: viewport.New(0, 0),
		state:    stateList,
	}, nil
}

// Init is part of tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update is part of tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.list.SetSize(msg.Width, msg.Height-2)
		b.viewport.Width = msg.Width
		b.viewport.Height = msg.Height - 3
		return b, nil

	case tea.KeyMsg:
		switch b.state {
		case stateList:
			switch msg.String() {
			case "q", "ctrl+c":
				return b, tea.Quit
			case "enter":
				return b.openSelected()
			}
		case statePreview:
			switch msg.String() {
			case "q", "esc":
				b.state = stateList
				b.err = nil
				return b, nil
			case "ctrl+c":
				return b, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch b.state {
	case stateList:
		b.list, cmd = b.list.Update(msg)
	case statePreview:
		b.viewport, cmd = b.viewport.Update(msg)
	}
	return b, cmd
}

// openSelected loads the highlighted study and renders it for preview.
func (b *Browser) openSelected() (tea.Model, tea.Cmd) {
	item, ok := b.list.SelectedItem().(studyItem)
	if !ok {
		return b, nil
	}
	artifact, err := b.store.Get(item.meta.Slug)
	if err != nil {
		b.err = err
		return b, nil
	}

	width := b.width
	if width <= 0 || width > 100 {
		width = 100
	}
	rendered, err := RenderMarkdown(artifact.Body, width)
	if err != nil {
		// Fall back to raw markdown rather than refusing to show anything.
		rendered = artifact.Body
	}
	b.current = artifact.Metadata
	b.viewport.SetContent(rendered)
	b.viewport.GotoTop()
	b.state = statePreview
	return b, nil
}

// View is part of tea.Model.
func (b *Browser) View() string {
	switch b.state {
	case statePreview:
		header := titleStyle.Render(fmt.Sprintf("%s — %s", b.current.Reference, b.current.Engine))
		footer := helpStyle.Render("↑/↓ scroll · esc back · ctrl+c quit")
		return strings.Join([]string{header, b.viewport.View(), footer}, "\n")
	default:
		view := b.list.View()
		if b.err != nil {
			view += "\n" + errStyle.Render(b.err.Error())
		}
		return view
	}
}

// RenderMarkdown renders a study body for terminal display, wrapped to
// width. Callers should fall back to the raw markdown on error.
func RenderMarkdown(body string, width int) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	return renderer.Render(body)
}

// Run starts the interactive browser and blocks until the user quits.
func Run(store *study.Store) error {
	browser, err := NewBrowser(store)
	if err != nil {
		return err
	}
	program := tea.NewProgram(browser, tea.WithAltScreen())
	_, err = program.Run()
	return err
}
