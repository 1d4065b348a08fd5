package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)

	selectedStyle = lipgloss.NewStyle().Bold(true).Reverse(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Faint(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// listItem adapts a Todo to bubbles/list.Item.
type listItem struct {
	id   int
	text string
	done bool
}

func (i listItem) Title() string       { return i.text }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.text }

// itemDelegate renders each todo as a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)

	box := mutedStyle.Render(boxUnchecked)
	text := it.text
	if it.done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}

	fmt.Fprintln(w, prefix+box+" "+text)
}

type tuiModel struct {
	manager *Manager
	list    list.Model

	adding  bool
	editing bool
	editID  int
	input   textinput.Model
	inptErr string

	width  int
	height int
}

// RunTUI starts the interactive list over the given manager.
func RunTUI(manager *Manager) error {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("todo", "todos")

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	editBind := key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit"))
	toggleBind := key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle"))
	deleteBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	extra := func() []key.Binding { return []key.Binding{addBind, editBind, toggleBind, deleteBind} }
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "New todo title..."
	input.CharLimit = 255

	m := tuiModel{
		manager: manager,
		list:    l,
		input:   input,
		width:   80,
		height:  24,
	}
	m.reload()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running todo list: %w", err)
	}

	return nil
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height

		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if it, ok := m.selected(); ok {
				if _, err := m.manager.Toggle(it.id); err == nil {
					m.reload()
				}
			}

			return m, nil
		case "d":
			if it, ok := m.selected(); ok {
				if err := m.manager.Delete(it.id); err == nil {
					m.reload()
				}
			}

			return m, nil
		case "a":
			m.adding = true
			m.inptErr = ""
			m.input.SetValue("")
			m.input.Placeholder = "New todo title..."
			m.input.Focus()

			return m, nil
		case "e":
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editID = it.id
				m.inptErr = ""
				m.input.SetValue(it.text)
				m.input.CursorEnd()
				m.input.Placeholder = "Edit todo title..."
				m.input.Focus()
			}

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m tuiModel) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			title := m.input.Value()

			var err error
			if m.adding {
				_, err = m.manager.Add(title, "")
			} else {
				_, err = m.manager.Update(m.editID, &title, nil)
			}

			if err != nil {
				m.inptErr = err.Error()

				return m, nil
			}

			m.closeInput()
			m.reload()

			return m, nil
		case "esc":
			m.closeInput()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m tuiModel) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)

	return it, ok
}

func (m *tuiModel) closeInput() {
	m.adding = false
	m.editing = false
	m.inptErr = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m tuiModel) View() string {
	listHeight := m.height - 4
	if m.adding || m.editing {
		listHeight = m.height - 6
	}

	m.list.SetSize(m.width-2, listHeight)

	content := m.list.View()
	if m.adding || m.editing {
		bar := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)

		title := "Add todo"
		if m.editing {
			title = "Edit todo"
		}

		if m.inptErr != "" {
			title += " " + errorStyle.Render(m.inptErr)
		}

		content += "\n" + bar.Render(title+"\n"+m.input.View())
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)

	return border.Render(content)
}

// reload rebuilds the list from manager state and refreshes the header
// counters.
func (m *tuiModel) reload() {
	todos := m.manager.List()

	items := make([]list.Item, 0, len(todos))

	done := 0
	for _, todo := range todos {
		if todo.Completed {
			done++
		}

		items = append(items, listItem{
			id:   todo.ID,
			text: todo.Title,
			done: todo.Completed,
		})
	}

	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), len(todos)-done,
		accentStyle.Render("Total"), len(todos),
	)
}
