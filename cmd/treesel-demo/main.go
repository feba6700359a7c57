// treesel-demo is an interactive tree browser for exercising the selection
// model: move a cursor through a tree loaded from YAML, toggle and
// range-select items, and splice siblings in and out to watch the selection
// re-index itself.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/pflag"

	"github.com/phroun/treesel"
)

const sampleTree = `
- name: projects
  children:
    - name: treesel
      children:
        - name: path.go
        - name: node.go
        - name: treesel.go
    - name: garland
      children:
        - name: tree.go
        - name: cursor.go
- name: docs
  children:
    - name: readme
    - name: notes
- name: scratch
`

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1A1A")).
			Background(lipgloss.Color("#A3E635"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	anchorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#38BDF8"))

	statusStyle = lipgloss.NewStyle().
			Faint(true)

	helpText = "j/k move  space toggle  V range  a anchor  c clear  s single  i insert  d delete  q quit"
)

type appModel struct {
	tree *treesel.SliceTree[string]
	sel  *treesel.Model[string]

	rows    []treesel.Path
	cursor  int
	vp      viewport.Model
	ready   bool
	status  string
	inserts int
}

func newAppModel(tree *treesel.SliceTree[string], single bool) appModel {
	sel := treesel.New[string](tree, treesel.Options{SingleSelect: single})
	m := appModel{tree: tree, sel: sel}
	m.rebuildRows()
	return m
}

// rebuildRows flattens the tree into visible rows, depth first.
func (m *appModel) rebuildRows() {
	m.rows = m.rows[:0]
	var walk func(parent treesel.Path)
	walk = func(parent treesel.Path) {
		count := m.tree.ChildCount(parent)
		for i := 0; i < count; i++ {
			p := parent.Append(i)
			m.rows = append(m.rows, p)
			walk(p)
		}
	}
	walk(treesel.EmptyPath)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) cursorPath() treesel.Path {
	if len(m.rows) == 0 {
		return treesel.EmptyPath
	}
	return m.rows[m.cursor]
}

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 4
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "j", "down":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.rows) - 1

		case " ":
			p := m.cursorPath()
			if p.IsEmpty() {
				break
			}
			if m.sel.IsSelected(p) {
				m.sel.Deselect(p)
				m.status = fmt.Sprintf("deselected %v", p)
			} else {
				m.sel.Select(p)
				m.status = fmt.Sprintf("selected %v", p)
			}

		case "V":
			anchor := m.sel.AnchorIndex()
			p := m.cursorPath()
			if anchor.IsEmpty() || p.IsEmpty() {
				m.status = "no anchor to extend from"
				break
			}
			if err := m.sel.SelectRange(anchor, p); err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("range %v .. %v", anchor, p)
			}

		case "a":
			m.sel.SetAnchorIndex(m.cursorPath())
			m.status = fmt.Sprintf("anchor %v", m.sel.AnchorIndex())

		case "c":
			m.sel.Clear()
			m.status = "cleared"

		case "s":
			m.sel.SetSingleSelect(!m.sel.SingleSelect())
			m.status = fmt.Sprintf("single-select %v", m.sel.SingleSelect())

		case "i":
			p := m.cursorPath()
			if p.IsEmpty() {
				break
			}
			m.inserts++
			name := fmt.Sprintf("new-%d", m.inserts)
			if err := m.tree.InsertChild(p.Parent(), p.Leaf(), treesel.NewTreeNode(name)); err != nil {
				m.status = err.Error()
				break
			}
			m.rebuildRows()
			m.status = fmt.Sprintf("inserted %s at %v, selection re-indexed", name, p)

		case "d":
			p := m.cursorPath()
			if p.IsEmpty() {
				break
			}
			if _, err := m.tree.RemoveChild(p.Parent(), p.Leaf()); err != nil {
				m.status = err.Error()
				break
			}
			m.rebuildRows()
			m.status = fmt.Sprintf("removed %v, selection re-indexed", p)
		}
	}

	m.vp.SetContent(m.renderRows())
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(nil)
	return m, cmd
}

func (m appModel) renderRows() string {
	var b strings.Builder
	anchor := m.sel.AnchorIndex()
	for i, p := range m.rows {
		label, err := m.tree.ItemAt(p)
		if err != nil {
			continue
		}
		line := strings.Repeat("  ", p.Size()-1) + label

		switch {
		case m.sel.IsSelected(p):
			line = selectedStyle.Render(line)
		case p.Equal(anchor):
			line = anchorStyle.Render(line)
		}
		if i == m.cursor {
			line = cursorStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (m appModel) View() string {
	if !m.ready {
		return "loading..."
	}
	header := titleStyle.Render("treesel demo")
	status := statusStyle.Render(fmt.Sprintf(
		"%d selected | selected=%v anchor=%v | %s",
		m.sel.Count(), m.sel.SelectedIndex(), m.sel.AnchorIndex(), m.status,
	))
	help := statusStyle.Render(helpText)
	return header + "\n" + m.vp.View() + "\n" + status + "\n" + help
}

func main() {
	fileFlag := pflag.StringP("file", "f", "", "YAML tree to browse (list of {name, children} nodes)")
	singleFlag := pflag.BoolP("single", "s", false, "Start in single-select mode")
	pflag.Parse()

	data := []byte(sampleTree)
	if *fileFlag != "" {
		var err error
		data, err = os.ReadFile(*fileFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "reading %s: %v\n", *fileFlag, err)
			os.Exit(1)
		}
	}

	tree, err := treesel.LoadYAML(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading tree: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(newAppModel(tree, *singleFlag), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
