package cmd

import (
	"fmt"
	"io"
	pathpkg "path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/spinner"
	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"

	"legdis/internal/analysis"
	"legdis/internal/disasm"
	"legdis/internal/legdis/styles"
	"legdis/internal/legv8"
	"legdis/internal/ui/colorize"
)

type viewMode int

const (
	viewListing viewMode = iota
	viewLabels
)

type labelItem struct {
	slot int
	name string
	refs int
}

func (i labelItem) Title() string       { return i.name }
func (i labelItem) Description() string { return "" }
func (i labelItem) FilterValue() string { return i.name }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(labelItem)
	if !ok {
		return
	}

	indicator := " "
	slotStyle := styles.Muted
	if index == m.Index() {
		indicator = ">"
		slotStyle = styles.Selected
	}

	refs := "refs"
	if i.refs == 1 {
		refs = "ref"
	}
	fmt.Fprintf(w, " %s  %s  %s  %s",
		indicator,
		slotStyle.Render(fmt.Sprintf("%5d", i.slot)),
		styles.LabelName.Render(i.name),
		styles.Muted.Render(fmt.Sprintf("%d %s", i.refs, refs)))
}

type listingMsg struct {
	result *result
	err    error
}

func disassembleCmd(path string, cfg Config) tea.Cmd {
	return func() tea.Msg {
		r, err := disassembleFile(path, cfg)
		if err == nil {
			err = writeListing(r, cfg)
		}
		return listingMsg{result: r, err: err}
	}
}

type model struct {
	viewport   viewport.Model
	labelsList list.Model
	spinner    spinner.Model
	mode       viewMode
	path       string
	cfg        Config
	result     *result
	err        error
	loading    bool
	header     int         // viewport lines above the listing
	labelLines map[int]int // slot -> line of its label within the listing
	width      int
	height     int
}

func NewModel(path string, cfg Config) model {
	vp := viewport.New()
	vp.SetWidth(80)
	vp.SetHeight(24)

	labelsList := list.New([]list.Item{}, itemDelegate{}, 80, 24)
	labelsList.SetShowStatusBar(false)
	labelsList.SetFilteringEnabled(true)
	labelsList.Title = "Labels"
	labelsList.Styles.Title = styles.Title
	labelsList.SetShowHelp(true)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Selected

	m := model{
		viewport:   vp,
		labelsList: labelsList,
		spinner:    s,
		mode:       viewListing,
		path:       path,
		cfg:        cfg,
		loading:    true,
		width:      80,
		height:     24,
	}
	m.updateContent()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		disassembleCmd(m.path, m.cfg),
		m.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case listingMsg:
		m.loading = false
		m.result = msg.result
		m.err = msg.err
		if m.err == nil {
			m.updateLabelsList()
		}
		m.updateContent()
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		m.updateContent()
		return m, cmd

	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.width = msg.Width
			m.height = msg.Height
			m.viewport.SetWidth(msg.Width)
			m.viewport.SetHeight(msg.Height - 2)
			m.labelsList.SetWidth(msg.Width)
			m.labelsList.SetHeight(msg.Height - 2)
			m.updateContent()
		}

	case tea.KeyMsg:
		if m.mode == viewLabels && m.labelsList.FilterState() == list.Filtering {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "l":
			if len(m.labelsList.Items()) > 0 {
				m.mode = viewLabels
			}
			return m, nil
		case "tab", "shift+tab":
			if m.mode == viewLabels {
				m.mode = viewListing
			} else if len(m.labelsList.Items()) > 0 {
				m.mode = viewLabels
			}
			return m, nil
		case "enter":
			if m.mode == viewLabels {
				if item, ok := m.labelsList.SelectedItem().(labelItem); ok {
					m.jumpTo(item.slot)
				}
				return m, nil
			}
		case "esc":
			if m.mode == viewLabels {
				m.mode = viewListing
				return m, nil
			}
		}
	}

	switch m.mode {
	case viewLabels:
		m.labelsList, cmd = m.labelsList.Update(msg)
	default:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	var content, menu string
	switch m.mode {
	case viewLabels:
		content = m.labelsList.View()
		menu = " Enter: jump to label • Esc: listing • Q: quit "
	default:
		content = m.viewport.View()
		if len(m.labelsList.Items()) > 0 {
			menu = " L: labels • Tab: cycle • Q: quit "
		} else {
			menu = " Q: quit "
		}
	}
	return content + "\n" + styles.Menu.Width(m.width).Render(menu)
}

// jumpTo scrolls the listing so the label of slot is on the first line.
func (m *model) jumpTo(slot int) {
	line, ok := m.labelLines[slot]
	if !ok {
		return
	}
	m.mode = viewListing
	m.viewport.SetYOffset(m.header + line)
}

func (m *model) summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", pathpkg.Base(m.path))

	switch {
	case m.loading:
		fmt.Fprintf(&b, "%s Decoding...\n", m.spinner.View())
	case m.err != nil:
		fmt.Fprintf(&b, "```\n; %s\n```\n", m.err)
	default:
		labels := len(m.labelsList.Items())
		fmt.Fprintf(&b, "- **%d** instructions, **%d** labels\n", len(m.result.insts), labels)
		fmt.Fprintf(&b, "- digest `%s`\n", m.result.digest)
		if !m.cfg.NoWrite && m.cfg.Output != "" {
			fmt.Fprintf(&b, "- written to `%s`\n", m.cfg.Output)
		}
	}
	return b.String()
}

func (m *model) updateContent() {
	header := strings.TrimSuffix(styles.RenderSummary(m.summary(), m.width), "\n")

	if m.err != nil {
		m.header = 0
		m.viewport.SetContent(header + "\n\n" + styles.Error.Render(m.err.Error()))
		return
	}
	if m.result == nil {
		m.header = 0
		m.viewport.SetContent(header)
		return
	}

	m.header = strings.Count(header, "\n") + 2
	m.viewport.SetContent(header + "\n\n" + colorize.Listing(m.result.listing, m.cfg.Annotate))
}

func (m *model) updateLabelsList() {
	m.labelLines = listingLines(m.result.listing)

	refs := branchRefs(m.result.insts)
	items := make([]list.Item, 0, len(m.labelLines))
	for _, l := range m.result.listing.Labels() {
		items = append(items, labelItem{slot: l.Index, name: l.Label, refs: refs[l.Index]})
	}
	m.labelsList.SetItems(items)
}

// listingLines maps each labelled slot to the line its label occupies in
// the rendered listing.
func listingLines(ls disasm.Listing) map[int]int {
	lines := make(map[int]int)
	n := 0
	for _, l := range ls {
		if l.Label != "" {
			lines[l.Index] = n
			n++
		}
		n++
	}
	return lines
}

func branchRefs(insts []legv8.Instruction) map[int]int {
	refs := make(map[int]int)
	for i, inst := range insts {
		if b, ok := inst.(legv8.Branch); ok {
			refs[analysis.Target(i, b)]++
		}
	}
	return refs
}
