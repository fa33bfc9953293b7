// Package ui is plateview's terminal dashboard: region and cuisine
// selectors, four analysis panels, an insights pane and a status line.
//
// Model owns a *dashboard.Controller and is the only code that mutates it.
// Fetches run as tea.Cmds and come back as messages that Update applies.
package ui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/plateview/pkg/chart"
	"github.com/vanderheijden86/plateview/pkg/dashboard"
	"github.com/vanderheijden86/plateview/pkg/debug"
	"github.com/vanderheijden86/plateview/pkg/logging"
	"github.com/vanderheijden86/plateview/pkg/metrics"
	"github.com/vanderheijden86/plateview/pkg/watcher"
)

// focus represents which UI element has keyboard focus
type focus int

const (
	focusRegions focus = iota
	focusCuisines
	focusInsights
	numFocus
)

const (
	hintDataChanged = "data files changed on disk; restart to reload"
	hintCopied      = "insights copied to clipboard"
)

// Options configures a Model.
type Options struct {
	// Theme is auto, dark or light.
	Theme string
	// Markdown renders insights through glamour.
	Markdown bool
	// Region and Cuisine are selected as soon as the index (and region) load.
	Region  string
	Cuisine string
	// Watcher, when set, drives the data-changed hint.
	Watcher *watcher.Watcher
}

// Model is the main Bubble Tea model for pv
type Model struct {
	ctx     context.Context
	ctrl    *dashboard.Controller
	charts  *chart.TextGrapher
	watcher *watcher.Watcher

	// UI Components
	regions  list.Model
	cuisines list.Model
	insights viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap

	theme       Theme
	md          *MarkdownRenderer
	useMarkdown bool
	dark        bool

	focus    focus
	width    int
	height   int
	showHelp bool
	hint     string

	pendingRegion  string
	pendingCuisine string
}

// NewModel creates the dashboard model. charts must be the grapher behind
// the controller's chart registry.
func NewModel(ctx context.Context, ctrl *dashboard.Controller, charts *chart.TextGrapher, opts Options) Model {
	theme := NewTheme(opts.Theme)
	dark := theme.Renderer.HasDarkBackground()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Renderer.NewStyle().Foreground(theme.Primary)

	selectedRegion := func() string {
		r, _ := ctrl.Selection()
		return r
	}
	selectedCuisine := func() string {
		_, c := ctrl.Selection()
		return c
	}

	m := Model{
		ctx:            ctx,
		ctrl:           ctrl,
		charts:         charts,
		watcher:        opts.Watcher,
		regions:        newSelector(theme, "Regions", selectedRegion),
		cuisines:       newSelector(theme, "Cuisines", selectedCuisine),
		insights:       viewport.New(80, InsightsHeight-2),
		spinner:        sp,
		help:           help.New(),
		keys:           defaultKeyMap(),
		theme:          theme,
		useMarkdown:    opts.Markdown,
		dark:           dark,
		width:          120,
		height:         40,
		pendingRegion:  opts.Region,
		pendingCuisine: opts.Cuisine,
	}
	m.resize()
	m.refreshInsights()
	return m
}

// Init starts the index load, the spinner and the data watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		loadIndexCmd(m.ctx, m.ctrl),
		m.spinner.Tick,
	}
	if m.watcher != nil {
		cmds = append(cmds, WatchDataCmd(m.watcher))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshInsights()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case indexLoadedMsg:
		m.ctrl.ApplyIndex(msg.res)
		m.regions.SetItems(choiceItems(m.ctrl.Index().Regions()))
		if r := m.pendingRegion; r != "" {
			moveTo(&m.regions, r)
			cmds = append(cmds, m.selectRegion(r))
		}

	case regionLoadedMsg:
		if m.ctrl.ApplyRegion(msg.res) {
			m.syncCuisines()
			m.refreshInsights()
			// The preselected cuisine gets one chance, on the first region
			// result that lands.
			c := m.pendingCuisine
			m.pendingCuisine = ""
			if c != "" && msg.res.Err == nil {
				moveTo(&m.cuisines, c)
				cmds = append(cmds, m.selectCuisine(c))
			}
		}

	case cuisineLoadedMsg:
		if m.ctrl.ApplyCuisine(msg.res) {
			m.refreshInsights()
		}

	case DataChangedMsg:
		m.hint = hintDataChanged
		if m.watcher != nil {
			logging.Info().Str("root", m.watcher.Root()).Msg("data directory changed")
			cmds = append(cmds, WatchDataCmd(m.watcher))
		}

	case clipboardMsg:
		if msg.err != nil {
			m.hint = "clipboard: " + msg.err.Error()
		} else {
			m.hint = hintCopied
		}

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKeys(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if msg.String() == "shift+tab" {
			m.focus = (m.focus + numFocus - 1) % numFocus
		} else {
			m.focus = (m.focus + 1) % numFocus
		}
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		text := InsightsText(m.ctrl.Snapshot().Insights)
		return m, func() tea.Msg {
			return clipboardMsg{err: clipboard.WriteAll(text)}
		}

	case key.Matches(msg, m.keys.Select):
		switch m.focus {
		case focusRegions:
			if r, ok := selectedChoice(m.regions); ok {
				return m, m.selectRegion(r)
			}
		case focusCuisines:
			if c, ok := selectedChoice(m.cuisines); ok {
				return m, m.selectCuisine(c)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Deselect):
		if m.focus == focusCuisines {
			return m, m.selectCuisine("")
		}
		return m, m.selectRegion("")

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1, msg)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1, msg)
		return m, nil
	}

	if m.focus == focusInsights {
		var cmd tea.Cmd
		m.insights, cmd = m.insights.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) moveCursor(delta int, msg tea.KeyMsg) {
	switch m.focus {
	case focusRegions:
		if delta < 0 {
			m.regions.CursorUp()
		} else {
			m.regions.CursorDown()
		}
	case focusCuisines:
		if delta < 0 {
			m.cuisines.CursorUp()
		} else {
			m.cuisines.CursorDown()
		}
	case focusInsights:
		m.insights, _ = m.insights.Update(msg)
	}
}

// selectRegion commits a region selection and returns its fetch command.
func (m *Model) selectRegion(region string) tea.Cmd {
	debug.Log("ui: select region %q", region)
	m.hint = ""
	if region != m.pendingRegion {
		m.pendingCuisine = ""
	}
	m.pendingRegion = ""
	req := m.ctrl.SelectRegion(region)
	m.syncCuisines()
	m.refreshInsights()
	return loadRegionCmd(m.ctx, req)
}

// selectCuisine commits a cuisine selection and returns its fetch command.
func (m *Model) selectCuisine(cuisine string) tea.Cmd {
	debug.Log("ui: select cuisine %q", cuisine)
	m.hint = ""
	req := m.ctrl.SelectCuisine(cuisine)
	m.refreshInsights()
	return loadCuisineCmd(m.ctx, req)
}

// syncCuisines fills the cuisine selector while a region is loaded and
// empties it otherwise.
func (m *Model) syncCuisines() {
	if !m.ctrl.CuisineSelectorEnabled() {
		m.cuisines.SetItems(nil)
		if m.focus == focusCuisines {
			m.focus = focusRegions
		}
		return
	}
	if len(m.cuisines.Items()) == 0 {
		m.cuisines.SetItems(choiceItems(m.ctrl.Index().Cuisines()))
	}
}

// refreshInsights re-renders the insights pane from the controller.
func (m *Model) refreshInsights() {
	insights := m.ctrl.Snapshot().Insights
	if len(insights) == 0 {
		m.insights.SetContent(m.theme.MutedText.Render("Insights appear once a region loads."))
		return
	}
	if m.useMarkdown {
		if m.md == nil || m.md.Width() != m.insights.Width {
			m.md = NewMarkdownRenderer(m.insights.Width, m.dark)
		}
		m.insights.SetContent(m.md.Render(InsightsMarkdown(insights)))
	} else {
		m.insights.SetContent(InsightsText(insights))
	}
	m.insights.GotoTop()
}

// layout holds derived pane sizes.
type layout struct {
	leftW, rightW  int
	selectorH      int
	panelW, panelH int
	panelCols      int
	insightsH      int
	bodyH          int
}

func (m Model) layout() layout {
	var l layout
	l.bodyH = max(m.height-2, 10)
	l.leftW = SelectorWidth
	l.rightW = max(m.width-l.leftW, MinPanelWidth)
	l.insightsH = InsightsHeight
	l.selectorH = max(l.bodyH/2, 4)

	panelsH := max(l.bodyH-l.insightsH, 8)
	if l.rightW >= 2*MinPanelWidth && m.width >= WideViewThreshold {
		l.panelCols = 2
		l.panelW = l.rightW / 2
		l.panelH = panelsH / 2
	} else {
		l.panelCols = 1
		l.panelW = l.rightW
		l.panelH = max(panelsH/4, 4)
	}
	return l
}

func (m *Model) resize() {
	l := m.layout()
	m.regions.SetSize(l.leftW-2, l.selectorH-2)
	m.cuisines.SetSize(l.leftW-2, l.bodyH-l.selectorH-2)
	m.insights.Width = max(l.rightW-4, 10)
	m.insights.Height = max(l.insightsH-3, 1)
	m.help.Width = m.width
}

func (m Model) View() string {
	timer := metrics.Timer(metrics.UIRender)
	defer timer()

	v := m.ctrl.Snapshot()
	l := m.layout()

	header := m.renderHeader(v)
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderSelector(m.regions, l.leftW, l.selectorH, m.focus == focusRegions, ""),
		m.renderSelector(m.cuisines, l.leftW, l.bodyH-l.selectorH, m.focus == focusCuisines,
			disabledCuisineText(v)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		m.renderPanels(v, l),
		RenderPanel(m.theme, "Insights", m.insights.View(), l.rightW, l.insightsH, m.focus == focusInsights),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(m.keys))
}

func disabledCuisineText(v dashboard.View) string {
	if v.CuisineEnabled {
		return ""
	}
	return "Select a region first"
}

func (m Model) renderHeader(v dashboard.View) string {
	t := m.theme
	var status string
	switch v.Status {
	case dashboard.StatusInitFailed, dashboard.StatusError:
		status = t.StatusErr.Render(v.Message)
	case dashboard.StatusLoading, dashboard.StatusInitializing:
		status = m.spinner.View() + " " + t.Base.Render(v.Message)
	default:
		status = t.StatusOK.Render(v.Message)
	}

	parts := []string{t.Title.Render("plateview"), status}
	if sel := selectionLabel(v); sel != "" {
		parts = append(parts, t.MutedText.Render(sel))
	}
	if m.hint != "" {
		parts = append(parts, t.Hint.Render(m.hint))
	}
	return t.Renderer.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, "  "))
}

func selectionLabel(v dashboard.View) string {
	switch {
	case v.Region != "" && v.Cuisine != "":
		return "[" + v.Region + " / " + v.Cuisine + "]"
	case v.Region != "":
		return "[" + v.Region + "]"
	}
	return ""
}

func (m Model) renderSelector(l list.Model, width, height int, focused bool, placeholder string) string {
	style := m.theme.Panel
	if focused {
		style = m.theme.PanelFocused
	}
	content := l.View()
	if placeholder != "" {
		content = m.theme.PanelTitle.Render(l.Title) + "\n\n" + m.theme.MutedText.Render(placeholder)
	}
	return style.Width(max(width-2, 1)).Height(max(height-2, 1)).Render(content)
}

func (m Model) renderPanels(v dashboard.View, l layout) string {
	innerW := max(l.panelW-4, 10)
	bodies := panelBodies(m.theme, v, m.charts, innerW)
	titles := [4]string{titleEcosystem, titleCuisine, titleCompetitive, titleOpportunities}

	boxes := make([]string, 4)
	for i := range boxes {
		boxes[i] = RenderPanel(m.theme, titles[i], bodies[i], l.panelW, l.panelH, false)
	}
	if l.panelCols == 2 {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, boxes[0], boxes[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, boxes[2], boxes[3]),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}

// Controller returns the dashboard controller.
func (m Model) Controller() *dashboard.Controller {
	return m.ctrl
}

// FocusState returns the focused pane name.
func (m Model) FocusState() string {
	switch m.focus {
	case focusCuisines:
		return "cuisines"
	case focusInsights:
		return "insights"
	default:
		return "regions"
	}
}

// Hint returns the transient status hint.
func (m Model) Hint() string {
	return m.hint
}
