package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/hackerstories/internal/logging"
	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/stories"
	"github.com/abelbrown/hackerstories/internal/story"
)

// Actions is what the App asks of the coordinator. Every call is made from
// a tea.Cmd, never from Update.
type Actions interface {
	Fetch(query string, page int, mode pager.Mode)
	Delete(id int)
	Edit(s story.Story)
	Add(s story.Story)
	StartEdit(id int) error
	StartAdd() error
	CloseForm() error
	Sort(field story.Field) error
	ToggleSource() string
	SourceName() string
}

// Prefs persists the user's choices between runs.
type Prefs interface {
	SetSearchTerm(term string) error
	SetPagerMode(m pager.Mode) error
}

// Options configures a new App.
type Options struct {
	Search    string
	PagerMode pager.Mode
	PagerSize int
	// NewID supplies the id pre-filled into the add form. Defaults to a
	// random id in [1, 1000000].
	NewID func() int
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the dispatcher. It receives state via
// StateChanged messages.
type App struct {
	actions Actions
	prefs   Prefs
	newID   func() int

	state  stories.State
	cursor int
	err    error
	source string

	search    textinput.Model
	searching bool

	form     storyForm
	formOpen bool

	mode      pager.Mode
	pagerSize int
	// autoArmed guards load-more-auto: set when the cursor leaves the last
	// row, cleared when a page is requested from it.
	autoArmed bool

	spinner spinner.Model
	help    help.Model

	width  int
	height int
	ready  bool
}

// NewApp creates a new App.
func NewApp(actions Actions, prefs Prefs, opts Options) App {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "search term"
	ti.CharLimit = 100
	ti.Width = 40
	ti.SetValue(opts.Search)

	s := spinner.New()
	s.Spinner = spinner.Dot

	mode := opts.PagerMode
	if _, err := pager.ParseMode(string(mode)); err != nil {
		mode = pager.LoadMoreManual
	}
	size := opts.PagerSize
	if size <= 0 {
		size = pager.DefaultWindowSize
	}
	newID := opts.NewID
	if newID == nil {
		newID = randomID
	}

	a := App{
		actions:   actions,
		prefs:     prefs,
		newID:     newID,
		state:     stories.NewState(),
		search:    ti,
		mode:      mode,
		pagerSize: size,
		autoArmed: true,
		spinner:   s,
		help:      help.New(),
	}
	if actions != nil {
		a.source = actions.SourceName()
	}
	return a
}

// Init starts the spinner and fetches the first page of the saved search.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.fetch(0))
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case a.formOpen:
			return a.handleFormKey(msg)
		case a.searching:
			return a.handleSearchKey(msg)
		}
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case StateChanged:
		return a.applyState(msg.State), nil

	case SourceToggled:
		a.source = msg.Name
		a.cursor = 0
		return a, a.fetch(0)

	case ActionFailed:
		a.err = msg.Err
		return a, nil
	}

	return a, nil
}

// applyState adopts a committed state and opens or closes the form to match.
func (a App) applyState(s stories.State) App {
	prevVisible := a.state.FormVisible
	a.state = s

	if n := len(s.Items); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
	if a.cursor < len(s.Items)-1 {
		a.autoArmed = true
	}

	switch {
	case s.FormVisible && !prevVisible:
		a.form = newStoryForm(s.Editing, a.newID)
		a.formOpen = true
	case !s.FormVisible:
		a.formOpen = false
	}
	return a
}

// handleKeyMsg processes keyboard input on the list.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any existing error on key press
	a.err = nil

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a.checkAutoLoad()

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.state.Items)-1 {
			a.cursor++
		}
		return a.checkAutoLoad()

	case key.Matches(msg, keys.Home):
		a.cursor = 0
		return a.checkAutoLoad()

	case key.Matches(msg, keys.End):
		if n := len(a.state.Items); n > 0 {
			a.cursor = n - 1
		}
		return a.checkAutoLoad()

	case key.Matches(msg, keys.Search):
		a.searching = true
		return a, a.search.Focus()

	case key.Matches(msg, keys.Refresh):
		page := 0
		if a.mode == pager.Classic {
			page = a.state.Page
		}
		return a, a.fetch(page)

	case key.Matches(msg, keys.Mode):
		a.mode = a.mode.Next()
		a.cursor = 0
		return a, tea.Batch(a.savePagerMode(a.mode), a.fetch(0))

	case key.Matches(msg, keys.Source):
		return a, a.toggleSource()

	case key.Matches(msg, keys.Sort):
		i := int(msg.Runes[0] - '1')
		field := story.SortableFields[i]
		return a, a.call(func() error { return a.actions.Sort(field) })

	case key.Matches(msg, keys.Add):
		return a, a.call(func() error { return a.actions.StartAdd() })
	}

	// The list is hidden while an operation is in flight.
	if a.state.Busy() {
		return a, nil
	}

	switch {
	case key.Matches(msg, keys.Delete):
		if s, ok := a.current(); ok {
			return a, a.do(func() { a.actions.Delete(s.ObjectID) })
		}

	case key.Matches(msg, keys.Edit):
		if s, ok := a.current(); ok {
			return a, a.call(func() error { return a.actions.StartEdit(s.ObjectID) })
		}

	case key.Matches(msg, keys.More):
		if a.mode.LoadMore() && pager.HasMore(a.state.Page, a.state.TotalPages) {
			return a, a.fetch(a.state.Page + 1)
		}

	case key.Matches(msg, keys.PrevPage):
		if a.mode == pager.Classic && a.state.Page > 0 {
			return a, a.fetch(a.state.Page - 1)
		}

	case key.Matches(msg, keys.NextPage):
		if a.mode == pager.Classic && pager.HasMore(a.state.Page, a.state.TotalPages) {
			return a, a.fetch(a.state.Page + 1)
		}

	case key.Matches(msg, keys.First):
		if a.mode == pager.Classic {
			return a, a.fetch(0)
		}

	case key.Matches(msg, keys.Last):
		if a.mode == pager.Classic && a.state.TotalPages > 0 {
			return a, a.fetch(a.state.TotalPages - 1)
		}
	}

	return a, nil
}

// checkAutoLoad requests the next page when the cursor reaches the last
// row in load-more-auto mode. It fires once per arrival at the bottom.
func (a App) checkAutoLoad() (tea.Model, tea.Cmd) {
	n := len(a.state.Items)
	if n == 0 {
		return a, nil
	}
	if a.cursor < n-1 {
		a.autoArmed = true
		return a, nil
	}
	if a.mode != pager.LoadMoreAuto || !a.autoArmed || a.state.Busy() ||
		!pager.HasMore(a.state.Page, a.state.TotalPages) {
		return a, nil
	}
	a.autoArmed = false
	return a, a.fetch(a.state.Page + 1)
}

// handleSearchKey edits the search term. Every change is saved; enter
// runs the search.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.searching = false
		a.search.Blur()
		return a, nil
	case tea.KeyEnter:
		a.searching = false
		a.search.Blur()
		a.cursor = 0
		return a, a.fetch(0)
	}

	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if after := a.search.Value(); after != before {
		return a, tea.Batch(cmd, a.saveSearch(after))
	}
	return a, cmd
}

// handleFormKey drives the add/edit form.
func (a App) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, formKeys.Cancel):
		return a, a.call(func() error { return a.actions.CloseForm() })

	case key.Matches(msg, formKeys.Submit):
		if a.form.submitted {
			return a, nil
		}
		s, err := a.form.Story()
		if err != nil {
			a.form.err = err.Error()
			return a, nil
		}
		a.form.submitted = true
		if a.form.isAdd {
			return a, a.do(func() { a.actions.Add(s) })
		}
		return a, a.do(func() { a.actions.Edit(s) })
	}

	if a.form.submitted {
		return a, nil
	}
	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

// current returns the story under the cursor.
func (a App) current() (story.Story, bool) {
	if a.cursor < 0 || a.cursor >= len(a.state.Items) {
		return story.Story{}, false
	}
	return a.state.Items[a.cursor], true
}

// fetch returns a Cmd that requests page of the current search.
func (a App) fetch(page int) tea.Cmd {
	query, mode := a.search.Value(), a.mode
	return a.do(func() { a.actions.Fetch(query, page, mode) })
}

func (a App) toggleSource() tea.Cmd {
	if a.actions == nil {
		return nil
	}
	actions := a.actions
	return func() tea.Msg {
		return SourceToggled{Name: actions.ToggleSource()}
	}
}

// do wraps a fire-and-forget action.
func (a App) do(fn func()) tea.Cmd {
	if a.actions == nil {
		return nil
	}
	return func() tea.Msg {
		fn()
		return nil
	}
}

// call wraps an action whose rejection should be shown.
func (a App) call(fn func() error) tea.Cmd {
	if a.actions == nil {
		return nil
	}
	return func() tea.Msg {
		if err := fn(); err != nil {
			return ActionFailed{Err: err}
		}
		return nil
	}
}

func (a App) saveSearch(term string) tea.Cmd {
	if a.prefs == nil {
		return nil
	}
	prefs := a.prefs
	return func() tea.Msg {
		if err := prefs.SetSearchTerm(term); err != nil {
			logging.Warn("failed to save search term", "err", err)
		}
		return nil
	}
}

func (a App) savePagerMode(m pager.Mode) tea.Cmd {
	if a.prefs == nil {
		return nil
	}
	prefs := a.prefs
	return func() tea.Msg {
		if err := prefs.SetPagerMode(m); err != nil {
			logging.Warn("failed to save pager mode", "err", err)
		}
		return nil
	}
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	top := []string{
		RenderHeading(a.state.SumComments(), a.width),
		RenderSearchBar(a.search.View(), a.searching, a.width),
	}
	if a.formOpen {
		top = append(top, a.form.View())
	}
	header := lipgloss.JoinVertical(lipgloss.Left, top...)

	var bottom []string
	bottom = append(bottom, RenderPager(a.mode, a.state.Page, a.state.TotalPages, a.pagerSize))
	if a.err != nil {
		bottom = append(bottom, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss)"))
	}
	if a.help.ShowAll {
		bottom = append(bottom, a.help.View(keys))
	}
	hints := a.help.ShortHelpView(keys.ShortHelp())
	if a.help.ShowAll {
		hints = ""
	}
	bottom = append(bottom, RenderStatusBar(a.cursor, len(a.state.Items), a.source, hints, a.width))
	footer := lipgloss.JoinVertical(lipgloss.Left, bottom...)

	var body string
	if a.state.Busy() {
		body = Busy.Render(a.spinner.View() + " " + a.state.StatusMessage)
	} else {
		// One line for the column headers.
		listHeight := a.height - lipgloss.Height(header) - lipgloss.Height(footer) - 1
		body = RenderColumnHeaders(a.state.SortSpecs, a.width) + "\n" +
			strings.TrimSuffix(RenderList(a.state.Items, a.cursor, a.width, listHeight), "\n")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// State returns the last state received (for testing).
func (a App) State() stories.State {
	return a.state
}

// Mode returns the active pager mode.
func (a App) Mode() pager.Mode {
	return a.mode
}

// Searching reports whether the search box has focus.
func (a App) Searching() bool {
	return a.searching
}

// FormOpen reports whether the add/edit form is showing.
func (a App) FormOpen() bool {
	return a.formOpen
}
