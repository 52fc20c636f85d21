// Package controller is the event loop: it drains keyboard input, ticks
// the View at a modest cadence, forwards rerun/kill commands to the Task
// Model, and commits state through the State Store on exit. It owns no
// task/step state itself — everything it reads comes from a fresh
// model.Snapshot, and everything it writes goes through Model methods.
package controller

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/feltlabs/weft/internal/model"
	"github.com/feltlabs/weft/internal/state"
	"github.com/feltlabs/weft/internal/view"
)

// Drainer is the subset of the Execution Engine the Controller needs on
// shutdown: stop taking new work and wait for in-flight task-runs to exit.
type Drainer interface {
	Drain()
}

// tickMsg drives the periodic redraw half of "smart refresh"; the other
// half is changedMsg, delivered as soon as the Model reports a mutation.
type tickMsg time.Time

// changedMsg is delivered when the Model's dirty channel fires.
type changedMsg struct{}

// Controller is a tea.Model. Program.Run drives Init/Update/View; weft's
// own state lives entirely in the embedded Model plus the Cursor here.
type Controller struct {
	model  *model.Model
	store  *state.Store
	engine Drainer
	title  string
	tick   time.Duration
	cursor view.Cursor
	width  int
	height int
	quit   bool
}

// New returns a Controller ready to be passed to tea.NewProgram.
func New(m *model.Model, store *state.Store, engine Drainer, title string, tickHz int) *Controller {
	if tickHz < 1 {
		tickHz = 1
	}
	return &Controller{
		model:  m,
		store:  store,
		engine: engine,
		title:  title,
		tick:   time.Second / time.Duration(tickHz),
	}
}

// Init implements tea.Model.
func (c *Controller) Init() tea.Cmd {
	view.CheckNoColor()
	return tea.Batch(c.tickCmd(), c.waitForChangeCmd())
}

// Update implements tea.Model.
func (c *Controller) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return c.handleKey(msg)

	case tea.WindowSizeMsg:
		c.width, c.height = msg.Width, msg.Height
		return c, nil

	case tickMsg:
		return c, c.tickCmd()

	case changedMsg:
		return c, c.waitForChangeCmd()
	}
	return c, nil
}

// View implements tea.Model.
func (c *Controller) View() string {
	if c.quit {
		return ""
	}
	snap := c.model.Snapshot()
	return view.Render(snap, c.cursor, view.Options{Title: c.title, Width: c.width, Height: c.height})
}

func (c *Controller) tickCmd() tea.Cmd {
	return tea.Tick(c.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitForChangeCmd blocks on the Model's dirty channel off the Update
// goroutine, the standard way to bridge an external channel into
// bubbletea's message loop without the UI thread ever holding the Model
// lock across a blocking call.
func (c *Controller) waitForChangeCmd() tea.Cmd {
	return func() tea.Msg {
		<-c.model.Changed()
		return changedMsg{}
	}
}

// shutdown kills any still-running steps, drains the Engine, and flushes
// state through the Store. Called once, when the quit key is handled.
func (c *Controller) shutdown() {
	n := c.model.TaskCount()
	for i := 0; i < n; i++ {
		_ = c.model.Kill(i)
	}
	if c.engine != nil {
		c.engine.Drain()
	}
	if c.store != nil {
		snap := c.model.Snapshot()
		_ = c.store.Save(state.Project(snap))
	}
}
