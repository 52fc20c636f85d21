package controller

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey translates one keystroke into a Model command and/or a cursor
// move. Arrow keys navigate; Home/End/PgUp/PgDn scroll; r reruns at the
// selection; k kills the selected task; d toggles the debug panel; [ ] and
// { } scroll the output and debug logs; q quits and flushes state.
func (c *Controller) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		c.quit = true
		c.shutdown()
		return c, tea.Quit

	case "up":
		c.moveTask(-1)
	case "down":
		c.moveTask(1)
	case "left":
		c.moveStep(-1)
	case "right":
		c.moveStep(1)

	case "home":
		c.cursor.OutputScroll = c.maxScroll()
	case "end":
		c.cursor.OutputScroll = 0
	case "pgup":
		c.cursor.OutputScroll += 10
	case "pgdown":
		if c.cursor.OutputScroll > 10 {
			c.cursor.OutputScroll -= 10
		} else {
			c.cursor.OutputScroll = 0
		}

	case "r":
		_ = c.model.Rerun(c.cursor.TaskIdx, c.cursor.StepIdx)
	case "k":
		_ = c.model.Kill(c.cursor.TaskIdx)
	case "d":
		c.cursor.DebugVisible = !c.cursor.DebugVisible

	case "[":
		c.cursor.OutputScroll++
	case "]":
		if c.cursor.OutputScroll > 0 {
			c.cursor.OutputScroll--
		}
	case "{":
		c.cursor.DebugScroll++
	case "}":
		if c.cursor.DebugScroll > 0 {
			c.cursor.DebugScroll--
		}
	}

	return c, nil
}

func (c *Controller) moveTask(delta int) {
	n := c.model.TaskCount()
	if n == 0 {
		return
	}
	c.cursor.TaskIdx = clamp(c.cursor.TaskIdx+delta, 0, n-1)
	c.cursor.StepIdx = clamp(c.cursor.StepIdx, 0, maxStepIdx(c.model.StepCount(c.cursor.TaskIdx)))
	c.cursor.OutputScroll, c.cursor.DebugScroll = 0, 0
}

func (c *Controller) moveStep(delta int) {
	n := c.model.StepCount(c.cursor.TaskIdx)
	if n == 0 {
		return
	}
	c.cursor.StepIdx = clamp(c.cursor.StepIdx+delta, 0, n-1)
	c.cursor.OutputScroll, c.cursor.DebugScroll = 0, 0
}

// maxScroll is a generous upper bound for "scroll to top"; renderScrolledLines
// clamps internally against the tail's actual length.
func (c *Controller) maxScroll() int {
	return 1 << 20
}

func maxStepIdx(n int) int {
	if n == 0 {
		return 0
	}
	return n - 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
