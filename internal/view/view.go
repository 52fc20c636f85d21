package view

import (
	"fmt"
	"strings"

	"github.com/feltlabs/weft/internal/constants"
	"github.com/feltlabs/weft/internal/model"
)

// Cursor carries the Controller's navigation/scroll state. None of it lives
// in the Model — the Model has no concept of "selected" anything.
type Cursor struct {
	TaskIdx, StepIdx int
	DebugVisible     bool
	OutputScroll     int
	DebugScroll      int
}

// Options configures the static parts of the rendered screen.
type Options struct {
	Title         string
	Width, Height int
}

const (
	stepColWidth     = 3
	minPanelRows     = 4
	progressBarWidth = 24
)

// taskColumns are the fixed leading columns of the task table, before the
// per-step status cells.
var taskColumns = []Column{
	{Header: "TASK", Width: 22},
	{Header: "INFO", Width: 18},
}

// Render projects a Model snapshot plus the Controller's cursor into a full
// screen. It never mutates its arguments.
func Render(snap model.Snapshot, cur Cursor, opts Options) string {
	var b strings.Builder

	b.WriteString(renderHeader(opts.Title, snap))
	b.WriteString("\n\n")

	if len(snap.Tasks) == 0 {
		b.WriteString("No tasks loaded.\n")
	} else {
		b.WriteString(renderTable(snap, cur))
		b.WriteString("\n")
		b.WriteString(renderPanels(snap, cur, opts))
	}

	b.WriteString("\n")
	b.WriteString(renderFooter(cur))
	return b.String()
}

func renderHeader(title string, snap model.Snapshot) string {
	if title == "" {
		title = "weft"
	}
	total, done, running, failed := summarize(snap)
	summary := fmt.Sprintf("%d/%d done · %d running · %d failed", done, total, running, failed)

	ratio := 0.0
	if total > 0 {
		ratio = float64(done) / float64(total)
	}
	overallProgress.Width = progressBarWidth
	bar := overallProgress.ViewAs(ratio)

	return StyleHeader.Render(title) + "  " + bar + "  " + StyleDim.Render(summary)
}

func summarize(snap model.Snapshot) (total, done, running, failed int) {
	for _, t := range snap.Tasks {
		for _, s := range t.Steps {
			total++
			switch s.Status {
			case constants.StepRunning:
				running++
			case constants.StepFailed:
				done++
				failed++
			default:
				if s.Status.IsTerminal() {
					done++
				}
			}
		}
	}
	return
}

func renderTable(snap model.Snapshot, cur Cursor) string {
	var b strings.Builder

	maxSteps := 0
	for _, t := range snap.Tasks {
		if len(t.Steps) > maxSteps {
			maxSteps = len(t.Steps)
		}
	}

	headerCells := make([]string, 0, len(taskColumns)+maxSteps)
	for _, col := range taskColumns {
		headerCells = append(headerCells, pad(col.Header, col.Width, col.Right))
	}
	for i := 0; i < maxSteps; i++ {
		label := ""
		if len(snap.Tasks) > 0 && i < len(snap.Tasks[0].Steps) {
			label = snap.Tasks[0].Steps[i].Header
		}
		headerCells = append(headerCells, pad(truncate(label, stepColWidth), stepColWidth, false))
	}
	b.WriteString(StyleBold.Render(renderRow(headerCells...)))
	b.WriteString("\n")

	for i, t := range snap.Tasks {
		row := pad(truncate(t.Name, taskColumns[0].Width), taskColumns[0].Width, taskColumns[0].Right) + " " +
			pad(truncate(t.Info, taskColumns[1].Width), taskColumns[1].Width, taskColumns[1].Right)
		for j := 0; j < maxSteps; j++ {
			cell := " "
			if j < len(t.Steps) {
				cell = statusIcon(t.Steps[j].Status)
			}
			styled := cell
			if j < len(t.Steps) {
				styled = styleFor(t.Steps[j].Status).Render(cell)
			}
			row += " " + renderStyledCell(styled, 1, stepColWidth)
		}

		if i == cur.TaskIdx {
			row = StyleSelection.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}
	return b.String()
}

func renderPanels(snap model.Snapshot, cur Cursor, opts Options) string {
	if cur.TaskIdx < 0 || cur.TaskIdx >= len(snap.Tasks) {
		return ""
	}
	task := snap.Tasks[cur.TaskIdx]
	if cur.StepIdx < 0 || cur.StepIdx >= len(task.Steps) {
		return ""
	}
	step := task.Steps[cur.StepIdx]

	panelHeight := minPanelRows
	if opts.Height > 20 {
		panelHeight = opts.Height / 3
	}

	var b strings.Builder
	b.WriteString(StyleBold.Render(fmt.Sprintf("── output: %s / %s (%s) ──", task.Name, step.Header, formatStep(cur.StepIdx+1, len(task.Steps)))))
	b.WriteString("\n")
	b.WriteString(renderScrolledLines(step.OutputTail, cur.OutputScroll, panelHeight))

	if cur.DebugVisible {
		b.WriteString("\n")
		b.WriteString(StyleBold.Render("── debug ──"))
		b.WriteString("\n")
		b.WriteString(renderScrolledLines(step.DebugTail, cur.DebugScroll, panelHeight))
	}
	return b.String()
}

func renderScrolledLines(lines []string, scroll, height int) string {
	if len(lines) == 0 {
		return StyleDim.Render("(no output)") + "\n"
	}
	end := len(lines) - scroll
	if end > len(lines) {
		end = len(lines)
	}
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}
	return strings.Join(lines[start:end], "\n") + "\n"
}

func renderFooter(_ Cursor) string {
	hint := "↑/↓ select · r rerun · k kill · d debug · [ ] scroll output · { } scroll debug · q quit"
	return StyleDim.Render(hint)
}
