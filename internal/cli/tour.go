package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treescape/pkg/tree"
	"github.com/matzehuels/treescape/pkg/walkthrough"
)

// Tour styles
var (
	tourCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tourNormalStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	tourDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	tourCardStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// tourCommand creates the tour command, an interactive room-by-room walk.
func (c *CLI) tourCommand() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:   "tour <tree.json>",
		Short: "Walk through a subtree room by room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTour(cmd.Context(), args[0], start)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "node to start the walkthrough at (default: root)")

	return cmd
}

func (c *CLI) runTour(ctx context.Context, input, start string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	snap, err := c.loadTree(ctx, cfg, input)
	if err != nil {
		return err
	}
	if start != "" && !snap.Has(start) {
		return fmt.Errorf("unknown start node %q", start)
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	res := runner.Build(ctx, snap, start)
	if res.IsEmpty() {
		printWarning("Nothing to walk through")
		return nil
	}

	_, err = tea.NewProgram(NewTourModel(snap, res), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// TourModel - Interactive walkthrough
// =============================================================================

// TourModel is the bubbletea model for stepping through the rooms of a
// walkthrough in sequence order.
type TourModel struct {
	Tree   tree.Snapshot
	Rooms  []walkthrough.Room
	Walls  []walkthrough.Wall
	Cursor int
	Height int
	Offset int
}

// NewTourModel creates a tour positioned at the first room.
func NewTourModel(s tree.Snapshot, res walkthrough.Result) TourModel {
	return TourModel{
		Tree:   s,
		Rooms:  res.Layout,
		Walls:  res.Walls,
		Height: 8,
	}
}

func (m TourModel) Init() tea.Cmd {
	return nil
}

func (m TourModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l", "down", "j", " ":
			if m.Cursor < len(m.Rooms)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Rooms) - 1
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-16, 3)
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// Current returns the room the tour is in.
func (m TourModel) Current() walkthrough.Room {
	return m.Rooms[m.Cursor]
}

// wallCount returns how many wall segments belong to room i.
func (m TourModel) wallCount(i int) int {
	n := 0
	for _, w := range m.Walls {
		if w.OwnerSequenceIndex == i {
			n++
		}
	}
	return n
}

func (m TourModel) View() string {
	if len(m.Rooms) == 0 {
		return ""
	}
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Walkthrough"))
	b.WriteString("\n")
	b.WriteString(tourDimStyle.Render("←/→ move  g/G first/last  q quit"))
	b.WriteString("\n\n")

	r := m.Current()
	e := m.Tree.Entries[r.ID]
	text := e.Text
	if text == "" {
		text = tourDimStyle.Render("(no text)")
	}
	card := []string{
		tourCurrentStyle.Render(r.ID),
		text,
		"",
		tourDimStyle.Render(fmt.Sprintf("%.1f × %.1f at (%.1f, %.1f)  ·  %d walls  ·  in %s, out %s",
			r.Footprint.Width, r.Footprint.Depth, r.Center.X, r.Center.Z, m.wallCount(r.SequenceIndex), r.Entry, r.Exit)),
	}
	b.WriteString(tourCardStyle.Render(strings.Join(card, "\n")))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rooms))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		room := m.Rooms[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		depth := strings.Repeat("  ", depthOf(m.Tree, room.ID, m.Rooms[0].ID))
		rows = append(rows, []string{cursor, fmt.Sprint(room.SequenceIndex), depth + room.ID, room.Exit.String()})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Room", "Exit").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return tourCurrentStyle
			}
			return tourNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(tourDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rooms))))

	return b.String()
}

// depthOf counts the edges between id and its ancestor top.
func depthOf(s tree.Snapshot, id, top string) int {
	d := 0
	for id != top && id != "" {
		id = s.Entries[id].Parent
		d++
	}
	return d
}
