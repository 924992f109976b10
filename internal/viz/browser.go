package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/geom"
	"github.com/san-kum/gravsim/internal/storage"
)

const (
	trailLen   = 40
	statsWidth = 34
	defaultFPS = 20
)

// FrameSource is a random-access sequence of stored frames.
type FrameSource interface {
	FrameCount() int
	Frame(n int) ([]geom.Point, error)
}

// RunSource reads frames of one stored run.
type RunSource struct {
	store *storage.Store
	id    string
	count int
}

func NewRunSource(store *storage.Store, runID string) (*RunSource, error) {
	n, err := store.FrameCount(runID)
	if err != nil {
		return nil, err
	}
	return &RunSource{store: store, id: runID, count: n}, nil
}

func (r *RunSource) FrameCount() int                   { return r.count }
func (r *RunSource) Frame(n int) ([]geom.Point, error) { return r.store.ReadFrame(r.id, n) }

type TickMsg time.Time

func tick(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Browser plays back the frames of a FrameSource.
type Browser struct {
	src       FrameSource
	title     string
	frame     int
	points    []geom.Point
	trail     [][]geom.Point
	showTrail bool
	playing   bool
	vp        Viewport
	theme     Theme
	energy    []float64
	fps       int
	width     int
	height    int
	err       error
}

// NewBrowser opens src at frame 0. energy, if non-empty, is drawn as a
// sparkline next to the canvas.
func NewBrowser(src FrameSource, title string, energy []float64) (Browser, error) {
	b := Browser{
		src:       src,
		title:     title,
		showTrail: true,
		theme:     Themes[0],
		energy:    energy,
		fps:       defaultFPS,
		width:     100,
		height:    30,
	}
	if src.FrameCount() == 0 {
		b.vp = Fit()
		return b, nil
	}
	pts, err := src.Frame(0)
	if err != nil {
		return b, err
	}
	b.points = pts
	b.trail = [][]geom.Point{pts}
	b.vp = Fit(pts)
	return b, nil
}

// WithFPS sets the playback rate. Non-positive values keep the current rate.
func (b Browser) WithFPS(fps int) Browser {
	if fps > 0 {
		b.fps = fps
	}
	return b
}

func (b Browser) Frame() int          { return b.frame }
func (b Browser) Playing() bool       { return b.playing }
func (b Browser) Viewport() Viewport  { return b.vp }
func (b Browser) Theme() Theme        { return b.theme }
func (b Browser) Points() []geom.Point { return b.points }

func (b Browser) Init() tea.Cmd { return tick(b.fps) }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case " ":
			b.playing = !b.playing
			if b.playing && b.frame >= b.src.FrameCount()-1 {
				b.seek(0)
			}
		case "right", "l":
			b.playing = false
			b.seek(b.frame + 1)
		case "left", "h":
			b.playing = false
			b.seek(b.frame - 1)
		case "home", "g":
			b.seek(0)
		case "end", "G":
			b.seek(b.src.FrameCount() - 1)
		case "+", "=":
			b.vp = b.vp.Zoom(1.25)
		case "-", "_":
			b.vp = b.vp.Zoom(0.8)
		case "f":
			b.vp = Fit(b.points)
		case "p":
			b.showTrail = !b.showTrail
		case "t":
			b.theme = b.theme.next()
		}
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
	case TickMsg:
		if b.playing {
			if b.frame >= b.src.FrameCount()-1 {
				b.playing = false
			} else {
				b.seek(b.frame + 1)
			}
		}
		return b, tick(b.fps)
	}
	return b, nil
}

// seek loads frame n, clamped to the available range. Stepping forward by
// one extends the trail, any other jump restarts it.
func (b *Browser) seek(n int) {
	count := b.src.FrameCount()
	if count == 0 {
		return
	}
	n = max(0, min(n, count-1))
	if n == b.frame && b.points != nil {
		return
	}

	pts, err := b.src.Frame(n)
	if err != nil {
		b.err = err
		b.playing = false
		return
	}
	b.err = nil

	if n == b.frame+1 {
		b.trail = append(b.trail, pts)
		if len(b.trail) > trailLen {
			b.trail = b.trail[len(b.trail)-trailLen:]
		}
	} else {
		b.trail = [][]geom.Point{pts}
	}
	b.frame = n
	b.points = pts
}

func (b Browser) canvasSize() (int, int) {
	w := max(b.width-statsWidth-4, 10)
	h := max(b.height-4, 5)
	return w, h
}

func (b Browser) render() *Canvas {
	w, h := b.canvasSize()
	c := NewCanvas(w, h)
	if b.showTrail && len(b.trail) > 1 {
		for i := range b.points {
			path := make([]geom.Point, 0, len(b.trail))
			for _, f := range b.trail {
				if i < len(f) {
					path = append(path, f[i])
				}
			}
			c.Trace(path, b.vp)
		}
		return c
	}
	c.Plot(b.points, b.vp)
	return c
}

func (b Browser) View() string {
	canvas := lipgloss.NewStyle().Foreground(b.theme.Secondary).Render(b.render().String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Foreground(b.theme.Primary).Render(b.title) + "\n")

	count := b.src.FrameCount()
	switch {
	case b.err != nil:
		s.WriteString(StatusError.Render("ERROR") + "\n")
	case b.playing:
		s.WriteString(StatusPlaying.Render("PLAYING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}

	progress := 0.0
	if count > 1 {
		progress = float64(b.frame) / float64(count-1)
	}
	s.WriteString(ProgressBar(progress, statsWidth-4) + "\n\n")

	s.WriteString(MetricLabel.Render("Frame") + MetricValue.Render(fmt.Sprintf("%d / %d", b.frame, max(count-1, 0))) + "\n")
	s.WriteString(MetricLabel.Render("Bodies") + MetricValue.Render(fmt.Sprintf("%d", len(b.points))) + "\n")
	c := b.vp.Center()
	s.WriteString(MetricLabel.Render("Center") + MetricValue.Render(fmt.Sprintf("%.3g, %.3g", c.X, c.Y)) + "\n")
	s.WriteString(MetricLabel.Render("Width") + MetricValue.Render(fmt.Sprintf("%.3g", b.vp.Max.X-b.vp.Min.X)) + "\n")
	s.WriteString(MetricLabel.Render("Theme") + MetricValue.Render(b.theme.Name) + "\n")

	if len(b.energy) > 1 {
		spark := lipgloss.NewStyle().Foreground(b.theme.Accent).Render(Sparkline(b.energy, statsWidth-4))
		s.WriteString("\n" + Subtle.Render("energy") + "\n" + spark + "\n")
	}
	if b.err != nil {
		s.WriteString("\n" + StatusError.Render(b.err.Error()) + "\n")
	}

	s.WriteString(KeyHint.Render("\nSP:Play ←→:Step g/G:Ends\n+/-:Zoom f:Fit p:Trail\nt:Theme q:Quit"))

	stats := Panel.Width(statsWidth).Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, stats)
}
