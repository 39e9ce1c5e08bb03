package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/akmonengine/skinning"
	"github.com/akmonengine/skinning/config"
	"github.com/akmonengine/skinning/keyframe"
	"github.com/akmonengine/skinning/render"
)

// degrees per arrow key press
const dragStep = 5.0

// world units per object move
const moveStep = 0.1

// lines taken by the header and the status bar
const chromeLines = 3

var boneKeys = map[string]int{"q": 0, "w": 1, "e": 2}

var clipKeys = map[string]string{"k": "bend", "l": "twist"}

type tickMsg time.Time

type App struct {
	cfg      config.Config
	scene    *skinning.Scene
	viewport *render.Renderer
	logger   *slog.Logger

	cols, rows int
	frame      string
	status     string
	help       bool
	shots      int
}

func New(cfg config.Config, scene *skinning.Scene, logger *slog.Logger) *App {
	a := &App{
		cfg:      cfg,
		scene:    scene,
		viewport: cfg.Render.Renderer(),
		logger:   logger,
		cols:     80,
		rows:     24 - chromeLines,
	}
	// one sample per character cell
	a.viewport.Supersample = 1

	scene.Events.Subscribe(skinning.ANIMATION_FINISH, func(e skinning.Event) {
		a.status = fmt.Sprintf("%s finished", e.(skinning.AnimationFinishEvent).Clip.Name)
	})
	scene.Events.Subscribe(skinning.KEY_REACHED, func(e skinning.Event) {
		reached := e.(skinning.KeyReachedEvent)
		a.status = fmt.Sprintf("%s: key %d reached", reached.Clip.Name, reached.Key)
	})
	a.redraw()

	return a
}

func (a *App) tick() tea.Cmd {
	return tea.Tick(a.cfg.Animation.Interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Init() tea.Cmd {
	return a.tick()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.cols = max(1, m.Width)
		a.rows = max(1, m.Height-chromeLines)
		a.redraw()
	case tickMsg:
		if a.scene.Step() {
			a.redraw()
		}
		return a, a.tick()
	case tea.KeyMsg:
		key := m.String()
		if id, ok := boneKeys[key]; ok {
			if err := a.scene.Select(id); err != nil {
				a.status = err.Error()
			} else {
				a.status = fmt.Sprintf("bone %d selected", id)
			}
			return a, nil
		}
		if name, ok := clipKeys[key]; ok {
			a.play(name)
			return a, nil
		}

		switch key {
		case "esc", "ctrl+c":
			return a, tea.Quit
		case "left":
			a.rotate(-dragStep, 0)
		case "right":
			a.rotate(dragStep, 0)
		case "up":
			a.rotate(0, -dragStep)
		case "down":
			a.rotate(0, dragStep)
		case "shift+left":
			a.move(mgl64.Vec3{-moveStep, 0, 0})
		case "shift+right":
			a.move(mgl64.Vec3{moveStep, 0, 0})
		case "shift+up":
			a.move(mgl64.Vec3{0, moveStep, 0})
		case "shift+down":
			a.move(mgl64.Vec3{0, -moveStep, 0})
		case "pgup":
			a.move(mgl64.Vec3{0, 0, -moveStep})
		case "pgdown":
			a.move(mgl64.Vec3{0, 0, moveStep})
		case "1":
			a.setShading(render.Diffuse)
		case "2":
			a.setShading(render.Specular)
		case "r":
			a.scene.Reset()
			a.status = "pose reset"
			a.redraw()
		case "s":
			a.screenshot()
		case "h":
			a.help = !a.help
		}
	}
	return a, nil
}

func (a *App) play(name string) {
	clip, _ := keyframe.ByName(name)
	if err := a.scene.Play(clip); err != nil {
		a.status = err.Error()
		return
	}
	a.status = "playing " + name
}

func (a *App) rotate(dx, dy float64) {
	if a.scene.Playing() {
		a.scene.Stop()
	}
	a.scene.RotateSelected(dx, dy)
	a.status = fmt.Sprintf("bone %d rotated", a.scene.Selected())
	a.redraw()
}

// move translates the whole surface in world space
func (a *App) move(delta mgl64.Vec3) {
	a.scene.MoveObject(delta)
	p := a.scene.Object.Translation
	a.status = fmt.Sprintf("object at (%.1f, %.1f, %.1f)", p.X(), p.Y(), p.Z())
	a.redraw()
}

func (a *App) setShading(s render.Shading) {
	a.viewport.Shading = s
	a.status = s.String() + " shading"
	a.redraw()
}

// screenshot renders the current pose at full resolution into the output directory
func (a *App) screenshot() {
	renderer := a.cfg.Render.Renderer()
	renderer.Shading = a.viewport.Shading

	path, err := a.saveFrame(renderer)
	if err != nil {
		a.logger.Error("screenshot", "err", err)
		a.status = err.Error()
		return
	}
	a.logger.Info("screenshot saved", "path", path)
	a.status = "saved " + path
}

func (a *App) saveFrame(renderer *render.Renderer) (string, error) {
	img, err := renderer.Render(a.scene)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create output dir")
	}

	a.shots++
	path := filepath.Join(a.cfg.Output.Dir, fmt.Sprintf("screenshot_%03d.%s", a.shots, a.cfg.Render.Format))
	return path, render.Save(path, img)
}

// redraw renders the scene with two pixel rows per character row
func (a *App) redraw() {
	a.viewport.Width = a.cols
	a.viewport.Height = 2 * a.rows

	img, err := a.viewport.Render(a.scene)
	if err != nil {
		a.status = err.Error()
		return
	}
	a.frame = render.ASCII(img, a.cols, a.rows)
}

// styles
var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
	groundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

const helpText = `q/w/e          select bone 0/1/2
arrows         rotate the selected bone
shift+arrows   move the object in x / y
pgup / pgdown  move the object away / closer
k / l          play bend / twist
1 / 2          diffuse / specular shading
r              reset pose
s              save screenshot
h              toggle help
esc            quit`

func (a *App) View() string {
	var bones []string
	for _, id := range a.scene.Skeleton.IDs() {
		label := fmt.Sprintf("bone %d", id)
		if id == a.scene.Selected() {
			label = selectedStyle.Render("[" + label + "]")
		}
		bones = append(bones, label)
	}

	header := titleStyle.Render("Skinning") + "  " + strings.Join(bones, " ")
	if a.scene.Playing() {
		header += fmt.Sprintf("  %3.0f%%", 100*a.scene.Progress())
	}
	if bounds, err := a.scene.Bounds(); err == nil && render.TouchesGround(bounds) {
		header += "  " + groundStyle.Render("ground contact")
	}

	body := a.frame
	if a.help {
		body = helpStyle.Render(helpText)
	}

	return fmt.Sprintf("%s\n%s\n%s", header, body, statusStyle.Render(a.status+"  [h] help"))
}
