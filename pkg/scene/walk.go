package scene

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-dungeon-raytracer/pkg/core"
	"github.com/df07/go-dungeon-raytracer/pkg/renderer"
	"github.com/df07/go-dungeon-raytracer/pkg/world"
)

// FramesPerMove is the number of frames a step or turn is animated over
const FramesPerMove = 5

// cameraBackoff moves the eye behind the player so that walls one step
// ahead stay inside the view
const cameraBackoff = 0.25

var (
	// bump is played when walking into something solid
	bump = []float64{0.1, 0.25, 0.35, 0.20, 0.1, 0.0}
	// hop is the vertical offset of a jump; negative Y is up
	hop = []float64{-0.2, -0.3, -0.35, -0.3, -0.2, 0.0}
)

// Pose is a player position with a heading in radians around the Y axis
type Pose struct {
	X, Y, Z float64
	Heading float64
}

// Position returns the pose location as a point
func (p Pose) Position() core.Point3 {
	return core.NewPoint3(p.X, p.Y, p.Z)
}

// Forward returns the unit view direction of the pose
func (p Pose) Forward() core.Vec3 {
	return core.NewVec3(math.Sin(p.Heading), 0, math.Cos(p.Heading))
}

// Camera returns a perspective camera looking along the pose heading
func (p Pose) Camera(fovDegrees float64) (*renderer.PerspectiveCamera, error) {
	angle := fovDegrees * math.Pi / 180
	forward := p.Forward()
	center := p.Position().Offset(forward, -cameraBackoff)
	return renderer.NewPerspectiveCamera(center, forward, core.NewVec3(0, 1, 0), angle, angle)
}

func (p Pose) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f) %.1f°", p.X, p.Y, p.Z, p.Heading*180/math.Pi)
}

// Action is a player command
type Action int

const (
	ActionForward Action = iota
	ActionBack
	ActionLeft
	ActionRight
	ActionJump
	ActionUse
)

var actionNames = map[Action]string{
	ActionForward: "forward",
	ActionBack:    "back",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionJump:    "jump",
	ActionUse:     "use",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ErrUnknownAction is returned for unrecognized action names
var ErrUnknownAction = errors.New("scene: unknown action")

// ParseAction parses an action name. Single-letter and arrow-key style
// abbreviations are accepted.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forward", "f", "up", "w":
		return ActionForward, nil
	case "back", "b", "down", "s":
		return ActionBack, nil
	case "left", "l", "a":
		return ActionLeft, nil
	case "right", "r", "d":
		return ActionRight, nil
	case "jump", "j", "space":
		return ActionJump, nil
	case "use", "e":
		return ActionUse, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// ParseActions parses a comma or whitespace separated action script
func ParseActions(script string) ([]Action, error) {
	fields := strings.FieldsFunc(script, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	actions := make([]Action, 0, len(fields))
	for _, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// Step is the outcome of one action: the animation frames and an optional
// message for the player
type Step struct {
	Action  Action
	Frames  []Pose
	Message string
}

// Walker moves a player through a dungeon
type Walker struct {
	dungeon    *Dungeon
	pose       Pose
	hasKey     bool
	StepLength float64
}

// NewWalker places a player at the level start
func NewWalker(d *Dungeon) *Walker {
	return &Walker{dungeon: d, pose: d.Level.StartPose(), StepLength: 1}
}

// Pose returns the current player pose
func (w *Walker) Pose() Pose { return w.pose }

// Teleport moves the player without animation
func (w *Walker) Teleport(p Pose) { w.pose = p }

// HasKey reports whether the chest key has been picked up
func (w *Walker) HasKey() bool { return w.hasKey }

// DoorOpen reports whether the door toggle is on
func (w *Walker) DoorOpen() bool {
	on, err := w.dungeon.World.ToggleState(ToggleDoor)
	return err == nil && on
}

// Do performs an action and returns the frames to render.
// The walker ends at the last frame's pose.
func (w *Walker) Do(a Action) (Step, error) {
	step := Step{Action: a}
	p := w.pose
	switch a {
	case ActionForward, ActionBack:
		mult := 1.0
		if a == ActionBack {
			mult = -1
		}
		var fractions []float64
		if w.passable(w.facing(mult)) {
			for i := 0; i < FramesPerMove; i++ {
				fractions = append(fractions, float64(i+1)/FramesPerMove)
			}
		} else {
			for _, f := range bump {
				if a == ActionBack {
					f *= 0.5
				}
				fractions = append(fractions, f)
			}
		}
		dx, dz := mult*math.Sin(p.Heading)*w.StepLength, mult*math.Cos(p.Heading)*w.StepLength
		for _, f := range fractions {
			step.Frames = append(step.Frames, Pose{X: p.X + dx*f, Y: p.Y, Z: p.Z + dz*f, Heading: p.Heading})
		}
	case ActionLeft, ActionRight:
		mult := 1.0
		if a == ActionRight {
			mult = -1
		}
		for i := 0; i < FramesPerMove; i++ {
			turn := mult * math.Pi / 2 * float64(i+1) / FramesPerMove
			step.Frames = append(step.Frames, Pose{X: p.X, Y: p.Y, Z: p.Z, Heading: p.Heading + turn})
		}
	case ActionJump:
		for _, dy := range hop {
			step.Frames = append(step.Frames, Pose{X: p.X, Y: p.Y + dy, Z: p.Z, Heading: p.Heading})
		}
	case ActionUse:
		msg, err := w.use()
		if err != nil {
			return step, err
		}
		step.Message = msg
		step.Frames = []Pose{p}
	default:
		return step, fmt.Errorf("%w: %v", ErrUnknownAction, a)
	}
	w.pose = step.Frames[len(step.Frames)-1]
	return step, nil
}

// use interacts with the door ahead or the chest underfoot
func (w *Walker) use() (string, error) {
	var msgs []string
	x, z := w.facing(1)
	if w.dungeon.Level.At(x, z) == 'D' {
		if w.hasKey {
			open, err := w.dungeon.World.Toggle(ToggleDoor)
			if err != nil && !errors.Is(err, world.ErrUnknownToggle) {
				return "", err
			}
			if open {
				msgs = append(msgs, "Door opened")
			} else {
				msgs = append(msgs, "Door closed")
			}
		} else {
			msgs = append(msgs, "Locked!!!")
		}
	}

	chest := w.dungeon.Level.Chest
	if !w.hasKey && round(2*w.pose.X) == chest[0] && round(2*w.pose.Z) == chest[1] {
		if err := w.dungeon.World.SetToggle(ToggleChest, true); err != nil && !errors.Is(err, world.ErrUnknownToggle) {
			return "", err
		}
		w.hasKey = true
		msgs = append(msgs, "You found Gold Key")
	}
	return strings.Join(msgs, "\n"), nil
}

// facing returns the doubled-grid cell one step ahead (mult 1) or behind (mult -1)
func (w *Walker) facing(mult float64) (int, int) {
	p := w.pose
	x := round(2*p.X + mult*math.Sin(p.Heading)*w.StepLength)
	z := round(2*p.Z + mult*math.Cos(p.Heading)*w.StepLength)
	return x, z
}

func (w *Walker) passable(x, z int) bool {
	switch w.dungeon.Level.At(x, z) {
	case ' ', 'd', 'X':
		return true
	case 'D':
		return w.DoorOpen()
	}
	return false
}

func round(v float64) int {
	return int(math.Round(v))
}
