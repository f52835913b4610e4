package sandbox

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/lixenwraith/war-arena/core"
	"github.com/lixenwraith/war-arena/engine"
	"github.com/lixenwraith/war-arena/status"
	"github.com/lixenwraith/war-arena/system"
)

// Bridge executes intrinsic calls for one bot against the game state
// Each call is one synchronous round trip under the ordered store locks
// Mutating commands touch only the bot's own components
type Bridge struct {
	gs    *engine.GameState
	id    core.PlayerID
	calls map[Command]*atomic.Int64
}

// NewBridge binds a bot identity to a game state; reg may be nil
func NewBridge(gs *engine.GameState, id core.PlayerID, reg *status.Registry) *Bridge {
	if reg == nil {
		reg = status.NewRegistry()
	}
	calls := make(map[Command]*atomic.Int64, len(Intrinsics))
	for _, in := range Intrinsics {
		calls[in.Command] = reg.Ints.Get(status.CallKey(in.Name))
	}
	return &Bridge{gs: gs, id: id, calls: calls}
}

// Player returns the bot this bridge acts for
func (b *Bridge) Player() core.PlayerID {
	return b.id
}

// Invoke runs one command; out-of-range inputs are clamped by the called system
func (b *Bridge) Invoke(ctx context.Context, cmd Command, args ...int32) (int32, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	in, ok := LookupCommand(cmd)
	if !ok {
		return 0, fmt.Errorf("%w: command %d", ErrUnknownImport, cmd)
	}
	if len(args) != in.Params {
		return 0, fmt.Errorf("%w: %s takes %d args, got %d", ErrSignatureMismatch, in.Name, in.Params, len(args))
	}
	b.calls[cmd].Add(1)

	switch cmd {
	case CommandMoveTo:
		return 0, system.MoveTo(b.gs, b.id, int(args[0]), int(args[1]))
	case CommandDrive:
		return 0, system.Drive(b.gs, b.id, int(args[0]), int(args[1]))
	case CommandCannon:
		return system.Fire(b.gs, b.id, int(args[0]), int(args[1]))
	case CommandScan:
		return system.Scan(b.gs, b.id, int(args[0]), int(args[1]))
	case CommandLocX, CommandLocY, CommandSpeed, CommandHeading:
		mc, err := b.gs.ReadMotion(b.id)
		if err != nil {
			return 0, err
		}
		switch cmd {
		case CommandLocX:
			return int32(mc.Position.X), nil
		case CommandLocY:
			return int32(mc.Position.Y), nil
		case CommandSpeed:
			return int32(mc.Speed), nil
		default:
			return int32(mc.Heading), nil
		}
	case CommandDamage:
		dc, err := b.gs.ReadDamage(b.id)
		if err != nil {
			return 0, err
		}
		return int32(dc.Damage), nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownImport, cmd)
}
