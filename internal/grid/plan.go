package grid

import (
	"fmt"

	"github.com/ginjaninja78/tagfill/internal/types"
)

// CommandKind distinguishes the three commands a plan can carry.
type CommandKind int

const (
	// Fill populates a slot with a label record.
	Fill CommandKind = iota

	// Clear blanks a slot's fields.
	Clear

	// CreatePage asks the host for a new page. Its Position is the first
	// slot of that page.
	CreatePage
)

func (k CommandKind) String() string {
	switch k {
	case Fill:
		return "fill"
	case Clear:
		return "clear"
	case CreatePage:
		return "create_page"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Command is one step of a plan.
type Command struct {
	Kind     CommandKind
	Position types.GridPosition

	// Record is set only for Fill commands.
	Record types.LabelRecord
}

// Plan is the ordered output of one allocation run.
type Plan struct {
	Rows int
	Cols int
	Mode Mode

	// Commands holds fills, clears and page creations in emission order.
	Commands []Command

	// Pages is the number of pages touched.
	Pages int

	// Filled and Cleared count Fill and Clear commands.
	Filled  int
	Cleared int

	// Dropped is the number of records discarded in FixedSinglePage mode
	// because the page was already full.
	Dropped int
}

// Capacity is the number of slots per page.
func (p *Plan) Capacity() int {
	return p.Rows * p.Cols
}

// Slots returns the Fill and Clear commands, omitting page creations.
func (p *Plan) Slots() []Command {
	slots := make([]Command, 0, len(p.Commands))
	for _, c := range p.Commands {
		if c.Kind != CreatePage {
			slots = append(slots, c)
		}
	}
	return slots
}

// Sink receives plan commands in order. Implementations drive a host.
type Sink interface {
	CreatePage(page int) error
	FillSlot(pos types.GridPosition, rec types.LabelRecord) error
	ClearSlot(pos types.GridPosition) error
}

// Replay emits every command to sink in plan order. The first sink error
// stops the replay; commands already executed are not undone.
func (p *Plan) Replay(sink Sink) error {
	for i, c := range p.Commands {
		var err error
		switch c.Kind {
		case Fill:
			err = sink.FillSlot(c.Position, c.Record)
		case Clear:
			err = sink.ClearSlot(c.Position)
		case CreatePage:
			err = sink.CreatePage(c.Position.Page)
		}
		if err != nil {
			return fmt.Errorf("command %d (%s %s): %w", i+1, c.Kind, c.Position, err)
		}
	}
	return nil
}
