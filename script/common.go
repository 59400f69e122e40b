package script

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// Common flags borrow the id space of map slots along the bottom edge of the overworld
var COMMON_FLAG_BASES = []uint32{
	1030290000, 1031290000, 1032290000, 1033290000, 1034290000,
	1035290000, 1036290000, 1037290000, 1038290000, 1039290000,
}

type CommonEvent int

const (
	EventLoadDoor CommonEvent = iota
	EventSpawnHandler
	EventNpcHostilityHandler
	EventMessage
	EventHello
	EventEssential
	EventDeadBody
	EventItemAsset
	EventOwnedItemAsset
	EventOwnedContainer
	EventTravelWarp
	EventRemoveItem

	commonEventCount
)

var commonEventNames = [commonEventCount]string{
	"LoadDoor", "SpawnHandler", "NpcHostilityHandler", "Message", "Hello", "Essential",
	"DeadBody", "ItemAsset", "OwnedItemAsset", "OwnedContainer", "TravelWarp", "RemoveItem",
}

func (e CommonEvent) String() string {
	if e >= 0 && e < commonEventCount {
		return commonEventNames[e]
	}
	return fmt.Sprintf("CommonEvent(%d)", int(e))
}

// Common is the allocator shared by every map script. Its bases overlap the
// namespaces of overworld tiles, so both sides check ids issued by the other.
type Common struct {
	registry

	reserved Reserved
	events   [commonEventCount]uint32

	// claimed reports ids already issued by tile allocators, nil when standalone
	claimed func(id uint32) bool
}

func NewCommon(reserved Reserved) (*Common, error) {
	c := &Common{
		registry: newRegistry(),
		reserved: reserved,
	}
	for e := CommonEvent(0); e < commonEventCount; e++ {
		f, err := c.CreateFlag(CategoryEvent, WidthBit, DesignationEvent, "CommonFunc:"+e.String(), 0)
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to create common event %v", e)
		}
		c.events[e] = f.ID
	}
	return c, nil
}

// Event returns id of common function event
func (c *Common) Event(e CommonEvent) uint32 {
	return c.events[e]
}

func (c *Common) collides(id uint32, width Width) bool {
	for i := uint32(0); i < uint32(width); i++ {
		if c.reserved.Contains(id+i) || (c.claimed != nil && c.claimed(id+i)) {
			return true
		}
	}
	return false
}

func (c *Common) CreateFlag(category Category, width Width, designation Designation, name string, value uint32) (*Flag, error) {
	if err := c.check(category, width); err != nil {
		return nil, err
	}
	if f := c.find(designation, name); f != nil {
		return f, nil
	}

	bands := flagBands[category]
	for attempt := 0; attempt < MAX_FLAG_RETRIES; attempt++ {
		slot := c.reserve(category, width)
		group := slot / FLAG_GROUP_SIZE
		perThou := group % uint32(len(bands))
		perBase := group / uint32(len(bands))
		if perBase >= uint32(len(COMMON_FLAG_BASES)) {
			return nil, errors.Wrapf(ErrFlagSpaceExhausted, "%s %v common flags", designation, category)
		}

		id := COMMON_FLAG_BASES[perBase] + bands[perThou] + slot%FLAG_GROUP_SIZE
		if c.collides(id, width) {
			log.WithField("id", id).Debug("common flag collision, retrying")
			continue
		}

		f := &Flag{
			Category:    category,
			Width:       width,
			Designation: designation,
			Name:        name,
			ID:          id,
			Value:       value,
		}
		c.add(f)
		return f, nil
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "%s %q common", designation, name)
}

// DeadCountFlag counts kills of one npc or creature record across the whole world
func (c *Common) DeadCountFlag(recordID string) (*Flag, error) {
	return c.CreateFlag(CategorySaved, WidthByte, DesignationDeadCount, recordID, 0)
}

// GetOrRegisterTravelWarp returns flag that triggers travel to destination when set
func (c *Common) GetOrRegisterTravelWarp(name string, position mgl32.Vec3) (*Flag, error) {
	return c.CreateFlag(CategoryTemporary, WidthBit, DesignationTravelWarp,
		fmt.Sprintf("%s:%d,%d", name, int(position.X()), int(position.Z())), 0)
}

// MessageFlag returns flag that shows message text when set
func (c *Common) MessageFlag(text string) (*Flag, error) {
	return c.CreateFlag(CategoryTemporary, WidthBit, DesignationMessage, text, 0)
}
