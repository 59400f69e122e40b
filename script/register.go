package script

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/mogaika/worldtiles/content"
)

const (
	// npc alarm starting from which bystanders join the fight
	CRIME_ALARM_THRESHOLD = 50
	// bystander radius, source units
	CRIME_RADIUS = 10

	LOAD_DOOR_ENTER = 1501
	LOAD_DOOR_EXIT  = 1500
)

// Call is an initialization of common or local event with arguments
type Call struct {
	Event uint32   `json:"event" yaml:"event"`
	Args  []uint32 `json:"args" yaml:"args,flow"`
}

// Event is a generated local event. Crime events set Hostile flags once Crime flag is set,
// then clear Crime flag.
type Event struct {
	ID      uint32   `json:"id" yaml:"id"`
	Npc     uint32   `json:"npc" yaml:"npc"`
	Crime   uint32   `json:"crime" yaml:"crime"`
	Hostile []uint32 `json:"hostile" yaml:"hostile,flow"`

	Witnessed bool `json:"witnessed,omitempty" yaml:"witnessed,omitempty"`
}

type npcFlags struct {
	npc     *content.Npc
	hostile *Flag
	crime   *Flag
}

func entityKey(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (s *Script) commonEvent(e CommonEvent) uint32 {
	if s.common == nil {
		return 0
	}
	return s.common.Event(e)
}

func (s *Script) addCall(event uint32, args ...uint32) {
	s.calls = append(s.calls, Call{Event: event, Args: args})
}

// Calls returns initialization calls in registration order
func (s *Script) Calls() []Call {
	return s.calls
}

// Events returns generated local events
func (s *Script) Events() []*Event {
	return s.events
}

func (s *Script) registerSpawn(entity uint32, dead bool, count *Flag) error {
	if entity == 0 {
		return errors.Errorf("Spawn handler requires entity id")
	}
	key := entityKey(entity)
	var deadValue uint32
	if dead {
		deadValue = 1
	}
	deadFlag, err := s.CreateFlag(CategorySaved, WidthBit, DesignationDead, key, deadValue)
	if err != nil {
		return err
	}
	disabled, err := s.CreateFlag(CategorySaved, WidthBit, DesignationDisabled, key, 0)
	if err != nil {
		return err
	}
	args := []uint32{disabled.ID, entity, deadFlag.ID, entity, entity, deadFlag.ID, 0, 0, 0}
	if count != nil {
		args[6], args[7], args[8] = count.ID, count.Bits(), count.MaxValue()
	}
	s.addCall(s.commonEvent(EventSpawnHandler), args...)
	return nil
}

// RegisterNpc creates dead and disabled flags of npc. Dead flag of npc placed dead starts set.
// Count is world-wide dead counter, may be nil.
func (s *Script) RegisterNpc(npc *content.Npc, count *Flag) error {
	return errors.Wrapf(s.registerSpawn(npc.Entity, npc.Dead, count), "Failed to register npc %q", npc.ID)
}

func (s *Script) RegisterCreature(creature *content.Creature, count *Flag) error {
	return errors.Wrapf(s.registerSpawn(creature.Entity, false, count), "Failed to register creature %q", creature.ID)
}

// RegisterNpcHostility creates hit counter, hostile, crime and quip flags.
// Npc takes part in crime event generation afterwards.
func (s *Script) RegisterNpcHostility(npc *content.Npc) error {
	key := entityKey(npc.Entity)
	if _, err := s.CreateFlag(CategoryTemporary, WidthNibble, DesignationFriendHitCounter, key, 0); err != nil {
		return err
	}
	var hostileValue uint32
	if npc.Hostile {
		hostileValue = 1
	}
	hostile, err := s.CreateFlag(CategorySaved, WidthBit, DesignationHostile, key, hostileValue)
	if err != nil {
		return err
	}
	crime, err := s.CreateFlag(CategorySaved, WidthBit, DesignationCrimeEvent, key, 0)
	if err != nil {
		return err
	}
	if _, err := s.CreateFlag(CategoryTemporary, WidthBit, DesignationHostileQuip, key, 0); err != nil {
		return err
	}

	s.addCall(s.commonEvent(EventNpcHostilityHandler), hostile.ID, npc.Entity, hostile.ID, npc.Entity)
	s.npcs = append(s.npcs, &npcFlags{npc: npc, hostile: hostile, crime: crime})
	return nil
}

func (s *Script) RegisterNpcHello(npc *content.Npc) error {
	hello, err := s.CreateFlag(CategoryTemporary, WidthBit, DesignationHello, entityKey(npc.Entity), 0)
	if err != nil {
		return err
	}
	s.addCall(s.commonEvent(EventHello), hello.ID, npc.Entity, hello.ID)
	return nil
}

// RegisterLoadDoor initializes door warp. Warp must be resolved.
func (s *Script) RegisterLoadDoor(door *content.Door) error {
	w := door.Warp
	if w == nil || !w.Resolved {
		return errors.Errorf("Door %q has no resolved warp", door.ID)
	}
	action := uint32(LOAD_DOOR_EXIT)
	if w.Map == s.overworldMap {
		action = LOAD_DOOR_ENTER
	}
	s.addCall(s.commonEvent(EventLoadDoor), action, door.Entity, door.Entity, 1000,
		uint32(w.Map), uint32(w.X), uint32(w.Y), uint32(w.Block), w.Entity)
	return nil
}

// RegisterScripted assigns entity id to scripted content if it has none and creates its activation flag
func (s *Script) RegisterScripted(c content.Content) (*Flag, error) {
	base := c.Base()
	if base.Entity == 0 {
		entityType := EntityAsset
		switch content.KindOf(c) {
		case content.KindNpc, content.KindCreature:
			entityType = EntityEnemy
		}
		id, err := s.CreateEntity(entityType, base.ID)
		if err != nil {
			return nil, err
		}
		base.Entity = id
	}
	return s.CreateFlag(CategoryTemporary, WidthBit, DesignationOnActivate, entityKey(base.Entity), 0)
}

// GenerateCrimeEvents creates one event per hostility-registered npc.
// Crime against npc also turns guards and alarmed npcs nearby hostile.
func (s *Script) GenerateCrimeEvents() error {
	for _, victim := range s.npcs {
		eventFlag, err := s.CreateFlag(CategoryEvent, WidthBit, DesignationEvent, entityKey(victim.npc.Entity), 0)
		if err != nil {
			return errors.Wrapf(err, "Failed to create crime event of %q", victim.npc.ID)
		}

		ev := &Event{
			ID:        eventFlag.ID,
			Npc:       victim.npc.Entity,
			Crime:     victim.crime.ID,
			Hostile:   []uint32{victim.hostile.ID},
			Witnessed: victim.npc.Witness,
		}
		for _, other := range s.npcs {
			if other == victim {
				continue
			}
			if !other.npc.IsGuard() {
				if other.npc.Alarm < CRIME_ALARM_THRESHOLD {
					continue
				}
				if victim.npc.Position.Sub(other.npc.Position).Len() > CRIME_RADIUS {
					continue
				}
			}
			ev.Hostile = append(ev.Hostile, other.hostile.ID)
		}

		s.events = append(s.events, ev)
		s.addCall(ev.ID, 0)
	}
	return nil
}
