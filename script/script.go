package script

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type EntityType uint32

const (
	EntityEnemy     EntityType = 0
	EntityAsset     EntityType = 1000
	EntityRegion    EntityType = 2000
	EntityEvent     EntityType = 3000
	EntityCollision EntityType = 4000
	EntityGroup     EntityType = 5000
)

var EntityTypes = []EntityType{EntityEnemy, EntityAsset, EntityRegion, EntityEvent, EntityCollision, EntityGroup}

const ENTITY_BAND_SIZE = 1000

func (t EntityType) String() string {
	switch t {
	case EntityEnemy:
		return "Enemy"
	case EntityAsset:
		return "Asset"
	case EntityRegion:
		return "Region"
	case EntityEvent:
		return "Event"
	case EntityCollision:
		return "Collision"
	case EntityGroup:
		return "Group"
	}
	return fmt.Sprintf("EntityType(%d)", uint32(t))
}

func (t EntityType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// every base offset is a multiple of BASE_SPAN and owns the ids below the next one
const BASE_SPAN = 10000

// BaseOffset of map slot id space.
// Overworld: 10XXYY0000. Other maps: MMXX0000, y and block are not encoded.
func BaseOffset(overworldMap, m, x, y int) (uint32, error) {
	if x < 0 || x > 99 || y < 0 || y > 99 {
		return 0, errors.Errorf("Coordinate %d,%d does not fit id scheme", x, y)
	}
	if m == overworldMap {
		return uint32(1000000000 + x*1000000 + y*10000), nil
	}
	if m < 0 || m > 99 {
		return 0, errors.Errorf("Map id %d does not fit id scheme", m)
	}
	return uint32(m*1000000 + x*10000), nil
}

// Script is the id allocator of one leaf tile. It issues flags and entity ids
// from the tile's private numeric namespace.
type Script struct {
	registry

	Map, X, Y, Block int

	base         uint32
	overworldMap int
	common       *Common
	reserved     Reserved

	entityCounts map[EntityType]uint32
	entityNames  map[uint32]string

	npcs   []*npcFlags
	calls  []Call
	events []*Event

	log *logrus.Entry
}

func newScript(common *Common, reserved Reserved, overworldMap, m, x, y, block int) (*Script, error) {
	base, err := BaseOffset(overworldMap, m, x, y)
	if err != nil {
		return nil, err
	}
	s := &Script{
		registry:     newRegistry(),
		Map:          m,
		X:            x,
		Y:            y,
		Block:        block,
		base:         base,
		overworldMap: overworldMap,
		common:       common,
		reserved:     reserved,
		entityCounts: make(map[EntityType]uint32, len(EntityTypes)),
		entityNames:  make(map[uint32]string),
	}
	s.log = log.WithField("script", s.Name())
	return s, nil
}

// NewScript creates standalone allocator. Common may be nil.
func NewScript(common *Common, reserved Reserved, overworldMap, m, x, y, block int) (*Script, error) {
	return newScript(common, reserved, overworldMap, m, x, y, block)
}

func (s *Script) Name() string {
	return fmt.Sprintf("m%02d_%02d_%02d_%02d", s.Map, s.X, s.Y, s.Block)
}

func (s *Script) Base() uint32 {
	return s.base
}

func (s *Script) collides(id uint32, width Width) bool {
	for i := uint32(0); i < uint32(width); i++ {
		if s.reserved.Contains(id+i) || (s.common != nil && s.common.Owns(id+i)) {
			return true
		}
	}
	return false
}

// CreateFlag issues new flag or returns already registered flag with same designation and name
func (s *Script) CreateFlag(category Category, width Width, designation Designation, name string, value uint32) (*Flag, error) {
	if err := s.check(category, width); err != nil {
		return nil, err
	}
	if f := s.find(designation, name); f != nil {
		return f, nil
	}

	bands := flagBands[category]
	for attempt := 0; attempt < MAX_FLAG_RETRIES; attempt++ {
		slot := s.reserve(category, width)
		group := slot / FLAG_GROUP_SIZE
		if group >= uint32(len(bands)) {
			return nil, errors.Wrapf(ErrFlagSpaceExhausted, "%s %v flags in %s", designation, category, s.Name())
		}

		id := s.base + bands[group] + slot%FLAG_GROUP_SIZE
		if s.collides(id, width) {
			s.log.WithField("id", id).Debug("flag collision with common script, retrying")
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
		s.add(f)
		return f, nil
	}
	return nil, errors.Wrapf(ErrRetryExhausted, "%s %q in %s", designation, name, s.Name())
}

// CreateEntity issues next entity id of type. Ids of one type strictly increase.
func (s *Script) CreateEntity(entityType EntityType, name string) (uint32, error) {
	if s.finalized {
		return 0, ErrFinalized
	}
	if entityType%ENTITY_BAND_SIZE != 0 || entityType > EntityGroup {
		return 0, errors.Errorf("Invalid entity type %d", uint32(entityType))
	}

	count := s.entityCounts[entityType]
	if count >= ENTITY_BAND_SIZE {
		return 0, errors.Wrapf(ErrEntitySpaceExhausted, "%v entities in %s", entityType, s.Name())
	}
	s.entityCounts[entityType] = count + 1

	id := s.base + uint32(entityType) + count
	s.entityNames[id] = name
	return id, nil
}

// EntityCounts returns issued entity count per type
func (s *Script) EntityCounts() map[EntityType]uint32 {
	result := make(map[EntityType]uint32, len(EntityTypes))
	for _, t := range EntityTypes {
		result[t] = s.entityCounts[t]
	}
	return result
}

// EntityName returns debug description recorded for entity id
func (s *Script) EntityName(id uint32) string {
	return s.entityNames[id]
}

func (s *Script) Empty() bool {
	if len(s.flags) != 0 {
		return false
	}
	for _, c := range s.entityCounts {
		if c != 0 {
			return false
		}
	}
	return true
}
