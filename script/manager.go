package script

import (
	"sort"

	"github.com/pkg/errors"
)

type scriptKey struct {
	m, x, y, block int
}

// Manager owns common allocator and every map script of one build
type Manager struct {
	Common *Common

	reserved     Reserved
	overworldMap int

	scripts []*Script
	byKey   map[scriptKey]*Script
	byBase  map[uint32][]*Script
}

func NewManager(reserved Reserved, overworldMap int) (*Manager, error) {
	if reserved == nil {
		reserved = NewReserved(nil)
	}
	common, err := NewCommon(reserved)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create common script")
	}
	m := &Manager{
		Common:       common,
		reserved:     reserved,
		overworldMap: overworldMap,
		scripts:      make([]*Script, 0),
		byKey:        make(map[scriptKey]*Script),
		byBase:       make(map[uint32][]*Script),
	}
	common.claimed = m.claimed
	return m, nil
}

// claimed reports whether any script namespace holding id already issued it
func (m *Manager) claimed(id uint32) bool {
	for _, s := range m.byBase[id-id%BASE_SPAN] {
		if s.Owns(id) {
			return true
		}
	}
	return false
}

// GetScript returns script of map slot, creating it on first request
func (m *Manager) GetScript(mapId, x, y, block int) (*Script, error) {
	key := scriptKey{m: mapId, x: x, y: y, block: block}
	if s, ok := m.byKey[key]; ok {
		return s, nil
	}

	s, err := newScript(m.Common, m.reserved, m.overworldMap, mapId, x, y, block)
	if err != nil {
		return nil, err
	}
	if others := m.byBase[s.base]; len(others) != 0 {
		// non-overworld ids do not encode y, both scripts draw from one namespace
		s.log.WithField("other", others[0].Name()).Warnf("Script shares base offset %d", s.base)
	}
	m.byBase[s.base] = append(m.byBase[s.base], s)

	m.scripts = append(m.scripts, s)
	m.byKey[key] = s
	return s, nil
}

// FindScript returns existing script of map slot or nil
func (m *Manager) FindScript(mapId, x, y, block int) *Script {
	return m.byKey[scriptKey{m: mapId, x: x, y: y, block: block}]
}

// Scripts returns scripts in creation order
func (m *Manager) Scripts() []*Script {
	return m.scripts
}

// SortedScripts returns scripts ordered by name
func (m *Manager) SortedScripts() []*Script {
	result := make([]*Script, len(m.scripts))
	copy(result, m.scripts)
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// GetFlag searches common allocator first, then scripts in creation order
func (m *Manager) GetFlag(designation Designation, name string) *Flag {
	if f := m.Common.find(designation, name); f != nil {
		return f
	}
	for _, s := range m.scripts {
		if f := s.find(designation, name); f != nil {
			return f
		}
	}
	return nil
}

// SetupSpecialFlags creates globally visible reputation and faction flags
func (m *Manager) SetupSpecialFlags(factions []string) error {
	if _, err := m.Common.CreateFlag(CategorySaved, WidthShort, DesignationReputation, "Reputation", 0); err != nil {
		return err
	}
	for _, faction := range factions {
		for _, def := range []struct {
			width       Width
			designation Designation
		}{
			{WidthBit, DesignationFactionJoined},
			{WidthByte, DesignationFactionReputation},
			{WidthByte, DesignationFactionRank},
			{WidthBit, DesignationFactionExpelled},
		} {
			if _, err := m.Common.CreateFlag(CategorySaved, def.width, def.designation, faction, 0); err != nil {
				return errors.Wrapf(err, "Failed to create faction %q flags", faction)
			}
		}
	}
	return nil
}

// Finalize freezes common allocator and every script
func (m *Manager) Finalize() {
	m.Common.Finalize()
	for _, s := range m.scripts {
		s.Finalize()
	}
}
