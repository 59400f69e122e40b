package layout

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/script"
)

const (
	WITNESS_ALARM       = 50
	WITNESS_GUARD_RANGE = 23
	WITNESS_ALARM_RANGE = 12
)

// checkWitnesses marks npcs that have someone around to report crimes against them
func checkWitnesses(npcs []*content.Npc) {
	for _, npc := range npcs {
		if npc.Alarm >= WITNESS_ALARM || npc.IsGuard() {
			npc.Witness = true
			continue
		}
		for _, other := range npcs {
			if other == npc {
				continue
			}
			distance := npc.Position.Sub(other.Position).Len()
			if other.IsGuard() && distance < WITNESS_GUARD_RANGE {
				npc.Witness = true
				break
			}
			if other.Alarm >= WITNESS_ALARM && distance < WITNESS_ALARM_RANGE {
				npc.Witness = true
				break
			}
		}
	}
}

func (l *Layout) factions() []string {
	set := make(map[string]bool)
	for _, t := range l.Tiles {
		for _, npc := range t.Npcs {
			if npc.Faction != "" {
				set[npc.Faction] = true
			}
		}
	}
	result := make([]string, 0, len(set))
	for f := range set {
		result = append(result, f)
	}
	sort.Strings(result)
	return result
}

func (l *Layout) generateScripts() error {
	if err := l.Manager.SetupSpecialFlags(l.factions()); err != nil {
		return err
	}
	common := l.Manager.Common

	for _, t := range l.Tiles {
		checkWitnesses(t.Npcs)
		if t.IsEmpty() {
			continue
		}

		s, err := l.Script(t)
		if err != nil {
			return err
		}

		for _, npc := range t.Npcs {
			count, err := common.DeadCountFlag(npc.ID)
			if err != nil {
				return err
			}
			if npc.Entity, err = s.CreateEntity(script.EntityEnemy, "NPC::"+npc.ID); err != nil {
				return errors.Wrapf(err, "Failed to create npc %q entity in %s", npc.ID, t.Name())
			}
			if err := s.RegisterNpc(npc, count); err != nil {
				return err
			}
			if npc.Dead {
				continue
			}
			if err := s.RegisterNpcHostility(npc); err != nil {
				return err
			}
			if err := s.RegisterNpcHello(npc); err != nil {
				return err
			}
		}

		for _, creature := range t.Creatures {
			count, err := common.DeadCountFlag(creature.ID)
			if err != nil {
				return err
			}
			if creature.Entity, err = s.CreateEntity(script.EntityEnemy, "Creature::"+creature.ID); err != nil {
				return errors.Wrapf(err, "Failed to create creature %q entity in %s", creature.ID, t.Name())
			}
			if err := s.RegisterCreature(creature, count); err != nil {
				return err
			}
		}

		var scriptErr error
		t.Each(func(c content.Content) {
			if scriptErr != nil || !c.Base().Scripted() {
				return
			}
			_, scriptErr = s.RegisterScripted(c)
		})
		if scriptErr != nil {
			return errors.Wrapf(scriptErr, "Failed to register scripted content in %s", t.Name())
		}
	}

	for _, s := range l.Manager.Scripts() {
		if err := s.GenerateCrimeEvents(); err != nil {
			return err
		}
	}
	return nil
}
