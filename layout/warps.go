package layout

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mogaika/worldtiles/content"
	"github.com/mogaika/worldtiles/coords"
	"github.com/mogaika/worldtiles/script"
	"github.com/mogaika/worldtiles/tile"
)

// resolveWarps binds load doors and travel npcs of every tile to their exterior destination.
// Interior destinations are not part of the overworld grid and stay unresolved.
func (l *Layout) resolveWarps() error {
	for _, t := range l.Tiles {
		for _, door := range t.Doors {
			if err := l.resolveDoor(t, door); err != nil {
				return err
			}
		}
		for _, npc := range t.Npcs {
			if err := l.resolveTravel(t, npc); err != nil {
				return err
			}
		}
	}
	return nil
}

// destination binds warp to leaf tile under its position and registers destination entity there
func (l *Layout) destination(w *content.Warp, entityName string) (*tile.Tile, error) {
	to := l.GetTile(w.Position)
	if to == nil {
		return nil, nil
	}
	s, err := l.Script(to)
	if err != nil {
		return nil, err
	}
	entity, err := s.CreateEntity(script.EntityRegion, entityName)
	if err != nil {
		return nil, err
	}

	w.Map = to.Map
	w.X = to.Coordinate.X
	w.Y = to.Coordinate.Y
	w.Block = to.Block
	w.Entity = entity
	w.Resolved = true
	to.AddWarp(w)
	return to, nil
}

func (l *Layout) resolveDoor(from *tile.Tile, door *content.Door) error {
	if door.Warp == nil {
		return nil
	}
	if door.Warp.Cell != "" {
		log.WithFields(logrus.Fields{"door": door.ID, "cell": door.Warp.Cell}).Debug("Interior door left unresolved")
		return nil
	}

	to, err := l.destination(door.Warp, fmt.Sprintf("DoorExit::%s->exterior[%s]", door.ID, from.Coordinate))
	if err != nil {
		return errors.Wrapf(err, "Failed to resolve door %q", door.ID)
	}
	if to == nil {
		log.WithFields(logrus.Fields{"door": door.ID, "tile": from.Name()}).Warn("Door destination fell outside of every tile, warp removed")
		door.Warp = nil
		return nil
	}
	door.Warp.Prompt = "Exit"

	s, err := l.Script(from)
	if err != nil {
		return err
	}
	if door.Entity, err = s.CreateEntity(script.EntityAsset, fmt.Sprintf("DoorEntry::%s->exterior[%s]", door.ID, to.Coordinate)); err != nil {
		return errors.Wrapf(err, "Failed to resolve door %q", door.ID)
	}
	return s.RegisterLoadDoor(door)
}

func (l *Layout) resolveTravel(from *tile.Tile, npc *content.Npc) error {
	kept := npc.Travel[:0]
	for _, travel := range npc.Travel {
		if travel.Cell != "" {
			travel.Cost = l.Config.TravelDefaultCost
			kept = append(kept, travel)
			continue
		}

		cell := l.World.GetCellAt(travel.Position, l.Config.CellSize)
		if cell == nil {
			log.WithFields(logrus.Fields{"npc": npc.ID, "position": travel.Position}).Warn("Travel destination has no cell, removed")
			continue
		}
		to, err := l.destination(&travel.Warp, fmt.Sprintf("TravelDestination::%s->exterior[%s]", npc.ID, cell.Coordinate))
		if err != nil {
			return errors.Wrapf(err, "Failed to resolve travel npc %q", npc.ID)
		}
		if to == nil {
			log.WithFields(logrus.Fields{"npc": npc.ID, "position": travel.Position}).Warn("Travel destination fell outside of every tile, removed")
			continue
		}

		travel.Name = cell.DisplayName()
		distance := coords.Distance(from.Coordinate, to.Coordinate)
		if distance < 1 {
			distance = 1
		}
		travel.Cost = int(l.Config.TravelDistanceCost * distance)

		flag, err := l.Manager.Common.GetOrRegisterTravelWarp(travel.Name, travel.Position)
		if err != nil {
			return errors.Wrapf(err, "Failed to resolve travel npc %q", npc.ID)
		}
		travel.Flag = flag.ID
		kept = append(kept, travel)
	}
	npc.Travel = kept
	return nil
}
