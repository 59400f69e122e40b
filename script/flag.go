package script

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

type Category int

const (
	CategoryEvent Category = iota
	CategorySaved
	CategoryTemporary

	categoryCount
)

var categoryNames = [categoryCount]string{"Event", "Saved", "Temporary"}

func (c Category) String() string {
	if c >= 0 && c < categoryCount {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

func (c Category) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Width is bit-width class of flag. Value is also the number of
// consecutive flag slots the flag consumes.
type Width uint32

const (
	WidthBit    Width = 1
	WidthNibble Width = 4
	WidthByte   Width = 8
	WidthShort  Width = 16
	WidthInt    Width = 32
)

func (w Width) Valid() bool {
	switch w {
	case WidthBit, WidthNibble, WidthByte, WidthShort, WidthInt:
		return true
	}
	return false
}

type Designation int

const (
	DesignationEvent Designation = iota // flag is an event id

	DesignationGlobal
	DesignationLocal
	DesignationReputation
	DesignationJournal
	DesignationCrimeLevel // gold owed to guards

	DesignationDead
	DesignationDeadCount
	DesignationDisabled
	DesignationHostile
	DesignationCrimeEvent // per npc, set when player commits crime against them
	DesignationFriendHitCounter
	DesignationPickpocketed
	DesignationThiefCrime

	DesignationTopicEnabled
	DesignationTalkedToPc
	DesignationDisposition
	DesignationPlayerRace

	DesignationFactionJoined
	DesignationFactionReputation
	DesignationFactionRank
	DesignationFactionExpelled

	DesignationGuardIsGreeting
	DesignationPlayerIsTalking
	DesignationPlayerIsSneaking
	DesignationPlayerRuneCount

	DesignationReturnValueRankReq
	DesignationCrimeAbsolved

	DesignationHostileQuip
	DesignationHello

	DesignationOnActivate
	DesignationCellChanged
	DesignationGetButtonPressedBit
	DesignationGetButtonPressedValue

	DesignationMessage
	DesignationTravelWarp
	DesignationRemoveItem

	designationCount
)

var designationNames = [designationCount]string{
	"Event",
	"Global", "Local", "Reputation", "Journal", "CrimeLevel",
	"Dead", "DeadCount", "Disabled", "Hostile", "CrimeEvent", "FriendHitCounter", "Pickpocketed", "ThiefCrime",
	"TopicEnabled", "TalkedToPc", "Disposition", "PlayerRace",
	"FactionJoined", "FactionReputation", "FactionRank", "FactionExpelled",
	"GuardIsGreeting", "PlayerIsTalking", "PlayerIsSneaking", "PlayerRuneCount",
	"ReturnValueRankReq", "CrimeAbsolved",
	"HostileQuip", "Hello",
	"OnActivate", "CellChanged", "GetButtonPressedBit", "GetButtonPressedValue",
	"Message", "TravelWarp", "RemoveItem",
}

func (d Designation) String() string {
	if d >= 0 && d < designationCount {
		return designationNames[d]
	}
	return fmt.Sprintf("Designation(%d)", int(d))
}

func (d Designation) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// ParseDesignation is case insensitive
func ParseDesignation(s string) (Designation, bool) {
	for i, name := range designationNames {
		if strings.EqualFold(name, s) {
			return Designation(i), true
		}
	}
	return 0, false
}

type Flag struct {
	Category    Category    `json:"category" yaml:"category"`
	Width       Width       `json:"width" yaml:"width"`
	Designation Designation `json:"designation" yaml:"designation"`
	Name        string      `json:"name" yaml:"name"`
	ID          uint32      `json:"id" yaml:"id"`
	Value       uint32      `json:"value" yaml:"value"` // default value
}

func (f *Flag) Bits() uint32 {
	return uint32(f.Width)
}

func (f *Flag) MaxValue() uint32 {
	if f.Width >= 32 {
		return ^uint32(0)
	}
	return (uint32(1) << uint32(f.Width)) - 1
}

type lookupKey struct {
	designation Designation
	name        string
}

func foldName(name string) string {
	return cases.Fold().String(name)
}

func keyOf(designation Designation, name string) lookupKey {
	return lookupKey{designation: designation, name: foldName(name)}
}

// Reserved is set of flag ids already used by the game's common scripts
type Reserved map[uint32]struct{}

func NewReserved(ids []uint32) Reserved {
	r := make(Reserved, len(ids))
	for _, id := range ids {
		r[id] = struct{}{}
	}
	return r
}

func (r Reserved) Contains(id uint32) bool {
	_, ok := r[id]
	return ok
}
