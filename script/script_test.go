package script

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/mogaika/worldtiles/content"
)

var baseOffsetTests = []struct {
	m, x, y int
	base    uint32
}{
	{60, 40, 40, 1040400000},
	{60, 0, 0, 1000000000},
	{60, 30, 29, 1030290000},
	{30, 5, 7, 30050000},
	{30, 5, 8, 30050000},
	{12, 99, 0, 12990000},
}

func TestBaseOffset(t *testing.T) {
	for _, test := range baseOffsetTests {
		base, err := BaseOffset(60, test.m, test.x, test.y)
		if err != nil {
			t.Errorf("BaseOffset(%d,%d,%d) error: %v", test.m, test.x, test.y, err)
		} else if base != test.base {
			t.Errorf("BaseOffset(%d,%d,%d)=%d; expected %d", test.m, test.x, test.y, base, test.base)
		}
	}
	if _, err := BaseOffset(60, 60, 100, 0); err == nil {
		t.Error("expected error for x out of id scheme")
	}
}

func newTestScript(t *testing.T, reserved ...uint32) *Script {
	t.Helper()
	s, err := NewScript(nil, NewReserved(reserved), 60, 60, 40, 40, 0)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestDeadFlagsInSavedBand(t *testing.T) {
	s := newTestScript(t)
	a, err := s.CreateFlag(CategorySaved, WidthBit, DesignationDead, "1042", 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateFlag(CategorySaved, WidthBit, DesignationDead, "1043", 0)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != 1040400000 || b.ID != 1040400001 {
		t.Errorf("dead flags=%d,%d; expected 1040400000,1040400001", a.ID, b.ID)
	}
}

func TestFlagIdsDistinct(t *testing.T) {
	s := newTestScript(t)
	widths := []Width{WidthBit, WidthNibble, WidthByte, WidthShort, WidthInt}

	type span struct{ from, to uint32 }
	var spans []span
	for i := 0; i < 300; i++ {
		category := Category(i % int(categoryCount))
		width := widths[i%len(widths)]
		f, err := s.CreateFlag(category, width, DesignationLocal, fmt.Sprintf("f%d", i), 0)
		if err != nil {
			t.Fatalf("flag %d: %v", i, err)
		}
		for _, other := range spans {
			if f.ID < other.to && other.from < f.ID+uint32(width) {
				t.Fatalf("flag %d [%d,%d) overlaps [%d,%d)", i, f.ID, f.ID+uint32(width), other.from, other.to)
			}
		}
		if (f.ID-s.Base())%FLAG_GROUP_SIZE+uint32(width) > FLAG_GROUP_SIZE {
			t.Errorf("flag %d id %d width %d straddles group", i, f.ID, width)
		}
		spans = append(spans, span{f.ID, f.ID + uint32(width)})
	}
}

func TestFlagAvoidsReserved(t *testing.T) {
	s := newTestScript(t, 1040401000, 1040401001)
	f, err := s.CreateFlag(CategoryEvent, WidthBit, DesignationEvent, "x", 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 1040401002 {
		t.Errorf("flag id=%d; expected 1040401002", f.ID)
	}
}

func TestFlagIdempotent(t *testing.T) {
	s := newTestScript(t)
	a, err := s.CreateFlag(CategorySaved, WidthByte, DesignationDisposition, "Fargoth", 30)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateFlag(CategorySaved, WidthByte, DesignationDisposition, "FARGOTH", 30)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("second registration issued %d; expected %d", b.ID, a.ID)
	}
	if len(s.Flags()) != 1 {
		t.Errorf("flags=%d; expected 1", len(s.Flags()))
	}
	if s.FindFlag(DesignationDisposition, "fargoth") != a {
		t.Error("FindFlag did not fold name")
	}
	if s.FindFlag(DesignationDead, "fargoth") != nil {
		t.Error("FindFlag matched other designation")
	}
}

func TestFlagBandExhausted(t *testing.T) {
	s := newTestScript(t)
	// 31 int flags fit into one thousand-group, temporary has two groups
	for i := 0; i < 62; i++ {
		f, err := s.CreateFlag(CategoryTemporary, WidthInt, DesignationLocal, fmt.Sprintf("t%d", i), 0)
		if err != nil {
			t.Fatalf("flag %d: %v", i, err)
		}
		if i == 31 && f.ID != 1040405000 {
			t.Errorf("first flag of second group=%d; expected 1040405000", f.ID)
		}
	}
	_, err := s.CreateFlag(CategoryTemporary, WidthInt, DesignationLocal, "overflow", 0)
	if errors.Cause(err) != ErrFlagSpaceExhausted {
		t.Errorf("error=%v; expected %v", err, ErrFlagSpaceExhausted)
	}
}

func TestFlagInvalidWidth(t *testing.T) {
	s := newTestScript(t)
	if _, err := s.CreateFlag(CategorySaved, Width(3), DesignationLocal, "x", 0); errors.Cause(err) != ErrInvalidWidth {
		t.Errorf("error=%v; expected %v", err, ErrInvalidWidth)
	}
}

func TestEntityIds(t *testing.T) {
	s := newTestScript(t)
	var last uint32
	for i := 0; i < ENTITY_BAND_SIZE; i++ {
		id, err := s.CreateEntity(EntityAsset, fmt.Sprintf("asset%d", i))
		if err != nil {
			t.Fatalf("entity %d: %v", i, err)
		}
		if i == 0 && id != 1040401000 {
			t.Errorf("first asset entity=%d; expected 1040401000", id)
		}
		if i > 0 && id <= last {
			t.Fatalf("entity %d id %d not greater than %d", i, id, last)
		}
		last = id
	}
	if s.EntityName(last) != "asset999" {
		t.Errorf("EntityName(%d)=%q", last, s.EntityName(last))
	}

	if _, err := s.CreateEntity(EntityAsset, "overflow"); errors.Cause(err) != ErrEntitySpaceExhausted {
		t.Errorf("error=%v; expected %v", err, ErrEntitySpaceExhausted)
	}
	if id, err := s.CreateEntity(EntityEnemy, "enemy"); err != nil || id != 1040400000 {
		t.Errorf("enemy entity=%d, %v; expected 1040400000", id, err)
	}
	if counts := s.EntityCounts(); counts[EntityAsset] != 1000 || counts[EntityEnemy] != 1 || counts[EntityGroup] != 0 {
		t.Errorf("EntityCounts()=%v", counts)
	}
}

func TestFinalized(t *testing.T) {
	s := newTestScript(t)
	s.Finalize()
	if _, err := s.CreateFlag(CategorySaved, WidthBit, DesignationDead, "1", 0); errors.Cause(err) != ErrFinalized {
		t.Errorf("CreateFlag error=%v; expected %v", err, ErrFinalized)
	}
	if _, err := s.CreateEntity(EntityEnemy, "1"); errors.Cause(err) != ErrFinalized {
		t.Errorf("CreateEntity error=%v; expected %v", err, ErrFinalized)
	}
}

func TestCommonEvents(t *testing.T) {
	c, err := NewCommon(nil)
	if err != nil {
		t.Fatal(err)
	}
	for e := CommonEvent(0); e < commonEventCount; e++ {
		expected := uint32(1030291000) + uint32(e)
		if c.Event(e) != expected {
			t.Errorf("Event(%v)=%d; expected %d", e, c.Event(e), expected)
		}
	}
}

func TestCommonCyclesBands(t *testing.T) {
	c, err := NewCommon(nil)
	if err != nil {
		t.Fatal(err)
	}
	// five saved groups of 31 int flags exhaust first base
	for i := 0; i < 155; i++ {
		if _, err := c.CreateFlag(CategorySaved, WidthInt, DesignationGlobal, fmt.Sprintf("g%d", i), 0); err != nil {
			t.Fatal(err)
		}
	}
	f, err := c.CreateFlag(CategorySaved, WidthInt, DesignationGlobal, "next", 0)
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 1031290000 {
		t.Errorf("flag after first base=%d; expected 1031290000", f.ID)
	}
}

func TestScriptAvoidsCommon(t *testing.T) {
	mgr, err := NewManager(nil, 60)
	if err != nil {
		t.Fatal(err)
	}
	// tile 30,29 shares its base with the first common base
	s, err := mgr.GetScript(60, 30, 29, 0)
	if err != nil {
		t.Fatal(err)
	}
	f, err := s.CreateFlag(CategoryEvent, WidthBit, DesignationEvent, "local", 0)
	if err != nil {
		t.Fatal(err)
	}
	if mgr.Common.Owns(f.ID) {
		t.Errorf("tile flag %d collides with common flag", f.ID)
	}
	if f.ID != 1030291012 {
		t.Errorf("tile flag=%d; expected 1030291012", f.ID)
	}
}

func TestCommonAvoidsScript(t *testing.T) {
	mgr, err := NewManager(nil, 60)
	if err != nil {
		t.Fatal(err)
	}
	s, err := mgr.GetScript(60, 30, 29, 0)
	if err != nil {
		t.Fatal(err)
	}
	local, err := s.CreateFlag(CategorySaved, WidthBit, DesignationDead, "1", 0)
	if err != nil {
		t.Fatal(err)
	}
	count, err := mgr.Common.DeadCountFlag("fargoth")
	if err != nil {
		t.Fatal(err)
	}
	if local.ID != 1030290000 {
		t.Errorf("tile flag=%d; expected 1030290000", local.ID)
	}
	if count.ID == local.ID || s.Owns(count.ID) {
		t.Errorf("common flag %d collides with tile flag", count.ID)
	}
	if count.ID != 1030290008 {
		t.Errorf("common flag=%d; expected 1030290008", count.ID)
	}
}

func TestManager(t *testing.T) {
	mgr, err := NewManager(NewReserved(nil), 60)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := mgr.GetScript(60, 40, 40, 0)
	b, _ := mgr.GetScript(60, 40, 40, 0)
	if a != b {
		t.Error("GetScript created second script for same slot")
	}

	c, _ := mgr.GetScript(30, 1, 2, 0)
	d, _ := mgr.GetScript(30, 1, 3, 0)
	if c == d || c.Base() != d.Base() {
		t.Errorf("interior scripts %s,%s bases %d,%d", c.Name(), d.Name(), c.Base(), d.Base())
	}

	if err := mgr.SetupSpecialFlags([]string{"Hlaalu"}); err != nil {
		t.Fatal(err)
	}
	if mgr.GetFlag(DesignationFactionRank, "hlaalu") == nil {
		t.Error("faction rank flag not found")
	}
	local, _ := a.CreateFlag(CategorySaved, WidthBit, DesignationDead, "1", 0)
	if mgr.GetFlag(DesignationDead, "1") != local {
		t.Error("GetFlag did not find script flag")
	}
	if mgr.GetFlag(DesignationDead, "2") != nil {
		t.Error("GetFlag found missing flag")
	}

	if len(mgr.SortedScripts()) != 3 || mgr.SortedScripts()[0] != c {
		t.Errorf("SortedScripts()=%v", mgr.SortedScripts())
	}

	mgr.Finalize()
	if !a.Finalized() || !mgr.Common.Finalized() {
		t.Error("Finalize did not freeze allocators")
	}
}

func newNpc(t *testing.T, s *Script, id, job string, alarm int, pos mgl32.Vec3) *content.Npc {
	t.Helper()
	npc := &content.Npc{Common: content.Common{ID: id, Position: pos}, Job: job, Alarm: alarm}
	entity, err := s.CreateEntity(EntityEnemy, id)
	if err != nil {
		t.Fatal(err)
	}
	npc.Entity = entity
	if err := s.RegisterNpcHostility(npc); err != nil {
		t.Fatal(err)
	}
	return npc
}

func TestCrimeEvents(t *testing.T) {
	mgr, err := NewManager(nil, 60)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := mgr.GetScript(60, 40, 40, 0)

	victim := newNpc(t, s, "victim", "Commoner", 0, mgl32.Vec3{0, 0, 0})
	newNpc(t, s, "guard", "Guard", 0, mgl32.Vec3{500, 0, 500})
	newNpc(t, s, "brave", "Smith", 90, mgl32.Vec3{3, 0, 4})
	newNpc(t, s, "calm", "Smith", 10, mgl32.Vec3{1, 0, 1})
	newNpc(t, s, "distant", "Smith", 90, mgl32.Vec3{50, 0, 0})

	if err := s.GenerateCrimeEvents(); err != nil {
		t.Fatal(err)
	}
	if len(s.Events()) != 5 {
		t.Fatalf("events=%d; expected 5", len(s.Events()))
	}

	ev := s.Events()[0]
	hostile := func(id string) uint32 {
		f := mgr.GetFlag(DesignationHostile, id)
		if f == nil {
			t.Fatalf("no hostile flag for %s", id)
		}
		return f.ID
	}
	expected := []uint32{
		hostile(entityKey(victim.Entity)),
		hostile(entityKey(victim.Entity + 1)),
		hostile(entityKey(victim.Entity + 2)),
	}
	if fmt.Sprint(ev.Hostile) != fmt.Sprint(expected) {
		t.Errorf("victim event hostile=%v; expected %v", ev.Hostile, expected)
	}
	if ev.Crime != mgr.GetFlag(DesignationCrimeEvent, entityKey(victim.Entity)).ID {
		t.Errorf("victim event crime flag=%d", ev.Crime)
	}
	if f := mgr.GetFlag(DesignationEvent, entityKey(victim.Entity)); f == nil || f.ID != ev.ID || f.Category != CategoryEvent {
		t.Errorf("event flag=%+v; expected id %d", f, ev.ID)
	}
}

func TestRegisterSpawnAndScripted(t *testing.T) {
	mgr, err := NewManager(nil, 60)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := mgr.GetScript(60, 40, 40, 0)

	creature := &content.Creature{Common: content.Common{ID: "mudcrab"}}
	if err := s.RegisterCreature(creature, nil); err == nil {
		t.Error("expected error for creature without entity")
	}
	creature.Entity, _ = s.CreateEntity(EntityEnemy, creature.ID)
	count, err := mgr.Common.DeadCountFlag("mudcrab")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RegisterCreature(creature, count); err != nil {
		t.Fatal(err)
	}
	call := s.Calls()[0]
	if call.Event != mgr.Common.Event(EventSpawnHandler) || call.Args[6] != count.ID || call.Args[8] != 255 {
		t.Errorf("spawn call=%+v", call)
	}

	lever := &content.Asset{Common: content.Common{ID: "lever", Script: "leverscript"}}
	f, err := s.RegisterScripted(lever)
	if err != nil {
		t.Fatal(err)
	}
	if lever.Entity != 1040401000 || f.Category != CategoryTemporary || f.Designation != DesignationOnActivate {
		t.Errorf("scripted entity=%d flag=%+v", lever.Entity, f)
	}
}
