package msblist_test

import (
	"testing"

	"github.com/mogaika/worldtiles/msblist"
)

func TestParse(t *testing.T) {
	const test = `60,40,40,0;60,41,40,0;
60,20,20,1 // big tile
// whole line comment
60,10,10,2;;
12,1,0,0`
	entries, err := msblist.Parse([]byte(test))
	if err != nil {
		t.Fatal(err)
	}
	expected := []msblist.Entry{
		{60, 40, 40, 0},
		{60, 41, 40, 0},
		{60, 20, 20, 1},
		{60, 10, 10, 2},
		{12, 1, 0, 0},
	}
	if len(entries) != len(expected) {
		t.Fatalf("Parse returned %d entries; expected %d: %v", len(entries), len(expected), entries)
	}
	for i := range expected {
		if entries[i] != expected[i] {
			t.Errorf("entry %d = %v; expected %v", i, entries[i], expected[i])
		}
	}
	if s := entries[0].String(); s != "m60_40_40_00" {
		t.Errorf("String()=%q", s)
	}
}

var badLists = []string{
	"60,40,40",
	"60,40,40,0,1",
	"60,,40,0",
	"60 40,40,0",
	"60,40,40,",
	"60,x,40,0",
}

func TestParseErrors(t *testing.T) {
	for _, test := range badLists {
		if _, err := msblist.Parse([]byte(test)); err == nil {
			t.Errorf("Parse(%q) expected error", test)
		}
	}
}

func TestParseNumbers(t *testing.T) {
	numbers, err := msblist.ParseNumbers([]byte("1002030000\n1002031000\r\n// comment 5\n42, 43;44"))
	if err != nil {
		t.Fatal(err)
	}
	expected := []uint32{1002030000, 1002031000, 42, 43, 44}
	if len(numbers) != len(expected) {
		t.Fatalf("ParseNumbers=%v; expected %v", numbers, expected)
	}
	for i := range expected {
		if numbers[i] != expected[i] {
			t.Errorf("ParseNumbers[%d]=%d; expected %d", i, numbers[i], expected[i])
		}
	}

	if _, err := msblist.ParseNumbers([]byte("-5")); err == nil {
		t.Error("expected error for negative id")
	}
}
