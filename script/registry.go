package script

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("pkg", "script")

// upper bound of reserved-id retries for one flag
const MAX_FLAG_RETRIES = 4096

const FLAG_GROUP_SIZE = 1000

var (
	ErrFlagSpaceExhausted   = errors.New("flag id space exhausted")
	ErrEntitySpaceExhausted = errors.New("entity id space exhausted")
	ErrRetryExhausted       = errors.New("flag id retries exhausted")
	ErrFinalized            = errors.New("allocator finalized")
	ErrInvalidWidth         = errors.New("invalid flag width")
)

// Thousand-group bands of every category. Bands of different categories never overlap.
var flagBands = [categoryCount][]uint32{
	CategoryEvent:     {1000, 3000, 6000},
	CategorySaved:     {0, 4000, 7000, 8000, 9000},
	CategoryTemporary: {2000, 5000},
}

// registry is the issued flag state shared by tile and common allocators
type registry struct {
	flags  []*Flag
	lookup map[lookupKey]*Flag
	ids    map[uint32]struct{}
	counts [categoryCount]uint32

	finalized bool
}

func newRegistry() registry {
	return registry{
		flags:  make([]*Flag, 0, 64),
		lookup: make(map[lookupKey]*Flag),
		ids:    make(map[uint32]struct{}),
	}
}

func (r *registry) find(designation Designation, name string) *Flag {
	return r.lookup[keyOf(designation, name)]
}

// add registers flag. First registration of a lookup key wins.
func (r *registry) add(f *Flag) {
	r.flags = append(r.flags, f)
	for i := uint32(0); i < uint32(f.Width); i++ {
		r.ids[f.ID+i] = struct{}{}
	}
	key := keyOf(f.Designation, f.Name)
	if _, exists := r.lookup[key]; !exists {
		r.lookup[key] = f
	}
}

func (r *registry) owns(id uint32) bool {
	_, ok := r.ids[id]
	return ok
}

// reserve advances category count by width and returns raw slot of new flag.
// Flag never straddles a thousand-group boundary.
func (r *registry) reserve(category Category, width Width) uint32 {
	count := r.counts[category]
	if mod := count % FLAG_GROUP_SIZE; mod+uint32(width) > FLAG_GROUP_SIZE {
		count += FLAG_GROUP_SIZE - mod
	}
	r.counts[category] = count + uint32(width)
	return count
}

func (r *registry) check(category Category, width Width) error {
	if r.finalized {
		return ErrFinalized
	}
	if category < 0 || category >= categoryCount {
		return errors.Errorf("Invalid flag category %d", int(category))
	}
	if !width.Valid() {
		return errors.Wrapf(ErrInvalidWidth, "%d", width)
	}
	return nil
}

// Flags returns issued flags in issue order
func (r *registry) Flags() []*Flag {
	return r.flags
}

func (r *registry) FindFlag(designation Designation, name string) *Flag {
	return r.find(designation, name)
}

// Owns reports whether id lies inside a flag issued by this allocator
func (r *registry) Owns(id uint32) bool {
	return r.owns(id)
}

func (r *registry) Finalize() {
	r.finalized = true
}

func (r *registry) Finalized() bool {
	return r.finalized
}
