// Package bitstring implements a small fixed-capacity bit vector with
// bitwise logic and logical shifts.
//
// Position 0 is the leftmost bit of the canonical string form, so
// "10000000" has only bit 0 set.
package bitstring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willf/bitset"
)

// MaxCapacity is the largest capacity a FixedBitSet may be created with.
const MaxCapacity = 100

var ErrInvalidArgument = errors.New("bitstring: invalid argument")
var ErrIndexOutOfBounds = errors.New("bitstring: index out of bounds")

// FixedBitSet is a sequence of bits whose capacity is fixed when it is
// created. Apart from SetBit, every operation returns a new FixedBitSet and
// leaves its operands alone.
//
// A FixedBitSet is not safe for concurrent mutation; concurrent readers are
// fine as long as no one calls SetBit.
type FixedBitSet struct {
	capacity int
	set      *bitset.BitSet
}

// New creates an all-zero FixedBitSet with the given capacity.
func New(capacity int) (*FixedBitSet, error) {
	if capacity < 1 || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: capacity %d outside [1, %d]", ErrInvalidArgument, capacity, MaxCapacity)
	}
	return newFixedBitSet(capacity), nil
}

func newFixedBitSet(capacity int) *FixedBitSet {
	return &FixedBitSet{capacity: capacity, set: bitset.New(uint(capacity))}
}

// Parse creates a FixedBitSet of the given capacity whose leading positions
// are taken from s, a string of '0' and '1' characters. Positions past the
// end of s are zero.
func Parse(capacity int, s string) (*FixedBitSet, error) {
	b, err := New(capacity)
	if err != nil {
		return nil, err
	}
	if len(s) > capacity {
		return nil, fmt.Errorf("%w: string of length %d exceeds capacity %d", ErrInvalidArgument, len(s), capacity)
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0':
		case '1':
			b.set.Set(uint(i))
		default:
			return nil, fmt.Errorf("%w: character %q at position %d is not '0' or '1'", ErrInvalidArgument, s[i], i)
		}
	}
	return b, nil
}

// MustParse is like Parse but panics if s cannot be parsed.
func MustParse(capacity int, s string) *FixedBitSet {
	b, err := Parse(capacity, s)
	if err != nil {
		panic(err)
	}
	return b
}

// FromBits creates a FixedBitSet of the given capacity whose leading
// positions are taken from bits. Every element must be 0 or 1.
func FromBits(capacity int, bits []int) (*FixedBitSet, error) {
	b, err := New(capacity)
	if err != nil {
		return nil, err
	}
	if len(bits) > capacity {
		return nil, fmt.Errorf("%w: %d bits exceed capacity %d", ErrInvalidArgument, len(bits), capacity)
	}
	for i, v := range bits {
		if err := checkBitValue(v); err != nil {
			return nil, fmt.Errorf("%w at position %d", err, i)
		}
		if v == 1 {
			b.set.Set(uint(i))
		}
	}
	return b, nil
}

func checkBitValue(v int) error {
	if v != 0 && v != 1 {
		return fmt.Errorf("%w: bit value %d is not 0 or 1", ErrInvalidArgument, v)
	}
	return nil
}

// Capacity returns the number of positions in b.
func (b *FixedBitSet) Capacity() int {
	return b.capacity
}

// Population returns the number of positions set to 1.
func (b *FixedBitSet) Population() int {
	return int(b.set.Count())
}

func (b *FixedBitSet) checkIndex(i int) error {
	if i < 0 || i >= b.capacity {
		return fmt.Errorf("%w: index %d outside [0, %d)", ErrIndexOutOfBounds, i, b.capacity)
	}
	return nil
}

// Bit returns the value (0 or 1) at position i.
func (b *FixedBitSet) Bit(i int) (int, error) {
	if err := b.checkIndex(i); err != nil {
		return 0, err
	}
	return b.bit(i), nil
}

func (b *FixedBitSet) bit(i int) int {
	if b.set.Test(uint(i)) {
		return 1
	}
	return 0
}

// Range returns the bits in the half-open interval [start, end). Both bounds
// are clamped to [0, Capacity()], so Range never fails; a range that is empty
// after clamping yields an empty slice.
func (b *FixedBitSet) Range(start, end int) []int {
	start = min(max(start, 0), b.capacity)
	end = min(max(end, 0), b.capacity)
	if start >= end {
		return []int{}
	}
	out := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		out = append(out, b.bit(i))
	}
	return out
}

// Bits returns every position of b, in order, as 0 or 1.
func (b *FixedBitSet) Bits() []int {
	return b.Range(0, b.capacity)
}

// SetBit sets position i to v. It is the only operation that modifies b; on
// error b is left unchanged.
func (b *FixedBitSet) SetBit(i, v int) error {
	if err := b.checkIndex(i); err != nil {
		return err
	}
	if err := checkBitValue(v); err != nil {
		return err
	}
	b.set.SetTo(uint(i), v == 1)
	return nil
}

func (b *FixedBitSet) checkSameCapacity(o *FixedBitSet) error {
	if o == nil {
		return fmt.Errorf("%w: nil operand", ErrInvalidArgument)
	}
	if b.capacity != o.capacity {
		return fmt.Errorf("%w: size mismatch (%d vs %d)", ErrInvalidArgument, b.capacity, o.capacity)
	}
	return nil
}

// And returns the position-wise AND of b and o, which must have the same
// capacity.
func (b *FixedBitSet) And(o *FixedBitSet) (*FixedBitSet, error) {
	if err := b.checkSameCapacity(o); err != nil {
		return nil, err
	}
	return &FixedBitSet{capacity: b.capacity, set: b.set.Intersection(o.set)}, nil
}

// Or returns the position-wise OR of b and o, which must have the same
// capacity.
func (b *FixedBitSet) Or(o *FixedBitSet) (*FixedBitSet, error) {
	if err := b.checkSameCapacity(o); err != nil {
		return nil, err
	}
	return &FixedBitSet{capacity: b.capacity, set: b.set.Union(o.set)}, nil
}

// Xor returns the position-wise XOR of b and o, which must have the same
// capacity.
func (b *FixedBitSet) Xor(o *FixedBitSet) (*FixedBitSet, error) {
	if err := b.checkSameCapacity(o); err != nil {
		return nil, err
	}
	return &FixedBitSet{capacity: b.capacity, set: b.set.SymmetricDifference(o.set)}, nil
}

// Not returns the complement of b.
func (b *FixedBitSet) Not() *FixedBitSet {
	return &FixedBitSet{capacity: b.capacity, set: b.set.Complement()}
}

// ShiftLeft moves every bit n positions towards index 0. The first n bits
// are dropped and n zero bits appear at the end; n >= Capacity() gives all
// zeros.
func (b *FixedBitSet) ShiftLeft(n int) (*FixedBitSet, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative shift count %d", ErrInvalidArgument, n)
	}
	out := newFixedBitSet(b.capacity)
	for i := 0; i+n < b.capacity; i++ {
		out.set.SetTo(uint(i), b.set.Test(uint(i+n)))
	}
	return out, nil
}

// ShiftRight moves every bit n positions away from index 0. n zero bits
// appear at the start and the last n bits are dropped; n >= Capacity() gives
// all zeros.
func (b *FixedBitSet) ShiftRight(n int) (*FixedBitSet, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative shift count %d", ErrInvalidArgument, n)
	}
	out := newFixedBitSet(b.capacity)
	for i := n; i < b.capacity; i++ {
		out.set.SetTo(uint(i), b.set.Test(uint(i-n)))
	}
	return out, nil
}

// Equal reports whether b and o have the same capacity and the same bits.
func (b *FixedBitSet) Equal(o *FixedBitSet) bool {
	if o == nil {
		return false
	}
	return b.capacity == o.capacity && b.set.Equal(o.set)
}

// Clone returns a copy of b that shares no storage with it.
func (b *FixedBitSet) Clone() *FixedBitSet {
	return &FixedBitSet{capacity: b.capacity, set: b.set.Clone()}
}

// String renders b as exactly Capacity() '0'/'1' characters. The result can
// be fed back to Parse to rebuild an equal FixedBitSet.
func (b *FixedBitSet) String() string {
	var sb strings.Builder
	sb.Grow(b.capacity)
	for i := 0; i < b.capacity; i++ {
		if b.set.Test(uint(i)) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
