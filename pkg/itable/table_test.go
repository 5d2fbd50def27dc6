package itable

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/tree"
	"github.com/tj/assert"
	"k8s.io/apimachinery/pkg/labels"
)

func closed(lo, hi int) interval.Interval[int] {
	return interval.MustNew(interval.Included(lo), interval.Included(hi))
}

func newTestTable(t *testing.T, entries map[string]labels.Set, ivs ...interval.Interval[int]) Table[int] {
	t.Helper()
	tbl := New[int]("test", nil)
	for _, iv := range ivs {
		assert.NoError(t, tbl.Claim(iv, entries[iv.String()]))
	}
	return tbl
}

func toStrings(entries Entries[int]) []string {
	s := make([]string, 0, len(entries))
	for _, e := range entries {
		s = append(s, e.Interval().String())
	}
	return s
}

func TestClaim(t *testing.T) {
	cases := map[string]struct {
		claims     []interval.Interval[int]
		expectErr  []bool
		expectSize int
	}{
		"Single": {
			claims:     []interval.Interval[int]{closed(1, 2)},
			expectErr:  []bool{false},
			expectSize: 1,
		},
		"Duplicate": {
			claims:     []interval.Interval[int]{closed(1, 2), closed(1, 2)},
			expectErr:  []bool{false, true},
			expectSize: 1,
		},
		"OverlappingAllowed": {
			claims:     []interval.Interval[int]{closed(1, 5), closed(3, 8), closed(3, 4)},
			expectErr:  []bool{false, false, false},
			expectSize: 3,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			tbl := New[int]("test", nil)
			for i, iv := range tc.claims {
				err := tbl.Claim(iv, labels.Set{"idx": fmt.Sprint(i)})
				if tc.expectErr[i] {
					assert.Error(t, err)
					assert.True(t, errors.Is(err, ErrExists))
					continue
				}
				assert.NoError(t, err)
			}
			if tbl.Size() != tc.expectSize {
				t.Errorf("%s: -want %d, +got: %d\n", name, tc.expectSize, tbl.Size())
			}
		})
	}
}

func TestClaimValidation(t *testing.T) {
	errNegative := errors.New("negative values are not allowed")
	tbl := New[int]("test", func(iv interval.Interval[int]) error {
		if v, ok := iv.Low().Value(); !ok || v < 0 {
			return errNegative
		}
		return nil
	})

	assert.NoError(t, tbl.Claim(closed(0, 10), nil))
	err := tbl.Claim(closed(-1, 10), nil)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errNegative))
	err = tbl.Claim(interval.MustNew(interval.Unbounded[int](), interval.Included(3)), nil)
	assert.True(t, errors.Is(err, errNegative))
	assert.Equal(t, 1, tbl.Size())
}

func TestGetUpdateRelease(t *testing.T) {
	tbl := newTestTable(t, map[string]labels.Set{
		"[1,2]": {"name": "a"},
		"[4,5]": {"name": "b"},
	}, closed(1, 2), closed(4, 5))

	e, err := tbl.Get(closed(1, 2))
	assert.NoError(t, err)
	assert.Equal(t, "a", e.Labels().Get("name"))

	_, err = tbl.Get(closed(1, 3))
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, tbl.Update(closed(1, 2), labels.Set{"name": "c"}))
	e, err = tbl.Get(closed(1, 2))
	assert.NoError(t, err)
	assert.Equal(t, "c", e.Labels().Get("name"))
	assert.True(t, e.Equal(NewEntry(closed(1, 2), labels.Set{"name": "c"})))

	err = tbl.Update(closed(7, 8), labels.Set{"name": "d"})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, tbl.Has(closed(7, 8)))

	assert.NoError(t, tbl.Release(closed(1, 2)))
	// releasing an absent interval is not an error
	assert.NoError(t, tbl.Release(closed(1, 2)))
	assert.False(t, tbl.Has(closed(1, 2)))
	assert.Equal(t, 1, tbl.Size())
}

func TestEntryLabelsAreCopied(t *testing.T) {
	l := labels.Set{"name": "a"}
	tbl := newTestTable(t, map[string]labels.Set{"[1,2]": l}, closed(1, 2))
	l["name"] = "changed"

	e, err := tbl.Get(closed(1, 2))
	assert.NoError(t, err)
	assert.Equal(t, "a", e.Labels().Get("name"))
}

func TestOverlap(t *testing.T) {
	tbl := newTestTable(t, nil,
		closed(0, 3), closed(5, 8), closed(6, 10), closed(8, 9),
		closed(15, 23), closed(16, 21), closed(17, 19), closed(19, 20),
		closed(25, 30), closed(26, 26),
	)

	cases := map[string]struct {
		query          interval.Interval[int]
		expectFound    string
		expectOverlaps []string
	}{
		"Left": {
			query:          closed(1, 2),
			expectFound:    "[0,3]",
			expectOverlaps: []string{"[0,3]"},
		},
		"Several": {
			query:          closed(15, 18),
			expectFound:    "[16,21]",
			expectOverlaps: []string{"[15,23]", "[16,21]", "[17,19]"},
		},
		"None": {
			query:          closed(12, 14),
			expectOverlaps: []string{},
		},
		"Touching": {
			query:          closed(10, 14),
			expectFound:    "[6,10]",
			expectOverlaps: []string{"[6,10]"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			e, ok := tbl.FindOverlap(tc.query)
			if tc.expectFound == "" {
				assert.False(t, ok)
			} else {
				assert.True(t, ok)
				assert.Equal(t, tc.expectFound, e.Interval().String())
			}
			assert.Equal(t, tc.expectOverlaps, toStrings(tbl.Overlapping(tc.query)))
		})
	}
}

func TestSelectRankBetween(t *testing.T) {
	tbl := newTestTable(t, nil, closed(5, 6), closed(1, 9), closed(3, 4), closed(1, 2))

	for k, want := range []string{"[1,2]", "[1,9]", "[3,4]", "[5,6]"} {
		e, err := tbl.Select(k)
		assert.NoError(t, err)
		assert.Equal(t, want, e.Interval().String())
		assert.Equal(t, k, tbl.Rank(e.Interval()))
	}
	_, err := tbl.Select(4)
	assert.True(t, errors.Is(err, tree.ErrOutOfRange))
	_, err = tbl.Select(-1)
	assert.True(t, errors.Is(err, tree.ErrOutOfRange))

	assert.Equal(t, 2, tbl.Rank(closed(2, 3)))
	assert.Equal(t, []string{"[1,9]", "[3,4]"}, toStrings(tbl.Between(closed(1, 5), closed(5, 6))))
	assert.Equal(t, []string{"[1,2]", "[1,9]", "[3,4]", "[5,6]"}, toStrings(tbl.GetAll()))
}

func TestLabels(t *testing.T) {
	tbl := newTestTable(t, map[string]labels.Set{
		"[1,2]":   {"color": "red", "zone": "a"},
		"[3,4]":   {"color": "blue", "zone": "a"},
		"[5,6]":   {"color": "red", "zone": "b"},
		"[10,20]": {"color": "green"},
	}, closed(5, 6), closed(1, 2), closed(10, 20), closed(3, 4))

	cases := map[string]struct {
		selector string
		expect   []string
	}{
		"Red": {
			selector: "color=red",
			expect:   []string{"[1,2]", "[5,6]"},
		},
		"ZoneA": {
			selector: "zone=a",
			expect:   []string{"[1,2]", "[3,4]"},
		},
		"NoZone": {
			selector: "!zone",
			expect:   []string{"[10,20]"},
		},
		"NoMatch": {
			selector: "color=black",
			expect:   []string{},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			selector, err := labels.Parse(tc.selector)
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, toStrings(tbl.GetByLabel(selector)))
		})
	}

	selector, err := labels.Parse("color=red")
	assert.NoError(t, err)
	assert.NoError(t, tbl.ReleaseByLabel(selector))
	assert.Equal(t, []string{"[3,4]", "[10,20]"}, toStrings(tbl.GetAll()))
	assert.Equal(t, 2, tbl.Size())
}

func TestCloneIsIndependent(t *testing.T) {
	tbl := newTestTable(t, nil, closed(1, 2), closed(3, 4))
	c := tbl.Clone()

	assert.NoError(t, c.Claim(closed(5, 6), nil))
	assert.NoError(t, tbl.Release(closed(1, 2)))

	assert.Equal(t, []string{"[3,4]"}, toStrings(tbl.GetAll()))
	assert.Equal(t, []string{"[1,2]", "[3,4]", "[5,6]"}, toStrings(c.GetAll()))
}

func TestIterate(t *testing.T) {
	tbl := newTestTable(t, map[string]labels.Set{
		"[1,2]": {"name": "a"},
		"[3,4]": {"name": "b"},
	}, closed(3, 4), closed(1, 2))

	names := []string{}
	iter := tbl.Iterate()
	for iter.Next() {
		names = append(names, iter.Entry().Labels().Get("name"))
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestEqualIntervalsPrintedDifferently(t *testing.T) {
	zero := interval.MustNew(interval.Included(0.0), interval.Included(1.0))
	negZero := interval.MustNew(interval.Included(math.Copysign(0, -1)), interval.Included(1.0))

	tbl := New[float64]("test", nil)
	assert.NoError(t, tbl.Claim(zero, labels.Set{"a": "b"}))
	assert.True(t, errors.Is(tbl.Claim(negZero, nil), ErrExists))

	assert.True(t, tbl.Has(negZero))
	e, err := tbl.Get(negZero)
	assert.NoError(t, err)
	assert.Equal(t, "[0,1]", e.Interval().String())
	assert.Equal(t, "b", e.Labels().Get("a"))

	assert.NoError(t, tbl.Update(negZero, labels.Set{"a": "c"}))
	e, err = tbl.Get(zero)
	assert.NoError(t, err)
	assert.Equal(t, "c", e.Labels().Get("a"))
	assert.Len(t, tbl.GetAll(), 1)

	assert.NoError(t, tbl.Release(negZero))
	assert.Equal(t, 0, tbl.Size())
	assert.False(t, tbl.Has(zero))
	_, err = tbl.Get(zero)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Empty(t, tbl.GetAll())
}

// tagged prints only its value but is ordered by value and tag.
type tagged struct {
	v   int
	tag string
}

func (t tagged) String() string { return strconv.Itoa(t.v) }

func compareTagged(a, b tagged) int {
	if c := cmp.Compare(a.v, b.v); c != 0 {
		return c
	}
	return cmp.Compare(a.tag, b.tag)
}

func TestDistinctIntervalsPrintedAlike(t *testing.T) {
	newTagged := func(tag string) interval.Interval[tagged] {
		iv, err := interval.NewFunc(interval.Included(tagged{1, tag}), interval.Included(tagged{2, tag}), compareTagged)
		assert.NoError(t, err)
		return iv
	}
	a, b := newTagged("a"), newTagged("b")
	assert.Equal(t, a.String(), b.String())

	tbl := New[tagged]("test", nil)
	assert.NoError(t, tbl.Claim(a, labels.Set{"tag": "a"}))
	assert.NoError(t, tbl.Claim(b, labels.Set{"tag": "b"}))
	assert.Equal(t, 2, tbl.Size())

	for _, tag := range []string{"a", "b"} {
		e, err := tbl.Get(newTagged(tag))
		assert.NoError(t, err)
		assert.Equal(t, tag, e.Labels().Get("tag"))
	}

	assert.NoError(t, tbl.Release(a))
	_, err := tbl.Get(a)
	assert.True(t, errors.Is(err, ErrNotFound))
	e, err := tbl.Get(b)
	assert.NoError(t, err)
	assert.Equal(t, "b", e.Labels().Get("tag"))

	c := tbl.Clone()
	assert.NoError(t, c.Update(b, labels.Set{"tag": "changed"}))
	e, err = tbl.Get(b)
	assert.NoError(t, err)
	assert.Equal(t, "b", e.Labels().Get("tag"))
}
