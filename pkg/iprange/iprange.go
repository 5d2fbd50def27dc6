// Package iprange keeps a labelled table of IP address ranges. Ranges may
// overlap; lookups return every claimed range that covers an address.
// Claims that are exactly a prefix are also kept as routes, which serve
// longest prefix matches.
package iprange

import (
	"errors"
	"fmt"
	"maps"
	"net/netip"
	"strings"
	"sync"

	"github.com/hansthienpondt/nipam/pkg/table"
	"github.com/henderiw/intervaltree/pkg/interval"
	"github.com/henderiw/intervaltree/pkg/itable"
	"go4.org/netipx"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrNoFree  = errors.New("no free address")
	ErrNoRoute = errors.New("no route")
)

type Entry = itable.Entry[netip.Addr]
type Entries = itable.Entries[netip.Addr]

type IPRangeTable interface {
	Get(s string) (Entry, error)
	Claim(s string, labels labels.Set) error
	Update(s string, labels labels.Set) error
	Release(s string) error

	Count() int
	Has(s string) bool

	Lookup(addr string) (Entries, error)
	Overlapping(s string) (Entries, error)
	FindFree(within string) (netip.Addr, error)
	Route(addr string) (table.Route, error)

	GetAll() Entries
	GetByLabel(selector labels.Selector) Entries
}

func New(name string) IPRangeTable {
	return &ipRangeTable{
		m:     new(sync.RWMutex),
		name:  name,
		table: itable.New[netip.Addr](name, validateFamily),
		rib:   table.NewRIB(),
	}
}

type ipRangeTable struct {
	// m keeps table and rib in step
	m     *sync.RWMutex
	name  string
	table itable.Table[netip.Addr]
	// rib holds a route for every claim that is exactly a prefix
	rib *table.RIB
}

func (r *ipRangeTable) Get(s string) (Entry, error) {
	iv, err := parseInterval(s)
	if err != nil {
		return nil, err
	}
	return r.table.Get(iv)
}

func (r *ipRangeTable) Claim(s string, labels labels.Set) error {
	ipRange, iv, err := parse(s)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.table.Claim(iv, labels); err != nil {
		return err
	}
	if p, ok := ipRange.Prefix(); ok {
		if err := r.rib.Add(table.NewRoute(p, maps.Clone(labels), nil)); err != nil {
			r.table.Release(iv)
			return fmt.Errorf("table %s: %w", r.name, err)
		}
	}
	return nil
}

func (r *ipRangeTable) Update(s string, labels labels.Set) error {
	ipRange, iv, err := parse(s)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.table.Update(iv, labels); err != nil {
		return err
	}
	if p, ok := ipRange.Prefix(); ok {
		return r.rib.Set(table.NewRoute(p, maps.Clone(labels), nil))
	}
	return nil
}

func (r *ipRangeTable) Release(s string) error {
	ipRange, iv, err := parse(s)
	if err != nil {
		return err
	}
	r.m.Lock()
	defer r.m.Unlock()

	if p, ok := ipRange.Prefix(); ok {
		if route, found := r.rib.Get(p); found {
			if err := r.rib.Delete(route); err != nil {
				return fmt.Errorf("table %s: %w", r.name, err)
			}
		}
	}
	return r.table.Release(iv)
}

// Route returns the longest claimed prefix containing addr. Claims that
// are not a prefix are not considered.
func (r *ipRangeTable) Route(addr string) (table.Route, error) {
	a, err := netip.ParseAddr(addr)
	if err != nil {
		return table.Route{}, fmt.Errorf("ip address %s is invalid", addr)
	}
	r.m.RLock()
	defer r.m.RUnlock()

	var best table.Route
	found := false
	for _, route := range r.rib.LPM(netip.PrefixFrom(a, a.BitLen())) {
		if !route.Prefix().Contains(a) {
			continue
		}
		if !found || route.Prefix().Bits() > best.Prefix().Bits() {
			best, found = route, true
		}
	}
	if !found {
		return table.Route{}, fmt.Errorf("table %s: address %s: %w", r.name, addr, ErrNoRoute)
	}
	return best, nil
}

func (r *ipRangeTable) Count() int {
	return r.table.Size()
}

func (r *ipRangeTable) Has(s string) bool {
	iv, err := parseInterval(s)
	if err != nil {
		return false
	}
	return r.table.Has(iv)
}

// Lookup returns the claimed ranges containing addr.
func (r *ipRangeTable) Lookup(addr string) (Entries, error) {
	a, err := netip.ParseAddr(addr)
	if err != nil {
		return nil, fmt.Errorf("ip address %s is invalid", addr)
	}
	return r.table.Overlapping(interval.PointFunc(a, netip.Addr.Compare)), nil
}

func (r *ipRangeTable) Overlapping(s string) (Entries, error) {
	iv, err := parseInterval(s)
	if err != nil {
		return nil, err
	}
	return r.table.Overlapping(iv), nil
}

// FindFree returns the first address of within that no claimed range covers.
func (r *ipRangeTable) FindFree(within string) (netip.Addr, error) {
	ipRange, err := ParseRange(within)
	if err != nil {
		return netip.Addr{}, err
	}
	iv, err := toInterval(ipRange)
	if err != nil {
		return netip.Addr{}, err
	}

	candidate := ipRange.From()
	// overlapping entries come sorted by their first address
	for _, e := range r.table.Overlapping(iv) {
		used := RangeOf(e)
		if candidate.Less(used.From()) {
			return candidate, nil
		}
		if !used.To().Less(candidate) {
			candidate = used.To().Next()
			if !candidate.IsValid() || ipRange.To().Less(candidate) {
				return netip.Addr{}, fmt.Errorf("range %s: %w", within, ErrNoFree)
			}
		}
	}
	return candidate, nil
}

func (r *ipRangeTable) GetAll() Entries {
	return r.table.GetAll()
}

func (r *ipRangeTable) GetByLabel(selector labels.Selector) Entries {
	return r.table.GetByLabel(selector)
}

// ParseRange accepts a range "from-to", a prefix "addr/bits" or a single
// address.
func ParseRange(s string) (netipx.IPRange, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "/"):
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("prefix %s is invalid: %w", s, err)
		}
		return netipx.RangeOfPrefix(p.Masked()), nil
	case strings.Contains(s, "-"):
		ipRange, err := netipx.ParseIPRange(s)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("ip range %s is invalid: %w", s, err)
		}
		return ipRange, nil
	default:
		a, err := netip.ParseAddr(s)
		if err != nil {
			return netipx.IPRange{}, fmt.Errorf("ip address %s is invalid", s)
		}
		return netipx.IPRangeFrom(a, a), nil
	}
}

// RangeOf converts the interval of an entry back into an IP range.
func RangeOf(e Entry) netipx.IPRange {
	from, _ := e.Interval().Low().Value()
	to, _ := e.Interval().High().Value()
	return netipx.IPRangeFrom(from, to)
}

func parseInterval(s string) (interval.Interval[netip.Addr], error) {
	_, iv, err := parse(s)
	return iv, err
}

func parse(s string) (netipx.IPRange, interval.Interval[netip.Addr], error) {
	ipRange, err := ParseRange(s)
	if err != nil {
		return netipx.IPRange{}, interval.Interval[netip.Addr]{}, err
	}
	iv, err := toInterval(ipRange)
	if err != nil {
		return netipx.IPRange{}, interval.Interval[netip.Addr]{}, err
	}
	return ipRange, iv, nil
}

func toInterval(ipRange netipx.IPRange) (interval.Interval[netip.Addr], error) {
	if !ipRange.IsValid() {
		return interval.Interval[netip.Addr]{}, fmt.Errorf("ip range %s is invalid", ipRange.String())
	}
	return interval.NewFunc(interval.Included(ipRange.From()), interval.Included(ipRange.To()), netip.Addr.Compare)
}

func validateFamily(iv interval.Interval[netip.Addr]) error {
	from, ok := iv.Low().Value()
	if !ok {
		return fmt.Errorf("ip range must have a first address")
	}
	to, ok := iv.High().Value()
	if !ok {
		return fmt.Errorf("ip range must have a last address")
	}
	if from.Is4() != to.Is4() {
		return fmt.Errorf("ip range from %s to %s mixes address families", from, to)
	}
	return nil
}
