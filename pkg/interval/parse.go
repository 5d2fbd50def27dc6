package interval

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// ParseValueFn converts the text of one endpoint into a value.
type ParseValueFn[T any] func(s string) (T, error)

// Parse reads an interval written as "[a,b]", "(a,b)", "[a,b)", "(a,b]" with
// "_" standing for an unbounded side, or "[a]" for a point.
func Parse[T any](s string, parseValue ParseValueFn[T], compare CompareFn[T]) (Interval[T], error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return Interval[T]{}, fmt.Errorf("interval %q is too short", s)
	}
	left, right := s[0], s[len(s)-1]
	if (left != '[' && left != '(') || (right != ']' && right != ')') {
		return Interval[T]{}, fmt.Errorf("interval %q must start with [ or ( and end with ] or )", s)
	}
	body := s[1 : len(s)-1]

	c := strings.IndexByte(body, ',')
	if c == -1 {
		if left != '[' || right != ']' {
			return Interval[T]{}, fmt.Errorf("point %q must be closed on both sides", s)
		}
		v, err := parseValue(strings.TrimSpace(body))
		if err != nil {
			return Interval[T]{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		return NewFunc(Included(v), Included(v), compare)
	}

	low, err := parseBound(strings.TrimSpace(body[:c]), left == '[', parseValue)
	if err != nil {
		return Interval[T]{}, fmt.Errorf("invalid low bound in %q: %w", s, err)
	}
	high, err := parseBound(strings.TrimSpace(body[c+1:]), right == ']', parseValue)
	if err != nil {
		return Interval[T]{}, fmt.Errorf("invalid high bound in %q: %w", s, err)
	}
	return NewFunc(low, high, compare)
}

func parseBound[T any](s string, included bool, parseValue ParseValueFn[T]) (Bound[T], error) {
	if s == "_" {
		return Unbounded[T](), nil
	}
	v, err := parseValue(s)
	if err != nil {
		return Bound[T]{}, err
	}
	if included {
		return Included(v), nil
	}
	return Excluded(v), nil
}

// ParseInt reads an interval of int64 values.
func ParseInt(s string) (Interval[int64], error) {
	return Parse(s, func(v string) (int64, error) {
		return strconv.ParseInt(v, 10, 64)
	}, cmp.Compare[int64])
}
