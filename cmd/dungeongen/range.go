package main

import (
	"fmt"
	"strconv"
	"strings"
)

// parseSeedRange parses a seed range string like "1-100", "-20..-10" or "42".
// Seeds may be negative; a leading '-' always belongs to the start seed.
func parseSeedRange(s string) (start, end int64, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, fmt.Errorf("empty seed range")
	}

	first, last, ok := strings.Cut(s, "..")
	if !ok {
		if i := strings.Index(s[1:], "-"); i >= 0 {
			first, last, ok = s[:i+1], s[i+2:], true
		}
	}

	if ok {
		start, err = strconv.ParseInt(strings.TrimSpace(first), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid start seed: %w", err)
		}
		end, err = strconv.ParseInt(strings.TrimSpace(last), 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid end seed: %w", err)
		}
	} else {
		start, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid seed: %w", err)
		}
		end = start
	}

	if end < start {
		return 0, 0, fmt.Errorf("end seed must be >= start seed")
	}

	return start, end, nil
}

// eachSeed calls fn for every seed in [start, end] and stops early on the
// first error. It never steps past end, so math.MaxInt64 is a valid end.
func eachSeed(start, end int64, fn func(seed int64) error) error {
	for seed := start; ; seed++ {
		if err := fn(seed); err != nil {
			return err
		}
		if seed == end {
			return nil
		}
	}
}
