package platform

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/wedge-network/wedged/pkg/wedged/state"
)

// ParsePortList parses a port inventory flag such as "1-32,48,50-53" into
// a sorted, deduplicated list of port ids. Spans are inclusive and must
// ascend; every id must fit a PortID.
func ParsePortList(spec string) ([]state.PortID, error) {
	seen := make(map[state.PortID]struct{})
	for _, seg := range strings.Split(spec, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		lo, hi, err := parsePortSpan(seg)
		if err != nil {
			return nil, err
		}
		for id := lo; ; id++ {
			seen[id] = struct{}{}
			if id == hi {
				break
			}
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("port list %q names no ports", spec)
	}

	ports := make([]state.PortID, 0, len(seen))
	for id := range seen {
		ports = append(ports, id)
	}
	slices.Sort(ports)
	return ports, nil
}

func parsePortSpan(seg string) (state.PortID, state.PortID, error) {
	first, rest, isSpan := strings.Cut(seg, "-")
	lo, err := parsePortID(first)
	if err != nil {
		return 0, 0, fmt.Errorf("port list entry %q: %w", seg, err)
	}
	if !isSpan {
		return lo, lo, nil
	}
	hi, err := parsePortID(rest)
	if err != nil {
		return 0, 0, fmt.Errorf("port list entry %q: %w", seg, err)
	}
	if hi < lo {
		return 0, 0, fmt.Errorf("port span %q descends", seg)
	}
	return lo, hi, nil
}

func parsePortID(s string) (state.PortID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid port id %q", s)
	}
	return state.PortID(id), nil
}

// FormatPortList renders a port list back into span notation for logs:
// [1 2 3 48] -> "1-3,48". The input need not be sorted.
func FormatPortList(ports []state.PortID) string {
	if len(ports) == 0 {
		return ""
	}
	sorted := slices.Clone(ports)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var b strings.Builder
	for i := 0; i < len(sorted); {
		j := i
		for j+1 < len(sorted) && sorted[j+1] == sorted[j]+1 {
			j++
		}
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(sorted[i])))
		if j > i {
			b.WriteByte('-')
			b.WriteString(strconv.Itoa(int(sorted[j])))
		}
		i = j + 1
	}
	return b.String()
}
