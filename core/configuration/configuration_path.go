package configuration

import (
	"strconv"
	"strings"
)

const KeyDelimiter = ":"

// PathCombine joins segments into one configuration key.
func PathCombine(segments ...string) string {
	return strings.Join(segments, KeyDelimiter)
}

func pathSectionKey(path string) string {
	idx := strings.LastIndexByte(path, ':')
	if idx == -1 {
		return path
	}

	return path[idx+1:]
}

// compareKeys orders numeric keys numerically so array children keep their order.
func compareKeys(lhs, rhs string) int {
	ln, lerr := strconv.Atoi(lhs)
	rn, rerr := strconv.Atoi(rhs)
	switch {
	case lerr == nil && rerr == nil:
		return ln - rn
	case lerr == nil:
		return -1
	case rerr == nil:
		return 1
	}
	return strings.Compare(strings.ToUpper(lhs), strings.ToUpper(rhs))
}
