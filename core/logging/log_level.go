package logging

import (
	"fmt"
	"strconv"
	"strings"
)

type Level int

const (
	NONE Level = iota
	TRACE
	DEBUG
	INFO
	WARN
	ERROR
	FATAL
)

func (ss Level) String() string {
	if ss <= NONE || ss > FATAL {
		return "NONE"
	}
	return strings.TrimSpace(l2info[ss].str)
}

// ParseLevel accepts a level name in any case or its numeric value.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for l := TRACE; l <= FATAL; l++ {
		if strings.EqualFold(s, l.String()) {
			return l, nil
		}
	}
	if strings.EqualFold(s, "NONE") {
		return NONE, nil
	}
	if n, err := strconv.Atoi(s); err == nil && n >= int(NONE) && n <= int(FATAL) {
		return Level(n), nil
	}
	return NONE, fmt.Errorf("invalid log level: %q", s)
}

func (ss *Level) UnmarshalText(text []byte) error {
	l, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*ss = l
	return nil
}
