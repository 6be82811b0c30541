package cmd

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// secondsValue is a duration flag that also takes a bare number of seconds,
// so "0.1" and "100ms" mean the same.
type secondsValue time.Duration

func newSecondsValue(p *time.Duration, value time.Duration) *secondsValue {
	*p = value
	return (*secondsValue)(p)
}

func (s *secondsValue) Set(v string) error {
	d, err := parseSeconds(v)
	if err != nil {
		return err
	}

	*s = secondsValue(d)

	return nil
}

func (s *secondsValue) Type() string {
	return "duration"
}

func (s *secondsValue) String() string {
	return time.Duration(*s).String()
}

func parseSeconds(v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		seconds, ferr := strconv.ParseFloat(v, 64)
		if ferr != nil {
			return 0, fmt.Errorf("%q is neither a duration nor a number of seconds", v)
		}

		d = time.Duration(math.Round(seconds * float64(time.Second)))
	}

	if d < 0 {
		return 0, fmt.Errorf("%q is negative", v)
	}

	return d, nil
}
