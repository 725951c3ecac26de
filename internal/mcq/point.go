package mcq

import (
	"fmt"
	"strconv"
	"strings"
)

const pointPrefix = "point:"

// PointRef encodes a viewport coordinate as a handle. Used for OCR hits,
// where the only anchor is the position of the recognized text.
func PointRef(x, y int) Handle {
	return Handle(fmt.Sprintf("%s%d,%d", pointPrefix, x, y))
}

// ParsePointRef reports whether h is a point handle and, if so, returns
// its coordinates.
func ParsePointRef(h Handle) (x, y int, ok bool) {
	s, found := strings.CutPrefix(string(h), pointPrefix)
	if !found {
		return 0, 0, false
	}
	xs, ys, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, false
	}
	var err error
	if x, err = strconv.Atoi(xs); err != nil {
		return 0, 0, false
	}
	if y, err = strconv.Atoi(ys); err != nil {
		return 0, 0, false
	}
	return x, y, true
}
