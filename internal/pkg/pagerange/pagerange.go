package pagerange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Range is a zero-based half-open page interval [Start, End).
type Range struct {
	Start int
	End   int
}

var ErrInvalidRange = errors.New("invalid page range")

// Parse reads a "start-end" string into a Range. Start must be >= 0 and
// End must be strictly greater than Start.
func Parse(s string) (Range, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	if start < 0 || end <= start {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return Range{Start: start, End: end}, nil
}

func (r Range) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Size returns the number of pages covered by the range.
func (r Range) Size() int {
	return r.End - r.Start
}

// Chunks partitions [0, pageCount) into consecutive ranges of chunkSize
// pages. A trailing partial chunk is dropped: pageCount/chunkSize uses
// integer division, so only floor(pageCount/chunkSize) chunks come back.
func Chunks(pageCount, chunkSize int) []Range {
	if pageCount <= 0 || chunkSize <= 0 {
		return nil
	}
	n := pageCount / chunkSize
	out := make([]Range, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Range{Start: i * chunkSize, End: (i + 1) * chunkSize})
	}
	return out
}
