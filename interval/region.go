package interval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Region is a closed coordinate range on one chromosome.  Coordinates are in
// the same system as the input files; no 0/1-based conversion is applied.
type Region struct {
	Chrom string
	Start PosType
	End   PosType
}

// ParseRegion parses a region string of one of the forms
//   [chrom]:[first pos]-[last pos]
//   [chrom]:[pos]
//   [chrom]
// A bare chromosome covers every position.
func ParseRegion(region string) (result Region, err error) {
	if len(region) == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty region string")
		return
	}
	colonPos := strings.LastIndexByte(region, ':')
	if colonPos == -1 {
		result.Chrom = region
		result.Start = math.MinInt64
		result.End = math.MaxInt64
		return
	}
	if colonPos == 0 {
		err = fmt.Errorf("interval.ParseRegion: empty chromosome in %q", region)
		return
	}
	result.Chrom = region[:colonPos]
	rangeStr := region[colonPos+1:]
	// Skip a leading sign so that negative starts parse.
	dashPos := strings.IndexByte(strings.TrimPrefix(rangeStr, "-"), '-')
	if dashPos == -1 {
		var pos int64
		if pos, err = strconv.ParseInt(rangeStr, 10, 64); err != nil {
			err = fmt.Errorf("interval.ParseRegion: bad position in %q: %v", region, err)
			return
		}
		result.Start = PosType(pos)
		result.End = PosType(pos)
		return
	}
	if strings.HasPrefix(rangeStr, "-") {
		dashPos++
	}
	var start, end int64
	if start, err = strconv.ParseInt(rangeStr[:dashPos], 10, 64); err != nil {
		err = fmt.Errorf("interval.ParseRegion: bad start in %q: %v", region, err)
		return
	}
	if end, err = strconv.ParseInt(rangeStr[dashPos+1:], 10, 64); err != nil {
		err = fmt.Errorf("interval.ParseRegion: bad end in %q: %v", region, err)
		return
	}
	if end < start {
		err = fmt.Errorf("interval.ParseRegion: invalid range %q", rangeStr)
		return
	}
	result.Start = PosType(start)
	result.End = PosType(end)
	return
}

// Overlaps reports whether iv shares a chromosome and at least one position
// with the region.
func (r Region) Overlaps(iv *Interval) bool {
	return iv.Chrom == r.Chrom && Overlaps(r.Start, r.End, iv.Start, iv.End)
}
