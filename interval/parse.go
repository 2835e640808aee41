package interval

import (
	"math"
	"strconv"

	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/pkg/errors"
)

// maxTokens is the widest line layout (with strand).  Columns past the last
// one a layout needs are ignored.
const maxTokens = 6

// ErrEmptyLine is returned by ParseLine for lines without any tokens.  Callers
// normally skip these without a diagnostic.
var ErrEmptyLine = errors.New("empty line")

// splitColumns stores the first len(cols) columns of line in cols and returns
// how many it found.  Runs of bytes <= ' ' separate columns.  The scan stops
// as soon as cols is full, so trailing columns are never looked at.
//
// REQUIRES: len(cols) > 0.
func splitColumns(cols [][]byte, line []byte) int {
	n := 0
	colStart := -1
	for i, c := range line {
		if c > ' ' {
			if colStart < 0 {
				colStart = i
			}
			continue
		}
		if colStart >= 0 {
			cols[n] = line[colStart:i]
			if n++; n == len(cols) {
				return n
			}
			colStart = -1
		}
	}
	if colStart >= 0 {
		cols[n] = line[colStart:]
		n++
	}
	return n
}

func parsePos(token []byte, what string) (PosType, error) {
	v, err := strconv.ParseInt(gunsafe.BytesToString(token), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "bad %s coordinate", what)
	}
	return PosType(v), nil
}

// ParseLine parses one line of the form
//   recordID aux chrom start end [strand]
// The strand column is required iff stranded is set; columns past the last
// required one are ignored.  For Query lines the aux column must parse as a
// (non-NaN) float.
//
// The returned Interval does not alias line.
func ParseLine(line []byte, kind Kind, stranded bool) (iv Interval, err error) {
	want := maxTokens - 1
	if stranded {
		want = maxTokens
	}
	var tokens [maxTokens][]byte
	nToken := splitColumns(tokens[:want], line)
	if nToken == 0 {
		return iv, ErrEmptyLine
	}
	if nToken < want {
		return iv, errors.Errorf("expected at least %d columns, found %d", want, nToken)
	}
	if iv.Start, err = parsePos(tokens[3], "start"); err != nil {
		return
	}
	if iv.End, err = parsePos(tokens[4], "end"); err != nil {
		return
	}
	if kind == Query {
		if iv.Weight, err = strconv.ParseFloat(gunsafe.BytesToString(tokens[1]), 64); err != nil {
			return iv, errors.Wrap(err, "bad query weight")
		}
		if math.IsNaN(iv.Weight) {
			return iv, errors.Errorf("bad query weight %q", tokens[1])
		}
	}
	// Map keys and output text outlive the line buffer, so copy here.
	iv.ID = string(tokens[0])
	iv.Aux = string(tokens[1])
	iv.Chrom = string(tokens[2])
	if stranded {
		iv.Strand = string(tokens[5])
	}
	iv.render(kind, stranded)
	return iv, nil
}
