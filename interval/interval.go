package interval

import (
	"strconv"
	"strings"
)

// PosType is the integer type used for interval coordinates.  The source
// files carry arbitrary signed integers, so this is 64 bits wide.
type PosType int64

// Kind distinguishes the two flavors of input line.  They share a layout, but
// the second column of a query line must be numeric.
type Kind int

const (
	// DB lines carry a free-form label in the second column.
	DB Kind = iota
	// Query lines carry a numeric weight in the second column.
	Query
)

// Interval is a single parsed line:
//   recordID aux chrom start end [strand]
type Interval struct {
	// ID is the first column.  For DB lines it is the aggregation key.
	ID string
	// Aux is the second column, verbatim.
	Aux string
	// Weight is Aux parsed as a float.  Only set for Query lines.
	Weight float64
	Chrom  string
	Start  PosType
	End    PosType
	// Strand is empty when the line was parsed without a strand column.
	Strand string
	// Text is the tab-separated rendering of the parsed columns that is copied
	// into match output.
	Text string
}

// FormatFloat renders weights and totals the way the match and total reports
// print them: shortest of %e/%f with 6 significant digits.
func FormatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

// render fills iv.Text.  Query weights are re-rendered from the parsed value,
// DB labels are kept verbatim.
func (iv *Interval) render(kind Kind, stranded bool) {
	var sb strings.Builder
	sb.WriteString(iv.ID)
	sb.WriteByte('\t')
	if kind == Query {
		sb.WriteString(FormatFloat(iv.Weight))
	} else {
		sb.WriteString(iv.Aux)
	}
	sb.WriteByte('\t')
	sb.WriteString(iv.Chrom)
	sb.WriteByte('\t')
	sb.WriteString(strconv.FormatInt(int64(iv.Start), 10))
	sb.WriteByte('\t')
	sb.WriteString(strconv.FormatInt(int64(iv.End), 10))
	if stranded {
		sb.WriteByte('\t')
		sb.WriteString(iv.Strand)
	}
	iv.Text = sb.String()
}
