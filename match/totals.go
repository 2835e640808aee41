// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package match

import (
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bio-match/interval"
)

// WriteTotals writes one line per record of t, sorted by record ID.  The
// layout follows the Aggregate option the run was started with:
//   max: recordID total max chrom pos[:pos...]
//   sum: recordID total chrom
// Records without hits are written unless OmitZero was set.
func (r *Result) WriteTotals(w io.Writer, t *Table) error {
	return writeTotals(w, t, &r.opts)
}

func writeTotals(w io.Writer, t *Table, opts *runOpts) error {
	tsvw := tsv.NewWriter(w)
	if opts.header {
		tsvw.WriteString("desc1")
		tsvw.WriteString("total")
		if opts.aggregate == aggregateMax {
			tsvw.WriteString("most")
		}
		tsvw.WriteString("chr")
		if opts.aggregate == aggregateMax {
			tsvw.WriteString("most_loc")
		}
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	var sb strings.Builder
	for _, e := range t.Entries() {
		if opts.omitZero && e.Hits == 0 {
			continue
		}
		tsvw.WriteString(e.ID)
		tsvw.WriteString(interval.FormatFloat(e.Total))
		switch opts.aggregate {
		case aggregateMax:
			tsvw.WriteString(interval.FormatFloat(e.Max))
			tsvw.WriteString(e.Chrom)
			sb.Reset()
			for i, pos := range e.Positions {
				if i > 0 {
					sb.WriteByte(':')
				}
				sb.WriteString(strconv.FormatInt(int64(pos), 10))
			}
			tsvw.WriteString(sb.String())
		case aggregateSum:
			tsvw.WriteString(e.Chrom)
		}
		if err := tsvw.EndLine(); err != nil {
			return err
		}
	}
	return tsvw.Flush()
}
