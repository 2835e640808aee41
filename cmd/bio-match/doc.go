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

/*
Given a DB file of named genomic intervals and a query file of weighted
intervals, bio-match reports every DB/query overlap together with its shape,
and writes per-record totals: the summed query weight, the largest single
weight, and the start positions of the queries tied at that weight.

Both inputs are whitespace-delimited text, one interval per line:
    recordID aux chrom start end [strand]
The aux column of a query line must be numeric.  The strand column is required
by every -strands mode except "i".

Strand modes:
    i   ignore strands
    s   report only same-strand overlaps
    o   report only opposite-strand overlaps
    bf  report both, with an S/A sense column
    bs  report both, sense to outpath_sense and antisense to outpath_antisense

Sample usage:
bio-match \
    -strands s \
    -threads 8 \
    genes.txt \
    reads.txt.gz \
    matches.tsv
*/
package main
