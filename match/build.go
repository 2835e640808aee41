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
	"bufio"
	"io"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio-match/interval"
	"github.com/pkg/errors"
)

// maxLineLen bounds a single input line.
const maxLineLen = 1 << 26

func newLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLen)
	return scanner
}

// seed names one DB record and the chromosome reported for it in the totals.
type seed struct {
	id    string
	chrom string
}

// BuildStats counts the DB lines seen by Build.
type BuildStats struct {
	Lines     int
	Intervals int
	Skipped   int
}

// DB is an indexed set of DB intervals ready for matching.  It is immutable
// after Build and may be shared by any number of concurrent Run calls.
type DB struct {
	mode   Mode
	store  *interval.Store
	router *StrandRouter
	// seeds lists every record ID once, in first-appearance order.
	seeds []seed
	Stats BuildStats
}

// Hit is one DB interval overlapping a query.
type Hit struct {
	DB    *interval.Interval
	Shape interval.Shape
	// Sense is set when the query and DB strands are equal.  Only meaningful
	// in strand-aware modes.
	Sense bool
}

// Build reads DB lines from r and indexes them for mode.  Malformed lines are
// logged and skipped.  A read error, or a strand layout that mode cannot
// handle, is returned.
func Build(r io.Reader, mode Mode) (*DB, error) {
	db := &DB{
		mode:  mode,
		store: interval.NewStore(mode.partitioned()),
	}
	seedIdx := map[string]int{}
	scanner := newLineScanner(r)
	for scanner.Scan() {
		db.Stats.Lines++
		line := scanner.Bytes()
		iv, err := interval.ParseLine(line, interval.DB, mode.Stranded())
		if err != nil {
			if err != interval.ErrEmptyLine {
				log.Error.Printf("DB file contains bad line, skipping: %q: %v", line, err)
				db.Stats.Skipped++
			}
			continue
		}
		if i, ok := seedIdx[iv.ID]; ok {
			db.seeds[i].chrom = iv.Chrom
		} else {
			seedIdx[iv.ID] = len(db.seeds)
			db.seeds = append(db.seeds, seed{id: iv.ID, chrom: iv.Chrom})
		}
		db.store.Add(iv)
		db.Stats.Intervals++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "match.Build: reading DB")
	}
	db.store.Freeze()
	var err error
	if db.router, err = NewStrandRouter(db.store.Strands(), mode); err != nil {
		return nil, err
	}
	log.Debug.Printf("match.Build: %d interval(s) for %d record(s), %d line(s) skipped",
		db.Stats.Intervals, len(db.seeds), db.Stats.Skipped)
	return db, nil
}

// Mode returns the strand mode the DB was built for.
func (db *DB) Mode() Mode { return db.mode }

// Records returns the number of distinct record IDs.
func (db *DB) Records() int { return len(db.seeds) }

// Match appends to hits every DB interval overlapping q that the strand mode
// admits, in DB file order, and returns the extended slice.
func (db *DB) Match(q *interval.Interval, hits []Hit) []Hit {
	strand := ""
	if db.mode.partitioned() {
		var ok bool
		if strand, ok = db.router.Route(q.Strand); !ok {
			return hits
		}
	}
	for _, c := range db.store.Overlapping(strand, q.Chrom, q.Start, q.End) {
		shape, ok := interval.Classify(c.Start, c.End, q.Start, q.End)
		if !ok {
			continue
		}
		hits = append(hits, Hit{DB: c, Shape: shape, Sense: c.Strand == q.Strand})
	}
	return hits
}
