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
	"bytes"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bio-match/interval"
)

// Output stream indexes.  Only SenseSplit writes to streamSecondary.
const (
	streamPrimary = iota
	streamSecondary
	nStream
)

// Sense column values in SenseFlag rows.
const (
	senseChar     = 'S'
	antisenseChar = 'A'
)

// batch is everything one query line contributes to the outputs.
type batch struct {
	seq     int64
	rows    [nStream][]byte
	updates [nStream][]Update
	// status records how the line was handled, for Stats.
	status lineStatus
	nMatch int
}

type lineStatus int

const (
	lineBlank lineStatus = iota
	lineSkipped
	lineFiltered
	lineMatched
)

// engine matches query lines against a DB.  Each worker owns one engine; the
// DB is shared.
type engine struct {
	db   *DB
	opts *runOpts
	hits []Hit
	bufs [nStream]bytes.Buffer
	tsvw [nStream]*tsv.Writer
}

func newEngine(db *DB, opts *runOpts) *engine {
	e := &engine{db: db, opts: opts}
	for i := range e.bufs {
		e.tsvw[i] = tsv.NewWriter(&e.bufs[i])
	}
	return e
}

// process parses and matches one query line.  The returned batch does not
// alias line or engine state.
func (e *engine) process(seq int64, line []byte) (b batch, err error) {
	b.seq = seq
	stranded := e.db.mode.Stranded()
	q, err := interval.ParseLine(line, interval.Query, stranded)
	if err != nil {
		if err != interval.ErrEmptyLine {
			log.Error.Printf("query file contains bad line, skipping: %q: %v", line, err)
			b.status = lineSkipped
		}
		return b, nil
	}
	if e.opts.region != nil && !e.opts.region.Overlaps(&q) {
		b.status = lineFiltered
		return b, nil
	}
	b.status = lineMatched
	e.hits = e.db.Match(&q, e.hits[:0])
	b.nMatch = len(e.hits)
	for _, h := range e.hits {
		stream := streamPrimary
		if e.db.mode == SenseSplit && !h.Sense {
			stream = streamSecondary
		}
		w := e.tsvw[stream]
		w.WriteString(h.DB.Text)
		w.WriteString(q.Text)
		w.WriteByte(byte(h.Shape))
		if e.db.mode == SenseFlag {
			if h.Sense {
				w.WriteByte(senseChar)
			} else {
				w.WriteByte(antisenseChar)
			}
		}
		if err = w.EndLine(); err != nil {
			return
		}
		b.updates[stream] = append(b.updates[stream], Update{
			ID:     h.DB.ID,
			Weight: q.Weight,
			Pos:    q.Start,
			Seq:    seq,
		})
	}
	for i := range e.tsvw {
		if err = e.tsvw[i].Flush(); err != nil {
			return
		}
		if e.bufs[i].Len() > 0 {
			b.rows[i] = append([]byte(nil), e.bufs[i].Bytes()...)
			e.bufs[i].Reset()
		}
	}
	return b, nil
}

// writeRowHeader writes the column-name line for match rows.
func writeRowHeader(w *tsv.Writer, mode Mode) error {
	stranded := mode.Stranded()
	for _, side := range []string{"db", "q"} {
		aux := "desc2"
		if side == "q" {
			aux = "hits"
		}
		for _, col := range []string{"desc1", aux, "chr", "start", "end"} {
			w.WriteString(side + "." + col)
		}
		if stranded {
			w.WriteString(side + ".strand")
		}
	}
	w.WriteString("match")
	if mode == SenseFlag {
		w.WriteString("sense")
	}
	if err := w.EndLine(); err != nil {
		return err
	}
	return w.Flush()
}
