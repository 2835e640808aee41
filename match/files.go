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
	"context"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/log"
	"github.com/grailbio/hts/bgzf"
	"github.com/klauspost/compress/gzip"
)

const (
	senseSuffix     = "_sense"
	antisenseSuffix = "_antisense"
	totalSuffix     = "_total"
	bgzipSuffix     = ".gz"
)

// OutputPaths returns the match-row and totals paths MatchFiles writes for
// outPath.  SenseSplit writes two of each; element 0 is always the primary
// (sense) output.
func OutputPaths(outPath string, mode Mode, bgzip bool) (rows, totals []string) {
	bases := []string{outPath}
	if mode == SenseSplit {
		bases = []string{outPath + senseSuffix, outPath + antisenseSuffix}
	}
	suffix := ""
	if bgzip {
		suffix = bgzipSuffix
	}
	for _, base := range bases {
		rows = append(rows, base+suffix)
		totals = append(totals, base+totalSuffix+suffix)
	}
	return
}

// input is an opened, possibly gzipped, source file.
type input struct {
	f  file.File
	gz *gzip.Reader
	r  io.Reader
}

func openInput(ctx context.Context, path string) (in *input, err error) {
	in = &input{}
	if in.f, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	in.r = in.f.Reader(ctx)
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if in.gz, err = gzip.NewReader(in.r); err != nil {
			_ = in.f.Close(ctx)
			return nil, errors.E(err, "opening gzipped input", path)
		}
		in.r = in.gz
	}
	return in, nil
}

func (in *input) close(ctx context.Context) error {
	var e errors.Once
	if in.gz != nil {
		e.Set(in.gz.Close())
	}
	e.Set(in.f.Close(ctx))
	return e.Err()
}

// output is a created, optionally block-gzipped, destination file.
type output struct {
	f    file.File
	bgzf *bgzf.Writer
	w    io.Writer
}

func createOutput(ctx context.Context, path string, bgzip bool, parallelism int) (out *output, err error) {
	out = &output{}
	if out.f, err = file.Create(ctx, path); err != nil {
		return nil, err
	}
	out.w = out.f.Writer(ctx)
	if bgzip {
		out.bgzf = bgzf.NewWriter(out.w, parallelism)
		out.w = out.bgzf
	}
	return out, nil
}

func (out *output) close(ctx context.Context) error {
	var e errors.Once
	if out.bgzf != nil {
		e.Set(out.bgzf.Close())
	}
	e.Set(out.f.Close(ctx))
	return e.Err()
}

// MatchFiles builds a DB from dbPath, matches every line of queryPath against
// it and writes match rows and totals next to outPath (see OutputPaths).
// Inputs ending in .gz are decompressed.  If an error is returned, every
// output file MatchFiles created has been removed.
func MatchFiles(ctx context.Context, dbPath, queryPath, outPath string, rawOpts *Opts) (err error) {
	opts, err := rawOpts.validate()
	if err != nil {
		return err
	}
	dbIn, err := openInput(ctx, dbPath)
	if err != nil {
		return err
	}
	db, err := Build(dbIn.r, opts.mode)
	if e := dbIn.close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return errors.E(err, "building DB from", dbPath)
	}
	log.Printf("MatchFiles: loaded %d interval(s) for %d record(s) from %s", db.Stats.Intervals, db.Records(), dbPath)

	queryIn, err := openInput(ctx, queryPath)
	if err != nil {
		return err
	}
	defer func() {
		if e := queryIn.close(ctx); e != nil && err == nil {
			err = e
		}
	}()

	rowPaths, totalPaths := OutputPaths(outPath, opts.mode, opts.bgzip)
	var created []string
	defer func() {
		if err == nil {
			return
		}
		for _, path := range created {
			if e := file.Remove(ctx, path); e != nil {
				log.Error.Printf("MatchFiles: removing %s: %v", path, e)
			}
		}
	}()

	rowOuts := make([]*output, 0, len(rowPaths))
	closeRows := func() error {
		var e errors.Once
		for _, out := range rowOuts {
			e.Set(out.close(ctx))
		}
		rowOuts = nil
		return e.Err()
	}
	for _, path := range rowPaths {
		var out *output
		if out, err = createOutput(ctx, path, opts.bgzip, opts.parallelism); err != nil {
			_ = closeRows()
			return err
		}
		created = append(created, path)
		rowOuts = append(rowOuts, out)
	}
	outs := Outputs{Primary: rowOuts[0].w}
	if len(rowOuts) > 1 {
		outs.Secondary = rowOuts[1].w
	}
	res, err := Run(db, queryIn.r, outs, rawOpts)
	if e := closeRows(); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return err
	}

	tables := []*Table{res.Primary, res.Secondary}
	for i, path := range totalPaths {
		var out *output
		if out, err = createOutput(ctx, path, opts.bgzip, opts.parallelism); err != nil {
			return err
		}
		created = append(created, path)
		err = res.WriteTotals(out.w, tables[i])
		if e := out.close(ctx); e != nil && err == nil {
			err = e
		}
		if err != nil {
			return errors.E(err, "writing totals to", path)
		}
	}
	log.Printf("MatchFiles: done, results written to %s", outPath)
	return nil
}
