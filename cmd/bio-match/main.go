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
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-match/match"
)

var (
	strands   = flag.String("strands", match.DefaultOpts.Strands, "Strand handling: 'i' (ignore), 's' (same), 'o' (opposite), 'bf' (both, flagged) or 'bs' (both, split into _sense and _antisense outputs)")
	threads   = flag.Int("threads", match.DefaultOpts.Parallelism, "Number of query-matching workers; 0 = runtime.NumCPU()")
	aggregate = flag.String("aggregate", match.DefaultOpts.Aggregate, "Totals layout: 'max' (total, max and tied positions) or 'sum' (total only)")
	omitZero  = flag.Bool("omit-zero", match.DefaultOpts.OmitZero, "Leave DB records without any overlapping query out of the totals")
	header    = flag.Bool("header", match.DefaultOpts.Header, "Write a column-name line at the top of every output")
	ordered   = flag.Bool("ordered", match.DefaultOpts.Ordered, "Write match rows in query input order")
	bgzip     = flag.Bool("bgzip", match.DefaultOpts.Bgzip, "Block-gzip every output and append .gz to its name")
	region    = flag.String("region", match.DefaultOpts.Region, "Only match queries overlapping the specified region. Format as <chrom>:<first pos>-<last pos>, <chrom>:<pos>, or just <chrom>")
)

func bioMatchUsage() {
	fmt.Printf("Usage: %s [OPTIONS] dbpath querypath outpath\n", os.Args[0])
	fmt.Printf("Other options:\n")
	flag.PrintDefaults()
}

func optsFromFlags() match.Opts {
	return match.Opts{
		Strands:     *strands,
		Parallelism: *threads,
		Aggregate:   *aggregate,
		OmitZero:    *omitZero,
		Header:      *header,
		Ordered:     *ordered,
		Bgzip:       *bgzip,
		Region:      *region,
	}
}

// checkPositionalArgs requires exactly dbpath, querypath and outpath.
func checkPositionalArgs(positionalArgs []string) error {
	switch n := len(positionalArgs); {
	case n < 3:
		return fmt.Errorf("Missing positional arguments (dbpath, querypath and outpath required); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
	case n > 3:
		return fmt.Errorf("Too many positional arguments (only dbpath, querypath and outpath expected); please check flag syntax: '%s'", strings.Join(positionalArgs, " "))
	}
	return nil
}

func main() {
	flag.Usage = bioMatchUsage
	shutdown := grail.Init()
	defer shutdown()

	positionalArgs := flag.Args()
	if err := checkPositionalArgs(positionalArgs); err != nil {
		log.Fatalf("%v", err)
	}
	ctx := vcontext.Background()
	opts := optsFromFlags()
	if err := match.MatchFiles(ctx, positionalArgs[0], positionalArgs[1], positionalArgs[2], &opts); err != nil {
		log.Fatalf("%v", err)
	}
	log.Debug.Printf("exiting")
}
