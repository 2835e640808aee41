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
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio-match/match"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func setFlags(t *testing.T, values map[string]string) {
	for name, value := range values {
		assert.NoError(t, flag.Set(name, value), name)
	}
}

func TestOptsFromFlags(t *testing.T) {
	expect.EQ(t, optsFromFlags(), match.DefaultOpts)

	setFlags(t, map[string]string{
		"strands":   "bs",
		"threads":   "4",
		"aggregate": "sum",
		"omit-zero": "true",
		"header":    "true",
		"ordered":   "true",
		"bgzip":     "true",
		"region":    "chr1:10-20",
	})
	defer setFlags(t, map[string]string{
		"strands":   match.DefaultOpts.Strands,
		"threads":   "1",
		"aggregate": match.DefaultOpts.Aggregate,
		"omit-zero": "false",
		"header":    "false",
		"ordered":   "false",
		"bgzip":     "false",
		"region":    "",
	})
	expect.EQ(t, optsFromFlags(), match.Opts{
		Strands:     "bs",
		Parallelism: 4,
		Aggregate:   "sum",
		OmitZero:    true,
		Header:      true,
		Ordered:     true,
		Bgzip:       true,
		Region:      "chr1:10-20",
	})
}

func TestCheckPositionalArgs(t *testing.T) {
	expect.NoError(t, checkPositionalArgs([]string{"db", "q", "out"}))
	err := checkPositionalArgs([]string{"db", "q"})
	assert.NotNil(t, err)
	assert.HasSubstr(t, err.Error(), "Missing positional arguments")
	err = checkPositionalArgs([]string{"db", "q", "out", "extra"})
	assert.NotNil(t, err)
	assert.HasSubstr(t, err.Error(), "Too many positional arguments")
}

func TestFlagsDriveMatchFiles(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	dbPath := filepath.Join(tmpdir, "db.txt")
	queryPath := filepath.Join(tmpdir, "q.txt")
	outPath := filepath.Join(tmpdir, "out")
	assert.NoError(t, ioutil.WriteFile(dbPath, []byte("g1 w1 chr1 100 200 +\n"), 0644))
	assert.NoError(t, ioutil.WriteFile(queryPath, []byte("q1 10 chr1 150 250 +\n"), 0644))

	setFlags(t, map[string]string{"strands": "s", "header": "true"})
	defer setFlags(t, map[string]string{"strands": match.DefaultOpts.Strands, "header": "false"})
	opts := optsFromFlags()
	assert.NoError(t, match.MatchFiles(vcontext.Background(), dbPath, queryPath, outPath, &opts))
	data, err := ioutil.ReadFile(outPath + "_total")
	assert.NoError(t, err)
	expect.EQ(t, string(data), "desc1\ttotal\tmost\tchr\tmost_loc\ng1\t10\t10\tchr1\t150\n")
}
