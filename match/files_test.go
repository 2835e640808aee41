package match

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
)

const (
	testDB = "g1\tw1\tchr1\t100\t200\t+\n" +
		"g2\tw2\tchr1\t300\t400\t-\n" +
		"g3\tw3\tchr2\t1\t10\t+\n"
	testQueries = "q1\t10\tchr1\t150\t250\t+\n" +
		"q2\t4\tchr1\t350\t350\t+\n" +
		"q3\t4\tchr1\t390\t500\t-\n"
)

func writeGzip(t *testing.T, path, text string) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(text))
	assert.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))
}

func readFile(t *testing.T, path string) string {
	data, err := ioutil.ReadFile(path)
	assert.NoError(t, err)
	return string(data)
}

func readGzipFile(t *testing.T, path string) string {
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()
	r, err := gzip.NewReader(f)
	assert.NoError(t, err)
	data, err := ioutil.ReadAll(r)
	assert.NoError(t, err)
	return string(data)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func setupInputs(t *testing.T, dir string) (dbPath, queryPath string) {
	dbPath = filepath.Join(dir, "db.txt")
	assert.NoError(t, ioutil.WriteFile(dbPath, []byte(testDB), 0644))
	queryPath = filepath.Join(dir, "queries.txt.gz")
	writeGzip(t, queryPath, testQueries)
	return
}

func TestOutputPaths(t *testing.T) {
	rows, totals := OutputPaths("out", SameStrand, false)
	expect.EQ(t, rows, []string{"out"})
	expect.EQ(t, totals, []string{"out_total"})
	rows, totals = OutputPaths("out", SenseSplit, true)
	expect.EQ(t, rows, []string{"out_sense.gz", "out_antisense.gz"})
	expect.EQ(t, totals, []string{"out_sense_total.gz", "out_antisense_total.gz"})
}

func TestMatchFiles(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()
	dbPath, queryPath := setupInputs(t, tmpdir)

	outPath := filepath.Join(tmpdir, "same")
	opts := DefaultOpts
	opts.Strands = "s"
	opts.Parallelism = 2
	opts.Ordered = true
	assert.NoError(t, MatchFiles(ctx, dbPath, queryPath, outPath, &opts))
	expect.EQ(t, readFile(t, outPath),
		"g1\tw1\tchr1\t100\t200\t+\tq1\t10\tchr1\t150\t250\t+\tS\n"+
			"g2\tw2\tchr1\t300\t400\t-\tq3\t4\tchr1\t390\t500\t-\tS\n")
	expect.EQ(t, readFile(t, outPath+"_total"),
		"g1\t10\t10\tchr1\t150\n"+
			"g2\t4\t4\tchr1\t390\n"+
			"g3\t0\t0\tchr2\t0\n")
}

func TestMatchFilesSenseSplit(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := vcontext.Background()
	dbPath, queryPath := setupInputs(t, tmpdir)

	outPath := filepath.Join(tmpdir, "split")
	opts := DefaultOpts
	opts.Strands = "bs"
	opts.Bgzip = true
	opts.Aggregate = "sum"
	opts.OmitZero = true
	assert.NoError(t, MatchFiles(ctx, dbPath, queryPath, outPath, &opts))
	expect.False(t, exists(outPath))
	expect.False(t, exists(outPath+".gz"))
	expect.EQ(t, readGzipFile(t, outPath+"_sense.gz"),
		"g1\tw1\tchr1\t100\t200\t+\tq1\t10\tchr1\t150\t250\t+\tS\n"+
			"g2\tw2\tchr1\t300\t400\t-\tq3\t4\tchr1\t390\t500\t-\tS\n")
	expect.EQ(t, readGzipFile(t, outPath+"_antisense.gz"),
		"g2\tw2\tchr1\t300\t400\t-\tq2\t4\tchr1\t350\t350\t+\tB\n")
	expect.EQ(t, readGzipFile(t, outPath+"_sense_total.gz"), "g1\t10\tchr1\ng2\t4\tchr1\n")
	expect.EQ(t, readGzipFile(t, outPath+"_antisense_total.gz"), "g2\t4\tchr1\n")
}

func TestMatchFilesErrors(t *testing.T) {
	tmpdir, cleanup := testutil.TempDir(t, "", "")
	defer testutil.NoCleanupOnError(t, cleanup, tmpdir)
	ctx := context.Background()
	dbPath, queryPath := setupInputs(t, tmpdir)

	// Strand-aware mode over a DB without strands.
	unstrandedPath := filepath.Join(tmpdir, "unstranded.txt")
	assert.NoError(t, ioutil.WriteFile(unstrandedPath, []byte("g1 w1 chr1 1 2\n"), 0644))
	outPath := filepath.Join(tmpdir, "nostrand")
	opts := DefaultOpts
	opts.Strands = "o"
	err := MatchFiles(ctx, unstrandedPath, queryPath, outPath, &opts)
	assert.NotNil(t, err)
	assert.HasSubstr(t, err.Error(), "strand identifier")
	expect.False(t, exists(outPath))
	expect.False(t, exists(outPath+"_total"))

	// A query stream that fails partway through leaves no outputs behind.
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	for i := 0; i < 2000; i++ {
		_, err = w.Write([]byte(testQueries))
		assert.NoError(t, err)
	}
	assert.NoError(t, w.Close())
	truncatedPath := filepath.Join(tmpdir, "truncated.txt.gz")
	assert.NoError(t, ioutil.WriteFile(truncatedPath, buf.Bytes()[:buf.Len()/2], 0644))
	outPath = filepath.Join(tmpdir, "truncated")
	opts = DefaultOpts
	opts.Strands = "bs"
	err = MatchFiles(ctx, dbPath, truncatedPath, outPath, &opts)
	assert.NotNil(t, err)
	for _, path := range []string{outPath + "_sense", outPath + "_antisense", outPath + "_sense_total", outPath + "_antisense_total"} {
		expect.False(t, exists(path), path)
	}

	err = MatchFiles(ctx, filepath.Join(tmpdir, "missing.txt"), queryPath, outPath, &DefaultOpts)
	assert.NotNil(t, err)
	opts = DefaultOpts
	opts.Aggregate = "median"
	err = MatchFiles(ctx, dbPath, queryPath, outPath, &opts)
	assert.NotNil(t, err)
}
