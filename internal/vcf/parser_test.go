package vcf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVCF = `##fileformat=VCFv4.2
##reference=GRCh38
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
17	43106528	rs80357323	G	T	50	PASS	GENE=BRCA1
chr17	7674220	.	G	A	99	PASS	.
chr13	32337514	.	AGATA	A	.	PASS	DP=100
`

func TestParserReadsRecords(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleVCF))
	require.NoError(t, err)

	recs, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "chr17", recs[0].Chrom, "chromosome names are normalized")
	assert.Equal(t, int64(43106528), recs[0].Pos)
	assert.Equal(t, "G", recs[0].Ref)
	assert.Equal(t, "T", recs[0].Alt)
	assert.Equal(t, "rs80357323", recs[0].Metadata["rsid"])
	assert.Equal(t, "BRCA1", recs[0].Metadata["gene"])

	assert.Nil(t, recs[1].Metadata)

	assert.Equal(t, "AGATA", recs[2].Ref)
	assert.Equal(t, "A", recs[2].Alt)
}

func TestParserSplitsMultiAllelic(t *testing.T) {
	in := `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr12	25245350	.	C	A,G	.	PASS	.
`
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	recs, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Alt)
	assert.Equal(t, "G", recs[1].Alt)
	assert.Equal(t, recs[0].Pos, recs[1].Pos)
}

func TestParserSkipsSymbolicAlleles(t *testing.T) {
	in := `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	1000	.	A	<DEL>	.	PASS	.
chr1	2000	.	A	T,*	.	PASS	.
`
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	recs, err := ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(2000), recs[0].Pos)
	assert.Equal(t, 2, p.Skipped())
}

func TestParserHeaderRequired(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader("chr1\t100\t.\tA\tT\t.\tPASS\t.\n"))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "#CHROM")
}

func TestParserBadPosition(t *testing.T) {
	in := `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr1	notanumber	.	A	T	.	PASS	.
`
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	_, err = p.Next()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Line)
}

func TestParserGzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.vcf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sampleVCF))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	recs, err := ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestParserPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.vcf")
	require.NoError(t, os.WriteFile(path, []byte(sampleVCF), 0o644))

	p, err := NewParser(path)
	require.NoError(t, err)
	defer p.Close()

	recs, err := ReadAll(p)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Len(t, p.Header(), 3)
}
