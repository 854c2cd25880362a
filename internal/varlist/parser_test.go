package varlist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deluair/alphagenome/internal/vcf"
)

const sampleList = `# curated pathogenic variants
chromosome	position	ref	alt	gene	id
chr17	43106528	G	T	BRCA1	rs80357323
17	7674220	G	A	TP53
chr7	117548628	CTT	-	CFTR
`

func TestParserReadsRecords(t *testing.T) {
	p, err := NewParserFromReader(strings.NewReader(sampleList))
	require.NoError(t, err)

	recs, err := vcf.ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, "chr17", recs[0].Chrom)
	assert.Equal(t, int64(43106528), recs[0].Pos)
	assert.Equal(t, "BRCA1", recs[0].Metadata["gene"])
	assert.Equal(t, "rs80357323", recs[0].Metadata["id"])

	assert.Equal(t, "chr17", recs[1].Chrom, "bare chromosome names are normalized")
	assert.Equal(t, "TP53", recs[1].Metadata["gene"])

	assert.Equal(t, "CTT", recs[2].Ref)
	assert.Equal(t, "", recs[2].Alt, `"-" marks an empty alternate allele`)
}

func TestParserHeaderAliases(t *testing.T) {
	in := "chrom\tpos\treference\talternate\nchr1\t100\tA\tT\n"
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	recs, err := vcf.ReadAll(p)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "chr1", recs[0].Chrom)
	assert.Nil(t, recs[0].Metadata)
}

func TestParserMissingRequiredColumn(t *testing.T) {
	in := "chromosome\tposition\tref\nchr1\t100\tA\n"
	_, err := NewParserFromReader(strings.NewReader(in))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, `"alt"`)
}

func TestParserInvalidVariantLine(t *testing.T) {
	in := "chromosome\tposition\tref\talt\nchr1\t100\tZ\tT\n"
	p, err := NewParserFromReader(strings.NewReader(in))
	require.NoError(t, err)

	_, err = p.Next()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Message, "reference")
}

func TestParserEmptyFile(t *testing.T) {
	_, err := NewParserFromReader(strings.NewReader(""))
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "no header line")
}
