// Package varlist provides parsing of plain tab-separated variant-list
// files: a header line naming at least chromosome, position, ref and alt
// columns, then one variant per line.
package varlist

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/deluair/alphagenome/internal/variant"
)

// Recognized column names (matched case-insensitively).
const (
	ColChromosome = "chromosome"
	ColPosition   = "position"
	ColReference  = "ref"
	ColAlternate  = "alt"
	ColGene       = "gene"
	ColID         = "id"
)

// columnIndices holds the indices of recognized columns, -1 when absent.
type columnIndices struct {
	Chromosome int
	Position   int
	Reference  int
	Alternate  int
	Gene       int
	ID         int
}

// Parser reads variant records from a variant-list file.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    columnIndices
	ncols      int
}

// NewParser creates a new variant-list parser for the given file.
// Supports both plain and gzipped files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open variant list: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read variant list header: %w", err)
	}

	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek variant list: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	if err := p.parseHeader(); err != nil {
		p.Close()
		return nil, err
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := &Parser{
		reader: bufio.NewReader(r),
	}

	if err := p.parseHeader(); err != nil {
		return nil, err
	}

	return p, nil
}

// parseHeader locates the header line and resolves column indices.
func (p *Parser) parseHeader() error {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return &ParseError{
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			return fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")

		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		return p.parseColumnIndices(line)
	}
}

// parseColumnIndices resolves recognized columns from the header line.
// Common aliases (chrom, pos, reference, alternate, rsid) are accepted.
func (p *Parser) parseColumnIndices(headerLine string) error {
	columns := strings.Split(headerLine, "\t")
	p.ncols = len(columns)

	p.columns = columnIndices{
		Chromosome: -1,
		Position:   -1,
		Reference:  -1,
		Alternate:  -1,
		Gene:       -1,
		ID:         -1,
	}

	for i, col := range columns {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case ColChromosome, "chrom", "chr":
			p.columns.Chromosome = i
		case ColPosition, "pos":
			p.columns.Position = i
		case ColReference, "reference":
			p.columns.Reference = i
		case ColAlternate, "alternate":
			p.columns.Alternate = i
		case ColGene, "gene_symbol":
			p.columns.Gene = i
		case ColID, "rsid", "variant_id":
			p.columns.ID = i
		}
	}

	for name, idx := range map[string]int{
		ColChromosome: p.columns.Chromosome,
		ColPosition:   p.columns.Position,
		ColReference:  p.columns.Reference,
		ColAlternate:  p.columns.Alternate,
	} {
		if idx == -1 {
			return &ParseError{
				Line:    p.lineNumber,
				Message: fmt.Sprintf("required column %q not found in header", name),
			}
		}
	}

	return nil
}

// Next reads the next variant record from the file.
// Returns nil, nil when there are no more variants.
func (p *Parser) Next() (*variant.Record, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		return p.parseLine(line)
	}
}

// parseLine parses a single data line into a record.
func (p *Parser) parseLine(line string) (*variant.Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < p.ncols {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected %d columns, found %d", p.ncols, len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[p.columns.Position], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[p.columns.Position]),
		}
	}

	// "-" is the conventional empty-allele marker in list files.
	alt := fields[p.columns.Alternate]
	if alt == "-" {
		alt = ""
	}
	ref := fields[p.columns.Reference]

	rec, err := variant.New(fields[p.columns.Chromosome], pos, ref, alt)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: err.Error(),
		}
	}

	meta := map[string]string{}
	if p.columns.Gene >= 0 && fields[p.columns.Gene] != "" {
		meta[ColGene] = fields[p.columns.Gene]
	}
	if p.columns.ID >= 0 && fields[p.columns.ID] != "" {
		meta[ColID] = fields[p.columns.ID]
	}
	if len(meta) > 0 {
		rec = rec.WithMetadata(meta)
	}

	return rec, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during variant-list parsing with line
// context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("variant list parse error at line %d: %s", e.Line, e.Message)
}
