package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/AlexGokan/fqview/internal/fastq"
)

// qualityBlock is the glyph drawn for one quality character.
const qualityBlock = "█"

// indent prefixes every record body line in batch output.
const indent = "  "

// Options control how records are drawn.
type Options struct {
	NumRecords int  // maximum records to render, <= 0 renders all
	Wrap       int  // wrap sequence and quality at this width, <= 0 disables
	SeqColor   bool // color nucleotide lines
	Color      bool // master switch; false strips all styling
	Legend     bool // print the quality legend before the records
	RawQuality bool // print raw quality characters beneath the blocks
}

// styler holds the lipgloss styles for one output profile. Styles are
// bound to a renderer with a fixed profile so output is the same whether
// stdout is a terminal or a pipe.
type styler struct {
	color bool
	faint lipgloss.Style
	bold  lipgloss.Style
	base  map[byte]lipgloss.Style
	qual  []lipgloss.Style
}

func newStyler(color bool) *styler {
	profile := termenv.ANSI256
	if !color {
		profile = termenv.Ascii
	}
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(profile)

	s := &styler{
		color: color,
		faint: r.NewStyle().Faint(true),
		bold:  r.NewStyle().Bold(true),
		base:  make(map[byte]lipgloss.Style, 2*len(baseColors)),
		qual:  make([]lipgloss.Style, len(qualityRamp)),
	}
	for b, c := range baseColors {
		st := r.NewStyle().Foreground(lipgloss.Color(c))
		s.base[b] = st
		s.base[b+'a'-'A'] = st // soft-masked lowercase bases, same color
	}
	for i, c := range qualityRamp {
		s.qual[i] = r.NewStyle().Foreground(lipgloss.Color(c))
	}
	return s
}

// sequence colorizes a nucleotide chunk per base. The lookup ignores
// case, so soft-masked lowercase bases color like their uppercase
// counterparts; bases outside the palette pass through untouched.
func (s *styler) sequence(chunk string) string {
	if !s.color {
		return chunk
	}
	var b strings.Builder
	for i := 0; i < len(chunk); i++ {
		if st, ok := s.base[chunk[i]]; ok {
			b.WriteString(st.Render(string(chunk[i])))
		} else {
			b.WriteByte(chunk[i])
		}
	}
	return b.String()
}

// quality draws a quality chunk as colored blocks. With color off the raw
// characters are returned instead, since unstyled blocks all look alike.
func (s *styler) quality(chunk string) string {
	if !s.color {
		return chunk
	}
	var b strings.Builder
	for i := 0; i < len(chunk); i++ {
		b.WriteString(s.qual[rampIndex(fastq.Score(chunk[i]))].Render(qualityBlock))
	}
	return b.String()
}

// RecordLines renders one record as unindented display lines: the header
// verbatim, the wrapped sequence, the separator, the wrapped quality, and
// the raw quality overlay when requested. The sequence chunk and quality
// chunk at the same position always cover the same byte range.
func RecordLines(rec fastq.Record, opts Options) []string {
	return recordLines(rec, newStyler(opts.Color), opts)
}

func recordLines(rec fastq.Record, st *styler, opts Options) []string {
	seqChunks := wrapChunks(rec.Sequence, opts.Wrap)
	qualChunks := wrapChunks(rec.Quality, opts.Wrap)

	lines := make([]string, 0, len(seqChunks)+2*len(qualChunks)+2)
	lines = append(lines, rec.Header)
	for _, c := range seqChunks {
		if opts.SeqColor {
			lines = append(lines, st.sequence(c))
		} else {
			lines = append(lines, c)
		}
	}
	lines = append(lines, st.faint.Render(rec.Plus))
	for _, c := range qualChunks {
		lines = append(lines, st.quality(c))
		if opts.RawQuality && st.color {
			lines = append(lines, st.faint.Render(c))
		}
	}
	return lines
}

// Render streams records from r to w until end of input or the record
// limit, whichever comes first, and returns the number rendered. When a
// record fails to parse, everything rendered so far stays written and the
// error is returned.
func Render(w io.Writer, r *fastq.Reader, opts Options) (int, error) {
	st := newStyler(opts.Color)
	if opts.Legend {
		writeLegend(w, st)
	}
	n := 0
	for opts.NumRecords <= 0 || n < opts.NumRecords {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		n++
		fmt.Fprintln(w, st.faint.Render(fmt.Sprintf("Record %d:", n)))
		for _, line := range recordLines(rec, st, opts) {
			fmt.Fprintln(w, indent+line)
		}
		fmt.Fprintln(w)
	}
	return n, nil
}

// legendBuckets are the sample points of the quality ramp, one per score
// range shown in the legend.
var legendBuckets = []struct {
	score int
	label string
}{
	{0, "0-4"}, {5, "5-9"}, {10, "10-14"}, {15, "15-19"}, {20, "20-24"},
	{25, "25-29"}, {30, "30-34"}, {35, "35-39"}, {40, "40+"},
}

// Legend writes the quality color legend to w.
func Legend(w io.Writer, opts Options) {
	writeLegend(w, newStyler(opts.Color))
}

func writeLegend(w io.Writer, st *styler) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.bold.Render("Quality Score Legend:"))
	fmt.Fprint(w, "Phred: ")
	for _, b := range legendBuckets {
		swatch := qualityBlock + qualityBlock
		if st.color {
			swatch = st.qual[rampIndex(b.score)].Render(swatch)
		}
		fmt.Fprintf(w, "%s%-6s", swatch, b.label)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "       %-24s%-24s%-24s\n", "Low", "Medium", "High")
	fmt.Fprintln(w)
}

// wrapChunks splits s into width-sized chunks. Width <= 0 keeps s whole.
func wrapChunks(s string, width int) []string {
	if width <= 0 || len(s) <= width {
		return []string{s}
	}
	chunks := make([]string, 0, (len(s)+width-1)/width)
	for i := 0; i < len(s); i += width {
		end := i + width
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}
