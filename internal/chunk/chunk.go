package chunk

import (
	"strings"
	"unicode/utf8"

	"github.com/studyhall-ai/server/internal/ingest"
	logx "github.com/studyhall-ai/server/pkg/logger"
)

// Config controls the splitter. Sizes are measured in runes, not bytes, so
// multi-byte scripts are not cut mid-character.
type Config struct {
	Size    int `envconfig:"CHUNK_SIZE" default:"800"`
	Overlap int `envconfig:"CHUNK_OVERLAP" default:"50"`
}

// Chunk is a bounded-size slice of one document, the unit that gets embedded
// and retrieved. Index and Total are stamped across the whole batch.
type Chunk struct {
	Content string
	Meta    ingest.Metadata
	Index   int
	Total   int
}

// separators in priority order: paragraph, line, sentence, word, hard cut.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter splits documents deterministically: identical input always yields
// an identical chunk sequence ordered by (document order, offset).
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter validates the config. Overlap is clamped to half the target
// size; larger overlaps would make consecutive chunks mostly duplicates.
func NewSplitter(cfg Config) *Splitter {
	size := cfg.Size
	if size <= 0 {
		size = 800
	}
	overlap := cfg.Overlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap > size/2 {
		logx.Warn().Int("overlap", overlap).Int("size", size).Msg("Chunk overlap exceeds half the chunk size; clamping")
		overlap = size / 2
	}
	return &Splitter{size: size, overlap: overlap}
}

// Split chunks every document in input order and stamps each chunk with its
// zero-based index and the batch total.
func (s *Splitter) Split(docs []ingest.Document) []Chunk {
	var chunks []Chunk
	for _, doc := range docs {
		for _, part := range s.splitText(doc.Content, separators) {
			if strings.TrimSpace(part) == "" {
				continue
			}
			chunks = append(chunks, Chunk{Content: part, Meta: doc.Meta})
		}
	}
	total := len(chunks)
	for i := range chunks {
		chunks[i].Index = i
		chunks[i].Total = total
	}
	return chunks
}

// splitText tries each separator in priority order and falls back to a hard
// rune cut when none of them occurs in the text.
func (s *Splitter) splitText(text string, seps []string) []string {
	if utf8.RuneCountInString(text) <= s.size {
		return []string{text}
	}

	sep, rest := pickSeparator(text, seps)
	if sep == "" {
		return s.hardCut(text)
	}

	// SplitAfter keeps the separator attached so rejoining is lossless.
	return s.merge(strings.SplitAfter(text, sep), rest)
}

// merge greedily packs split parts into chunks of at most size runes,
// carrying an overlap tail from each emitted chunk into the next. Parts that
// are themselves oversized recurse with the lower-priority separators.
func (s *Splitter) merge(parts []string, rest []string) []string {
	var out []string
	var cur []string
	curLen := 0
	fresh := false // whether cur holds anything beyond a carried overlap tail

	emit := func() {
		if curLen == 0 || !fresh {
			return
		}
		joined := strings.Join(cur, "")
		out = append(out, joined)
		cur, curLen = s.overlapTail(cur, joined)
		fresh = false
	}

	for _, part := range parts {
		n := utf8.RuneCountInString(part)
		if n > s.size {
			emit()
			out = append(out, s.splitText(part, rest)...)
			cur, curLen, fresh = nil, 0, false
			continue
		}
		if curLen+n > s.size && curLen > 0 {
			emit()
			if curLen+n > s.size {
				// trim the carried tail so the part still fits; adjacent
				// chunks keep whatever overlap room remains
				cur, curLen = trimTail(cur, s.size-n)
			}
		}
		cur = append(cur, part)
		curLen += n
		fresh = true
	}
	emit()
	return out
}

// overlapTail selects trailing parts totaling at most overlap runes to seed
// the next chunk. When no whole part fits, it falls back to the last overlap
// runes of the chunk so adjacent chunks always share context.
func (s *Splitter) overlapTail(parts []string, joined string) ([]string, int) {
	if s.overlap == 0 {
		return nil, 0
	}
	var tail []string
	total := 0
	for i := len(parts) - 1; i >= 0; i-- {
		n := utf8.RuneCountInString(parts[i])
		if total+n > s.overlap {
			break
		}
		tail = append([]string{parts[i]}, tail...)
		total += n
	}
	if total == 0 {
		r := []rune(joined)
		if len(r) > s.overlap {
			r = r[len(r)-s.overlap:]
		}
		return []string{string(r)}, len(r)
	}
	return tail, total
}

// trimTail keeps only the last keep runes of the joined tail parts.
func trimTail(parts []string, keep int) ([]string, int) {
	if keep <= 0 || len(parts) == 0 {
		return nil, 0
	}
	r := []rune(strings.Join(parts, ""))
	if len(r) <= keep {
		return []string{string(r)}, len(r)
	}
	return []string{string(r[len(r)-keep:])}, keep
}

// hardCut slices the text into size-rune windows advancing by size-overlap.
func (s *Splitter) hardCut(text string) []string {
	r := []rune(text)
	step := s.size - s.overlap
	if step <= 0 {
		step = s.size
	}
	var out []string
	for start := 0; start < len(r); start += step {
		end := start + s.size
		if end >= len(r) {
			out = append(out, string(r[start:]))
			break
		}
		out = append(out, string(r[start:end]))
	}
	return out
}

// pickSeparator returns the first separator present in the text and the
// lower-priority separators remaining after it.
func pickSeparator(text string, seps []string) (string, []string) {
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}
