// Package lineitem splits raw scope-of-supply text into discrete product
// line items.
package lineitem

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sahajm/bidscope/schema"
)

// minItemLength excludes noise fragments left over after splitting.
const minItemLength = 10

// listMarkerPattern matches numbered, lettered, or bulleted prefixes on
// line boundaries (e.g. "1.", "2)", "a)", "-", "*").
var listMarkerPattern = regexp.MustCompile(`(?m)^\s*(?:\d+[.)]|[a-zA-Z][.)]|[-*\x{2022}])\s+`)

var newlineRunPattern = regexp.MustCompile(`\n+`)

// DefaultProductKeywords is the vocabulary of product-category phrases used
// as split boundaries when upstream sources concatenate items without
// delimiters. Ordered longest-first so broader phrases win over substrings.
var DefaultProductKeywords = []string{
	"MV Power Cable",
	"HV Power Cable",
	"LV Power Cable",
	"Power Cable",
	"Control Cable",
	"Instrumentation Cable",
	"Communication Cable",
	"Cable Tray",
	"Cable Gland",
	"Transformer",
	"Switchgear",
	"Earthing Strip",
}

// Parser splits tender scope text into line items. The keyword vocabulary
// is injected so alternate product domains can extend it without global state.
type Parser struct {
	keywords []string
}

// NewParser returns a parser using the given product keyword vocabulary.
// A nil or empty vocabulary falls back to DefaultProductKeywords.
func NewParser(keywords []string) *Parser {
	if len(keywords) == 0 {
		keywords = DefaultProductKeywords
	}
	sorted := make([]string, len(keywords))
	copy(sorted, keywords)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return &Parser{keywords: sorted}
}

func overlaps(claimed [][2]int, start, end int) bool {
	for _, c := range claimed {
		if start < c[1] && end > c[0] {
			return true
		}
	}
	return false
}

// Parse splits scope-of-supply text into ordered line items. Strategies are
// tried in priority order and the first one producing more than one item
// wins; a text with no detectable structure degrades to a single line item
// covering the whole text. Empty input yields no items.
func (p *Parser) Parse(scopeText string) []schema.LineItem {
	trimmed := strings.TrimSpace(scopeText)
	if trimmed == "" {
		return nil
	}

	strategies := []func(string) []string{
		splitOnListMarkers,
		splitOnSemicolons,
		splitOnNewlines,
		p.splitOnKeywords,
	}
	for _, strategy := range strategies {
		if items := strategy(trimmed); len(items) > 1 {
			return toLineItems(items)
		}
	}

	return toLineItems([]string{trimmed})
}

func toLineItems(texts []string) []schema.LineItem {
	items := make([]schema.LineItem, len(texts))
	for i, t := range texts {
		items[i] = schema.LineItem{Text: t, Position: i}
	}
	return items
}

// cleanFragments trims fragments and drops those below the minimum length.
func cleanFragments(fragments []string) []string {
	var out []string
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if len(f) >= minItemLength {
			out = append(out, f)
		}
	}
	return out
}

func splitOnListMarkers(text string) []string {
	locs := listMarkerPattern.FindAllStringIndex(text, -1)
	if len(locs) < 2 {
		return nil
	}
	var fragments []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		fragments = append(fragments, text[loc[1]:end])
	}
	return cleanFragments(fragments)
}

func splitOnSemicolons(text string) []string {
	if strings.Count(text, ";") < 2 {
		return nil
	}
	return cleanFragments(strings.Split(text, ";"))
}

func splitOnNewlines(text string) []string {
	if !strings.Contains(text, "\n") {
		return nil
	}
	return cleanFragments(newlineRunPattern.Split(text, -1))
}

// splitOnKeywords splits at boundaries immediately preceding any known
// product-category phrase. Case-insensitive; keywords are scanned
// longest-first and a match inside an already-claimed span is skipped, so
// "Power Cable" never cuts inside an "MV Power Cable" boundary. A single
// cut past the start of the text still splits, into prefix plus item.
func (p *Parser) splitOnKeywords(text string) []string {
	lower := strings.ToLower(text)
	var cuts []int
	var claimed [][2]int
	for _, kw := range p.keywords {
		kwLower := strings.ToLower(kw)
		for start := 0; ; {
			idx := strings.Index(lower[start:], kwLower)
			if idx < 0 {
				break
			}
			at := start + idx
			if !overlaps(claimed, at, at+len(kwLower)) {
				cuts = append(cuts, at)
				claimed = append(claimed, [2]int{at, at + len(kwLower)})
			}
			start = at + len(kwLower)
		}
	}
	if len(cuts) == 0 {
		return nil
	}
	cuts = dedupeSorted(cuts)
	if len(cuts) == 1 && cuts[0] == 0 {
		return nil
	}
	if cuts[0] != 0 {
		cuts = append([]int{0}, cuts...)
	}

	var fragments []string
	for i, cut := range cuts {
		end := len(text)
		if i+1 < len(cuts) {
			end = cuts[i+1]
		}
		fragments = append(fragments, text[cut:end])
	}
	return cleanFragments(fragments)
}

// dedupeSorted deduplicates cut offsets and sorts them by position, since
// keyword scans emit offsets grouped by keyword rather than by position.
func dedupeSorted(cuts []int) []int {
	seen := make(map[int]struct{}, len(cuts))
	var out []int
	for _, c := range cuts {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Ints(out)
	return out
}
