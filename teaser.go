package homesite

import (
	"regexp"
	"strings"
)

// teaserMaxLen bounds the teaser to roughly one listing line.
const teaserMaxLen = 200

var (
	reMarkdownLink = regexp.MustCompile(`(\[!\[.*?\]\(.*?\)\])|(!?\[(.*?)\]\(.*?\))`)
	reMarkdownChar = regexp.MustCompile("(?m)[*#>`~_]")
	reWhitespace   = regexp.MustCompile(`\s+`)
	reSentenceEnd  = regexp.MustCompile(`[.!?]+\s+`)
	reWord         = regexp.MustCompile(`[a-zA-Z0-9']+`)
)

// Teaser picks the single most representative sentence of body as a preview
// string. Sentences are scored by how many of the body's frequent words and
// the title's words they contain, normalized by sentence length so long
// sentences don't win by default. Deterministic for identical input;
// computed once at save time and stored, never re-derived lazily.
func Teaser(title, body string) string {
	plain := stripMarkdown(body)
	if plain == "" {
		return ""
	}

	sentences := splitSentences(plain)
	if len(sentences) == 1 {
		return clampTeaser(sentences[0])
	}

	freq := make(map[string]int)
	for _, w := range words(plain) {
		freq[w]++
	}
	titleWords := make(map[string]struct{})
	for _, w := range words(title) {
		titleWords[w] = struct{}{}
	}

	best := sentences[0]
	bestScore := -1.0
	for _, s := range sentences {
		ws := words(s)
		if len(ws) == 0 {
			continue
		}
		score := 0.0
		for _, w := range ws {
			score += float64(freq[w])
			if _, ok := titleWords[w]; ok {
				score += 2
			}
		}
		score /= float64(len(ws))
		// strictly-greater keeps the earliest sentence on ties
		if score > bestScore {
			best = s
			bestScore = score
		}
	}
	return clampTeaser(best)
}

// stripMarkdown removes markdown formatting so the teaser reads as plain
// text in listings and meta descriptions.
func stripMarkdown(md string) string {
	md = reMarkdownLink.ReplaceAllString(md, "$3")
	md = reMarkdownChar.ReplaceAllString(md, "")
	md = reWhitespace.ReplaceAllString(md, " ")
	return strings.TrimSpace(md)
}

func splitSentences(s string) []string {
	var out []string
	last := 0
	for _, loc := range reSentenceEnd.FindAllStringIndex(s, -1) {
		part := strings.TrimSpace(s[last:loc[0]])
		if part != "" {
			out = append(out, part)
		}
		last = loc[1]
	}
	if rest := strings.TrimSpace(s[last:]); rest != "" {
		out = append(out, rest)
	}
	if len(out) == 0 {
		out = []string{strings.TrimSpace(s)}
	}
	return out
}

func words(s string) []string {
	return reWord.FindAllString(strings.ToLower(s), -1)
}

func clampTeaser(s string) string {
	runes := []rune(s)
	if len(runes) <= teaserMaxLen {
		return s
	}
	return string(runes[:teaserMaxLen]) + "..."
}
