package highlight

import (
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/opt-report/pkg/errors"
)

// DefaultLexerCacheSize bounds the number of cached lexers.
const DefaultLexerCacheSize = 64

// Chroma is a Highlighter backed by chroma. Token classes are chroma's
// short CSS class names, matching the rules emitted by StyleDefs.
// It is safe for concurrent use.
type Chroma struct {
	style  *chroma.Style
	lexers *lru.Cache[string, chroma.Lexer]
}

// NewChroma creates a highlighter using the named style. Unknown style
// names fall back to chroma's default style.
func NewChroma(styleName string, cacheSize int) (*Chroma, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultLexerCacheSize
	}
	cache, err := lru.New[string, chroma.Lexer](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create lexer cache: %w", err)
	}
	return &Chroma{style: styles.Get(styleName), lexers: cache}, nil
}

// Highlight implements Highlighter.
func (c *Chroma) Highlight(filename string, src []byte) (string, error) {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	lexer := c.lexerFor(filename, text)
	if lexer == nil {
		return "", apperrors.Newf(apperrors.CodeHighlightError, "no lexer for %s", filename)
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeHighlightError, fmt.Sprintf("tokenise %s", filename), err)
	}

	lines := chroma.SplitTokensIntoLines(it.Tokens())
	if n := len(lines); n > 0 && isBlank(lines[n-1]) {
		lines = lines[:n-1]
	}

	var b strings.Builder
	b.WriteString(MarkupPrefix)
	for _, line := range lines {
		for _, tok := range line {
			writeToken(&b, tok)
		}
		b.WriteString("\n")
	}
	b.WriteString(MarkupSuffix)
	b.WriteString("\n")
	return b.String(), nil
}

// StyleDefs implements Highlighter.
func (c *Chroma) StyleDefs() (string, error) {
	var b strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&b, c.style); err != nil {
		return "", apperrors.Wrap(apperrors.CodeHighlightError, "write style sheet", err)
	}
	return b.String(), nil
}

// lexerFor matches by file name first, caching per extension, then falls
// back to content analysis.
func (c *Chroma) lexerFor(filename, text string) chroma.Lexer {
	key := strings.ToLower(filepath.Ext(filename))
	if key == "" {
		key = filepath.Base(filename)
	}
	if l, ok := c.lexers.Get(key); ok {
		return l
	}
	if l := lexers.Match(filepath.Base(filename)); l != nil {
		l = chroma.Coalesce(l)
		c.lexers.Add(key, l)
		return l
	}
	if l := lexers.Analyse(text); l != nil {
		return chroma.Coalesce(l)
	}
	return nil
}

func writeToken(b *strings.Builder, tok chroma.Token) {
	value := html.EscapeString(strings.TrimSuffix(tok.Value, "\n"))
	if value == "" {
		return
	}
	class := tokenClass(tok.Type)
	if class == "" {
		b.WriteString(value)
		return
	}
	b.WriteString(`<span class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(value)
	b.WriteString(`</span>`)
}

func tokenClass(t chroma.TokenType) string {
	for _, tt := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if class, ok := chroma.StandardTypes[tt]; ok && class != "" {
			return class
		}
	}
	return ""
}

func isBlank(line []chroma.Token) bool {
	for _, tok := range line {
		if strings.TrimSuffix(tok.Value, "\n") != "" {
			return false
		}
	}
	return true
}
