package model

// ItemKind discriminates the variants of MessageItem.
type ItemKind string

// Message item kinds. Any other value is a malformed item.
const (
	ItemText   ItemKind = "text"
	ItemExpr   ItemKind = "expr"
	ItemStmt   ItemKind = "stmt"
	ItemSymtab ItemKind = "symtab"
)

// IsReference reports whether the kind is one of the typed references.
func (k ItemKind) IsReference() bool {
	switch k {
	case ItemExpr, ItemStmt, ItemSymtab:
		return true
	default:
		return false
	}
}

// MessageItem is one fragment of a record message: plain text, or a typed
// reference to an expression, statement or symbol-table node. References
// may point at a source location.
type MessageItem struct {
	Kind     ItemKind  `json:"kind" yaml:"kind"`
	Text     string    `json:"text" yaml:"text"`
	Location *Location `json:"location,omitempty" yaml:"location,omitempty"`
}

// Text returns a plain text item.
func Text(s string) MessageItem {
	return MessageItem{Kind: ItemText, Text: s}
}

// Expr returns an expression reference.
func Expr(s string, loc *Location) MessageItem {
	return MessageItem{Kind: ItemExpr, Text: s, Location: loc}
}

// Stmt returns a statement reference.
func Stmt(s string, loc *Location) MessageItem {
	return MessageItem{Kind: ItemStmt, Text: s, Location: loc}
}

// Symtab returns a symbol-table node reference.
func Symtab(s string, loc *Location) MessageItem {
	return MessageItem{Kind: ItemSymtab, Text: s, Location: loc}
}
