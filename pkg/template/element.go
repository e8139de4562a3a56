package template

// TagKind classifies an element name.
type TagKind uint8

const (
	// TagKnown is a recognised built-in element name.
	TagKnown TagKind = iota
	// TagCustom is an arbitrary, usually dashed, element name.
	TagCustom
)

// ElementName is the tag identity of an element.
type ElementName struct {
	Kind TagKind
	Name string
	Loc  Span
}

// Element is a built-in or custom element with attributes and children. The
// element itself never occupies a dynamic slot; only its attributes and
// descendants can.
type Element struct {
	Name ElementName
	// Key is the optional reconciliation key. Element keys must be
	// interpolated; NewElement rejects static ones.
	Key *FormatString
	// Attributes holds the raw declarations in source order.
	Attributes []Attribute
	// MergedAttributes is the deduplicated list used for indexing and
	// emission. See mergeAttributes for the combination rules.
	MergedAttributes []Attribute
	Kids             []Node
	Loc              Span
}

func (e *Element) Kind() NodeKind   { return KindElement }
func (e *Element) Span() Span       { return e.Loc }
func (e *Element) Children() []Node { return e.Kids }

// NewElement builds an element from its raw attribute list, enforcing the
// hard-error tier and computing the merged attribute list.
//
// Declaring the same event listener twice is a hard parse error: two
// handlers for one event cannot be merged and silently dropping one would
// change behavior. A static element key is also a hard error, since a
// compile-time-constant key cannot distinguish list items.
func NewElement(name ElementName, key *FormatString, attrs []Attribute, kids []Node, loc Span) (*Element, error) {
	for i := range attrs {
		if attrs[i].Value.Kind != ValueEvent {
			continue
		}
		for j := 0; j < i; j++ {
			if attrs[j].Value.Kind == ValueEvent && attrs[j].Name.Matches(attrs[i].Name) {
				return nil, attrs[i].Name.Loc.Errorf("duplicate event listener %q", attrs[i].Name.Name)
			}
		}
	}

	if key != nil && key.IsStatic() {
		return nil, key.Loc.Errorf(`element key must be a formatted string like "{value}"; a static key cannot distinguish list items`)
	}

	return &Element{
		Name:             name,
		Key:              key,
		Attributes:       attrs,
		MergedAttributes: mergeAttributes(attrs),
		Kids:             kids,
		Loc:              loc,
	}, nil
}

// mergeAttributes deduplicates repeated declarations of one attribute name.
// The merged entry keeps the first occurrence's position. When combination
// is defined for the two value kinds (string with string) the values are
// concatenated; otherwise the earlier declaration wins. Spreads never match
// anything and are always appended as their own entries.
//
// Merging an already-merged list is a no-op: every surviving name is unique.
func mergeAttributes(attrs []Attribute) []Attribute {
	merged := make([]Attribute, 0, len(attrs))

	for i := range attrs {
		attr := attrs[i]

		pos := -1
		for j := range merged {
			if merged[j].Name.Matches(attr.Name) {
				pos = j
				break
			}
		}

		if pos >= 0 {
			if combined, ok := merged[pos].tryCombine(&attr); ok {
				merged[pos] = combined
			}
			continue
		}

		merged = append(merged, attr)
	}

	return merged
}
