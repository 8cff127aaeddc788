package ast

// NewTag starts a tag with explicit closing. Builder methods mutate the tag
// and return it so calls chain:
//
//	ast.NewTag("a").Attr("href", "/").Text("home")
func NewTag(name string) *Tag {
	return &Tag{Name: name, Closing: ClosingExplicit}
}

// Attr appends name="value".
func (t *Tag) Attr(name, value string) *Tag {
	t.Attributes = append(t.Attributes, Attribute{Name: name, Value: value, HasValue: true})
	return t
}

// Flag appends a valueless attribute.
func (t *Tag) Flag(name string) *Tag {
	t.Attributes = append(t.Attributes, Attribute{Name: name})
	return t
}

// Child appends children. Nil tags are skipped.
func (t *Tag) Child(children ...Child) *Tag {
	for _, ch := range children {
		if tag, ok := ch.(*Tag); ok && tag == nil {
			continue
		}
		t.Children = append(t.Children, ch)
	}
	return t
}

// Text appends a text child.
func (t *Tag) Text(s string) *Tag {
	return t.Child(T(s))
}

// Close sets the closing kind.
func (t *Tag) Close(kind Closing) *Tag {
	t.Closing = kind
	return t
}

// Inline marks the tag as self-closing.
func (t *Tag) Inline() *Tag {
	return t.Close(ClosingInline)
}

// T makes a text child.
func T(s string) Text {
	return Text{Value: s}
}
