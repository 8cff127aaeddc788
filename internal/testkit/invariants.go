package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"hscript/internal/ast"
	"hscript/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed program:
// 1) program span points at sf and stays within content bounds
// 2) every declaration span is non-empty, inside the program span and after the previous one
// 3) every tag contains its name, attribute and child spans; children do not overlap
func CheckSpanInvariants(prog *ast.Program, sf *source.File) error {
	if prog == nil || sf == nil {
		return fmt.Errorf("nil program or file")
	}

	// 1) program span sanity
	if prog.Span.File != sf.ID {
		return fmt.Errorf("program span points to different file id: got=%d want=%d", prog.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if prog.Span.End > lenContent || prog.Span.Start > prog.Span.End {
		return fmt.Errorf("program span %v outside content of %d bytes", prog.Span, lenContent)
	}

	// 2) declarations in order
	var prevEnd uint32
	for i, d := range prog.Decls {
		sp := d.DeclSpan()
		if err := checkInside(sp, prog.Span, sf.ID); err != nil {
			return fmt.Errorf("decl %d: %w", i, err)
		}
		if sp.Empty() {
			return fmt.Errorf("decl %d: empty span %v", i, sp)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("decl %d: span %v overlaps previous declaration ending at %d", i, sp, prevEnd)
		}
		prevEnd = sp.End

		if tag, ok := d.(*ast.Tag); ok {
			if err := checkTag(tag, sf.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// 3) tag-local invariants, recursively
func checkTag(t *ast.Tag, file source.FileID) error {
	if err := checkInside(t.NameSpan, t.Span, file); err != nil {
		return fmt.Errorf("<%s> name: %w", t.Name, err)
	}
	for _, a := range t.Attributes {
		if err := checkInside(a.Span, t.Span, file); err != nil {
			return fmt.Errorf("<%s> attribute %s: %w", t.Name, a.Name, err)
		}
	}
	prevEnd := t.NameSpan.End
	for i, ch := range t.Children {
		sp := ch.ChildSpan()
		if err := checkInside(sp, t.Span, file); err != nil {
			return fmt.Errorf("<%s> child %d: %w", t.Name, i, err)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("<%s> child %d: span %v overlaps previous ending at %d", t.Name, i, sp, prevEnd)
		}
		prevEnd = sp.End
		if sub, ok := ch.(*ast.Tag); ok {
			if err := checkTag(sub, file); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkInside(sp, outer source.Span, file source.FileID) error {
	if sp.File != file {
		return fmt.Errorf("span file mismatch: got=%d want=%d", sp.File, file)
	}
	if !outer.Contains(sp) {
		return fmt.Errorf("span %v is outside %v", sp, outer)
	}
	return nil
}
