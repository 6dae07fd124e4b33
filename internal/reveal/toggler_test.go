package reveal

import (
	"testing"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
)

func TestTogglerRevealEnsuresRenderedFirst(t *testing.T) {
	doc := document.New("t", "*bold* tail")
	bold := &element.Element{Kind: element.KindBold, Begin: 0, End: 7, PostBlank: 1}
	concealAll(t, doc, bold)

	sched := &recordingScheduler{}
	tg := NewToggler(doc, sched, nil)

	if !tg.Reveal(bold) {
		t.Fatal("Reveal() = false, want change")
	}
	if len(sched.ensured) != 1 || sched.ensured[0] != (element.Span{Start: 0, End: 6}) {
		t.Errorf("EnsureRendered calls = %v, want [{0 6}]", sched.ensured)
	}
	if got := hiddenString(doc); got != "*bold* tail" {
		t.Errorf("after reveal = %q", got)
	}
	if tg.Reveal(bold) {
		t.Error("second Reveal() reported a change")
	}
}

func TestTogglerPartialKinds(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		elem      *element.Element
		concealed string
	}{
		{
			name:      "bold",
			text:      "*bold* and more",
			elem:      &element.Element{Kind: element.KindBold, Begin: 0, End: 7, PostBlank: 1},
			concealed: ".bold. and more",
		},
		{
			name:      "superscript",
			text:      "x^{2} y",
			elem:      &element.Element{Kind: element.KindSuperscript, Begin: 1, End: 6, PostBlank: 1, Contents: &element.Span{Start: 3, End: 4}},
			concealed: "x..2. y",
		},
		{
			name:      "bracket link",
			text:      "[[url][desc]] x",
			elem:      &element.Element{Kind: element.KindLink, Begin: 0, End: 14, PostBlank: 1, Contents: &element.Span{Start: 7, End: 11}},
			concealed: ".......desc.. x",
		},
		{
			name:      "bracket link without description",
			text:      "[[url]] x",
			elem:      &element.Element{Kind: element.KindLink, Begin: 0, End: 8, PostBlank: 1},
			concealed: "..url.. x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := document.New("t", tt.text)
			tg := NewToggler(doc, nil, nil)

			tg.Conceal(tt.elem)
			if got := hiddenString(doc); got != tt.concealed {
				t.Errorf("concealed = %q, want %q", got, tt.concealed)
			}
			before := doc.Markup()

			tg.Reveal(tt.elem)
			if got := hiddenString(doc); got != tt.text {
				t.Errorf("revealed = %q, want %q", got, tt.text)
			}

			tg.Conceal(tt.elem)
			if !before.Equal(doc.Markup()) {
				t.Errorf("round trip changed markup: %q", hiddenString(doc))
			}
		})
	}
}

func TestTogglerRevealLeavesInteriorAlone(t *testing.T) {
	doc := document.New("t", "*bold*")
	bold := &element.Element{Kind: element.KindBold, Begin: 0, End: 6}
	doc.Silent(func(m *document.Mutator) {
		m.SetProp(0, 6, document.Decorated)
		m.SetProp(0, 1, document.Hidden)
		m.SetProp(5, 6, document.Hidden)
	})

	NewToggler(doc, nil, nil).Reveal(bold)

	for pos := 0; pos < 6; pos++ {
		if doc.PropAt(pos).Has(document.Hidden) {
			t.Errorf("PropAt(%d) still hidden", pos)
		}
		if !doc.PropAt(pos).Has(document.Decorated) {
			t.Errorf("PropAt(%d) lost decoration", pos)
		}
	}
}

func TestTogglerEntity(t *testing.T) {
	doc := document.New("t", "a &alpha; b")
	entity := &element.Element{Kind: element.KindEntity, Begin: 2, End: 10, PostBlank: 1, Glyph: "α"}
	tg := NewToggler(doc, nil, nil)

	if !tg.Conceal(entity) {
		t.Fatal("Conceal() = false, want composition")
	}
	if c, ok := doc.CompositionAt(2); !ok || c.Glyph != "α" || c.End != 9 {
		t.Fatalf("CompositionAt(2) = %+v, %v", c, ok)
	}

	if !tg.Reveal(entity) {
		t.Fatal("Reveal() = false, want decomposition")
	}
	if _, ok := doc.CompositionAt(2); ok {
		t.Error("composition survived reveal")
	}

	noGlyph := &element.Element{Kind: element.KindEntity, Begin: 2, End: 9}
	if tg.Conceal(noGlyph) {
		t.Error("Conceal() of an entity without glyph reported a change")
	}
}

func TestTogglerAtomicKindsRerender(t *testing.T) {
	doc := document.New("t", "#+TITLE: x\n$y$")
	keyword := &element.Element{Kind: element.KindKeyword, Begin: 0, End: 11, PostBlank: 1, Key: "TITLE"}
	math := &element.Element{Kind: element.KindLatexFragment, Begin: 11, End: 14}
	doc.Silent(func(m *document.Mutator) {
		m.SetProp(0, 9, document.Hidden)
		m.SetProp(9, 10, document.Decorated)
		m.SetProp(11, 14, document.Display)
		m.SetProp(11, 12, document.Hidden)
	})

	sched := &recordingScheduler{}
	tg := NewToggler(doc, sched, nil)

	tg.Reveal(keyword)
	tg.Reveal(math)
	for pos := 0; pos < 14; pos++ {
		if p := doc.PropAt(pos); p != 0 {
			t.Errorf("PropAt(%d) = %v after reveal, want none", pos, p)
		}
	}

	if !tg.Conceal(keyword) || !tg.Conceal(math) {
		t.Error("Conceal() of atomic kinds = false, want rerender reported")
	}
	want := []element.Span{{Start: 0, End: 10}, {Start: 11, End: 14}}
	if len(sched.rerendered) != 2 || sched.rerendered[0] != want[0] || sched.rerendered[1] != want[1] {
		t.Errorf("RequestRerender calls = %v, want %v", sched.rerendered, want)
	}
}

func TestTogglerNoDescriptorIsNoop(t *testing.T) {
	doc := document.New("t", "x~y z")
	sub := &element.Element{Kind: element.KindSubscript, Begin: 1, End: 3}
	sched := &recordingScheduler{}
	tg := NewToggler(doc, sched, nil)

	if tg.Reveal(sub) || tg.Conceal(sub) {
		t.Error("toggle of element without descriptor reported a change")
	}
	if len(sched.ensured) != 0 {
		t.Error("EnsureRendered called for element without descriptor")
	}
}

func TestTogglerIsSilent(t *testing.T) {
	doc := document.New("t", "*bold*")
	bold := &element.Element{Kind: element.KindBold, Begin: 0, End: 6}
	edits := 0
	cancel := doc.OnEdit(func(*document.Document, document.Edit) { edits++ })
	defer cancel()

	tg := NewToggler(doc, nil, nil)
	tg.Conceal(bold)
	tg.Reveal(bold)
	tg.Conceal(bold)

	if edits != 0 {
		t.Errorf("edit listeners called %d times", edits)
	}
	if doc.History().UndoCount() != 0 {
		t.Errorf("UndoCount() = %d, want 0", doc.History().UndoCount())
	}
}
