package vraster

import "testing"

func TestPathRectElements(t *testing.T) {
	p := NewPath()
	p.Rect(10, 20, 30, 40)
	els := p.Elements()
	if len(els) != 5 {
		t.Fatalf("Rect should record MoveTo+3*LineTo+Close = 5 elements, got %d", len(els))
	}
	if _, ok := els[0].(MoveToElem); !ok {
		t.Errorf("els[0] = %T, want MoveToElem", els[0])
	}
	if _, ok := els[4].(CloseElem); !ok {
		t.Errorf("els[4] = %T, want CloseElem", els[4])
	}
}

func TestPathCurrentPointFollowsCommands(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 2)
	p.LineTo(3, 4)
	if got := p.CurrentPoint(); got != Pt(3, 4) {
		t.Errorf("CurrentPoint = %v, want (3,4)", got)
	}
	p.Close()
	if got := p.CurrentPoint(); got != Pt(1, 2) {
		t.Errorf("CurrentPoint after Close = %v, want start (1,2)", got)
	}
}

func TestPathCloneIsIndependent(t *testing.T) {
	p := NewPath()
	p.MoveTo(0, 0)
	p.LineTo(5, 5)

	clone := p.Clone()
	p.LineTo(9, 9)

	if len(clone.Elements()) != 2 {
		t.Errorf("clone should not see elements appended after Clone, got %d elements", len(clone.Elements()))
	}
	if len(p.Elements()) != 3 {
		t.Errorf("original should have the post-clone append, got %d elements", len(p.Elements()))
	}
}

func TestPathTransformDoesNotAlterElements(t *testing.T) {
	p := NewPath()
	p.MoveTo(1, 1)
	before := len(p.Elements())

	p.Transform(100, 0, 2, 2, 0)

	if len(p.Elements()) != before {
		t.Errorf("Transform should never append or mutate recorded elements")
	}
	if mv := p.Elements()[0].(MoveToElem); mv.P != Pt(1, 1) {
		t.Errorf("recorded MoveTo point changed to %v, want untransformed (1,1)", mv.P)
	}
}

func TestPathCloneCopiesTransformNotLiveReference(t *testing.T) {
	p := NewPath()
	p.Transform(10, 0, 1, 1, 0)
	clone := p.Clone()

	p.Transform(0, 10, 1, 1, 0)

	if clone.TransformMatrix() == p.TransformMatrix() {
		t.Error("clone's transform should not track later changes to the original")
	}
}

func TestPathBoundsOfAxisAlignedRect(t *testing.T) {
	p := NewPath()
	p.Rect(10, 20, 30, 40)

	minP, maxP := p.Bounds()
	if minP != Pt(10, 20) || maxP != Pt(40, 60) {
		t.Errorf("Bounds = (%v, %v), want ((10,20),(40,60))", minP, maxP)
	}
}

func TestPathPolyOpenVsClosed(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}}

	open := NewPath()
	open.Poly(pts, false)
	if _, ok := open.Elements()[len(open.Elements())-1].(CloseElem); ok {
		t.Error("Poly(close=false) should not append a CloseElem")
	}

	closed := NewPath()
	closed.Poly(pts, true)
	if _, ok := closed.Elements()[len(closed.Elements())-1].(CloseElem); !ok {
		t.Error("Poly(close=true) should append a CloseElem")
	}
}
