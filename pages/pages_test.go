package pages

import (
	"fmt"
	"testing"

	"github.com/scribadev/scriba/core"
)

// mockResolver resolves references out of an in-memory object map.
type mockResolver struct {
	objects map[int]core.Object
}

func newMockResolver() *mockResolver {
	return &mockResolver{objects: make(map[int]core.Object)}
}

func (m *mockResolver) AddObject(num int, obj core.Object) {
	m.objects[num] = obj
}

func (m *mockResolver) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return m.ResolveReference(ref)
	}
	return obj, nil
}

func (m *mockResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	resolved, err := m.Resolve(obj)
	if err != nil {
		return nil, err
	}
	if arr, ok := resolved.(core.Array); ok {
		out := make(core.Array, len(arr))
		for i, elem := range arr {
			out[i], err = m.ResolveDeep(elem)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return resolved, nil
}

func (m *mockResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	obj, ok := m.objects[ref.Number]
	if !ok {
		return core.Null{}, nil
	}
	return obj, nil
}

func pageDict(extra core.Dict) core.Dict {
	d := core.Dict{"Type": core.Name("Page")}
	for k, v := range extra {
		d[k] = v
	}
	return d
}

func TestCatalogPages(t *testing.T) {
	res := newMockResolver()
	pagesDict := core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{},
	}
	res.AddObject(2, pagesDict)

	catalog := NewCatalog(core.Dict{
		"Type":  core.Name("Catalog"),
		"Pages": core.IndirectRef{Number: 2, Generation: 0},
	}, res)

	if catalog.Type() != "Catalog" {
		t.Errorf("expected type Catalog, got %q", catalog.Type())
	}

	root, err := catalog.Pages()
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if name, _ := root.GetName("Type"); name != "Pages" {
		t.Errorf("expected Pages root, got %q", name)
	}
}

func TestCatalogMissingPages(t *testing.T) {
	catalog := NewCatalog(core.Dict{"Type": core.Name("Catalog")}, newMockResolver())
	if _, err := catalog.Pages(); err == nil {
		t.Fatal("expected error for catalog without /Pages")
	}
}

func TestPageTreeFlat(t *testing.T) {
	res := newMockResolver()
	for i := 1; i <= 3; i++ {
		res.AddObject(i, pageDict(nil))
	}
	root := core.Dict{
		"Type":  core.Name("Pages"),
		"Count": core.Int(3),
		"Kids": core.Array{
			core.IndirectRef{Number: 1},
			core.IndirectRef{Number: 2},
			core.IndirectRef{Number: 3},
		},
	}

	tree := NewPageTree(root, res)
	count, err := tree.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 pages, got %d", count)
	}
}

func TestPageTreeNested(t *testing.T) {
	res := newMockResolver()
	res.AddObject(1, pageDict(nil))
	res.AddObject(2, pageDict(nil))
	res.AddObject(3, pageDict(nil))
	res.AddObject(10, core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{
			core.IndirectRef{Number: 2},
			core.IndirectRef{Number: 3},
		},
	})
	root := core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{
			core.IndirectRef{Number: 1},
			core.IndirectRef{Number: 10},
		},
	}

	tree := NewPageTree(root, res)
	pages, err := tree.Pages()
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 3 {
		t.Errorf("expected 3 pages in document order, got %d", len(pages))
	}
}

func TestPageTreeCountIgnoresDeclaredCount(t *testing.T) {
	res := newMockResolver()
	res.AddObject(1, pageDict(nil))
	root := core.Dict{
		"Type":  core.Name("Pages"),
		"Count": core.Int(99),
		"Kids":  core.Array{core.IndirectRef{Number: 1}},
	}

	tree := NewPageTree(root, res)
	count, err := tree.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected leaf count 1, got %d", count)
	}
	if tree.DeclaredCount() != 99 {
		t.Errorf("expected declared count 99, got %d", tree.DeclaredCount())
	}
}

func TestPageTreeCycleTerminates(t *testing.T) {
	res := newMockResolver()
	res.AddObject(1, pageDict(nil))
	// Node 5 lists itself as a kid
	res.AddObject(5, core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{
			core.IndirectRef{Number: 1},
			core.IndirectRef{Number: 5},
		},
	})
	root := core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{core.IndirectRef{Number: 5}},
	}

	tree := NewPageTree(root, res)
	count, err := tree.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 page, got %d", count)
	}
}

func TestPageTreeMissingTypeInference(t *testing.T) {
	res := newMockResolver()
	// Neither node declares /Type: the one with /Kids is intermediate,
	// the one without is a leaf.
	res.AddObject(1, core.Dict{"Contents": core.IndirectRef{Number: 7}})
	root := core.Dict{
		"Kids": core.Array{core.IndirectRef{Number: 1}},
	}

	tree := NewPageTree(root, res)
	count, err := tree.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 page, got %d", count)
	}
}

func TestPageTreeNullKidSkipped(t *testing.T) {
	res := newMockResolver()
	res.AddObject(1, pageDict(nil))
	root := core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{
			core.IndirectRef{Number: 99}, // dangling, resolves to null
			core.IndirectRef{Number: 1},
		},
	}

	tree := NewPageTree(root, res)
	count, err := tree.Count()
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 page, got %d", count)
	}
}

func TestPageTreeOutOfRange(t *testing.T) {
	tree := NewPageTree(core.Dict{
		"Type": core.Name("Pages"),
		"Kids": core.Array{},
	}, newMockResolver())

	if _, err := tree.GetPage(0); err == nil {
		t.Fatal("expected error for empty tree")
	}
	if _, err := tree.GetPage(-1); err == nil {
		t.Fatal("expected error for negative index")
	}
}

func TestInheritanceFromNearestAncestor(t *testing.T) {
	res := newMockResolver()
	res.AddObject(1, pageDict(nil))
	res.AddObject(10, core.Dict{
		"Type":     core.Name("Pages"),
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(300), core.Int(400)},
		"Kids":     core.Array{core.IndirectRef{Number: 1}},
	})
	root := core.Dict{
		"Type":      core.Name("Pages"),
		"MediaBox":  core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
		"Resources": core.Dict{"Font": core.Dict{}},
		"Rotate":    core.Int(90),
		"Kids":      core.Array{core.IndirectRef{Number: 10}},
	}

	tree := NewPageTree(root, res)
	page, err := tree.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	// MediaBox declared on the inner node hides the root's
	box, err := page.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox failed: %v", err)
	}
	if box[2] != 300 || box[3] != 400 {
		t.Errorf("expected 300x400 media box, got %v", box)
	}

	// Resources and Rotate fall through to the root
	resources, err := page.Resources()
	if err != nil {
		t.Fatalf("Resources failed: %v", err)
	}
	if !resources.Has("Font") {
		t.Error("expected inherited resources with Font")
	}
	if page.Rotate() != 90 {
		t.Errorf("expected rotation 90, got %d", page.Rotate())
	}
}

func TestPageOwnAttributesWin(t *testing.T) {
	res := newMockResolver()
	res.AddObject(1, pageDict(core.Dict{
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(100), core.Int(200)},
		"Rotate":   core.Int(180),
	}))
	root := core.Dict{
		"Type":     core.Name("Pages"),
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(612), core.Int(792)},
		"Rotate":   core.Int(90),
		"Kids":     core.Array{core.IndirectRef{Number: 1}},
	}

	page, err := NewPageTree(root, res).GetPage(0)
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}

	box, _ := page.MediaBox()
	if box[2] != 100 || box[3] != 200 {
		t.Errorf("expected page's own media box, got %v", box)
	}
	if page.Rotate() != 180 {
		t.Errorf("expected rotation 180, got %d", page.Rotate())
	}
}

func TestMediaBoxDefault(t *testing.T) {
	page := NewPage(pageDict(nil), nil, newMockResolver())
	box, err := page.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox failed: %v", err)
	}
	want := []float64{0, 0, 612, 792}
	for i := range want {
		if box[i] != want[i] {
			t.Fatalf("expected default letter box, got %v", box)
		}
	}
}

func TestMediaBoxNormalized(t *testing.T) {
	page := NewPage(pageDict(core.Dict{
		"MediaBox": core.Array{core.Int(612), core.Int(792), core.Int(0), core.Int(0)},
	}), nil, newMockResolver())

	box, err := page.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox failed: %v", err)
	}
	if box[0] != 0 || box[1] != 0 || box[2] != 612 || box[3] != 792 {
		t.Errorf("expected normalized box, got %v", box)
	}
}

func TestCropBoxDefaultsToMediaBox(t *testing.T) {
	page := NewPage(pageDict(core.Dict{
		"MediaBox": core.Array{core.Int(0), core.Int(0), core.Int(200), core.Int(300)},
	}), nil, newMockResolver())

	box, err := page.CropBox()
	if err != nil {
		t.Fatalf("CropBox failed: %v", err)
	}
	if box[2] != 200 || box[3] != 300 {
		t.Errorf("expected crop box to match media box, got %v", box)
	}
}

func TestRotateNormalization(t *testing.T) {
	tests := []struct {
		raw  int
		want int
	}{
		{0, 0},
		{90, 90},
		{360, 0},
		{450, 90},
		{-90, 270},
		{45, 0},
	}
	for _, tt := range tests {
		page := NewPage(pageDict(core.Dict{"Rotate": core.Int(tt.raw)}), nil, newMockResolver())
		if got := page.Rotate(); got != tt.want {
			t.Errorf("Rotate %d: expected %d, got %d", tt.raw, tt.want, got)
		}
	}
}

func TestPageDimensions(t *testing.T) {
	page := NewPage(pageDict(core.Dict{
		"MediaBox": core.Array{core.Int(10), core.Int(20), core.Int(110), core.Int(220)},
	}), nil, newMockResolver())

	w, err := page.Width()
	if err != nil {
		t.Fatalf("Width failed: %v", err)
	}
	h, err := page.Height()
	if err != nil {
		t.Fatalf("Height failed: %v", err)
	}
	if w != 100 || h != 200 {
		t.Errorf("expected 100x200, got %vx%v", w, h)
	}
}

func TestContentsSingleStream(t *testing.T) {
	res := newMockResolver()
	stream := &core.Stream{
		Dict: core.Dict{"Length": core.Int(4)},
		Data: []byte("q Q\n"),
	}
	res.AddObject(5, stream)

	page := NewPage(pageDict(core.Dict{
		"Contents": core.IndirectRef{Number: 5},
	}), nil, res)

	contents, err := page.Contents()
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content stream, got %d", len(contents))
	}
}

func TestContentsArray(t *testing.T) {
	res := newMockResolver()
	res.AddObject(5, &core.Stream{Dict: core.Dict{}, Data: []byte("BT")})
	res.AddObject(6, &core.Stream{Dict: core.Dict{}, Data: []byte("ET")})

	page := NewPage(pageDict(core.Dict{
		"Contents": core.Array{
			core.IndirectRef{Number: 5},
			core.IndirectRef{Number: 6},
		},
	}), nil, res)

	data, err := page.ContentData()
	if err != nil {
		t.Fatalf("ContentData failed: %v", err)
	}
	if string(data) != "BT\nET" {
		t.Errorf("expected streams joined by newline, got %q", data)
	}
}

func TestContentsAbsent(t *testing.T) {
	page := NewPage(pageDict(nil), nil, newMockResolver())
	contents, err := page.Contents()
	if err != nil {
		t.Fatalf("Contents failed: %v", err)
	}
	if contents != nil {
		t.Errorf("expected nil contents, got %v", contents)
	}

	data, err := page.ContentData()
	if err != nil {
		t.Fatalf("ContentData failed: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty content data, got %q", data)
	}
}

func TestResourcesAbsentReturnsEmpty(t *testing.T) {
	page := NewPage(pageDict(nil), nil, newMockResolver())
	resources, err := page.Resources()
	if err != nil {
		t.Fatalf("Resources failed: %v", err)
	}
	if len(resources) != 0 {
		t.Errorf("expected empty resources, got %v", resources)
	}
}

func TestLargeTreeDocumentOrder(t *testing.T) {
	res := newMockResolver()
	var kids core.Array
	for i := 1; i <= 20; i++ {
		res.AddObject(i, pageDict(core.Dict{
			"PieceInfo": core.String(fmt.Sprintf("page-%d", i)),
		}))
		kids = append(kids, core.IndirectRef{Number: i})
	}
	root := core.Dict{"Type": core.Name("Pages"), "Kids": kids}

	pages, err := NewPageTree(root, res).Pages()
	if err != nil {
		t.Fatalf("Pages failed: %v", err)
	}
	if len(pages) != 20 {
		t.Fatalf("expected 20 pages, got %d", len(pages))
	}
	for i, page := range pages {
		want := fmt.Sprintf("page-%d", i+1)
		got, _ := page.Dict().GetString("PieceInfo")
		if string(got) != want {
			t.Errorf("page %d: expected %s, got %s", i, want, got)
		}
	}
}
