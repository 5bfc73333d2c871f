package pages

import (
	"fmt"

	"github.com/scribadev/scriba/core"
)

// ObjectResolver resolves indirect references to their objects.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
	ResolveDeep(obj core.Object) (core.Object, error)
	ResolveReference(ref core.IndirectRef) (core.Object, error)
}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{
		dict:     dict,
		resolver: resolver,
	}
}

// Type returns the catalog type (should be "Catalog")
func (c *Catalog) Type() string {
	if name, ok := c.dict.GetName("Type"); ok {
		return string(name)
	}
	return ""
}

// Pages returns the page tree root dictionary.
func (c *Catalog) Pages() (core.Dict, error) {
	pagesRef := c.dict.Get("Pages")
	if pagesRef == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}

	pagesObj, err := c.resolver.Resolve(pagesRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", pagesObj)
	}

	return pagesDict, nil
}

// Metadata returns the XMP metadata stream if present.
func (c *Catalog) Metadata() (*core.Stream, error) {
	metadataRef := c.dict.Get("Metadata")
	if metadataRef == nil {
		return nil, nil
	}

	metadataObj, err := c.resolver.Resolve(metadataRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Metadata: %w", err)
	}

	stream, ok := metadataObj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("invalid /Metadata type: %T", metadataObj)
	}

	return stream, nil
}

// Version returns the catalog /Version entry if present.
func (c *Catalog) Version() string {
	if name, ok := c.dict.GetName("Version"); ok {
		return string(name)
	}
	return ""
}

// inherited carries the attribute values accumulated from ancestor Pages
// nodes during traversal. A page picks up whichever value the nearest
// ancestor set.
type inherited struct {
	resources core.Object
	mediaBox  core.Object
	cropBox   core.Object
	rotate    core.Object
}

// capture returns a copy of inh updated with any inheritable attributes the
// given Pages node declares.
func (inh inherited) capture(node core.Dict) inherited {
	if v := node.Get("Resources"); v != nil {
		inh.resources = v
	}
	if v := node.Get("MediaBox"); v != nil {
		inh.mediaBox = v
	}
	if v := node.Get("CropBox"); v != nil {
		inh.cropBox = v
	}
	if v := node.Get("Rotate"); v != nil {
		inh.rotate = v
	}
	return inh
}

// PageTree is the document page tree flattened into reading order. The page
// count comes from counting the leaves of the tree, not from the /Count
// entries, which real-world files get wrong.
type PageTree struct {
	root     core.Dict
	resolver ObjectResolver
	pages    []*Page
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root core.Dict, resolver ObjectResolver) *PageTree {
	return &PageTree{
		root:     root,
		resolver: resolver,
	}
}

// Count returns the number of page leaves in the tree.
func (t *PageTree) Count() (int, error) {
	if err := t.ensureLoaded(); err != nil {
		return 0, err
	}
	return len(t.pages), nil
}

// DeclaredCount returns the /Count entry of the root node, or -1 when absent.
// It may disagree with Count in damaged files.
func (t *PageTree) DeclaredCount() int {
	if n, ok := t.root.GetInt("Count"); ok {
		return int(n)
	}
	return -1
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	if err := t.ensureLoaded(); err != nil {
		return nil, err
	}

	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(t.pages))
	}

	return t.pages[index], nil
}

// Pages returns all pages in document order.
func (t *PageTree) Pages() ([]*Page, error) {
	if err := t.ensureLoaded(); err != nil {
		return nil, err
	}
	return t.pages, nil
}

func (t *PageTree) ensureLoaded() error {
	if t.pages != nil {
		return nil
	}

	t.pages = make([]*Page, 0)
	seen := make(map[core.IndirectRef]bool)

	if err := t.walk(t.root, inherited{}, seen, 0); err != nil {
		t.pages = nil
		return fmt.Errorf("failed to traverse page tree: %w", err)
	}

	return nil
}

// maxTreeDepth bounds recursion for trees whose nodes are all direct
// dictionaries and so cannot be cycle-checked by reference.
const maxTreeDepth = 64

// walk traverses node, collecting leaves. inh holds the inheritable
// attributes captured from ancestors. Kids that revisit an already-seen
// reference are skipped rather than looped over.
func (t *PageTree) walk(node core.Dict, inh inherited, seen map[core.IndirectRef]bool, depth int) error {
	if depth > maxTreeDepth {
		return fmt.Errorf("page tree deeper than %d levels", maxTreeDepth)
	}

	if t.isLeaf(node) {
		t.pages = append(t.pages, newPage(node, inh, t.resolver))
		return nil
	}

	inh = inh.capture(node)

	kidsObj := node.Get("Kids")
	if kidsObj == nil {
		return fmt.Errorf("intermediate node missing /Kids entry")
	}

	kidsResolved, err := t.resolver.Resolve(kidsObj)
	if err != nil {
		return fmt.Errorf("failed to resolve /Kids: %w", err)
	}

	kids, ok := kidsResolved.(core.Array)
	if !ok {
		return fmt.Errorf("invalid /Kids type: %T", kidsResolved)
	}

	for i, kidObj := range kids {
		if ref, ok := kidObj.(core.IndirectRef); ok {
			if seen[ref] {
				continue
			}
			seen[ref] = true
		}

		kidResolved, err := t.resolver.Resolve(kidObj)
		if err != nil {
			return fmt.Errorf("failed to resolve kid %d: %w", i, err)
		}

		kidDict, ok := kidResolved.(core.Dict)
		if !ok {
			// Null kids appear in files with deleted pages
			if core.IsNull(kidResolved) {
				continue
			}
			return fmt.Errorf("invalid kid type: %T", kidResolved)
		}

		if err := t.walk(kidDict, inh, seen, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// isLeaf decides whether node is a page leaf. A declared /Type wins; when it
// is missing or mangled the presence of /Kids marks an intermediate node.
func (t *PageTree) isLeaf(node core.Dict) bool {
	if name, ok := node.GetName("Type"); ok {
		switch string(name) {
		case "Page":
			return true
		case "Pages":
			return false
		}
	}
	return !node.Has("Kids")
}

// Page represents a single PDF page
type Page struct {
	dict     core.Dict
	inh      inherited
	resolver ObjectResolver
}

func newPage(dict core.Dict, inh inherited, resolver ObjectResolver) *Page {
	return &Page{
		dict:     dict,
		inh:      inh,
		resolver: resolver,
	}
}

// NewPage creates a page from a dictionary, inheriting attributes from the
// given parent Pages dictionary when the page does not declare them itself.
func NewPage(dict core.Dict, parent core.Dict, resolver ObjectResolver) *Page {
	var inh inherited
	if parent != nil {
		inh = inh.capture(parent)
	}
	return newPage(dict, inh, resolver)
}

// Dict returns the raw page dictionary.
func (p *Page) Dict() core.Dict {
	return p.dict
}

// Type returns the page type (should be "Page")
func (p *Page) Type() string {
	if name, ok := p.dict.GetName("Type"); ok {
		return string(name)
	}
	return ""
}

// MediaBox returns the page media box [x1 y1 x2 y2]. Inheritable; defaults
// to US Letter when neither the page nor any ancestor declares one.
func (p *Page) MediaBox() ([]float64, error) {
	box, err := p.getBox("MediaBox", p.inh.mediaBox)
	if err != nil {
		return []float64{0, 0, 612, 792}, nil
	}
	return box, nil
}

// CropBox returns the page crop box [x1 y1 x2 y2]. Inheritable; defaults to
// the MediaBox.
func (p *Page) CropBox() ([]float64, error) {
	box, err := p.getBox("CropBox", p.inh.cropBox)
	if err != nil {
		return p.MediaBox()
	}
	return box, nil
}

// getBox retrieves a box attribute from the page or the inherited value.
func (p *Page) getBox(name string, fallback core.Object) ([]float64, error) {
	boxObj := p.dict.Get(name)
	if boxObj == nil {
		boxObj = fallback
	}
	if boxObj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}

	boxResolved, err := p.resolver.ResolveDeep(boxObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	boxArr, ok := boxResolved.(core.Array)
	if !ok {
		return nil, fmt.Errorf("invalid %s type: %T", name, boxResolved)
	}

	if len(boxArr) != 4 {
		return nil, fmt.Errorf("invalid %s length: %d (expected 4)", name, len(boxArr))
	}

	box := make([]float64, 4)
	for i := range boxArr {
		v, ok := boxArr.GetFloat(i)
		if !ok {
			return nil, fmt.Errorf("invalid %s element type: %T", name, boxArr[i])
		}
		box[i] = v
	}

	// Normalize so x1 <= x2 and y1 <= y2
	if box[0] > box[2] {
		box[0], box[2] = box[2], box[0]
	}
	if box[1] > box[3] {
		box[1], box[3] = box[3], box[1]
	}

	return box, nil
}

// Resources returns the page resources dictionary. Inheritable; an empty
// dictionary is returned when nothing declares one.
func (p *Page) Resources() (core.Dict, error) {
	resourcesObj := p.dict.Get("Resources")
	if resourcesObj == nil {
		resourcesObj = p.inh.resources
	}
	if resourcesObj == nil {
		return core.Dict{}, nil
	}

	resourcesResolved, err := p.resolver.Resolve(resourcesObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}

	resourcesDict, ok := resourcesResolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid Resources type: %T", resourcesResolved)
	}

	return resourcesDict, nil
}

// Contents returns the page content stream(s). A page with no /Contents
// returns nil with no error.
func (p *Page) Contents() ([]core.Object, error) {
	contentsObj := p.dict.Get("Contents")
	if contentsObj == nil {
		return nil, nil
	}

	contentsResolved, err := p.resolver.Resolve(contentsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	switch v := contentsResolved.(type) {
	case *core.Stream:
		return []core.Object{v}, nil
	case core.Array:
		streams := make([]core.Object, 0, len(v))
		for i, elem := range v {
			resolved, err := p.resolver.Resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			streams = append(streams, resolved)
		}
		return streams, nil
	default:
		if core.IsNull(contentsResolved) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid Contents type: %T", contentsResolved)
	}
}

// ContentData returns the decoded bytes of all content streams joined with a
// newline, the way a renderer concatenates them before tokenizing.
func (p *Page) ContentData() ([]byte, error) {
	contents, err := p.Contents()
	if err != nil {
		return nil, err
	}

	var data []byte
	for _, obj := range contents {
		stream, ok := obj.(*core.Stream)
		if !ok {
			continue
		}
		decoded, err := stream.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to decode content stream: %w", err)
		}
		if len(data) > 0 {
			data = append(data, '\n')
		}
		data = append(data, decoded...)
	}

	return data, nil
}

// Rotate returns the page rotation normalized to 0, 90, 180, or 270.
// Inheritable.
func (p *Page) Rotate() int {
	rotateObj := p.dict.Get("Rotate")
	if rotateObj == nil {
		rotateObj = p.inh.rotate
	}
	if rotateObj == nil {
		return 0
	}

	resolved, err := p.resolver.Resolve(rotateObj)
	if err != nil {
		return 0
	}

	rotate, ok := resolved.(core.Int)
	if !ok {
		return 0
	}

	deg := int(rotate) % 360
	if deg < 0 {
		deg += 360
	}
	// Round to the nearest multiple of 90
	return (deg / 90) * 90
}

// Width returns the page width (from MediaBox)
func (p *Page) Width() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[2] - box[0], nil
}

// Height returns the page height (from MediaBox)
func (p *Page) Height() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[3] - box[1], nil
}
