package reader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/scribadev/scriba/core"
	"github.com/scribadev/scriba/crypt"
	"github.com/scribadev/scriba/pages"
	"github.com/scribadev/scriba/resolver"
)

var (
	// ErrNotPDF indicates the input does not carry a PDF header.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrCorruptStructure indicates the cross-reference data and the
	// recovery scan both failed to yield a usable document skeleton.
	ErrCorruptStructure = errors.New("corrupt document structure")

	// ErrEncrypted indicates the document requires a password and none
	// was supplied.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrInvalidPassword indicates the supplied password failed to
	// authenticate against the document's security handler.
	ErrInvalidPassword = errors.New("invalid password")
)

// headerWindow bounds the search for the %PDF- marker. Some producers
// prepend junk bytes before the header; anything within this window counts.
const headerWindow = 1024

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// PDFVersion represents a PDF version
type PDFVersion struct {
	Major int
	Minor int
}

// String returns the version as a string (e.g., "1.7")
func (v PDFVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Reader provides random access to the objects of a single PDF document.
// The entire file is held in memory; all parsing works off the byte slice.
type Reader struct {
	data        []byte
	xrefTable   *core.XRefTable
	trailer     core.Dict
	version     PDFVersion
	objCache    map[int]core.Object
	streamCache map[int]*core.ObjectStream
	decryptor   *crypt.Handler
	encryptNum  int // object number of the encryption dict, never decrypted
	deepRes     *resolver.ObjectResolver
	pageTree    *pages.PageTree
	repaired    bool
}

// Ensure Reader satisfies the interfaces the higher layers consume.
var (
	_ pages.ObjectResolver  = (*Reader)(nil)
	_ resolver.ObjectReader = (*Reader)(nil)
	_ core.ReferenceResolver = (*Reader)(nil)
)

// Open reads the file at the given path and prepares a Reader for it.
func Open(filename string) (*Reader, error) {
	return OpenWithPassword(filename, "")
}

// OpenWithPassword opens a (possibly encrypted) PDF file.
func OpenWithPassword(filename, password string) (*Reader, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewReaderWithPassword(data, password)
}

// NewReader creates a Reader over an in-memory PDF.
func NewReader(data []byte) (*Reader, error) {
	return NewReaderWithPassword(data, "")
}

// NewReaderWithPassword creates a Reader over an in-memory PDF, attempting
// password authentication if the document is encrypted. An empty password
// is always tried, which covers documents encrypted with only an owner
// password.
func NewReaderWithPassword(data []byte, password string) (*Reader, error) {
	r := &Reader{
		data:        data,
		objCache:    make(map[int]core.Object),
		streamCache: make(map[int]*core.ObjectStream),
		encryptNum:  -1,
	}
	r.deepRes = resolver.NewResolver(r)

	version, err := parseHeader(data)
	if err != nil {
		return nil, err
	}
	r.version = version

	if err := r.loadXRef(); err != nil {
		return nil, err
	}

	if err := r.setupEncryption(password); err != nil {
		return nil, err
	}

	return r, nil
}

// Close releases the Reader. The underlying buffer is dropped so that a
// large document can be collected even if the Reader itself is retained.
func (r *Reader) Close() error {
	r.data = nil
	r.objCache = nil
	r.streamCache = nil
	r.pageTree = nil
	return nil
}

// parseHeader locates the %PDF-x.y marker near the start of the file.
func parseHeader(data []byte) (PDFVersion, error) {
	window := data
	if len(window) > headerWindow {
		window = window[:headerWindow]
	}
	if !bytes.Contains(window, []byte("%PDF-")) {
		return PDFVersion{}, ErrNotPDF
	}

	matches := headerPattern.FindSubmatch(window)
	if matches == nil {
		// Header marker present but version digits are mangled. Assume a
		// baseline version rather than rejecting the document.
		return PDFVersion{Major: 1, Minor: 0}, nil
	}

	var major, minor int
	fmt.Sscanf(string(matches[1]), "%d", &major)
	fmt.Sscanf(string(matches[2]), "%d", &minor)
	return PDFVersion{Major: major, Minor: minor}, nil
}

// loadXRef parses the cross-reference chain, falling back to a full-file
// recovery scan when the chain is missing or unusable.
func (r *Reader) loadXRef() error {
	table, err := core.NewXRefParser(r.data).ParseAll()
	if err != nil || table.Trailer.Get("Root") == nil {
		repairedTable, repairErr := core.RepairXRef(r.data)
		if repairErr != nil {
			if err == nil {
				err = errors.New("trailer has no root")
			}
			return fmt.Errorf("%w: %v", ErrCorruptStructure, err)
		}
		// Prefer the original trailer entries where they exist; the
		// recovered table fills in what the scan could determine.
		if table != nil {
			for k, v := range table.Trailer {
				if repairedTable.Trailer.Get(k) == nil {
					repairedTable.Trailer.Set(k, v)
				}
			}
		}
		table = repairedTable
		r.repaired = true
	}

	r.xrefTable = table
	r.trailer = table.Trailer
	return nil
}

// repairAndRetry rebuilds the xref table from a raw scan and drops all
// caches. Used when an xref offset points at the wrong object.
func (r *Reader) repairAndRetry() bool {
	if r.repaired {
		return false
	}
	table, err := core.RepairXRef(r.data)
	if err != nil {
		return false
	}
	for k, v := range r.trailer {
		if table.Trailer.Get(k) == nil {
			table.Trailer.Set(k, v)
		}
	}
	r.xrefTable = table
	r.trailer = table.Trailer
	r.objCache = make(map[int]core.Object)
	r.streamCache = make(map[int]*core.ObjectStream)
	r.pageTree = nil
	r.repaired = true
	return true
}

// setupEncryption inspects the trailer for an /Encrypt dictionary and, if
// found, authenticates against the standard security handler.
func (r *Reader) setupEncryption(password string) error {
	encObj := r.trailer.Get("Encrypt")
	if encObj == nil {
		return nil
	}

	if ref, ok := encObj.(core.IndirectRef); ok {
		r.encryptNum = ref.Number
		resolved, err := r.GetObject(ref.Number)
		if err != nil {
			return fmt.Errorf("%w: unreadable encryption dictionary", ErrCorruptStructure)
		}
		encObj = resolved
	}

	encDict, ok := encObj.(core.Dict)
	if !ok {
		return fmt.Errorf("%w: encryption entry is not a dictionary", ErrCorruptStructure)
	}

	var fileID []byte
	if ids, ok := r.trailer.GetArray("ID"); ok && ids.Len() > 0 {
		if s, ok := ids.Get(0).(core.String); ok {
			fileID = []byte(s)
		}
	}

	handler, err := crypt.NewHandler(encDict, fileID)
	if err != nil {
		return err
	}
	if !handler.Authenticate(password) {
		if password == "" {
			return ErrEncrypted
		}
		return ErrInvalidPassword
	}
	r.decryptor = handler
	return nil
}

// Encrypted reports whether the document carries an encryption dictionary.
func (r *Reader) Encrypted() bool {
	return r.trailer != nil && r.trailer.Get("Encrypt") != nil
}

// Repaired reports whether the xref table was rebuilt by a recovery scan.
func (r *Reader) Repaired() bool {
	return r.repaired
}

// Version returns the PDF version from the file header.
func (r *Reader) Version() PDFVersion {
	return r.version
}

// Trailer returns the trailer dictionary
func (r *Reader) Trailer() core.Dict {
	return r.trailer
}

// GetObject loads an object by its number. Loaded objects are cached.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.objCache[objNum]; ok {
		return obj, nil
	}

	entry, ok := r.xrefTable.Get(objNum)
	if !ok {
		if r.repairAndRetry() {
			entry, ok = r.xrefTable.Get(objNum)
		}
		if !ok {
			return nil, fmt.Errorf("object %d not found in xref table", objNum)
		}
	}

	obj, err := r.loadObject(objNum, entry)
	if err != nil && r.repairAndRetry() {
		if entry, ok = r.xrefTable.Get(objNum); ok {
			obj, err = r.loadObject(objNum, entry)
		}
	}
	if err != nil {
		return nil, err
	}

	r.objCache[objNum] = obj
	return obj, nil
}

// loadObject fetches the object for an xref entry, either by parsing at
// its file offset or by extracting it from a containing object stream.
func (r *Reader) loadObject(objNum int, entry *core.XRefEntry) (core.Object, error) {
	switch entry.Kind {
	case core.EntryFree:
		return core.Null{}, nil
	case core.EntryInStream:
		return r.loadFromObjectStream(objNum, entry.StreamNum)
	}

	if entry.Offset < 0 || entry.Offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("object %d: offset %d out of range", objNum, entry.Offset)
	}

	parser := core.NewParserAt(r.data, entry.Offset)
	parser.SetReferenceResolver(r)
	indObj, err := parser.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %d: %w", objNum, err)
	}
	if indObj.Ref.Number != objNum {
		return nil, fmt.Errorf("object number mismatch: expected %d, got %d", objNum, indObj.Ref.Number)
	}

	obj := indObj.Object
	if r.decryptor != nil && objNum != r.encryptNum {
		obj = r.decryptObject(obj, objNum, indObj.Ref.Generation)
	}
	return obj, nil
}

// loadFromObjectStream extracts a compressed object from its container,
// chasing /Extends links when the object is not in the first stream.
func (r *Reader) loadFromObjectStream(objNum, streamNum int) (core.Object, error) {
	seen := make(map[int]bool)
	for {
		if seen[streamNum] {
			return nil, fmt.Errorf("object stream %d: circular /Extends chain", streamNum)
		}
		seen[streamNum] = true

		objStm, err := r.objectStream(streamNum)
		if err != nil {
			return nil, err
		}
		obj, _, err := objStm.GetObjectByNumber(objNum)
		if err == nil {
			return obj, nil
		}
		ext := objStm.Extends()
		if ext == nil {
			if err == nil {
				err = fmt.Errorf("object %d not present", objNum)
			}
			return nil, fmt.Errorf("object stream %d: %w", streamNum, err)
		}
		streamNum = ext.Number
	}
}

func (r *Reader) objectStream(streamNum int) (*core.ObjectStream, error) {
	if objStm, ok := r.streamCache[streamNum]; ok {
		return objStm, nil
	}

	container, err := r.GetObject(streamNum)
	if err != nil {
		return nil, fmt.Errorf("failed to load object stream %d: %w", streamNum, err)
	}
	stream, ok := container.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("object %d is not a stream", streamNum)
	}

	objStm, err := core.NewObjectStream(stream)
	if err != nil {
		return nil, fmt.Errorf("invalid object stream %d: %w", streamNum, err)
	}
	r.streamCache[streamNum] = objStm
	return objStm, nil
}

// decryptObject walks an object decrypting strings and stream payloads in
// place. Cross-reference streams are written unencrypted and are skipped.
func (r *Reader) decryptObject(obj core.Object, num, gen int) core.Object {
	switch v := obj.(type) {
	case core.String:
		if s, err := r.decryptor.DecryptString(string(v), num, gen); err == nil {
			return core.String(s)
		}
		return v
	case core.Array:
		for i, elem := range v {
			v[i] = r.decryptObject(elem, num, gen)
		}
		return v
	case core.Dict:
		for key, val := range v {
			v[key] = r.decryptObject(val, num, gen)
		}
		return v
	case *core.Stream:
		if t, ok := v.Dict.GetName("Type"); ok && t == "XRef" {
			return v
		}
		r.decryptObject(v.Dict, num, gen)
		if data, err := r.decryptor.DecryptStream(v.Data, num, gen); err == nil {
			v.Data = data
		}
		return v
	}
	return obj
}

// ResolveReference resolves an indirect reference
func (r *Reader) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.GetObject(ref.Number)
}

// Resolve resolves an object if it's an indirect reference, otherwise
// returns it as-is. Implements pages.ObjectResolver.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	return r.deepRes.Resolve(obj)
}

// ResolveDeep recursively resolves all indirect references in an object.
// Reference cycles and dangling references resolve to null rather than
// failing the walk. Implements pages.ObjectResolver.
func (r *Reader) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.deepRes.ResolveDeep(obj)
}

// GetCatalog returns the document catalog (root object)
func (r *Reader) GetCatalog() (core.Dict, error) {
	rootRef := r.trailer.Get("Root")
	if rootRef == nil {
		return nil, fmt.Errorf("%w: trailer missing /Root entry", ErrCorruptStructure)
	}

	obj, err := r.Resolve(rootRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog: %w", err)
	}

	catalog, ok := obj.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: catalog is not a dictionary", ErrCorruptStructure)
	}
	return catalog, nil
}

// GetInfo returns the document information dictionary, or nil when the
// document has none.
func (r *Reader) GetInfo() (core.Dict, error) {
	infoRef := r.trailer.Get("Info")
	if infoRef == nil {
		return nil, nil
	}

	obj, err := r.Resolve(infoRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve info: %w", err)
	}

	info, ok := obj.(core.Dict)
	if !ok {
		return nil, nil
	}
	return info, nil
}

// NumObjects returns the object count declared in the trailer.
func (r *Reader) NumObjects() int {
	size, ok := r.trailer.GetInt("Size")
	if !ok {
		return 0
	}
	return int(size)
}

// FileSize returns the size of the PDF file in bytes
func (r *Reader) FileSize() int64 {
	return int64(len(r.data))
}

// XRefTable returns the cross-reference table
// Exposed for debugging/inspection
func (r *Reader) XRefTable() *core.XRefTable {
	return r.xrefTable
}

// PageCount returns the number of pages in the PDF
func (r *Reader) PageCount() (int, error) {
	if err := r.ensurePageTree(); err != nil {
		return 0, err
	}
	return r.pageTree.Count()
}

// GetPage returns the page at the given index (0-based)
func (r *Reader) GetPage(index int) (*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.GetPage(index)
}

// Pages returns every leaf page in document order.
func (r *Reader) Pages() ([]*pages.Page, error) {
	if err := r.ensurePageTree(); err != nil {
		return nil, err
	}
	return r.pageTree.Pages()
}

// ensurePageTree loads the page tree if not already loaded
func (r *Reader) ensurePageTree() error {
	if r.pageTree != nil {
		return nil
	}

	catalog, err := r.GetCatalog()
	if err != nil {
		return err
	}

	pagesRef := catalog.Get("Pages")
	if pagesRef == nil {
		return fmt.Errorf("%w: catalog missing /Pages entry", ErrCorruptStructure)
	}

	pagesObj, err := r.Resolve(pagesRef)
	if err != nil {
		return fmt.Errorf("failed to resolve pages: %w", err)
	}

	pagesDict, ok := pagesObj.(core.Dict)
	if !ok {
		return fmt.Errorf("%w: page tree root is not a dictionary", ErrCorruptStructure)
	}

	r.pageTree = pages.NewPageTree(pagesDict, r)
	return nil
}
