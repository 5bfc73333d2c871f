// Package reader provides document-level access to a PDF file: header and
// version detection, cross-reference loading with automatic repair, object
// fetching (including objects stored in object streams), decryption, and
// page tree access.
//
// The whole file is read into memory once; every object is parsed on demand
// from that buffer and cached.
//
// # Opening PDF Files
//
// Use [Open] for a file on disk or [NewReader] for bytes already in memory:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
// Encrypted documents are handled transparently when the empty user password
// suffices; otherwise use [OpenWithPassword]. [ErrEncrypted] and
// [ErrInvalidPassword] distinguish the two failure modes.
//
// # Recovery
//
// When the cross-reference chain is broken (bad startxref, truncated table,
// offsets pointing at the wrong object), the reader rebuilds the table by
// scanning the file for object headers. [Reader.Repaired] reports whether
// that fallback ran.
//
// # Object Resolution
//
//   - GetObject(objNum) - load object by number
//   - ResolveReference(ref) - resolve an IndirectRef
//   - Resolve(obj) - resolve if indirect, otherwise return as-is
//   - ResolveDeep(obj) - recursively resolve; cycles become null
package reader
