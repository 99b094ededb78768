// The bin package implements the 4DS binary scene file format.
//
// A file is a little-endian stream: a 4-byte signature, a format version, a
// creation timestamp, a count-prefixed material table, a count-prefixed
// object table in strict pre-order, and a single trailer byte. Objects refer
// to materials, to their parents, and to instanced geometry by 1-based table
// index; an index always points backward in the stream.
//
// The stream's coordinate conventions differ from the in-memory model:
// positions swap the Y and Z axes, quaternions are stored scalar-last with
// the same swap, triangles reverse their winding, and matrices are stored
// row-major. The codec applies each remapping exactly once per direction, so
// decoding and encoding are inverses.
package bin

// fourdsSig is the signature of a 4DS file.
const fourdsSig = "4DS\x00"

// fourdsVersion is the only format version the codec handles.
const fourdsVersion = 41

// filetimeEpoch is the offset, in 100ns ticks, between the Unix epoch and
// the Windows FILETIME epoch (1601-01-01).
const filetimeEpoch = 116444736000000000

// filetimeTick is the number of FILETIME ticks per second.
const filetimeTick = 10000000

// trailerByte closes the object table.
const trailerByte = 0
