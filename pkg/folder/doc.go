// Package folder defines the batch unit consumed by the dispatcher: a named
// customer folder holding an ordered list of invoice files.
//
// Folders are produced by ingestion sources and are read-only afterwards:
//
//   - FromDir / FromFS read one level of subdirectories from a filesystem
//   - FromStorage reads "<prefix>/<client>/<file>" keys from object storage
//   - FromMultipart builds folders from an HTTP upload where each form field
//     name is the folder name
//
// Every source returns folders sorted by name with files sorted by filename,
// and skips hidden entries (names starting with a dot).
package folder
