// Package license defines the catalogue's data types.
//
// A License is the durable source of truth for one purchased piece of
// software. Every other internal package imports license; license imports
// nothing internal.
//
// Key constraints:
//   - ID is assigned once at creation and never changes across updates
//   - DownloadURL is kept in string form; an empty string means "no URL"
//   - Notes are markdown and stored verbatim
//   - All JSON tags use snake_case
package license
