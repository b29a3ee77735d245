// Package blogmirror archives a cnblogs.com blog's tag-organized articles
// as local markdown files. It discovers the blog's tags, walks each tag's
// paginated article listing, extracts article content, converts it to
// markdown, and saves it under a per-tag directory with resumable,
// idempotent semantics.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, htmltomarkdown/, fs/).
package blogmirror
