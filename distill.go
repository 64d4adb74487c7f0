// Package distill provides a documentation site distiller. It crawls a
// documentation site breadth-first from a seed URL, extracts each page's main
// content, and uses a language model to condense it into concise markdown,
// streaming the results into a single output document as pages complete.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., crawl/, goquery/, gemini/, fs/).
package distill
