// Package blogscout collects structured metadata about blogs. It drives a
// headless browser through batches of blog URLs, extracts readable article
// text from pages with unknown or JavaScript-rendered markup, and asks a
// language model to turn that text into validated metadata records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, gemini/, sqlite/).
package blogscout
