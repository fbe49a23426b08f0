// Package pagelens lets a user viewing any web document ask natural
// language questions answered from a bounded structural snapshot of that
// document. A page-scoped extractor produces snapshots, a coordinator owns
// per-tab session state, and a panel controller submits questions and
// renders answers from a remote model with a deterministic rule-based
// fallback.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, gemini/, rod/).
package pagelens
