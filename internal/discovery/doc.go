// Package discovery produces the candidate technology list for a run.
//
// Candidates come from two sources: a curated base list that always ships
// with the binary, and a trending list asked of the language model with
// search grounding. The two are merged in order with duplicates removed,
// then filtered against slugs already persisted and capped to the run
// limit. A trend lookup failure degrades to the curated list alone so a
// flaky collaborator never aborts a run.
package discovery
