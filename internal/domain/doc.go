// Package domain models the conversion of short social-media posts into
// standardized incident records.
//
// # Data Source
//
// Raw posts come from the upstream collector, which fetches a monitored
// account's recent posts (replies excluded) and writes them as a JSON array
// of {"text", "date"} objects into the raw data directory. Older batches may
// carry "created_at" instead of "date"; both are accepted and "date" wins
// when present.
//
// # Entity Labels
//
// Entity mentions are produced by an external NER capability and keep the
// model's label vocabulary:
//
//	GPE   geopolitical entity (cities, countries) — treated as a place
//	LOC   non-GPE location (mountain ranges, bodies of water) — treated as a place
//	EVENT named event (hurricanes, battles, disasters)
//
// # Location Resolution
//
// Entities are scanned in order of appearance. The first GPE/LOC entity that
// geocodes to at least one candidate supplies the location; entities with no
// candidates, and entities whose lookup errors, are skipped. Coordinates are
// emitted latitude-then-longitude, i.e. the provider's [Y, X] pair. That
// ordering is part of the output contract and must not be flipped. When no
// entity resolves, the record carries the empty location:
//
//	{"city": "", "country": "", "coordinates": []}
//
// This is a normal terminal state, not an error.
//
// # Incident Classification
//
// Two classification strategies exist and disagree on output vocabulary, so
// callers select one:
//
//   - Taxonomy: an ordered keyword→label table (~70 keywords, ~20 canonical
//     labels). Matching is case-insensitive substring; the first keyword in
//     table order found anywhere in the text wins, regardless of where it
//     appears in the text. Table order is the category priority and must be
//     preserved entry-for-entry.
//   - Entity: the first EVENT-labeled entity mention, lowercased, is returned
//     verbatim (open vocabulary); failing that, a short fixed keyword list is
//     scanned; failing that, "unknown".
//
// Both strategies fall back to the literal "unknown"; incident_type is never
// empty.
//
// # Link References
//
// Posts embed shortened link references ("https://t.co/<token>"). The first
// such substring becomes original_link and every such substring is removed
// from the text to form the description. Stripping an already-stripped
// description is a no-op.
package domain
