// Package engine implements the in-process inverted-index search engine.
// An Index holds flat search documents of one entity type and answers
// scored, filtered, sorted, paginated retrieval over them. Scoring is a
// plain token-overlap count; there is no stemming and no fuzzy matching.
//
// The engine is not safe for concurrent mutation. Callers sequence
// Add/Update/Remove/Search themselves; there are no locks and no
// transactions, and multi-document reindexing is not atomic.
package engine

import (
	"hash/fnv"
	"math/rand"
	"sort"
	"time"

	"github.com/mediadex/mediadex/internal/domain/search/result"
	"github.com/mediadex/mediadex/internal/tokenize"
)

// Tokenizer extracts the searchable tokens of a document, typically the
// concatenation of its declared FIELDS run through tokenize.Tokenize.
type Tokenizer[T any] func(T) []string

// Identifier returns a document's stable external identifier.
type Identifier[T any] func(T) string

// Index is an inverted index over documents of type T.
//
// Every Add assigns a fresh internal sequence id, distinct from the
// document's external id; posting lists hold internal ids and idMap
// resolves them back. Add has upsert semantics: re-adding an external id
// first strips the stale postings, so an external id never maps to more
// than one live internal id.
type Index[T any] struct {
	name string

	items  map[string]T
	order  []string
	tokens map[string][]uint64
	idMap  map[uint64]string

	counter uint64

	tokenizer  Tokenizer[T]
	identifier Identifier[T]
}

// Options configures a single search call.
type Options[T any] struct {
	// Query is free text; empty means every stored document is a
	// candidate with score 1.
	Query string

	// Skip and Take paginate the sorted results. When either is set,
	// Skip clamps to >= 0 (default 0) and Take to > 0 (default 1);
	// when both are nil the full result list is returned.
	Skip *int
	Take *int

	// Filters are ANDed predicates over the full document.
	Filters []func(T) bool

	// Sort orders results; cmp < 0 places a first. When nil, results
	// order by descending score with ties kept stable as encountered.
	Sort func(a, b T) int

	// Random returns a single uniformly chosen result instead of an
	// ordering. Seed makes the pick repeatable within a session.
	Random bool
	Seed   string
}

// New creates an empty index.
func New[T any](name string, tokenizer Tokenizer[T], identifier Identifier[T]) *Index[T] {
	ix := &Index[T]{
		name:       name,
		tokenizer:  tokenizer,
		identifier: identifier,
	}
	ix.Clear()
	return ix
}

// Name returns the index name.
func (ix *Index[T]) Name() string { return ix.name }

// Size returns the number of stored documents.
func (ix *Index[T]) Size() int { return len(ix.items) }

// NumTokens returns the number of distinct indexed tokens.
func (ix *Index[T]) NumTokens() int { return len(ix.tokens) }

// Clear drops all documents and postings.
func (ix *Index[T]) Clear() {
	ix.items = make(map[string]T)
	ix.order = nil
	ix.tokens = make(map[string][]uint64)
	ix.idMap = make(map[uint64]string)
}

// Add indexes a document under its external id. An id already present is
// upserted: its old postings are stripped before the document is
// retokenized and stored.
func (ix *Index[T]) Add(doc T) {
	id := ix.identifier(doc)
	if _, exists := ix.items[id]; exists {
		ix.stripPostings(id)
	} else {
		ix.order = append(ix.order, id)
	}
	ix.items[id] = doc
	ix.post(doc, id)
}

// Update replaces the stored document only. Postings are not touched:
// a caller that changed any searchable field must Remove and Add (or use
// Add's upsert) to retokenize.
func (ix *Index[T]) Update(id string, doc T) {
	if _, exists := ix.items[id]; !exists {
		return
	}
	ix.items[id] = doc
}

// Remove deletes a document and strips its id from every posting list,
// leaving no dangling postings. Unknown ids are a no-op.
func (ix *Index[T]) Remove(id string) {
	if _, exists := ix.items[id]; !exists {
		return
	}
	delete(ix.items, id)
	for i, ordered := range ix.order {
		if ordered == id {
			ix.order = append(ix.order[:i], ix.order[i+1:]...)
			break
		}
	}
	ix.stripPostings(id)
}

// Rebuild clears the posting lists and re-indexes every stored document,
// preserving external ids and reassigning internal ids. Used to recover
// from postings drift or a tokenizer change.
func (ix *Index[T]) Rebuild() {
	ix.tokens = make(map[string][]uint64)
	ix.idMap = make(map[uint64]string)
	for _, id := range ix.order {
		ix.post(ix.items[id], id)
	}
}

// post assigns a fresh internal id and appends it to the posting list of
// every distinct token of doc. A token repeated across the document's
// fields posts once, so one matching query token scores exactly 1.
func (ix *Index[T]) post(doc T, realID string) {
	internal := ix.counter
	ix.counter++
	ix.idMap[internal] = realID
	seen := make(map[string]struct{})
	for _, token := range ix.tokenizer(doc) {
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		ix.tokens[token] = append(ix.tokens[token], internal)
	}
}

// stripPostings removes every posting whose internal id resolves to
// realID, dropping emptied token entries and the internal id mappings.
func (ix *Index[T]) stripPostings(realID string) {
	for token, postings := range ix.tokens {
		kept := postings[:0]
		for _, internal := range postings {
			if ix.idMap[internal] == realID {
				continue
			}
			kept = append(kept, internal)
		}
		if len(kept) == 0 {
			delete(ix.tokens, token)
			continue
		}
		ix.tokens[token] = kept
	}
	for internal, id := range ix.idMap {
		if id == realID {
			delete(ix.idMap, internal)
		}
	}
}

// Search runs a scored, filtered, sorted, paginated retrieval and returns
// the requested slice plus the filtered candidate total. Empty queries,
// empty indexes, and empty filtered sets all yield empty results, never
// an error.
func (ix *Index[T]) Search(opts Options[T]) ([]result.Result, int) {
	type scored struct {
		id    string
		score int
	}

	var found []scored

	queryTokens := dedupe(tokenize.Tokenize(opts.Query))
	if len(queryTokens) > 0 {
		scores := make(map[string]int)
		var seen []string
		for _, token := range queryTokens {
			for _, internal := range ix.tokens[token] {
				id := ix.idMap[internal]
				if _, ok := scores[id]; !ok {
					seen = append(seen, id)
				}
				scores[id]++
			}
		}
		for _, id := range seen {
			found = append(found, scored{id: id, score: scores[id]})
		}
	} else {
		for _, id := range ix.order {
			found = append(found, scored{id: id, score: 1})
		}
	}

	if len(opts.Filters) > 0 {
		kept := found[:0]
		for _, f := range found {
			doc, ok := ix.items[f.id]
			if !ok {
				continue
			}
			pass := true
			for _, filter := range opts.Filters {
				if !filter(doc) {
					pass = false
					break
				}
			}
			if pass {
				kept = append(kept, f)
			}
		}
		found = kept
	}

	total := len(found)

	if opts.Random {
		if total == 0 {
			return nil, 0
		}
		pick := found[seededRand(opts.Seed).Intn(total)]
		return []result.Result{result.New(pick.id, pick.score)}, total
	}

	if opts.Sort != nil {
		sort.SliceStable(found, func(i, j int) bool {
			return opts.Sort(ix.items[found[i].id], ix.items[found[j].id]) < 0
		})
	} else {
		sort.SliceStable(found, func(i, j int) bool {
			return found[i].score > found[j].score
		})
	}

	if opts.Skip != nil || opts.Take != nil {
		skip := 0
		if opts.Skip != nil && *opts.Skip >= 0 {
			skip = *opts.Skip
		}
		take := 1
		if opts.Take != nil && *opts.Take > 0 {
			take = *opts.Take
		}
		if skip > len(found) {
			skip = len(found)
		}
		end := skip + take
		if end > len(found) {
			end = len(found)
		}
		found = found[skip:end]
	}

	results := make([]result.Result, len(found))
	for i, f := range found {
		results[i] = result.New(f.id, f.score)
	}
	return results, total
}

func dedupe(tokens []string) []string {
	if len(tokens) < 2 {
		return tokens
	}
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// seededRand derives a deterministic source from a session seed, or a
// time-based one when no seed was supplied.
func seededRand(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
