// Package remote speaks the HTTP indexing/search protocol of an external
// search engine implementing the same filter-tree and sort contract as
// the in-process engine. The transport layer serves the identical shape,
// so either side of the wire can back an entity search module.
package remote

import (
	"github.com/mediadex/mediadex/internal/domain/search/filter"
	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
)

// SearchRequest is the wire form of one search call.
type SearchRequest struct {
	Query  string         `json:"query"`
	Skip   int            `json:"skip"`
	Take   int            `json:"take"`
	Sort   *sortspec.Spec `json:"sort,omitempty"`
	Filter *filter.Node   `json:"filter,omitempty"`
}

// SearchResponse is the wire form of one result page.
type SearchResponse struct {
	Items    []string `json:"items"`
	MaxItems int      `json:"max_items"`
	NumPages int      `json:"num_pages"`
}
