package result

// Result is a single search hit: the external document identifier plus
// its token-overlap score.
type Result struct {
	id    string
	score int
}

// New creates a search result.
func New(id string, score int) Result {
	return Result{id: id, score: score}
}

// ID returns the document's external identifier.
func (r Result) ID() string { return r.id }

// Score returns the relevance score (distinct matching query tokens).
func (r Result) Score() int { return r.score }

// Page is one paginated slice of a search along with totals describing
// the full filtered candidate set.
type Page struct {
	Items    []Result
	MaxItems int
	NumPages int
}

// NewPage assembles a page. take bounds the page size used to derive
// NumPages; non-positive take counts the whole set as one page.
func NewPage(items []Result, total, take int) Page {
	pages := 1
	if take > 0 {
		pages = (total + take - 1) / take
		if pages < 1 {
			pages = 1
		}
	}
	return Page{Items: items, MaxItems: total, NumPages: pages}
}

// IDs returns just the identifiers of the page items.
func (p Page) IDs() []string {
	ids := make([]string, len(p.Items))
	for i, r := range p.Items {
		ids[i] = r.ID()
	}
	return ids
}
