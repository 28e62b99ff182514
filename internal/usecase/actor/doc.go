package actor

import (
	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
	"github.com/mediadex/mediadex/internal/tokenize"
)

// Doc is the flat actor search document.
type Doc struct {
	ID         string   `json:"_id"`
	AddedOn    int64    `json:"addedOn"`
	Name       string   `json:"name"`
	Aliases    []string `json:"aliases"`
	Labels     []string `json:"labels"`
	LabelNames []string `json:"labelNames"`
	Rating     int      `json:"rating"`
	Bookmark   int64    `json:"bookmark"`
	Favorite   bool     `json:"favorite"`
	NumScenes  int      `json:"numScenes"`
	NumViews   int      `json:"numViews"`
	BornOn     int64    `json:"bornOn"`
	Age        int      `json:"age"`
	Score      int      `json:"score"`
}

// Property exposes the document's filterable and sortable fields.
func (d Doc) Property(name string) (any, bool) {
	switch name {
	case "addedOn":
		return d.AddedOn, true
	case "name":
		return d.Name, true
	case "labels":
		return d.Labels, true
	case "rating":
		return d.Rating, true
	case "bookmark":
		return d.Bookmark, true
	case "favorite":
		return d.Favorite, true
	case "numScenes":
		return d.NumScenes, true
	case "numViews":
		return d.NumViews, true
	case "bornOn":
		return d.BornOn, true
	case "age":
		return d.Age, true
	case "score":
		return d.Score, true
	}
	return nil, false
}

// sortTypes is the fixed table of sortable actor fields.
var sortTypes = sortspec.FieldTypes{
	"addedOn":   sortspec.Number,
	"name":      sortspec.String,
	"rating":    sortspec.Number,
	"bookmark":  sortspec.Number,
	"numScenes": sortspec.Number,
	"numViews":  sortspec.Number,
	"bornOn":    sortspec.Number,
	"age":       sortspec.Number,
	"score":     sortspec.Number,
}

// docTokens tokenizes the searchable fields: name, aliases, and label
// names.
func docTokens(d Doc) []string {
	values := []string{d.Name}
	values = append(values, d.Aliases...)
	values = append(values, d.LabelNames...)
	return tokenize.Fields(values...)
}
