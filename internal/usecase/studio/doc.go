package studio

import (
	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
	"github.com/mediadex/mediadex/internal/tokenize"
)

// Doc is the flat studio search document.
type Doc struct {
	ID         string   `json:"_id"`
	AddedOn    int64    `json:"addedOn"`
	Name       string   `json:"name"`
	Labels     []string `json:"labels"`
	LabelNames []string `json:"labelNames"`
	Bookmark   int64    `json:"bookmark"`
	Favorite   bool     `json:"favorite"`
	NumScenes  int      `json:"numScenes"`
	Parent     string   `json:"parent"`
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
	case "bookmark":
		return d.Bookmark, true
	case "favorite":
		return d.Favorite, true
	case "numScenes":
		return d.NumScenes, true
	case "parent":
		return d.Parent, true
	}
	return nil, false
}

// sortTypes is the fixed table of sortable studio fields.
var sortTypes = sortspec.FieldTypes{
	"addedOn":   sortspec.Number,
	"name":      sortspec.String,
	"bookmark":  sortspec.Number,
	"numScenes": sortspec.Number,
}

// docTokens tokenizes the searchable fields: name and label names.
func docTokens(d Doc) []string {
	values := []string{d.Name}
	values = append(values, d.LabelNames...)
	return tokenize.Fields(values...)
}
