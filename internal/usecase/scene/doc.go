package scene

import (
	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
	"github.com/mediadex/mediadex/internal/tokenize"
)

// Doc is the flat scene search document. It is rebuilt in full on every
// index or update call and never patched in place.
type Doc struct {
	ID          string   `json:"_id"`
	AddedOn     int64    `json:"addedOn"`
	Name        string   `json:"name"`
	ReleaseDate int64    `json:"releaseDate"`
	Labels      []string `json:"labels"`
	LabelNames  []string `json:"labelNames"`
	Actors      []string `json:"actors"`
	ActorNames  []string `json:"actorNames"`
	Rating      int      `json:"rating"`
	Bookmark    int64    `json:"bookmark"`
	Favorite    bool     `json:"favorite"`
	NumViews    int      `json:"numViews"`
	Duration    int      `json:"duration"`
	Size        int64    `json:"size"`
	Resolution  int      `json:"resolution"`
	Studio      string   `json:"studio"`
	StudioName  string   `json:"studioName"`
}

// Property exposes the document's filterable and sortable fields.
func (d Doc) Property(name string) (any, bool) {
	switch name {
	case "addedOn":
		return d.AddedOn, true
	case "name":
		return d.Name, true
	case "releaseDate":
		return d.ReleaseDate, true
	case "labels":
		return d.Labels, true
	case "actors":
		return d.Actors, true
	case "rating":
		return d.Rating, true
	case "bookmark":
		return d.Bookmark, true
	case "favorite":
		return d.Favorite, true
	case "numViews":
		return d.NumViews, true
	case "duration":
		return d.Duration, true
	case "size":
		return d.Size, true
	case "resolution":
		return d.Resolution, true
	case "studio":
		return d.Studio, true
	case "studioName":
		return d.StudioName, true
	}
	return nil, false
}

// sortTypes is the fixed table of sortable scene fields.
var sortTypes = sortspec.FieldTypes{
	"addedOn":     sortspec.Number,
	"name":        sortspec.String,
	"rating":      sortspec.Number,
	"bookmark":    sortspec.Number,
	"numViews":    sortspec.Number,
	"releaseDate": sortspec.Number,
	"duration":    sortspec.Number,
	"size":        sortspec.Number,
	"resolution":  sortspec.Number,
}

// docTokens tokenizes the searchable fields: name, actor names, label
// names, and the studio name.
func docTokens(d Doc) []string {
	values := []string{d.Name, d.StudioName}
	values = append(values, d.ActorNames...)
	values = append(values, d.LabelNames...)
	return tokenize.Fields(values...)
}
