package image

import (
	"strings"

	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
	"github.com/mediadex/mediadex/internal/tokenize"
)

// Doc is the flat image search document.
type Doc struct {
	ID         string   `json:"_id"`
	AddedOn    int64    `json:"addedOn"`
	Name       string   `json:"name"`
	Labels     []string `json:"labels"`
	LabelNames []string `json:"labelNames"`
	Actors     []string `json:"actors"`
	ActorNames []string `json:"actorNames"`
	Rating     int      `json:"rating"`
	Bookmark   int64    `json:"bookmark"`
	Favorite   bool     `json:"favorite"`
	Scene      string   `json:"scene"`
	SceneName  string   `json:"sceneName"`
	Studio     string   `json:"studio"`
	StudioName string   `json:"studioName"`
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
	case "actors":
		return d.Actors, true
	case "rating":
		return d.Rating, true
	case "bookmark":
		return d.Bookmark, true
	case "favorite":
		return d.Favorite, true
	case "scene":
		return d.Scene, true
	case "sceneName":
		return d.SceneName, true
	case "studio":
		return d.Studio, true
	case "studioName":
		return d.StudioName, true
	}
	return nil, false
}

// sortTypes is the fixed table of sortable image fields.
var sortTypes = sortspec.FieldTypes{
	"addedOn":  sortspec.Number,
	"name":     sortspec.String,
	"rating":   sortspec.Number,
	"bookmark": sortspec.Number,
}

// Generated auxiliary images carry one of these name endings and are
// excluded from the index.
var blacklistedEndings = []string{
	"(alt. thumbnail)",
	"(thumbnail)",
	"(preview)",
	"(front cover)",
	"(back cover)",
	"(spine cover)",
	"(hero image)",
	"(avatar)",
}

// Blacklisted reports whether the image name marks a generated
// auxiliary image.
func Blacklisted(name string) bool {
	for _, ending := range blacklistedEndings {
		if strings.HasSuffix(name, ending) {
			return true
		}
	}
	return false
}

// docTokens tokenizes the searchable fields: name, actor names, label
// names, the scene name, and the studio name.
func docTokens(d Doc) []string {
	values := []string{d.Name, d.SceneName, d.StudioName}
	values = append(values, d.ActorNames...)
	values = append(values, d.LabelNames...)
	return tokenize.Fields(values...)
}
