// Package query parses the single-line search mini-language into a
// structured set of filter, sort, and paging directives.
//
// A query is a space-separated list of parts. A part containing a colon is
// a key:value directive from a fixed key set; any other part is free text.
// Values may contain spaces when wrapped in single quotes, and a backslash
// escapes the next character literally:
//
//	night drive rating:4 include:la,lb sortBy:addedOn sortDir:desc
//	query:'night drive' take:10
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mediadex/mediadex/internal/domain"
)

// Target names a sortable property of a search document.
type Target string

// Sort targets understood by the entity search modules. Each entity type
// supports a subset; unsupported targets are ignored at sort-build time.
const (
	Relevance   Target = "relevance"
	Rating      Target = "rating"
	ReleaseDate Target = "releaseDate"
	AddedOn     Target = "addedOn"
	Views       Target = "numViews"
	Duration    Target = "duration"
	Name        Target = "name"
	NumScenes   Target = "numScenes"
	Size        Target = "size"
	Resolution  Target = "resolution"
	Age         Target = "age"
	Bookmark    Target = "bookmark"
	Shuffle     Target = "$shuffle"
)

// Direction is a sort direction.
type Direction string

// Valid sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Options is the parsed intent of a search query string.
type Options struct {
	Query       string
	Include     []string
	Exclude     []string
	Actors      []string
	Scenes      []string
	Studios     []string
	Rating      int
	Favorite    bool
	Bookmark    bool
	DurationMin int
	DurationMax int
	SortBy      Target
	SortDir     Direction
	Page        int
	Skip        int
	Take        int
}

// Parse extracts search options from a raw query string.
//
// An empty query yields the defaults: sort by addedOn descending. A
// non-empty query defaults to relevance sort, downgraded back to addedOn
// descending when no free-text term remains after parsing (relevance
// without a term is meaningless). Unknown keys are ignored; an invalid
// sortDir value is an error wrapping domain.ErrBadQuery.
func Parse(raw string) (Options, error) {
	options := Options{
		SortBy:  AddedOn,
		SortDir: Desc,
	}

	if raw == "" {
		return options, nil
	}

	options.SortBy = Relevance

	var freeText []string
	for _, part := range splitWords(raw) {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			freeText = append(freeText, part)
			continue
		}

		switch key {
		case "skip":
			options.Skip = parseInt(value)
		case "take":
			options.Take = parseInt(value)
		case "page":
			options.Page = parseInt(value)
		case "query":
			options.Query = value
		case "include":
			options.Include = splitList(value)
		case "exclude":
			options.Exclude = splitList(value)
		case "actors":
			options.Actors = splitList(value)
		case "scenes":
			options.Scenes = splitList(value)
		case "studios":
			options.Studios = splitList(value)
		case "rating":
			options.Rating = parseInt(value)
		case "duration.min":
			options.DurationMin = parseInt(value)
		case "duration.max":
			options.DurationMax = parseInt(value)
		case "favorite":
			options.Favorite = value == "true"
		case "bookmark":
			options.Bookmark = value == "true"
		case "sortBy":
			options.SortBy = Target(value)
		case "sortDir":
			switch Direction(value) {
			case Asc, Desc:
				options.SortDir = Direction(value)
			default:
				return Options{}, fmt.Errorf("%w: unsupported sort direction %q", domain.ErrBadQuery, value)
			}
		}
	}

	if options.Query == "" && len(freeText) > 0 {
		options.Query = strings.Join(freeText, " ")
	}

	if options.Query == "" && options.SortBy == Relevance {
		options.SortBy = AddedOn
		options.SortDir = Desc
	}

	return options, nil
}

// splitWords splits a query on spaces, honoring single-quoted segments and
// backslash escapes. Quotes delimit, escapes are taken literally.
func splitWords(raw string) []string {
	var words []string
	var cur strings.Builder
	quoted := false

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\\' && i+1 < len(runes):
			i++
			cur.WriteRune(runes[i])
		case c == '\'':
			quoted = !quoted
		case c == ' ' && !quoted:
			if cur.Len() > 0 {
				words = append(words, cur.String())
			}
			cur.Reset()
		default:
			cur.WriteRune(c)
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// parseInt returns 0 for anything that is not a number.
func parseInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
