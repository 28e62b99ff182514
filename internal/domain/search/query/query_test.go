package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mediadex/mediadex/internal/domain"
)

func TestParse_Empty(t *testing.T) {
	got, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.SortBy != AddedOn || got.SortDir != Desc {
		t.Errorf("empty query defaults = %q/%q, want addedOn/desc", got.SortBy, got.SortDir)
	}
}

func TestParse_Directives(t *testing.T) {
	got, err := Parse("rating:4 sortDir:asc include:a,b")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Rating != 4 {
		t.Errorf("Rating = %d, want 4", got.Rating)
	}
	if got.SortDir != Asc {
		t.Errorf("SortDir = %q, want asc", got.SortDir)
	}
	if !reflect.DeepEqual(got.Include, []string{"a", "b"}) {
		t.Errorf("Include = %v, want [a b]", got.Include)
	}
	// No free-text term: relevance must have been downgraded.
	if got.SortBy != AddedOn {
		t.Errorf("SortBy = %q, want addedOn (relevance downgrade)", got.SortBy)
	}
}

func TestParse_RelevanceKeptWithFreeText(t *testing.T) {
	got, err := Parse("night drive rating:4")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Query != "night drive" {
		t.Errorf("Query = %q, want %q", got.Query, "night drive")
	}
	if got.SortBy != Relevance {
		t.Errorf("SortBy = %q, want relevance", got.SortBy)
	}
}

func TestParse_InvalidSortDir(t *testing.T) {
	_, err := Parse("sortDir:sideways")
	if err == nil {
		t.Fatal("expected error for invalid sortDir")
	}
	if !errors.Is(err, domain.ErrBadQuery) {
		t.Errorf("error %v does not wrap ErrBadQuery", err)
	}
}

func TestParse_QuotedValue(t *testing.T) {
	got, err := Parse("query:'night drive' take:10")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Query != "night drive" {
		t.Errorf("Query = %q, want %q", got.Query, "night drive")
	}
	if got.Take != 10 {
		t.Errorf("Take = %d, want 10", got.Take)
	}
}

func TestParse_EscapedCharacter(t *testing.T) {
	got, err := Parse(`query:rock\'n\'roll`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Query != "rock'n'roll" {
		t.Errorf("Query = %q, want rock'n'roll", got.Query)
	}
}

func TestParse_UnknownKeyIgnored(t *testing.T) {
	got, err := Parse("frobnicate:yes night")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Query != "night" {
		t.Errorf("Query = %q, want night", got.Query)
	}
}

func TestParse_PagingAndDuration(t *testing.T) {
	got, err := Parse("skip:48 page:2 duration.min:60 duration.max:600 favorite:true bookmark:true")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Options{
		Skip: 48, Page: 2,
		DurationMin: 60, DurationMax: 600,
		Favorite: true, Bookmark: true,
		SortBy: AddedOn, SortDir: Desc,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse = %+v, want %+v", got, want)
	}
}

func TestParse_BadNumberIgnored(t *testing.T) {
	got, err := Parse("rating:high night")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Rating != 0 {
		t.Errorf("Rating = %d, want 0", got.Rating)
	}
}

func TestSplitWords(t *testing.T) {
	got := splitWords("a 'b c' d")
	want := []string{"a", "b c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitWords = %v, want %v", got, want)
	}
}
