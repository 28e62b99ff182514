package domain

import "time"

// Scene is a single catalogued video.
type Scene struct {
	ID          string
	Name        string
	Description string
	AddedOn     int64
	ReleaseDate int64
	Rating      int
	Favorite    bool
	Bookmark    int64
	Studio      string
	Duration    int
	Size        int64
	Resolution  int
}

// Actor is a person appearing in scenes.
type Actor struct {
	ID       string
	Name     string
	Aliases  []string
	AddedOn  int64
	BornOn   int64
	Rating   int
	Favorite bool
	Bookmark int64
}

// Age returns the actor's age in full years, or 0 when the birth date is unknown.
func (a Actor) Age() int {
	if a.BornOn == 0 {
		return 0
	}
	born := time.UnixMilli(a.BornOn)
	now := time.Now()
	years := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// ActorScore is the composite popularity score used for actor ranking:
// watch count weighted against the number of scenes the actor appears in.
func ActorScore(numViews, numScenes int) int {
	return numViews*2 + numScenes
}

// Movie groups scenes into a release.
type Movie struct {
	ID          string
	Name        string
	AddedOn     int64
	ReleaseDate int64
	Favorite    bool
	Bookmark    int64
	Studio      string
	Scenes      []string
}

// Studio is a production company.
type Studio struct {
	ID       string
	Name     string
	AddedOn  int64
	Favorite bool
	Bookmark int64
	Parent   string
}

// Image is a catalogued still, optionally attached to a scene.
type Image struct {
	ID       string
	Name     string
	AddedOn  int64
	Rating   int
	Favorite bool
	Bookmark int64
	Scene    string
	Studio   string
}

// Label is a tag attached to any catalogued entity.
type Label struct {
	ID      string
	Name    string
	Aliases []string
}

// LabelIDs collects label ids in order.
func LabelIDs(labels []Label) []string {
	ids := make([]string, len(labels))
	for i, l := range labels {
		ids[i] = l.ID
	}
	return ids
}

// LabelNames flattens label names and aliases into one list, the form
// search documents index for tokenized matching.
func LabelNames(labels []Label) []string {
	var names []string
	for _, l := range labels {
		names = append(names, l.Name)
		names = append(names, l.Aliases...)
	}
	return names
}

// ActorIDs collects actor ids in order.
func ActorIDs(actors []Actor) []string {
	ids := make([]string, len(actors))
	for i, a := range actors {
		ids[i] = a.ID
	}
	return ids
}

// ActorNames flattens actor names and aliases into one list.
func ActorNames(actors []Actor) []string {
	var names []string
	for _, a := range actors {
		names = append(names, a.Name)
		names = append(names, a.Aliases...)
	}
	return names
}
