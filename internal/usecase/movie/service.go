// Package movie builds and searches the movie index.
package movie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mediadex/mediadex/internal/domain"
	"github.com/mediadex/mediadex/internal/domain/search/filter"
	"github.com/mediadex/mediadex/internal/domain/search/query"
	"github.com/mediadex/mediadex/internal/domain/search/result"
	"github.com/mediadex/mediadex/internal/domain/search/sortspec"
	"github.com/mediadex/mediadex/internal/engine"
	"github.com/mediadex/mediadex/internal/metrics"
	"github.com/mediadex/mediadex/internal/remote"
)

const indexName = "movies"

// Service projects movies into search documents and answers queries.
type Service struct {
	store     Store
	index     *engine.Index[Doc]
	remote    *remote.Index
	logger    *zap.Logger
	pageSize  int
	sliceSize int
}

// New creates a movie search service backed by the in-process engine.
func New(store Store, logger *zap.Logger) *Service {
	return &Service{
		store:     store,
		index:     engine.New(indexName, docTokens, func(d Doc) string { return d.ID }),
		logger:    logger,
		pageSize:  24,
		sliceSize: 5000,
	}
}

// WithPageSize overrides the default result page size.
func (s *Service) WithPageSize(n int) *Service {
	if n > 0 {
		s.pageSize = n
	}
	return s
}

// WithSliceSize overrides the indexing batch size.
func (s *Service) WithSliceSize(n int) *Service {
	if n > 0 {
		s.sliceSize = n
	}
	return s
}

// WithRemote delegates indexing and search to a remote engine index.
func (s *Service) WithRemote(ix *remote.Index) *Service {
	s.remote = ix
	return s
}

// IndexName returns the name of the backing index.
func (s *Service) IndexName() string { return indexName }

// Size returns the number of documents in the in-process index.
func (s *Service) Size() int { return s.index.Size() }

// BuildDoc projects one movie into its search document. Labels and
// actors union over member scenes, duration and size sum, and rating
// averages over the rated scenes. Dangling scene and studio references
// are skipped.
func (s *Service) BuildDoc(ctx context.Context, mv domain.Movie) (Doc, error) {
	doc := Doc{
		ID:          mv.ID,
		AddedOn:     mv.AddedOn,
		Name:        mv.Name,
		ReleaseDate: mv.ReleaseDate,
		Bookmark:    mv.Bookmark,
		Favorite:    mv.Favorite,
	}

	seenLabel := make(map[string]bool)
	seenActor := make(map[string]bool)
	ratingSum, rated := 0, 0

	for _, sceneID := range mv.Scenes {
		sc, err := s.store.Scene(ctx, sceneID)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("movie references missing scene",
				zap.String("movie", mv.ID), zap.String("scene", sceneID))
			continue
		}
		if err != nil {
			return Doc{}, fmt.Errorf("scene %s for movie %s: %w", sceneID, mv.ID, err)
		}

		doc.Scenes = append(doc.Scenes, sc.ID)
		doc.Duration += sc.Duration
		doc.Size += sc.Size
		if sc.Rating > 0 {
			ratingSum += sc.Rating
			rated++
		}

		labels, err := s.store.LabelsFor(ctx, sc.ID)
		if err != nil {
			return Doc{}, fmt.Errorf("labels for scene %s: %w", sc.ID, err)
		}
		for _, l := range labels {
			if seenLabel[l.ID] {
				continue
			}
			seenLabel[l.ID] = true
			doc.Labels = append(doc.Labels, l.ID)
			doc.LabelNames = append(doc.LabelNames, l.Name)
			doc.LabelNames = append(doc.LabelNames, l.Aliases...)
		}

		actors, err := s.store.ActorsFor(ctx, sc.ID)
		if err != nil {
			return Doc{}, fmt.Errorf("actors for scene %s: %w", sc.ID, err)
		}
		for _, a := range actors {
			if seenActor[a.ID] {
				continue
			}
			seenActor[a.ID] = true
			doc.Actors = append(doc.Actors, a.ID)
			doc.ActorNames = append(doc.ActorNames, a.Name)
			doc.ActorNames = append(doc.ActorNames, a.Aliases...)
		}
	}

	if rated > 0 {
		doc.Rating = ratingSum / rated
	}

	if mv.Studio != "" {
		studio, err := s.store.Studio(ctx, mv.Studio)
		switch {
		case err == nil:
			doc.Studio = studio.ID
			doc.StudioName = studio.Name
		case errors.Is(err, domain.ErrNotFound):
			s.logger.Warn("movie references missing studio",
				zap.String("movie", mv.ID), zap.String("studio", mv.Studio))
		default:
			return Doc{}, fmt.Errorf("studio for movie %s: %w", mv.ID, err)
		}
	}

	return doc, nil
}

// Index projects and indexes the given movies in fixed-size batches.
func (s *Service) Index(ctx context.Context, movies []domain.Movie) (int, error) {
	var batch []Doc
	var batches [][]Doc
	for _, mv := range movies {
		doc, err := s.BuildDoc(ctx, mv)
		if err != nil {
			return 0, err
		}
		batch = append(batch, doc)
		if len(batch) == s.sliceSize {
			batches = append(batches, batch)
			batch = nil
		}
	}
	if len(batch) > 0 {
		batches = append(batches, batch)
	}

	total := 0
	if s.remote != nil {
		payload := make([]any, len(batches))
		for i, b := range batches {
			payload[i] = b
			total += len(b)
		}
		if err := s.remote.AddBatches(ctx, payload); err != nil {
			return 0, err
		}
	} else {
		for _, b := range batches {
			start := time.Now()
			for _, d := range b {
				s.index.Add(d)
			}
			total += len(b)
			s.logger.Debug("indexed movie batch",
				zap.Int("count", len(b)),
				zap.Duration("took", time.Since(start)))
		}
		metrics.IndexSize.WithLabelValues(indexName).Set(float64(s.index.Size()))
	}

	metrics.DocumentsIndexed.WithLabelValues(indexName).Add(float64(total))
	return total, nil
}

// BuildIndex resets the index and reindexes every movie in the store.
func (s *Service) BuildIndex(ctx context.Context) (int, error) {
	start := time.Now()
	movies, err := s.store.Movies(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading movies: %w", err)
	}
	if err := s.Reset(ctx); err != nil {
		return 0, err
	}
	n, err := s.Index(ctx, movies)
	if err != nil {
		return n, err
	}
	s.logger.Info("movie index built",
		zap.Int("count", n),
		zap.Duration("took", time.Since(start)))
	return n, nil
}

// Update reprojects the given movies and upserts their documents.
func (s *Service) Update(ctx context.Context, movies []domain.Movie) error {
	_, err := s.Index(ctx, movies)
	return err
}

// Remove drops the given movie ids from the in-process index.
func (s *Service) Remove(ids []string) {
	for _, id := range ids {
		s.index.Remove(id)
	}
	metrics.IndexSize.WithLabelValues(indexName).Set(float64(s.index.Size()))
}

// Reset drops every document from the index.
func (s *Service) Reset(ctx context.Context) error {
	if s.remote != nil {
		return s.remote.Reset(ctx)
	}
	s.index.Clear()
	metrics.IndexSize.WithLabelValues(indexName).Set(0)
	return nil
}

// Put upserts prebuilt documents into the in-process index.
func (s *Service) Put(docs []Doc) {
	for _, d := range docs {
		s.index.Add(d)
	}
	metrics.IndexSize.WithLabelValues(indexName).Set(float64(s.index.Size()))
	metrics.DocumentsIndexed.WithLabelValues(indexName).Add(float64(len(docs)))
}

// BuildFilterTree translates parsed query options into the movie filter
// tree.
func BuildFilterTree(opts query.Options) filter.Node {
	root := filter.And()
	if opts.Favorite {
		root.Append(filter.Leaf(filter.BoolEquals("favorite", true)))
	}
	if opts.Bookmark {
		root.Append(filter.Leaf(filter.NumberGreater("bookmark", 0)))
	}
	if opts.Rating > 0 {
		root.Append(filter.Leaf(filter.NumberGreater("rating", float64(opts.Rating-1))))
	}
	if opts.DurationMin > 0 {
		root.Append(filter.Leaf(filter.NumberGreater("duration", float64(opts.DurationMin-1))))
	}
	if opts.DurationMax > 0 {
		root.Append(filter.Leaf(filter.NumberLess("duration", float64(opts.DurationMax+1))))
	}
	for _, label := range opts.Include {
		root.Append(filter.Leaf(filter.ArrayContains("labels", label)))
	}
	for _, label := range opts.Exclude {
		root.Append(filter.Not(filter.Leaf(filter.ArrayContains("labels", label))))
	}
	for _, actor := range opts.Actors {
		root.Append(filter.Leaf(filter.ArrayContains("actors", actor)))
	}
	if len(opts.Studios) > 0 {
		or := filter.Or()
		for _, studio := range opts.Studios {
			or.Append(filter.Leaf(filter.StringEquals("studio", studio)))
		}
		root.Append(or)
	}
	return root
}

// Search parses the raw query string and answers it.
func (s *Service) Search(ctx context.Context, rawQuery, shuffleSeed string) (result.Page, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.WithLabelValues(indexName).Observe(time.Since(start).Seconds())
	}()

	opts, err := query.Parse(rawQuery)
	if err != nil {
		return result.Page{}, err
	}
	s.logger.Debug("searching movies",
		zap.String("query", opts.Query),
		zap.String("sortBy", string(opts.SortBy)))

	tree := BuildFilterTree(opts)
	spec := sortspec.Build(string(opts.SortBy), opts.SortDir == query.Asc, sortTypes, shuffleSeed)

	skip := opts.Skip
	if skip == 0 {
		skip = opts.Page * s.pageSize
	}
	take := opts.Take
	if take <= 0 {
		take = s.pageSize
	}

	if s.remote != nil {
		resp, err := s.remote.Search(ctx, remote.SearchRequest{
			Query:  opts.Query,
			Skip:   skip,
			Take:   take,
			Sort:   spec,
			Filter: &tree,
		})
		if err != nil {
			return result.Page{}, err
		}
		items := make([]result.Result, len(resp.Items))
		for i, id := range resp.Items {
			items[i] = result.New(id, 0)
		}
		return result.Page{Items: items, MaxItems: resp.MaxItems, NumPages: resp.NumPages}, nil
	}

	engOpts := engine.Options[Doc]{
		Query:   opts.Query,
		Skip:    &skip,
		Take:    &take,
		Filters: []func(Doc) bool{func(d Doc) bool { return tree.Matches(d) }},
	}
	applySort(&engOpts, spec)

	items, total := s.index.Search(engOpts)
	return result.NewPage(items, total, take), nil
}

// SearchWire answers a wire-form search request against the in-process
// index.
func (s *Service) SearchWire(req remote.SearchRequest) remote.SearchResponse {
	skip, take := req.Skip, req.Take
	if take <= 0 {
		take = s.pageSize
	}
	engOpts := engine.Options[Doc]{
		Query: req.Query,
		Skip:  &skip,
		Take:  &take,
	}
	if req.Filter != nil {
		tree := *req.Filter
		engOpts.Filters = []func(Doc) bool{func(d Doc) bool { return tree.Matches(d) }}
	}
	applySort(&engOpts, req.Sort)

	items, total := s.index.Search(engOpts)
	page := result.NewPage(items, total, take)
	return remote.SearchResponse{
		Items:    page.IDs(),
		MaxItems: page.MaxItems,
		NumPages: page.NumPages,
	}
}

func applySort(engOpts *engine.Options[Doc], spec *sortspec.Spec) {
	if spec == nil {
		return
	}
	if spec.IsShuffle() {
		engOpts.Random = true
		engOpts.Seed = spec.Seed()
		return
	}
	engOpts.Sort = engine.Comparator[Doc](*spec)
}
