// Package actor builds and searches the actor index.
package actor

import (
	"context"
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

const indexName = "actors"

// Service projects actors into search documents and answers queries.
type Service struct {
	store     Store
	index     *engine.Index[Doc]
	remote    *remote.Index
	logger    *zap.Logger
	pageSize  int
	sliceSize int
}

// New creates an actor search service backed by the in-process engine.
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

// BuildDoc projects one actor into its search document. Scene and view
// counts feed the composite popularity score.
func (s *Service) BuildDoc(ctx context.Context, ac domain.Actor) (Doc, error) {
	labels, err := s.store.LabelsFor(ctx, ac.ID)
	if err != nil {
		return Doc{}, fmt.Errorf("labels for actor %s: %w", ac.ID, err)
	}
	numScenes, err := s.store.SceneCountFor(ctx, ac.ID)
	if err != nil {
		return Doc{}, fmt.Errorf("scene count for actor %s: %w", ac.ID, err)
	}
	numViews, err := s.store.ViewCountFor(ctx, ac.ID)
	if err != nil {
		return Doc{}, fmt.Errorf("view count for actor %s: %w", ac.ID, err)
	}

	return Doc{
		ID:         ac.ID,
		AddedOn:    ac.AddedOn,
		Name:       ac.Name,
		Aliases:    ac.Aliases,
		Labels:     domain.LabelIDs(labels),
		LabelNames: domain.LabelNames(labels),
		Rating:     ac.Rating,
		Bookmark:   ac.Bookmark,
		Favorite:   ac.Favorite,
		NumScenes:  numScenes,
		NumViews:   numViews,
		BornOn:     ac.BornOn,
		Age:        ac.Age(),
		Score:      domain.ActorScore(numViews, numScenes),
	}, nil
}

// Index projects and indexes the given actors in fixed-size batches.
func (s *Service) Index(ctx context.Context, actors []domain.Actor) (int, error) {
	var batch []Doc
	var batches [][]Doc
	for _, ac := range actors {
		doc, err := s.BuildDoc(ctx, ac)
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
			s.logger.Debug("indexed actor batch",
				zap.Int("count", len(b)),
				zap.Duration("took", time.Since(start)))
		}
		metrics.IndexSize.WithLabelValues(indexName).Set(float64(s.index.Size()))
	}

	metrics.DocumentsIndexed.WithLabelValues(indexName).Add(float64(total))
	return total, nil
}

// BuildIndex resets the index and reindexes every actor in the store.
func (s *Service) BuildIndex(ctx context.Context) (int, error) {
	start := time.Now()
	actors, err := s.store.Actors(ctx)
	if err != nil {
		return 0, fmt.Errorf("loading actors: %w", err)
	}
	if err := s.Reset(ctx); err != nil {
		return 0, err
	}
	n, err := s.Index(ctx, actors)
	if err != nil {
		return n, err
	}
	s.logger.Info("actor index built",
		zap.Int("count", n),
		zap.Duration("took", time.Since(start)))
	return n, nil
}

// Update reprojects the given actors and upserts their documents.
func (s *Service) Update(ctx context.Context, actors []domain.Actor) error {
	_, err := s.Index(ctx, actors)
	return err
}

// Remove drops the given actor ids from the in-process index.
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

// BuildFilterTree translates parsed query options into the actor filter
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
	for _, label := range opts.Include {
		root.Append(filter.Leaf(filter.ArrayContains("labels", label)))
	}
	for _, label := range opts.Exclude {
		root.Append(filter.Not(filter.Leaf(filter.ArrayContains("labels", label))))
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
	s.logger.Debug("searching actors",
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
