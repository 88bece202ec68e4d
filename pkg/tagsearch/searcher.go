package tagsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
)

// SearchRequest is a tag search. Every container type is searched and
// counted. Types listed in HiddenTypes are left out of the search details.
type SearchRequest struct {
	SelectedTags []int64
	ExcludedTags []int64
	Operation    Operation
	HiddenTypes  []omodel.ContainerType
	Opts         omodel.ServiceOpts
}

// SearchResult is the JSON document returned by tag_image_search.
type SearchResult struct {
	NavData []int64        `json:"navdata"`
	Preview bool           `json:"preview"`
	Count   map[string]int `json:"count"`
	HTML    string         `json:"html"`

	// Containers holds the matched containers by type. It is not part of the
	// response document.
	Containers map[omodel.ContainerType][]omodel.Container `json:"-"`
}

func emptySearchResult() *SearchResult {
	return &SearchResult{
		NavData:    []int64{},
		Count:      map[string]int{},
		Containers: map[omodel.ContainerType][]omodel.Container{},
	}
}

type Searcher struct {
	stors    *stor.Stors
	renderer *Renderer
	now      func() time.Time
}

func NewSearcher(stors *stor.Stors, renderer *Renderer) *Searcher {
	return &Searcher{stors: stors, renderer: renderer, now: time.Now}
}

// Search runs the include/exclude query once per container type, loads the
// matches for the preview and, under AND, collects the tags still reachable
// from the matches.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	result := emptySearchResult()
	if len(req.SelectedTags) == 0 {
		return result, nil
	}

	op := req.Operation
	if op == "" {
		op = DefaultOperation
	}
	searchesTotal.WithLabelValues(string(op)).Inc()

	start := s.now()
	ids := make(map[omodel.ContainerType][]int64)
	total := 0

	for _, ct := range omodel.ContainerTypes {
		found, err := s.stors.TagLinkStor.FindParentsWithTags(ctx, ct, req.SelectedTags, req.ExcludedTags, op.MatchAll(), req.Opts)
		if err != nil {
			return nil, err
		}

		ids[ct] = found
		result.Count[ct.String()] = len(found)
		total += len(found)
		matchedContainers.WithLabelValues(ct.String()).Observe(float64(len(found)))
	}

	for _, ct := range visibleTypes(req.HiddenTypes) {
		if len(ids[ct]) == 0 {
			continue
		}

		containers, err := s.stors.ContainerStor.GetContainers(ctx, ct, ids[ct], req.Opts)
		if err != nil {
			return nil, fmt.Errorf("loading matched %s: %w", ct.OmeroClass(), err)
		}

		result.Containers[ct] = containers
	}

	result.Preview = total > 0

	html, err := s.renderer.RenderSearchDetails(result.Containers)
	if err != nil {
		return nil, fmt.Errorf("rendering search details: %w", err)
	}
	result.HTML = html

	middle := s.now()

	if op.MatchAll() {
		var remaining []int64
		for _, ct := range omodel.ContainerTypes {
			if len(ids[ct]) == 0 {
				continue
			}

			tagIDs, err := s.stors.TagLinkStor.ListTagsOnParents(ctx, ct, ids[ct], req.Opts)
			if err != nil {
				return nil, err
			}

			remaining = append(remaining, tagIDs...)
		}

		if unique := stor.UniqueIDs(remaining); unique != nil {
			result.NavData = unique
		}
	}

	end := s.now()
	previewTime, remainingTime := middle.Sub(start), end.Sub(middle)
	queryDuration.WithLabelValues(phasePreview).Observe(previewTime.Seconds())
	queryDuration.WithLabelValues(phaseRemaining).Observe(remainingTime.Seconds())

	log.WithFields(log.Fields{
		"operation": op,
		"selected":  len(req.SelectedTags),
		"excluded":  len(req.ExcludedTags),
		"group":     req.Opts.Group,
	}).Infof("Tag Query Times. Preview: %.3fs, Remaining: %.3fs, Total: %.3fs",
		previewTime.Seconds(), remainingTime.Seconds(), end.Sub(start).Seconds())

	return result, nil
}

// visibleTypes returns the container types in search order, less hidden.
func visibleTypes(hidden []omodel.ContainerType) []omodel.ContainerType {
	isHidden := make(map[omodel.ContainerType]bool, len(hidden))
	for _, ct := range hidden {
		isHidden[ct] = true
	}

	types := make([]omodel.ContainerType, 0, len(omodel.ContainerTypes))
	for _, ct := range omodel.ContainerTypes {
		if !isHidden[ct] {
			types = append(types, ct)
		}
	}

	return types
}
