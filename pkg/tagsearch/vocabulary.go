package tagsearch

import (
	"context"
	"sort"
	"strings"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
)

type tagKey struct {
	id   int64
	text string
}

// TagVocabulary returns every tag linked to at least one container in the
// group. Unlinked tags are left out. The list is sorted by text ignoring case,
// with the id breaking ties.
func (s *Searcher) TagVocabulary(ctx context.Context, opts omodel.ServiceOpts) ([]omodel.Tag, error) {
	seen := make(map[tagKey]bool)
	tags := []omodel.Tag{}

	for _, ct := range omodel.ContainerTypes {
		inUse, err := s.stors.TagLinkStor.ListTagsInUse(ctx, ct, opts)
		if err != nil {
			return nil, err
		}

		for _, tag := range inUse {
			key := tagKey{id: tag.ID, text: tag.TextValue}
			if seen[key] {
				continue
			}

			seen[key] = true
			tags = append(tags, tag)
		}
	}

	sort.SliceStable(tags, func(i, j int) bool {
		a, b := strings.ToLower(tags[i].TextValue), strings.ToLower(tags[j].TextValue)
		if a != b {
			return a < b
		}

		return tags[i].ID < tags[j].ID
	})

	return tags, nil
}
