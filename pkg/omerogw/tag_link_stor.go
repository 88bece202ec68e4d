package omerogw

import (
	"context"
	"fmt"

	"github.com/materials-commons/tagsearch/pkg/omerodb/omodel"
	"github.com/materials-commons/tagsearch/pkg/omerodb/stor"
)

type TagLinkStor struct {
	client *Client
}

func NewTagLinkStor(client *Client) *TagLinkStor {
	return &TagLinkStor{client: client}
}

func (s *TagLinkStor) ListTagsInUse(ctx context.Context, ct omodel.ContainerType, opts omodel.ServiceOpts) ([]omodel.Tag, error) {
	rows, err := s.client.Projection(ctx, tagsInUseHQL(ct), nil, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tags on %s: %w", ct.OmeroClass(), err)
	}

	tags := make([]omodel.Tag, 0, len(rows))
	for _, row := range rows {
		tag, err := tagFromRow(row)
		if err != nil {
			return nil, err
		}

		tags = append(tags, tag)
	}

	return tags, nil
}

func (s *TagLinkStor) FindParentsWithTags(ctx context.Context, ct omodel.ContainerType, includeIDs, excludeIDs []int64, matchAll bool, opts omodel.ServiceOpts) ([]int64, error) {
	include := stor.UniqueIDs(includeIDs)
	if len(include) == 0 {
		return nil, nil
	}

	exclude := stor.UniqueIDs(excludeIDs)
	params := Params{"incl_ids": include}
	if len(exclude) > 0 {
		params["excl_ids"] = exclude
	}

	hql := parentsWithTagsHQL(ct, len(include), len(exclude) > 0, matchAll)
	rows, err := s.client.Projection(ctx, hql, params, opts)
	if err != nil {
		return nil, fmt.Errorf("finding %s with tags: %w", ct.OmeroClass(), err)
	}

	return firstColumnIDs(rows)
}

func (s *TagLinkStor) ListTagsOnParents(ctx context.Context, ct omodel.ContainerType, parentIDs []int64, opts omodel.ServiceOpts) ([]int64, error) {
	var tagIDs []int64

	for _, chunk := range stor.ChunkIDs(stor.UniqueIDs(parentIDs), stor.MaxIDsPerQuery) {
		rows, err := s.client.Projection(ctx, tagsOnParentsHQL(ct), Params{"oids": chunk}, opts)
		if err != nil {
			return nil, fmt.Errorf("listing tags on %s parents: %w", ct.OmeroClass(), err)
		}

		ids, err := firstColumnIDs(rows)
		if err != nil {
			return nil, err
		}

		tagIDs = append(tagIDs, ids...)
	}

	return stor.UniqueIDs(tagIDs), nil
}

// tagFromRow reads (id, textValue, owner id, group id).
func tagFromRow(row []any) (omodel.Tag, error) {
	var (
		tag omodel.Tag
		err error
	)

	if tag.ID, err = int64Column(row, 0); err != nil {
		return tag, err
	}

	text, err := column(row, 1)
	if err != nil {
		return tag, err
	}
	tag.TextValue = toString(text)

	if tag.OwnerID, err = int64Column(row, 2); err != nil {
		return tag, err
	}

	tag.GroupID, err = int64Column(row, 3)
	return tag, err
}
