package stor

import (
	"slices"
)

// MaxIDsPerQuery bounds the size of an IN list. sqlite and postgres both cap
// the number of bind parameters in one statement.
const MaxIDsPerQuery = 500

// UniqueIDs returns ids sorted with duplicates removed. The input is left alone.
func UniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}

	unique := slices.Clone(ids)
	slices.Sort(unique)
	return slices.Compact(unique)
}

// ChunkIDs splits ids into slices of at most size entries.
func ChunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = MaxIDsPerQuery
	}

	var chunks [][]int64
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}

	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}

	return chunks
}
