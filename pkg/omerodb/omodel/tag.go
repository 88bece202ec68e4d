package omodel

// TagDiscriminator marks a TagAnnotation row in the annotation table.
const TagDiscriminator = "/basic/text/tag/"

type Tag struct {
	ID        int64  `json:"id"`
	TextValue string `json:"text_value"`
	OwnerID   int64  `json:"owner_id"`
	GroupID   int64  `json:"group_id"`
}
