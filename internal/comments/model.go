package comments

import "time"

// Comment carries a snapshot of the author's name and avatar taken at write
// time. Renaming a user later does not rewrite their comment history.
type Comment struct {
	ID         string    `json:"id"`
	ObraID     string    `json:"obraId"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"createdAt"`
}

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,notblank,max=2000"`
}
