package proofsource

import "context"

// Post as seen on the proof platform
type Post struct {
	Id       string `json:"id"`
	AuthorId string `json:"author_id"`
	Text     string `json:"text"`
}

// Author profile on the proof platform
type Author struct {
	Id     string `json:"id"`
	Handle string `json:"userName"`
}

type postsResponse struct {
	Posts []Post `json:"tweets"`
}

type authorResponse struct {
	Author Author `json:"data"`
}

// Source is the post lookup interface the verifier depends on.
// A missing post is (nil, nil), errors mean the lookup could not be
// performed and should be retried.
type Source interface {
	GetPost(ctx context.Context, postId string) (*Post, error)
	SearchPosts(ctx context.Context, query string) ([]Post, error)
}

// Directory resolves platform handles to author profiles, used when an
// agent registers without a known author id
type Directory interface {
	GetAuthor(ctx context.Context, handle string) (*Author, error)
}
