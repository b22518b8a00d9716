package proofsource

import (
	"context"
	"fmt"

	"github.com/shillmarket/broker/src/utils/config"
	"github.com/shillmarket/broker/src/utils/logger"

	"github.com/go-resty/resty/v2"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// Client fetches posts from the proof platform API. The API is rate
// limited, requests wait on a local limiter before going out so the
// verifier's worker pool can't burn through the quota.
type Client struct {
	client  *resty.Client
	log     *logrus.Entry
	limiter *rate.Limiter

	// Author profiles rarely change, cache them
	authorCache *cache.Cache
}

func NewClient(config *config.Config) (self *Client) {
	self = new(Client)
	self.log = logger.NewSublogger("proof-source")

	self.limiter = rate.NewLimiter(rate.Limit(config.ProofSource.RateLimit), config.ProofSource.RateLimitBurst)
	self.authorCache = cache.New(config.ProofSource.AuthorCacheTTL, 2*config.ProofSource.AuthorCacheTTL)

	self.client = resty.New().
		SetBaseURL(config.ProofSource.Url).
		SetTimeout(config.ProofSource.RequestTimeout).
		SetHeader("X-API-Key", config.ProofSource.ApiKey).
		SetHeader("Accept", "application/json")

	return
}

// GetPost returns the post or (nil, nil) when it doesn't exist.
// Transport and rate limit problems are errors, not absence.
func (self *Client) GetPost(ctx context.Context, postId string) (out *Post, err error) {
	err = self.limiter.Wait(ctx)
	if err != nil {
		return
	}

	resp, err := self.client.R().
		SetContext(ctx).
		SetResult(postsResponse{}).
		ForceContentType("application/json").
		SetQueryParam("tweet_ids", postId).
		Get("/tweets")
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		self.log.WithField("status", resp.StatusCode()).WithField("post_id", postId).
			Warn("Post lookup has not been successful")
		err = fmt.Errorf("post lookup failed: unexpected status %s", resp.Status())
		return
	}

	result, ok := resp.Result().(*postsResponse)
	if !ok {
		err = fmt.Errorf("post lookup failed: malformed response")
		return
	}

	if len(result.Posts) == 0 {
		// Post doesn't exist or was deleted
		return nil, nil
	}

	out = &result.Posts[0]
	return
}

func (self *Client) SearchPosts(ctx context.Context, query string) (out []Post, err error) {
	err = self.limiter.Wait(ctx)
	if err != nil {
		return
	}

	resp, err := self.client.R().
		SetContext(ctx).
		SetResult(postsResponse{}).
		ForceContentType("application/json").
		SetQueryParams(map[string]string{
			"query":     query,
			"queryType": "Latest",
		}).
		Get("/tweet/advanced_search")
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("post search failed: unexpected status %s", resp.Status())
		return
	}

	result, ok := resp.Result().(*postsResponse)
	if !ok {
		err = fmt.Errorf("post search failed: malformed response")
		return
	}

	out = result.Posts
	return
}

// GetAuthor resolves a platform handle to the author profile
func (self *Client) GetAuthor(ctx context.Context, handle string) (out *Author, err error) {
	if cached, ok := self.authorCache.Get(handle); ok {
		return cached.(*Author), nil
	}

	err = self.limiter.Wait(ctx)
	if err != nil {
		return
	}

	resp, err := self.client.R().
		SetContext(ctx).
		SetResult(authorResponse{}).
		ForceContentType("application/json").
		SetQueryParam("userName", handle).
		Get("/user/info")
	if err != nil {
		return
	}

	if !resp.IsSuccess() {
		err = fmt.Errorf("author lookup failed: unexpected status %s", resp.Status())
		return
	}

	result, ok := resp.Result().(*authorResponse)
	if !ok {
		err = fmt.Errorf("author lookup failed: malformed response")
		return
	}

	out = &result.Author
	self.authorCache.Set(handle, out, cache.DefaultExpiration)
	return
}
