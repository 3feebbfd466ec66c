package memory

import (
	"collab-search-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ContextRepository holds each active session's SearchContext. Entries never
// expire on their own: a context is created with its session and deleted with
// it, so eviction stays under the lifecycle controller's control.
type ContextRepository struct {
	cache *cache.Cache
}

func NewContextRepository() *ContextRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &ContextRepository{
		cache: c,
	}
}

func (r *ContextRepository) Save(context *entity.SearchContext) {
	r.cache.Set(context.SessionId.String(), context, cache.NoExpiration)
}

func (r *ContextRepository) Get(sessionId uuid.UUID) (*entity.SearchContext, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(*entity.SearchContext), true
	}
	return nil, false
}

func (r *ContextRepository) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
