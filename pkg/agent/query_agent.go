package agent

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"ai-docflow-be/internal/pkg/logger"
	"ai-docflow-be/pkg/vectorindex"

	"github.com/redis/go-redis/v9"
)

const (
	querySearchLimit = 5
	queryCacheTTL    = 5 * time.Minute
	queryCachePrefix = "docflow:query_answer"
)

// QueryAgent answers natural language questions against a tenant's
// indexed documents. Answers are cached in Redis for a short window so
// repeated questions skip the search and model round trips. The cache is
// best effort: Redis failures are logged and the call proceeds.
type QueryAgent struct {
	index   vectorindex.Gateway
	invoker Invoker
	cache   *redis.Client
	log     logger.ILogger
}

var _ QueryAnswerer = &QueryAgent{}

// NewQueryAgent builds a QueryAgent. cache may be nil to disable caching.
func NewQueryAgent(index vectorindex.Gateway, invoker Invoker, cache *redis.Client, log logger.ILogger) *QueryAgent {
	return &QueryAgent{index: index, invoker: invoker, cache: cache, log: log}
}

func (a *QueryAgent) AnswerQuery(ctx context.Context, tenantId, userQuery string) (*QueryAnswer, error) {
	if cached := a.cacheGet(ctx, tenantId, userQuery); cached != nil {
		return cached, nil
	}

	matches, err := a.index.Search(ctx, tenantId, userQuery, querySearchLimit)
	if err != nil {
		return nil, &InvocationError{Agent: "query", Err: err}
	}

	if len(matches) == 0 {
		a.log.Info("agent", "no chunks retrieved for query", map[string]interface{}{
			"tenant_id": tenantId,
		})
		return &QueryAnswer{FinalMessage: NothingRelevantMessage}, nil
	}

	var answer QueryAnswer
	if err := a.invoker.Invoke(ctx, "query", queryInstruction(userQuery, matches), &answer); err != nil {
		return nil, err
	}

	a.cacheSet(ctx, tenantId, userQuery, &answer)
	return &answer, nil
}

func (a *QueryAgent) cacheGet(ctx context.Context, tenantId, userQuery string) *QueryAnswer {
	if a.cache == nil {
		return nil
	}
	raw, err := a.cache.Get(ctx, queryCacheKey(tenantId, userQuery)).Result()
	if err != nil {
		if err != redis.Nil {
			a.log.Warn("agent", "query cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return nil
	}
	var answer QueryAnswer
	if err := json.Unmarshal([]byte(raw), &answer); err != nil {
		return nil
	}
	return &answer
}

func (a *QueryAgent) cacheSet(ctx context.Context, tenantId, userQuery string, answer *QueryAnswer) {
	if a.cache == nil {
		return
	}
	buf, err := json.Marshal(answer)
	if err != nil {
		return
	}
	if err := a.cache.Set(ctx, queryCacheKey(tenantId, userQuery), buf, queryCacheTTL).Err(); err != nil {
		a.log.Warn("agent", "query cache write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func queryCacheKey(tenantId, userQuery string) string {
	sum := sha256.Sum256([]byte(userQuery))
	return fmt.Sprintf("%s:%s:%s", queryCachePrefix, tenantId, hex.EncodeToString(sum[:]))
}
