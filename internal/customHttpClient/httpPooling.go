package customHttpClient

import (
	"net/http"

	"github.com/Ollennjj/stoa-api/internal/config"
)

//TODO: make qdrant/llm/embedder reuse connections to avoid latency

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

var pooledClient = &http.Client{Transport: customTransport}

// PooledClient is shared by outbound HTTP callers, the persona template
// fetcher included, so idle connections get reused.
func PooledClient() *http.Client {
	return pooledClient
}
