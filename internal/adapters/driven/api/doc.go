// Package api is the HTTP adapter for the product search service.
//
// It implements driven.EventSource over POST /search/stream and
// driven.ProductAPI over the REST endpoints for stars, contributions, likes,
// tags and downloads. REST calls are rate limited; the stream is not.
package api
