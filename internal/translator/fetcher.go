package translator

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/valpere/seltran/internal/endpoint"
)

// Fetcher performs one JSON request. *endpoint.Client implements it.
type Fetcher interface {
	FetchJSON(ctx context.Context, req endpoint.Request) (gjson.Result, error)
}
