package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/tags", "200"))
	RecordAPIRequest("GET", "/api/v1/tags", "200", 15*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/tags", "200"))

	assert.Equal(t, before+1, after)
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	assert.Equal(t, before+1, testutil.ToFloat64(APIActiveRequests))
	TrackActiveRequest(false)
	assert.Equal(t, before, testutil.ToFloat64(APIActiveRequests))
}

func TestRecordCatalogLookup(t *testing.T) {
	hits := testutil.ToFloat64(CatalogCacheHits.WithLabelValues("tag"))
	misses := testutil.ToFloat64(CatalogCacheMisses.WithLabelValues("tag"))

	RecordCatalogLookup("tag", true)
	RecordCatalogLookup("tag", false)
	RecordCatalogLookup("tag", false)

	assert.Equal(t, hits+1, testutil.ToFloat64(CatalogCacheHits.WithLabelValues("tag")))
	assert.Equal(t, misses+2, testutil.ToFloat64(CatalogCacheMisses.WithLabelValues("tag")))
}

func TestRecordShoppingList(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListDownloads)
	RecordShoppingList(3)
	assert.Equal(t, before+1, testutil.ToFloat64(ShoppingListDownloads))
}
