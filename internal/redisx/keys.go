package redisx

import "time"

const (
	// Cache order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Sorted set of product ids scored by view count.
	KeyProductViews = "views:products"

	// Sorted set of normalized search keywords scored by frequency.
	KeyTrendingKeywords = "trending:keywords"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

// Counter ZSETs are trimmed so they do not grow without bound.
const (
	MaxTrackedProducts = 1000
	MaxTrackedKeywords = 500
)
