package events

const (
	TopicProductViewed   = "shop.product.viewed"
	TopicSearchPerformed = "shop.search.performed"
	TopicOrderPlaced     = "shop.order.placed"
)

// Partition key keeps events for the same subject ordered within a topic.
func PartitionKey(id string) []byte { return []byte(id) }
