package orders

const TopicOrderPlaced = "order.placed"

// Partition key = order_id so every event for one order keeps its ordering.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
