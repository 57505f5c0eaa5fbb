package domain

// DeliveryPlan is one outgoing message: zero items means caption-only, one
// item is a single media message, more is a grouped album.
type DeliveryPlan struct {
	Items   []FetchedMedia
	Caption string // Only the first plan of a request carries a caption
}
