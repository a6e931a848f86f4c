package api

// ListResponse represents a page of collection records.
// The server encodes items as raw JSON, clients decode them into the entity type.
type ListResponse[T any] struct {
	Items []T `json:"items"`
}

// DeleteResponse подтверждение удаления записи
type DeleteResponse struct {
	ID string `json:"id"`
}
