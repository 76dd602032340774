package dto

// ListResponse wraps list payloads so the envelope stays an object
type ListResponse struct {
	List interface{} `json:"list"`
}
