package dto

type CountsResponse struct {
	RequestsForMyPosts int64 `json:"requests_for_my_posts"`
	BooksIAppliedFor   int64 `json:"books_i_applied_for"`
}

type UploadResponse struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	BlurHash string `json:"blurhash"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}
