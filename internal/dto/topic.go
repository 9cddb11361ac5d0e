package dto

// TopicListItem is one entry in the topic listing.
type TopicListItem struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// TopicListResponse wraps the topic listing.
type TopicListResponse struct {
	Topics []TopicListItem `json:"topics"`
}

// QuestionOption is one answer choice as rendered to the client.
type QuestionOption struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// QuestionItem is a question as rendered to the client. The answer key is
// withheld; scoring happens server-side on submission.
type QuestionItem struct {
	Index   int              `json:"index"`
	Text    string           `json:"text"`
	Options []QuestionOption `json:"options"`
}

// TopicDetailResponse renders a topic's parsed questions.
type TopicDetailResponse struct {
	Slug      string         `json:"slug"`
	Title     string         `json:"title"`
	Questions []QuestionItem `json:"questions"`
}

// SubmitResultResponse is the human-readable score summary returned after a
// quiz submission, plus the refreshed category statistics.
type SubmitResultResponse struct {
	Slug       string  `json:"slug"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
	Score      string  `json:"score"`
	Message    string  `json:"message"`
}
