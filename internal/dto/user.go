package dto

// UserProfileResponse renders account details for the profile page.
type UserProfileResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// UpdateProfileRequest carries the editable profile fields.
type UpdateProfileRequest struct {
	Email       string `json:"email" form:"email"`
	DisplayName string `json:"display_name" form:"display_name"`
}

// CategoryProgressItem is one category's progress as shown on the dashboard.
type CategoryProgressItem struct {
	CategorySlug       string  `json:"category_slug"`
	QuestionsAttempted int     `json:"questions_attempted"`
	QuestionsCorrect   int     `json:"questions_correct"`
	Accuracy           float64 `json:"accuracy"`
	Completion         float64 `json:"completion"`
	LastAttempted      string  `json:"last_attempted,omitempty"`
}

// ActivityItem is one activity log entry as shown on the dashboard.
type ActivityItem struct {
	Type         string `json:"type"`
	CategorySlug string `json:"category_slug"`
	Score        string `json:"score"`
	Timestamp    string `json:"timestamp"`
}

// OverallProgressItem aggregates progress across every category.
type OverallProgressItem struct {
	TotalQuestionsAttempted int     `json:"total_questions_attempted"`
	TotalQuestionsCorrect   int     `json:"total_questions_correct"`
	OverallAccuracy         float64 `json:"overall_accuracy"`
	CategoriesStarted       int     `json:"categories_started"`
	TotalCategories         int     `json:"total_categories"`
}

// DashboardResponse is the aggregated progress view for one user.
type DashboardResponse struct {
	Username   string                 `json:"username"`
	Overall    OverallProgressItem    `json:"overall"`
	Categories []CategoryProgressItem `json:"categories"`
	Activities []ActivityItem         `json:"activities"`
}
