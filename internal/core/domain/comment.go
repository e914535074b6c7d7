package domain

// Comment is a staff note appended to a feedback item. Comments are never
// edited or deleted by the client.
type Comment struct {
	ID         int64       `json:"id"`
	FeedbackID int64       `json:"feedbackId"`
	AuthorID   ValueString `json:"authorId"`
	Content    string      `json:"content"`
	CreatedAt  string      `json:"createdAt"`
}
