package dto

import "time"

type RequestResp struct {
	ID          string    `json:"id"`
	RequesterID string    `json:"requester_id"`
	EventID     string    `json:"event_id"`
	Status      string    `json:"status"`
	Created     time.Time `json:"created"`
}

type CreateCommentReq struct {
	Text string `json:"text"`
}

type UpdateCommentReq struct {
	Text string `json:"text"`
}

type ModerateCommentReq struct {
	Approve bool `json:"approve"`
}

type CommentResp struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	EventID   string    `json:"event_id"`
	Text      string    `json:"text"`
	Status    string    `json:"status"`
	CreatedOn time.Time `json:"created_on"`
}

type CategoryReq struct {
	Name string `json:"name"`
}

type CategoryResp struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CreateUserReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResp struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateCompilationReq struct {
	Title    string   `json:"title"`
	Pinned   bool     `json:"pinned"`
	EventIDs []string `json:"event_ids"`
}

type UpdateCompilationReq struct {
	Title    *string   `json:"title"`
	Pinned   *bool     `json:"pinned"`
	EventIDs *[]string `json:"event_ids"`
}

type CompilationResp struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Pinned   bool     `json:"pinned"`
	EventIDs []string `json:"event_ids"`
}
