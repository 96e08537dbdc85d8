// Package queue defines the notification payloads exchanged over RabbitMQ and
// the publisher and consumer that move them.
package queue

const (
	EventCommentCreated    = "comment.created"
	EventSubmissionCreated = "submission.created"
)

// NotificationEvent tells the recipient side that something happened in a
// guidance session. It carries enough context to be rendered without a
// database lookup.
type NotificationEvent struct {
	Type              string  `json:"type"`
	GuidanceSessionID uint64  `json:"guidance_session_id"`
	ThesisID          uint64  `json:"thesis_id"`
	ActorID           uint64  `json:"actor_id"`
	RecipientID       *uint64 `json:"recipient_id,omitempty"`
	SubmissionID      *uint64 `json:"submission_id,omitempty"`
	CommentID         *uint64 `json:"comment_id,omitempty"`
	Summary           string  `json:"summary"`
	OccurredAt        string  `json:"occurred_at"`
}
