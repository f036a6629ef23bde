// Package notify delivers quiz-published announcements to students. The
// publish path enqueues an event to Redis and returns immediately; a
// background worker drains the queue and sends email through a Mailer.
// Delivery is best effort: a lost or failed notification never affects the
// publish itself.
package notify

// Recipient identifies one student to email.
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event is the queued payload for one published quiz.
type Event struct {
	QuizID      string      `json:"quiz_id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Recipients  []Recipient `json:"recipients"`
}
