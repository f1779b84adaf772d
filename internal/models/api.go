package models

// LogIngestRequest is the JSON body of POST /logs.
type LogIngestRequest struct {
	Records []RawLogInput `json:"records"`
}

// RawLogInput is one JSON answer record. QuestionID is a pointer so an absent
// key can be told apart from an empty value.
type RawLogInput struct {
	User       UserID  `json:"user"`
	EventID    string  `json:"event_id"`
	SentAt     string  `json:"sent_at"`
	QuestionID *string `json:"question_id"`
}

// Record returns the input as a RawLogRecord; an absent question id is empty.
func (in RawLogInput) Record() RawLogRecord {
	r := RawLogRecord{User: in.User, EventID: in.EventID, SentAt: in.SentAt}
	if in.QuestionID != nil {
		r.QuestionID = *in.QuestionID
	}
	return r
}

// LogIngestResponse is returned by POST /logs.
// Sessions is the number of distinct session ids in the batch.
type LogIngestResponse struct {
	BatchID  string `json:"batch_id"`
	Inserted int64  `json:"inserted"`
	Sessions int    `json:"sessions"`
}
