package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// MinRetakeReasonLength is the shortest accepted justification on a
// retake request.
const MinRetakeReasonLength = 10
