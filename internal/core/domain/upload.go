package domain

import "time"

// UploadStatus is the outcome of an upload attempt.
type UploadStatus string

// Available upload statuses.
const (
	UploadStatusDone      UploadStatus = "done"
	UploadStatusFailed    UploadStatus = "failed"
	UploadStatusCancelled UploadStatus = "cancelled"
)

// IsValid returns true if the status is recognised.
func (s UploadStatus) IsValid() bool {
	switch s {
	case UploadStatusDone, UploadStatusFailed, UploadStatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s UploadStatus) String() string {
	return string(s)
}

// Notice returns the message shown to the user for this outcome.
func (s UploadStatus) Notice() Notice {
	switch s {
	case UploadStatusDone:
		return Notice{Level: NoticeSuccess, Message: "Upload Done"}
	case UploadStatusCancelled:
		return Notice{Level: NoticeInfo, Message: "Upload Cancelled"}
	default:
		return Notice{Level: NoticeError, Message: "Upload Exception"}
	}
}

// UploadRecord is the history entry for one upload attempt.
type UploadRecord struct {
	ID         string
	FileName   string
	ObjectName string
	Bucket     string
	Kind       FileKind
	Bytes      int64
	Status     UploadStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the attempt took.
func (r *UploadRecord) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// StoredObject is what the object store reports after a successful write.
type StoredObject struct {
	Bucket      string
	Name        string
	Size        int64
	ContentType string
	MediaLink   string
}

// NoticeLevel grades a user-facing notice.
type NoticeLevel int

// Notice levels.
const (
	NoticeInfo NoticeLevel = iota
	NoticeSuccess
	NoticeError
)

// Notice is a short message for the user, the CLI equivalent of a toast.
type Notice struct {
	Level   NoticeLevel
	Message string
}
