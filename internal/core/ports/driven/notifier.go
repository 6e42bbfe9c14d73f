package driven

import "github.com/custodia-labs/bucketdrop/internal/core/domain"

// Notifier shows short messages to the user.
type Notifier interface {
	Notify(notice domain.Notice)
}
