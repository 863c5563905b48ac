package lifecycle

import "github.com/nguyentantai21042004/caption-queue/internal/models"

// Operation is a moderator action on a submission.
type Operation string

const (
	OpApprove     Operation = "approve"
	OpReject      Operation = "reject"
	OpPost        Operation = "post"
	OpEditCaption Operation = "edit_caption"
)

// Apply returns the status that follows current under op, or an
// *models.InvalidTransitionError when op is not allowed from current.
// Caption edits leave the status unchanged.
func Apply(current models.Status, op Operation) (models.Status, error) {
	switch op {
	case OpApprove:
		if current == models.StatusPending {
			return models.StatusApproved, nil
		}
	case OpReject:
		if current == models.StatusPending || current == models.StatusApproved {
			return models.StatusRejected, nil
		}
	case OpPost:
		if current == models.StatusApproved {
			return models.StatusPosted, nil
		}
	case OpEditCaption:
		if current == models.StatusPending || current == models.StatusApproved {
			return current, nil
		}
	}
	return current, &models.InvalidTransitionError{Current: current, Operation: string(op)}
}
