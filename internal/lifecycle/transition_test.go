package lifecycle

import (
	"errors"
	"testing"

	"github.com/nguyentantai21042004/caption-queue/internal/models"
)

func TestApply(t *testing.T) {
	tests := []struct {
		from    models.Status
		op      Operation
		want    models.Status
		wantErr bool
	}{
		{models.StatusPending, OpApprove, models.StatusApproved, false},
		{models.StatusPending, OpReject, models.StatusRejected, false},
		{models.StatusPending, OpPost, models.StatusPending, true},
		{models.StatusPending, OpEditCaption, models.StatusPending, false},

		{models.StatusApproved, OpApprove, models.StatusApproved, true},
		{models.StatusApproved, OpReject, models.StatusRejected, false},
		{models.StatusApproved, OpPost, models.StatusPosted, false},
		{models.StatusApproved, OpEditCaption, models.StatusApproved, false},

		{models.StatusRejected, OpApprove, models.StatusRejected, true},
		{models.StatusRejected, OpReject, models.StatusRejected, true},
		{models.StatusRejected, OpPost, models.StatusRejected, true},
		{models.StatusRejected, OpEditCaption, models.StatusRejected, true},

		{models.StatusPosted, OpApprove, models.StatusPosted, true},
		{models.StatusPosted, OpReject, models.StatusPosted, true},
		{models.StatusPosted, OpPost, models.StatusPosted, true},
		{models.StatusPosted, OpEditCaption, models.StatusPosted, true},

		{models.StatusPending, Operation("archive"), models.StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"/"+string(tt.op), func(t *testing.T) {
			got, err := Apply(tt.from, tt.op)
			if got != tt.want {
				t.Errorf("Apply(%s, %s) = %v, want %v", tt.from, tt.op, got, tt.want)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply(%s, %s) error = %v, wantErr %v", tt.from, tt.op, err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, models.ErrInvalidTransition) {
				t.Errorf("error %v does not match ErrInvalidTransition", err)
			}
			var ite *models.InvalidTransitionError
			if !errors.As(err, &ite) {
				t.Fatalf("error %T is not *InvalidTransitionError", err)
			}
			if ite.Current != tt.from || ite.Operation != string(tt.op) {
				t.Errorf("error reports (%s, %s), want (%s, %s)", ite.Current, ite.Operation, tt.from, tt.op)
			}
		})
	}
}

func TestApplyTerminalStatesAreFinal(t *testing.T) {
	ops := []Operation{OpApprove, OpReject, OpPost, OpEditCaption}
	for _, from := range []models.Status{models.StatusRejected, models.StatusPosted} {
		for _, op := range ops {
			if _, err := Apply(from, op); err == nil {
				t.Errorf("Apply(%s, %s) succeeded from a terminal status", from, op)
			}
		}
	}
}
