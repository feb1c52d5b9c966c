package email

import (
	"context"
	"fmt"

	"nmqueue/internal/domain/membership"
	"nmqueue/internal/domain/person"
	"nmqueue/internal/domain/process"
	"nmqueue/internal/shared/logger"
)

// transitionMail is the template for one progress arrival worth an email.
type transitionMail struct {
	subject string
	body    string
}

// transitionMails maps the progress a process just reached to the message
// owed to the applicant. Progresses absent from the map are silent.
var transitionMails = map[membership.Progress]transitionMail{
	membership.ProgressAppNew: {
		subject: "Your application has been created",
		body:    "Your application is on file. The next step is collecting advocacies; nothing is required from you until an advocate confirms.",
	},
	membership.ProgressAdvRcvd: {
		subject: "An advocate has endorsed your application",
		body:    "An advocacy has been recorded for your application. Front Desk will review it shortly.",
	},
	membership.ProgressAppOK: {
		subject: "Your application has been approved by Front Desk",
		body:    "Front Desk approved your application. You are now waiting for an Application Manager to be assigned.",
	},
	membership.ProgressAMRcvd: {
		subject: "An Application Manager has been assigned to you",
		body:    "An Application Manager has picked up your application and will contact you to begin the interview.",
	},
	membership.ProgressAMOK: {
		subject: "Your Application Manager has signed off",
		body:    "Your Application Manager reported your application ready. Front Desk will now review the report.",
	},
	membership.ProgressFDOK: {
		subject: "Front Desk has approved your report",
		body:    "Front Desk approved your Application Manager's report. The Debian Account Managers will make the final decision.",
	},
	membership.ProgressDAMOK: {
		subject: "The Debian Account Managers have approved you",
		body:    "The Debian Account Managers approved your application. Account creation is the only remaining step.",
	},
	membership.ProgressDone: {
		subject: "Welcome!",
		body:    "Your application is complete and your new status is in effect. Welcome aboard.",
	},
	membership.ProgressCanceled: {
		subject: "Your application has been canceled",
		body:    "Your application has been closed. You can ask Front Desk to reopen it if circumstances change.",
	},
}

// holdMail is sent on entering any hold state.
var holdMail = transitionMail{
	subject: "Your application is on hold",
	body:    "Your application has been placed on hold. It will not advance until the open questions are resolved; check with your Application Manager or Front Desk.",
}

// TransitionNotifier emails the applicant when their process reaches a
// progress worth announcing, with a copy to the public list archive for
// public entries.
type TransitionNotifier struct {
	personRepo  person.Repository
	processRepo process.Repository
	sender      Sender
	archiveAddr string
	logger      logger.Interface
}

func NewTransitionNotifier(
	personRepo person.Repository,
	processRepo process.Repository,
	sender Sender,
	archiveAddr string,
	log logger.Interface,
) *TransitionNotifier {
	return &TransitionNotifier{
		personRepo:  personRepo,
		processRepo: processRepo,
		sender:      sender,
		archiveAddr: archiveAddr,
		logger:      log.Named("notifier"),
	}
}

func (n *TransitionNotifier) OnTransition(ctx context.Context, newEntry, prevEntry *process.LogEntry) error {
	// Annotations repeat the current progress and are not announced.
	if prevEntry != nil && prevEntry.Progress() == newEntry.Progress() {
		return nil
	}

	mail, ok := transitionMails[newEntry.Progress()]
	if !ok {
		if !newEntry.Progress().IsHold() {
			return nil
		}
		mail = holdMail
	}

	proc, err := n.processRepo.GetByID(ctx, newEntry.ProcessID())
	if err != nil {
		return err
	}
	if proc == nil {
		return fmt.Errorf("process %d not found", newEntry.ProcessID())
	}

	applicant, err := n.personRepo.GetByID(ctx, proc.PersonID())
	if err != nil {
		return err
	}
	if applicant == nil {
		return fmt.Errorf("person %d not found", proc.PersonID())
	}

	to := []string{applicant.Email().String()}
	if newEntry.IsPublic() && n.archiveAddr != "" {
		to = append(to, n.archiveAddr)
	}

	subject := fmt.Sprintf("%s: %s", proc.ArchiveKey(), mail.subject)
	body := mail.body
	if newEntry.Message() != "" {
		body = fmt.Sprintf("%s\n\n%s", body, newEntry.Message())
	}

	if err := n.sender.Send(to, subject, body); err != nil {
		return err
	}

	n.logger.Infow("transition notification sent",
		"process_id", proc.ID(),
		"progress", newEntry.Progress().String(),
		"recipients", len(to))
	return nil
}
