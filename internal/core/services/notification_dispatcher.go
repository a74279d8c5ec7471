package services

import (
	"context"
	"fmt"

	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/core/domain"

	"go.uber.org/zap"
)

// transitionMessage is the applicant-facing text for one workflow transition
type transitionMessage struct {
	Title string
	Body  string
}

// transitionMessages maps "FROM_TO_TO" transition keys to the message shown
// to the applicant. Transitions without an entry stay silent for the
// applicant (staff broadcasts are handled separately).
var transitionMessages = map[string]transitionMessage{
	"SUBMITTED_TO_IN_REVIEW": {
		Title: "Pengajuan Sedang Ditinjau",
		Body:  "Pengajuan pinjaman #%d Anda sedang ditinjau oleh tim marketing.",
	},
	"IN_REVIEW_TO_WAITING_APPROVAL": {
		Title: "Pengajuan Diteruskan",
		Body:  "Pengajuan pinjaman #%d Anda telah diteruskan ke kepala cabang untuk persetujuan.",
	},
	"WAITING_APPROVAL_TO_APPROVED_WAITING_DISBURSEMENT": {
		Title: "Pengajuan Disetujui",
		Body:  "Selamat! Pengajuan pinjaman #%d Anda telah disetujui dan menunggu pencairan.",
	},
	"WAITING_APPROVAL_TO_REJECTED": {
		Title: "Pengajuan Ditolak",
		Body:  "Mohon maaf, pengajuan pinjaman #%d Anda ditolak. Silakan hubungi kantor cabang untuk informasi lebih lanjut.",
	},
	"APPROVED_WAITING_DISBURSEMENT_TO_DISBURSED": {
		Title: "Dana Telah Dicairkan",
		Body:  "Dana pinjaman #%d Anda telah dicairkan ke rekening Anda.",
	},
	"DISBURSED_TO_PAID": {
		Title: "Pinjaman Lunas",
		Body:  "Pinjaman #%d Anda telah lunas. Terima kasih.",
	},
}

// staffBroadcastRole names the role whose members get a work-queue broadcast
// when a loan lands in the given status
var staffBroadcastRole = map[domain.LoanStatus]domain.RoleName{
	domain.StatusWaitingApproval:              domain.RoleBranchManager,
	domain.StatusApprovedWaitingDisbursement: domain.RoleBackOffice,
}

// NotificationDispatcher fans a workflow event out to the in-app inbox, the
// push channel and, on disbursement, email. Delivery is best effort: every
// failure is logged and swallowed so a notification outage never rolls back
// or fails a committed transition.
type NotificationDispatcher struct {
	notificationRepo NotificationStore
	staffDirectory   StaffDirectory
	push             PushChannel
	mailer           DisbursementMailer
	logger           *zap.Logger
}

// NewNotificationDispatcher creates a new notification dispatcher. The push
// channel and mailer may be nil when not configured.
func NewNotificationDispatcher(
	notificationRepo NotificationStore,
	staffDirectory StaffDirectory,
	push PushChannel,
	mailer DisbursementMailer,
	logger *zap.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		notificationRepo: notificationRepo,
		staffDirectory:   staffDirectory,
		push:             push,
		mailer:           mailer,
		logger:           logger,
	}
}

// DispatchSubmission notifies the marketing team that a new application
// arrived in their queue
func (d *NotificationDispatcher) DispatchSubmission(ctx context.Context, loan *models.LoanApplication) {
	d.broadcastToRole(ctx, &loan.ID, domain.RoleMarketing,
		"Pengajuan Baru",
		fmt.Sprintf("Pengajuan pinjaman baru #%d masuk ke antrian Anda.", loan.ID),
		map[string]string{"to_status": string(domain.StatusSubmitted)})
}

// DispatchTransition notifies the applicant and, when the loan lands in a
// staff queue, the staff role owning that queue
func (d *NotificationDispatcher) DispatchTransition(ctx context.Context, loan *models.LoanApplication, from, to domain.LoanStatus) {
	key := string(from) + "_TO_" + string(to)
	data := map[string]string{
		"from_status": string(from),
		"to_status":   string(to),
	}
	if msg, ok := transitionMessages[key]; ok {
		d.deliver(ctx, loan.UserID, &loan.ID, msg.Title, fmt.Sprintf(msg.Body, loan.ID), data)
	}

	if role, ok := staffBroadcastRole[to]; ok {
		d.broadcastToRole(ctx, &loan.ID, role,
			"Antrian Baru",
			fmt.Sprintf("Pengajuan pinjaman #%d menunggu tindakan Anda.", loan.ID),
			data)
	}

	if to == domain.StatusDisbursed {
		d.sendDisbursementEmail(ctx, loan)
	}
}

// deliver writes one in-app notification and mirrors it to the push channel.
// The extra entries ride along in the push data payload next to the loan id.
func (d *NotificationDispatcher) deliver(ctx context.Context, userID uint, loanID *uint, title, body string, extra map[string]string) {
	notification := &models.Notification{
		UserID:            userID,
		LoanApplicationID: loanID,
		Title:             title,
		Body:              body,
	}
	if err := d.notificationRepo.Create(ctx, notification); err != nil {
		d.logger.Warn("failed to store in-app notification",
			zap.Uint("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
	}

	if d.push == nil {
		return
	}
	data := map[string]string{}
	if loanID != nil {
		data["loan_id"] = fmt.Sprintf("%d", *loanID)
	}
	for k, v := range extra {
		data[k] = v
	}
	if err := d.push.Send(ctx, userID, title, body, data); err != nil {
		d.logger.Warn("failed to send push notification",
			zap.Uint("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
	}
}

func (d *NotificationDispatcher) broadcastToRole(ctx context.Context, loanID *uint, role domain.RoleName, title, body string, extra map[string]string) {
	staff, err := d.staffDirectory.ListByRole(ctx, string(role))
	if err != nil {
		d.logger.Warn("failed to resolve broadcast recipients",
			zap.String("role", string(role)),
			zap.Error(err))
		return
	}
	for _, member := range staff {
		d.deliver(ctx, member.ID, loanID, title, body, extra)
	}
}

func (d *NotificationDispatcher) sendDisbursementEmail(ctx context.Context, loan *models.LoanApplication) {
	if d.mailer == nil {
		return
	}
	if loan.User == nil || loan.User.Email == "" {
		d.logger.Warn("skipping disbursement email, applicant email unknown",
			zap.Uint("loan_id", loan.ID))
		return
	}
	if err := d.mailer.SendDisbursementNotice(ctx, loan.User.Email, loan); err != nil {
		d.logger.Warn("failed to send disbursement email",
			zap.Uint("loan_id", loan.ID),
			zap.String("to", loan.User.Email),
			zap.Error(err))
	}
}
