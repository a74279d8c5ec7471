package services

import (
	"context"
	"fmt"

	"loanflow-backend/internal/core/domain"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ReminderService pushes a morning work-queue summary to staff whose queue
// holds pending applications, on a cron schedule.
type ReminderService struct {
	loanRepo   LoanApplicationStore
	dispatcher *NotificationDispatcher
	cron       *cron.Cron
	spec       string
	logger     *zap.Logger
}

// NewReminderService creates a new reminder service
func NewReminderService(
	loanRepo LoanApplicationStore,
	dispatcher *NotificationDispatcher,
	spec string,
	logger *zap.Logger,
) *ReminderService {
	return &ReminderService{
		loanRepo:   loanRepo,
		dispatcher: dispatcher,
		cron:       cron.New(),
		spec:       spec,
		logger:     logger,
	}
}

// Start schedules the reminder and starts the cron runner
func (s *ReminderService) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info("queue reminder scheduled", zap.String("spec", s.spec))
	return nil
}

// Stop stops the cron runner, waiting for a running job to finish
func (s *ReminderService) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce sends one round of queue reminders
func (s *ReminderService) RunOnce() {
	ctx := context.Background()

	for _, role := range []domain.RoleName{
		domain.RoleMarketing,
		domain.RoleBranchManager,
		domain.RoleBackOffice,
	} {
		statuses := domain.QueueStatuses(role)
		names := make([]string, 0, len(statuses))
		for _, status := range statuses {
			names = append(names, string(status))
		}

		_, total, err := s.loanRepo.ListByStatuses(ctx, names, 0, 1)
		if err != nil {
			s.logger.Warn("queue reminder count failed",
				zap.String("role", string(role)),
				zap.Error(err))
			continue
		}
		if total == 0 {
			continue
		}

		s.dispatcher.broadcastToRole(ctx, nil, role,
			"Pengingat Antrian",
			fmt.Sprintf("Ada %d pengajuan pinjaman menunggu tindakan Anda hari ini.", total),
			nil)
	}
}
