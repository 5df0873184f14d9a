package service

import (
	"context"
	"fmt"
	"time"

	"centre-ledger/internal/core/domain"
	"centre-ledger/internal/core/ports"
	"centre-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService. Everything here is
// derived from the ledger at read time; no snapshot rows are stored.
type ReportingServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	log        zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	log zerolog.Logger,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		log:        log,
	}
}

// CentreSnapshot returns today's opening/closing view for every wallet of
// the actor's centre that the actor may see.
func (s *ReportingServiceImpl) CentreSnapshot(ctx context.Context, actor domain.Actor) (*ports.CentreSnapshot, error) {
	centreID := actor.CentreID
	staffID := actor.StaffID
	wallets, err := s.walletRepo.List(ctx, ports.WalletFilter{
		CentreID:     &centreID,
		AccessibleTo: &staffID,
	})
	if err != nil {
		return nil, apperror.Persistence(fmt.Errorf("list wallets: %w", err))
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	snapshot := &ports.CentreSnapshot{
		CentreID:    actor.CentreID,
		GeneratedAt: now,
		Wallets:     make([]ports.WalletDaySnapshot, 0, len(wallets)),
	}
	for _, w := range wallets {
		totals, err := s.txRepo.Totals(ctx, w.ID, dayStart, dayEnd)
		if err != nil {
			return nil, apperror.Persistence(fmt.Errorf("ledger totals for wallet %s: %w", w.ID, err))
		}
		snapshot.Wallets = append(snapshot.Wallets, ports.WalletDaySnapshot{
			WalletID: w.ID,
			Name:     w.Name,
			Type:     w.Type,
			Opening:  w.Balance - totals.Signed(),
			Closing:  w.Balance,
			Credits:  totals.Credits,
			Debits:   totals.Debits,
		})
	}
	return snapshot, nil
}
