package command

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"

	"github.com/eaglebank/banque/internal/cqrs"
	"github.com/eaglebank/banque/internal/events"
	"github.com/eaglebank/banque/internal/metrics"
	"github.com/eaglebank/banque/internal/models"
	"github.com/eaglebank/banque/internal/repository"
)

// AccountCommandService writes account state and invalidates the cached read
// view of every account it touches.
type AccountCommandService struct {
	store     repository.AccountRepository
	readRepo  *repository.AccountReadRepository
	publisher events.Publisher
}

func NewAccountCommandService(
	store repository.AccountRepository,
	readRepo *repository.AccountReadRepository,
	publisher events.Publisher,
) *AccountCommandService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &AccountCommandService{
		store:     store,
		readRepo:  readRepo,
		publisher: publisher,
	}
}

// CreateAccount persists a new account and returns it with its assigned id.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (*models.Account, error) {
	account := &models.Account{
		Balance:      cmd.Balance,
		CreationDate: cmd.CreationDate,
		Type:         cmd.Type,
	}
	if err := s.store.Save(ctx, account); err != nil {
		metrics.RecordOperation("create", metrics.OutcomeError)
		return nil, err
	}
	metrics.RecordOperation("create", metrics.OutcomeOK)

	s.readRepo.InvalidateAccountView(ctx, account.ID)
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		ID:           account.ID,
		Balance:      account.Balance.String(),
		CreationDate: account.CreationDate.String(),
		Type:         account.Type,
	})
	return account, nil
}

// UpdateAccount overwrites balance, creation date and type of an existing
// account. The id is never changed. Returns repository.ErrAccountNotFound
// when there is nothing to update.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (*models.Account, error) {
	account, err := s.store.FindByID(ctx, cmd.ID)
	if err != nil {
		recordOutcome("update", err)
		return nil, err
	}

	account.Balance = cmd.Balance
	account.CreationDate = cmd.CreationDate
	account.Type = cmd.Type
	if err := s.store.Save(ctx, account); err != nil {
		recordOutcome("update", err)
		return nil, err
	}
	metrics.RecordOperation("update", metrics.OutcomeOK)

	s.readRepo.InvalidateAccountView(ctx, account.ID)
	s.publish(ctx, events.AccountUpdated, events.AccountUpdatedEvent{
		ID:           account.ID,
		Balance:      account.Balance.String(),
		CreationDate: account.CreationDate.String(),
		Type:         account.Type,
	})
	return account, nil
}

// DeleteAccount removes the account if it exists. Deleting an unknown id is
// not an error.
func (s *AccountCommandService) DeleteAccount(ctx context.Context, cmd cqrs.DeleteAccountCommand) error {
	removed, err := s.store.DeleteByID(ctx, cmd.ID)
	if err != nil {
		metrics.RecordOperation("delete", metrics.OutcomeError)
		return err
	}
	s.readRepo.InvalidateAccountView(ctx, cmd.ID)

	if !removed {
		metrics.RecordOperation("delete", metrics.OutcomeNotFound)
		return nil
	}
	metrics.RecordOperation("delete", metrics.OutcomeOK)
	s.publish(ctx, events.AccountDeleted, events.AccountDeletedEvent{ID: cmd.ID})
	return nil
}

func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, eventType, data); err != nil {
		log.WithError(err).WithField("event", eventType).Warn("failed to publish event")
	}
}

func recordOutcome(operation string, err error) {
	if errors.Is(err, repository.ErrAccountNotFound) {
		metrics.RecordOperation(operation, metrics.OutcomeNotFound)
		return
	}
	metrics.RecordOperation(operation, metrics.OutcomeError)
}
