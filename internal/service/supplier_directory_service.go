package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/productmanager/manager_api/internal/models"
	"github.com/productmanager/manager_api/internal/repository"
	"github.com/productmanager/manager_api/internal/utils"
)

const (
	supplierCreateFailed = "critical error creating supplier"
	supplierEditFailed   = "critical error editing supplier"
	supplierDeleteFailed = "critical error deleting supplier"
	supplierReadFailed   = "critical error reading suppliers"
	trashCleanFailed     = "critical error cleaning trash"
	supplierSelectFailed = "error loading supplier selection"
)

// SupplierDirectoryService handles supplier CRUD. Deletion toggles the
// deleted flag, so the same call restores a trashed supplier; trashed
// suppliers can be purged with CleanTrash.
type SupplierDirectoryService struct {
	suppliers *auditedCollection[models.Supplier]
}

// NewSupplierDirectoryService constructs a SupplierDirectoryService.
func NewSupplierDirectoryService(store repository.DocumentStore) *SupplierDirectoryService {
	return &SupplierDirectoryService{
		suppliers: newAuditedCollection[models.Supplier](store, models.SupplierCollection),
	}
}

// SetClock replaces the time source used for history timestamps.
func (s *SupplierDirectoryService) SetClock(now func() time.Time) {
	s.suppliers.now = now
}

func (s *SupplierDirectoryService) fail(op, message, code string, err error) error {
	log.Error().Err(err).Str("op", op).Str("code", code).Msg("supplier store call failed")
	return utils.NewCrudError(op, message, err)
}

// Create stores supplier with a single creation history entry.
func (s *SupplierDirectoryService) Create(ctx context.Context, user models.User, supplier *models.Supplier) (*models.Response[*models.Supplier], error) {
	supplier.Deleted = false
	supplier.History = []models.HistoryEntry{s.suppliers.entry(historyCreated, user)}

	if err := s.suppliers.insert(ctx, supplier.Code, supplier); err != nil {
		return nil, s.fail(utils.OpCreate, supplierCreateFailed, supplier.Code, err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpCreate, supplierCreateFailed, supplier.Code, err)
	}

	log.Info().Str("code", supplier.Code).Str("user", user.Code).Msg("supplier created")
	return &models.Response[*models.Supplier]{Count: count, Payload: supplier, Message: msgOK}, nil
}

// Update overwrites name, email, phone and observation and appends an update
// entry. An unknown code reports zero modifications.
func (s *SupplierDirectoryService) Update(ctx context.Context, user models.User, supplier *models.Supplier) (*models.Response[*models.Supplier], error) {
	u := repository.NewUpdate().
		Set(models.FieldName, supplier.Name).
		Set(models.FieldEmail, supplier.Email).
		Set(models.FieldPhone, supplier.Phone).
		Set(models.FieldObservation, supplier.Observation)

	modified, err := s.suppliers.appendHistory(ctx, supplier.Code, s.suppliers.entry(historyUpdated, user), u)
	if err != nil {
		return nil, s.fail(utils.OpEdit, supplierEditFailed, supplier.Code, err)
	}

	updated, err := s.suppliers.findByCode(ctx, supplier.Code)
	if err != nil {
		return nil, s.fail(utils.OpEdit, supplierEditFailed, supplier.Code, err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpEdit, supplierEditFailed, supplier.Code, err)
	}

	return &models.Response[*models.Supplier]{
		Count:   count,
		Payload: updated,
		Message: modificationsMessage(modified),
	}, nil
}

// Delete flips the deleted flag of the supplier and appends a deletion entry
// whichever direction the flag moves. The read and the write are separate
// store calls: two concurrent toggles may both observe the same state, which
// leaves the flag set once with two history entries.
func (s *SupplierDirectoryService) Delete(ctx context.Context, user models.User, code string) (*models.Response[int64], error) {
	current, err := s.suppliers.findByCode(ctx, code)
	if err != nil {
		return nil, s.fail(utils.OpDelete, supplierDeleteFailed, code, err)
	}
	if current == nil {
		return nil, s.fail(utils.OpDelete, supplierDeleteFailed, code, repository.ErrNotFound)
	}

	u := repository.NewUpdate().Set(models.FieldDeleted, !current.Deleted)
	modified, err := s.suppliers.appendHistory(ctx, code, s.suppliers.entry(historyDeleted, user), u)
	if err != nil {
		return nil, s.fail(utils.OpDelete, supplierDeleteFailed, code, err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpDelete, supplierDeleteFailed, code, err)
	}

	log.Info().
		Str("code", code).
		Str("user", user.Code).
		Bool("deleted", !current.Deleted).
		Msg("supplier delete toggled")
	return &models.Response[int64]{Count: count, Payload: modified, Message: msgOK}, nil
}

// CleanTrash permanently removes trashed suppliers, or only the trashed
// supplier with the given code when code is not empty. History is not
// touched. The response count is the trash count after removal.
func (s *SupplierDirectoryService) CleanTrash(ctx context.Context, code string) (*models.Response[int64], error) {
	q := repository.NewQuery(repository.Where(models.FieldDeleted, true))
	if code != "" {
		q.And(repository.Where(models.FieldCode, code))
	}

	removed, err := s.suppliers.store.Remove(ctx, s.suppliers.name, q)
	if err != nil {
		return nil, s.fail(utils.OpCleanTrash, trashCleanFailed, code, err)
	}

	count, err := s.trashCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpCleanTrash, trashCleanFailed, code, err)
	}

	log.Info().Str("code", code).Int64("removed", removed).Msg("supplier trash cleaned")
	return &models.Response[int64]{Count: count, Payload: removed, Message: msgOK}, nil
}

// Read returns one page of the deleted partition sorted by name descending.
// Count is the size of the partition that was read.
func (s *SupplierDirectoryService) Read(ctx context.Context, skip, limit int, deleted bool) (*models.Response[[]models.Supplier], error) {
	skip, limit = ClampPage(skip, limit)

	suppliers, err := s.suppliers.page(ctx, listQuery(skip, limit, deleted, true))
	if err != nil {
		return nil, s.fail(utils.OpRead, supplierReadFailed, "", err)
	}

	count, err := s.suppliers.count(ctx, deleted)
	if err != nil {
		return nil, s.fail(utils.OpRead, supplierReadFailed, "", err)
	}
	return &models.Response[[]models.Supplier]{Count: count, Payload: suppliers, Message: msgOK}, nil
}

// ReadFiltered returns one page of suppliers whose filter field matches search
// case-insensitively. Count is scoped to the same partition and filter.
func (s *SupplierDirectoryService) ReadFiltered(ctx context.Context, skip, limit int, filter models.SupplierFilter, search string, deleted bool) (*models.Response[[]models.Supplier], error) {
	field, ok := filter.Field()
	if !ok {
		return nil, s.fail(utils.OpRead, supplierReadFailed, "", fmt.Errorf("%w: %q", utils.ErrInvalidFilter, filter))
	}

	skip, limit = ClampPage(skip, limit)
	suppliers, err := s.suppliers.page(ctx, listQuery(skip, limit, deleted, true, repository.Matches(field, search)))
	if err != nil {
		return nil, s.fail(utils.OpRead, supplierReadFailed, "", err)
	}

	var count int64
	if deleted {
		count, err = s.QuantityTrash(ctx, filter, search)
	} else {
		count, err = s.Quantity(ctx, filter, search)
	}
	if err != nil {
		return nil, s.fail(utils.OpRead, supplierReadFailed, "", err)
	}
	return &models.Response[[]models.Supplier]{Count: count, Payload: suppliers, Message: msgOK}, nil
}

// ReadSelect projects every supplier, trashed ones included, to {code, name}.
func (s *SupplierDirectoryService) ReadSelect(ctx context.Context) (*models.Response[[]models.SupplierSelect], error) {
	var options []models.SupplierSelect
	if err := s.suppliers.store.Find(ctx, s.suppliers.name, repository.NewQuery(), &options); err != nil {
		return nil, s.fail(utils.OpSelect, supplierSelectFailed, "", err)
	}

	count, err := s.activeCount(ctx)
	if err != nil {
		return nil, s.fail(utils.OpSelect, supplierSelectFailed, "", err)
	}
	return &models.Response[[]models.SupplierSelect]{Count: count, Payload: options, Message: msgOK}, nil
}

// Get returns a single supplier with its full history.
func (s *SupplierDirectoryService) Get(ctx context.Context, code string) (*models.Response[*models.Supplier], error) {
	supplier, err := s.suppliers.findByCode(ctx, code)
	if err != nil {
		return nil, s.fail(utils.OpRead, supplierReadFailed, code, err)
	}
	if supplier == nil {
		return nil, utils.NewCrudError(utils.OpRead, supplierReadFailed, repository.ErrNotFound)
	}

	count, err := s.suppliers.count(ctx, supplier.Deleted)
	if err != nil {
		return nil, s.fail(utils.OpRead, supplierReadFailed, code, err)
	}
	return &models.Response[*models.Supplier]{Count: count, Payload: supplier, Message: msgOK}, nil
}

// Quantity counts active suppliers whose filter field matches search.
func (s *SupplierDirectoryService) Quantity(ctx context.Context, filter models.SupplierFilter, search string) (int64, error) {
	return s.filteredCount(ctx, false, filter, search)
}

// QuantityTrash counts trashed suppliers whose filter field matches search.
func (s *SupplierDirectoryService) QuantityTrash(ctx context.Context, filter models.SupplierFilter, search string) (int64, error) {
	return s.filteredCount(ctx, true, filter, search)
}

func (s *SupplierDirectoryService) filteredCount(ctx context.Context, deleted bool, filter models.SupplierFilter, search string) (int64, error) {
	field, ok := filter.Field()
	if !ok {
		return 0, fmt.Errorf("%w: %q", utils.ErrInvalidFilter, filter)
	}
	return s.suppliers.count(ctx, deleted, repository.Matches(field, search))
}

func (s *SupplierDirectoryService) activeCount(ctx context.Context) (int64, error) {
	return s.suppliers.count(ctx, false)
}

func (s *SupplierDirectoryService) trashCount(ctx context.Context) (int64, error) {
	return s.suppliers.count(ctx, true)
}
