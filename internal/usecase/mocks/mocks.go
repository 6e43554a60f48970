// Package mocks provides hand-rolled, configurable mock implementations of
// the usecase ports for table-driven tests.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/usecase"
)

// MockObligationRepository is a mock implementation of ObligationRepository.
type MockObligationRepository struct {
	mu          sync.RWMutex
	obligations map[string]*domain.Obligation

	CreateFunc           func(ctx context.Context, obligation *domain.Obligation) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Obligation, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Obligation, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.ObligationStatus, updatedAt time.Time) error
	ListFunc             func(ctx context.Context, kind domain.ObligationKind, limit, offset int) ([]*domain.Obligation, error)
}

func NewMockObligationRepository() *MockObligationRepository {
	return &MockObligationRepository{obligations: make(map[string]*domain.Obligation)}
}

// Seed inserts an obligation directly into the backing map.
func (m *MockObligationRepository) Seed(o *domain.Obligation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obligations[o.ID] = o
}

func (m *MockObligationRepository) Create(ctx context.Context, o *domain.Obligation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, o)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obligations[o.ID] = o
	return nil
}

func (m *MockObligationRepository) GetByID(ctx context.Context, id string) (*domain.Obligation, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if o, ok := m.obligations[id]; ok {
		return o, nil
	}
	return nil, domain.ErrObligationNotFound
}

func (m *MockObligationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Obligation, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockObligationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.ObligationStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.obligations[id]
	if !ok {
		return domain.ErrObligationNotFound
	}
	o.Status = status
	o.UpdatedAt = updatedAt
	return nil
}

func (m *MockObligationRepository) List(ctx context.Context, kind domain.ObligationKind, limit, offset int) ([]*domain.Obligation, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, kind, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Obligation
	for _, o := range m.obligations {
		if kind == "" || o.Kind == kind {
			result = append(result, o)
		}
	}
	return result, nil
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.MovementStatus, updatedAt time.Time) error
	ListByBatchFunc      func(ctx context.Context, tx usecase.Transaction, batchID string) ([]*domain.Movement, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{movements: make(map[string]*domain.Movement)}
}

// Seed inserts a movement directly into the backing map.
func (m *MockMovementRepository) Seed(mv *domain.Movement) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[mv.ID] = mv
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, mv *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, mv)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.movements[mv.ID] = mv
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[id]; ok {
		return mv, nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockMovementRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.MovementStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mv, ok := m.movements[id]
	if !ok {
		return domain.ErrMovementNotFound
	}
	mv.Status = status
	mv.UpdatedAt = updatedAt
	return nil
}

func (m *MockMovementRepository) ListActiveByObligation(ctx context.Context, obligationID string) ([]*domain.Movement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Movement
	for _, mv := range m.movements {
		if mv.ObligationID == obligationID && mv.IsActive() {
			result = append(result, mv)
		}
	}
	return result, nil
}

func (m *MockMovementRepository) ListByBatch(ctx context.Context, tx usecase.Transaction, batchID string) ([]*domain.Movement, error) {
	if m.ListByBatchFunc != nil {
		return m.ListByBatchFunc(ctx, tx, batchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Movement
	for _, mv := range m.movements {
		if mv.BatchID != nil && *mv.BatchID == batchID {
			result = append(result, mv)
		}
	}
	return result, nil
}

func (m *MockMovementRepository) SumActiveByObligation(ctx context.Context, obligationID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, mv := range m.movements {
		if mv.ObligationID == obligationID && mv.IsActive() {
			sum = sum.Add(mv.Quantity)
		}
	}
	return sum, nil
}

func (m *MockMovementRepository) SumActiveByObligationTx(ctx context.Context, tx usecase.Transaction, obligationID string) (decimal.Decimal, error) {
	return m.SumActiveByObligation(ctx, obligationID)
}

// MockLiquidationRepository is a mock implementation of LiquidationRepository.
type MockLiquidationRepository struct {
	mu      sync.RWMutex
	batches map[string]*domain.LiquidationBatch

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, batch *domain.LiquidationBatch) error
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.LiquidationBatch, error)
	UpdateStatusFunc     func(ctx context.Context, tx usecase.Transaction, id string, status domain.LiquidationStatus, updatedAt time.Time) error
}

func NewMockLiquidationRepository() *MockLiquidationRepository {
	return &MockLiquidationRepository{batches: make(map[string]*domain.LiquidationBatch)}
}

// Seed inserts a batch directly into the backing map.
func (m *MockLiquidationRepository) Seed(b *domain.LiquidationBatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[b.ID] = b
}

func (m *MockLiquidationRepository) Create(ctx context.Context, tx usecase.Transaction, b *domain.LiquidationBatch) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, b)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[b.ID] = b
	return nil
}

func (m *MockLiquidationRepository) GetByID(ctx context.Context, id string) (*domain.LiquidationBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.batches[id]; ok {
		return b, nil
	}
	return nil, domain.ErrLiquidationNotFound
}

func (m *MockLiquidationRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.LiquidationBatch, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockLiquidationRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.LiquidationStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.batches[id]
	if !ok {
		return domain.ErrLiquidationNotFound
	}
	b.Status = status
	b.UpdatedAt = updatedAt
	return nil
}

func (m *MockLiquidationRepository) ListByObligation(ctx context.Context, obligationID string, limit, offset int) ([]*domain.LiquidationBatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.LiquidationBatch
	for _, b := range m.batches {
		if b.ObligationID == obligationID {
			result = append(result, b)
		}
	}
	return result, nil
}

// MockAuditRepository records audit logs in memory.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

// MockTransaction tracks commit/rollback calls.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTransactionManager hands out MockTransactions and remembers them.
type MockTransactionManager struct {
	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc             func(ctx context.Context) (usecase.Transaction, error)
	BeginSerializableFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return m.track(), nil
}

func (m *MockTransactionManager) BeginSerializable(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginSerializableFunc != nil {
		return m.BeginSerializableFunc(ctx)
	}
	return m.track(), nil
}

func (m *MockTransactionManager) track() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTransaction{}
	m.Transactions = append(m.Transactions, tx)
	return tx
}

// Last returns the most recently begun transaction.
func (m *MockTransactionManager) Last() *MockTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Transactions) == 0 {
		return nil
	}
	return m.Transactions[len(m.Transactions)-1]
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

// MockRetrier executes the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}
