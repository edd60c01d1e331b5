package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/websocket"
)

// MockTxManager implements domain.TxManager without a database.
// fn runs with a nil transaction handle; the mock repositories ignore it.
type MockTxManager struct {
	BeginErr  error
	CommitErr error
	Calls     int
}

// WithinTx runs fn immediately
func (m *MockTxManager) WithinTx(ctx context.Context, fn func(tx interface{}) error) error {
	m.Calls++
	if m.BeginErr != nil {
		return m.BeginErr
	}
	if err := fn(nil); err != nil {
		return err
	}
	return m.CommitErr
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:      uuid.New(),
		Auth0ID: auth0ID,
		Email:   email,
		Name:    name,
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockLoanRepository is a mock implementation of domain.LoanRepository
type MockLoanRepository struct {
	Loans  map[int64]*domain.Loan
	NextID int64
}

// NewMockLoanRepository creates a new MockLoanRepository
func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{
		Loans:  make(map[int64]*domain.Loan),
		NextID: 1,
	}
}

// CreateTx inserts a loan, ignoring the transaction handle
func (m *MockLoanRepository) CreateTx(tx interface{}, loan *domain.Loan) (*domain.Loan, error) {
	stored := *loan
	stored.ID = m.NextID
	m.NextID++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.Loans[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a loan by ID
func (m *MockLoanRepository) GetByID(id int64) (*domain.Loan, error) {
	if loan, ok := m.Loans[id]; ok {
		copied := *loan
		return &copied, nil
	}
	return nil, domain.ErrLoanNotFound
}

// GetByIDForUpdateTx retrieves a loan by ID, ignoring the transaction handle
func (m *MockLoanRepository) GetByIDForUpdateTx(tx interface{}, id int64) (*domain.Loan, error) {
	return m.GetByID(id)
}

// GetByUser retrieves all loans for a user, newest first
func (m *MockLoanRepository) GetByUser(userID uuid.UUID) ([]*domain.Loan, error) {
	var loans []*domain.Loan
	for _, loan := range m.Loans {
		if loan.UserID == userID {
			copied := *loan
			loans = append(loans, &copied)
		}
	}
	sort.Slice(loans, func(i, j int) bool { return loans[i].ID > loans[j].ID })
	return loans, nil
}

// UpdateBalanceTx updates a loan's status and outstanding amount
func (m *MockLoanRepository) UpdateBalanceTx(tx interface{}, id int64, status domain.LoanStatus, outstanding int64) (*domain.Loan, error) {
	loan, ok := m.Loans[id]
	if !ok {
		return nil, domain.ErrLoanNotFound
	}
	loan.Status = status
	loan.OutstandingAmount = outstanding
	loan.UpdatedAt = time.Now()
	copied := *loan
	return &copied, nil
}

// AddLoan adds a loan to the mock repository (helper for tests)
func (m *MockLoanRepository) AddLoan(loan *domain.Loan) {
	if loan.ID == 0 {
		loan.ID = m.NextID
		m.NextID++
	} else if loan.ID >= m.NextID {
		m.NextID = loan.ID + 1
	}
	m.Loans[loan.ID] = loan
}

// MockScheduledRepaymentRepository is a mock implementation of domain.ScheduledRepaymentRepository
type MockScheduledRepaymentRepository struct {
	Repayments map[int64]*domain.ScheduledRepayment
	NextID     int64
}

// NewMockScheduledRepaymentRepository creates a new MockScheduledRepaymentRepository
func NewMockScheduledRepaymentRepository() *MockScheduledRepaymentRepository {
	return &MockScheduledRepaymentRepository{
		Repayments: make(map[int64]*domain.ScheduledRepayment),
		NextID:     1,
	}
}

// CreateBatchTx inserts a schedule, ignoring the transaction handle
func (m *MockScheduledRepaymentRepository) CreateBatchTx(tx interface{}, repayments []*domain.ScheduledRepayment) error {
	for _, sr := range repayments {
		sr.ID = m.NextID
		m.NextID++
		sr.CreatedAt = time.Now()
		sr.UpdatedAt = sr.CreatedAt
		stored := *sr
		m.Repayments[sr.ID] = &stored
	}
	return nil
}

// GetByLoan retrieves all installments of a loan in schedule order
func (m *MockScheduledRepaymentRepository) GetByLoan(loanID int64) ([]*domain.ScheduledRepayment, error) {
	var repayments []*domain.ScheduledRepayment
	for _, sr := range m.Repayments {
		if sr.LoanID == loanID {
			copied := *sr
			repayments = append(repayments, &copied)
		}
	}
	sortSchedule(repayments)
	return repayments, nil
}

// GetSettleableTx retrieves the due and partial installments of a loan
func (m *MockScheduledRepaymentRepository) GetSettleableTx(tx interface{}, loanID int64) ([]*domain.ScheduledRepayment, error) {
	var repayments []*domain.ScheduledRepayment
	for _, sr := range m.Repayments {
		if sr.LoanID != loanID {
			continue
		}
		if sr.Status == domain.RepaymentStatusDue || sr.Status == domain.RepaymentStatusPartial {
			copied := *sr
			repayments = append(repayments, &copied)
		}
	}
	sortSchedule(repayments)
	return repayments, nil
}

// UpdateAllocationTx updates an installment's status and outstanding amount
func (m *MockScheduledRepaymentRepository) UpdateAllocationTx(tx interface{}, id int64, status domain.RepaymentStatus, outstanding int64) error {
	sr, ok := m.Repayments[id]
	if !ok {
		return domain.ErrScheduledRepaymentNotFound
	}
	sr.Status = status
	sr.OutstandingAmount = outstanding
	sr.UpdatedAt = time.Now()
	return nil
}

// SumAmountByStatusTx sums installment amounts with the given status
func (m *MockScheduledRepaymentRepository) SumAmountByStatusTx(tx interface{}, loanID int64, status domain.RepaymentStatus) (int64, error) {
	var sum int64
	for _, sr := range m.Repayments {
		if sr.LoanID == loanID && sr.Status == status {
			sum += sr.Amount
		}
	}
	return sum, nil
}

// SumOutstandingByStatusTx sums installment outstanding amounts with the given status
func (m *MockScheduledRepaymentRepository) SumOutstandingByStatusTx(tx interface{}, loanID int64, status domain.RepaymentStatus) (int64, error) {
	var sum int64
	for _, sr := range m.Repayments {
		if sr.LoanID == loanID && sr.Status == status {
			sum += sr.OutstandingAmount
		}
	}
	return sum, nil
}

func sortSchedule(repayments []*domain.ScheduledRepayment) {
	sort.Slice(repayments, func(i, j int) bool {
		if repayments[i].DueDate.Equal(repayments[j].DueDate) {
			return repayments[i].ID < repayments[j].ID
		}
		return repayments[i].DueDate.Before(repayments[j].DueDate)
	})
}

// MockReceivedRepaymentRepository is a mock implementation of domain.ReceivedRepaymentRepository
type MockReceivedRepaymentRepository struct {
	Repayments map[int64]*domain.ReceivedRepayment
	NextID     int64
}

// NewMockReceivedRepaymentRepository creates a new MockReceivedRepaymentRepository
func NewMockReceivedRepaymentRepository() *MockReceivedRepaymentRepository {
	return &MockReceivedRepaymentRepository{
		Repayments: make(map[int64]*domain.ReceivedRepayment),
		NextID:     1,
	}
}

// CreateTx inserts a received repayment, ignoring the transaction handle
func (m *MockReceivedRepaymentRepository) CreateTx(tx interface{}, repayment *domain.ReceivedRepayment) (*domain.ReceivedRepayment, error) {
	stored := *repayment
	stored.ID = m.NextID
	m.NextID++
	stored.CreatedAt = time.Now()
	m.Repayments[stored.ID] = &stored
	return &stored, nil
}

// GetByLoan retrieves a loan's received repayments, oldest first
func (m *MockReceivedRepaymentRepository) GetByLoan(loanID int64) ([]*domain.ReceivedRepayment, error) {
	var repayments []*domain.ReceivedRepayment
	for _, rr := range m.Repayments {
		if rr.LoanID == loanID {
			copied := *rr
			repayments = append(repayments, &copied)
		}
	}
	sort.Slice(repayments, func(i, j int) bool { return repayments[i].ID < repayments[j].ID })
	return repayments, nil
}

// MockDebitCardRepository is a mock implementation of domain.DebitCardRepository
type MockDebitCardRepository struct {
	Cards  map[int64]*domain.DebitCard
	NextID int64
}

// NewMockDebitCardRepository creates a new MockDebitCardRepository
func NewMockDebitCardRepository() *MockDebitCardRepository {
	return &MockDebitCardRepository{
		Cards:  make(map[int64]*domain.DebitCard),
		NextID: 1,
	}
}

// Create inserts a debit card
func (m *MockDebitCardRepository) Create(card *domain.DebitCard) (*domain.DebitCard, error) {
	stored := *card
	stored.ID = m.NextID
	m.NextID++
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.Cards[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a debit card by ID
func (m *MockDebitCardRepository) GetByID(id int64) (*domain.DebitCard, error) {
	if card, ok := m.Cards[id]; ok {
		copied := *card
		return &copied, nil
	}
	return nil, domain.ErrDebitCardNotFound
}

// GetActiveByUser retrieves a user's cards that have not been disabled
func (m *MockDebitCardRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.DebitCard, error) {
	var cards []*domain.DebitCard
	for _, card := range m.Cards {
		if card.UserID == userID && card.DisabledAt == nil {
			copied := *card
			cards = append(cards, &copied)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID > cards[j].ID })
	return cards, nil
}

// UpdateDisabledAt sets or clears a card's disabled timestamp
func (m *MockDebitCardRepository) UpdateDisabledAt(id int64, disabledAt *time.Time) (*domain.DebitCard, error) {
	card, ok := m.Cards[id]
	if !ok {
		return nil, domain.ErrDebitCardNotFound
	}
	card.DisabledAt = disabledAt
	card.UpdatedAt = time.Now()
	copied := *card
	return &copied, nil
}

// Delete removes a debit card
func (m *MockDebitCardRepository) Delete(id int64) error {
	if _, ok := m.Cards[id]; !ok {
		return domain.ErrDebitCardNotFound
	}
	delete(m.Cards, id)
	return nil
}

// AddCard adds a debit card to the mock repository (helper for tests)
func (m *MockDebitCardRepository) AddCard(card *domain.DebitCard) {
	if card.ID == 0 {
		card.ID = m.NextID
		m.NextID++
	} else if card.ID >= m.NextID {
		m.NextID = card.ID + 1
	}
	m.Cards[card.ID] = card
}

// MockDebitCardTransactionRepository is a mock implementation of domain.DebitCardTransactionRepository
type MockDebitCardTransactionRepository struct {
	Transactions map[int64]*domain.DebitCardTransaction
	NextID       int64
}

// NewMockDebitCardTransactionRepository creates a new MockDebitCardTransactionRepository
func NewMockDebitCardTransactionRepository() *MockDebitCardTransactionRepository {
	return &MockDebitCardTransactionRepository{
		Transactions: make(map[int64]*domain.DebitCardTransaction),
		NextID:       1,
	}
}

// Create inserts a debit card transaction
func (m *MockDebitCardTransactionRepository) Create(transaction *domain.DebitCardTransaction) (*domain.DebitCardTransaction, error) {
	stored := *transaction
	stored.ID = m.NextID
	m.NextID++
	stored.CreatedAt = time.Now()
	m.Transactions[stored.ID] = &stored
	return &stored, nil
}

// GetByID retrieves a debit card transaction by ID
func (m *MockDebitCardTransactionRepository) GetByID(id int64) (*domain.DebitCardTransaction, error) {
	if transaction, ok := m.Transactions[id]; ok {
		copied := *transaction
		return &copied, nil
	}
	return nil, domain.ErrDebitCardTransactionNotFound
}

// GetByCard retrieves a card's transactions, newest first
func (m *MockDebitCardTransactionRepository) GetByCard(debitCardID int64) ([]*domain.DebitCardTransaction, error) {
	var transactions []*domain.DebitCardTransaction
	for _, transaction := range m.Transactions {
		if transaction.DebitCardID == debitCardID {
			copied := *transaction
			transactions = append(transactions, &copied)
		}
	}
	sort.Slice(transactions, func(i, j int) bool { return transactions[i].ID > transactions[j].ID })
	return transactions, nil
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent pairs an event with the user it was published to
type PublishedEvent struct {
	UserID uuid.UUID
	Event  websocket.Event
}

// Publish records the event
func (m *MockEventPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{UserID: userID, Event: event})
}

// EventTypes returns the types of all published events in order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, pe := range m.Events {
		types = append(types, pe.Event.Type)
	}
	return types
}
