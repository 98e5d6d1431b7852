//	mockgen -destination=internal/adapter/http/handler/mocks/mock_services.go -package=mocks github.com/iho/bankledger/internal/adapter/http/handler HolderService,AccountService,LedgerService,TransactionService,ReconciliationService
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	domain "github.com/iho/bankledger/internal/domain"
	usecase "github.com/iho/bankledger/internal/usecase"
	decimal "github.com/shopspring/decimal"
	gomock "go.uber.org/mock/gomock"
)

// MockHolderService is a mock of HolderService interface.
type MockHolderService struct {
	ctrl     *gomock.Controller
	recorder *MockHolderServiceMockRecorder
	isgomock struct{}
}

// MockHolderServiceMockRecorder is the mock recorder for MockHolderService.
type MockHolderServiceMockRecorder struct {
	mock *MockHolderService
}

// NewMockHolderService creates a new mock instance.
func NewMockHolderService(ctrl *gomock.Controller) *MockHolderService {
	mock := &MockHolderService{ctrl: ctrl}
	mock.recorder = &MockHolderServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHolderService) EXPECT() *MockHolderServiceMockRecorder {
	return m.recorder
}

// CreateHolder mocks base method.
func (m *MockHolderService) CreateHolder(ctx context.Context, input usecase.CreateHolderInput) (*domain.Holder, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateHolder", ctx, input)
	ret0, _ := ret[0].(*domain.Holder)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateHolder indicates an expected call of CreateHolder.
func (mr *MockHolderServiceMockRecorder) CreateHolder(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateHolder", reflect.TypeOf((*MockHolderService)(nil).CreateHolder), ctx, input)
}

// GetHolder mocks base method.
func (m *MockHolderService) GetHolder(ctx context.Context, id string) (*domain.Holder, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetHolder", ctx, id)
	ret0, _ := ret[0].(*domain.Holder)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetHolder indicates an expected call of GetHolder.
func (mr *MockHolderServiceMockRecorder) GetHolder(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetHolder", reflect.TypeOf((*MockHolderService)(nil).GetHolder), ctx, id)
}

// ListHolders mocks base method.
func (m *MockHolderService) ListHolders(ctx context.Context, input usecase.ListHoldersInput) ([]*domain.Holder, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListHolders", ctx, input)
	ret0, _ := ret[0].([]*domain.Holder)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListHolders indicates an expected call of ListHolders.
func (mr *MockHolderServiceMockRecorder) ListHolders(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListHolders", reflect.TypeOf((*MockHolderService)(nil).ListHolders), ctx, input)
}

// MockAccountService is a mock of AccountService interface.
type MockAccountService struct {
	ctrl     *gomock.Controller
	recorder *MockAccountServiceMockRecorder
	isgomock struct{}
}

// MockAccountServiceMockRecorder is the mock recorder for MockAccountService.
type MockAccountServiceMockRecorder struct {
	mock *MockAccountService
}

// NewMockAccountService creates a new mock instance.
func NewMockAccountService(ctrl *gomock.Controller) *MockAccountService {
	mock := &MockAccountService{ctrl: ctrl}
	mock.recorder = &MockAccountServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAccountService) EXPECT() *MockAccountServiceMockRecorder {
	return m.recorder
}

// GetAccount mocks base method.
func (m *MockAccountService) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetAccount", ctx, id)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetAccount indicates an expected call of GetAccount.
func (mr *MockAccountServiceMockRecorder) GetAccount(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetAccount", reflect.TypeOf((*MockAccountService)(nil).GetAccount), ctx, id)
}

// ListAccounts mocks base method.
func (m *MockAccountService) ListAccounts(ctx context.Context, input usecase.ListAccountsInput) ([]*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListAccounts", ctx, input)
	ret0, _ := ret[0].([]*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListAccounts indicates an expected call of ListAccounts.
func (mr *MockAccountServiceMockRecorder) ListAccounts(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListAccounts", reflect.TypeOf((*MockAccountService)(nil).ListAccounts), ctx, input)
}

// OpenAccount mocks base method.
func (m *MockAccountService) OpenAccount(ctx context.Context, input usecase.OpenAccountInput) (*domain.Account, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenAccount", ctx, input)
	ret0, _ := ret[0].(*domain.Account)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenAccount indicates an expected call of OpenAccount.
func (mr *MockAccountServiceMockRecorder) OpenAccount(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenAccount", reflect.TypeOf((*MockAccountService)(nil).OpenAccount), ctx, input)
}

// MockLedgerService is a mock of LedgerService interface.
type MockLedgerService struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerServiceMockRecorder
	isgomock struct{}
}

// MockLedgerServiceMockRecorder is the mock recorder for MockLedgerService.
type MockLedgerServiceMockRecorder struct {
	mock *MockLedgerService
}

// NewMockLedgerService creates a new mock instance.
func NewMockLedgerService(ctrl *gomock.Controller) *MockLedgerService {
	mock := &MockLedgerService{ctrl: ctrl}
	mock.recorder = &MockLedgerServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedgerService) EXPECT() *MockLedgerServiceMockRecorder {
	return m.recorder
}

// AccrueInterest mocks base method.
func (m *MockLedgerService) AccrueInterest(ctx context.Context, accountID string) (decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AccrueInterest", ctx, accountID)
	ret0, _ := ret[0].(decimal.Decimal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AccrueInterest indicates an expected call of AccrueInterest.
func (mr *MockLedgerServiceMockRecorder) AccrueInterest(ctx, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AccrueInterest", reflect.TypeOf((*MockLedgerService)(nil).AccrueInterest), ctx, accountID)
}

// Deposit mocks base method.
func (m *MockLedgerService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Deposit", ctx, accountID, amount)
	ret0, _ := ret[0].(decimal.Decimal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Deposit indicates an expected call of Deposit.
func (mr *MockLedgerServiceMockRecorder) Deposit(ctx, accountID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Deposit", reflect.TypeOf((*MockLedgerService)(nil).Deposit), ctx, accountID, amount)
}

// Withdraw mocks base method.
func (m *MockLedgerService) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (decimal.Decimal, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Withdraw", ctx, accountID, amount)
	ret0, _ := ret[0].(decimal.Decimal)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Withdraw indicates an expected call of Withdraw.
func (mr *MockLedgerServiceMockRecorder) Withdraw(ctx, accountID, amount any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Withdraw", reflect.TypeOf((*MockLedgerService)(nil).Withdraw), ctx, accountID, amount)
}

// MockTransactionService is a mock of TransactionService interface.
type MockTransactionService struct {
	ctrl     *gomock.Controller
	recorder *MockTransactionServiceMockRecorder
	isgomock struct{}
}

// MockTransactionServiceMockRecorder is the mock recorder for MockTransactionService.
type MockTransactionServiceMockRecorder struct {
	mock *MockTransactionService
}

// NewMockTransactionService creates a new mock instance.
func NewMockTransactionService(ctrl *gomock.Controller) *MockTransactionService {
	mock := &MockTransactionService{ctrl: ctrl}
	mock.recorder = &MockTransactionServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockTransactionService) EXPECT() *MockTransactionServiceMockRecorder {
	return m.recorder
}

// CountTransactions mocks base method.
func (m *MockTransactionService) CountTransactions(ctx context.Context, accountID string) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CountTransactions", ctx, accountID)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CountTransactions indicates an expected call of CountTransactions.
func (mr *MockTransactionServiceMockRecorder) CountTransactions(ctx, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CountTransactions", reflect.TypeOf((*MockTransactionService)(nil).CountTransactions), ctx, accountID)
}

// ListTransactions mocks base method.
func (m *MockTransactionService) ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListTransactions", ctx, input)
	ret0, _ := ret[0].([]*domain.Transaction)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListTransactions indicates an expected call of ListTransactions.
func (mr *MockTransactionServiceMockRecorder) ListTransactions(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListTransactions", reflect.TypeOf((*MockTransactionService)(nil).ListTransactions), ctx, input)
}

// MockReconciliationService is a mock of ReconciliationService interface.
type MockReconciliationService struct {
	ctrl     *gomock.Controller
	recorder *MockReconciliationServiceMockRecorder
	isgomock struct{}
}

// MockReconciliationServiceMockRecorder is the mock recorder for MockReconciliationService.
type MockReconciliationServiceMockRecorder struct {
	mock *MockReconciliationService
}

// NewMockReconciliationService creates a new mock instance.
func NewMockReconciliationService(ctrl *gomock.Controller) *MockReconciliationService {
	mock := &MockReconciliationService{ctrl: ctrl}
	mock.recorder = &MockReconciliationServiceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockReconciliationService) EXPECT() *MockReconciliationServiceMockRecorder {
	return m.recorder
}

// VerifyAccount mocks base method.
func (m *MockReconciliationService) VerifyAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "VerifyAccount", ctx, accountID)
	ret0, _ := ret[0].(*usecase.ReconciliationResult)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// VerifyAccount indicates an expected call of VerifyAccount.
func (mr *MockReconciliationServiceMockRecorder) VerifyAccount(ctx, accountID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "VerifyAccount", reflect.TypeOf((*MockReconciliationService)(nil).VerifyAccount), ctx, accountID)
}
