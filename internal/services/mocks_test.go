package services

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"godownhub/internal/models"
	"godownhub/internal/repositories"
	"godownhub/pkg/database"
)

// fakeTransactor runs fn without a real transaction. Repository mocks return
// themselves from WithTx so expectations set on them still apply.
type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) InTx(ctx context.Context, fn func(tx database.DBTX) error) error {
	f.calls++
	return fn(nil)
}

type MockCompanyRepository struct {
	mock.Mock
}

func (m *MockCompanyRepository) Create(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) GetByCode(ctx context.Context, code string) (*models.Company, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) List(ctx context.Context, only *uuid.UUID, p database.ListParams) ([]*models.Company, int64, error) {
	args := m.Called(ctx, only, p)
	return args.Get(0).([]*models.Company), args.Get(1).(int64), args.Error(2)
}

func (m *MockCompanyRepository) ListActive(ctx context.Context) ([]*models.Company, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyRepository) Update(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, id, status)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Organization, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) ([]*models.Organization, int64, error) {
	args := m.Called(ctx, companyID, status, p)
	return args.Get(0).([]*models.Organization), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, companyID, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrganizationRepository) WithTx(database.DBTX) repositories.OrganizationRepository {
	return m
}

type MockAgreementRepository struct {
	mock.Mock
}

func (m *MockAgreementRepository) Create(ctx context.Context, agreement *models.Agreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

func (m *MockAgreementRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Agreement, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Agreement), args.Error(1)
}

func (m *MockAgreementRepository) List(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, today time.Time, p database.ListParams) ([]*models.Agreement, int64, error) {
	args := m.Called(ctx, companyID, f, today, p)
	return args.Get(0).([]*models.Agreement), args.Get(1).(int64), args.Error(2)
}

func (m *MockAgreementRepository) Update(ctx context.Context, agreement *models.Agreement) error {
	args := m.Called(ctx, agreement)
	return args.Error(0)
}

func (m *MockAgreementRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, companyID, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgreementRepository) ExpireLapsed(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAgreementRepository) Expiring(ctx context.Context, companyID uuid.UUID, today, until time.Time) ([]*models.ExpiringItem, error) {
	args := m.Called(ctx, companyID, today, until)
	return args.Get(0).([]*models.ExpiringItem), args.Error(1)
}

func (m *MockAgreementRepository) WithTx(database.DBTX) repositories.AgreementRepository {
	return m
}

type MockLicenseRepository struct {
	mock.Mock
}

func (m *MockLicenseRepository) Create(ctx context.Context, license *models.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

func (m *MockLicenseRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.License, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.License), args.Error(1)
}

func (m *MockLicenseRepository) List(ctx context.Context, companyID uuid.UUID, f models.ValidityFilter, today time.Time, p database.ListParams) ([]*models.License, int64, error) {
	args := m.Called(ctx, companyID, f, today, p)
	return args.Get(0).([]*models.License), args.Get(1).(int64), args.Error(2)
}

func (m *MockLicenseRepository) Update(ctx context.Context, license *models.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

func (m *MockLicenseRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, companyID, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLicenseRepository) ExpireLapsed(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

type MockGodownRepository struct {
	mock.Mock
}

func (m *MockGodownRepository) Create(ctx context.Context, godown *models.Godown) error {
	args := m.Called(ctx, godown)
	return args.Error(0)
}

func (m *MockGodownRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Godown), args.Error(1)
}

func (m *MockGodownRepository) GetForUpdate(ctx context.Context, companyID, id uuid.UUID) (*models.Godown, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Godown), args.Error(1)
}

func (m *MockGodownRepository) List(ctx context.Context, companyID uuid.UUID, status string, p database.ListParams) ([]*models.Godown, int64, error) {
	args := m.Called(ctx, companyID, status, p)
	return args.Get(0).([]*models.Godown), args.Get(1).(int64), args.Error(2)
}

func (m *MockGodownRepository) Update(ctx context.Context, godown *models.Godown) error {
	args := m.Called(ctx, godown)
	return args.Error(0)
}

func (m *MockGodownRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, companyID, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGodownRepository) Occupancy(ctx context.Context, companyID, id uuid.UUID) (*models.GodownOccupancy, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GodownOccupancy), args.Error(1)
}

func (m *MockGodownRepository) OccupancyAll(ctx context.Context, companyID uuid.UUID) ([]*models.GodownOccupancy, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.GodownOccupancy), args.Error(1)
}

func (m *MockGodownRepository) WithTx(database.DBTX) repositories.GodownRepository {
	return m
}

type MockAllocationRepository struct {
	mock.Mock
}

func (m *MockAllocationRepository) Create(ctx context.Context, allocation *models.SpaceAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.SpaceAllocation, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SpaceAllocation), args.Error(1)
}

func (m *MockAllocationRepository) List(ctx context.Context, companyID uuid.UUID, f models.AllocationFilter, p database.ListParams) ([]*models.SpaceAllocation, int64, error) {
	args := m.Called(ctx, companyID, f, p)
	return args.Get(0).([]*models.SpaceAllocation), args.Get(1).(int64), args.Error(2)
}

func (m *MockAllocationRepository) Update(ctx context.Context, allocation *models.SpaceAllocation) error {
	args := m.Called(ctx, allocation)
	return args.Error(0)
}

func (m *MockAllocationRepository) Release(ctx context.Context, companyID, id uuid.UUID, on time.Time) (int64, error) {
	args := m.Called(ctx, companyID, id, on)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationRepository) ActiveSpace(ctx context.Context, godownID uuid.UUID, exclude *uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, godownID, exclude)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAllocationRepository) ReleaseLapsed(ctx context.Context, today time.Time) (int64, error) {
	args := m.Called(ctx, today)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAllocationRepository) WithTx(database.DBTX) repositories.AllocationRepository {
	return m
}

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, companyID uuid.UUID, f models.InvoiceFilter, p database.ListParams) ([]*models.Invoice, int64, error) {
	args := m.Called(ctx, companyID, f, p)
	return args.Get(0).([]*models.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) ExistsForPeriod(ctx context.Context, allocationID uuid.UUID, period string) (bool, error) {
	args := m.Called(ctx, allocationID, period)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, from, to string, paidDate *time.Time) (int64, error) {
	args := m.Called(ctx, companyID, id, from, to, paidDate)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) NextNumber(ctx context.Context, companyID uuid.UUID, yearMonth string) (int, error) {
	args := m.Called(ctx, companyID, yearMonth)
	return args.Int(0), args.Error(1)
}

func (m *MockInvoiceRepository) MarkOverdue(ctx context.Context, today time.Time) ([]uuid.UUID, error) {
	args := m.Called(ctx, today)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockInvoiceRepository) Totals(ctx context.Context, companyID uuid.UUID) (*models.FinancialTotals, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FinancialTotals), args.Error(1)
}

func (m *MockInvoiceRepository) MonthlyRevenue(ctx context.Context, companyID uuid.UUID, fromPeriod string) ([]models.MonthlyRevenue, error) {
	args := m.Called(ctx, companyID, fromPeriod)
	return args.Get(0).([]models.MonthlyRevenue), args.Error(1)
}

func (m *MockInvoiceRepository) WithTx(database.DBTX) repositories.InvoiceRepository {
	return m
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, companyID uuid.UUID, f models.UserFilter, p database.ListParams) ([]*models.User, int64, error) {
	args := m.Called(ctx, companyID, f, p)
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, companyID, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) SetPassword(ctx context.Context, id uuid.UUID, hash string) error {
	args := m.Called(ctx, id, hash)
	return args.Error(0)
}

func (m *MockUserRepository) TouchLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, role *models.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.Role, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Role), args.Error(1)
}

func (m *MockRoleRepository) List(ctx context.Context, companyID uuid.UUID, p database.ListParams) ([]*models.Role, int64, error) {
	args := m.Called(ctx, companyID, p)
	return args.Get(0).([]*models.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *models.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) SetStatus(ctx context.Context, companyID, id uuid.UUID, status string) (int64, error) {
	args := m.Called(ctx, companyID, id, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) BumpPermissionsVersion(ctx context.Context, id uuid.UUID) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *MockRoleRepository) WithTx(database.DBTX) repositories.RoleRepository {
	return m
}

type MockModuleRepository struct {
	mock.Mock
}

func (m *MockModuleRepository) List(ctx context.Context) ([]*models.Module, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Module), args.Error(1)
}

type MockRolePermissionRepository struct {
	mock.Mock
}

func (m *MockRolePermissionRepository) ModuleIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRolePermissionRepository) Codes(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRolePermissionRepository) Replace(ctx context.Context, roleID uuid.UUID, moduleIDs []uuid.UUID) error {
	args := m.Called(ctx, roleID, moduleIDs)
	return args.Error(0)
}

func (m *MockRolePermissionRepository) WithTx(database.DBTX) repositories.RolePermissionRepository {
	return m
}

type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, folder *models.DataFolder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) GetByID(ctx context.Context, companyID, id uuid.UUID) (*models.DataFolder, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DataFolder), args.Error(1)
}

func (m *MockFolderRepository) ListActive(ctx context.Context, companyID uuid.UUID) ([]*models.DataFolder, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).([]*models.DataFolder), args.Error(1)
}

func (m *MockFolderRepository) Rename(ctx context.Context, companyID, id uuid.UUID, name string) (int64, error) {
	args := m.Called(ctx, companyID, id, name)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFolderRepository) Move(ctx context.Context, companyID, id uuid.UUID, parentID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, id, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFolderRepository) SoftDelete(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFolderRepository) WithTx(database.DBTX) repositories.FolderRepository {
	return m
}

type MockFolderPermissionRepository struct {
	mock.Mock
}

func (m *MockFolderPermissionRepository) Upsert(ctx context.Context, perm *models.FolderPermission) error {
	args := m.Called(ctx, perm)
	return args.Error(0)
}

func (m *MockFolderPermissionRepository) ListByFolder(ctx context.Context, folderID uuid.UUID) ([]*models.FolderPermission, error) {
	args := m.Called(ctx, folderID)
	return args.Get(0).([]*models.FolderPermission), args.Error(1)
}

func (m *MockFolderPermissionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.FolderPermission, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.FolderPermission), args.Error(1)
}

func (m *MockFolderPermissionRepository) Delete(ctx context.Context, folderID, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, folderID, userID)
	return args.Get(0).(int64), args.Error(1)
}

type MockFileLogRepository struct {
	mock.Mock
}

func (m *MockFileLogRepository) Create(ctx context.Context, file *models.FileLog) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileLogRepository) GetByIdentifier(ctx context.Context, companyID uuid.UUID, identifier string) (*models.FileLog, error) {
	args := m.Called(ctx, companyID, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FileLog), args.Error(1)
}

func (m *MockFileLogRepository) ListCurrent(ctx context.Context, folderID uuid.UUID) ([]*models.FileLog, error) {
	args := m.Called(ctx, folderID)
	return args.Get(0).([]*models.FileLog), args.Error(1)
}

func (m *MockFileLogRepository) ListVersions(ctx context.Context, folderID uuid.UUID, fileName string) ([]*models.FileLog, error) {
	args := m.Called(ctx, folderID, fileName)
	return args.Get(0).([]*models.FileLog), args.Error(1)
}

func (m *MockFileLogRepository) LatestVersion(ctx context.Context, folderID uuid.UUID, fileName string) (int, error) {
	args := m.Called(ctx, folderID, fileName)
	return args.Int(0), args.Error(1)
}

func (m *MockFileLogRepository) SoftDelete(ctx context.Context, companyID, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileLogRepository) SoftDeleteInFolders(ctx context.Context, companyID uuid.UUID, folderIDs []uuid.UUID) (int64, error) {
	args := m.Called(ctx, companyID, folderIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFileLogRepository) WithTx(database.DBTX) repositories.FileLogRepository {
	return m
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetRolePermissions(ctx context.Context, roleID uuid.UUID, version int) ([]string, bool, error) {
	args := m.Called(ctx, roleID, version)
	codes, _ := args.Get(0).([]string)
	return codes, args.Bool(1), args.Error(2)
}

func (m *MockCacheService) SetRolePermissions(ctx context.Context, roleID uuid.UUID, version int, codes []string, ttl time.Duration) error {
	args := m.Called(ctx, roleID, version, codes, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetDashboard(ctx context.Context, companyID uuid.UUID) (*models.DashboardSummary, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

func (m *MockCacheService) SetDashboard(ctx context.Context, companyID uuid.UUID, summary *models.DashboardSummary, ttl time.Duration) error {
	args := m.Called(ctx, companyID, summary, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCompanyDashboard(ctx context.Context, companyID uuid.UUID) error {
	args := m.Called(ctx, companyID)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAllDashboards(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockFileStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	args := m.Called(ctx, key)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Get(1).(ObjectInfo), args.Error(2)
}

func (m *MockFileStorage) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileStorage) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockFileStorage) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var (
	// errNoRows is what repositories return for a missing row.
	errNoRows = &database.DatabaseError{Op: "test", Err: pgx.ErrNoRows}
	// errUnique is what repositories return when a unique index rejects a row.
	errUnique = &database.DatabaseError{Op: "test", Err: &pgconn.PgError{Code: "23505"}}
)
