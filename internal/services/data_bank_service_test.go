package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"godownhub/internal/common"
	"godownhub/internal/models"
)

type DataBankServiceTestSuite struct {
	suite.Suite
	tx      *fakeTransactor
	folders *MockFolderRepository
	grants  *MockFolderPermissionRepository
	files   *MockFileLogRepository
	users   *MockUserRepository
	storage *MockFileStorage
	service DataBankService
	ctx     context.Context

	companyID uuid.UUID
	admin     common.Identity
	clerk     common.Identity

	// Contracts > 2025 > March, plus Public at the root.
	contracts *models.DataFolder
	year      *models.DataFolder
	march     *models.DataFolder
	public    *models.DataFolder
}

func (s *DataBankServiceTestSuite) SetupTest() {
	s.tx = &fakeTransactor{}
	s.folders = &MockFolderRepository{}
	s.grants = &MockFolderPermissionRepository{}
	s.files = &MockFileLogRepository{}
	s.users = &MockUserRepository{}
	s.storage = &MockFileStorage{}
	s.service = NewDataBankService(s.tx, s.folders, s.grants, s.files, s.users, s.storage, zap.NewNop())
	s.ctx = context.Background()

	s.companyID = uuid.New()
	s.admin = common.Identity{UserID: uuid.New(), CompanyID: s.companyID, IsAdmin: true}
	s.clerk = common.Identity{UserID: uuid.New(), CompanyID: s.companyID}

	s.contracts = &models.DataFolder{ID: uuid.New(), CompanyID: s.companyID, Name: "Contracts"}
	s.year = &models.DataFolder{ID: uuid.New(), CompanyID: s.companyID, ParentID: &s.contracts.ID, Name: "2025"}
	s.march = &models.DataFolder{ID: uuid.New(), CompanyID: s.companyID, ParentID: &s.year.ID, Name: "March"}
	s.public = &models.DataFolder{ID: uuid.New(), CompanyID: s.companyID, Name: "Public"}
}

func (s *DataBankServiceTestSuite) TearDownTest() {
	s.folders.AssertExpectations(s.T())
	s.grants.AssertExpectations(s.T())
	s.files.AssertExpectations(s.T())
	s.storage.AssertExpectations(s.T())
}

func TestDataBankServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DataBankServiceTestSuite))
}

func (s *DataBankServiceTestSuite) allFolders() []*models.DataFolder {
	return []*models.DataFolder{s.march, s.public, s.year, s.contracts}
}

func (s *DataBankServiceTestSuite) expectFolders() {
	s.folders.On("ListActive", s.ctx, s.companyID).Return(s.allFolders(), nil)
}

func (s *DataBankServiceTestSuite) grant(folder *models.DataFolder, view, upload, del bool) *models.FolderPermission {
	return &models.FolderPermission{FolderID: folder.ID, UserID: s.clerk.UserID, CanView: view, CanUpload: upload, CanDelete: del}
}

func (s *DataBankServiceTestSuite) TestAccess_InheritsFromNearestAncestor() {
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{
		s.grant(s.contracts, true, true, true),
		s.grant(s.year, true, false, false),
	}, nil)

	access, err := s.service.Access(s.ctx, s.clerk, s.march.ID)
	s.Require().NoError(err)
	s.Equal(models.FolderAccess{CanView: true}, access)
}

func (s *DataBankServiceTestSuite) TestAccess_AdminHasEverything() {
	s.expectFolders()

	access, err := s.service.Access(s.ctx, s.admin, s.march.ID)
	s.Require().NoError(err)
	s.Equal(models.FullAccess, access)
}

func (s *DataBankServiceTestSuite) TestAccess_NoGrantLooksMissing() {
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{}, nil)

	_, err := s.service.Access(s.ctx, s.clerk, s.public.ID)
	s.ErrorIs(err, common.ErrNotFound)
}

func (s *DataBankServiceTestSuite) TestTree_KeepsAncestorsAsPathNodes() {
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{
		s.grant(s.march, true, true, false),
	}, nil)

	forest, err := s.service.Tree(s.ctx, s.clerk)
	s.Require().NoError(err)
	s.Require().Len(forest, 1)

	contracts := forest[0]
	s.Equal("Contracts", contracts.Name)
	s.False(contracts.Accessible)
	s.Equal(models.FolderAccess{}, contracts.Access)
	s.Require().Len(contracts.Children, 1)
	s.False(contracts.Children[0].Accessible)
	s.Require().Len(contracts.Children[0].Children, 1)

	march := contracts.Children[0].Children[0]
	s.Equal("March", march.Name)
	s.True(march.Accessible)
	s.True(march.Access.CanUpload)
	s.NotNil(march.Children)
}

func (s *DataBankServiceTestSuite) TestTree_AdminSeesAllSortedByName() {
	s.expectFolders()

	forest, err := s.service.Tree(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(forest, 2)
	s.Equal("Contracts", forest[0].Name)
	s.Equal("Public", forest[1].Name)
	s.True(forest[1].Accessible)
}

func (s *DataBankServiceTestSuite) TestDeleteFolder_CascadesInOneTransaction() {
	s.expectFolders()
	s.folders.On("SoftDelete", s.ctx, s.companyID, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 3 && ids[0] == s.contracts.ID
	})).Return(int64(3), nil)
	s.files.On("SoftDeleteInFolders", s.ctx, s.companyID, mock.MatchedBy(func(ids []uuid.UUID) bool {
		return len(ids) == 3
	})).Return(int64(5), nil)

	err := s.service.DeleteFolder(s.ctx, s.admin, s.contracts.ID)
	s.NoError(err)
	s.Equal(1, s.tx.calls)
}

func (s *DataBankServiceTestSuite) TestDeleteFolder_NeedsDeleteGrant() {
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{
		s.grant(s.contracts, true, true, false),
	}, nil)

	err := s.service.DeleteFolder(s.ctx, s.clerk, s.year.ID)
	s.ErrorIs(err, common.ErrForbidden)
	s.Equal(0, s.tx.calls)
}

func (s *DataBankServiceTestSuite) TestMoveFolder_RejectsDescendantParent() {
	s.expectFolders()

	_, err := s.service.MoveFolder(s.ctx, s.admin, s.contracts.ID, &s.march.ID)
	s.True(common.IsValidation(err))
	s.folders.AssertNotCalled(s.T(), "Move", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DataBankServiceTestSuite) TestUpload_AddsNextVersion() {
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{
		s.grant(s.year, true, true, false),
	}, nil)
	s.files.On("LatestVersion", s.ctx, s.march.ID, "lease.pdf").Return(2, nil)
	body := strings.NewReader("%PDF-1.4")
	s.storage.On("Put", s.ctx, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, s.companyID.String()+"/"+s.march.ID.String()+"/")
	}), body, int64(8), "application/pdf").Return(nil)
	s.files.On("Create", s.ctx, mock.AnythingOfType("*models.FileLog")).Return(nil)

	file, err := s.service.Upload(s.ctx, s.clerk, s.march.ID, &UploadInput{
		FileName:    `C:\scans\lease.pdf`,
		ContentType: "application/pdf",
		Size:        8,
		Body:        body,
	})
	s.Require().NoError(err)
	s.Equal(3, file.Version)
	s.Equal("lease.pdf", file.FileName)
	s.NotEmpty(file.Identifier)
	s.Equal(s.clerk.UserID, *file.UploadedBy)
}

func (s *DataBankServiceTestSuite) TestUpload_RemovesObjectWhenLogFails() {
	s.expectFolders()
	s.files.On("LatestVersion", s.ctx, s.public.ID, "a.txt").Return(0, nil)
	s.storage.On("Put", s.ctx, mock.Anything, mock.Anything, int64(1), "text/plain").Return(nil)
	s.files.On("Create", s.ctx, mock.Anything).Return(errUnique)
	s.storage.On("Remove", s.ctx, mock.Anything).Return(nil)

	_, err := s.service.Upload(s.ctx, s.admin, s.public.ID, &UploadInput{FileName: "a.txt", ContentType: "text/plain", Size: 1, Body: strings.NewReader("x")})
	s.ErrorIs(err, common.ErrConflict)
}

func (s *DataBankServiceTestSuite) TestUpload_ViewOnlyIsForbidden() {
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{
		s.grant(s.public, true, false, false),
	}, nil)

	_, err := s.service.Upload(s.ctx, s.clerk, s.public.ID, &UploadInput{FileName: "a.txt", Body: strings.NewReader("x"), Size: 1})
	s.ErrorIs(err, common.ErrForbidden)
}

func (s *DataBankServiceTestSuite) TestDownload_StreamsObject() {
	file := &models.FileLog{ID: uuid.New(), FolderID: s.public.ID, Identifier: "abc", FileName: "a.txt", ContentType: "text/plain", ObjectKey: "k"}
	s.files.On("GetByIdentifier", s.ctx, s.companyID, "abc").Return(file, nil)
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{
		s.grant(s.public, true, false, false),
	}, nil)
	s.storage.On("Get", s.ctx, "k").Return(io.NopCloser(strings.NewReader("hello")), ObjectInfo{Size: 5, ContentType: "text/plain"}, nil)

	got, body, err := s.service.Download(s.ctx, s.clerk, "abc")
	s.Require().NoError(err)
	defer body.Close()
	data, err := io.ReadAll(body)
	s.Require().NoError(err)
	s.Equal("hello", string(data))
	s.Equal("a.txt", got.FileName)
}

func (s *DataBankServiceTestSuite) TestDownload_HiddenFolderReportsMissingFile() {
	file := &models.FileLog{ID: uuid.New(), FolderID: s.public.ID, Identifier: "abc", ObjectKey: "k"}
	s.files.On("GetByIdentifier", s.ctx, s.companyID, "abc").Return(file, nil)
	s.expectFolders()
	s.grants.On("ListByUser", s.ctx, s.clerk.UserID).Return([]*models.FolderPermission{}, nil)

	_, _, err := s.service.Download(s.ctx, s.clerk, "abc")
	s.ErrorIs(err, common.ErrNotFound)
	s.EqualError(err, "file not found")
}

func (s *DataBankServiceTestSuite) TestSetPermission_ViewImpliedByUpload() {
	s.expectFolders()
	s.users.On("GetByID", s.ctx, s.companyID, s.clerk.UserID).Return(&models.User{ID: s.clerk.UserID}, nil)
	s.grants.On("Upsert", s.ctx, mock.MatchedBy(func(p *models.FolderPermission) bool {
		return p.CanView && p.CanUpload && !p.CanDelete
	})).Return(nil)

	perm, err := s.service.SetPermission(s.ctx, s.admin, s.public.ID, &FolderPermissionRequest{UserID: s.clerk.UserID, CanUpload: true})
	s.Require().NoError(err)
	s.True(perm.CanView)
}

func (s *DataBankServiceTestSuite) TestSetPermission_AdminOnly() {
	_, err := s.service.SetPermission(s.ctx, s.clerk, s.public.ID, &FolderPermissionRequest{UserID: uuid.New(), CanView: true})
	s.ErrorIs(err, common.ErrForbidden)
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "lease.pdf", cleanFileName("lease.pdf"))
	assert.Equal(t, "lease.pdf", cleanFileName("../../etc/lease.pdf"))
	assert.Equal(t, "lease.pdf", cleanFileName(`C:\docs\lease.pdf`))
	assert.Equal(t, "", cleanFileName("  "))
	assert.Equal(t, "", cleanFileName("/"))
}
