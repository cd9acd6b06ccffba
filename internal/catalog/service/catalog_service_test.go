package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/notedmedia/noted/internal/catalog/service"
	"github.com/notedmedia/noted/pkg/errors"
	"github.com/notedmedia/noted/pkg/events"
	"github.com/notedmedia/noted/pkg/interfaces"
	"github.com/notedmedia/noted/pkg/logger"
	"github.com/notedmedia/noted/pkg/models"
)

// MockRepository is a mock for the catalog repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateMediaItem(ctx context.Context, item *models.MediaItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRepository) GetMediaItem(ctx context.Context, id uuid.UUID) (*models.MediaItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaItem), args.Error(1)
}

func (m *MockRepository) ListMediaItems(ctx context.Context) ([]*models.MediaItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MediaItem), args.Error(1)
}

func (m *MockRepository) ListRootItems(ctx context.Context) ([]*models.MediaItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MediaItem), args.Error(1)
}

func (m *MockRepository) SearchMediaItems(ctx context.Context, query string) ([]*models.MediaItem, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MediaItem), args.Error(1)
}

func (m *MockRepository) UpdateMediaItem(ctx context.Context, item *models.MediaItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRepository) DeleteMediaItem(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) AddChild(ctx context.Context, parentID uuid.UUID, title string, sortKey *string) (*models.MediaItem, error) {
	args := m.Called(ctx, parentID, title, sortKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaItem), args.Error(1)
}

func (m *MockRepository) CreateNote(ctx context.Context, text string, mediaItemID uuid.UUID, quote string) (*models.Note, error) {
	args := m.Called(ctx, text, mediaItemID, quote)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockRepository) GetNote(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Note), args.Error(1)
}

func (m *MockRepository) ListNotes(ctx context.Context) ([]*models.Note, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockRepository) ListNotesForItem(ctx context.Context, mediaItemID uuid.UUID) ([]*models.Note, error) {
	args := m.Called(ctx, mediaItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockRepository) SearchNotes(ctx context.Context, query string) ([]*models.Note, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

func (m *MockRepository) UpdateNote(ctx context.Context, note *models.Note, text, quote string) error {
	args := m.Called(ctx, note, text, quote)
	return args.Error(0)
}

func (m *MockRepository) DeleteNote(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// capturingHandler records events delivered through the bus.
type capturingHandler struct {
	mu       sync.Mutex
	received []interfaces.Event
}

func (h *capturingHandler) Handle(ctx context.Context, event interfaces.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return nil
}

func (h *capturingHandler) EventType() string { return events.MediaItemCreated }

func (h *capturingHandler) events() []interfaces.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]interfaces.Event(nil), h.received...)
}

type CatalogServiceTestSuite struct {
	suite.Suite
	repo    *MockRepository
	bus     *events.InMemoryEventBus
	service *service.CatalogService
	ctx     context.Context
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.repo = new(MockRepository)
	suite.bus = events.NewInMemoryEventBus(logger.NewNoop())
	suite.service = service.NewCatalogService(suite.repo, suite.bus, logger.NewNoop())
}

func (suite *CatalogServiceTestSuite) TestCreateMediaItem() {
	suite.repo.On("CreateMediaItem", suite.ctx, mock.AnythingOfType("*models.MediaItem")).Return(nil)

	item, err := suite.service.CreateMediaItem(suite.ctx, "  Breaking Bad  ", models.KindTVSeries)

	suite.Require().NoError(err)
	suite.Equal("Breaking Bad", item.Title)
	suite.Equal(models.KindTVSeries, item.Kind)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *CatalogServiceTestSuite) TestCreateMediaItemRejectsBlankTitle() {
	_, err := suite.service.CreateMediaItem(suite.ctx, "   ", models.KindMovie)

	suite.Require().Error(err)
	suite.True(errors.IsInvalidOperation(err))
	suite.repo.AssertNotCalled(suite.T(), "CreateMediaItem", mock.Anything, mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestCreateMediaItemRejectsUnknownKind() {
	_, err := suite.service.CreateMediaItem(suite.ctx, "Something", models.MediaKind("podcast"))

	suite.Require().Error(err)
	suite.True(errors.IsInvalidOperation(err))
}

func (suite *CatalogServiceTestSuite) TestCreateNoteRejectsWhitespaceText() {
	_, err := suite.service.CreateNote(suite.ctx, "   ", uuid.New(), "")

	suite.Require().Error(err)
	suite.True(errors.IsInvalidOperation(err))
	suite.repo.AssertNotCalled(suite.T(), "CreateNote", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CatalogServiceTestSuite) TestCreateNoteKeepsTextVerbatim() {
	mediaID := uuid.New()
	raw := "  rough draft, keep my spacing  "
	suite.repo.On("CreateNote", suite.ctx, raw, mediaID, "").
		Return(models.NewNote(raw, mediaID, ""), nil)

	note, err := suite.service.CreateNote(suite.ctx, raw, mediaID, "")

	suite.Require().NoError(err)
	suite.Equal(raw, note.Text)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *CatalogServiceTestSuite) TestAddChildPropagatesGatingError() {
	parentID := uuid.New()
	suite.repo.On("AddChild", suite.ctx, parentID, "Scene", (*string)(nil)).
		Return(nil, errors.InvalidOperation("media kind movie cannot have children"))

	_, err := suite.service.AddChild(suite.ctx, parentID, "Scene", nil)

	suite.Require().Error(err)
	suite.True(errors.IsInvalidOperation(err))
}

func (suite *CatalogServiceTestSuite) TestUpdateTitle() {
	item := models.NewMediaItem("Old Title", models.KindBook)
	suite.repo.On("GetMediaItem", suite.ctx, item.ID).Return(item, nil)
	suite.repo.On("UpdateMediaItem", suite.ctx, item).Return(nil)

	updated, err := suite.service.UpdateTitle(suite.ctx, item.ID, "New Title")

	suite.Require().NoError(err)
	suite.Equal("New Title", updated.Title)
}

func (suite *CatalogServiceTestSuite) TestSetAttributeUpserts() {
	item := models.NewMediaItem("Dune", models.KindBook)
	suite.repo.On("GetMediaItem", suite.ctx, item.ID).Return(item, nil)
	suite.repo.On("UpdateMediaItem", suite.ctx, item).Return(nil)

	updated, err := suite.service.SetAttribute(suite.ctx, item.ID, models.AttrAuthor, "Frank Herbert")

	suite.Require().NoError(err)
	suite.Equal("Frank Herbert", updated.GetAttribute(models.AttrAuthor).Value)
}

func (suite *CatalogServiceTestSuite) TestCreateMediaItemPublishesEvent() {
	handler := &capturingHandler{}
	suite.Require().NoError(suite.bus.Subscribe(events.MediaItemCreated, handler))
	suite.repo.On("CreateMediaItem", suite.ctx, mock.AnythingOfType("*models.MediaItem")).Return(nil)

	item, err := suite.service.CreateMediaItem(suite.ctx, "Dune", models.KindBook)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.bus.Stop())

	received := handler.events()
	suite.Require().Len(received, 1)
	suite.Equal(events.MediaItemCreated, received[0].EventType())
	suite.Equal(item.ID.String(), received[0].AggregateID())
}

func (suite *CatalogServiceTestSuite) TestDeleteMediaItem() {
	id := uuid.New()
	suite.repo.On("DeleteMediaItem", suite.ctx, id).Return(nil)

	suite.Require().NoError(suite.service.DeleteMediaItem(suite.ctx, id))
	suite.repo.AssertExpectations(suite.T())
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
