package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/notedmedia/noted/internal/catalog/repository"
	"github.com/notedmedia/noted/pkg/errors"
	"github.com/notedmedia/noted/pkg/models"
)

type CatalogRepositoryTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo *repository.GormRepository
	ctx  context.Context
}

func (suite *CatalogRepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = repository.NewTestDB(suite.T())
	suite.repo = repository.NewGormRepository(suite.db)
}

func (suite *CatalogRepositoryTestSuite) mustCreate(title string, kind models.MediaKind) *models.MediaItem {
	item := models.NewMediaItem(title, kind)
	suite.Require().NoError(suite.repo.CreateMediaItem(suite.ctx, item))
	return item
}

func strPtr(s string) *string { return &s }

func (suite *CatalogRepositoryTestSuite) TestCreateAndGetMediaItem() {
	item := suite.mustCreate("Inception", models.KindMovie)

	retrieved, err := suite.repo.GetMediaItem(suite.ctx, item.ID)
	suite.Require().NoError(err)
	suite.Equal("Inception", retrieved.Title)
	suite.Equal(models.KindMovie, retrieved.Kind)
	suite.Nil(retrieved.ParentID)
}

func (suite *CatalogRepositoryTestSuite) TestGetMediaItemNotFound() {
	_, err := suite.repo.GetMediaItem(suite.ctx, uuid.New())
	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

func (suite *CatalogRepositoryTestSuite) TestListMediaItemsMostRecentlyUpdatedFirst() {
	older := suite.mustCreate("Older", models.KindMovie)
	newer := suite.mustCreate("Newer", models.KindBook)

	older.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	newer.UpdatedAt = time.Now().UTC()
	suite.Require().NoError(suite.db.Save(older).Error)
	suite.Require().NoError(suite.db.Save(newer).Error)

	items, err := suite.repo.ListMediaItems(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(items, 2)
	suite.Equal("Newer", items[0].Title)
	suite.Equal("Older", items[1].Title)
}

func (suite *CatalogRepositoryTestSuite) TestSearchTreatsLikeMetacharactersLiterally() {
	suite.mustCreate("100% Fresh", models.KindMovie)
	suite.mustCreate("100x Fresh", models.KindMovie)

	found, err := suite.repo.SearchMediaItems(suite.ctx, "100%")
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal("100% Fresh", found[0].Title)

	movie := suite.mustCreate("Snowpiercer", models.KindMovie)
	_, err = suite.repo.CreateNote(suite.ctx, "the a_c scene", movie.ID, "")
	suite.Require().NoError(err)
	_, err = suite.repo.CreateNote(suite.ctx, "the abc scene", movie.ID, "")
	suite.Require().NoError(err)

	notes, err := suite.repo.SearchNotes(suite.ctx, "a_c")
	suite.Require().NoError(err)
	suite.Require().Len(notes, 1)
	suite.Equal("the a_c scene", notes[0].Text)
}

func (suite *CatalogRepositoryTestSuite) TestUpdateNoteRollsBackOnSaveFailure() {
	movie := suite.mustCreate("Heat", models.KindMovie)
	note, err := suite.repo.CreateNote(suite.ctx, "original take", movie.ID, "")
	suite.Require().NoError(err)

	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	suite.Require().NoError(sqlDB.Close())

	err = suite.repo.UpdateNote(suite.ctx, note, "revised take", "a quote")
	suite.Require().Error(err)
	suite.True(errors.IsPersistence(err))

	// the in-memory note keeps its pre-edit content
	suite.Equal("original take", note.Text)
	suite.Equal("", note.Quote)
	suite.Nil(note.EditedAt)
}

func (suite *CatalogRepositoryTestSuite) TestListRootItemsExcludesChildren() {
	series := suite.mustCreate("Breaking Bad", models.KindTVSeries)
	_, err := suite.repo.AddChild(suite.ctx, series.ID, "Pilot", strPtr("S01E01"))
	suite.Require().NoError(err)

	roots, err := suite.repo.ListRootItems(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(roots, 1)
	suite.Equal("Breaking Bad", roots[0].Title)
}

func (suite *CatalogRepositoryTestSuite) TestSearchMediaItemsCaseInsensitive() {
	suite.mustCreate("INCEPTION", models.KindMovie)
	suite.mustCreate("The Matrix", models.KindMovie)

	found, err := suite.repo.SearchMediaItems(suite.ctx, "inception")
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal("INCEPTION", found[0].Title)
}

func (suite *CatalogRepositoryTestSuite) TestAddChildDerivesKindAndLinksParent() {
	series := suite.mustCreate("Breaking Bad", models.KindTVSeries)

	child, err := suite.repo.AddChild(suite.ctx, series.ID, "Pilot", strPtr("S01E01"))
	suite.Require().NoError(err)
	suite.Equal(models.KindEpisode, child.Kind)
	suite.Require().NotNil(child.ParentID)
	suite.Equal(series.ID, *child.ParentID)

	reloaded, err := suite.repo.GetMediaItem(suite.ctx, series.ID)
	suite.Require().NoError(err)
	suite.Require().Len(reloaded.Children, 1)
	suite.Equal(child.ID, reloaded.Children[0].ID)
}

func (suite *CatalogRepositoryTestSuite) TestAddChildBumpsParentUpdatedAt() {
	series := suite.mustCreate("Breaking Bad", models.KindTVSeries)
	stale := time.Now().UTC().Add(-time.Hour)
	suite.Require().NoError(suite.db.Model(&models.MediaItem{}).
		Where("id = ?", series.ID).Update("updated_at", stale).Error)

	_, err := suite.repo.AddChild(suite.ctx, series.ID, "Pilot", nil)
	suite.Require().NoError(err)

	reloaded, err := suite.repo.GetMediaItem(suite.ctx, series.ID)
	suite.Require().NoError(err)
	suite.True(reloaded.UpdatedAt.After(stale))
}

func (suite *CatalogRepositoryTestSuite) TestAddChildToLeafKindFails() {
	movie := suite.mustCreate("Inception", models.KindMovie)

	_, err := suite.repo.AddChild(suite.ctx, movie.ID, "Scene 1", nil)
	suite.Require().Error(err)
	suite.True(errors.IsInvalidOperation(err))

	// nothing was created
	items, err := suite.repo.ListMediaItems(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(items, 1)
}

func (suite *CatalogRepositoryTestSuite) TestDeleteCascadesOverSubtree() {
	series := suite.mustCreate("Breaking Bad", models.KindTVSeries)
	episode, err := suite.repo.AddChild(suite.ctx, series.ID, "Pilot", strPtr("S01E01"))
	suite.Require().NoError(err)

	_, err = suite.repo.CreateNote(suite.ctx, "great pilot", episode.ID, "")
	suite.Require().NoError(err)
	_, err = suite.repo.CreateNote(suite.ctx, "rewatching", series.ID, "")
	suite.Require().NoError(err)

	withAttrs, err := suite.repo.GetMediaItem(suite.ctx, series.ID)
	suite.Require().NoError(err)
	withAttrs.SetAttribute(models.AttrNetwork, "AMC")
	suite.Require().NoError(suite.repo.UpdateMediaItem(suite.ctx, withAttrs))

	suite.Require().NoError(suite.repo.DeleteMediaItem(suite.ctx, series.ID))

	var itemCount, noteCount, attrCount int64
	suite.Require().NoError(suite.db.Model(&models.MediaItem{}).Count(&itemCount).Error)
	suite.Require().NoError(suite.db.Model(&models.Note{}).Count(&noteCount).Error)
	suite.Require().NoError(suite.db.Model(&models.MediaAttribute{}).Count(&attrCount).Error)
	suite.Zero(itemCount)
	suite.Zero(noteCount)
	suite.Zero(attrCount)
}

func (suite *CatalogRepositoryTestSuite) TestDeleteMissingItemFails() {
	err := suite.repo.DeleteMediaItem(suite.ctx, uuid.New())
	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

func (suite *CatalogRepositoryTestSuite) TestCreateNoteTouchesOwner() {
	movie := suite.mustCreate("Inception", models.KindMovie)
	stale := time.Now().UTC().Add(-time.Hour)
	suite.Require().NoError(suite.db.Model(&models.MediaItem{}).
		Where("id = ?", movie.ID).Update("updated_at", stale).Error)

	note, err := suite.repo.CreateNote(suite.ctx, "mind-bending", movie.ID, "")
	suite.Require().NoError(err)
	suite.Nil(note.EditedAt)

	reloaded, err := suite.repo.GetMediaItem(suite.ctx, movie.ID)
	suite.Require().NoError(err)
	suite.True(reloaded.UpdatedAt.After(stale))
}

func (suite *CatalogRepositoryTestSuite) TestCreateNotePersistsWhitespaceText() {
	// The repository is deliberately permissive; emptiness checks live in the
	// service layer.
	movie := suite.mustCreate("Inception", models.KindMovie)

	note, err := suite.repo.CreateNote(suite.ctx, "   ", movie.ID, "")
	suite.Require().NoError(err)

	stored, err := suite.repo.GetNote(suite.ctx, note.ID)
	suite.Require().NoError(err)
	suite.Equal("   ", stored.Text)
}

func (suite *CatalogRepositoryTestSuite) TestCreateNoteForMissingItemFails() {
	_, err := suite.repo.CreateNote(suite.ctx, "orphan", uuid.New(), "")
	suite.Require().Error(err)
	suite.True(errors.IsNotFound(err))
}

func (suite *CatalogRepositoryTestSuite) TestUpdateNoteStampsEditedAtNotOwner() {
	movie := suite.mustCreate("Inception", models.KindMovie)
	note, err := suite.repo.CreateNote(suite.ctx, "first take", movie.ID, "")
	suite.Require().NoError(err)

	ownerBefore, err := suite.repo.GetMediaItem(suite.ctx, movie.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repo.UpdateNote(suite.ctx, note, "second take", "the spinning top"))

	stored, err := suite.repo.GetNote(suite.ctx, note.ID)
	suite.Require().NoError(err)
	suite.Equal("second take", stored.Text)
	suite.Equal("the spinning top", stored.Quote)
	suite.Require().NotNil(stored.EditedAt)
	suite.False(stored.EditedAt.Before(stored.CreatedAt))

	ownerAfter, err := suite.repo.GetMediaItem(suite.ctx, movie.ID)
	suite.Require().NoError(err)
	suite.Equal(ownerBefore.UpdatedAt.Unix(), ownerAfter.UpdatedAt.Unix())
}

func (suite *CatalogRepositoryTestSuite) TestSearchNotesCaseInsensitive() {
	movie := suite.mustCreate("Inception", models.KindMovie)
	_, err := suite.repo.CreateNote(suite.ctx, "This movie is AMAZING!", movie.ID, "")
	suite.Require().NoError(err)

	found, err := suite.repo.SearchNotes(suite.ctx, "amazing")
	suite.Require().NoError(err)
	suite.Require().Len(found, 1)
	suite.Equal(movie.ID, found[0].MediaItemID)
}

func (suite *CatalogRepositoryTestSuite) TestListNotesForItemExactMatch() {
	series := suite.mustCreate("Breaking Bad", models.KindTVSeries)
	episode, err := suite.repo.AddChild(suite.ctx, series.ID, "Pilot", nil)
	suite.Require().NoError(err)

	_, err = suite.repo.CreateNote(suite.ctx, "on the series", series.ID, "")
	suite.Require().NoError(err)
	_, err = suite.repo.CreateNote(suite.ctx, "on the pilot", episode.ID, "")
	suite.Require().NoError(err)

	// exact match on the owner, no descendant roll-up here
	notes, err := suite.repo.ListNotesForItem(suite.ctx, series.ID)
	suite.Require().NoError(err)
	suite.Require().Len(notes, 1)
	suite.Equal("on the series", notes[0].Text)
}

func (suite *CatalogRepositoryTestSuite) TestSeriesWithNotedEpisodeRollup() {
	series := suite.mustCreate("Breaking Bad", models.KindTVSeries)
	pilot, err := suite.repo.AddChild(suite.ctx, series.ID, "Pilot", strPtr("S01E01"))
	suite.Require().NoError(err)
	_, err = suite.repo.CreateNote(suite.ctx, "Great pilot", pilot.ID, "")
	suite.Require().NoError(err)

	parent, err := suite.repo.GetMediaItem(suite.ctx, series.ID)
	suite.Require().NoError(err)

	suite.Equal(1, parent.TotalNoteCount())
	sorted := parent.SortedChildren()
	suite.Require().Len(sorted, 1)
	suite.Equal("Pilot", sorted[0].Title)

	child, err := suite.repo.GetMediaItem(suite.ctx, pilot.ID)
	suite.Require().NoError(err)
	childNotes := child.AllNotes()
	suite.Require().Len(childNotes, 1)

	parentNoteIDs := make(map[uuid.UUID]bool)
	for _, note := range parent.AllNotes() {
		parentNoteIDs[note.ID] = true
	}
	for _, note := range childNotes {
		suite.True(parentNoteIDs[note.ID])
	}
}

func TestCatalogRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogRepositoryTestSuite))
}
