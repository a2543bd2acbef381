package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"credhub/internal/credential/models"
	"credhub/pkg/testutil"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestSaveAndFind() {
	record := testutil.NewRecordBuilder().Build()
	s.Require().NoError(s.store.Save(s.ctx, record))

	found, err := s.store.FindByID(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(record, found)

	_, err = s.store.FindByID(s.ctx, models.NewCredentialID())
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestSaveDuplicate() {
	record := testutil.NewRecordBuilder().Build()
	s.Require().NoError(s.store.Save(s.ctx, record))
	s.ErrorIs(s.store.Save(s.ctx, record), ErrConflict)
}

func (s *InMemoryStoreSuite) TestListByOwner() {
	s.Run("empty owner", func() {
		list, err := s.store.ListByOwner(s.ctx, testutil.Principals.Bob)
		s.Require().NoError(err)
		s.NotNil(list)
		s.Empty(list)
	})

	s.Run("issue order", func() {
		first := testutil.NewRecordBuilder().WithTitle("first").Build()
		other := testutil.NewRecordBuilder().WithOwner(testutil.Principals.Bob).Build()
		second := testutil.NewRecordBuilder().WithTitle("second").Build()
		for _, r := range []models.CredentialRecord{first, other, second} {
			s.Require().NoError(s.store.Save(s.ctx, r))
		}

		list, err := s.store.ListByOwner(s.ctx, testutil.Principals.Alice)
		s.Require().NoError(err)
		s.Require().Len(list, 2)
		s.Equal("first", list[0].Title)
		s.Equal("second", list[1].Title)
	})
}

func (s *InMemoryStoreSuite) TestConcurrentSaveSameID() {
	record := testutil.NewRecordBuilder().Build()
	res := testutil.RunConcurrent(20, func(int) error {
		return s.store.Save(s.ctx, record)
	})
	s.Equal(int32(1), res.Successes)
	s.Equal(int32(19), res.Conflicts)
}
