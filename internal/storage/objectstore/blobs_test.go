package objectstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/storage/document"
	"github.com/mcoot/lfg/internal/testutil"
)

// Runs against a real S3-compatible server when LFG_TEST_MINIO_ENDPOINT is set.
type StorageSuite struct {
	suite.Suite
	blobs   *Blobs
	storage *document.Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	if os.Getenv("LFG_TEST_MINIO_ENDPOINT") == "" {
		t.Skip("LFG_TEST_MINIO_ENDPOINT not set")
	}
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.ctx = context.Background()
	cfg := Config{
		Endpoint:  os.Getenv("LFG_TEST_MINIO_ENDPOINT"),
		AccessKey: os.Getenv("LFG_TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("LFG_TEST_MINIO_SECRET_KEY"),
		Bucket:    "lfg-test-" + time.Now().Format("20060102150405"),
	}

	store, blobs, err := New(s.ctx, cfg, testutil.NopLogger())
	s.Require().NoError(err)
	s.storage, s.blobs = store, blobs
}

func (s *StorageSuite) TestLoadMissingIsEmpty() {
	lobbies, err := s.storage.LoadLobbies(s.ctx)
	s.Require().NoError(err)
	s.Empty(lobbies)
}

func (s *StorageSuite) TestRoundTrip() {
	lobbies := model.LobbyRegistry{
		"Raid1": {Name: "Raid1", Leader: "alice", RequiredRating: 100, Members: model.MemberSlots{Healer: "alice"}},
	}
	s.Require().NoError(s.storage.SaveLobbies(s.ctx, lobbies))

	got, err := s.storage.LoadLobbies(s.ctx)
	s.Require().NoError(err)
	s.Equal(lobbies, got)
}
