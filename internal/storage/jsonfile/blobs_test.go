package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/lfg/internal/model"
	"github.com/mcoot/lfg/internal/storage/document"
	"github.com/mcoot/lfg/internal/testutil"
)

type FileStorageSuite struct {
	suite.Suite
	dir     string
	storage *document.Storage
	ctx     context.Context
}

func TestFileStorageSuite(t *testing.T) {
	suite.Run(t, new(FileStorageSuite))
}

func (s *FileStorageSuite) SetupTest() {
	s.dir = filepath.Join(s.T().TempDir(), "data")
	store, err := New(s.dir, testutil.NopLogger())
	s.Require().NoError(err)
	s.storage = store
	s.ctx = context.Background()
}

func (s *FileStorageSuite) TestMissingFilesLoadEmpty() {
	lobbies, err := s.storage.LoadLobbies(s.ctx)
	s.Require().NoError(err)
	s.Empty(lobbies)
}

func (s *FileStorageSuite) TestEmptyFileLoadsEmpty() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "users.json"), nil, 0o644))

	accounts, err := s.storage.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Empty(accounts)
}

func (s *FileStorageSuite) TestCorruptFileLoadsEmpty() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.dir, "lobbies.json"), []byte("{{{"), 0o644))

	lobbies, err := s.storage.LoadLobbies(s.ctx)
	s.Require().NoError(err)
	s.Empty(lobbies)
}

func (s *FileStorageSuite) TestWritesNamedFiles() {
	lobbies := model.LobbyRegistry{
		"Raid1": {
			Name:           "Raid1",
			Leader:         "alice",
			RequiredRating: 1500,
			Members:        model.MemberSlots{Tank: "alice"},
			CreatedAt:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
	}
	s.Require().NoError(s.storage.SaveLobbies(s.ctx, lobbies))

	raw, err := os.ReadFile(filepath.Join(s.dir, "lobbies.json"))
	s.Require().NoError(err)
	s.Contains(string(raw), `"Healer": null`)

	got, err := s.storage.LoadLobbies(s.ctx)
	s.Require().NoError(err)
	s.Equal(lobbies, got)

	entries, err := os.ReadDir(s.dir)
	s.Require().NoError(err)
	s.Len(entries, 1, "temp files are cleaned up")
}

func (s *FileStorageSuite) TestSurvivesReopen() {
	accounts := model.AccountDirectory{
		"bob": {Username: "bob", Role: model.RoleHealer, Rating: 2100, Email: "bob@gmail.com"},
	}
	s.Require().NoError(s.storage.SaveAccounts(s.ctx, accounts))

	reopened, err := New(s.dir, testutil.NopLogger())
	s.Require().NoError(err)

	got, err := reopened.LoadAccounts(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.RoleHealer, got["bob"].Role)
	s.Equal(2100, got["bob"].Rating)
}
