package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/livekit/protocol/livekit"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wavedeck-app/wavedeck/pkg/internal/database"
	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
)

func setupTestDatabase(t *testing.T) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	source, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(source))

	database.C = source

	viper.Set("calling.endpoint", "call.example.com")
	viper.Set("calling.api_key", "testkey")
	viper.Set("calling.api_secret", "testsecret-testsecret-testsecret")
}

// fakeRoomService records room allocations and releases in place of the
// provider's API.
type fakeRoomService struct {
	mu         sync.Mutex
	rooms      map[string]*livekit.CreateRoomRequest
	deleted    []string
	failCreate bool
	failDelete bool
}

func setupFakeRoomService(t *testing.T) *fakeRoomService {
	t.Helper()

	fake := &fakeRoomService{rooms: make(map[string]*livekit.CreateRoomRequest)}
	Lk = fake
	return fake
}

func (f *fakeRoomService) CreateRoom(_ context.Context, req *livekit.CreateRoomRequest) (*livekit.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return nil, fmt.Errorf("room service down")
	}
	if _, ok := f.rooms[req.Name]; ok {
		return nil, fmt.Errorf("room %s already exists", req.Name)
	}
	f.rooms[req.Name] = req
	return &livekit.Room{Name: req.Name}, nil
}

func (f *fakeRoomService) DeleteRoom(_ context.Context, req *livekit.DeleteRoomRequest) (*livekit.DeleteRoomResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return nil, fmt.Errorf("room service down")
	}
	delete(f.rooms, req.Room)
	f.deleted = append(f.deleted, req.Room)
	return &livekit.DeleteRoomResponse{}, nil
}

func (f *fakeRoomService) deletedRooms() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.deleted...)
}

func createTestProfile(t *testing.T, name string) models.Profile {
	t.Helper()

	profile := models.Profile{
		ExternalID: "ext-" + name,
		Name:       name,
		Email:      name + "@example.com",
	}
	require.NoError(t, database.C.Create(&profile).Error)
	return profile
}
