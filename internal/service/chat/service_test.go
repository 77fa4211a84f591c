package chat_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hey-granth/profile-guard/internal/app"
	"github.com/hey-granth/profile-guard/internal/config"
	"github.com/hey-granth/profile-guard/internal/db"
	"github.com/hey-granth/profile-guard/internal/dbtest"
	svcErr "github.com/hey-granth/profile-guard/internal/errors"
	"github.com/hey-granth/profile-guard/internal/repository"
	"github.com/hey-granth/profile-guard/internal/service/chat"
	"github.com/hey-granth/profile-guard/internal/service/gate"
)

type fixture struct {
	svc *chat.Service
	gdb *gorm.DB
	ann *db.User
	bob *db.User
	m   *db.Match
}

func setup(t *testing.T) fixture {
	t.Helper()
	gdb := dbtest.Open(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, nil, logger, nil, config.DefaultPolicy())

	ann := dbtest.CreateUser(t, gdb, "ann", db.GenderFemale)
	bob := dbtest.CreateUser(t, gdb, "bob", db.GenderMale)
	m, _, err := repository.NewMatchRepository(gdb).GetOrCreate(context.Background(), ann.ID, bob.ID)
	require.NoError(t, err)

	return fixture{
		svc: chat.NewService(appCtx, gate.NewService(appCtx)),
		gdb: gdb,
		ann: ann,
		bob: bob,
		m:   m,
	}
}

func TestGetOrCreatePrivateRoom(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	require.NoError(t, err)
	assert.Equal(t, db.ChatPrivate, room.Type)
	require.NotNil(t, room.MatchID)
	assert.Equal(t, f.m.ID, *room.MatchID)

	again, err := f.svc.GetOrCreatePrivateRoom(ctx, f.bob.ID, f.m.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)

	stranger := dbtest.CreateUser(t, f.gdb, "cid", db.GenderMale)
	_, err = f.svc.GetOrCreatePrivateRoom(ctx, stranger.ID, f.m.ID)
	assert.ErrorIs(t, err, svcErr.ErrMatchNotFound)

	_, err = f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, 999)
	assert.ErrorIs(t, err, svcErr.ErrMatchNotFound)
}

func TestGetOrCreatePrivateRoom_InactiveMatch(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	_, err := repository.NewMatchRepository(f.gdb).SetStatus(ctx, f.ann.ID, f.bob.ID, db.MatchBlocked)
	require.NoError(t, err)

	_, err = f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	assert.ErrorIs(t, err, svcErr.ErrMatchNotActive)
}

func TestGetOrCreatePrivateRoom_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	var wg sync.WaitGroup
	ids := make([]uint64, 4)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
			if assert.NoError(t, err) {
				ids[i] = room.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	var rooms int64
	require.NoError(t, f.gdb.Model(&db.ChatRoom{}).Count(&rooms).Error)
	assert.Equal(t, int64(1), rooms)
}

func TestSendMessage_FirstMessageRule(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, f.bob.ID, room.ID, "hi there")
	assert.ErrorIs(t, err, svcErr.ErrMessageNotAllowed)

	msg, err := f.svc.SendMessage(ctx, f.ann.ID, room.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", msg.Content)

	_, err = f.svc.SendMessage(ctx, f.bob.ID, room.ID, "hi there")
	require.NoError(t, err)

	history, err := f.svc.ListMessages(ctx, f.bob.ID, room.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, f.ann.ID, history[0].SenderID)
	assert.Equal(t, f.bob.ID, history[1].SenderID)
}

func TestSendMessage_Validation(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, f.ann.ID, room.ID, "   ")
	assert.ErrorIs(t, err, svcErr.ErrEmptyMessage)

	_, err = f.svc.SendMessage(ctx, f.ann.ID, room.ID, strings.Repeat("x", chat.MaxMessageLength+1))
	assert.ErrorIs(t, err, svcErr.ErrValidation)

	_, err = f.svc.SendMessage(ctx, f.ann.ID, 9999, "hello")
	assert.ErrorIs(t, err, svcErr.ErrRoomNotFound)

	stranger := dbtest.CreateUser(t, f.gdb, "eve", db.GenderFemale)
	_, err = f.svc.SendMessage(ctx, stranger.ID, room.ID, "hello")
	assert.ErrorIs(t, err, svcErr.ErrMessageNotAllowed)

	_, err = f.svc.ListMessages(ctx, stranger.ID, room.ID, 10)
	assert.ErrorIs(t, err, svcErr.ErrRoomNotFound)
}

func TestSendMessage_InactiveRoom(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	require.NoError(t, err)
	require.NoError(t, repository.NewChatRepository(f.gdb).DeactivateMatchRoom(ctx, f.m.ID))

	_, err = f.svc.SendMessage(ctx, f.ann.ID, room.ID, "hello")
	assert.ErrorIs(t, err, svcErr.ErrMessageNotAllowed)
}

func TestSendMessage_ConcurrentOpeners(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := map[uint64]error{}
	var mu sync.Mutex
	for _, sender := range []uint64{f.ann.ID, f.bob.ID} {
		wg.Add(1)
		go func(sender uint64) {
			defer wg.Done()
			_, err := f.svc.SendMessage(ctx, sender, room.ID, "hey")
			mu.Lock()
			results[sender] = err
			mu.Unlock()
		}(sender)
	}
	wg.Wait()

	require.NoError(t, results[f.ann.ID])

	var msgs []db.Message
	require.NoError(t, f.gdb.Where("room_id = ?", room.ID).Order("id").Find(&msgs).Error)
	require.NotEmpty(t, msgs)
	assert.Equal(t, f.ann.ID, msgs[0].SenderID, "the first message always comes from the female participant")
	if results[f.bob.ID] != nil {
		assert.ErrorIs(t, results[f.bob.ID], svcErr.ErrMessageNotAllowed)
		assert.Len(t, msgs, 1)
	} else {
		assert.Len(t, msgs, 2)
	}
}

func TestListRoomsAndMarkRead(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	room, err := f.svc.GetOrCreatePrivateRoom(ctx, f.ann.ID, f.m.ID)
	require.NoError(t, err)

	_, err = f.svc.SendMessage(ctx, f.ann.ID, room.ID, "one")
	require.NoError(t, err)
	_, err = f.svc.SendMessage(ctx, f.ann.ID, room.ID, "two")
	require.NoError(t, err)

	rooms, err := f.svc.ListRooms(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, room.ID, rooms[0].ID)

	n, err := f.svc.MarkRead(ctx, f.bob.ID, room.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.svc.MarkRead(ctx, f.ann.ID, room.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
