package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/spigell/talentscout/internal/profile"
	"github.com/spigell/talentscout/internal/storage"
)

type fakeList struct {
	items   []string
	pushErr error
	ranges  int
}

func (f *fakeList) RPush(ctx context.Context, _ string, values ...any) *goredis.IntCmd {
	if f.pushErr != nil {
		cmd := goredis.NewIntCmd(ctx)
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, v := range values {
		f.items = append(f.items, v.(string))
	}
	return goredis.NewIntResult(int64(len(f.items)), nil)
}

func (f *fakeList) LRange(_ context.Context, _ string, start, stop int64) *goredis.StringSliceCmd {
	f.ranges++
	if stop >= int64(len(f.items)) {
		stop = int64(len(f.items)) - 1
	}
	if start > stop {
		return goredis.NewStringSliceResult(nil, nil)
	}
	out := append([]string(nil), f.items[start:stop+1]...)
	return goredis.NewStringSliceResult(out, nil)
}

func (f *fakeList) LLen(context.Context, string) *goredis.IntCmd {
	return goredis.NewIntResult(int64(len(f.items)), nil)
}

func newTestStore(list *fakeList) *Store {
	s := newStore(list, nil, "")
	s.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s
}

func TestPersistPushesMaskedRecord(t *testing.T) {
	list := &fakeList{}
	s := newTestStore(list)

	values := profile.Values{profile.FullName: "Bo", profile.Email: "bo@example.com", profile.Phone: "+1 555 123 9876"}
	if err := s.Persist(context.Background(), "s1", values, nil); err != nil {
		t.Fatalf("persist: %v", err)
	}

	if len(list.items) != 1 {
		t.Fatalf("expected one pushed record, got %d", len(list.items))
	}
	rec := list.items[0]
	if !strings.HasPrefix(rec, `{"session_id":"s1","timestamp":"2024-01-01T00:00:00.000000Z"`) {
		t.Fatalf("unexpected record %s", rec)
	}
	if !strings.Contains(rec, `"*******9876"`) || strings.Contains(rec, "bo@example.com") {
		t.Fatalf("expected masked contact fields, got %s", rec)
	}
	if s.key != DefaultKey {
		t.Fatalf("expected default key, got %q", s.key)
	}
}

func TestPersistError(t *testing.T) {
	s := newTestStore(&fakeList{pushErr: errors.New("READONLY")})
	if err := s.Persist(context.Background(), "s1", profile.Values{}, nil); err == nil {
		t.Fatal("expected push error")
	}
}

func TestLastProfileReturnsNewestMatch(t *testing.T) {
	list := &fakeList{}
	s := newTestStore(list)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		email := "other@example.com"
		if i == 3 || i == 7 {
			email = "cy@example.com"
		}
		values := profile.Values{profile.FullName: fmt.Sprintf("candidate %d", i), profile.Email: email}
		if err := s.Persist(ctx, fmt.Sprintf("s%d", i), values, nil); err != nil {
			t.Fatalf("persist: %v", err)
		}
	}
	list.items = append(list.items, "not json")

	p, err := s.LastProfile(ctx, *storage.HashEmail("cy@example.com"))
	if err != nil {
		t.Fatalf("last profile: %v", err)
	}
	if p.FullName != "candidate 7" || p.SessionID != "s7" {
		t.Fatalf("expected newest match, got %+v", p)
	}
	if list.ranges != 2 {
		t.Fatalf("expected two batches, got %d", list.ranges)
	}

	if _, err := s.LastProfile(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
