package service

import (
	"errors"
	"testing"
	"time"

	"github.com/blogapp/internal/db"
)

func TestReactionService_ReactValidatesInput(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewReactionService(gdb)

	post := seedPost(t, gdb, "Post", "Author", nil, time.Now())

	if _, err := svc.React(post.ID, 1, "   "); !errors.Is(err, ErrReactionType) {
		t.Fatalf("expected ErrReactionType, got %v", err)
	}
	if _, err := svc.React(9999, 1, "like"); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestReactionService_ReactUpsertsPerUser(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewReactionService(gdb)

	post := seedPost(t, gdb, "Post", "Author", nil, time.Now())

	if _, err := svc.React(post.ID, 1, "like"); err != nil {
		t.Fatalf("first reaction: %v", err)
	}

	// 同一用户再次表态只是改类型，不新增行
	counts, err := svc.React(post.ID, 1, "love")
	if err != nil {
		t.Fatalf("second reaction: %v", err)
	}

	var rows int64
	gdb.Model(&db.Reaction{}).Count(&rows)
	if rows != 1 {
		t.Fatalf("expected one reaction row, got %d", rows)
	}
	if len(counts) != 1 || counts[0].Type != "love" || counts[0].Count != 1 {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestReactionService_CountsGroupByType(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewReactionService(gdb)

	post := seedPost(t, gdb, "Post", "Author", nil, time.Now())
	other := seedPost(t, gdb, "Other", "Author", nil, time.Now())

	if _, err := svc.React(post.ID, 1, "like"); err != nil {
		t.Fatalf("react: %v", err)
	}
	if _, err := svc.React(post.ID, 2, "like"); err != nil {
		t.Fatalf("react: %v", err)
	}
	if _, err := svc.React(post.ID, 3, "laugh"); err != nil {
		t.Fatalf("react: %v", err)
	}
	// 其它文章的表态不计入
	if _, err := svc.React(other.ID, 1, "like"); err != nil {
		t.Fatalf("react: %v", err)
	}

	counts, err := svc.Counts(post.ID)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}

	if len(counts) != 2 {
		t.Fatalf("expected 2 types, got %+v", counts)
	}
	if counts[0].Type != "laugh" || counts[0].Count != 1 {
		t.Fatalf("expected laugh=1 first, got %+v", counts[0])
	}
	if counts[1].Type != "like" || counts[1].Count != 2 {
		t.Fatalf("expected like=2, got %+v", counts[1])
	}
}

func TestReactionService_CountsEmptyForUntouchedPost(t *testing.T) {
	gdb := setupServiceTestDB(t)
	svc := NewReactionService(gdb)

	post := seedPost(t, gdb, "Quiet", "Author", nil, time.Now())

	counts, err := svc.Counts(post.ID)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(counts) != 0 {
		t.Fatalf("expected no counts, got %+v", counts)
	}
}
