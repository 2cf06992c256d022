package store

import (
	"context"
	"testing"

	"github.com/erazemk/backoffice/internal/db"
	"github.com/erazemk/backoffice/internal/model"
)

func TestSaveAndGetImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	key, err := SaveImage(ctx, database, []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if len(key) != 36 {
		t.Errorf("expected uuid key, got %q", key)
	}

	data, mime, err := GetImage(ctx, database, key)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 2 || mime != "image/jpeg" {
		t.Errorf("unexpected image: %v %q", data, mime)
	}

	data, _, err = GetImage(ctx, database, "missing")
	if err != nil || data != nil {
		t.Errorf("expected nil image for missing key, got %v, %v", data, err)
	}

	if err := deleteImages(ctx, database, []string{key, ""}); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := GetImage(ctx, database, key); data != nil {
		t.Error("expected image deleted")
	}
}

func TestDeleteImageKeepsReferenced(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := newUser(t, database, "o@example.com", model.RoleManager)

	key, err := SaveImage(ctx, database, []byte{0xff, 0xd8}, "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	c := newBatch(t, database, owner.ID, model.TypeConsignment, "2026-10-19", 1000)
	if _, err := AppendItemImage(ctx, database, c.Items[0].ID,
		func(it *model.Item) *[]string { return &it.ConditionImages }, key); err != nil {
		t.Fatal(err)
	}

	if err := DeleteImage(ctx, database, key); err != nil {
		t.Fatal(err)
	}
	if data, _, _ := GetImage(ctx, database, key); data == nil {
		t.Error("expected referenced image kept")
	}
}
