package sectionstore

import (
	"testing"

	"github.com/dalemusser/stratahandbook/internal/domain/models"
	"github.com/dalemusser/stratahandbook/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	if store == nil {
		t.Fatal("New() returned nil")
	}
}

func TestStore_Save_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sec := models.Section{
		ID:    "welfare",
		Title: "복리후생",
		Icon:  "gift",
		Order: 3,
		Subsections: []models.Subsection{
			{Title: "연차", Blocks: []models.ContentBlock{{Kind: models.BlockParagraph, Value: "15일"}}},
		},
	}

	if err := store.Save(ctx, sec); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "welfare")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != sec.Title || got.Order != 3 {
		t.Errorf("Get() = %+v", got)
	}
	if got.Icon != "" {
		t.Errorf("Icon should not be persisted, got %q", got.Icon)
	}
	if len(got.Subsections) != 1 || got.Subsections[0].ID == "" {
		t.Fatalf("subsection id not backfilled: %+v", got.Subsections)
	}
	if got.Subsections[0].Blocks[0].ID == "" {
		t.Error("block id not backfilled")
	}
	if got.UpdatedAt == nil {
		t.Error("UpdatedAt should be set")
	}
}

func TestStore_Save_OmitsEmptyFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, models.Section{ID: "it", Title: "IT", Subsections: []models.Subsection{{ID: "s1", Title: "메일"}}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var raw bson.M
	if err := db.Collection("sections").FindOne(ctx, bson.M{"_id": "it"}).Decode(&raw); err != nil {
		t.Fatalf("FindOne() error = %v", err)
	}
	for _, k := range []string{"description", "hero_image", "children", "icon"} {
		if _, ok := raw[k]; ok {
			t.Errorf("field %q should be omitted", k)
		}
	}
	sub := raw["subsections"].(bson.A)[0].(bson.M)
	for _, k := range []string{"content", "blocks", "media", "archive_json"} {
		if _, ok := sub[k]; ok {
			t.Errorf("subsection field %q should be omitted", k)
		}
	}
}

func TestStore_Save_Replaces(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Save(ctx, models.Section{ID: "faq", Title: "FAQ", Subsections: []models.Subsection{{ID: "a", Title: "A"}, {ID: "b", Title: "B"}}})
	if err := store.Save(ctx, models.Section{ID: "faq", Title: "자주 묻는 질문", Subsections: []models.Subsection{{ID: "b", Title: "B"}}}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _ := store.Get(ctx, "faq")
	if got.Title != "자주 묻는 질문" || len(got.Subsections) != 1 || got.Subsections[0].ID != "b" {
		t.Errorf("Save() did not replace: %+v", got)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}

func TestStore_Save_RequiresID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, models.Section{Title: "no id"}); err == nil {
		t.Error("Save() without id should fail")
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Get(ctx, "missing"); err != ErrNotFound {
		t.Errorf("Get() error = %v, want %v", err, ErrNotFound)
	}
	exists, err := store.Exists(ctx, "missing")
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v; want false, nil", exists, err)
	}
}

func TestStore_LoadAll_Order(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store.Save(ctx, models.Section{ID: "faq", Title: "FAQ", Order: 5})
	store.Save(ctx, models.Section{ID: "company", Title: "회사", Order: 1})
	store.Save(ctx, models.Section{ID: "it", Title: "IT", Order: 2})

	all, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	want := []string{"company", "it", "faq"}
	if len(all) != len(want) {
		t.Fatalf("LoadAll() returned %d sections, want %d", len(all), len(want))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("section %d = %s, want %s", i, all[i].ID, id)
		}
	}
}

func TestStore_LegacyContentDecodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Documents written before the block editor hold content as a string or
	// an array of strings and may lack subsection ids.
	_, err := db.Collection("sections").InsertOne(ctx, bson.M{
		"_id":   "legacy",
		"title": "예전",
		"order": 1,
		"subsections": bson.A{
			bson.M{"title": "문자열", "content": "첫 줄\n둘째 줄"},
			bson.M{"title": "배열", "content": bson.A{"a", "b", 3}},
		},
	})
	if err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	got, err := store.Get(ctx, "legacy")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if lines := got.Subsections[0].Content.Lines(); len(lines) != 2 {
		t.Errorf("string content lines = %v", lines)
	}
	if c := got.Subsections[1].Content; len(c) != 2 || c[0] != "a" || c[1] != "b" {
		t.Errorf("array content = %v", c)
	}
	for _, sub := range got.Subsections {
		if sub.ID == "" {
			t.Error("missing subsection id not backfilled on load")
		}
	}
}
