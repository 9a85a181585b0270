package engine

import (
	"context"
	"testing"
	"time"

	"github.com/electwix/querystash/pkg/query"
)

type userRecord struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

func TestResultDecodeIntoSlice(t *testing.T) {
	db := &stubDatabase{identity: "stub:app", rows: []Row{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": "bob"},
	}}
	eng := newTestEngine()

	res, err := eng.Run(context.Background(), db, query.New(query.KindSelect, "SELECT * FROM users"))
	if err != nil {
		t.Fatal(err)
	}

	var users []userRecord
	if err := res.Decode(&users); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(users) != 2 || users[0].Name != "alice" || users[1].ID != 2 {
		t.Errorf("unexpected decode result: %+v", users)
	}
}

func TestResultDecodeAfterCacheRoundTrip(t *testing.T) {
	db := &stubDatabase{identity: "stub:app", rows: []Row{
		{"id": int64(7), "name": "carol"},
	}}
	eng := newTestEngine()
	ctx := context.Background()

	q := query.New(query.KindSelect, "SELECT * FROM users").Cached(time.Minute)
	if _, err := eng.Run(ctx, db, q); err != nil {
		t.Fatal(err)
	}
	cached, err := eng.Run(ctx, db, q)
	if err != nil {
		t.Fatal(err)
	}
	if !cached.FromCache() {
		t.Fatal("expected second run to hit the cache")
	}

	var users []userRecord
	if err := cached.Decode(&users); err != nil {
		t.Fatalf("Decode of cached rows failed: %v", err)
	}
	if len(users) != 1 || users[0].ID != 7 || users[0].Name != "carol" {
		t.Errorf("unexpected decode result: %+v", users)
	}
}

func TestResultHydratedTypedShape(t *testing.T) {
	db := &stubDatabase{identity: "stub:app", rows: []Row{
		{"id": int64(1), "name": "alice"},
		{"id": int64(2), "name": "bob"},
	}}
	eng := newTestEngine()

	q := query.New(query.KindSelect, "SELECT * FROM users").
		Typed(func() any { return &userRecord{} })

	res, err := eng.Run(context.Background(), db, q)
	if err != nil {
		t.Fatal(err)
	}

	hydrated, err := res.Hydrated()
	if err != nil {
		t.Fatalf("Hydrated failed: %v", err)
	}
	if len(hydrated) != 2 {
		t.Fatalf("expected 2 hydrated rows, got %d", len(hydrated))
	}
	first, ok := hydrated[0].(*userRecord)
	if !ok {
		t.Fatalf("expected *userRecord, got %T", hydrated[0])
	}
	if first.ID != 1 || first.Name != "alice" {
		t.Errorf("unexpected first row: %+v", first)
	}
}

func TestResultHydratedAssocShape(t *testing.T) {
	db := &stubDatabase{identity: "stub:app", rows: userRows()}
	eng := newTestEngine()

	res, err := eng.Run(context.Background(), db, query.New(query.KindSelect, "SELECT * FROM users"))
	if err != nil {
		t.Fatal(err)
	}

	hydrated, err := res.Hydrated()
	if err != nil {
		t.Fatalf("Hydrated failed: %v", err)
	}
	row, ok := hydrated[0].(Row)
	if !ok {
		t.Fatalf("expected Row, got %T", hydrated[0])
	}
	if row["name"] != "alice" {
		t.Errorf("unexpected row: %+v", row)
	}
}

func TestCodecRoundTrip(t *testing.T) {
	rows := []Row{
		{"id": int64(1), "tags": []any{"a", "b"}, "meta": map[string]any{"k": "v"}},
	}
	payload, err := encodeRows(rows)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	decoded, err := decodeRows(payload)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(decoded) != 1 {
		t.Fatalf("expected 1 row, got %d", len(decoded))
	}
	meta, ok := decoded[0]["meta"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested map, got %T", decoded[0]["meta"])
	}
	if meta["k"] != "v" {
		t.Errorf("nested value lost: %+v", meta)
	}
}

func TestDecodeRowsRejectsGarbage(t *testing.T) {
	if _, err := decodeRows([]byte("\xc1garbage")); err == nil {
		t.Fatal("expected decode error for invalid payload")
	}
}
