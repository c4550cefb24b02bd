package remotestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"techscout/internal/catalog"
	"techscout/internal/logging"
)

// stubDB answers the function-call upsert with undefined_function and
// accepts everything else.
type stubDB struct {
	mu    sync.Mutex
	execs []string
}

func (d *stubDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.mu.Lock()
	d.execs = append(d.execs, sql)
	d.mu.Unlock()
	if strings.Contains(sql, "SELECT upsert_tech_stack") {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: pgUndefinedFunction}
	}
	return pgconn.CommandTag{}, nil
}

func (d *stubDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("stubDB: no query support")
}

func (d *stubDB) Close() {}

func (d *stubDB) execLog() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.execs...)
}

func TestUpsertFallsBackWhenFunctionMissing(t *testing.T) {
	db := &stubDB{}
	store := newStore(db, Config{}, logging.NewNop())
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = store.Upsert(ctx, catalog.Record{Name: fmt.Sprintf("Tech %d", i)})
		}()
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("Upsert %d: %v", i, err)
		}
	}

	before := len(db.execLog())
	if err := store.Upsert(ctx, catalog.Record{Name: "Svelte"}); err != nil {
		t.Fatalf("Upsert after fallback: %v", err)
	}
	execs := db.execLog()
	if got := len(execs) - before; got != 1 {
		t.Fatalf("expected 1 statement once the function is known missing, got %d", got)
	}
	if last := execs[len(execs)-1]; !strings.Contains(last, "INSERT INTO techs") {
		t.Fatalf("expected plain upsert, got %q", last)
	}
}

func TestUpsertPrefersFunctionWhenInstalled(t *testing.T) {
	db := &stubDB{}
	// stubDB only rejects the default function name.
	store := newStore(db, Config{UpsertFunction: "merge_tech"}, logging.NewNop())
	if err := store.Upsert(context.Background(), catalog.Record{Name: "React"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	execs := db.execLog()
	if len(execs) != 1 || !strings.Contains(execs[0], "SELECT merge_tech") {
		t.Fatalf("execs = %q", execs)
	}
	if store.fnMissing.Load() {
		t.Fatal("fnMissing latched without an undefined_function error")
	}
}

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := Connect(context.Background(), Config{}, logging.NewNop()); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestEncodeJSONColumns(t *testing.T) {
	record := catalog.Record{
		Name:               "React",
		ProjectSuitability: []string{"single page apps"},
		LearningDifficulty: catalog.LearningDifficulty{Label: "intermediate", Stars: []bool{true, true, true, false, false}},
		LearningResources: []catalog.LearningResource{
			{URL: "https://react.dev", Type: catalog.ResourceDocumentation, Title: "React Docs"},
		},
	}

	suitability, difficulty, resources, err := encodeJSONColumns(record)
	if err != nil {
		t.Fatalf("encodeJSONColumns: %v", err)
	}

	var gotSuitability []string
	if err := json.Unmarshal(suitability, &gotSuitability); err != nil {
		t.Fatalf("decode suitability: %v", err)
	}
	if len(gotSuitability) != 1 || gotSuitability[0] != "single page apps" {
		t.Fatalf("suitability = %v", gotSuitability)
	}

	var gotDifficulty catalog.LearningDifficulty
	if err := json.Unmarshal(difficulty, &gotDifficulty); err != nil {
		t.Fatalf("decode difficulty: %v", err)
	}
	if gotDifficulty.Label != "intermediate" {
		t.Fatalf("difficulty = %+v", gotDifficulty)
	}

	var gotResources []catalog.LearningResource
	if err := json.Unmarshal(resources, &gotResources); err != nil {
		t.Fatalf("decode resources: %v", err)
	}
	if len(gotResources) != 1 || gotResources[0].Type != catalog.ResourceDocumentation {
		t.Fatalf("resources = %+v", gotResources)
	}
}

func TestEncodeJSONColumnsEmptyRecord(t *testing.T) {
	suitability, difficulty, resources, err := encodeJSONColumns(catalog.Record{Name: "X"})
	if err != nil {
		t.Fatalf("encodeJSONColumns: %v", err)
	}
	for name, col := range map[string][]byte{
		"project_suitability": suitability,
		"learning_difficulty": difficulty,
		"learning_resources":  resources,
	} {
		if !json.Valid(col) {
			t.Fatalf("%s is not valid JSON: %s", name, col)
		}
	}
}
