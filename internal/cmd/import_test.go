package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aromalab/retailgen/internal/models"
)

func TestValidateHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		wantErr string
	}{
		{
			name:   "exact match",
			header: []string{"invoice_id", "customer_id", "invoice_date", "product_id", "quantity", "revenue", "store_id"},
		},
		{
			name:   "legacy net_amount accepted",
			header: []string{"invoice_id", "customer_id", "invoice_date", "product_id", "quantity", "net_amount", "store_id"},
		},
		{
			name:   "legacy qty accepted",
			header: []string{"invoice_id", "customer_id", "invoice_date", "product_id", "qty", "revenue", "store_id"},
		},
		{
			name:   "both legacy names together",
			header: []string{"invoice_id", "customer_id", "invoice_date", "product_id", "qty", "net_amount", "store_id"},
		},
		{
			name:   "case and whitespace tolerated",
			header: []string{"Invoice_ID", " customer_id", "invoice_date", "product_id", "quantity", "revenue", "store_id "},
		},
		{
			name:    "unknown column rejected",
			header:  []string{"invoice_id", "customer_id", "invoice_date", "product_id", "quantity", "gross_amount", "store_id"},
			wantErr: "unexpected column",
		},
		{
			name:    "wrong column count rejected",
			header:  []string{"invoice_id", "customer_id", "invoice_date"},
			wantErr: "expected 7",
		},
		{
			name:    "reordered columns rejected",
			header:  []string{"customer_id", "invoice_id", "invoice_date", "product_id", "quantity", "revenue", "store_id"},
			wantErr: "unexpected column",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHeader(tt.header, models.SaleColumns, salesHeaderAliases)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateHeader() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("validateHeader() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCheckCSVHeader(t *testing.T) {
	dir := t.TempDir()
	tbl := tablesToLoad[2] // raw_sales_transactions

	writeFile := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("ValidFile", func(t *testing.T) {
		path := writeFile("ok.csv", "invoice_id,customer_id,invoice_date,product_id,qty,net_amount,store_id\n1-202401-00001,1,2024-01-05,10,2,24.00,S0001\n")
		if err := checkCSVHeader(path, tbl); err != nil {
			t.Errorf("checkCSVHeader() error = %v", err)
		}
	})

	t.Run("UnknownColumn", func(t *testing.T) {
		path := writeFile("bad.csv", "invoice_id,customer_id,invoice_date,product_id,quantity,price,store_id\n")
		if err := checkCSVHeader(path, tbl); err == nil {
			t.Error("checkCSVHeader() = nil, want error for unknown column")
		}
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := writeFile("empty.csv", "")
		err := checkCSVHeader(path, tbl)
		if err == nil || !strings.Contains(err.Error(), "empty file") {
			t.Errorf("checkCSVHeader() = %v, want empty file error", err)
		}
	})
}

func TestEnsureLocalInfileEnabled(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "no params",
			dsn:  "user:pass@tcp(localhost:3306)/crm",
			want: "user:pass@tcp(localhost:3306)/crm?allowAllFiles=true",
		},
		{
			name: "existing params",
			dsn:  "user:pass@tcp(localhost:3306)/crm?parseTime=true",
			want: "user:pass@tcp(localhost:3306)/crm?parseTime=true&allowAllFiles=true",
		},
		{
			name: "already enabled",
			dsn:  "user:pass@tcp(localhost:3306)/crm?allowAllFiles=true",
			want: "user:pass@tcp(localhost:3306)/crm?allowAllFiles=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ensureLocalInfileEnabled(tt.dsn); got != tt.want {
				t.Errorf("ensureLocalInfileEnabled(%q) = %q, want %q", tt.dsn, got, tt.want)
			}
		})
	}
}

func TestMaskDSN(t *testing.T) {
	got := maskDSN("user:secret@tcp(localhost:3306)/crm")
	if strings.Contains(got, "secret") {
		t.Errorf("maskDSN leaked password: %q", got)
	}
	if !strings.Contains(got, "user:***@") {
		t.Errorf("maskDSN() = %q, want masked form", got)
	}
}

func TestFindShardedFiles(t *testing.T) {
	dir := t.TempDir()
	names := []string{
		"sales_transactions_002.csv",
		"sales_transactions_000.csv",
		"sales_transactions_001.csv",
		"customers.csv",
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("ShardsSorted", func(t *testing.T) {
		files := findShardedFiles(dir, "sales_transactions")
		if len(files) != 3 {
			t.Fatalf("found %d shards, want 3", len(files))
		}
		wantOrder := []string{"sales_transactions_000.csv", "sales_transactions_001.csv", "sales_transactions_002.csv"}
		for i, f := range files {
			if filepath.Base(f) != wantOrder[i] {
				t.Errorf("shard %d = %s, want %s", i, filepath.Base(f), wantOrder[i])
			}
		}
	})

	t.Run("NoShardsForSingleFile", func(t *testing.T) {
		if files := findShardedFiles(dir, "customers"); len(files) != 0 {
			t.Errorf("found %d shards for customers, want 0", len(files))
		}
	})

	t.Run("CompressedShardsPreferred", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "sales_transactions_000.csv.xz"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		files := findShardedFiles(dir, "sales_transactions")
		if len(files) != 1 || !strings.HasSuffix(files[0], ".csv.xz") {
			t.Errorf("files = %v, want the single compressed shard", files)
		}
	})
}

func TestSplitSQLStatements(t *testing.T) {
	content := `-- comment line
CREATE TABLE a (
    id BIGINT
);

ALTER TABLE a ADD PRIMARY KEY (id);
`
	stmts := splitSQLStatements(content)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(stmts))
	}
	if !strings.Contains(stmts[0], "CREATE TABLE a") {
		t.Errorf("first statement = %q", stmts[0])
	}
	if strings.Contains(stmts[0], "comment") {
		t.Errorf("comment not stripped: %q", stmts[0])
	}
	if !strings.Contains(stmts[1], "ADD PRIMARY KEY") {
		t.Errorf("second statement = %q", stmts[1])
	}
}

func TestEmbeddedSchemas(t *testing.T) {
	for _, name := range []string{"schemas/schema.sql", "schemas/schema_no_indexes.sql", "schemas/schema_indexes.sql"} {
		content, err := schemaFS.ReadFile(name)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		if len(content) == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	// The bulk-load schema must cover every table the importer loads.
	tables, _ := schemaFS.ReadFile("schemas/schema_no_indexes.sql")
	for _, tbl := range tablesToLoad {
		if !strings.Contains(string(tables), "CREATE TABLE "+tbl.name) {
			t.Errorf("schema_no_indexes.sql missing table %s", tbl.name)
		}
	}
}
