package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/config"
	"github.com/jesses-code-adventures/quote/internal/database"
	"github.com/jesses-code-adventures/quote/internal/service"
)

const integrationQuote = `client_name: Acme Strata
site_address: 1 Beach Rd
state:
  window_lines:
    - id: w1
      window_type_id: std1
      panes: 10
      inside: true
  pressure_lines:
    - id: p1
      surface_id: driveway
      area_sqm: 50
`

func TestIntegrationQuoteCommands(t *testing.T) {
	tempDir := t.TempDir()

	cfg := &config.Config{
		DatabaseURL:        filepath.Join(tempDir, "test.db"),
		DatabaseDriver:     "sqlite3",
		DevMode:            true,
		GSTRate:            0.10,
		HourlyRate:         80,
		PressureHourlyRate: 90,
		MinimumJob:         150,
		HighReachPercent:   40,
		SetupBufferMinutes: 15,
		BusinessName:       "Test Cleaning Co",
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	quoteService := service.NewQuoteService(db, cfg, catalog.Default())

	quoteFile := filepath.Join(tempDir, "quote.yaml")
	if err := os.WriteFile(quoteFile, []byte(integrationQuote), 0o644); err != nil {
		t.Fatalf("Failed to write quote file: %v", err)
	}

	// execute runs one command line on a fresh command tree so flag values
	// do not carry over between runs.
	execute := func(t *testing.T, args ...string) (string, error) {
		t.Helper()
		var runErr error
		output := captureOutput(func() {
			rootCmd := newRootCmd(quoteService)
			rootCmd.SetArgs(args)
			runErr = rootCmd.ExecuteContext(ctx)
		})
		return output, runErr
	}

	expectOutput := func(t *testing.T, args []string, wants ...string) {
		t.Helper()
		output, err := execute(t, args...)
		if err != nil {
			t.Fatalf("%v failed: %v", args, err)
		}
		for _, want := range wants {
			if !strings.Contains(output, want) {
				t.Errorf("Expected %q in output of %v, got: %s", want, args, output)
			}
		}
	}

	t.Run("Quote Calc", func(t *testing.T) {
		expectOutput(t, []string{"calc", "-f", quoteFile},
			"Quote for Acme Strata", "Standard 1x1 (small) - 10 panes", "$138.33", "$152.16")
	})

	t.Run("Quote Calc JSON", func(t *testing.T) {
		expectOutput(t, []string{"calc", "-f", quoteFile, "--json"}, `"line_items"`, `"total": 152.16`)
	})

	t.Run("Quote Export", func(t *testing.T) {
		csvPath := filepath.Join(tempDir, "lines.csv")
		expectOutput(t, []string{"export", "-f", quoteFile, "-o", csvPath}, "Exported 2 line items")
		data, err := os.ReadFile(csvPath)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(string(data), "ID,Type,Description,Minutes,Amount") {
			t.Errorf("Unexpected CSV: %s", data)
		}

		xlsxPath := filepath.Join(tempDir, "lines.xlsx")
		expectOutput(t, []string{"export", "-f", quoteFile, "-o", xlsxPath}, "Exported 2 line items")
		if _, err := os.Stat(xlsxPath); err != nil {
			t.Errorf("Expected workbook at %s: %v", xlsxPath, err)
		}
	})

	t.Run("Quote PDF", func(t *testing.T) {
		pdfPath := filepath.Join(tempDir, "quote.pdf")
		expectOutput(t, []string{"pdf", "-f", quoteFile, "-o", pdfPath}, "Generated quote", "$152.16")
		if _, err := os.Stat(pdfPath); err != nil {
			t.Errorf("Expected PDF at %s: %v", pdfPath, err)
		}
	})

	t.Run("Catalog", func(t *testing.T) {
		expectOutput(t, []string{"catalog", "windows", "-c", "fixed"}, "std1", "Standard 1x1 (small)")
		if _, err := execute(t, "catalog", "prices"); err == nil {
			t.Error("Expected an error for an unknown catalog section")
		}
	})

	t.Run("Jobs Create", func(t *testing.T) {
		expectOutput(t, []string{"jobs", "create", "-f", quoteFile, "-d", "2026-03-04"},
			"Created job JOB-1", "Acme Strata", "2 items", "$152.16")
	})

	t.Run("Jobs List", func(t *testing.T) {
		expectOutput(t, []string{"jobs", "list"}, "JOB-1", "scheduled")
		expectOutput(t, []string{"jobs", "list", "-p", "week", "-d", "2026-03-05"}, "JOB-1")
		expectOutput(t, []string{"jobs", "list", "-p", "day", "-d", "2026-03-05"}, "No jobs found.")
	})

	t.Run("Jobs Lifecycle", func(t *testing.T) {
		expectOutput(t, []string{"jobs", "start", "JOB-1", "--at", "2026-03-04 09:00"}, "Job JOB-1 is now in-progress")
		expectOutput(t, []string{"jobs", "item", "JOB-1", "p1", "--price", "120", "--reason", "extra oil stains"}, "job total $168.66")
		expectOutput(t, []string{"jobs", "item", "1", "w1", "--status", "completed", "--note", "north side only"}, "Marked w1 completed")
		expectOutput(t, []string{"jobs", "item", "1", "p1", "--note", "moss on steps"}, "Added note to p1")
		expectOutput(t, []string{"jobs", "pause", "1", "--at", "2026-03-04 10:00", "--reason", "ladder swap"}, "Job JOB-1 is now paused")
		expectOutput(t, []string{"jobs", "resume", "1", "--at", "2026-03-04 10:00"}, "Job JOB-1 is now in-progress")

		output, err := execute(t, "jobs", "issue", "add", "1", "Cracked pane in lounge", "--severity", "high")
		if err != nil {
			t.Fatal(err)
		}
		fields := strings.Fields(output)
		if len(fields) != 4 || fields[1] != "high" {
			t.Fatalf("Unexpected issue output: %q", output)
		}
		expectOutput(t, []string{"jobs", "issue", "resolve", "1", fields[3], "Client will call a glazier"}, "Resolved issue")
		if _, err := execute(t, "jobs", "issue", "add", "1", "Loose gutter", "--severity", "urgent"); err == nil {
			t.Error("Expected an error for an unknown severity")
		}

		output, err = execute(t, "jobs", "note", "add", "1", "Side gate code 4321")
		if err != nil {
			t.Fatal(err)
		}
		noteID := strings.TrimSpace(strings.TrimPrefix(output, "Added note "))
		expectOutput(t, []string{"jobs", "note", "remove", "1", noteID}, "Removed note")
		expectOutput(t, []string{"jobs", "note", "add", "1", "Oil stain near garage", "--item", "p1"}, "Added note")

		if _, err := execute(t, "jobs", "complete", "1", "--rating", "6"); err == nil {
			t.Error("Expected an error for a rating above 5")
		}
		expectOutput(t, []string{"jobs", "complete", "1", "--at", "2026-03-04 11:30", "--client-name", "Pat", "--rating", "5"},
			"Job JOB-1 is now completed", "Final total: $168.66 (estimated $152.16)")
		expectOutput(t, []string{"jobs", "show", "JOB-1"}, "Duration: 2h 30m", "Progress: 50%", "extra oil stains",
			"note: north side only", "note: moss on steps", "Paused: ladder swap", "[p1]  Oil stain near garage",
			"Issues (0 open):", "Signed off by: Pat", "Rating: 5/5")
		if output, _ := execute(t, "jobs", "show", "JOB-1"); strings.Contains(output, "Side gate code 4321") {
			t.Error("Removed note is still shown")
		}

		if _, err := execute(t, "jobs", "start", "JOB-1"); err == nil {
			t.Error("Expected an error starting a completed job")
		}
		if _, err := execute(t, "jobs", "item", "JOB-1", "w1"); err == nil {
			t.Error("Expected an error without --status, --price or --note")
		}
	})

	t.Run("Jobs Stats", func(t *testing.T) {
		expectOutput(t, []string{"jobs", "stats"}, "Jobs: 1", "Revenue: $168.66", "Average completion time: 2h 30m", "Average rating: 5/5")
	})

	t.Run("Jobs Export", func(t *testing.T) {
		out := filepath.Join(tempDir, "jobs.csv")
		expectOutput(t, []string{"jobs", "export", "-o", out}, "Exported 1 jobs")
		data, err := os.ReadFile(out)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "JOB-1,Acme Strata,completed,2026-03-04") {
			t.Errorf("Unexpected jobs CSV: %s", data)
		}
	})

	t.Run("Jobs Delete", func(t *testing.T) {
		expectOutput(t, []string{"jobs", "delete", "JOB-1"}, "Deleted job JOB-1")
		expectOutput(t, []string{"jobs", "list"}, "No jobs found.")
	})
}

func captureOutput(f func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf strings.Builder
		io.Copy(&buf, r)
		done <- buf.String()
	}()

	f()

	w.Close()
	os.Stdout = old
	return <-done
}
