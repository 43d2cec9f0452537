package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jesses-code-adventures/quote/internal/catalog"
	"github.com/jesses-code-adventures/quote/internal/config"
	"github.com/jesses-code-adventures/quote/internal/database"
	"github.com/jesses-code-adventures/quote/internal/jobs"
	"github.com/jesses-code-adventures/quote/internal/models"
)

var fixedNow = time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

const testQuote = `
client_name: Acme Strata
site_address: 1 Beach Rd
notes: Gate code 1234
state:
  window_lines:
    - window_type_id: std1
      panes: 10
      inside: true
  pressure_lines:
    - surface_id: driveway
      area_sqm: 50
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabaseURL:        filepath.Join(t.TempDir(), "test.db"),
		DatabaseDriver:     "sqlite3",
		GSTRate:            0.10,
		HourlyRate:         80,
		PressureHourlyRate: 90,
		MinimumJob:         150,
		HighReachPercent:   40,
		SetupBufferMinutes: 15,
		BusinessName:       "Test Cleaning Co",
		BillingBank:        "Test Bank",
		BillingBSB:         "000-000",
	}
}

func newTestService(t *testing.T) *QuoteService {
	t.Helper()
	cfg := testConfig(t)
	db, err := database.NewDB(cfg)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	svc := NewQuoteService(db, cfg, catalog.Default())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func parseTestQuote(t *testing.T, svc *QuoteService, doc string) *models.Quote {
	t.Helper()
	q, err := svc.ParseQuote(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseQuote: %v", err)
	}
	return q
}

func TestParseQuoteKeepsDefaults(t *testing.T) {
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote+"  hourly_rate: 100\n")

	if q.State.HourlyRate != 100 {
		t.Errorf("hourly rate = %v, want 100 from the file", q.State.HourlyRate)
	}
	if q.State.PressureHourlyRate != 90 || q.State.MinimumJob != 150 || q.State.SetupBufferMinutes != 15 {
		t.Errorf("defaults not kept: %+v", q.State)
	}
	if q.ID == "" {
		t.Error("quote id should be generated")
	}
	if q.State.WindowLines[0].ID != "w1" || q.State.PressureLines[0].ID != "p1" {
		t.Errorf("line ids = %s, %s", q.State.WindowLines[0].ID, q.State.PressureLines[0].ID)
	}
}

func TestParseQuoteEmptyAndInvalid(t *testing.T) {
	svc := newTestService(t)
	q := parseTestQuote(t, svc, "")
	if q.State.HourlyRate != 80 || len(q.State.WindowLines) != 0 {
		t.Errorf("empty quote = %+v", q.State)
	}
	if _, err := svc.ParseQuote(strings.NewReader("state: [oops")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestCalculateAndPrintQuote(t *testing.T) {
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote)

	result, err := svc.CalculateQuote(q)
	if err != nil {
		t.Fatal(err)
	}
	if result.Subtotal != 138.33 || result.GST != 13.83 || result.Total != 152.16 {
		t.Errorf("totals = %v/%v/%v, want 138.33/13.83/152.16", result.Subtotal, result.GST, result.Total)
	}
	if result.Money.Total != 150 || result.Money.MinimumJob != 150 {
		t.Errorf("minimum job not applied: %+v", result.Money)
	}
	if result.Time.TotalMinutes != 110 {
		t.Errorf("total minutes = %v, want 110", result.Time.TotalMinutes)
	}

	var out bytes.Buffer
	svc.PrintQuote(&out, q, result)
	for _, want := range []string{
		"Quote for Acme Strata",
		"Standard 1x1 (small) - 10 panes",
		"Concrete Driveway - 50m²",
		"$138.33",
		"GST (10%)",
		"$152.16",
		"Minimum job applies",
		"Estimated time: 1h 50m",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	if err := svc.PrintQuoteJSON(&out, result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"total": 152.16`) {
		t.Errorf("JSON output = %s", out.String())
	}
}

func TestCalculateQuoteRejectsNonFinite(t *testing.T) {
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote+"  base_fee: .nan\n")
	if _, err := svc.CalculateQuote(q); err == nil {
		t.Error("NaN base fee should fail")
	}
}

func TestJobLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote)

	scheduled, err := ParseDate("2026-03-04", fixedNow)
	if err != nil {
		t.Fatal(err)
	}
	job, err := svc.CreateJob(ctx, CreateJobParams{Quote: q, ScheduledDate: scheduled})
	if err != nil {
		t.Fatal(err)
	}
	if job.JobNumber != "JOB-1" || job.ClientName != "Acme Strata" || job.Status != models.JobScheduled {
		t.Errorf("created job = %+v", job)
	}
	if len(job.Items) != 2 || job.Items[0].ID != "w1" || job.Items[1].ID != "p1" {
		t.Fatalf("items = %+v", job.Items)
	}
	if job.Pricing.EstimatedTotal != 152.16 {
		t.Errorf("estimated total = %v, want 152.16", job.Pricing.EstimatedTotal)
	}

	for _, ref := range []string{"JOB-1", "1", "job-1", job.ID} {
		got, err := svc.GetJob(ctx, ref)
		if err != nil {
			t.Errorf("GetJob(%q): %v", ref, err)
			continue
		}
		if got.ID != job.ID {
			t.Errorf("GetJob(%q) = %s", ref, got.ID)
		}
	}

	if _, err := svc.StartJob(ctx, "1", "09:00"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetItemStatus(ctx, "1", "w1", models.ItemCompleted, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetItemStatus(ctx, "1", "w1", models.ItemSkipped, ""); !errors.Is(err, jobs.ErrItemFinalised) {
		t.Errorf("second status change: %v, want ErrItemFinalised", err)
	}
	if _, err := svc.AdjustItemPrice(ctx, "1", "p1", 120, "extra oil stains"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.PauseJob(ctx, "1", "10:00", "ladder swap"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ResumeJob(ctx, "1", "10:15"); err != nil {
		t.Fatal(err)
	}
	done, err := svc.CompleteJob(ctx, "1", "11:30", models.JobCompletion{ClientName: "Pat", Feedback: "Great job", Rating: 5})
	if err != nil {
		t.Fatal(err)
	}

	if done.Status != models.JobCompleted {
		t.Errorf("status = %s", done.Status)
	}
	if done.Schedule.ActualDuration == nil || *done.Schedule.ActualDuration != 150 {
		t.Errorf("duration = %v, want 150", done.Schedule.ActualDuration)
	}
	p := done.Pricing
	if p.ActualSubtotal != 153.33 || p.ActualGST != 15.33 || p.ActualTotal != 168.66 {
		t.Errorf("actual pricing = %+v, want 153.33/15.33/168.66", p)
	}
	if p.EstimatedTotal != 152.16 {
		t.Errorf("estimated total changed to %v", p.EstimatedTotal)
	}

	stored, err := svc.GetJob(ctx, "JOB-1")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != models.JobCompleted || stored.Items[1].AdjustReason != "extra oil stains" {
		t.Errorf("stored job = %+v", stored)
	}

	var out bytes.Buffer
	svc.PrintJob(&out, stored)
	for _, want := range []string{"JOB-1", "Acme Strata", "Duration: 2h 30m", "Progress: 50%", "$168.66", "extra oil stains",
		"Paused: ladder swap", "Signed off by: Pat", "Rating: 5/5", "Feedback: Great job"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("job output missing %q:\n%s", want, out.String())
		}
	}

	invoiced, err := svc.InvoiceJob(ctx, "1", "", "INV-0007")
	if err != nil {
		t.Fatal(err)
	}
	if invoiced.InvoiceID != "INV-0007" {
		t.Errorf("invoice id = %q", invoiced.InvoiceID)
	}
	if _, err := svc.CancelJob(ctx, "1", "", ""); !errors.Is(err, jobs.ErrInvalidTransition) {
		t.Errorf("cancel invoiced job: %v, want ErrInvalidTransition", err)
	}

	m, err := svc.JobStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m.TotalJobs != 1 || m.CompletedJobs != 1 || m.TotalRevenue != 168.66 || m.AverageCompletionTime != 150 {
		t.Errorf("stats = %+v", m)
	}
	if m.AverageRating != 5 {
		t.Errorf("average rating = %v, want 5", m.AverageRating)
	}
	out.Reset()
	svc.PrintStats(&out, m)
	if !strings.Contains(out.String(), "Average rating: 5/5") {
		t.Errorf("stats output missing rating:\n%s", out.String())
	}
}

func TestJobNotesAndIssues(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote)
	if _, err := svc.CreateJob(ctx, CreateJobParams{Quote: q, ScheduledDate: fixedNow}); err != nil {
		t.Fatal(err)
	}

	note, err := svc.AddNote(ctx, "1", "Side gate code 4321", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddNote(ctx, "1", "Oil stain near garage", "p1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddItemNote(ctx, "1", "w1", "fly screens removed"); err != nil {
		t.Fatal(err)
	}
	issue, err := svc.AddIssue(ctx, "1", "Cracked pane in lounge", models.IssueHigh)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddIssue(ctx, "1", "Loose gutter", models.IssueLow); err != nil {
		t.Fatal(err)
	}
	if err := svc.ResolveIssue(ctx, "1", issue.ID, "Client will call a glazier"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveNote(ctx, "1", note.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.RemoveNote(ctx, "1", note.ID); !errors.Is(err, jobs.ErrNoteNotFound) {
		t.Errorf("removing twice: %v, want ErrNoteNotFound", err)
	}

	stored, err := svc.GetJob(ctx, "JOB-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored.Notes) != 2 || stored.Notes[0].Text != "Gate code 1234" || stored.Notes[1].ItemID != "p1" {
		t.Errorf("stored notes = %+v", stored.Notes)
	}
	if stored.Items[0].Notes != "fly screens removed" {
		t.Errorf("item notes = %q", stored.Items[0].Notes)
	}
	if len(stored.Issues) != 2 || !stored.Issues[0].Resolved || stored.Issues[1].Resolved {
		t.Errorf("stored issues = %+v", stored.Issues)
	}

	var out bytes.Buffer
	svc.PrintJob(&out, stored)
	for _, want := range []string{"Oil stain near garage", "[p1]", "note: fly screens removed",
		"Issues (1 open):", "[high, resolved] Cracked pane in lounge", "resolution: Client will call a glazier"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("job output missing %q:\n%s", want, out.String())
		}
	}

	cancelled, err := svc.CancelJob(ctx, "1", "", "client away")
	if err != nil {
		t.Fatal(err)
	}
	if cancelled.CancelReason != "client away" || cancelled.Notes[len(cancelled.Notes)-1].Text != "Cancelled: client away" {
		t.Errorf("cancelled job = %q, notes %+v", cancelled.CancelReason, cancelled.Notes)
	}
}

func TestCreateJobWithBreakdown(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote+"  base_fee: 20\n")

	plain, err := svc.CreateJob(ctx, CreateJobParams{Quote: q, ClientName: "Override", ScheduledDate: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	if plain.ClientName != "Override" || plain.Pricing.EstimatedTotal != 152.16 {
		t.Errorf("item-priced job = %s %v", plain.ClientName, plain.Pricing.EstimatedTotal)
	}

	quoted, err := svc.CreateJob(ctx, CreateJobParams{Quote: q, ScheduledDate: fixedNow, UseBreakdown: true})
	if err != nil {
		t.Fatal(err)
	}
	if quoted.JobNumber != "JOB-2" {
		t.Errorf("job number = %s, want JOB-2", quoted.JobNumber)
	}
	p := quoted.Pricing
	if p.EstimatedSubtotal != 158.33 || p.EstimatedGST != 15.83 || p.EstimatedTotal != 174.16 || p.ActualTotal != 174.16 {
		t.Errorf("breakdown pricing = %+v", p)
	}
}

func TestListJobsForPeriodAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote)

	for _, date := range []string{"2026-03-02", "2026-03-04", "2026-03-10"} {
		d, err := ParseDate(date, fixedNow)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := svc.CreateJob(ctx, CreateJobParams{Quote: q, ScheduledDate: d}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := svc.CancelJob(ctx, "2", "", ""); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		period, date string
		status       models.JobStatus
		want         []string
	}{
		{"week", "2026-03-04", "", []string{"JOB-1", "JOB-2"}},
		{"week", "2026-03-04", models.JobScheduled, []string{"JOB-1"}},
		{"day", "2026-03-10", "", []string{"JOB-3"}},
		{"month", "2026-03-20", "", []string{"JOB-1", "JOB-2", "JOB-3"}},
		{"day", "2026-03-05", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.period+" "+tt.date+" "+string(tt.status), func(t *testing.T) {
			list, err := svc.ListJobsForPeriod(ctx, tt.period, tt.date, tt.status)
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, j := range list {
				got = append(got, j.JobNumber)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("jobs = %v, want %v", got, tt.want)
			}
		})
	}

	var out bytes.Buffer
	all, err := svc.ListJobs(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	svc.PrintJobList(&out, all)
	if !strings.Contains(out.String(), "JOB-3") || !strings.Contains(out.String(), "cancelled") {
		t.Errorf("job list:\n%s", out.String())
	}

	if err := svc.DeleteJob(ctx, "JOB-3"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetJob(ctx, "JOB-3"); err == nil {
		t.Error("deleted job still found")
	}
	if _, err := svc.ListJobsForPeriod(ctx, "week", "03/04/2026", ""); err == nil {
		t.Error("bad date should fail")
	}
}

func TestExportLineItemsCSV(t *testing.T) {
	svc := newTestService(t)
	result, err := svc.CalculateQuote(parseTestQuote(t, svc, testQuote))
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := svc.ExportLineItems(&out, "", result); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"ID,Type,Description,Minutes,Amount",
		"w1,window,Standard 1x1 (small) - 10 panes,25,33.33",
		"p1,pressure,Concrete Driveway - 50m²,70,105.00",
		",,Subtotal,,138.33",
		",,GST,,13.83",
		",,Total,110,152.16",
	}
	if len(lines) != len(want) {
		t.Fatalf("csv lines = %d, want %d:\n%s", len(lines), len(want), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}

	path := filepath.Join(t.TempDir(), "lines.csv")
	if err := svc.ExportLineItems(nil, path, result); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != out.String() {
		t.Errorf("file export differs from stdout export")
	}
}

func TestExportXLSX(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote)
	result, err := svc.CalculateQuote(q)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "lines.xlsx")
	if err := svc.ExportLineItems(nil, path, result); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != "Quote" {
		t.Errorf("sheets = %v", sheets)
	}
	if v, _ := f.GetCellValue("Quote", "A1"); v != "ID" {
		t.Errorf("A1 = %q", v)
	}
	if v, _ := f.GetCellValue("Quote", "C2"); v != "Standard 1x1 (small) - 10 panes" {
		t.Errorf("C2 = %q", v)
	}

	if _, err := svc.CreateJob(ctx, CreateJobParams{Quote: q, ScheduledDate: fixedNow}); err != nil {
		t.Fatal(err)
	}
	list, err := svc.ListJobs(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	jobsPath := filepath.Join(t.TempDir(), "jobs.xlsx")
	if err := svc.ExportJobs(nil, jobsPath, list); err != nil {
		t.Fatal(err)
	}
	jf, err := excelize.OpenFile(jobsPath)
	if err != nil {
		t.Fatal(err)
	}
	defer jf.Close()
	if v, _ := jf.GetCellValue("Jobs", "A2"); v != "JOB-1" {
		t.Errorf("A2 = %q, want JOB-1", v)
	}
}

func TestGenerateQuotePDF(t *testing.T) {
	svc := newTestService(t)
	q := parseTestQuote(t, svc, testQuote)
	result, err := svc.CalculateQuote(q)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), QuotePDFFileName("acme strata", fixedNow))
	if filepath.Base(path) != "quote_acme_strata_2026-03-04.pdf" {
		t.Errorf("file name = %s", filepath.Base(path))
	}
	if err := svc.GenerateQuotePDF(path, "", q, result); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}

	q.ClientName = ""
	if err := svc.GenerateQuotePDF(path, "", q, result); err == nil {
		t.Error("missing client name should fail")
	}
}

func TestPrintCatalog(t *testing.T) {
	svc := newTestService(t)

	var out bytes.Buffer
	if err := svc.PrintCatalog(&out, "windows", "fixed"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "std1") || strings.Contains(out.String(), "sliding_600") {
		t.Errorf("filtered window listing:\n%s", out.String())
	}

	out.Reset()
	if err := svc.PrintCatalog(&out, "", ""); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Window types:", "Pressure surfaces:", "Modifiers:", "Window addons", "fly-screen", "driveway"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("catalog output missing %q", want)
		}
	}

	if err := svc.PrintCatalog(&out, "prices", ""); err == nil {
		t.Error("unknown section should fail")
	}
}

func TestLoadCatalog(t *testing.T) {
	cat, err := LoadCatalog(&config.Config{})
	if err != nil || cat != catalog.Default() {
		t.Errorf("empty path should give the built-in catalog: %v", err)
	}
	if _, err := LoadCatalog(&config.Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("missing catalog file should fail")
	}
}
