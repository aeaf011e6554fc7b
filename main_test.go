package main

import (
	"context"
	"path/filepath"
	"testing"

	"estate-scraper/config"
	"estate-scraper/models"
	"estate-scraper/notify"
	"estate-scraper/services"
	"estate-scraper/storage"
	"estate-scraper/utils"
)

type recordingNotifier struct {
	subjects []string
}

func (n *recordingNotifier) NotifyRunResult(_ context.Context, subject, _ string) error {
	n.subjects = append(n.subjects, subject)
	return nil
}

func TestProcessFailureReachesNotifier(t *testing.T) {
	fake := &recordingNotifier{}
	orig := newNotifier
	newNotifier = func(context.Context, *config.Config, *utils.Logger) (notify.Notifier, error) {
		return fake, nil
	}
	defer func() { newNotifier = orig }()

	cfg := &config.Config{ResultsDir: filepath.Join(t.TempDir(), "missing")}
	logger := utils.NewLogger()

	err := runProcess(context.Background(), cfg, logger, nil)
	if err == nil {
		t.Fatal("expected error for a results tree with no raw files")
	}
	if len(fake.subjects) != 1 {
		t.Fatalf("notifier calls: got %d, want 1", len(fake.subjects))
	}
	if fake.subjects[0] != "estate-scraper: processing failure" {
		t.Errorf("subject: got %q", fake.subjects[0])
	}
}

func TestReprocessFailureReachesNotifier(t *testing.T) {
	fake := &recordingNotifier{}
	orig := newNotifier
	newNotifier = func(context.Context, *config.Config, *utils.Logger) (notify.Notifier, error) {
		return fake, nil
	}
	defer func() { newNotifier = orig }()

	cfg := &config.Config{ResultsDir: filepath.Join(t.TempDir(), "missing")}
	logger := utils.NewLogger()

	err := runReprocess(context.Background(), cfg, logger, nil)
	if err == nil {
		t.Fatal("expected error for a results tree with no raw files")
	}
	if len(fake.subjects) != 1 {
		t.Fatalf("notifier calls: got %d, want 1", len(fake.subjects))
	}
}

type fakeListingSource struct {
	listings []models.Listing
	calls    int
}

func (f *fakeListingSource) FetchAll() ([]models.Listing, error) {
	f.calls++
	return f.listings, nil
}

func TestInsightListingsPrefersDatabase(t *testing.T) {
	src := &fakeListingSource{listings: []models.Listing{
		{Site: "imotbg", City: models.CitySofia},
		{Site: "homesbg", City: models.CitySofia},
	}}

	got, err := insightListings(src, nil)
	if err != nil {
		t.Fatalf("insightListings: %v", err)
	}
	if src.calls != 1 {
		t.Errorf("FetchAll calls: got %d, want 1", src.calls)
	}
	if len(got) != 2 {
		t.Errorf("listings: got %d, want 2", len(got))
	}
}

func TestInsightListingsFallsBackToProcessedFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2026-03-15.csv")
	w, err := storage.NewProcessedCSVWriter(path)
	if err != nil {
		t.Fatalf("NewProcessedCSVWriter: %v", err)
	}
	if err := w.Write([]models.Listing{{Site: "imotbg", City: models.CitySofia, DetailsURL: "https://www.imot.bg/obiavi/1"}}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	stats := []*services.ProcessStats{{OutPath: path}}
	got, err := insightListings(nil, stats)
	if err != nil {
		t.Fatalf("insightListings: %v", err)
	}
	if len(got) != 1 || got[0].Site != "imotbg" {
		t.Fatalf("listings: got %+v, want one imotbg listing", got)
	}
}
