package session

import (
	"testing"
	"time"

	"bizsight/pkg/core/dataset"
	"bizsight/pkg/core/insight"
	"bizsight/pkg/core/simulate"
)

func testDataset() *dataset.Dataset {
	records := []dataset.Record{
		{Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), ProductName: "A", Revenue: 100, Cost: 50, Profit: 50},
	}
	return dataset.New(records,
		dataset.FieldDate, dataset.FieldProduct, dataset.FieldRevenue,
		dataset.FieldCost, dataset.FieldProfit)
}

func TestCreateAndGet(t *testing.T) {
	mgr := GetManager()
	s := mgr.Create("alice")
	if s.ID == "" {
		t.Fatal("Expected a session id")
	}
	if s.Username != "alice" {
		t.Errorf("Expected username alice, got %q", s.Username)
	}

	got, ok := mgr.Get(s.ID)
	if !ok || got.ID != s.ID {
		t.Error("Get should return the created session")
	}
	if _, ok := mgr.Get("nonexistent"); ok {
		t.Error("Get should miss on an unknown id")
	}
	mgr.Drop(s.ID)
}

func TestAttachDatasetDiscardsCachedResults(t *testing.T) {
	mgr := GetManager()
	s := mgr.Create("")
	defer mgr.Drop(s.ID)

	mgr.AttachDataset(s.ID, testDataset(), "q1.csv")
	mgr.RecordSimulation(s.ID, simulate.ProfitComparison{OriginalProfit: 50})
	mgr.RecordInsight(s.ID, insight.Result{Status: insight.StatusOK})

	// A second upload replaces the state wholesale: the cached simulation
	// and insight belonged to the old dataset.
	mgr.AttachDataset(s.ID, testDataset(), "q2.csv")
	got, _ := mgr.Get(s.ID)
	if got.SourceFilename != "q2.csv" {
		t.Errorf("Expected filename q2.csv, got %q", got.SourceFilename)
	}
	if got.LastSimulation != nil || got.LastInsight != nil {
		t.Error("Cached results should not survive a new upload")
	}
	if got.CreatedAt != s.CreatedAt {
		t.Error("CreatedAt should survive a new upload")
	}
}

func TestAttachDatasetUnknownSession(t *testing.T) {
	if _, ok := GetManager().AttachDataset("nope", testDataset(), "x.csv"); ok {
		t.Error("Attach to an unknown session should fail")
	}
}

func TestReset(t *testing.T) {
	mgr := GetManager()
	s := mgr.Create("bob")
	defer mgr.Drop(s.ID)

	mgr.AttachDataset(s.ID, testDataset(), "data.csv")
	if !mgr.Reset(s.ID) {
		t.Fatal("Reset should succeed for a live session")
	}

	got, _ := mgr.Get(s.ID)
	if !got.Dataset.Empty() {
		t.Error("Reset should clear the dataset")
	}
	if got.ID != s.ID || got.Username != "bob" {
		t.Error("Reset should keep the identity")
	}
	if mgr.Reset("nonexistent") {
		t.Error("Reset should fail for an unknown session")
	}
}
