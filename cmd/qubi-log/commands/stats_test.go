package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/qubi-robotics/qubi-go/pkg/log"
)

func TestStatsTotalEvents(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryDatagram},
		{Timestamp: ts, Category: log.CategoryDatagram},
		{Timestamp: ts, Category: log.CategoryDispatch},
	}

	path := createTestCaptureFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Total Events: 3") {
		t.Errorf("expected 3 total events, got:\n%s", output)
	}
	if !strings.Contains(output, "DATAGRAM:") {
		t.Error("expected DATAGRAM category in output")
	}
	if !strings.Contains(output, "DISPATCH:") {
		t.Error("expected DISPATCH category in output")
	}
}

func TestStatsCountsModules(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryDispatch, ModuleID: "arm1", Action: "set_servo"},
		{Timestamp: ts.Add(time.Second), Category: log.CategoryDispatch, ModuleID: "arm1", Action: "set_servo"},
		{Timestamp: ts, Category: log.CategoryDispatch, ModuleID: "face1", Action: "set_eyes"},
	}

	path := createTestCaptureFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Modules: 2") {
		t.Errorf("expected 2 modules, got:\n%s", output)
	}
	if !strings.Contains(output, "[arm1] 2 events") {
		t.Errorf("expected arm1 module details, got:\n%s", output)
	}
	if !strings.Contains(output, "set_servo: 2") {
		t.Errorf("expected per-action counts, got:\n%s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: start, Category: log.CategoryState},
		{Timestamp: end, Category: log.CategoryState},
	}

	path := createTestCaptureFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Duration:") {
		t.Error("expected Duration in output")
	}
	if !strings.Contains(output, "1h0m0s") {
		t.Errorf("expected 1h0m0s duration, got:\n%s", output)
	}
}

func TestStatsTraffic(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryDatagram, Direction: log.DirectionIn, Size: 100},
		{Timestamp: ts, Category: log.CategoryDatagram, Direction: log.DirectionIn, Size: 50},
		{Timestamp: ts, Category: log.CategoryDatagram, Direction: log.DirectionOut, Size: 80},
	}

	path := createTestCaptureFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Traffic: 150 bytes in, 80 bytes out") {
		t.Errorf("expected traffic totals, got:\n%s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryDatagram},
		{Timestamp: ts, Category: log.CategoryError, Error: "decode failed"},
		{Timestamp: ts, Category: log.CategoryError, Error: "send failed"},
	}

	path := createTestCaptureFile(t, events)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Errors: 2") {
		t.Errorf("expected 2 errors, got:\n%s", output)
	}
}
