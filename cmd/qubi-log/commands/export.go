package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/qubi-robotics/qubi-go/pkg/log"
)

// RunExport exports the capture file to the specified format.
func RunExport(path, format, output string) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}
	defer reader.Close()

	// Determine output writer
	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "jsonl":
		return exportJSONL(reader, w)
	case "csv":
		return exportCSV(reader, w)
	default:
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}
}

// jsonEvent mirrors log.Event with string enums for readable export.
type jsonEvent struct {
	Timestamp  string `json:"timestamp"`
	EndpointID string `json:"endpoint_id"`
	Direction  string `json:"direction"`
	Category   string `json:"category"`
	RemoteAddr string `json:"remote_addr,omitempty"`
	ModuleID   string `json:"module_id,omitempty"`
	Action     string `json:"action,omitempty"`
	Status     int    `json:"status,omitempty"`
	Size       int    `json:"size,omitempty"`
	Error      string `json:"error,omitempty"`
}

func toJSONEvent(ev log.Event) jsonEvent {
	return jsonEvent{
		Timestamp:  ev.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		EndpointID: ev.EndpointID,
		Direction:  ev.Direction.String(),
		Category:   ev.Category.String(),
		RemoteAddr: ev.RemoteAddr,
		ModuleID:   ev.ModuleID,
		Action:     ev.Action,
		Status:     ev.Status,
		Size:       ev.Size,
		Error:      ev.Error,
	}
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toJSONEvent(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "endpoint_id", "direction", "category", "remote_addr", "module_id", "action", "status", "size", "error"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		status := ""
		if event.Status != 0 {
			status = strconv.Itoa(event.Status)
		}
		size := ""
		if event.Size != 0 {
			size = strconv.Itoa(event.Size)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.EndpointID,
			event.Direction.String(),
			event.Category.String(),
			event.RemoteAddr,
			event.ModuleID,
			event.Action,
			status,
			size,
			event.Error,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}
