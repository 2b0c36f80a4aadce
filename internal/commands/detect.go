package commands

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/naka-dai/box-access-audit/internal/models"
	"github.com/naka-dai/box-access-audit/internal/service"
)

var detectJSON bool

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run anomaly detection over an event batch read from stdin",
	Long: `Reads one JSON event per line from stdin (the shape an external
event-store collaborator exports), runs the aggregation and detection
pipeline, and prints the anomaly summary. With --json the full anomaly
records are printed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := decodeEvents(cmd.InOrStdin())
		if err != nil {
			return err
		}

		svc, err := service.New(cfg, logger)
		if err != nil {
			return err
		}
		report := svc.Run(events)

		out := cmd.OutOrStdout()
		if detectJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report.Anomalies)
		}

		fmt.Fprintln(out, report.Summary)
		return nil
	},
}

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "print anomaly records as JSON")
	rootCmd.AddCommand(detectCmd)
}

// decodeEvents reads newline-delimited JSON events. Blank lines are
// allowed; a malformed line aborts with its line number.
func decodeEvents(r io.Reader) ([]models.Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	events := make([]models.Event, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event models.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			return nil, fmt.Errorf("line %d: failed to decode event: %w", lineNo, err)
		}
		events = append(events, event)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}

	return events, nil
}
