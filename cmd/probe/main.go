// Command probe lists the monitors the realtime API returns for a stop, with
// the index and line id to put into a sensor entry.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/samirrijal/wienermonitor/internal/adapters/wienerlinien"
	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
	"github.com/samirrijal/wienermonitor/internal/pkg/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.WienerLinienConfig{}
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "probe STOP_ID...",
		Short: "Show the monitors of one or more Wiener Linien stops",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := wienerlinien.NewClient(cfg)
			for _, arg := range args {
				stopID, err := strconv.Atoi(arg)
				if err != nil || stopID <= 0 {
					return fmt.Errorf("invalid stop id %q", arg)
				}
				doc, err := client.FetchMonitors(cmd.Context(), stopID)
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if err := enc.Encode(doc); err != nil {
						return err
					}
					continue
				}
				printMonitors(cmd, stopID, doc)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Endpoint, "endpoint", "https://www.wienerlinien.at/ogd_realtime/monitor", "monitor endpoint")
	flags.StringVar(&cfg.StopParam, "stop-param", "stopid", "stop query parameter (stopid or rbl)")
	flags.StringVar(&cfg.APIKey, "api-key", os.Getenv("WIENERMONITOR_WIENERLINIEN_API_KEY"), "sender key, if the endpoint needs one")
	flags.IntVar(&cfg.Timeout, "timeout", 10, "request timeout in seconds")
	flags.BoolVar(&asJSON, "json", false, "print the decoded document instead of a table")

	return cmd
}

func printMonitors(cmd *cobra.Command, stopID int, doc *domain.MonitorDocument) {
	out := cmd.OutOrStdout()
	monitors := doc.Monitors()
	if len(monitors) == 0 {
		fmt.Fprintf(out, "stop %d: no monitors\n\n", stopID)
		return
	}

	fmt.Fprintf(out, "stop %d: %d monitors\n", stopID, len(monitors))
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tLINE ID\tNAME\tFIRST\tNEXT")
	for i := range monitors {
		lineID := "-"
		if line, ok := monitors[i].FirstLine(); ok && line.LineID != nil {
			lineID = strconv.Itoa(*line.LineID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, lineID, usecases.DisplayName(doc, i),
			departureCell(doc, i, domain.ModeFirst), departureCell(doc, i, domain.ModeNext))
	}
	_ = w.Flush()
	fmt.Fprintln(out)
}

func departureCell(doc *domain.MonitorDocument, index int, mode domain.Mode) string {
	s := usecases.Extract(doc, index, mode, domain.DepartureSnapshot{})
	if s.Timestamp == nil {
		return "-"
	}
	cell := usecases.FormatState(*s.Timestamp)
	if s.Countdown != nil {
		cell += fmt.Sprintf(" (%d min)", *s.Countdown)
	}
	return cell
}
