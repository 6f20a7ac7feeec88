package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nfrund/toybattle/internal/events"
	"github.com/nfrund/toybattle/internal/pubsub"
	"github.com/spf13/cobra"
)

var (
	topicsOutputFormat string
	topicsModuleFilter string
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Inspect the event topics",
}

var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every topic a match publishes",
	Long: `List the topics published on the event bus and streamed to WebSocket
clients, with the JSON fields of each payload.

Examples:
  toybattle topics list
  toybattle topics list --format json
  toybattle topics list --module match`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Streams subscribe to exactly these topics; referencing them keeps
		// the event package's registrations linked in.
		streamed := make(map[string]bool)
		for _, name := range events.AllTopics() {
			streamed[name] = true
		}

		var list []pubsub.TopicInfo
		for _, info := range pubsub.Topics() {
			if topicsModuleFilter == "" || info.Module == topicsModuleFilter {
				list = append(list, info)
			}
		}

		out := cmd.OutOrStdout()
		switch topicsOutputFormat {
		case "json":
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(struct {
				Topics []pubsub.TopicInfo `json:"topics"`
				Count  int                `json:"count"`
			}{Topics: list, Count: len(list)})
		case "table":
		default:
			return fmt.Errorf("unknown format %q: use table or json", topicsOutputFormat)
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		defer w.Flush()
		fmt.Fprintln(w, "NAME\tMODULE\tSTREAMED\tDESCRIPTION\tFIELDS")
		fmt.Fprintln(w, "----\t------\t--------\t-----------\t------")
		if len(list) == 0 {
			fmt.Fprintln(w, "No topics found")
		}
		for _, info := range list {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n",
				info.Name, info.Module, streamed[info.Name],
				truncateString(info.Description, 40),
				strings.Join(info.PayloadFields, ","))
		}
		return nil
	},
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func init() {
	rootCmd.AddCommand(topicsCmd)
	topicsCmd.AddCommand(topicsListCmd)

	topicsListCmd.Flags().StringVarP(&topicsOutputFormat, "format", "f", "table", "Output format: table or json")
	topicsListCmd.Flags().StringVarP(&topicsModuleFilter, "module", "m", "", "Only topics of this module")
}
