package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdihub/pdihub/client"
)

func newInspectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspection",
		Short: "Manage pre-delivery inspections",
	}
	cmd.AddCommand(inspectionListCmd())
	cmd.AddCommand(inspectionGetCmd())
	cmd.AddCommand(inspectionCreateCmd())
	cmd.AddCommand(inspectionSaveSectionCmd())
	cmd.AddCommand(inspectionSubmitCmd())
	cmd.AddCommand(inspectionCompleteCmd())
	cmd.AddCommand(inspectionDeleteCmd())
	return cmd
}

func inspectionListCmd() *cobra.Command {
	var status, inspector string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inspections",
		Run: func(cmd *cobra.Command, args []string) {
			opts := &client.ListInspectionOptions{
				Status:         status,
				InspectorEmail: inspector,
				Limit:          limit,
				Offset:         offset,
			}
			inspections, hasMore, err := apiClient.Inspections.List(context.Background(), opts)
			if err != nil {
				fatal("list inspections", err)
			}
			if flagFmt == "table" {
				headers := []string{"ID", "NUMBER", "STATUS", "INSPECTOR", "DATE"}
				var rows [][]string
				for _, i := range inspections {
					date := ""
					if i.InspectionDate != nil {
						date = i.InspectionDate.Format("2006-01-02")
					}
					rows = append(rows, []string{i.ID, i.Number, i.Status, i.InspectorEmail, date})
				}
				formatTable(headers, rows)
				if hasMore {
					fmt.Println("(more results available)")
				}
				return
			}
			output(map[string]any{"inspections": inspections, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Filter by status: draft|completed")
	cmd.Flags().StringVar(&inspector, "inspector", "", "Filter by inspector email")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Result offset")
	return cmd
}

func inspectionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single inspection",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			insp, err := apiClient.Inspections.Get(context.Background(), args[0])
			if err != nil {
				fatal("get inspection", err)
			}
			output(insp, insp.ID)
		},
	}
}

func inspectionCreateCmd() *cobra.Command {
	var name, email, date string
	var retentionDays int
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Start a new draft inspection",
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.CreateInspectionRequest{
				InspectorName:  name,
				InspectorEmail: email,
				RetentionDays:  retentionDays,
			}
			if date != "" {
				t, err := parseDate(date)
				if err != nil {
					fatal("parse date", err)
				}
				req.InspectionDate = &t
			}
			insp, err := apiClient.Inspections.Create(context.Background(), req)
			if err != nil {
				fatal("create inspection", err)
			}
			output(insp, insp.ID)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Inspector name")
	cmd.Flags().StringVar(&email, "email", "", "Inspector email")
	cmd.Flags().StringVar(&date, "date", "", "Inspection date (2006-01-02 or RFC 3339)")
	cmd.Flags().IntVar(&retentionDays, "retention-days", 0, "Data retention window in days (0 = server default)")
	cmd.MarkFlagRequired("name")  //nolint:errcheck
	cmd.MarkFlagRequired("email") //nolint:errcheck
	cmd.MarkFlagRequired("date")  //nolint:errcheck
	return cmd
}

func inspectionSaveSectionCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "save-section <id> <section>",
		Short: "Save one section of a draft from a JSON payload",
		Long: "Saves a single named section (inspector_info, vehicle_info, location,\n" +
			"barcode, photos, checklist, signatures) of a draft inspection. Other\n" +
			"sections are left untouched.",
		Args: cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			payload, err := readJSONPayload(file)
			if err != nil {
				fatal("read payload", err)
			}
			insp, err := apiClient.Inspections.SaveSection(context.Background(), args[0], args[1], payload)
			if err != nil {
				fatal("save section", err)
			}
			output(insp, fmt.Sprintf("%d", insp.Revision))
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON payload file ('-' for stdin)")
	return cmd
}

func inspectionSubmitCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a full inspection aggregate",
		Long: "Runs full validation over the aggregate. A payload without an ID is\n" +
			"created directly as completed; an existing draft has every section\n" +
			"saved. A validation failure names the form step to return to.",
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := readJSONPayload(file)
			if err != nil {
				fatal("read payload", err)
			}
			var insp client.Inspection
			if err := json.Unmarshal(raw, &insp); err != nil {
				fatal("decode payload", err)
			}
			result, err := apiClient.Inspections.Submit(context.Background(), &insp)
			if err != nil {
				if step, ok := client.FailingStep(err); ok {
					fmt.Fprintf(os.Stderr, "Validation failed at step %d\n", step)
				}
				fatal("submit inspection", err)
			}
			output(result, result.Number)
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "JSON payload file ('-' for stdin)")
	return cmd
}

func inspectionCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Transition a draft to completed (admin only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			insp, err := apiClient.Inspections.Complete(context.Background(), args[0])
			if err != nil {
				fatal("complete inspection", err)
			}
			output(insp, insp.Number)
		},
	}
}

func inspectionDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an inspection (admin only)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Inspections.Delete(context.Background(), args[0]); err != nil {
				fatal("delete inspection", err)
			}
			output(map[string]bool{"deleted": true}, args[0])
		},
	}
}

// readJSONPayload reads a JSON document from the given file, or stdin when
// the name is "-".
func readJSONPayload(file string) (json.RawMessage, error) {
	var data []byte
	var err error
	if file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
