package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jesses-code-adventures/quote/internal/models"
	"github.com/jesses-code-adventures/quote/internal/money"
	"github.com/jesses-code-adventures/quote/internal/service"
)

func newJobsCmd(quoteService *service.QuoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Track jobs created from quotes",
		Long:  "Create jobs from quotes, move them through scheduled, in-progress, paused, completed and invoiced, and reconcile actual prices against the estimate.",
	}

	cmd.AddCommand(
		newJobsCreateCmd(quoteService),
		newJobsListCmd(quoteService),
		newJobsShowCmd(quoteService),
		newJobTransitionCmd("start", "Start a scheduled job", quoteService.StartJob),
		newJobsPauseCmd(quoteService),
		newJobTransitionCmd("resume", "Resume a paused job", quoteService.ResumeJob),
		newJobsCompleteCmd(quoteService),
		newJobsCancelCmd(quoteService),
		newJobsInvoiceCmd(quoteService),
		newJobsItemCmd(quoteService),
		newJobsNoteCmd(quoteService),
		newJobsIssueCmd(quoteService),
		newJobsDeleteCmd(quoteService),
		newJobsExportCmd(quoteService),
		newJobsStatsCmd(quoteService),
	)

	return cmd
}

func newJobsCreateCmd(quoteService *service.QuoteService) *cobra.Command {
	var file, client, date string
	var useBreakdown bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a job from a quote file",
		Long:  "Price a quote file and create a scheduled job with one item per quote line. With --use-breakdown the job keeps the quote's subtotal, GST and total instead of summing its items.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			q, err := quoteService.LoadQuote(file)
			if err != nil {
				return err
			}
			scheduled, err := service.ParseDate(date, quoteService.Now())
			if err != nil {
				return err
			}

			job, err := quoteService.CreateJob(ctx, service.CreateJobParams{
				Quote:         q,
				ClientName:    client,
				ScheduledDate: scheduled,
				UseBreakdown:  useBreakdown,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created job %s for %s on %s (%d items, estimated %s)\n",
				job.JobNumber, job.ClientName, job.Schedule.ScheduledDate.Format("2006-01-02"),
				len(job.Items), money.FormatCurrency(job.Pricing.EstimatedTotal))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Quote file (YAML)")
	cmd.Flags().StringVarP(&client, "client", "c", "", "Client name (overrides the quote file)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Scheduled date (YYYY-MM-DD, default: today)")
	cmd.Flags().BoolVar(&useBreakdown, "use-breakdown", false, "Keep the quote's subtotal, GST and total")
	cmd.MarkFlagRequired("file")

	return cmd
}

func newJobsListCmd(quoteService *service.QuoteService) *cobra.Command {
	var period, date, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Long:  "List jobs newest first, or the jobs scheduled in a day, week, fortnight or month with -p. Filter by status with -s.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var list []*models.Job
			var err error
			if period != "" {
				list, err = quoteService.ListJobsForPeriod(ctx, period, date, models.JobStatus(status))
			} else {
				list, err = quoteService.ListJobs(ctx, models.JobStatus(status))
			}
			if err != nil {
				return err
			}

			quoteService.PrintJobList(cmd.OutOrStdout(), list)
			return nil
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", "", "Period type: day, week, fortnight, month")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Date in the period (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only show jobs with this status")

	return cmd
}

func newJobsShowCmd(quoteService *service.QuoteService) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job>",
		Short: "Show a job's items and pricing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := quoteService.GetJob(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			quoteService.PrintJob(cmd.OutOrStdout(), job)
			return nil
		},
	}
}

type jobTransition func(ctx context.Context, ref, at string) (*models.Job, error)

func newJobTransitionCmd(use, short string, apply jobTransition) *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   use + " <job>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := apply(cmd.Context(), args[0], at)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Job %s is now %s\n", job.JobNumber, job.Status)
			if job.Status == models.JobCompleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Final total: %s (estimated %s)\n",
					money.FormatCurrency(job.Pricing.ActualTotal), money.FormatCurrency(job.Pricing.EstimatedTotal))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Time of the change (HH:MM or YYYY-MM-DD HH:MM, default: now)")

	return cmd
}

func newJobsPauseCmd(quoteService *service.QuoteService) *cobra.Command {
	var reason string
	cmd := newJobTransitionCmd("pause", "Pause a running job", func(ctx context.Context, ref, at string) (*models.Job, error) {
		return quoteService.PauseJob(ctx, ref, at, reason)
	})
	cmd.Flags().StringVar(&reason, "reason", "", "Why the job was paused (added as a note)")
	return cmd
}

func newJobsCompleteCmd(quoteService *service.QuoteService) *cobra.Command {
	var completion models.JobCompletion
	cmd := newJobTransitionCmd("complete", "Complete a job and finalise its pricing", func(ctx context.Context, ref, at string) (*models.Job, error) {
		return quoteService.CompleteJob(ctx, ref, at, completion)
	})
	cmd.Flags().StringVar(&completion.ClientName, "client-name", "", "Name of the client signing off")
	cmd.Flags().StringVar(&completion.ClientSignature, "signature", "", "Client signature reference")
	cmd.Flags().StringVar(&completion.Feedback, "feedback", "", "Client feedback")
	cmd.Flags().IntVar(&completion.Rating, "rating", 0, "Client rating from 1 to 5 (0: not rated)")
	return cmd
}

func newJobsCancelCmd(quoteService *service.QuoteService) *cobra.Command {
	var reason string
	cmd := newJobTransitionCmd("cancel", "Cancel a job that has not been invoiced", func(ctx context.Context, ref, at string) (*models.Job, error) {
		return quoteService.CancelJob(ctx, ref, at, reason)
	})
	cmd.Flags().StringVar(&reason, "reason", "", "Why the job was cancelled")
	return cmd
}

func newJobsInvoiceCmd(quoteService *service.QuoteService) *cobra.Command {
	var invoiceID string
	cmd := newJobTransitionCmd("invoice", "Mark a completed job as invoiced", func(ctx context.Context, ref, at string) (*models.Job, error) {
		return quoteService.InvoiceJob(ctx, ref, at, invoiceID)
	})
	cmd.Flags().StringVar(&invoiceID, "invoice-id", "", "Invoice number to record against the job")
	return cmd
}

func newJobsItemCmd(quoteService *service.QuoteService) *cobra.Command {
	var status, reason, note string
	var price float64

	cmd := &cobra.Command{
		Use:   "item <job> <item>",
		Short: "Mark a job item done, adjust its price or note it",
		Long:  "Mark an item completed or skipped with --status, or set its actual price with --price and --reason. The job's actual pricing is recalculated. --note records a note on the item.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			priceSet := cmd.Flags().Changed("price")
			if status == "" && !priceSet && note == "" {
				return fmt.Errorf("one of --status, --price or --note is required")
			}

			var job *models.Job
			var err error
			if priceSet {
				if reason == "" {
					return fmt.Errorf("--reason is required when adjusting a price")
				}
				if job, err = quoteService.AdjustItemPrice(ctx, args[0], args[1], price, reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Adjusted %s to %s (job total %s)\n",
					args[1], money.FormatCurrency(price), money.FormatCurrency(job.Pricing.ActualTotal))
			}
			if status != "" {
				if job, err = quoteService.SetItemStatus(ctx, args[0], args[1], models.ItemStatus(status), note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", args[1], status)
			} else if note != "" {
				if _, err = quoteService.AddItemNote(ctx, args[0], args[1], note); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added note to %s\n", args[1])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "New item status: completed or skipped")
	cmd.Flags().Float64Var(&price, "price", 0, "Actual price for the item")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the price adjustment")
	cmd.Flags().StringVar(&note, "note", "", "Note to record on the item")

	return cmd
}

func newJobsNoteCmd(quoteService *service.QuoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Add or remove job notes",
	}

	var itemID string
	add := &cobra.Command{
		Use:   "add <job> <text>",
		Short: "Add a note to a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, err := quoteService.AddNote(cmd.Context(), args[0], args[1], itemID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %s\n", note.ID)
			return nil
		},
	}
	add.Flags().StringVar(&itemID, "item", "", "Job item the note refers to")

	remove := &cobra.Command{
		Use:   "remove <job> <note-id>",
		Short: "Remove a note from a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := quoteService.RemoveNote(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed note %s\n", args[1])
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newJobsIssueCmd(quoteService *service.QuoteService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Record and resolve problems found on site",
	}

	var severity string
	add := &cobra.Command{
		Use:   "add <job> <description>",
		Short: "Record an issue on a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			issue, err := quoteService.AddIssue(cmd.Context(), args[0], args[1], models.IssueSeverity(severity))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s issue %s\n", issue.Severity, issue.ID)
			return nil
		},
	}
	add.Flags().StringVar(&severity, "severity", string(models.IssueMedium), "Issue severity: low, medium or high")

	resolve := &cobra.Command{
		Use:   "resolve <job> <issue-id> <resolution>",
		Short: "Mark an issue resolved",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := quoteService.ResolveIssue(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Resolved issue %s\n", args[1])
			return nil
		},
	}

	cmd.AddCommand(add, resolve)
	return cmd
}

func newJobsDeleteCmd(quoteService *service.QuoteService) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <job>",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := quoteService.DeleteJob(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted job %s\n", args[0])
			return nil
		},
	}
}

func newJobsExportCmd(quoteService *service.QuoteService) *cobra.Command {
	var output, status string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export jobs to CSV or Excel",
		Long:  "Export jobs with estimated and actual pricing. An .xlsx output writes a workbook; anything else writes CSV. Without -o the CSV goes to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := quoteService.ListJobs(cmd.Context(), models.JobStatus(status))
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs found to export.")
				return nil
			}

			if err := quoteService.ExportJobs(cmd.OutOrStdout(), output, list); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d jobs to %s\n", len(list), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.csv or .xlsx, default: stdout)")
	cmd.Flags().StringVarP(&status, "status", "s", "", "Only export jobs with this status")

	return cmd
}

func newJobsStatsCmd(quoteService *service.QuoteService) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show job counts and recent revenue",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := quoteService.JobStats(cmd.Context())
			if err != nil {
				return err
			}
			quoteService.PrintStats(cmd.OutOrStdout(), m)
			return nil
		},
	}
}
